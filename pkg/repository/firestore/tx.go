package firestore

import (
	"time"

	"cloud.google.com/go/firestore"
	"github.com/m-mizutani/goerr/v2"
	"github.com/syafiqkay/taskdeck/pkg/domain/interfaces"
	"github.com/syafiqkay/taskdeck/pkg/domain/model"
	"github.com/syafiqkay/taskdeck/pkg/domain/types"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

// firestoreTx adapts a Firestore transaction to the store Tx contract.
// Firestore requires every read in a transaction to happen before the
// first write, so callers must finish LockTask/GetSprint reads before
// SaveTask/CreateTask/AddSprintTask writes. The coordinator's flows
// follow that order.
type firestoreTx struct {
	f  *Firestore
	tx *firestore.Transaction
}

var _ interfaces.Tx = &firestoreTx{}

// LockTask reads the task document within the transaction. The server
// holds a lock on the document until the transaction ends, blocking
// concurrent transactional readers of the same document.
func (t *firestoreTx) LockTask(taskID types.TaskID) (*model.Task, error) {
	docSnap, err := t.tx.Get(t.f.task.taskRef(taskID))
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return nil, goerr.Wrap(interfaces.ErrNotFound, "task not found", goerr.V("id", taskID))
		}
		return nil, goerr.Wrap(err, "failed to get task", goerr.V("id", taskID))
	}

	var task model.Task
	if err := docSnap.DataTo(&task); err != nil {
		return nil, goerr.Wrap(err, "failed to decode task", goerr.V("id", taskID))
	}

	return &task, nil
}

func (t *firestoreTx) SaveTask(task *model.Task) error {
	saved := task.Clone()
	saved.UpdatedAt = time.Now().UTC()
	if err := saved.Validate(); err != nil {
		return err
	}

	if err := t.tx.Set(t.f.task.taskRef(saved.ID), saved); err != nil {
		return goerr.Wrap(err, "failed to save task", goerr.V("id", saved.ID))
	}

	return nil
}

func (t *firestoreTx) CreateTask(task *model.Task) (*model.Task, error) {
	created, err := newTaskRecord(task, time.Now().UTC())
	if err != nil {
		return nil, err
	}

	id, err := nextIDInTx(t.tx, t.f.task.counterRef())
	if err != nil {
		return nil, goerr.Wrap(err, "failed to allocate task ID")
	}
	created.ID = types.TaskID(id)

	if err := t.tx.Set(t.f.task.taskRef(created.ID), created); err != nil {
		return nil, goerr.Wrap(err, "failed to create task", goerr.V("id", created.ID))
	}

	return created, nil
}

func (t *firestoreTx) GetSprint(id types.SprintID) (*model.Sprint, error) {
	docSnap, err := t.tx.Get(t.f.sprint.sprintRef(id))
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return nil, goerr.Wrap(interfaces.ErrNotFound, "sprint not found", goerr.V("id", id))
		}
		return nil, goerr.Wrap(err, "failed to get sprint", goerr.V("id", id))
	}

	var s model.Sprint
	if err := docSnap.DataTo(&s); err != nil {
		return nil, goerr.Wrap(err, "failed to decode sprint", goerr.V("id", id))
	}

	return &s, nil
}

// AddSprintTask writes the membership row. The document ID encodes the
// pair, so a concurrent duplicate insert overwrites an identical row
// rather than failing. No existence read happens here: reads are not
// allowed after writes in a Firestore transaction, and the coordinator
// has already read the sprint in this transaction.
func (t *firestoreTx) AddSprintTask(sprintID types.SprintID, taskID types.TaskID) error {
	doc := sprintTaskDoc{
		SprintID: sprintID,
		TaskID:   taskID,
		AddedAt:  time.Now().UTC(),
	}
	if err := t.tx.Set(t.f.sprint.membershipRef(sprintID, taskID), doc); err != nil {
		return goerr.Wrap(err, "failed to add task to sprint",
			goerr.V("sprint_id", sprintID),
			goerr.V("task_id", taskID))
	}

	return nil
}
