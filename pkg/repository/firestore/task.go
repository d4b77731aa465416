package firestore

import (
	"context"
	"time"

	"cloud.google.com/go/firestore"
	"github.com/m-mizutani/goerr/v2"
	"github.com/syafiqkay/taskdeck/pkg/domain/interfaces"
	"github.com/syafiqkay/taskdeck/pkg/domain/model"
	"github.com/syafiqkay/taskdeck/pkg/domain/types"
	"google.golang.org/api/iterator"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

type taskRepository struct {
	client           *firestore.Client
	collectionPrefix string
}

func newTaskRepository(client *firestore.Client) *taskRepository {
	return &taskRepository{
		client:           client,
		collectionPrefix: "",
	}
}

func (r *taskRepository) tasksCollection() string {
	if r.collectionPrefix != "" {
		return r.collectionPrefix + "_tasks"
	}
	return "tasks"
}

func (r *taskRepository) counterCollection() string {
	if r.collectionPrefix != "" {
		return r.collectionPrefix + "_counters"
	}
	return "counters"
}

func (r *taskRepository) counterRef() *firestore.DocumentRef {
	return r.client.Collection(r.counterCollection()).Doc("task_counter")
}

func (r *taskRepository) taskRef(id types.TaskID) *firestore.DocumentRef {
	return r.client.Collection(r.tasksCollection()).Doc(id.String())
}

// newTaskRecord applies store-boundary defaults and invariants to a
// task about to be inserted.
func newTaskRecord(t *model.Task, now time.Time) (*model.Task, error) {
	created := t.Clone()
	created.Status = created.Status.Normalize()
	created.CreatedAt = now
	created.UpdatedAt = now
	if created.DueDate.IsZero() {
		created.DueDate = model.DateOf(now)
	}
	if err := created.Validate(); err != nil {
		return nil, err
	}
	return created, nil
}

func (r *taskRepository) Create(ctx context.Context, t *model.Task) (*model.Task, error) {
	created, err := newTaskRecord(t, time.Now().UTC())
	if err != nil {
		return nil, err
	}

	id, err := nextID(ctx, r.client, r.counterRef())
	if err != nil {
		return nil, goerr.Wrap(err, "failed to allocate task ID")
	}
	created.ID = types.TaskID(id)

	if _, err := r.taskRef(created.ID).Set(ctx, created); err != nil {
		return nil, goerr.Wrap(err, "failed to create task", goerr.V("id", created.ID))
	}

	return created, nil
}

func (r *taskRepository) Get(ctx context.Context, id types.TaskID) (*model.Task, error) {
	docSnap, err := r.taskRef(id).Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return nil, goerr.Wrap(interfaces.ErrNotFound, "task not found", goerr.V("id", id))
		}
		return nil, goerr.Wrap(err, "failed to get task", goerr.V("id", id))
	}

	var t model.Task
	if err := docSnap.DataTo(&t); err != nil {
		return nil, goerr.Wrap(err, "failed to decode task", goerr.V("id", id))
	}

	return &t, nil
}

func (r *taskRepository) List(ctx context.Context, opts ...interfaces.ListTaskOption) ([]*model.Task, error) {
	var filter interfaces.ListTaskFilter
	for _, opt := range opts {
		opt(&filter)
	}

	iter := r.client.Collection(r.tasksCollection()).Documents(ctx)
	defer iter.Stop()

	var tasks []*model.Task
	for {
		docSnap, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, goerr.Wrap(err, "failed to iterate tasks")
		}

		var t model.Task
		if err := docSnap.DataTo(&t); err != nil {
			return nil, goerr.Wrap(err, "failed to decode task", goerr.V("doc_id", docSnap.Ref.ID))
		}

		if filter.Match(&t) {
			tasks = append(tasks, &t)
		}
	}

	return tasks, nil
}

func (r *taskRepository) Update(ctx context.Context, t *model.Task) (*model.Task, error) {
	docRef := r.taskRef(t.ID)

	docSnap, err := docRef.Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return nil, goerr.Wrap(interfaces.ErrNotFound, "task not found", goerr.V("id", t.ID))
		}
		return nil, goerr.Wrap(err, "failed to check task existence", goerr.V("id", t.ID))
	}

	var existing model.Task
	if err := docSnap.DataTo(&existing); err != nil {
		return nil, goerr.Wrap(err, "failed to decode task", goerr.V("id", t.ID))
	}

	updated := t.Clone()
	updated.CreatedAt = existing.CreatedAt
	updated.UpdatedAt = time.Now().UTC()
	if err := updated.Validate(); err != nil {
		return nil, err
	}

	if _, err := docRef.Set(ctx, updated); err != nil {
		return nil, goerr.Wrap(err, "failed to update task", goerr.V("id", t.ID))
	}

	return updated, nil
}
