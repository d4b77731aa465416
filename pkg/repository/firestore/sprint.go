package firestore

import (
	"context"
	"fmt"
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

type sprintRepository struct {
	client           *firestore.Client
	collectionPrefix string
}

// sprintTaskDoc is one row of the sprint-task membership relation. The
// document ID is "<sprintID>_<taskID>", so writing the same membership
// twice overwrites an identical row instead of failing.
type sprintTaskDoc struct {
	SprintID types.SprintID
	TaskID   types.TaskID
	AddedAt  time.Time
}

func newSprintRepository(client *firestore.Client) *sprintRepository {
	return &sprintRepository{
		client:           client,
		collectionPrefix: "",
	}
}

func (r *sprintRepository) sprintsCollection() string {
	if r.collectionPrefix != "" {
		return r.collectionPrefix + "_sprints"
	}
	return "sprints"
}

func (r *sprintRepository) sprintTasksCollection() string {
	if r.collectionPrefix != "" {
		return r.collectionPrefix + "_sprint_tasks"
	}
	return "sprint_tasks"
}

func (r *sprintRepository) counterCollection() string {
	if r.collectionPrefix != "" {
		return r.collectionPrefix + "_counters"
	}
	return "counters"
}

func (r *sprintRepository) tasksCollection() string {
	if r.collectionPrefix != "" {
		return r.collectionPrefix + "_tasks"
	}
	return "tasks"
}

func (r *sprintRepository) counterRef() *firestore.DocumentRef {
	return r.client.Collection(r.counterCollection()).Doc("sprint_counter")
}

func (r *sprintRepository) sprintRef(id types.SprintID) *firestore.DocumentRef {
	return r.client.Collection(r.sprintsCollection()).Doc(id.String())
}

func (r *sprintRepository) membershipRef(sprintID types.SprintID, taskID types.TaskID) *firestore.DocumentRef {
	docID := fmt.Sprintf("%d_%d", sprintID, taskID)
	return r.client.Collection(r.sprintTasksCollection()).Doc(docID)
}

func (r *sprintRepository) Create(ctx context.Context, s *model.Sprint) (*model.Sprint, error) {
	created := s.Clone()
	now := time.Now().UTC()
	created.CreatedAt = now
	created.UpdatedAt = now
	if err := created.Validate(); err != nil {
		return nil, err
	}

	id, err := nextID(ctx, r.client, r.counterRef())
	if err != nil {
		return nil, goerr.Wrap(err, "failed to allocate sprint ID")
	}
	created.ID = types.SprintID(id)

	if _, err := r.sprintRef(created.ID).Set(ctx, created); err != nil {
		return nil, goerr.Wrap(err, "failed to create sprint", goerr.V("id", created.ID))
	}

	return created, nil
}

func (r *sprintRepository) Get(ctx context.Context, id types.SprintID) (*model.Sprint, error) {
	docSnap, err := r.sprintRef(id).Get(ctx)
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

func (r *sprintRepository) List(ctx context.Context) ([]*model.Sprint, error) {
	iter := r.client.Collection(r.sprintsCollection()).Documents(ctx)
	defer iter.Stop()

	var sprints []*model.Sprint
	for {
		docSnap, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, goerr.Wrap(err, "failed to iterate sprints")
		}

		var s model.Sprint
		if err := docSnap.DataTo(&s); err != nil {
			return nil, goerr.Wrap(err, "failed to decode sprint", goerr.V("doc_id", docSnap.Ref.ID))
		}

		sprints = append(sprints, &s)
	}

	return sprints, nil
}

func (r *sprintRepository) Update(ctx context.Context, s *model.Sprint) (*model.Sprint, error) {
	docRef := r.sprintRef(s.ID)

	docSnap, err := docRef.Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return nil, goerr.Wrap(interfaces.ErrNotFound, "sprint not found", goerr.V("id", s.ID))
		}
		return nil, goerr.Wrap(err, "failed to check sprint existence", goerr.V("id", s.ID))
	}

	var existing model.Sprint
	if err := docSnap.DataTo(&existing); err != nil {
		return nil, goerr.Wrap(err, "failed to decode sprint", goerr.V("id", s.ID))
	}

	updated := s.Clone()
	updated.CreatedAt = existing.CreatedAt
	updated.UpdatedAt = time.Now().UTC()
	if err := updated.Validate(); err != nil {
		return nil, err
	}

	if _, err := docRef.Set(ctx, updated); err != nil {
		return nil, goerr.Wrap(err, "failed to update sprint", goerr.V("id", s.ID))
	}

	return updated, nil
}

func (r *sprintRepository) AddTask(ctx context.Context, sprintID types.SprintID, taskID types.TaskID) error {
	if _, err := r.Get(ctx, sprintID); err != nil {
		return err
	}

	taskRef := r.client.Collection(r.tasksCollection()).Doc(taskID.String())
	if _, err := taskRef.Get(ctx); err != nil {
		if status.Code(err) == codes.NotFound {
			return goerr.Wrap(interfaces.ErrNotFound, "task not found", goerr.V("task_id", taskID))
		}
		return goerr.Wrap(err, "failed to check task existence", goerr.V("task_id", taskID))
	}

	doc := sprintTaskDoc{
		SprintID: sprintID,
		TaskID:   taskID,
		AddedAt:  time.Now().UTC(),
	}
	if _, err := r.membershipRef(sprintID, taskID).Set(ctx, doc); err != nil {
		return goerr.Wrap(err, "failed to add task to sprint",
			goerr.V("sprint_id", sprintID),
			goerr.V("task_id", taskID))
	}

	return nil
}

func (r *sprintRepository) RemoveTask(ctx context.Context, sprintID types.SprintID, taskID types.TaskID) error {
	if _, err := r.Get(ctx, sprintID); err != nil {
		return err
	}

	if _, err := r.membershipRef(sprintID, taskID).Delete(ctx); err != nil {
		return goerr.Wrap(err, "failed to remove task from sprint",
			goerr.V("sprint_id", sprintID),
			goerr.V("task_id", taskID))
	}

	return nil
}

func (r *sprintRepository) ListTasks(ctx context.Context, sprintID types.SprintID) ([]types.TaskID, error) {
	if _, err := r.Get(ctx, sprintID); err != nil {
		return nil, err
	}

	iter := r.client.Collection(r.sprintTasksCollection()).
		Where("SprintID", "==", int64(sprintID)).
		Documents(ctx)
	defer iter.Stop()

	var ids []types.TaskID
	for {
		docSnap, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, goerr.Wrap(err, "failed to iterate sprint tasks", goerr.V("sprint_id", sprintID))
		}

		var doc sprintTaskDoc
		if err := docSnap.DataTo(&doc); err != nil {
			return nil, goerr.Wrap(err, "failed to decode sprint task", goerr.V("doc_id", docSnap.Ref.ID))
		}

		ids = append(ids, doc.TaskID)
	}

	return ids, nil
}
