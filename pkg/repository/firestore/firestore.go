package firestore

import (
	"context"

	"cloud.google.com/go/firestore"
	"github.com/m-mizutani/goerr/v2"
	"github.com/syafiqkay/taskdeck/pkg/domain/interfaces"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

type Firestore struct {
	client *firestore.Client
	task   *taskRepository
	sprint *sprintRepository
	epic   *epicRepository
}

var _ interfaces.Repository = &Firestore{}

type Option func(*Firestore)

func WithCollectionPrefix(prefix string) Option {
	return func(f *Firestore) {
		f.task.collectionPrefix = prefix
		f.sprint.collectionPrefix = prefix
		f.epic.collectionPrefix = prefix
	}
}

func New(ctx context.Context, projectID, databaseID string, opts ...Option) (*Firestore, error) {
	var client *firestore.Client
	var err error
	if databaseID != "" {
		client, err = firestore.NewClientWithDatabase(ctx, projectID, databaseID)
	} else {
		client, err = firestore.NewClient(ctx, projectID)
	}
	if err != nil {
		return nil, goerr.Wrap(err, "failed to create firestore client",
			goerr.V("projectID", projectID),
			goerr.V("databaseID", databaseID))
	}

	f := &Firestore{
		client: client,
		task:   newTaskRepository(client),
		sprint: newSprintRepository(client),
		epic:   newEpicRepository(client),
	}

	for _, opt := range opts {
		opt(f)
	}

	return f, nil
}

func (f *Firestore) Task() interfaces.TaskRepository {
	return f.task
}

func (f *Firestore) Sprint() interfaces.SprintRepository {
	return f.sprint
}

func (f *Firestore) Epic() interfaces.EpicRepository {
	return f.epic
}

// InTx runs fn inside a Firestore transaction. Firestore server-side
// transactions lock documents on read, so a Tx.LockTask read holds an
// exclusive lock on the task document until commit or rollback. The
// client retries contended transactions internally; if retries are
// exhausted the error is surfaced as ErrTxContention so the caller can
// apply its own bounded retry.
func (f *Firestore) InTx(ctx context.Context, fn func(ctx context.Context, tx interfaces.Tx) error) error {
	err := f.client.RunTransaction(ctx, func(ctx context.Context, tx *firestore.Transaction) error {
		return fn(ctx, &firestoreTx{f: f, tx: tx})
	})
	if err != nil {
		if status.Code(err) == codes.Aborted {
			return goerr.Wrap(interfaces.ErrTxContention, "firestore transaction aborted", goerr.V("cause", err.Error()))
		}
		return err
	}
	return nil
}

func (f *Firestore) Close() error {
	if f.client != nil {
		return f.client.Close()
	}
	return nil
}

// nextIDInTx allocates the next value of a counter document within the
// given transaction. The counter read must happen before any write in
// the same transaction.
func nextIDInTx(tx *firestore.Transaction, counterRef *firestore.DocumentRef) (int64, error) {
	doc, err := tx.Get(counterRef)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			if err := tx.Set(counterRef, map[string]interface{}{"value": int64(1)}); err != nil {
				return 0, goerr.Wrap(err, "failed to initialize counter")
			}
			return 1, nil
		}
		return 0, goerr.Wrap(err, "failed to get counter")
	}

	currentValue, err := doc.DataAt("value")
	if err != nil {
		return 0, goerr.Wrap(err, "failed to get counter value")
	}

	val, ok := currentValue.(int64)
	if !ok {
		return 0, goerr.New("counter value is not of type int64", goerr.V("value", currentValue))
	}

	nextID := val + 1
	if err := tx.Update(counterRef, []firestore.Update{
		{Path: "value", Value: nextID},
	}); err != nil {
		return 0, goerr.Wrap(err, "failed to update counter")
	}

	return nextID, nil
}

// nextID allocates the next counter value in its own transaction, for
// create paths that do not run inside a caller-owned transaction.
func nextID(ctx context.Context, client *firestore.Client, counterRef *firestore.DocumentRef) (int64, error) {
	var id int64
	err := client.RunTransaction(ctx, func(ctx context.Context, tx *firestore.Transaction) error {
		var err error
		id, err = nextIDInTx(tx, counterRef)
		return err
	})
	if err != nil {
		return 0, goerr.Wrap(err, "failed to get next ID")
	}
	return id, nil
}
