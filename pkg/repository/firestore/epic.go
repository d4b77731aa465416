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

type epicRepository struct {
	client           *firestore.Client
	collectionPrefix string
}

func newEpicRepository(client *firestore.Client) *epicRepository {
	return &epicRepository{
		client:           client,
		collectionPrefix: "",
	}
}

func (r *epicRepository) epicsCollection() string {
	if r.collectionPrefix != "" {
		return r.collectionPrefix + "_epics"
	}
	return "epics"
}

func (r *epicRepository) counterCollection() string {
	if r.collectionPrefix != "" {
		return r.collectionPrefix + "_counters"
	}
	return "counters"
}

func (r *epicRepository) counterRef() *firestore.DocumentRef {
	return r.client.Collection(r.counterCollection()).Doc("epic_counter")
}

func (r *epicRepository) epicRef(id types.EpicID) *firestore.DocumentRef {
	return r.client.Collection(r.epicsCollection()).Doc(id.String())
}

func (r *epicRepository) Create(ctx context.Context, e *model.Epic) (*model.Epic, error) {
	created := e.Clone()
	now := time.Now().UTC()
	created.CreatedAt = now
	created.UpdatedAt = now
	if err := created.Validate(); err != nil {
		return nil, err
	}

	id, err := nextID(ctx, r.client, r.counterRef())
	if err != nil {
		return nil, goerr.Wrap(err, "failed to allocate epic ID")
	}
	created.ID = types.EpicID(id)

	if _, err := r.epicRef(created.ID).Set(ctx, created); err != nil {
		return nil, goerr.Wrap(err, "failed to create epic", goerr.V("id", created.ID))
	}

	return created, nil
}

func (r *epicRepository) Get(ctx context.Context, id types.EpicID) (*model.Epic, error) {
	docSnap, err := r.epicRef(id).Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return nil, goerr.Wrap(interfaces.ErrNotFound, "epic not found", goerr.V("id", id))
		}
		return nil, goerr.Wrap(err, "failed to get epic", goerr.V("id", id))
	}

	var e model.Epic
	if err := docSnap.DataTo(&e); err != nil {
		return nil, goerr.Wrap(err, "failed to decode epic", goerr.V("id", id))
	}

	return &e, nil
}

func (r *epicRepository) List(ctx context.Context) ([]*model.Epic, error) {
	iter := r.client.Collection(r.epicsCollection()).Documents(ctx)
	defer iter.Stop()

	var epics []*model.Epic
	for {
		docSnap, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, goerr.Wrap(err, "failed to iterate epics")
		}

		var e model.Epic
		if err := docSnap.DataTo(&e); err != nil {
			return nil, goerr.Wrap(err, "failed to decode epic", goerr.V("doc_id", docSnap.Ref.ID))
		}

		epics = append(epics, &e)
	}

	return epics, nil
}
