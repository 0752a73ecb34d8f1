package firestore

import (
	"context"

	"cloud.google.com/go/firestore"
	"github.com/m-mizutani/goerr/v2"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/appelgriebsch/wheelwright/pkg/domain/interfaces"
	"github.com/appelgriebsch/wheelwright/pkg/domain/model"
	"github.com/appelgriebsch/wheelwright/pkg/domain/types"
)

type runRepository struct {
	client     *firestore.Client
	collection string
}

// NewRunRepository creates a Firestore-backed run record repository
func NewRunRepository(client *firestore.Client, collection string) interfaces.RunRepository {
	return &runRepository{
		client:     client,
		collection: collection,
	}
}

// Save upserts the run record under its run ID
func (r *runRepository) Save(ctx context.Context, record *model.RunRecord) error {
	doc := r.client.Collection(r.collection).Doc(record.ID.String())
	if _, err := doc.Set(ctx, record); err != nil {
		return goerr.Wrap(err, "failed to save run record", goerr.V("run_id", record.ID))
	}
	return nil
}

// Get retrieves one run record by ID
func (r *runRepository) Get(ctx context.Context, id types.RunID) (*model.RunRecord, error) {
	snapshot, err := r.client.Collection(r.collection).Doc(id.String()).Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return nil, goerr.Wrap(err, "run record not found", goerr.V("run_id", id))
		}
		return nil, goerr.Wrap(err, "failed to get run record", goerr.V("run_id", id))
	}

	var record model.RunRecord
	if err := snapshot.DataTo(&record); err != nil {
		return nil, goerr.Wrap(err, "failed to decode run record", goerr.V("run_id", id))
	}

	return &record, nil
}
