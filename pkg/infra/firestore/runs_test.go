package firestore_test

import (
	"context"
	"os"
	"testing"

	firestoredb "cloud.google.com/go/firestore"
	"github.com/m-mizutani/gt"

	"github.com/appelgriebsch/wheelwright/pkg/domain/model"
	"github.com/appelgriebsch/wheelwright/pkg/domain/types"
	"github.com/appelgriebsch/wheelwright/pkg/infra/firestore"
)

func TestRunRepositoryIntegration(t *testing.T) {
	// This test requires a real Firestore project from environment
	// variables
	project := os.Getenv("TEST_FIRESTORE_PROJECT")
	if project == "" {
		t.Skip("TEST_FIRESTORE_PROJECT not provided via environment variables")
	}
	collection := os.Getenv("TEST_FIRESTORE_COLLECTION")
	if collection == "" {
		collection = "runs-test"
	}

	ctx := context.Background()
	client, err := firestoredb.NewClient(ctx, project)
	gt.NoError(t, err)
	defer client.Close()

	repo := firestore.NewRunRepository(client, collection)

	trigger := model.TriggerContext{Kind: model.TriggerTagPush, RefName: "v0.2.0"}
	record := model.NewRunRecord(types.NewRunID(), trigger, "abc123")
	gt.NoError(t, record.Advance(model.RunBuilt))

	gt.NoError(t, repo.Save(ctx, record))

	loaded := gt.R1(repo.Get(ctx, record.ID)).NoError(t)
	gt.Value(t, loaded.ID).Equal(record.ID)
	gt.Value(t, loaded.State).Equal(model.RunBuilt)
	gt.Value(t, loaded.Revision).Equal("abc123")
	gt.Value(t, loaded.Trigger.Kind).Equal(model.TriggerTagPush)
	gt.Array(t, loaded.Transitions).Length(1)

	// Saving again overwrites the same document
	gt.NoError(t, record.Advance(model.RunFailed))
	gt.NoError(t, repo.Save(ctx, record))

	loaded = gt.R1(repo.Get(ctx, record.ID)).NoError(t)
	gt.Value(t, loaded.State).Equal(model.RunFailed)

	// Unknown run IDs resolve to an error
	_, err = repo.Get(ctx, types.NewRunID())
	gt.Error(t, err)
}
