package interfaces

import (
	"context"

	"github.com/appelgriebsch/wheelwright/pkg/domain/model"
	"github.com/appelgriebsch/wheelwright/pkg/domain/types"
)

// ArtifactStoreFactory creates the staging area for one pipeline run.
// Stores must not be shared across runs.
type ArtifactStoreFactory func(ctx context.Context, runID types.RunID) (ArtifactStore, error)

// ArtifactStore is the run-scoped staging area for build outputs.
// Bundles are publish-once and read-after-write consistent within a
// run; there is no deletion primitive.
type ArtifactStore interface {
	// Put stores a bundle under its name. Returns an error tagged
	// TagNameCollision if the name was already used in this run.
	Put(ctx context.Context, bundle *model.ArtifactBundle) error

	// GetAll retrieves every bundle whose name matches the wildcard
	// pattern. Returns the empty set, not an error, if none match.
	GetAll(ctx context.Context, pattern string) ([]*model.ArtifactBundle, error)
}
