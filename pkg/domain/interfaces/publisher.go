package interfaces

import (
	"context"

	"github.com/appelgriebsch/wheelwright/pkg/domain/model"
)

// IndexPublisher uploads one bundle's files to the package index,
// non-interactively. If every file of the bundle already exists at the
// index under the same identity, it returns an error tagged
// TagPublishConflict; the publish gate absorbs that as skip-existing.
// Insufficient capability grants are tagged TagPermissionDenied.
type IndexPublisher interface {
	Publish(ctx context.Context, bundle *model.ArtifactBundle) error
}
