package interfaces

import (
	"context"

	"github.com/appelgriebsch/wheelwright/pkg/domain/model"
)

// BuildBackend performs one build request: selects a toolchain for the
// target, invokes the cross-compiling build, and packages the output
// into a named bundle. Implementations must be safe for concurrent use
// across independent targets.
type BuildBackend interface {
	// Build executes the request and returns the resulting bundle.
	// Errors are tagged TagToolchainUnavailable or TagBuildBackend.
	// No partial output is returned on failure.
	Build(ctx context.Context, req *model.BuildRequest) (*model.ArtifactBundle, error)
}
