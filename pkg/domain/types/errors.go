package types

import "github.com/m-mizutani/goerr/v2"

// Error tags classify pipeline failures. Components attach these via
// goerr.T and callers branch with goerr.HasTag instead of matching on
// error strings.
var (
	// TagConfiguration marks a defective build matrix or option set.
	// The run never starts.
	TagConfiguration = goerr.NewTag("configuration")

	// TagToolchainUnavailable marks a missing cross-compilation
	// toolchain. Fatal to the affected build request.
	TagToolchainUnavailable = goerr.NewTag("toolchain_unavailable")

	// TagBuildBackend marks a compiler or linker failure reported by
	// the build backend. Fatal to the affected build request.
	TagBuildBackend = goerr.NewTag("build_backend")

	// TagNameCollision marks a duplicate bundle name within one run.
	// Indicates a matrix defect producing colliding identities.
	TagNameCollision = goerr.NewTag("name_collision")

	// TagAttestationIncomplete marks a bundle set that does not cover
	// every issued build request. A partial set is never attested.
	TagAttestationIncomplete = goerr.NewTag("attestation_incomplete")

	// TagPublishConflict marks an artifact identity that already exists
	// at the package index. The only recoverable class: absorbed by
	// skip-existing semantics.
	TagPublishConflict = goerr.NewTag("publish_conflict")

	// TagPermissionDenied marks an insufficient capability grant for
	// the index or the artifact store.
	TagPermissionDenied = goerr.NewTag("permission_denied")
)
