package model

import (
	"time"

	"github.com/appelgriebsch/wheelwright/pkg/domain/types"
)

// BuildRequest binds one target descriptor to a fixed source revision.
// Created by the enumerator, consumed exactly once by one builder,
// never mutated.
type BuildRequest struct {
	Target   TargetDescriptor // Target to build for
	Revision string           // Source revision (commit SHA)
	RunID    types.RunID      // Owning pipeline run
}

// BuildStatus is the terminal status of one build request
type BuildStatus string

const (
	BuildSucceeded BuildStatus = "succeeded"
	BuildFailed    BuildStatus = "failed"
)

// BuildResult records the terminal status of one build request. The
// join barrier requires every issued request to report one of these.
type BuildResult struct {
	Target     TargetDescriptor
	BundleName string
	Status     BuildStatus
	Error      string // Failure reason, empty on success
	Elapsed    time.Duration
}
