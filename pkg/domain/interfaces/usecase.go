package interfaces

import (
	"context"

	"github.com/appelgriebsch/wheelwright/pkg/domain/model"
)

// WebhookUseCase processes incoming webhook events in serve mode
type WebhookUseCase interface {
	ProcessEvent(ctx context.Context, event *model.WebhookEvent) error
}

// PipelineUseCase runs the full release pipeline for one trigger:
// enumerate, build fan-out, join, attest, publish gate.
type PipelineUseCase interface {
	// Execute runs the pipeline to a terminal state. The returned
	// record is non-nil whenever a run was started, even on failure,
	// so callers can surface per-target and per-artifact reasons.
	Execute(ctx context.Context, trigger model.TriggerContext, revision string) (*model.RunRecord, error)
}
