package usecase

import (
	"context"

	"github.com/m-mizutani/ctxlog"
	"github.com/m-mizutani/goerr/v2"

	"github.com/appelgriebsch/wheelwright/pkg/domain/interfaces"
	"github.com/appelgriebsch/wheelwright/pkg/domain/model"
	"github.com/appelgriebsch/wheelwright/pkg/domain/types"
)

type publishGate struct {
	publisher interfaces.IndexPublisher
}

// NewPublishGate creates the terminal publish stage. It may only run
// after an attestation record exists for the current run.
func NewPublishGate(publisher interfaces.IndexPublisher) *publishGate {
	return &publishGate{publisher: publisher}
}

// PublishAll uploads every attested bundle to the package index with
// skip-existing semantics: an already-present artifact identity is
// recorded as skipped_existing, not a failure. Any other publish error
// yields a failed outcome and a non-nil error, but remaining bundles
// are still attempted so the report covers the full set.
func (g *publishGate) PublishAll(ctx context.Context, bundles []*model.ArtifactBundle) ([]model.PublishOutcome, error) {
	logger := ctxlog.From(ctx)

	outcomes := make([]model.PublishOutcome, 0, len(bundles))
	var firstErr error

	for _, bundle := range bundles {
		outcome := model.PublishOutcome{Bundle: bundle.Name}

		err := g.publisher.Publish(ctx, bundle)
		switch {
		case err == nil:
			outcome.Status = model.PublishPublished
		case goerr.HasTag(err, types.TagPublishConflict):
			outcome.Status = model.PublishSkippedExisting
			logger.Info("Artifact identity already at index, skipping",
				"bundle", bundle.Name,
			)
		default:
			outcome.Status = model.PublishFailed
			outcome.Error = err.Error()
			if firstErr == nil {
				firstErr = goerr.Wrap(err, "failed to publish bundle", goerr.V("bundle", bundle.Name))
			}
			logger.Error("Failed to publish bundle",
				"bundle", bundle.Name,
				"error", err,
			)
		}

		outcomes = append(outcomes, outcome)
	}

	return outcomes, firstErr
}
