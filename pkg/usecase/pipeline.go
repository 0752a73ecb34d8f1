package usecase

import (
	"context"

	"github.com/m-mizutani/ctxlog"
	"github.com/m-mizutani/goerr/v2"

	"github.com/appelgriebsch/wheelwright/pkg/domain/interfaces"
	"github.com/appelgriebsch/wheelwright/pkg/domain/model"
	"github.com/appelgriebsch/wheelwright/pkg/domain/types"
)

type pipeline struct {
	matrix    *model.BuildMatrix
	backend   interfaces.BuildBackend
	stores    interfaces.ArtifactStoreFactory
	attestor  interfaces.Attestor
	publisher interfaces.IndexPublisher
	runs      interfaces.RunRepository // optional, nil disables persistence
}

// PipelineOption configures the pipeline use case
type PipelineOption func(*pipeline)

// WithRunRepository enables run record persistence
func WithRunRepository(repo interfaces.RunRepository) PipelineOption {
	return func(p *pipeline) {
		p.runs = repo
	}
}

// NewPipeline creates the orchestrating use case: enumerate, parallel
// build, join barrier, attestation, publish gate.
func NewPipeline(
	matrix *model.BuildMatrix,
	backend interfaces.BuildBackend,
	stores interfaces.ArtifactStoreFactory,
	attestor interfaces.Attestor,
	publisher interfaces.IndexPublisher,
	opts ...PipelineOption,
) interfaces.PipelineUseCase {
	p := &pipeline{
		matrix:    matrix,
		backend:   backend,
		stores:    stores,
		attestor:  attestor,
		publisher: publisher,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Execute drives one run through the state machine to a terminal
// state. The returned record is always non-nil so callers can surface
// per-target and per-artifact failure reasons alongside the error.
func (p *pipeline) Execute(ctx context.Context, trigger model.TriggerContext, revision string) (*model.RunRecord, error) {
	logger := ctxlog.From(ctx)

	runID := types.NewRunID()
	record := model.NewRunRecord(runID, trigger, revision)

	logger.Info("Pipeline run starting",
		"run_id", runID,
		"trigger", trigger.Kind,
		"ref", trigger.RefName,
		"revision", revision,
	)

	err := p.execute(ctx, record)
	if err != nil && !record.State.Terminal() {
		if advErr := record.Advance(model.RunFailed); advErr != nil {
			logger.Error("Failed to mark run as failed", "error", advErr)
		}
	}
	p.persist(ctx, record)

	logger.Info("Pipeline run finished",
		"run_id", runID,
		"state", record.State,
	)

	return record, err
}

func (p *pipeline) execute(ctx context.Context, record *model.RunRecord) error {
	// Validation-only runs check the pipeline definition and never
	// build real release artifacts or reach the publish gate.
	if record.Trigger.ValidationOnly() {
		if err := p.matrix.Validate(); err != nil {
			return err
		}
		return record.Advance(model.RunSkippedByPolicy)
	}

	requests, err := ExpandMatrix(p.matrix, record.ID, record.Revision)
	if err != nil {
		return err
	}
	p.persist(ctx, record)

	store, err := p.stores(ctx, record.ID)
	if err != nil {
		return goerr.Wrap(err, "failed to create artifact store")
	}

	driver := NewBuildDriver(p.backend, store)
	results, err := driver.RunAll(ctx, requests)
	record.Results = results
	if err != nil {
		return goerr.Wrap(err, "build stage failed")
	}
	if err := record.Advance(model.RunBuilt); err != nil {
		return err
	}
	p.persist(ctx, record)

	// Join barrier resolved: every request reported success. Attest
	// the complete set.
	attestStage := NewAttestation(store, p.attestor)
	attRecord, bundles, err := attestStage.Attest(ctx, requests, record.Trigger, record.ID, record.Revision)
	if err != nil {
		return err
	}
	record.Attestation = attRecord
	if err := record.Advance(model.RunAttested); err != nil {
		return err
	}
	p.persist(ctx, record)

	if !record.Trigger.ShouldPublish() {
		return record.Advance(model.RunSkippedByPolicy)
	}

	gate := NewPublishGate(p.publisher)
	outcomes, err := gate.PublishAll(ctx, bundles)
	record.Outcomes = outcomes
	if err != nil {
		return goerr.Wrap(err, "publish stage failed")
	}

	return record.Advance(model.RunPublished)
}

func (p *pipeline) persist(ctx context.Context, record *model.RunRecord) {
	if p.runs == nil {
		return
	}
	if err := p.runs.Save(ctx, record); err != nil {
		// Bookkeeping must not fail the release itself
		ctxlog.From(ctx).Error("Failed to persist run record",
			"run_id", record.ID,
			"error", err,
		)
	}
}
