package usecase

import (
	"context"
	"time"

	"github.com/m-mizutani/ctxlog"
	"github.com/m-mizutani/goerr/v2"
	"golang.org/x/sync/errgroup"

	"github.com/appelgriebsch/wheelwright/pkg/domain/interfaces"
	"github.com/appelgriebsch/wheelwright/pkg/domain/model"
)

type buildDriver struct {
	backend interfaces.BuildBackend
	store   interfaces.ArtifactStore
}

// NewBuildDriver creates the fan-out driver that executes build
// requests as independent parallel tasks and uploads each result to
// the artifact store.
func NewBuildDriver(backend interfaces.BuildBackend, store interfaces.ArtifactStore) *buildDriver {
	return &buildDriver{
		backend: backend,
		store:   store,
	}
}

// RunAll executes every request in parallel and blocks until all of
// them report a terminal status. This is the counted join: the first
// failure cancels the group context so stragglers stop early instead
// of being waited out, and the run as a whole fails. A bundle becomes
// visible to downstream stages only after its upload completed.
func (d *buildDriver) RunAll(ctx context.Context, requests []model.BuildRequest) ([]model.BuildResult, error) {
	logger := ctxlog.From(ctx)

	results := make([]model.BuildResult, len(requests))
	eg, egCtx := errgroup.WithContext(ctx)

	for i, req := range requests {
		eg.Go(func() error {
			started := time.Now()
			result := model.BuildResult{
				Target:     req.Target,
				BundleName: req.Target.BundleName(),
			}

			bundle, err := d.buildOne(egCtx, &req)
			result.Elapsed = time.Since(started)

			if err != nil {
				result.Status = model.BuildFailed
				result.Error = err.Error()
				results[i] = result
				return goerr.Wrap(err, "build request failed",
					goerr.V("family", req.Target.PlatformFamily),
					goerr.V("arch", req.Target.Architecture),
				)
			}

			result.Status = model.BuildSucceeded
			results[i] = result

			logger.Info("Build request completed",
				"bundle", bundle.Name,
				"blobs", len(bundle.Blobs),
				"size_bytes", bundle.TotalSize(),
				"elapsed", result.Elapsed,
			)
			return nil
		})
	}

	err := eg.Wait()
	return results, err
}

// buildOne runs the backend for one request and uploads the bundle.
// The upload happens only after the backend reported success, so no
// partial bundle is ever visible to the attestor.
func (d *buildDriver) buildOne(ctx context.Context, req *model.BuildRequest) (*model.ArtifactBundle, error) {
	logger := ctxlog.From(ctx)

	logger.Info("Starting build request",
		"family", req.Target.PlatformFamily,
		"arch", req.Target.Architecture,
		"runner", req.Target.RunnerClass,
		"revision", req.Revision,
	)

	bundle, err := d.backend.Build(ctx, req)
	if err != nil {
		return nil, err
	}

	if err := d.store.Put(ctx, bundle); err != nil {
		return nil, goerr.Wrap(err, "failed to upload bundle", goerr.V("bundle", bundle.Name))
	}

	return bundle, nil
}
