package config

import (
	"context"

	gcs "cloud.google.com/go/storage"
	"github.com/m-mizutani/goerr/v2"
	"github.com/urfave/cli/v3"

	"github.com/appelgriebsch/wheelwright/pkg/domain/interfaces"
	"github.com/appelgriebsch/wheelwright/pkg/domain/types"
	"github.com/appelgriebsch/wheelwright/pkg/infra/store"
)

// Store holds artifact store configuration. With no bucket configured
// the run uses an in-process store, which is sufficient for local
// single-process runs.
type Store struct {
	Bucket string
}

// Flags returns CLI flags for artifact store configuration
func (c *Store) Flags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:        "store-bucket",
			Usage:       "GCS bucket for staging artifact bundles (empty: in-memory)",
			Destination: &c.Bucket,
			Sources:     cli.EnvVars("WHEELWRIGHT_STORE_BUCKET"),
		},
	}
}

// Factory returns the per-run artifact store factory
func (c *Store) Factory() interfaces.ArtifactStoreFactory {
	return func(ctx context.Context, runID types.RunID) (interfaces.ArtifactStore, error) {
		if c.Bucket == "" {
			return store.NewMemory(), nil
		}

		client, err := gcs.NewClient(ctx)
		if err != nil {
			return nil, goerr.Wrap(err, "failed to create GCS client", goerr.V("bucket", c.Bucket))
		}

		return store.NewGCS(client, c.Bucket, runID), nil
	}
}
