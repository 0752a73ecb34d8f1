package config

import (
	"context"

	firestoredb "cloud.google.com/go/firestore"
	"github.com/m-mizutani/goerr/v2"
	"github.com/urfave/cli/v3"

	"github.com/appelgriebsch/wheelwright/pkg/domain/interfaces"
	"github.com/appelgriebsch/wheelwright/pkg/infra/firestore"
)

// Runs holds run record persistence configuration
type Runs struct {
	Project    string
	Collection string
}

// Flags returns CLI flags for run record persistence
func (c *Runs) Flags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:        "runs-project",
			Usage:       "Google Cloud project for run records (empty: no persistence)",
			Destination: &c.Project,
			Sources:     cli.EnvVars("WHEELWRIGHT_RUNS_PROJECT"),
		},
		&cli.StringFlag{
			Name:        "runs-collection",
			Usage:       "Firestore collection for run records",
			Value:       "runs",
			Destination: &c.Collection,
			Sources:     cli.EnvVars("WHEELWRIGHT_RUNS_COLLECTION"),
		},
	}
}

// Configure creates the run repository, or nil when persistence is
// not configured
func (c *Runs) Configure(ctx context.Context) (interfaces.RunRepository, error) {
	if c.Project == "" {
		return nil, nil
	}

	client, err := firestoredb.NewClient(ctx, c.Project)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to create Firestore client", goerr.V("project", c.Project))
	}

	return firestore.NewRunRepository(client, c.Collection), nil
}
