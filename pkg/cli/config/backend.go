package config

import (
	"github.com/urfave/cli/v3"

	"github.com/appelgriebsch/wheelwright/pkg/domain/interfaces"
	"github.com/appelgriebsch/wheelwright/pkg/infra/backend"
)

// Backend holds build backend configuration
type Backend struct {
	Command   string
	SourceDir string
	OutDir    string
	CacheDir  string
}

// Flags returns CLI flags for build backend configuration
func (c *Backend) Flags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:        "backend-command",
			Usage:       "Build backend executable",
			Value:       "maturin",
			Destination: &c.Command,
			Sources:     cli.EnvVars("WHEELWRIGHT_BACKEND_COMMAND"),
		},
		&cli.StringFlag{
			Name:        "source-dir",
			Usage:       "Source tree the backend builds from",
			Value:       ".",
			Destination: &c.SourceDir,
			Sources:     cli.EnvVars("WHEELWRIGHT_SOURCE_DIR"),
		},
		&cli.StringFlag{
			Name:        "out-dir",
			Usage:       "Root directory for per-target build output",
			Value:       "target/wheels",
			Destination: &c.OutDir,
			Sources:     cli.EnvVars("WHEELWRIGHT_OUT_DIR"),
		},
		&cli.StringFlag{
			Name:        "cache-dir",
			Usage:       "Persistent compilation cache root (empty: cold builds)",
			Destination: &c.CacheDir,
			Sources:     cli.EnvVars("WHEELWRIGHT_CACHE_DIR"),
		},
	}
}

// Configure creates the build backend
func (c *Backend) Configure() interfaces.BuildBackend {
	opts := []backend.Option{
		backend.WithCommand(c.Command),
	}
	if c.CacheDir != "" {
		opts = append(opts, backend.WithCacheRoot(c.CacheDir))
	}

	return backend.NewMaturin(c.SourceDir, c.OutDir, opts...)
}
