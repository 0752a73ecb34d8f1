package config

import (
	"github.com/urfave/cli/v3"

	"github.com/appelgriebsch/wheelwright/pkg/domain/model"
)

// Matrix holds build matrix configuration
type Matrix struct {
	Path string
}

// Flags returns CLI flags for build matrix configuration
func (c *Matrix) Flags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:        "matrix",
			Usage:       "Path to the declarative build matrix file",
			Value:       "wheelwright.toml",
			Destination: &c.Path,
			Sources:     cli.EnvVars("WHEELWRIGHT_MATRIX"),
		},
	}
}

// Load reads and validates the build matrix
func (c *Matrix) Load() (*model.BuildMatrix, error) {
	return model.LoadMatrix(c.Path)
}
