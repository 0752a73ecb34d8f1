package config

import (
	"github.com/urfave/cli/v3"

	"github.com/appelgriebsch/wheelwright/pkg/domain/interfaces"
	"github.com/appelgriebsch/wheelwright/pkg/infra/index"
)

// Index holds package index configuration
type Index struct {
	URL   string
	Token string
}

// Flags returns CLI flags for package index configuration
func (c *Index) Flags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:        "index-url",
			Usage:       "Package index upload endpoint",
			Value:       "https://upload.pypi.org/legacy/",
			Destination: &c.URL,
			Sources:     cli.EnvVars("WHEELWRIGHT_INDEX_URL"),
		},
		&cli.StringFlag{
			Name:        "index-token",
			Usage:       "Capability token for writing to the package index",
			Destination: &c.Token,
			Sources:     cli.EnvVars("WHEELWRIGHT_INDEX_TOKEN"),
		},
	}
}

// Configure creates the package index publisher
func (c *Index) Configure() interfaces.IndexPublisher {
	return index.New(c.URL, c.Token)
}
