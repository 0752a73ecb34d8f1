package config

import (
	"os"

	"github.com/m-mizutani/goerr/v2"
	"github.com/urfave/cli/v3"

	"github.com/appelgriebsch/wheelwright/pkg/domain/interfaces"
	"github.com/appelgriebsch/wheelwright/pkg/infra/attestor"
)

// Signer holds attestation signing configuration
type Signer struct {
	KeyPath string
}

// Flags returns CLI flags for attestation signing configuration
func (c *Signer) Flags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:        "signing-key",
			Usage:       "Path to the attestation signing key (PEM or JWK)",
			Required:    true,
			Destination: &c.KeyPath,
			Sources:     cli.EnvVars("WHEELWRIGHT_SIGNING_KEY"),
		},
	}
}

// Configure loads the signing key and creates the attestor
func (c *Signer) Configure() (interfaces.Attestor, error) {
	keyData, err := os.ReadFile(c.KeyPath)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to read signing key", goerr.V("path", c.KeyPath))
	}

	return attestor.New(keyData)
}
