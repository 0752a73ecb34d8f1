package cli

import (
	"context"
	"fmt"

	"github.com/m-mizutani/ctxlog"
	"github.com/urfave/cli/v3"

	"github.com/appelgriebsch/wheelwright/pkg/cli/config"
)

func cmdValidate() *cli.Command {
	var matrixCfg config.Matrix

	return &cli.Command{
		Name:    "validate",
		Aliases: []string{"v"},
		Usage:   "Validate the pipeline definition without building",
		Flags:   matrixCfg.Flags(),
		Action: func(ctx context.Context, c *cli.Command) error {
			logger := ctxlog.From(ctx)

			matrix, err := matrixCfg.Load()
			if err != nil {
				return err
			}

			descriptors := matrix.Descriptors()
			for _, descriptor := range descriptors {
				fmt.Printf("%s %s (runner: %s)\n",
					okMark, descriptor.BundleName(), descriptor.RunnerClass)
			}

			logger.Info("Pipeline definition is valid",
				"path", matrixCfg.Path,
				"families", len(matrix.Families),
				"targets", len(descriptors),
			)
			return nil
		},
	}
}
