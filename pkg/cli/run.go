package cli

import (
	"context"

	"github.com/m-mizutani/ctxlog"
	"github.com/m-mizutani/goerr/v2"
	"github.com/urfave/cli/v3"

	"github.com/appelgriebsch/wheelwright/pkg/cli/config"
	"github.com/appelgriebsch/wheelwright/pkg/domain/model"
	"github.com/appelgriebsch/wheelwright/pkg/usecase"
)

func cmdRun() *cli.Command {
	var (
		matrixCfg  config.Matrix
		storeCfg   config.Store
		backendCfg config.Backend
		indexCfg   config.Index
		signerCfg  config.Signer
		runsCfg    config.Runs

		triggerKind string
		refName     string
		revision    string
		publish     bool
	)

	flags := []cli.Flag{
		&cli.StringFlag{
			Name:        "trigger",
			Usage:       "Trigger kind (tag-push, pull-request, manual)",
			Value:       string(model.TriggerManualDispatch),
			Destination: &triggerKind,
			Sources:     cli.EnvVars("WHEELWRIGHT_TRIGGER"),
		},
		&cli.StringFlag{
			Name:        "ref",
			Usage:       "Tag or branch name that triggered the run",
			Destination: &refName,
			Sources:     cli.EnvVars("WHEELWRIGHT_REF"),
		},
		&cli.StringFlag{
			Name:        "revision",
			Usage:       "Source revision (commit SHA) to build",
			Required:    true,
			Destination: &revision,
			Sources:     cli.EnvVars("WHEELWRIGHT_REVISION"),
		},
		&cli.BoolFlag{
			Name:        "publish",
			Usage:       "Request publish on a manual dispatch",
			Destination: &publish,
			Sources:     cli.EnvVars("WHEELWRIGHT_PUBLISH"),
		},
	}
	flags = append(flags, matrixCfg.Flags()...)
	flags = append(flags, storeCfg.Flags()...)
	flags = append(flags, backendCfg.Flags()...)
	flags = append(flags, indexCfg.Flags()...)
	flags = append(flags, signerCfg.Flags()...)
	flags = append(flags, runsCfg.Flags()...)

	return &cli.Command{
		Name:    "run",
		Aliases: []string{"r"},
		Usage:   "Execute one pipeline run to a terminal state",
		Flags:   flags,
		Action: func(ctx context.Context, c *cli.Command) error {
			logger := ctxlog.From(ctx)

			kind, err := model.ParseTriggerKind(triggerKind)
			if err != nil {
				return err
			}
			trigger := model.TriggerContext{
				Kind:             kind,
				RefName:          refName,
				PublishRequested: publish,
			}

			matrix, err := matrixCfg.Load()
			if err != nil {
				return err
			}

			attestor, err := signerCfg.Configure()
			if err != nil {
				return err
			}

			runsRepo, err := runsCfg.Configure(ctx)
			if err != nil {
				return err
			}

			var opts []usecase.PipelineOption
			if runsRepo != nil {
				opts = append(opts, usecase.WithRunRepository(runsRepo))
			}

			pipelineUC := usecase.NewPipeline(
				matrix,
				backendCfg.Configure(),
				storeCfg.Factory(),
				attestor,
				indexCfg.Configure(),
				opts...,
			)

			record, runErr := pipelineUC.Execute(ctx, trigger, revision)
			if record != nil {
				printRunSummary(record)
			}
			if runErr != nil {
				logger.Error("Pipeline run failed", "error", runErr)
				return goerr.Wrap(runErr, "pipeline run failed")
			}

			return nil
		},
	}
}
