package cli

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/m-mizutani/ctxlog"
	"github.com/m-mizutani/goerr/v2"
	"github.com/urfave/cli/v3"

	"github.com/appelgriebsch/wheelwright/pkg/cli/config"
	githubctrl "github.com/appelgriebsch/wheelwright/pkg/controller/github"
	controller "github.com/appelgriebsch/wheelwright/pkg/controller/http"
	"github.com/appelgriebsch/wheelwright/pkg/usecase"
)

func cmdServe() *cli.Command {
	var (
		serverCfg  config.Server
		githubCfg  config.GitHub
		matrixCfg  config.Matrix
		storeCfg   config.Store
		backendCfg config.Backend
		indexCfg   config.Index
		signerCfg  config.Signer
		runsCfg    config.Runs
	)

	flags := append(serverCfg.Flags(), githubCfg.Flags()...)
	flags = append(flags, matrixCfg.Flags()...)
	flags = append(flags, storeCfg.Flags()...)
	flags = append(flags, backendCfg.Flags()...)
	flags = append(flags, indexCfg.Flags()...)
	flags = append(flags, signerCfg.Flags()...)
	flags = append(flags, runsCfg.Flags()...)

	return &cli.Command{
		Name:    "serve",
		Aliases: []string{"s"},
		Usage:   "Start the webhook-triggered pipeline server",
		Flags:   flags,
		Action: func(ctx context.Context, c *cli.Command) error {
			logger := ctxlog.From(ctx)

			logger.Info("Starting wheelwright server",
				slog.String("addr", serverCfg.Addr),
			)

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

			// Webhook events become background pipeline runs
			processor := githubctrl.NewEventProcessor(pipelineUC)

			server, err := controller.NewServer(
				ctx,
				processor,
				controller.WithAddr(serverCfg.Addr),
				controller.WithWebhookSecret(githubCfg.WebhookSecret),
			)
			if err != nil {
				return goerr.Wrap(err, "failed to create HTTP server")
			}

			// Start server in goroutine
			go func() {
				logger.Info("HTTP server starting", slog.String("addr", serverCfg.Addr))
				if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
					logger.Error("HTTP server error", slog.Any("error", err))
				}
			}()

			// Wait for interrupt signal
			sigChan := make(chan os.Signal, 1)
			signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

			select {
			case <-ctx.Done():
				logger.Info("Context cancelled, shutting down...")
			case sig := <-sigChan:
				logger.Info("Signal received, shutting down...", slog.Any("signal", sig))
			}

			// Graceful shutdown
			shutdownCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
			defer cancel()

			if err := server.Shutdown(shutdownCtx); err != nil {
				return goerr.Wrap(err, "failed to shutdown server gracefully")
			}

			logger.Info("Server shutdown complete")
			return nil
		},
	}
}
