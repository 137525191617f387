package commands

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/ncobase/socialhub/cmd/socialhub/commands/runtime"
	"github.com/ncobase/socialhub/config"
	"github.com/ncobase/socialhub/internal/server"
	"github.com/ncobase/socialhub/logging/observes"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

// NewServeCommand starts the HTTP server.
func NewServeCommand() *cobra.Command {
	return &cobra.Command{
		Use:     "serve",
		Aliases: []string{"start"},
		Short:   "Start the HTTP server",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return serve(ctx)
		},
	}
}

func serve(ctx context.Context) error {
	cfg, log, cleanupLogger, err := runtime.Setup(ctx)
	if err != nil {
		return err
	}
	defer cleanupLogger()

	flush, err := observes.NewSentry(sentryOptions(cfg))
	if err != nil {
		log.Warn(ctx, "Failed to initialize sentry", "error", err)
	} else {
		defer flush()
	}

	shutdownTracer, err := observes.NewTracer(ctx, tracerOptions(cfg))
	if err != nil {
		log.Warn(ctx, "Failed to initialize tracer", "error", err)
	} else {
		defer func() {
			tctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			if err := shutdownTracer(tctx); err != nil {
				log.Warn(tctx, "Failed to shutdown tracer", "error", err)
			}
		}()
	}

	srv, err := server.New(ctx, cfg, log)
	if err != nil {
		log.Error(ctx, "Failed to create server", "error", err)
		return err
	}
	defer srv.Close()

	cfg.Watch(func(next *config.Config) {
		if next.Logger == nil {
			return
		}
		log.SetLevel(logrus.Level(next.Logger.Level))
		log.Info(context.Background(), "Configuration reloaded", "log_level", next.Logger.Level)
	})

	if err := srv.Run(ctx); err != nil {
		log.Error(context.Background(), "Server stopped with error", "error", err)
		return err
	}
	log.Info(context.Background(), "Server exited")
	return nil
}

func sentryOptions(cfg *config.Config) *observes.SentryOptions {
	if cfg.Observes == nil || cfg.Observes.Sentry == nil {
		return nil
	}
	sc := cfg.Observes.Sentry
	release := sc.Release
	if release == "" {
		release = cfg.Version
	}
	environment := sc.Environment
	if environment == "" {
		environment = cfg.RunMode
	}
	return &observes.SentryOptions{
		Dsn:         sc.Endpoint,
		Name:        cfg.AppName,
		Release:     release,
		Environment: environment,
		SampleRate:  sc.SampleRate,
	}
}

func tracerOptions(cfg *config.Config) *observes.TracerOption {
	if cfg.Observes == nil || cfg.Observes.Tracer == nil {
		return nil
	}
	tc := cfg.Observes.Tracer
	ver := tc.ServiceVersion
	if ver == "" {
		ver = cfg.Version
	}
	return &observes.TracerOption{
		URL:                tc.Endpoint,
		Insecure:           tc.Insecure,
		Name:               tc.ServiceName,
		Version:            ver,
		Environment:        tc.Environment,
		SamplingRate:       tc.SamplingRate,
		BatchTimeout:       tc.BatchTimeout,
		ExportTimeout:      tc.ExportTimeout,
		MaxExportBatchSize: tc.MaxExportBatchSize,
	}
}
