package main

import (
	"context"
	"fmt"
	"io"

	"github.com/bytedance/sonic"
	"github.com/joho/godotenv"
	"github.com/riskibarqy/court-spotter/internal/app"
	"github.com/riskibarqy/court-spotter/internal/config"
	"github.com/riskibarqy/court-spotter/internal/observability"
	"github.com/riskibarqy/court-spotter/internal/platform/logging"
	"github.com/spf13/cobra"
)

func newRootCmd() *cobra.Command {
	var envFile string

	root := &cobra.Command{
		Use:           "courtspotter",
		Short:         "Padel court availability sync engine",
		SilenceUsage: true,
		PersistentPreRunE: func(*cobra.Command, []string) error {
			return loadEnvFile(envFile)
		},
	}
	root.PersistentFlags().StringVar(&envFile, "env-file", ".env", "dotenv file loaded before reading configuration")

	root.AddCommand(
		newRunCmd(),
		newSyncCmd(),
		newCourtsCmd(),
		newClubsCmd(),
		newSlotsCmd(),
	)
	return root
}

// loadEnvFile loads dotenv values without overriding the process environment.
// A missing default file is not an error.
func loadEnvFile(path string) error {
	if path == "" {
		return nil
	}
	if err := godotenv.Load(path); err != nil {
		if path == ".env" {
			return nil
		}
		return fmt.Errorf("load env file %s: %w", path, err)
	}
	return nil
}

// runtime is the per-command process state: config, logger, telemetry and the wired container.
type runtime struct {
	cfg       config.Config
	logger    *logging.Logger
	container *app.Container
	shutdown  []func(context.Context) error
}

func bootstrap(ctx context.Context) (*runtime, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}

	logger := logging.NewJSON(cfg.LogLevel).With("service", cfg.ServiceName, "env", cfg.AppEnv)
	logging.SetDefault(logger)

	rt := &runtime{cfg: cfg, logger: logger}

	shutdownTracing, err := observability.InitUptrace(cfg, logger)
	if err != nil {
		return nil, fmt.Errorf("init uptrace: %w", err)
	}
	rt.shutdown = append(rt.shutdown, shutdownTracing)

	stopProfiler, err := observability.InitPyroscope(cfg, logger)
	if err != nil {
		rt.close(ctx)
		return nil, fmt.Errorf("init pyroscope: %w", err)
	}
	rt.shutdown = append(rt.shutdown, func(context.Context) error { return stopProfiler() })

	container, err := app.New(ctx, cfg, logger)
	if err != nil {
		rt.close(ctx)
		return nil, fmt.Errorf("build app: %w", err)
	}
	rt.container = container
	return rt, nil
}

func (rt *runtime) close(ctx context.Context) {
	if rt.container != nil {
		if err := rt.container.Close(); err != nil {
			rt.logger.Warn("close app failed", "error", err)
		}
	}
	for i := len(rt.shutdown) - 1; i >= 0; i-- {
		if err := rt.shutdown[i](ctx); err != nil {
			rt.logger.Warn("telemetry shutdown failed", "error", err)
		}
	}
	_ = rt.logger.Sync()
}

func writeJSON(w io.Writer, v any) error {
	enc := sonic.ConfigStd.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
