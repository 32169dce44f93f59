// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Chatling Contributors

package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"sync/atomic"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/chatling/chatling/internal/bot"
	"github.com/chatling/chatling/internal/config"
	"github.com/chatling/chatling/internal/logging"
	"github.com/chatling/chatling/internal/plugin"
	"github.com/chatling/chatling/internal/web"
	"github.com/chatling/chatling/plugins/dingdong"
)

const shutdownTimeout = 10 * time.Second

// NewServeCmd creates the serve subcommand.
func NewServeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the plugin host",
		Long: `Start the plugin host: load configured plugins, collect their
HTTP route contributions, and serve them together with metrics, health
probes, and the plugin status listing. The chat backend delivers events
through the embedding application's dispatcher.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.Load(configFile, cmd.Flags())
			if err != nil {
				return fmt.Errorf("failed to load configuration: %w", err)
			}
			return runServe(cmd.Context(), cfg)
		},
	}

	cmd.Flags().String("host", "0.0.0.0", "web server host")
	cmd.Flags().Int("port", 5000, "web server port")
	cmd.Flags().String("log-format", "json", "log format (json or text)")
	cmd.Flags().String("log-level", "info", "log level (debug, info, warn, error)")
	cmd.Flags().Duration("collect-interval", 30*time.Second, "plugin output poll interval")

	return cmd
}

func runServe(ctx context.Context, cfg *config.Config) error {
	if cfg.Log.Format != "json" && cfg.Log.Format != "text" {
		return fmt.Errorf("log-format must be 'json' or 'text', got %q", cfg.Log.Format)
	}
	level, err := logging.ParseLevel(cfg.Log.Level)
	if err != nil {
		return fmt.Errorf("log-level must be debug, info, warn, or error, got %q", cfg.Log.Level)
	}
	logging.SetDefault(logging.Options{
		Service: "chatling",
		Version: version,
		Format:  cfg.Log.Format,
		Level:   level,
	})

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	rt := bot.NewRuntime(nil)
	registry := plugin.NewRegistry(rt, cfg.Server.Host, cfg.Server.Port)

	// Built-in liveness plugin; configured plugins dispatch after it.
	registry.Add(dingdong.New())

	for _, locator := range cfg.Plugins.Locators {
		if err := registry.AddLocator(locator); err != nil {
			slog.Error("skipping plugin locator", "error", err)
		}
	}

	var ready atomic.Bool
	server := web.NewServer(registry.Addr(), registry, ready.Load)

	if err := registry.Startup(ctx, server.Router()); err != nil {
		return fmt.Errorf("failed to start plugins: %w", err)
	}

	errCh, err := server.Start()
	if err != nil {
		return fmt.Errorf("failed to start web server: %w", err)
	}
	ready.Store(true)

	slog.Info("plugin host ready", "endpoint", registry.Endpoint())
	slog.Info("registered routes\n" + server.Router().RoutesText())

	collector, err := plugin.NewOutputCollector(registry, logOutputSink, cfg.Plugins.CollectInterval)
	if err != nil {
		return err
	}
	collector.Start(ctx)

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-sigCh:
		slog.Info("shutting down", "signal", sig.String())
	case serveErr := <-errCh:
		if serveErr != nil {
			slog.Error("web server failed", "error", serveErr)
		}
	case <-ctx.Done():
	}

	cancel()
	collector.Stop()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer shutdownCancel()
	if err := server.Stop(shutdownCtx); err != nil {
		return fmt.Errorf("failed to stop web server: %w", err)
	}
	return nil
}

// logOutputSink publishes drained plugin outputs to the log. Deployments
// needing a push channel swap in their own sink.
func logOutputSink(_ context.Context, pluginName string, output map[string]any) error {
	slog.Info("plugin output", "plugin", pluginName, "output", output)
	return nil
}
