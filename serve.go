// Copyright (c) 2025 niichapats.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/niichapats/ku-polls/cliparse"
	"github.com/niichapats/ku-polls/db"
	"github.com/niichapats/ku-polls/router"
	"github.com/niichapats/ku-polls/sequencer"
)

func newServeCmd(logLevel *string) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Apply migrations, then serve the API",
		Long: `Apply pending migrations, then bind the configured address and serve.
A migration failure exits non-zero without serving. SERVE_MODE selects
the one server used: dev (default) or prod.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd, *logLevel)
			if err != nil {
				return err
			}
			return runServe(cmd.Context(), cfg)
		},
	}
	cliparse.BindFlags(cmd.Flags())
	return cmd
}

func runServe(ctx context.Context, cfg cliparse.Config) error {
	if ctx == nil {
		ctx = context.Background()
	}
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	conn, err := db.Open(cfg.DatabaseType, cfg.DatabaseURL)
	if err != nil {
		return err
	}
	defer conn.Close()

	lifecycle := sequencer.NewLifecycle()
	handler := router.NewRouter(conn, cfg, lifecycle)

	srv, err := sequencer.ForMode(cfg.ServeMode, cfg.Addr(), handler, cfg.ShutdownTimeout)
	if err != nil {
		return err
	}

	plan := sequencer.New("kupolls", lifecycle).
		Step("migrate", func(ctx context.Context) error {
			applied, err := db.Migrate(ctx, conn)
			if err != nil {
				return err
			}
			slog.Info("database schema ready", "applied", len(applied))
			return nil
		}).
		Serve(srv)

	slog.Info("starting",
		"addr", cfg.Addr(),
		"mode", srv.Mode(),
		"database", cfg.DatabaseType,
		"debug", cfg.Debug,
	)
	return plan.Run(ctx)
}
