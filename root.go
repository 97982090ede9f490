// Copyright (c) 2025 niichapats.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package main

import (
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/niichapats/ku-polls/cliparse"
)

func newRootCmd() *cobra.Command {
	var logLevel string

	root := &cobra.Command{
		Use:   "kupolls",
		Short: "KU Polls server and tooling",
		Long: `KU Polls serves the polls API. The container runs "kupolls serve",
which applies pending migrations and then starts exactly one server.`,
		SilenceUsage: true,
	}

	root.PersistentFlags().StringVar(&logLevel, "log-level", "", "log level (debug, info, warn, error); defaults from DEBUG")
	root.PersistentPreRunE = func(cmd *cobra.Command, args []string) error {
		initLogger(logLevel, false)
		return nil
	}

	root.AddCommand(
		newServeCmd(&logLevel),
		newMigrateCmd(&logLevel),
		newCICmd(),
		newBuildCmd(),
		newCreateUserCmd(&logLevel),
	)
	return root
}

// loadConfig reads the configuration flags of cmd and re-initializes the
// logger from DEBUG unless --log-level was given.
func loadConfig(cmd *cobra.Command, logLevel string) (cliparse.Config, error) {
	cfg, err := cliparse.Load(cmd.Flags())
	if err != nil {
		return cliparse.Config{}, fmt.Errorf("loading config: %w", err)
	}
	initLogger(logLevel, cfg.Debug)
	return cfg, nil
}

// initLogger installs the default slog logger. Debug mode logs text at
// debug level; otherwise JSON at info. An explicit level wins.
func initLogger(level string, debug bool) {
	lvl := slog.LevelInfo
	if debug {
		lvl = slog.LevelDebug
	}
	switch strings.ToLower(level) {
	case "debug":
		lvl = slog.LevelDebug
	case "info":
		lvl = slog.LevelInfo
	case "warn", "warning":
		lvl = slog.LevelWarn
	case "error":
		lvl = slog.LevelError
	}

	opts := &slog.HandlerOptions{Level: lvl}
	var handler slog.Handler = slog.NewJSONHandler(os.Stdout, opts)
	if debug {
		handler = slog.NewTextHandler(os.Stdout, opts)
	}
	slog.SetDefault(slog.New(handler))
}
