// Copyright (c) 2025 niichapats.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package main

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/niichapats/ku-polls/cliparse"
	"github.com/niichapats/ku-polls/db"
	"github.com/niichapats/ku-polls/handlers"
)

func newCreateUserCmd(logLevel *string) *cobra.Command {
	var (
		username, password, firstName string
		staff                         bool
	)

	cmd := &cobra.Command{
		Use:   "createuser",
		Short: "Create a user account",
		Long: `Create a user account. Staff accounts may create questions and
choices through the admin endpoints. Migrations are applied first.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if username == "" || password == "" {
				return errors.New("--username and --password are required")
			}

			cfg, err := loadConfig(cmd, *logLevel)
			if err != nil {
				return err
			}

			conn, err := db.Open(cfg.DatabaseType, cfg.DatabaseURL)
			if err != nil {
				return err
			}
			defer conn.Close()

			if _, err := db.Migrate(cmd.Context(), conn); err != nil {
				return err
			}

			id, err := handlers.CreateUser(cmd.Context(), conn, username, password, firstName, staff)
			if err != nil {
				return err
			}
			slog.Info("user created", "username", username, "staff", staff)
			fmt.Fprintln(cmd.OutOrStdout(), id)
			return nil
		},
	}

	cmd.Flags().StringVar(&username, "username", "", "login name")
	cmd.Flags().StringVar(&password, "password", "", "password")
	cmd.Flags().StringVar(&firstName, "first-name", "", "display name")
	cmd.Flags().BoolVar(&staff, "staff", false, "grant admin access")
	cliparse.BindFlags(cmd.Flags())
	return cmd
}
