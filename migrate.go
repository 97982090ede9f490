// Copyright (c) 2025 niichapats.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package main

import (
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/niichapats/ku-polls/cliparse"
	"github.com/niichapats/ku-polls/db"
)

func newMigrateCmd(logLevel *string) *cobra.Command {
	var list bool

	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Apply pending schema migrations",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd, *logLevel)
			if err != nil {
				return err
			}

			conn, err := db.Open(cfg.DatabaseType, cfg.DatabaseURL)
			if err != nil {
				return err
			}
			defer conn.Close()

			if list {
				pending, err := db.Pending(cmd.Context(), conn)
				if err != nil {
					return err
				}
				for _, id := range pending {
					fmt.Fprintln(cmd.OutOrStdout(), id)
				}
				return nil
			}

			applied, err := db.Migrate(cmd.Context(), conn)
			if err != nil {
				return err
			}
			if len(applied) == 0 {
				slog.Info("no migrations to apply")
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&list, "list", false, "list pending migrations without applying them")
	cliparse.BindFlags(cmd.Flags())
	return cmd
}
