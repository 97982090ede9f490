// Copyright (c) 2025 niichapats.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/niichapats/ku-polls/cliparse"
	"github.com/niichapats/ku-polls/db"
	"github.com/niichapats/ku-polls/pipeline"
)

func newCICmd() *cobra.Command {
	var (
		event, branch, dir, repo string
		branches                 []string
	)

	cmd := &cobra.Command{
		Use:   "ci",
		Short: "Run the CI pipeline",
		Long: `Run checkout, provision runtime, install dependencies, materialize
environment, apply migrations and run tests, stopping at the first failure.

Secrets (SECRET_KEY, DEBUG, ALLOWED_HOSTS, TIME_ZONE) are read from the
environment and passed to the test run in memory. When --event is set the
pipeline only runs for push and pull_request on the configured branches.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			trigger := pipeline.DefaultTrigger()
			trigger.Branches = branches
			if event != "" && !trigger.Matches(event, branch) {
				slog.Info("ci skipped", "event", event, "branch", branch)
				return nil
			}

			p := pipeline.CI(pipeline.CIOptions{
				Repository: repo,
				Branch:     branch,
				Secrets:    pipeline.EnvSecrets{},
				Migrate:    migrateFresh,
			})

			job := &pipeline.Job{
				Dir:    dir,
				Stdout: cmd.OutOrStdout(),
				Stderr: cmd.ErrOrStderr(),
			}
			res, err := p.Run(cmd.Context(), job)
			if err != nil {
				return err
			}
			slog.Info("ci passed", "steps", len(res.Completed))
			return nil
		},
	}

	cmd.Flags().StringVar(&event, "event", os.Getenv("GITHUB_EVENT_NAME"), "triggering event (push, pull_request)")
	cmd.Flags().StringVar(&branch, "branch", os.Getenv("GITHUB_REF_NAME"), "target branch")
	cmd.Flags().StringSliceVar(&branches, "branches", pipeline.DefaultTrigger().Branches, "branches that trigger the pipeline")
	cmd.Flags().StringVar(&dir, "dir", ".", "source directory")
	cmd.Flags().StringVar(&repo, "repo", "", "repository to clone into --dir (default: use --dir as is)")
	return cmd
}

// migrateFresh applies every migration to the job's DATABASE_URL, or to a
// scratch SQLite database when none is set.
func migrateFresh(ctx context.Context, job *pipeline.Job) error {
	dbType, url := job.Env["DATABASE_TYPE"], job.Env["DATABASE_URL"]
	if url == "" {
		url = os.Getenv("DATABASE_URL")
		dbType = os.Getenv("DATABASE_TYPE")
	}
	if url == "" {
		tmp, err := os.MkdirTemp("", "kupolls-ci-")
		if err != nil {
			return err
		}
		defer os.RemoveAll(tmp)
		dbType, url = cliparse.DatabaseSQLite, "file:"+filepath.Join(tmp, "ci.sqlite3")
	}
	if dbType == "" {
		dbType = cliparse.DatabaseSQLite
	}

	conn, err := db.Open(dbType, url)
	if err != nil {
		return err
	}
	defer conn.Close()

	applied, err := db.Migrate(ctx, conn)
	if err != nil {
		return fmt.Errorf("migrate: %w", err)
	}
	slog.Info("ci migrations applied", "count", len(applied))
	return nil
}
