// Copyright (c) 2025 niichapats.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package main

import (
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/niichapats/ku-polls/pipeline"
)

func newBuildCmd() *cobra.Command {
	var (
		buildArgs map[string]string
		dir, out  string
	)

	cmd := &cobra.Command{
		Use:   "build",
		Short: "Check build args, install dependencies and compile",
		Long: `Mirror the container build: fail unless SECRET_KEY is passed as a
build arg, then download dependencies and compile the server.

  kupolls build --build-arg SECRET_KEY=... --build-arg ALLOWED_HOSTS=polls.example.com`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			p := pipeline.Build(pipeline.BuildOptions{Args: buildArgs, Output: out})
			job := &pipeline.Job{
				Dir:    dir,
				Stdout: cmd.OutOrStdout(),
				Stderr: cmd.ErrOrStderr(),
			}
			if _, err := p.Run(cmd.Context(), job); err != nil {
				return err
			}
			slog.Info("build complete", "output", out)
			return nil
		},
	}

	cmd.Flags().StringToStringVar(&buildArgs, "build-arg", nil, "build argument KEY=VALUE (repeatable)")
	cmd.Flags().StringVar(&dir, "dir", ".", "source directory")
	cmd.Flags().StringVarP(&out, "output", "o", "kupolls", "output binary")
	return cmd
}
