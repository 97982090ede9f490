// Copyright (c) 2025 niichapats.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package pipeline

import (
	"context"
	"errors"
)

// Step names of the build pipeline, in order.
const (
	StepRequireSecret = "require secret"
	StepBuildInstall  = "install dependencies"
	StepCompile       = "compile"
)

// ErrMissingBuildArg is returned when the SECRET_KEY build arg is absent.
var ErrMissingBuildArg = errors.New("No secret key specified in build-arg")

// DefaultAllowedHosts is the ALLOWED_HOSTS build arg default.
const DefaultAllowedHosts = "127.0.0.1,localhost"

// BuildOptions configures the build pipeline.
type BuildOptions struct {
	// Args are the build args. SECRET_KEY is required.
	Args map[string]string

	// Output is the binary path. Defaults to "kupolls".
	Output string
}

// Build builds the pipeline: require secret, install dependencies,
// compile. Without SECRET_KEY it fails before installing anything.
func Build(opts BuildOptions) *Pipeline {
	if opts.Output == "" {
		opts.Output = "kupolls"
	}

	return &Pipeline{
		Name: "build",
		Steps: []Step{
			{Name: StepRequireSecret, Run: func(ctx context.Context, job *Job) error {
				key := opts.Args["SECRET_KEY"]
				if key == "" {
					return ErrMissingBuildArg
				}
				hosts := opts.Args["ALLOWED_HOSTS"]
				if hosts == "" {
					hosts = DefaultAllowedHosts
				}
				job.Env["SECRET_KEY"] = key
				job.Env["ALLOWED_HOSTS"] = hosts
				return nil
			}},
			{Name: StepBuildInstall, Run: installDeps},
			{Name: StepCompile, Run: func(ctx context.Context, job *Job) error {
				job.Env["CGO_ENABLED"] = "0"
				return job.Exec(ctx, "go", "build", "-o", opts.Output, ".")
			}},
		},
	}
}
