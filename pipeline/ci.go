// Copyright (c) 2025 niichapats.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package pipeline

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"slices"
	"strings"
)

// Step names of the CI pipeline, in order.
const (
	StepCheckout  = "checkout"
	StepProvision = "provision runtime"
	StepInstall   = "install dependencies"
	StepEnv       = "materialize environment"
	StepMigrate   = "apply migrations"
	StepTest      = "run tests"
)

// ErrMissingSecret is returned when the secret store has no SECRET_KEY.
var ErrMissingSecret = errors.New("SECRET_KEY not found in secret store")

// SecretStore looks up job secrets by name.
type SecretStore interface {
	Lookup(name string) (string, bool)
}

// EnvSecrets reads secrets from the process environment, which is how CI
// platforms expose their secret store to a job.
type EnvSecrets struct{}

func (EnvSecrets) Lookup(name string) (string, bool) {
	v, ok := os.LookupEnv(name)
	return v, ok && v != ""
}

// MapSecrets is a fixed secret set.
type MapSecrets map[string]string

func (m MapSecrets) Lookup(name string) (string, bool) {
	v, ok := m[name]
	return v, ok && v != ""
}

// Trigger selects the source-control events a pipeline runs on.
type Trigger struct {
	Events   []string
	Branches []string
}

// DefaultTrigger runs on pushes and pull requests to main or master.
func DefaultTrigger() Trigger {
	return Trigger{
		Events:   []string{"push", "pull_request"},
		Branches: []string{"main", "master"},
	}
}

// Matches reports whether event on branch should run the pipeline. A
// refs/heads/ prefix on branch is ignored.
func (t Trigger) Matches(event, branch string) bool {
	branch = strings.TrimPrefix(branch, "refs/heads/")
	return slices.Contains(t.Events, event) && slices.Contains(t.Branches, branch)
}

// CIOptions configures the CI pipeline.
type CIOptions struct {
	// Repository, when set, is cloned into the job directory at Branch.
	// Otherwise the job directory must already hold the source tree.
	Repository string
	Branch     string

	Secrets SecretStore

	// Migrate applies migrations with the job environment. When nil the
	// step runs "go run . migrate" in the job directory.
	Migrate func(ctx context.Context, job *Job) error

	// TestArgs are passed to "go test". Defaults to ./...
	TestArgs []string
}

// CI builds the pipeline: checkout, provision runtime, install
// dependencies, materialize environment, apply migrations, run tests.
func CI(opts CIOptions) *Pipeline {
	if opts.Secrets == nil {
		opts.Secrets = EnvSecrets{}
	}
	if len(opts.TestArgs) == 0 {
		opts.TestArgs = []string{"./..."}
	}

	return &Pipeline{
		Name: "ci",
		Steps: []Step{
			{Name: StepCheckout, Run: checkout(opts.Repository, opts.Branch)},
			{Name: StepProvision, Run: provision},
			{Name: StepInstall, Run: installDeps},
			{Name: StepEnv, Run: materializeEnv(opts.Secrets)},
			{Name: StepMigrate, Run: migrateStep(opts.Migrate)},
			{Name: StepTest, Run: func(ctx context.Context, job *Job) error {
				return job.Exec(ctx, "go", append([]string{"test"}, opts.TestArgs...)...)
			}},
		},
	}
}

func checkout(repo, branch string) func(context.Context, *Job) error {
	return func(ctx context.Context, job *Job) error {
		if repo != "" {
			args := []string{"clone", "--depth", "1"}
			if branch != "" {
				args = append(args, "--branch", branch)
			}
			if err := job.Exec(ctx, "git", append(args, repo, ".")...); err != nil {
				return err
			}
		}
		if _, err := os.Stat(filepath.Join(job.Dir, "go.mod")); err != nil {
			return fmt.Errorf("no source tree in %q: %w", job.Dir, err)
		}
		return nil
	}
}

func provision(ctx context.Context, job *Job) error {
	return job.Exec(ctx, "go", "version")
}

func installDeps(ctx context.Context, job *Job) error {
	return job.Exec(ctx, "go", "mod", "download")
}

// ciDefaults apply when the secret store lacks a value.
var ciDefaults = map[string]string{
	"DEBUG":         "true",
	"ALLOWED_HOSTS": "127.0.0.1,localhost",
	"TIME_ZONE":     "UTC",
}

// materializeEnv copies job secrets into the in-memory job environment.
func materializeEnv(secrets SecretStore) func(context.Context, *Job) error {
	return func(ctx context.Context, job *Job) error {
		key, ok := secrets.Lookup("SECRET_KEY")
		if !ok {
			return ErrMissingSecret
		}
		job.Env["SECRET_KEY"] = key

		for _, name := range []string{"DEBUG", "ALLOWED_HOSTS", "TIME_ZONE"} {
			if v, ok := secrets.Lookup(name); ok {
				job.Env[name] = v
			} else {
				job.Env[name] = ciDefaults[name]
			}
		}

		slog.Info("job environment ready", "vars", len(job.Env))
		return nil
	}
}

func migrateStep(migrate func(context.Context, *Job) error) func(context.Context, *Job) error {
	if migrate != nil {
		return migrate
	}
	return func(ctx context.Context, job *Job) error {
		return job.Exec(ctx, "go", "run", ".", "migrate")
	}
}
