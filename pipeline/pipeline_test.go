package pipeline

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeRunner records commands and fails any whose string form starts
// with failOn.
type fakeRunner struct {
	commands []Command
	failOn   string
}

func (f *fakeRunner) Run(ctx context.Context, c Command) error {
	f.commands = append(f.commands, c)
	if f.failOn != "" && strings.HasPrefix(c.String(), f.failOn) {
		return errors.New("exit status 1")
	}
	return nil
}

func (f *fakeRunner) ran() []string {
	out := make([]string, len(f.commands))
	for i, c := range f.commands {
		out[i] = c.String()
	}
	return out
}

func envValue(env []string, key string) (string, bool) {
	for _, kv := range env {
		if k, v, ok := strings.Cut(kv, "="); ok && k == key {
			return v, true
		}
	}
	return "", false
}

// sourceTree returns a temp dir that looks like a checked-out module.
func sourceTree(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "go.mod"), []byte("module example.com/polls\n"), 0o644))
	return dir
}

func TestEnvEnviron(t *testing.T) {
	env := Env{"SECRET_KEY": "abc", "DEBUG": "false"}
	got := env.Environ([]string{"PATH=/bin", "DEBUG=true"})

	assert.Equal(t, []string{"PATH=/bin", "DEBUG=false", "SECRET_KEY=abc"}, got)
}

func TestCIStepOrder(t *testing.T) {
	p := CI(CIOptions{})
	assert.Equal(t, []string{
		StepCheckout, StepProvision, StepInstall, StepEnv, StepMigrate, StepTest,
	}, p.StepNames())
}

func TestCISuccess(t *testing.T) {
	dir := sourceTree(t)
	runner := &fakeRunner{}
	secrets := MapSecrets{"SECRET_KEY": "s3cret", "DEBUG": "false", "TIME_ZONE": "Asia/Bangkok"}

	var migrateEnv Env
	p := CI(CIOptions{
		Secrets: secrets,
		Migrate: func(ctx context.Context, job *Job) error {
			migrateEnv = job.Env
			return nil
		},
	})

	job := &Job{Dir: dir, Runner: runner}
	res, err := p.Run(context.Background(), job)
	require.NoError(t, err)

	assert.Equal(t, p.StepNames(), res.Completed)
	assert.Empty(t, res.Failed)
	assert.Equal(t, []string{"go version", "go mod download", "go test ./..."}, runner.ran())

	// Migration saw the materialized environment
	assert.Equal(t, "s3cret", migrateEnv["SECRET_KEY"])
	assert.Equal(t, "127.0.0.1,localhost", migrateEnv["ALLOWED_HOSTS"])

	// The test run received the secrets through its process environment
	testCmd := runner.commands[len(runner.commands)-1]
	v, ok := envValue(testCmd.Env, "SECRET_KEY")
	assert.True(t, ok)
	assert.Equal(t, "s3cret", v)
	v, _ = envValue(testCmd.Env, "TIME_ZONE")
	assert.Equal(t, "Asia/Bangkok", v)
	assert.Equal(t, dir, testCmd.Dir)
}

func TestCINeverWritesEnvFile(t *testing.T) {
	dir := sourceTree(t)
	p := CI(CIOptions{
		Secrets: MapSecrets{"SECRET_KEY": "s3cret"},
		Migrate: func(context.Context, *Job) error { return nil },
	})

	_, err := p.Run(context.Background(), &Job{Dir: dir, Runner: &fakeRunner{}})
	require.NoError(t, err)

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	for _, e := range entries {
		assert.NotEqual(t, ".env", e.Name())
		if e.Name() != "go.mod" {
			t.Errorf("unexpected file %s in job directory", e.Name())
		}
	}
}

func TestCIFailureAbortsRemainingSteps(t *testing.T) {
	tests := []struct {
		name       string
		failOn     string
		secrets    MapSecrets
		migrateErr error
		failed     string
		completed  []string
	}{
		{
			name:      "install fails",
			failOn:    "go mod download",
			secrets:   MapSecrets{"SECRET_KEY": "x"},
			failed:    StepInstall,
			completed: []string{StepCheckout, StepProvision},
		},
		{
			name:      "missing secret",
			secrets:   MapSecrets{},
			failed:    StepEnv,
			completed: []string{StepCheckout, StepProvision, StepInstall},
		},
		{
			name:       "migration fails",
			secrets:    MapSecrets{"SECRET_KEY": "x"},
			migrateErr: errors.New("no such table: question"),
			failed:     StepMigrate,
			completed:  []string{StepCheckout, StepProvision, StepInstall, StepEnv},
		},
		{
			name:      "tests fail",
			failOn:    "go test",
			secrets:   MapSecrets{"SECRET_KEY": "x"},
			failed:    StepTest,
			completed: []string{StepCheckout, StepProvision, StepInstall, StepEnv, StepMigrate},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			runner := &fakeRunner{failOn: tt.failOn}
			p := CI(CIOptions{
				Secrets: tt.secrets,
				Migrate: func(context.Context, *Job) error { return tt.migrateErr },
			})

			res, err := p.Run(context.Background(), &Job{Dir: sourceTree(t), Runner: runner})
			require.Error(t, err)

			var stepErr *StepError
			require.ErrorAs(t, err, &stepErr)
			assert.Equal(t, tt.failed, stepErr.Step)
			assert.Equal(t, tt.failed, res.Failed)
			assert.Equal(t, tt.completed, res.Completed)

			if tt.failed != StepTest {
				assert.False(t, slices.Contains(runner.ran(), "go test ./..."), "tests must not run after a failure")
			}
		})
	}
}

func TestCIMissingSourceTree(t *testing.T) {
	runner := &fakeRunner{}
	p := CI(CIOptions{Secrets: MapSecrets{"SECRET_KEY": "x"}})

	res, err := p.Run(context.Background(), &Job{Dir: t.TempDir(), Runner: runner})
	require.Error(t, err)
	assert.Equal(t, StepCheckout, res.Failed)
	assert.Empty(t, runner.commands)
}

func TestCIDefaultMigrateRunsSubcommand(t *testing.T) {
	runner := &fakeRunner{}
	p := CI(CIOptions{Secrets: MapSecrets{"SECRET_KEY": "x"}})

	_, err := p.Run(context.Background(), &Job{Dir: sourceTree(t), Runner: runner})
	require.NoError(t, err)
	assert.Contains(t, runner.ran(), "go run . migrate")
}

func TestCICancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	res, err := CI(CIOptions{}).Run(ctx, &Job{Dir: sourceTree(t), Runner: &fakeRunner{}})
	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, StepCheckout, res.Failed)
}

func TestTriggerMatches(t *testing.T) {
	trigger := DefaultTrigger()

	tests := []struct {
		event, branch string
		want          bool
	}{
		{"push", "main", true},
		{"pull_request", "master", true},
		{"push", "refs/heads/main", true},
		{"push", "feature/login", false},
		{"schedule", "main", false},
		{"", "", false},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, trigger.Matches(tt.event, tt.branch), "%s on %s", tt.event, tt.branch)
	}
}

func TestBuildWithoutSecretFailsBeforeInstall(t *testing.T) {
	runner := &fakeRunner{}
	p := Build(BuildOptions{Args: map[string]string{"ALLOWED_HOSTS": "polls.example.com"}})

	res, err := p.Run(context.Background(), &Job{Dir: t.TempDir(), Runner: runner})
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrMissingBuildArg)
	assert.Contains(t, err.Error(), "No secret key specified in build-arg")
	assert.Equal(t, StepRequireSecret, res.Failed)
	assert.Empty(t, runner.commands, "nothing may be installed without a secret key")
}

func TestBuildWithSecret(t *testing.T) {
	runner := &fakeRunner{}
	job := &Job{Dir: t.TempDir(), Runner: runner}
	p := Build(BuildOptions{Args: map[string]string{"SECRET_KEY": "abc"}})

	res, err := p.Run(context.Background(), job)
	require.NoError(t, err)
	assert.Equal(t, []string{StepRequireSecret, StepBuildInstall, StepCompile}, res.Completed)
	assert.Equal(t, []string{"go mod download", "go build -o kupolls ."}, runner.ran())
	assert.Equal(t, DefaultAllowedHosts, job.Env["ALLOWED_HOSTS"])

	v, _ := envValue(runner.commands[1].Env, "CGO_ENABLED")
	assert.Equal(t, "0", v)
}

func TestBuildInstallFailureStopsCompile(t *testing.T) {
	runner := &fakeRunner{failOn: "go mod download"}
	p := Build(BuildOptions{Args: map[string]string{"SECRET_KEY": "abc"}})

	res, err := p.Run(context.Background(), &Job{Runner: runner})
	require.Error(t, err)
	assert.Equal(t, StepBuildInstall, res.Failed)
	assert.Len(t, runner.commands, 1)
}
