// Copyright (c) 2025 niichapats.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package pipeline

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/exec"
	"slices"
	"strings"
	"time"
)

// Env is a job-scoped environment. It is handed to subprocesses directly
// and never written to disk.
type Env map[string]string

// Environ merges e over base (KEY=VALUE entries), e winning on conflict.
func (e Env) Environ(base []string) []string {
	out := make([]string, 0, len(base)+len(e))
	for _, kv := range base {
		key, _, _ := strings.Cut(kv, "=")
		if _, ok := e[key]; ok {
			continue
		}
		out = append(out, kv)
	}

	keys := make([]string, 0, len(e))
	for k := range e {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	for _, k := range keys {
		out = append(out, k+"="+e[k])
	}
	return out
}

// Command is one subprocess invocation.
type Command struct {
	Name   string
	Args   []string
	Dir    string
	Env    []string
	Stdout io.Writer
	Stderr io.Writer
}

func (c Command) String() string {
	return strings.Join(append([]string{c.Name}, c.Args...), " ")
}

// Runner executes commands.
type Runner interface {
	Run(ctx context.Context, cmd Command) error
}

// ExecRunner runs commands with os/exec.
type ExecRunner struct{}

func (ExecRunner) Run(ctx context.Context, c Command) error {
	cmd := exec.CommandContext(ctx, c.Name, c.Args...)
	cmd.Dir = c.Dir
	cmd.Env = c.Env
	cmd.Stdout = c.Stdout
	cmd.Stderr = c.Stderr
	if err := cmd.Run(); err != nil {
		return fmt.Errorf("%s: %w", c, err)
	}
	return nil
}

// Job is the state shared by the steps of one pipeline run.
type Job struct {
	Env    Env
	Dir    string
	Runner Runner
	Stdout io.Writer
	Stderr io.Writer
}

// Exec runs name in the job directory with the job environment layered
// over the process environment.
func (j *Job) Exec(ctx context.Context, name string, args ...string) error {
	return j.Runner.Run(ctx, Command{
		Name:   name,
		Args:   args,
		Dir:    j.Dir,
		Env:    j.Env.Environ(os.Environ()),
		Stdout: j.Stdout,
		Stderr: j.Stderr,
	})
}

// Step is one named unit of work.
type Step struct {
	Name string
	Run  func(ctx context.Context, job *Job) error
}

// StepError reports which step aborted the pipeline.
type StepError struct {
	Step string
	Err  error
}

func (e *StepError) Error() string {
	return fmt.Sprintf("step %q failed: %v", e.Step, e.Err)
}

func (e *StepError) Unwrap() error { return e.Err }

// Result lists the steps that completed and the one that failed, if any.
type Result struct {
	Completed []string
	Failed    string
}

// Pipeline is a strictly ordered list of steps.
type Pipeline struct {
	Name  string
	Steps []Step
}

// StepNames lists the steps in run order.
func (p *Pipeline) StepNames() []string {
	names := make([]string, len(p.Steps))
	for i, s := range p.Steps {
		names[i] = s.Name
	}
	return names
}

// Run executes each step in order. The first failure aborts the rest and
// is returned as a *StepError.
func (p *Pipeline) Run(ctx context.Context, job *Job) (Result, error) {
	if job.Env == nil {
		job.Env = Env{}
	}
	if job.Runner == nil {
		job.Runner = ExecRunner{}
	}
	if job.Stdout == nil {
		job.Stdout = io.Discard
	}
	if job.Stderr == nil {
		job.Stderr = io.Discard
	}

	var res Result
	slog.Info("pipeline started", "pipeline", p.Name, "steps", len(p.Steps))

	for _, s := range p.Steps {
		if err := ctx.Err(); err != nil {
			res.Failed = s.Name
			return res, &StepError{Step: s.Name, Err: err}
		}

		start := time.Now()
		slog.Info("step started", "pipeline", p.Name, "step", s.Name)

		if err := s.Run(ctx, job); err != nil {
			slog.Error("step failed", "pipeline", p.Name, "step", s.Name, "error", err)
			res.Failed = s.Name
			return res, &StepError{Step: s.Name, Err: err}
		}

		res.Completed = append(res.Completed, s.Name)
		slog.Info("step completed",
			"pipeline", p.Name,
			"step", s.Name,
			"duration_ms", time.Since(start).Milliseconds(),
		)
	}

	slog.Info("pipeline succeeded", "pipeline", p.Name)
	return res, nil
}
