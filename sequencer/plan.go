// Copyright (c) 2025 niichapats.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package sequencer

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"time"
)

// ErrAlreadyStarted is returned when a Plan is run a second time.
var ErrAlreadyStarted = errors.New("startup plan already started")

// StepFunc is one preparation step, such as applying migrations.
type StepFunc func(ctx context.Context) error

// StepError reports which preparation step failed.
type StepError struct {
	Step string
	Err  error
}

func (e *StepError) Error() string {
	return fmt.Sprintf("startup step %q: %v", e.Step, e.Err)
}

func (e *StepError) Unwrap() error { return e.Err }

// Server is the single blocking step that ends a Plan. Serve must return
// once ctx is done.
type Server interface {
	Addr() string
	Serve(ctx context.Context, ln net.Listener) error
}

type step struct {
	name string
	fn   StepFunc
}

// Builder collects preparation steps. It is finished by Serve, which is
// the only way to obtain a runnable Plan.
type Builder struct {
	name      string
	lifecycle *Lifecycle
	steps     []step
}

// New starts a Builder. A nil lifecycle gets a fresh one.
func New(name string, lifecycle *Lifecycle) *Builder {
	if lifecycle == nil {
		lifecycle = NewLifecycle()
	}
	return &Builder{name: name, lifecycle: lifecycle}
}

// Step appends a preparation step. Steps run in the order added.
func (b *Builder) Step(name string, fn StepFunc) *Builder {
	b.steps = append(b.steps, step{name: name, fn: fn})
	return b
}

// Serve finishes the sequence with srv as its terminal step.
func (b *Builder) Serve(srv Server) *Plan {
	steps := make([]step, len(b.steps))
	copy(steps, b.steps)
	return &Plan{name: b.name, lifecycle: b.lifecycle, steps: steps, server: srv}
}

// Plan is a finished startup sequence: preparation steps followed by
// exactly one serve step. Nothing can be added after the serve step.
type Plan struct {
	name      string
	lifecycle *Lifecycle
	steps     []step
	server    Server
}

func (p *Plan) Lifecycle() *Lifecycle {
	return p.lifecycle
}

// Steps lists the preparation step names in run order.
func (p *Plan) Steps() []string {
	names := make([]string, len(p.steps))
	for i, s := range p.steps {
		names[i] = s.name
	}
	return names
}

// Run executes the preparation steps in order, then binds the server
// address and serves until ctx is done. A failing step aborts the run
// before anything is bound. The lifecycle ends in Stopped whatever the
// outcome.
func (p *Plan) Run(ctx context.Context) error {
	if !p.lifecycle.start() {
		return ErrAlreadyStarted
	}
	defer p.lifecycle.advance(Stopped)

	slog.Info("startup sequence started", "plan", p.name, "steps", len(p.steps))

	for _, s := range p.steps {
		start := time.Now()
		if err := s.fn(ctx); err != nil {
			slog.Error("startup step failed", "plan", p.name, "step", s.name, "error", err)
			return &StepError{Step: s.name, Err: err}
		}
		slog.Info("startup step completed",
			"plan", p.name,
			"step", s.name,
			"duration_ms", time.Since(start).Milliseconds(),
		)
	}

	if err := ctx.Err(); err != nil {
		return err
	}

	ln, err := net.Listen("tcp", p.server.Addr())
	if err != nil {
		return fmt.Errorf("bind %s: %w", p.server.Addr(), err)
	}

	p.lifecycle.advance(Serving)
	slog.Info("listening", "plan", p.name, "addr", ln.Addr().String())

	if err := p.server.Serve(ctx, ln); err != nil {
		return fmt.Errorf("serve: %w", err)
	}

	slog.Info("server stopped", "plan", p.name)
	return nil
}
