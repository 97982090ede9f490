// Copyright (c) 2025 niichapats.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package db

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/sony/gobreaker"
)

// Pinger is satisfied by *sql.DB.
type Pinger interface {
	PingContext(ctx context.Context) error
}

// ProbeResult is the outcome of one readiness check.
type ProbeResult struct {
	Name      string `json:"name"`
	OK        bool   `json:"ok"`
	LatencyMs int64  `json:"latency_ms"`
	Error     string `json:"error,omitempty"`
}

// Probe checks database reachability behind a circuit breaker, so a down
// database is not hammered by every readiness request.
type Probe struct {
	name string
	db   Pinger
	cb   *gobreaker.CircuitBreaker
}

// NewCircuitBreaker trips after 3 consecutive failures and retries after
// 30 seconds in the open state.
func NewCircuitBreaker(name string) *gobreaker.CircuitBreaker {
	return gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        name,
		MaxRequests: 1,
		Interval:    0,
		Timeout:     30 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= 3
		},
	})
}

func NewProbe(name string, db Pinger) *Probe {
	return &Probe{name: name, db: db, cb: NewCircuitBreaker(name)}
}

// Check pings the database.
func (p *Probe) Check(ctx context.Context) ProbeResult {
	start := time.Now()

	_, err := p.cb.Execute(func() (any, error) {
		if err := p.db.PingContext(ctx); err != nil {
			return nil, fmt.Errorf("ping: %w", err)
		}
		return nil, nil
	})

	result := ProbeResult{
		Name:      p.name,
		OK:        err == nil,
		LatencyMs: time.Since(start).Milliseconds(),
	}
	if err != nil {
		result.Error = err.Error()
		if errors.Is(err, gobreaker.ErrOpenState) {
			result.Error = "circuit open"
		}
	}
	return result
}
