// Copyright (c) 2025 niichapats.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package sequencer

import "sync/atomic"

// State is a startup phase.
type State int32

const (
	NotStarted State = iota
	Migrating
	Serving
	Stopped
)

func (s State) String() string {
	switch s {
	case NotStarted:
		return "not_started"
	case Migrating:
		return "migrating"
	case Serving:
		return "serving"
	case Stopped:
		return "stopped"
	default:
		return "unknown"
	}
}

// Lifecycle tracks the current State. It is safe for concurrent use and
// only moves forward.
type Lifecycle struct {
	state atomic.Int32
}

func NewLifecycle() *Lifecycle {
	return &Lifecycle{}
}

func (l *Lifecycle) State() State {
	return State(l.state.Load())
}

// Phase is the State name, for readiness reporting.
func (l *Lifecycle) Phase() string {
	return l.State().String()
}

// Serving reports whether the server is accepting connections.
func (l *Lifecycle) Serving() bool {
	return l.State() == Serving
}

// advance moves to next if it is later than the current state.
func (l *Lifecycle) advance(next State) bool {
	for {
		cur := l.state.Load()
		if State(cur) >= next {
			return false
		}
		if l.state.CompareAndSwap(cur, int32(next)) {
			return true
		}
	}
}

// start claims the NotStarted → Migrating transition.
func (l *Lifecycle) start() bool {
	return l.state.CompareAndSwap(int32(NotStarted), int32(Migrating))
}
