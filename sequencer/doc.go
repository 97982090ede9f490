// Copyright (c) 2025 niichapats.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package sequencer runs the process startup sequence: preparation steps
such as schema migration, then one blocking serve step.

# Building a Plan

A Builder collects steps; Serve finishes it and returns a Plan:

	plan := sequencer.New("kupolls", lifecycle).
		Step("migrate", migrate).
		Serve(server)

	err := plan.Run(ctx)

A Plan has no method for adding steps, so no step can follow the serve
step. Steps added to the Builder afterwards do not affect the Plan.

# States

	NotStarted → Migrating → Serving → Stopped

Run moves to Migrating, runs each step in order, binds the server
address and moves to Serving. Any step error aborts before the bind. The
Lifecycle ends in Stopped when Run returns, including on error. A Plan
runs at most once.

# Serving Strategies

ForMode returns exactly one of:

  - DevServer: no timeouts, connections closed on shutdown
  - ProdServer: request timeouts, graceful drain on shutdown

Both stop when the Run context is cancelled.
*/
package sequencer
