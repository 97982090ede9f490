// Copyright (c) 2025 niichapats.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package handlers contains HTTP request handlers for the KU Polls API.

# Handler Types

Each handler is a struct with database and config dependencies:

  - PollHandler: Question index, detail and results
  - VotingHandler: Casting and inspecting votes
  - AccountHandler: Login and logout
  - AdminHandler: Creating questions and choices
  - HealthHandler: Liveness and readiness

Handlers are created via constructor functions that accept *sql.DB and Config:

	pollHandler := handlers.NewPollHandler(db, cfg)

# Publication and Voting Window

A question is visible once its pub_date has passed. Questions with a
future pub_date are excluded from the index and answer 404 on detail.

Voting is open while now falls in [pub_date, end_date]. A question
without an end_date stays open indefinitely. A question whose window has
closed is still shown, with can_vote false.

# Voting Flow

	POST /accounts/login      → Login (returns bearer token)
	POST /polls/{id}/vote     → Vote (create or change)
	GET  /polls/{id}/my-vote  → MyVote

Voter operations require the Authorization: Bearer header. Each user has
at most one vote per question; voting again replaces it.

# Readiness

GET /ready answers 200 only after the startup sequence has finished
migrating and the server is accepting connections, and the database
probe succeeds. Otherwise it answers 503 with the current phase.
*/
package handlers
