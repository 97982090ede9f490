// Copyright (c) 2025 niichapats.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package router defines HTTP routes for the KU Polls API.

# Route Registration

NewRouter creates a configured handler with all endpoints:

	handler := router.NewRouter(db, cfg, lifecycle)

The lifecycle reports startup progress to the readiness endpoint.

# Endpoints

Health:

	GET /health - Liveness
	GET /ready  - Readiness (migrated, serving, database reachable)

Polls (public):

	GET /polls              - Latest published questions
	GET /polls/{id}         - Question and its choices
	GET /polls/{id}/results - Vote counts

Voting (requires Authorization: Bearer):

	POST /polls/{id}/vote    - Cast or change a vote
	GET  /polls/{id}/my-vote - Caller's current vote

Accounts:

	POST /accounts/login  - Exchange credentials for a token
	POST /accounts/logout - Discard the session

Admin (staff only):

	POST /admin/questions              - Create a question
	POST /admin/questions/{id}/choices - Add a choice

# Request Pipeline

Every request passes through RequestID and then AllowedHosts before
reaching the mux. Requests with a Host header outside ALLOWED_HOSTS are
rejected with 400.
*/
package router
