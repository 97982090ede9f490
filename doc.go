// Copyright (c) 2025 niichapats.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package main provides the kupolls command: the KU Polls API server and
its build and CI tooling.

# Starting the Server

The container's fixed command is:

	kupolls serve

It applies pending migrations and then serves on 0.0.0.0:8000. A failed
migration exits non-zero before anything is bound. SERVE_MODE picks the
single server used (dev or prod).

# Configuration

Required settings:

  - SECRET_KEY (--secret-key): Signs session tokens

Optional settings:

  - PORT (-p): Server port (default: 8000)
  - DATABASE_URL (-d): Database URL (default: file:db.sqlite3)
  - DATABASE_TYPE (-t): sqlite, postgres or pgx (default: sqlite)
  - DEBUG: Debug logging (default: true)
  - TIME_ZONE or TIMEZONE: Zone for rendered times (default: UTC)
  - ALLOWED_HOSTS: Comma-separated hosts (default: 127.0.0.1,localhost)

A .env file is read if present; real environment variables win.

# Commands

  - serve: migrate, then serve
  - migrate: apply migrations, or --list pending ones
  - ci: run the CI pipeline
  - build: check build args, install dependencies, compile
  - createuser: add a user account

# Architecture

  - sequencer: Startup plan (steps, then one serve step) and lifecycle
  - pipeline: Ordered CI and build steps with an in-memory job env
  - handlers: HTTP request handlers (polls, voting, accounts, admin, health)
  - router: Route definitions using Go 1.22+ routing
  - middleware: Logging, request IDs, allowed hosts, sessions, JSON helpers
  - models: Domain and request/response types
  - auth: Password hashing and session tokens
  - db: Drivers, migrations and readiness probe
  - cliparse: Configuration parsing

See package documentation for each component.
*/
package main
