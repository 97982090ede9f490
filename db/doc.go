// Copyright (c) 2025 niichapats.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package db opens database connections and applies schema migrations.

# Drivers

Open selects a database/sql driver from the configured type:

  - sqlite: modernc.org/sqlite (pure Go, default)
  - postgres: github.com/lib/pq
  - pgx: github.com/jackc/pgx/v5/stdlib

All queries use $N placeholders, which every driver accepts.

# Migrations

Migrations is the ordered schema history. Migrate applies the pending ones:

	applied, err := db.Migrate(ctx, conn)

Each migration runs in its own transaction and is recorded in
schema_migrations, so running Migrate again is a no-op. Order sorts the set
by DependsOn (ties by ID) and rejects cycles and unknown dependencies. A
failed migration is returned as *MigrationError; earlier migrations from the
same run remain applied.

# Tables

  - question: text, pub_date, end_date (nullable)
  - choice: text and display order per question
  - users: username, bcrypt password hash, staff flag
  - vote: one row per (user, question)
  - schema_migrations: applied migration IDs

# Readiness

Probe pings the database behind a gobreaker circuit breaker:

	probe := db.NewProbe("database", conn)
	result := probe.Check(ctx)
*/
package db
