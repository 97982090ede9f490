// Copyright (c) 2025 niichapats.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package db

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"strings"
	"time"
)

// Migration is one versioned schema change. Statements run in order inside
// a single transaction.
type Migration struct {
	ID         string
	DependsOn  []string
	Statements []string
}

// MigrationError reports which migration failed.
type MigrationError struct {
	ID  string
	Err error
}

func (e *MigrationError) Error() string {
	return fmt.Sprintf("migration %s failed: %v", e.ID, e.Err)
}

func (e *MigrationError) Unwrap() error { return e.Err }

var (
	ErrDependencyCycle   = errors.New("migration dependency cycle")
	ErrUnknownDependency = errors.New("unknown migration dependency")
	ErrDuplicateID       = errors.New("duplicate migration id")
)

const trackingTable = `
CREATE TABLE IF NOT EXISTS schema_migrations (
    id TEXT PRIMARY KEY,
    applied_at TIMESTAMP NOT NULL
)`

// Migrate applies every pending migration in Migrations and returns the IDs
// it applied. Calling it on an up-to-date database applies nothing.
func Migrate(ctx context.Context, conn *sql.DB) ([]string, error) {
	return Apply(ctx, conn, Migrations)
}

// Apply is Migrate for an explicit migration set. It stops at the first
// failure; migrations applied before it stay applied.
func Apply(ctx context.Context, conn *sql.DB, migrations []Migration) ([]string, error) {
	ordered, err := Order(migrations)
	if err != nil {
		return nil, err
	}

	if _, err := conn.ExecContext(ctx, trackingTable); err != nil {
		return nil, fmt.Errorf("failed to create schema_migrations: %w", err)
	}

	done, err := appliedIDs(ctx, conn)
	if err != nil {
		return nil, err
	}

	applied := []string{}
	for _, m := range ordered {
		if done[m.ID] {
			continue
		}
		if err := applyOne(ctx, conn, m); err != nil {
			return applied, &MigrationError{ID: m.ID, Err: err}
		}
		slog.Info("migration applied", "id", m.ID)
		applied = append(applied, m.ID)
	}

	return applied, nil
}

// Pending lists migrations in Migrations not yet recorded as applied.
func Pending(ctx context.Context, conn *sql.DB) ([]string, error) {
	ordered, err := Order(Migrations)
	if err != nil {
		return nil, err
	}
	if _, err := conn.ExecContext(ctx, trackingTable); err != nil {
		return nil, fmt.Errorf("failed to create schema_migrations: %w", err)
	}
	done, err := appliedIDs(ctx, conn)
	if err != nil {
		return nil, err
	}

	pending := []string{}
	for _, m := range ordered {
		if !done[m.ID] {
			pending = append(pending, m.ID)
		}
	}
	return pending, nil
}

func appliedIDs(ctx context.Context, conn *sql.DB) (map[string]bool, error) {
	rows, err := conn.QueryContext(ctx, `SELECT id FROM schema_migrations`)
	if err != nil {
		return nil, fmt.Errorf("failed to read schema_migrations: %w", err)
	}
	defer rows.Close()

	done := make(map[string]bool)
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("failed to scan migration id: %w", err)
		}
		done[id] = true
	}
	return done, rows.Err()
}

func applyOne(ctx context.Context, conn *sql.DB, m Migration) error {
	tx, err := conn.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	for _, stmt := range m.Statements {
		if _, err := tx.ExecContext(ctx, stmt); err != nil {
			return err
		}
	}

	if _, err := tx.ExecContext(ctx, `
		INSERT INTO schema_migrations (id, applied_at) VALUES ($1, $2)
	`, m.ID, time.Now().UTC()); err != nil {
		return err
	}

	return tx.Commit()
}

// Order sorts migrations so every migration follows its dependencies.
// Independent migrations are ordered by ID.
func Order(migrations []Migration) ([]Migration, error) {
	byID := make(map[string]Migration, len(migrations))
	for _, m := range migrations {
		if _, dup := byID[m.ID]; dup {
			return nil, fmt.Errorf("%w: %s", ErrDuplicateID, m.ID)
		}
		byID[m.ID] = m
	}

	// Kahn's algorithm over remaining in-degrees
	indegree := make(map[string]int, len(migrations))
	dependents := make(map[string][]string)
	for _, m := range migrations {
		indegree[m.ID] += 0
		for _, dep := range m.DependsOn {
			if _, ok := byID[dep]; !ok {
				return nil, fmt.Errorf("%w: %s depends on %s", ErrUnknownDependency, m.ID, dep)
			}
			indegree[m.ID]++
			dependents[dep] = append(dependents[dep], m.ID)
		}
	}

	var ready []string
	for id, n := range indegree {
		if n == 0 {
			ready = append(ready, id)
		}
	}

	ordered := make([]Migration, 0, len(migrations))
	for len(ready) > 0 {
		slices.Sort(ready)
		id := ready[0]
		ready = ready[1:]
		ordered = append(ordered, byID[id])

		for _, next := range dependents[id] {
			indegree[next]--
			if indegree[next] == 0 {
				ready = append(ready, next)
			}
		}
	}

	if len(ordered) != len(migrations) {
		var stuck []string
		for id, n := range indegree {
			if n > 0 {
				stuck = append(stuck, id)
			}
		}
		slices.Sort(stuck)
		return nil, fmt.Errorf("%w: %s", ErrDependencyCycle, strings.Join(stuck, ", "))
	}

	return ordered, nil
}
