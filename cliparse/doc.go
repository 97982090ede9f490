// Copyright (c) 2025 niichapats.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package cliparse handles command-line flags and configuration.

# Configuration

Load returns a Config struct with all settings:

	cliparse.BindFlags(cmd.Flags())
	cfg, err := cliparse.Load(cmd.Flags())

# Config Fields

  - Host, Port: Bind address (default: 0.0.0.0:8000)
  - DatabaseURL: Connection string (default: file:db.sqlite3)
  - DatabaseType: sqlite, postgres or pgx (default: sqlite)
  - SecretKey: Signs session tokens (required)
  - Debug: Verbose text logging (default: true)
  - TimeZone: Zone used when rendering times (default: UTC)
  - AllowedHosts: Host headers the server answers for (default: 127.0.0.1,localhost)
  - ServeMode: dev or prod (default: dev)
  - ShutdownTimeout: Grace period on SIGTERM (default: 10s)

# Precedence

	flag > environment > .env file > default

Environment variables use the upper-cased key: PORT, DATABASE_URL,
DATABASE_TYPE, SECRET_KEY, DEBUG, ALLOWED_HOSTS, SERVE_MODE, HOST,
SHUTDOWN_TIMEOUT. The time zone is read from TIME_ZONE or TIMEZONE.

The .env file (path set by --env-file) never overrides a variable that is
already present in the environment, and a missing file is ignored.

# Validation

Load returns an error when:

  - SECRET_KEY is missing (ErrMissingSecretKey)
  - the port is outside 1-65535
  - the database type or serve mode is unknown
  - the time zone cannot be loaded
*/
package cliparse
