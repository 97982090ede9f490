// Copyright (c) 2025 niichapats.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package cliparse

import (
	"errors"
	"fmt"
	"io/fs"
	"net"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// Serving strategies. Exactly one is used per process.
const (
	ServeModeDev  = "dev"
	ServeModeProd = "prod"
)

// Database drivers.
const (
	DatabaseSQLite   = "sqlite"
	DatabasePostgres = "postgres"
	DatabasePGX      = "pgx"
)

// DefaultAllowedHosts matches the container build default.
const DefaultAllowedHosts = "127.0.0.1,localhost"

var ErrMissingSecretKey = errors.New("SECRET_KEY required (use --secret-key or SECRET_KEY env)")

type Config struct {
	Host            string
	Port            int
	DatabaseURL     string
	DatabaseType    string
	SecretKey       string
	Debug           bool
	TimeZone        string
	AllowedHosts    []string
	ServeMode       string
	ShutdownTimeout time.Duration

	loc *time.Location
}

// Addr is the host:port the server binds to.
func (c Config) Addr() string {
	return net.JoinHostPort(c.Host, strconv.Itoa(c.Port))
}

// Location returns the configured time zone, UTC when unset.
func (c Config) Location() *time.Location {
	if c.loc == nil {
		return time.UTC
	}
	return c.loc
}

// BindFlags registers the configuration flags on fs
func BindFlags(fs *pflag.FlagSet) {
	// Network config (can be CLI args or env)
	fs.StringP("host", "H", "", "Bind address")
	fs.IntP("port", "p", 0, "Server port")
	fs.StringP("database-url", "d", "", "Database URL")
	fs.StringP("database-type", "t", "", "Database type (sqlite, postgres or pgx)")
	fs.String("serve-mode", "", "Serving strategy (dev or prod)")
	fs.Duration("shutdown-timeout", 0, "Graceful shutdown timeout")

	// Site settings
	fs.String("time-zone", "", "Time zone for rendered times")
	fs.String("allowed-hosts", "", "Comma-separated hosts the server answers for")

	// Secrets (prefer env variables, but allow CLI for dev)
	fs.String("secret-key", "", "Secret key (prefer env)")

	fs.String("env-file", ".env", "Optional dotenv file read before the environment")
}

// Load resolves configuration from flags, environment, the dotenv file and
// defaults, in that order of precedence. fs may be nil.
func Load(fs *pflag.FlagSet) (Config, error) {
	envFile := ".env"
	if fs != nil {
		if f := fs.Lookup("env-file"); f != nil {
			envFile = f.Value.String()
		}
	}
	if err := loadEnvFile(envFile); err != nil {
		return Config{}, err
	}

	v := viper.New()
	setDefaults(v)
	v.AutomaticEnv()

	// Both spellings are accepted
	_ = v.BindEnv("time_zone", "TIME_ZONE", "TIMEZONE")

	if fs != nil {
		for key, flag := range map[string]string{
			"host":             "host",
			"port":             "port",
			"database_url":     "database-url",
			"database_type":    "database-type",
			"serve_mode":       "serve-mode",
			"shutdown_timeout": "shutdown-timeout",
			"time_zone":        "time-zone",
			"allowed_hosts":    "allowed-hosts",
			"secret_key":       "secret-key",
		} {
			if f := fs.Lookup(flag); f != nil {
				if err := v.BindPFlag(key, f); err != nil {
					return Config{}, fmt.Errorf("binding flag %s: %w", flag, err)
				}
			}
		}
	}

	cfg := Config{
		Host:            v.GetString("host"),
		Port:            v.GetInt("port"),
		DatabaseURL:     v.GetString("database_url"),
		DatabaseType:    strings.ToLower(v.GetString("database_type")),
		SecretKey:       v.GetString("secret_key"),
		Debug:           v.GetBool("debug"),
		TimeZone:        v.GetString("time_zone"),
		AllowedHosts:    SplitHosts(v.GetString("allowed_hosts")),
		ServeMode:       strings.ToLower(v.GetString("serve_mode")),
		ShutdownTimeout: v.GetDuration("shutdown_timeout"),
	}

	if err := cfg.validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// SplitHosts parses a comma-separated ALLOWED_HOSTS value.
func SplitHosts(s string) []string {
	var hosts []string
	for _, h := range strings.Split(s, ",") {
		if h = strings.TrimSpace(h); h != "" {
			hosts = append(hosts, strings.ToLower(h))
		}
	}
	return hosts
}

func (c *Config) validate() error {
	// Secrets - MUST be provided
	if c.SecretKey == "" {
		return ErrMissingSecretKey
	}
	if c.Port < 1 || c.Port > 65535 {
		return fmt.Errorf("invalid port %d", c.Port)
	}
	if c.DatabaseURL == "" {
		return errors.New("database URL required (use -d or DATABASE_URL env)")
	}
	if !slices.Contains([]string{DatabaseSQLite, DatabasePostgres, DatabasePGX}, c.DatabaseType) {
		return fmt.Errorf("unknown database type %q", c.DatabaseType)
	}
	if c.ServeMode != ServeModeDev && c.ServeMode != ServeModeProd {
		return fmt.Errorf("unknown serve mode %q (want %s or %s)", c.ServeMode, ServeModeDev, ServeModeProd)
	}
	loc, err := time.LoadLocation(c.TimeZone)
	if err != nil {
		return fmt.Errorf("invalid time zone %q: %w", c.TimeZone, err)
	}
	c.loc = loc
	return nil
}

// loadEnvFile populates the process environment from path. Variables
// already set are left alone; a missing file is not an error.
func loadEnvFile(path string) error {
	if path == "" {
		return nil
	}
	if err := godotenv.Load(path); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("reading env file %s: %w", path, err)
	}
	return nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("host", "0.0.0.0")
	v.SetDefault("port", 8000)
	v.SetDefault("database_url", "file:db.sqlite3")
	v.SetDefault("database_type", DatabaseSQLite)
	v.SetDefault("serve_mode", ServeModeDev)
	v.SetDefault("shutdown_timeout", 10*time.Second)
	v.SetDefault("debug", true)
	v.SetDefault("time_zone", "UTC")
	v.SetDefault("allowed_hosts", DefaultAllowedHosts)
}
