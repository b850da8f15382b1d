// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package cliparse handles command-line argument parsing and configuration.

# Configuration

ParseFlags returns a Config struct with all settings:

	cfg, err := cliparse.ParseFlags(os.Args[1:])

# Config Fields

  - Port: Server listen port (default: 3318)
  - DatabaseURL: SQLite file or PostgreSQL connection string (required)
  - DatabaseType: sqlite or postgres (default: sqlite)
  - AdminKey: Operator key for the /admin API (required)
  - TimeZone, Location: Zone whose calendar decides publication and closing (default: UTC)
  - PageSize: Listing cap, 0 for none
  - SessionTTL: Login lifetime (default: two weeks)
  - LogLevel: slog level name (default: info)

# CLI Flags

	-p            Server port
	-d            Database URL
	-t            Database type
	-admin-key    Operator key
	-tz           Time zone
	-page-size    Listing cap
	-session-ttl  Login lifetime
	-log-level    Log level

# Environment Variables

Flags fall back to environment variables:

	PORT, DATABASE_URL, DATABASE_TYPE, ADMIN_KEY, TIME_ZONE,
	PAGE_SIZE, SESSION_TTL, LOG_LEVEL

CLI flags take precedence over environment variables. LoadEnvFile reads a
.env file into the environment without overriding what is already set.
*/
package cliparse
