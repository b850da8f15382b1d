// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package main provides the entry point for the KU Polls server.

KU Polls publishes questions with a fixed set of choices. Logged-in users
vote once per question and may change their vote while the poll is open.
Results are live counts of the stored votes.

# Starting the Server

The server requires environment variables or CLI flags for configuration:

	DATABASE_URL=polls.db ADMIN_KEY=secret go run .

Or with flags:

	go run . -p 3318 -t postgres -d "postgres://..." -admin-key secret

A .env file in the working directory (or the file named by ENV_FILE) is
loaded first; variables already set in the environment win.

# Configuration

Required settings:

  - DATABASE_URL (-d): SQLite file or PostgreSQL connection string
  - ADMIN_KEY (-admin-key): Operator key for /admin endpoints

Optional settings:

  - PORT (-p): Server port (default: 3318)
  - DATABASE_TYPE (-t): sqlite or postgres (default: sqlite)
  - TIME_ZONE (-tz): Zone whose calendar dates open and close polls (default: UTC)
  - PAGE_SIZE (-page-size): Cap on the listing (default: uncapped)
  - SESSION_TTL (-session-ttl): Login lifetime (default: 336h)
  - LOG_LEVEL (-log-level): debug, info, warn, or error (default: info)

# Architecture

The server uses a handler-based architecture with dependency injection:

  - polls: Eligibility rules and the voting service
  - handlers: HTTP request handlers (questions, voting, accounts, admin)
  - router: Route definitions using Go 1.22+ routing
  - middleware: CORS, logging, session resolution, JSON helpers
  - models: Domain, request, and response types
  - auth: Passwords, session tokens, and the operator key
  - db: Schema and the SQL store
  - cliparse: Configuration parsing

See package documentation for each component.
*/
package main
