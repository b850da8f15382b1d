// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package db handles database connections, schema creation, and persistence.

# Connecting

Open picks the driver from the database type and pings the server:

	conn, err := db.Open(db.TypePostgres, "postgres://...")
	conn, err := db.Open(db.TypeSQLite, "polls.db")

SQLite URLs get foreign keys enabled so ON DELETE CASCADE applies.

# Schema Creation

CreateSchema initializes all required tables:

	if err := db.CreateSchema(conn); err != nil {
		log.Fatal(err)
	}

Safe to call multiple times - uses IF NOT EXISTS for all tables and indexes.

# Tables

  - user_account: voters and their bcrypt password hashes
  - session: login sessions with an expiry
  - question: text, pub_date, optional end_date
  - choice: options of a question, in insertion order
  - vote: one user's selection of one choice

# Relationships

	question 1──* choice 1──* vote
	user_account 1──* vote
	user_account 1──* session

All foreign keys use ON DELETE CASCADE.

# Store

Store implements polls.Store plus the operator and account queries:

	store := db.NewStore(conn)
	q, err := store.FindQuestion(ctx, id)

Missing rows are reported as polls.ErrNotFound.
*/
package db
