// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package handlers contains HTTP request handlers for the KU Polls service.

# Handler Types

Each handler is a struct built from the database connection and config:

  - QuestionHandler: listing, ballot detail, and results
  - VotingHandler: vote submission
  - AccountHandler: login, logout, and session resolution
  - AdminHandler: operator management of users, questions, and choices

Handlers are created via constructor functions that accept *sql.DB and Config:

	questionHandler := handlers.NewQuestionHandler(db, cfg)

# Question Views

	GET /polls/               → Index
	GET /polls/{id}/          → Detail
	GET /polls/{id}/results/  → Results

Unpublished questions are indistinguishable from missing ones: both
redirect to the listing. A closed question's detail page redirects to its
results with a notice.

# Voting

	POST /polls/{id}/vote/    → Vote (form field "choice")

A successful vote redirects to the results. Anonymous voters are sent to
the login page with next set to the ballot. Voting again moves the
existing vote.

# Accounts

	GET  /accounts/login/     → LoginForm (echoes next and notice)
	POST /accounts/login/     → Login (form fields username, password, next)
	POST /accounts/logout/    → Logout

The session token travels in the "sessionid" cookie or the
X-Session-Token header. AccountHandler.CurrentUser resolves it and is
installed with middleware.WithUser.

# Operator API

	POST   /admin/users
	DELETE /admin/users/{id}
	POST   /admin/questions
	PUT    /admin/questions/{id}
	DELETE /admin/questions/{id}
	POST   /admin/questions/{id}/choices

Operator requests require the X-Admin-Key header.
*/
package handlers
