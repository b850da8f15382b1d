// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package router defines HTTP routes for the KU Polls service.

# Route Registration

NewRouter creates a configured http.ServeMux with all endpoints:

	mux := router.NewRouter(db, cfg)

# Endpoints

Health:

	GET /health

Polls (public; trailing slashes are part of the route):

	GET  /                       - Redirect to /polls/
	GET  /polls/                 - Published questions, newest first
	GET  /polls/{id}/            - Ballot for an open question
	GET  /polls/{id}/results/    - Vote counts
	POST /polls/{id}/vote/       - Cast or change a vote (login required)

Accounts:

	GET  /accounts/login/        - Login prompt echoing next and notice
	POST /accounts/login/        - Start a session
	POST /accounts/logout/       - End the session

Operator API (requires X-Admin-Key):

	POST   /admin/users                  - Create user
	DELETE /admin/users/{id}             - Delete user with their votes and sessions
	POST   /admin/questions              - Create question
	PUT    /admin/questions/{id}         - Edit question
	DELETE /admin/questions/{id}         - Delete question with its choices and votes
	POST   /admin/questions/{id}/choices - Add choice

# Identity

Detail, vote, login prompt, and logout routes resolve the session from the "sessionid"
cookie or the X-Session-Token header through middleware.WithUser.
*/
package router
