// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package middleware provides HTTP middleware and helper functions.

# Request Logging

Wrap handlers with request logging:

	mux.HandleFunc("GET /health", middleware.WithLogging(handler))

Logs request start (method, path, remote) and completion (status, duration_ms).

# Identity

WithUser resolves the caller once per request and stores it in the context:

	mux.HandleFunc("POST /polls/{id}/vote/{$}",
		middleware.WithLogging(middleware.WithUser(resolve, votingHandler.Vote)))

	user := middleware.UserFromContext(r.Context()) // nil when anonymous

# CORS Middleware

Enable cross-origin requests for frontend access:

	server := http.Server{
		Handler: middleware.CORS(mux),
	}

Allows methods GET, POST, PUT, DELETE, OPTIONS with headers
Content-Type, Authorization, X-Admin-Key, X-Session-Token.

# Responses

Write JSON responses:

	middleware.JSONResponse(w, http.StatusOK, data)
	middleware.ErrorResponse(w, http.StatusBadRequest, "message")

Redirect with a user-visible notice:

	middleware.Redirect(w, r, "/polls/"+id+"/results/", models.NoticePollClosed)

The notice travels as the notice query parameter of the Location.

# Client IP Extraction

Get the original client IP (handles X-Forwarded-For, X-Real-IP):

	ip := middleware.GetClientIP(r)

Used for hashed client addresses in login logs.
*/
package middleware
