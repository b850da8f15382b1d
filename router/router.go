// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package router

import (
	"database/sql"
	"net/http"

	"github.com/danielhkuo/ku-polls/cliparse"
	"github.com/danielhkuo/ku-polls/handlers"
	"github.com/danielhkuo/ku-polls/middleware"
)

func NewRouter(db *sql.DB, cfg cliparse.Config) *http.ServeMux {
	mux := http.NewServeMux()

	// Initialize handlers
	questionHandler := handlers.NewQuestionHandler(db, cfg)
	votingHandler := handlers.NewVotingHandler(db, cfg)
	accountHandler := handlers.NewAccountHandler(db, cfg)
	adminHandler := handlers.NewAdminHandler(db, cfg)

	// withUser logs the request and resolves its session
	withUser := func(h http.HandlerFunc) http.HandlerFunc {
		return middleware.WithLogging(middleware.WithUser(accountHandler.CurrentUser, h))
	}

	// Health check
	mux.HandleFunc("GET /health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	})

	// Root redirects to the listing
	mux.HandleFunc("GET /{$}", func(w http.ResponseWriter, r *http.Request) {
		http.Redirect(w, r, "/polls/", http.StatusFound)
	})

	// Polls (public)
	mux.HandleFunc("GET /polls/{$}", middleware.WithLogging(questionHandler.Index))
	mux.HandleFunc("GET /polls/{id}/{$}", withUser(questionHandler.Detail))
	mux.HandleFunc("GET /polls/{id}/results/{$}", middleware.WithLogging(questionHandler.Results))
	mux.HandleFunc("POST /polls/{id}/vote/{$}", withUser(votingHandler.Vote))

	// Accounts
	mux.HandleFunc("GET /accounts/login/{$}", withUser(accountHandler.LoginForm))
	mux.HandleFunc("POST /accounts/login/{$}", middleware.WithLogging(accountHandler.Login))
	mux.HandleFunc("POST /accounts/logout/{$}", withUser(accountHandler.Logout))

	// Operator API (requires X-Admin-Key)
	mux.HandleFunc("POST /admin/users", middleware.WithLogging(adminHandler.CreateUser))
	mux.HandleFunc("DELETE /admin/users/{id}", middleware.WithLogging(adminHandler.DeleteUser))
	mux.HandleFunc("POST /admin/questions", middleware.WithLogging(adminHandler.CreateQuestion))
	mux.HandleFunc("PUT /admin/questions/{id}", middleware.WithLogging(adminHandler.UpdateQuestion))
	mux.HandleFunc("DELETE /admin/questions/{id}", middleware.WithLogging(adminHandler.DeleteQuestion))
	mux.HandleFunc("POST /admin/questions/{id}/choices", middleware.WithLogging(adminHandler.AddChoice))

	return mux
}
