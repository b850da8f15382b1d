// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"database/sql"
	"errors"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/danielhkuo/ku-polls/auth"
	"github.com/danielhkuo/ku-polls/cliparse"
	"github.com/danielhkuo/ku-polls/db"
	"github.com/danielhkuo/ku-polls/middleware"
	"github.com/danielhkuo/ku-polls/models"
	"github.com/danielhkuo/ku-polls/polls"
)

const (
	loginPath = "/accounts/login/"

	// SessionCookie names the cookie carrying the session token
	SessionCookie = "sessionid"
	// SessionHeader carries the session token for non-browser clients
	SessionHeader = "X-Session-Token"
)

// AccountHandler serves login and logout. Sessions live in the database
// and travel in the sessionid cookie or the X-Session-Token header.
type AccountHandler struct {
	store *db.Store
	cfg   cliparse.Config
}

func NewAccountHandler(conn *sql.DB, cfg cliparse.Config) *AccountHandler {
	return &AccountHandler{store: db.NewStore(conn), cfg: cfg}
}

// LoginForm handles GET /accounts/login/
// Anonymous votes and logout land here; the prompt echoes where a
// successful login will redirect.
func (h *AccountHandler) LoginForm(w http.ResponseWriter, r *http.Request) {
	resp := models.LoginPromptResponse{
		Next:   safeNext(r.URL.Query().Get("next")),
		Notice: r.URL.Query().Get("notice"),
	}
	if user := middleware.UserFromContext(r.Context()); user != nil {
		resp.Username = user.Username
	}

	middleware.JSONResponse(w, http.StatusOK, resp)
}

// Login handles POST /accounts/login/
func (h *AccountHandler) Login(w http.ResponseWriter, r *http.Request) {
	username := r.PostFormValue("username")
	password := r.PostFormValue("password")
	ipHash := auth.HashIP(middleware.GetClientIP(r), h.cfg.AdminKey)

	user, err := h.store.FindUserByUsername(r.Context(), username)
	if err != nil && !errors.Is(err, polls.ErrNotFound) {
		slog.Error("failed to query user", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}
	if err != nil || auth.CheckPassword(user.PasswordHash, password) != nil {
		slog.Warn("login failed", "username", username, "ip_hash", ipHash)
		middleware.ErrorResponse(w, http.StatusUnauthorized, models.NoticeInvalidLogin)
		return
	}

	token, err := auth.GenerateSessionToken()
	if err != nil {
		slog.Error("failed to generate session token", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to log in")
		return
	}

	sess, err := h.store.CreateSession(r.Context(), token, user.ID, time.Now(), h.cfg.SessionTTL)
	if err != nil {
		slog.Error("failed to create session", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to log in")
		return
	}

	http.SetCookie(w, &http.Cookie{
		Name:     SessionCookie,
		Value:    token,
		Path:     "/",
		Expires:  sess.ExpiresAt,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})

	slog.Info("user logged in", "username", user.Username, "ip_hash", ipHash)
	middleware.Redirect(w, r, safeNext(r.PostFormValue("next")), "")
}

// Logout handles POST /accounts/logout/
func (h *AccountHandler) Logout(w http.ResponseWriter, r *http.Request) {
	if token := sessionToken(r); token != "" {
		if err := h.store.DeleteSession(r.Context(), token); err != nil {
			slog.Error("failed to delete session", "error", err)
			middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
			return
		}
	}

	http.SetCookie(w, &http.Cookie{
		Name:     SessionCookie,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})

	if user := middleware.UserFromContext(r.Context()); user != nil {
		slog.Info("user logged out", "username", user.Username,
			"ip_hash", auth.HashIP(middleware.GetClientIP(r), h.cfg.AdminKey))
	}
	middleware.Redirect(w, r, loginPath, models.NoticeLoggedOut)
}

// CurrentUser resolves the request's session to its user. Requests without
// a live session are anonymous.
func (h *AccountHandler) CurrentUser(r *http.Request) (*models.User, error) {
	token := sessionToken(r)
	if token == "" {
		return nil, nil
	}

	user, err := h.store.FindSessionUser(r.Context(), token, time.Now())
	if errors.Is(err, polls.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &user, nil
}

func sessionToken(r *http.Request) string {
	if c, err := r.Cookie(SessionCookie); err == nil && c.Value != "" {
		return c.Value
	}
	return r.Header.Get(SessionHeader)
}

// safeNext only follows same-site absolute paths
func safeNext(next string) string {
	if !strings.HasPrefix(next, "/") || strings.HasPrefix(next, "//") || strings.HasPrefix(next, "/\\") {
		return indexPath
	}
	return next
}
