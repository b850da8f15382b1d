// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/danielhkuo/ku-polls/auth"
	"github.com/danielhkuo/ku-polls/cliparse"
	"github.com/danielhkuo/ku-polls/db"
	"github.com/danielhkuo/ku-polls/middleware"
	"github.com/danielhkuo/ku-polls/models"
	"github.com/danielhkuo/ku-polls/polls"
)

// AdminHandler serves the operator API. Every request must carry the
// configured key in X-Admin-Key.
type AdminHandler struct {
	store *db.Store
	cfg   cliparse.Config
}

func NewAdminHandler(conn *sql.DB, cfg cliparse.Config) *AdminHandler {
	return &AdminHandler{store: db.NewStore(conn), cfg: cfg}
}

func (h *AdminHandler) authorize(w http.ResponseWriter, r *http.Request) bool {
	if err := auth.ValidateAdminKey(r.Header.Get("X-Admin-Key"), h.cfg.AdminKey); err != nil {
		middleware.ErrorResponse(w, http.StatusUnauthorized, "Invalid admin key")
		return false
	}
	return true
}

// CreateUser handles POST /admin/users
func (h *AdminHandler) CreateUser(w http.ResponseWriter, r *http.Request) {
	if !h.authorize(w, r) {
		return
	}

	var req models.CreateUserRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

	req.Username = strings.TrimSpace(req.Username)
	if req.Username == "" {
		middleware.ErrorResponse(w, http.StatusBadRequest, "username is required")
		return
	}
	if len(req.Username) > 150 {
		middleware.ErrorResponse(w, http.StatusBadRequest, "username must be at most 150 characters")
		return
	}

	hash, err := auth.HashPassword(req.Password)
	if errors.Is(err, auth.ErrEmptyPassword) {
		middleware.ErrorResponse(w, http.StatusBadRequest, "password is required")
		return
	}
	if err != nil {
		slog.Error("failed to hash password", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to create user")
		return
	}

	user, err := h.store.CreateUser(r.Context(), req.Username, hash, time.Now())
	if errors.Is(err, db.ErrUsernameTaken) {
		middleware.ErrorResponse(w, http.StatusConflict, "Username already taken")
		return
	}
	if err != nil {
		slog.Error("failed to insert user", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to create user")
		return
	}

	slog.Info("user created", "user_id", user.ID, "username", user.Username)

	middleware.JSONResponse(w, http.StatusCreated, models.CreateUserResponse{UserID: user.ID})
}

// DeleteUser handles DELETE /admin/users/{id}
// The user's votes and sessions go with it.
func (h *AdminHandler) DeleteUser(w http.ResponseWriter, r *http.Request) {
	if !h.authorize(w, r) {
		return
	}
	userID := r.PathValue("id")

	user, err := h.store.FindUserByID(r.Context(), userID)
	if errors.Is(err, polls.ErrNotFound) {
		middleware.ErrorResponse(w, http.StatusNotFound, "User not found")
		return
	}
	if err != nil {
		slog.Error("failed to query user", "user_id", userID, "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}

	err = h.store.DeleteUser(r.Context(), user.ID)
	if errors.Is(err, polls.ErrNotFound) {
		middleware.ErrorResponse(w, http.StatusNotFound, "User not found")
		return
	}
	if err != nil {
		slog.Error("failed to delete user", "user_id", userID, "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to delete user")
		return
	}

	slog.Info("user deleted", "user_id", user.ID, "username", user.Username)

	w.WriteHeader(http.StatusNoContent)
}

// CreateQuestion handles POST /admin/questions
func (h *AdminHandler) CreateQuestion(w http.ResponseWriter, r *http.Request) {
	if !h.authorize(w, r) {
		return
	}

	var req models.CreateQuestionRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

	if msg := validateText("question_text", req.QuestionText, models.MaxQuestionText); msg != "" {
		middleware.ErrorResponse(w, http.StatusBadRequest, msg)
		return
	}

	q := models.Question{QuestionText: req.QuestionText, EndDate: req.EndDate}
	if req.PubDate != nil {
		q.PubDate = *req.PubDate
	} else {
		q.PubDate = time.Now()
	}

	q, err := h.store.CreateQuestion(r.Context(), q)
	if err != nil {
		slog.Error("failed to insert question", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to create question")
		return
	}

	slog.Info("question created", "question_id", q.ID, "pub_date", q.PubDate)

	middleware.JSONResponse(w, http.StatusCreated, models.CreateQuestionResponse{QuestionID: q.ID})
}

// UpdateQuestion handles PUT /admin/questions/{id}
// Fields left out of the body keep their stored value.
func (h *AdminHandler) UpdateQuestion(w http.ResponseWriter, r *http.Request) {
	if !h.authorize(w, r) {
		return
	}
	questionID := r.PathValue("id")

	var req models.UpdateQuestionRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

	q, ok := h.findQuestion(w, r, questionID)
	if !ok {
		return
	}

	if req.QuestionText != nil {
		if msg := validateText("question_text", *req.QuestionText, models.MaxQuestionText); msg != "" {
			middleware.ErrorResponse(w, http.StatusBadRequest, msg)
			return
		}
		q.QuestionText = *req.QuestionText
	}
	if req.PubDate != nil {
		q.PubDate = *req.PubDate
	}
	switch {
	case req.ClearEndDate:
		q.EndDate = nil
	case req.EndDate != nil:
		q.EndDate = req.EndDate
	}

	if err := h.store.UpdateQuestion(r.Context(), q); err != nil {
		if errors.Is(err, polls.ErrNotFound) {
			middleware.ErrorResponse(w, http.StatusNotFound, "Question not found")
			return
		}
		slog.Error("failed to update question", "question_id", questionID, "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to update question")
		return
	}

	slog.Info("question updated", "question_id", questionID)

	updated, ok := h.findQuestion(w, r, questionID)
	if !ok {
		return
	}
	middleware.JSONResponse(w, http.StatusOK, updated)
}

// DeleteQuestion handles DELETE /admin/questions/{id}
// Choices and their votes are removed with the question.
func (h *AdminHandler) DeleteQuestion(w http.ResponseWriter, r *http.Request) {
	if !h.authorize(w, r) {
		return
	}
	questionID := r.PathValue("id")

	err := h.store.DeleteQuestion(r.Context(), questionID)
	if errors.Is(err, polls.ErrNotFound) {
		middleware.ErrorResponse(w, http.StatusNotFound, "Question not found")
		return
	}
	if err != nil {
		slog.Error("failed to delete question", "question_id", questionID, "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to delete question")
		return
	}

	slog.Info("question deleted", "question_id", questionID)

	w.WriteHeader(http.StatusNoContent)
}

// AddChoice handles POST /admin/questions/{id}/choices
func (h *AdminHandler) AddChoice(w http.ResponseWriter, r *http.Request) {
	if !h.authorize(w, r) {
		return
	}
	questionID := r.PathValue("id")

	var req models.AddChoiceRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

	if msg := validateText("choice_text", req.ChoiceText, models.MaxChoiceText); msg != "" {
		middleware.ErrorResponse(w, http.StatusBadRequest, msg)
		return
	}

	if _, ok := h.findQuestion(w, r, questionID); !ok {
		return
	}

	c, err := h.store.CreateChoice(r.Context(), models.Choice{
		QuestionID: questionID,
		ChoiceText: req.ChoiceText,
	})
	if err != nil {
		slog.Error("failed to insert choice", "question_id", questionID, "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to create choice")
		return
	}

	slog.Info("choice added", "question_id", questionID, "choice_id", c.ID)

	middleware.JSONResponse(w, http.StatusCreated, models.AddChoiceResponse{ChoiceID: c.ID})
}

// findQuestion writes a 404 or 500 and reports false when the question
// cannot be loaded
func (h *AdminHandler) findQuestion(w http.ResponseWriter, r *http.Request, id string) (models.Question, bool) {
	q, err := h.store.FindQuestion(r.Context(), id)
	if errors.Is(err, polls.ErrNotFound) {
		middleware.ErrorResponse(w, http.StatusNotFound, "Question not found")
		return models.Question{}, false
	}
	if err != nil {
		slog.Error("failed to query question", "question_id", id, "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return models.Question{}, false
	}
	return q, true
}

func validateText(field, text string, limit int) string {
	if strings.TrimSpace(text) == "" {
		return field + " is required"
	}
	if utf8.RuneCountInString(text) > limit {
		return fmt.Sprintf("%s must be at most %d characters", field, limit)
	}
	return ""
}
