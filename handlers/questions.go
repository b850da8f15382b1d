// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"database/sql"
	"errors"
	"log/slog"
	"net/http"

	"github.com/danielhkuo/ku-polls/cliparse"
	"github.com/danielhkuo/ku-polls/db"
	"github.com/danielhkuo/ku-polls/middleware"
	"github.com/danielhkuo/ku-polls/models"
	"github.com/danielhkuo/ku-polls/polls"
)

const indexPath = "/polls/"

func questionPath(id string) string {
	return indexPath + id + "/"
}

func resultsPath(id string) string {
	return indexPath + id + "/results/"
}

func newService(conn *sql.DB, cfg cliparse.Config) *polls.Service {
	return polls.NewService(db.NewStore(conn), polls.SystemClock(cfg.Location), cfg.PageSize)
}

// QuestionHandler serves the public poll pages: the listing, a question's
// detail and its results. Unpublished questions read as not found.
type QuestionHandler struct {
	service *polls.Service
}

func NewQuestionHandler(conn *sql.DB, cfg cliparse.Config) *QuestionHandler {
	return &QuestionHandler{service: newService(conn, cfg)}
}

// Index handles GET /polls/
func (h *QuestionHandler) Index(w http.ResponseWriter, r *http.Request) {
	resp, err := h.service.Index(r.Context())
	if err != nil {
		slog.Error("failed to list questions", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}

	middleware.JSONResponse(w, http.StatusOK, resp)
}

// Detail handles GET /polls/{id}/
func (h *QuestionHandler) Detail(w http.ResponseWriter, r *http.Request) {
	questionID := r.PathValue("id")

	resp, err := h.service.Detail(r.Context(), questionID, middleware.UserFromContext(r.Context()))
	if err != nil {
		redirectOnLookupError(w, r, questionID, err)
		return
	}

	middleware.JSONResponse(w, http.StatusOK, resp)
}

// Results handles GET /polls/{id}/results/
func (h *QuestionHandler) Results(w http.ResponseWriter, r *http.Request) {
	questionID := r.PathValue("id")

	resp, err := h.service.Results(r.Context(), questionID)
	if err != nil {
		redirectOnLookupError(w, r, questionID, err)
		return
	}

	resp.Notice = r.URL.Query().Get("notice")
	middleware.JSONResponse(w, http.StatusOK, resp)
}

// redirectOnLookupError maps the errors of a question lookup to the
// redirect the user sees. Unpublished questions look exactly like
// missing ones.
func redirectOnLookupError(w http.ResponseWriter, r *http.Request, questionID string, err error) {
	switch {
	case errors.Is(err, polls.ErrNotFound), errors.Is(err, polls.ErrUnpublished):
		middleware.Redirect(w, r, indexPath, "")
	case errors.Is(err, polls.ErrClosedPoll):
		middleware.Redirect(w, r, resultsPath(questionID), models.NoticePollClosed)
	default:
		slog.Error("failed to load question", "question_id", questionID, "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
	}
}
