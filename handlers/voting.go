// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"database/sql"
	"errors"
	"log/slog"
	"net/http"
	"net/url"

	"github.com/danielhkuo/ku-polls/cliparse"
	"github.com/danielhkuo/ku-polls/middleware"
	"github.com/danielhkuo/ku-polls/models"
	"github.com/danielhkuo/ku-polls/polls"
)

// VotingHandler accepts ballots. A user holds at most one vote per
// question; voting again moves it to the new choice.
type VotingHandler struct {
	service *polls.Service
}

func NewVotingHandler(conn *sql.DB, cfg cliparse.Config) *VotingHandler {
	return &VotingHandler{service: newService(conn, cfg)}
}

// Vote handles POST /polls/{id}/vote/
// The selection arrives as the form field "choice".
func (h *VotingHandler) Vote(w http.ResponseWriter, r *http.Request) {
	questionID := r.PathValue("id")
	user := middleware.UserFromContext(r.Context())
	choiceID := r.PostFormValue("choice")

	_, err := h.service.CastVote(r.Context(), user, questionID, choiceID)
	switch {
	case err == nil:
		middleware.Redirect(w, r, resultsPath(questionID), "")

	case errors.Is(err, polls.ErrInvalidSelection):
		// Re-render the ballot with the notice
		resp, derr := h.service.Detail(r.Context(), questionID, user)
		if derr != nil {
			redirectOnLookupError(w, r, questionID, derr)
			return
		}
		resp.Notice = models.NoticeNoChoice
		middleware.JSONResponse(w, http.StatusBadRequest, resp)

	case errors.Is(err, polls.ErrUnauthenticated):
		next := url.Values{"next": {questionPath(questionID)}}
		middleware.Redirect(w, r, loginPath+"?"+next.Encode(), "")

	case errors.Is(err, polls.ErrClosedPoll):
		middleware.Redirect(w, r, resultsPath(questionID), models.NoticePollClosed)

	case errors.Is(err, polls.ErrNotFound), errors.Is(err, polls.ErrUnpublished):
		middleware.Redirect(w, r, indexPath, "")

	default:
		slog.Error("failed to record vote", "question_id", questionID, "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to record vote")
	}
}
