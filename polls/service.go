// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package polls

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/dustin/go-humanize"

	"github.com/danielhkuo/ku-polls/models"
)

// Service applies the eligibility policy on top of a Store
type Service struct {
	store    Store
	clock    Clock
	pageSize int
}

// NewService creates a Service. A nil clock reads the wall clock in UTC;
// pageSize <= 0 leaves the listing uncapped.
func NewService(store Store, clock Clock, pageSize int) *Service {
	if clock == nil {
		clock = SystemClock(nil)
	}
	return &Service{store: store, clock: clock, pageSize: pageSize}
}

// Now returns the service clock's current time
func (s *Service) Now() time.Time {
	return s.clock()
}

// VoteOutcome describes a recorded vote
type VoteOutcome struct {
	Vote     models.Vote
	Question models.Question
	Updated  bool
}

// Index lists published questions, newest first
func (s *Service) Index(ctx context.Context) (models.IndexResponse, error) {
	now := s.clock()
	questions, err := s.store.ListPublished(ctx, now, s.pageSize)
	if err != nil {
		return models.IndexResponse{}, fmt.Errorf("list published questions: %w", err)
	}

	summaries := make([]models.QuestionSummary, 0, len(questions))
	for _, q := range questions {
		summaries = append(summaries, models.QuestionSummary{
			Question:          q,
			State:             StateOf(q, now),
			PublishedRecently: WasPublishedRecently(q, now),
			PublishedAgo:      publishedAgo(q, now),
		})
	}
	return models.IndexResponse{Questions: summaries}, nil
}

// Detail returns the ballot for an open question. user may be nil; when set,
// the user's current selection is included.
func (s *Service) Detail(ctx context.Context, questionID string, user *models.User) (models.DetailResponse, error) {
	now := s.clock()
	q, err := s.store.FindQuestion(ctx, questionID)
	if err != nil {
		return models.DetailResponse{}, err
	}

	switch StateOf(q, now) {
	case models.StateUnpublished:
		return models.DetailResponse{}, ErrUnpublished
	case models.StateClosed:
		return models.DetailResponse{}, ErrClosedPoll
	}

	choices, err := s.store.ListChoices(ctx, q.ID)
	if err != nil {
		return models.DetailResponse{}, fmt.Errorf("list choices: %w", err)
	}

	resp := models.DetailResponse{
		Question:          q,
		Choices:           choices,
		State:             models.StateOpen,
		PublishedRecently: WasPublishedRecently(q, now),
		PublishedAgo:      publishedAgo(q, now),
	}

	if user != nil {
		vote, err := s.store.FindVote(ctx, user.ID, q.ID)
		switch {
		case err == nil:
			resp.SelectedChoiceID = &vote.ChoiceID
		case !errors.Is(err, ErrNotFound):
			return models.DetailResponse{}, fmt.Errorf("find vote: %w", err)
		}
	}

	return resp, nil
}

// CastVote records user's selection of choiceID on questionID. A user's
// second vote on a question moves the existing vote to the new choice.
//
// The existing-vote lookup and the write are separate statements; two
// concurrent votes by the same user may both create a row.
func (s *Service) CastVote(ctx context.Context, user *models.User, questionID, choiceID string) (VoteOutcome, error) {
	now := s.clock()
	q, err := s.store.FindQuestion(ctx, questionID)
	if err != nil {
		return VoteOutcome{}, err
	}
	if !IsPublished(q, now) {
		return VoteOutcome{}, ErrUnpublished
	}

	if choiceID == "" {
		return VoteOutcome{Question: q}, ErrInvalidSelection
	}
	choice, err := s.store.FindChoice(ctx, q.ID, choiceID)
	if errors.Is(err, ErrNotFound) {
		return VoteOutcome{Question: q}, ErrInvalidSelection
	}
	if err != nil {
		return VoteOutcome{}, fmt.Errorf("find choice: %w", err)
	}

	if !CanVote(q, now) {
		return VoteOutcome{Question: q}, ErrClosedPoll
	}
	if user == nil {
		return VoteOutcome{Question: q}, ErrUnauthenticated
	}

	existing, err := s.store.FindVote(ctx, user.ID, q.ID)
	switch {
	case err == nil:
		if err := s.store.UpdateVoteChoice(ctx, existing.ID, choice.ID, now); err != nil {
			return VoteOutcome{}, fmt.Errorf("update vote: %w", err)
		}
		existing.ChoiceID = choice.ID
		existing.UpdatedAt = now

		slog.Info("vote submitted", "question_id", q.ID, "choice_id", choice.ID, "user_id", user.ID, "is_update", true)
		return VoteOutcome{Vote: existing, Question: q, Updated: true}, nil

	case errors.Is(err, ErrNotFound):
		vote, err := s.store.CreateVote(ctx, models.Vote{
			UserID:    user.ID,
			ChoiceID:  choice.ID,
			CreatedAt: now,
			UpdatedAt: now,
		})
		if err != nil {
			return VoteOutcome{}, fmt.Errorf("create vote: %w", err)
		}

		slog.Info("vote submitted", "question_id", q.ID, "choice_id", choice.ID, "user_id", user.ID, "is_update", false)
		return VoteOutcome{Vote: vote, Question: q}, nil

	default:
		return VoteOutcome{}, fmt.Errorf("find vote: %w", err)
	}
}

// Results counts the votes of every choice of a published question.
// Closed questions keep their results visible.
func (s *Service) Results(ctx context.Context, questionID string) (models.ResultsResponse, error) {
	now := s.clock()
	q, err := s.store.FindQuestion(ctx, questionID)
	if err != nil {
		return models.ResultsResponse{}, err
	}
	if !IsPublished(q, now) {
		return models.ResultsResponse{}, ErrUnpublished
	}

	choices, err := s.store.ListChoices(ctx, q.ID)
	if err != nil {
		return models.ResultsResponse{}, fmt.Errorf("list choices: %w", err)
	}

	resp := models.ResultsResponse{
		Question:     q,
		State:        StateOf(q, now),
		PublishedAgo: publishedAgo(q, now),
		Choices:      make([]models.ChoiceResult, 0, len(choices)),
	}
	for _, c := range choices {
		count, err := s.VoteCount(ctx, c.ID)
		if err != nil {
			return models.ResultsResponse{}, err
		}
		resp.Choices = append(resp.Choices, models.ChoiceResult{Choice: c, Votes: count})
		resp.TotalVotes += count
	}

	return resp, nil
}

// VoteCount is the live number of votes referencing choiceID
func (s *Service) VoteCount(ctx context.Context, choiceID string) (int, error) {
	count, err := s.store.CountVotes(ctx, choiceID)
	if err != nil {
		return 0, fmt.Errorf("count votes for choice %s: %w", choiceID, err)
	}
	return count, nil
}

func publishedAgo(q models.Question, now time.Time) string {
	return humanize.RelTime(q.PubDate, now, "ago", "from now")
}
