// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package polls

import (
	"context"
	"time"

	"github.com/danielhkuo/ku-polls/models"
)

// Store is the persistence the voting core needs. Lookups of missing
// records return ErrNotFound.
type Store interface {
	FindQuestion(ctx context.Context, id string) (models.Question, error)
	// ListPublished returns questions with pub_date <= now, newest first.
	// A limit of zero or less returns all of them.
	ListPublished(ctx context.Context, now time.Time, limit int) ([]models.Question, error)

	ListChoices(ctx context.Context, questionID string) ([]models.Choice, error)
	// FindChoice only finds choices owned by questionID.
	FindChoice(ctx context.Context, questionID, choiceID string) (models.Choice, error)

	// FindVote returns userID's vote on any choice of questionID.
	FindVote(ctx context.Context, userID, questionID string) (models.Vote, error)
	CreateVote(ctx context.Context, vote models.Vote) (models.Vote, error)
	UpdateVoteChoice(ctx context.Context, voteID, choiceID string, at time.Time) error
	CountVotes(ctx context.Context, choiceID string) (int, error)
}
