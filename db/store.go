// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package db

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/danielhkuo/ku-polls/models"
	"github.com/danielhkuo/ku-polls/polls"
)

// Store implements polls.Store and the operator/account persistence on database/sql
type Store struct {
	db *sql.DB
}

var _ polls.Store = (*Store)(nil)

func NewStore(db *sql.DB) *Store {
	return &Store{db: db}
}

// NewID returns a fresh record identifier
func NewID() string {
	return uuid.NewString()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanQuestion(row rowScanner) (models.Question, error) {
	var q models.Question
	var endDate sql.NullTime
	if err := row.Scan(&q.ID, &q.QuestionText, &q.PubDate, &endDate); err != nil {
		return models.Question{}, err
	}
	q.PubDate = q.PubDate.UTC()
	if endDate.Valid {
		end := endDate.Time.UTC()
		q.EndDate = &end
	}
	return q, nil
}

func nullTime(t *time.Time) sql.NullTime {
	if t == nil {
		return sql.NullTime{}
	}
	return sql.NullTime{Time: dbTime(*t), Valid: true}
}

// Questions

func (s *Store) FindQuestion(ctx context.Context, id string) (models.Question, error) {
	q, err := scanQuestion(s.db.QueryRowContext(ctx, `
		SELECT id, question_text, pub_date, end_date
		FROM question
		WHERE id = $1
	`, id))
	if errors.Is(err, sql.ErrNoRows) {
		return models.Question{}, polls.ErrNotFound
	}
	if err != nil {
		return models.Question{}, fmt.Errorf("query question %s: %w", id, err)
	}
	return q, nil
}

func (s *Store) ListPublished(ctx context.Context, now time.Time, limit int) ([]models.Question, error) {
	query := `
		SELECT id, question_text, pub_date, end_date
		FROM question
		WHERE pub_date <= $1
		ORDER BY pub_date DESC, id
	`
	args := []any{dbTime(now)}
	if limit > 0 {
		query += ` LIMIT $2`
		args = append(args, limit)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query published questions: %w", err)
	}
	defer rows.Close()

	questions := []models.Question{}
	for rows.Next() {
		q, err := scanQuestion(rows)
		if err != nil {
			return nil, fmt.Errorf("scan question: %w", err)
		}
		questions = append(questions, q)
	}
	return questions, rows.Err()
}

// CreateQuestion inserts q, assigning an ID when empty
func (s *Store) CreateQuestion(ctx context.Context, q models.Question) (models.Question, error) {
	if q.ID == "" {
		q.ID = NewID()
	}
	q.PubDate = dbTime(q.PubDate)

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO question (id, question_text, pub_date, end_date)
		VALUES ($1, $2, $3, $4)
	`, q.ID, q.QuestionText, q.PubDate, nullTime(q.EndDate))
	if err != nil {
		return models.Question{}, fmt.Errorf("insert question: %w", err)
	}

	if q.EndDate != nil {
		end := dbTime(*q.EndDate)
		q.EndDate = &end
	}
	return q, nil
}

// UpdateQuestion overwrites the text and dates of an existing question
func (s *Store) UpdateQuestion(ctx context.Context, q models.Question) error {
	res, err := s.db.ExecContext(ctx, `
		UPDATE question
		SET question_text = $1, pub_date = $2, end_date = $3
		WHERE id = $4
	`, q.QuestionText, dbTime(q.PubDate), nullTime(q.EndDate), q.ID)
	if err != nil {
		return fmt.Errorf("update question %s: %w", q.ID, err)
	}
	return expectOneRow(res)
}

// DeleteQuestion removes a question; its choices and their votes cascade
func (s *Store) DeleteQuestion(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM question WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete question %s: %w", id, err)
	}
	return expectOneRow(res)
}

// Choices

func (s *Store) ListChoices(ctx context.Context, questionID string) ([]models.Choice, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, question_id, choice_text, created_at
		FROM choice
		WHERE question_id = $1
		ORDER BY sort_order, id
	`, questionID)
	if err != nil {
		return nil, fmt.Errorf("query choices: %w", err)
	}
	defer rows.Close()

	choices := []models.Choice{}
	for rows.Next() {
		var c models.Choice
		if err := rows.Scan(&c.ID, &c.QuestionID, &c.ChoiceText, &c.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan choice: %w", err)
		}
		choices = append(choices, c)
	}
	return choices, rows.Err()
}

func (s *Store) FindChoice(ctx context.Context, questionID, choiceID string) (models.Choice, error) {
	var c models.Choice
	err := s.db.QueryRowContext(ctx, `
		SELECT id, question_id, choice_text, created_at
		FROM choice
		WHERE id = $1 AND question_id = $2
	`, choiceID, questionID).Scan(&c.ID, &c.QuestionID, &c.ChoiceText, &c.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return models.Choice{}, polls.ErrNotFound
	}
	if err != nil {
		return models.Choice{}, fmt.Errorf("query choice %s: %w", choiceID, err)
	}
	return c, nil
}

// CreateChoice appends a choice to its question. The question must exist.
func (s *Store) CreateChoice(ctx context.Context, c models.Choice) (models.Choice, error) {
	if c.ID == "" {
		c.ID = NewID()
	}
	if c.CreatedAt.IsZero() {
		c.CreatedAt = time.Now()
	}
	c.CreatedAt = dbTime(c.CreatedAt)

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO choice (id, question_id, choice_text, sort_order, created_at)
		VALUES ($1, $2, $3, (SELECT COUNT(*) FROM choice WHERE question_id = $2), $4)
	`, c.ID, c.QuestionID, c.ChoiceText, c.CreatedAt)
	if err != nil {
		return models.Choice{}, fmt.Errorf("insert choice: %w", err)
	}
	return c, nil
}

// Votes

func (s *Store) FindVote(ctx context.Context, userID, questionID string) (models.Vote, error) {
	var v models.Vote
	err := s.db.QueryRowContext(ctx, `
		SELECT v.id, v.user_id, v.choice_id, v.created_at, v.updated_at
		FROM vote v
		JOIN choice c ON c.id = v.choice_id
		WHERE v.user_id = $1 AND c.question_id = $2
		ORDER BY v.created_at, v.id
		LIMIT 1
	`, userID, questionID).Scan(&v.ID, &v.UserID, &v.ChoiceID, &v.CreatedAt, &v.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return models.Vote{}, polls.ErrNotFound
	}
	if err != nil {
		return models.Vote{}, fmt.Errorf("query vote: %w", err)
	}
	return v, nil
}

func (s *Store) CreateVote(ctx context.Context, v models.Vote) (models.Vote, error) {
	if v.ID == "" {
		v.ID = NewID()
	}
	v.CreatedAt = dbTime(v.CreatedAt)
	v.UpdatedAt = dbTime(v.UpdatedAt)

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO vote (id, user_id, choice_id, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5)
	`, v.ID, v.UserID, v.ChoiceID, v.CreatedAt, v.UpdatedAt)
	if err != nil {
		return models.Vote{}, fmt.Errorf("insert vote: %w", err)
	}
	return v, nil
}

func (s *Store) UpdateVoteChoice(ctx context.Context, voteID, choiceID string, at time.Time) error {
	res, err := s.db.ExecContext(ctx, `
		UPDATE vote
		SET choice_id = $1, updated_at = $2
		WHERE id = $3
	`, choiceID, dbTime(at), voteID)
	if err != nil {
		return fmt.Errorf("update vote %s: %w", voteID, err)
	}
	return expectOneRow(res)
}

func (s *Store) CountVotes(ctx context.Context, choiceID string) (int, error) {
	var count int
	err := s.db.QueryRowContext(ctx, `
		SELECT COUNT(*) FROM vote WHERE choice_id = $1
	`, choiceID).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("count votes: %w", err)
	}
	return count, nil
}

func expectOneRow(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if n == 0 {
		return polls.ErrNotFound
	}
	return nil
}
