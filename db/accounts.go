// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package db

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/danielhkuo/ku-polls/models"
	"github.com/danielhkuo/ku-polls/polls"
)

var ErrUsernameTaken = errors.New("username already taken")

// CreateUser inserts a user with an already-hashed password
func (s *Store) CreateUser(ctx context.Context, username, passwordHash string, now time.Time) (models.User, error) {
	u := models.User{
		ID:           NewID(),
		Username:     username,
		PasswordHash: passwordHash,
		CreatedAt:    dbTime(now),
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO user_account (id, username, password_hash, created_at)
		VALUES ($1, $2, $3, $4)
	`, u.ID, u.Username, u.PasswordHash, u.CreatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return models.User{}, ErrUsernameTaken
		}
		return models.User{}, fmt.Errorf("insert user: %w", err)
	}
	return u, nil
}

func (s *Store) FindUserByUsername(ctx context.Context, username string) (models.User, error) {
	return s.findUser(ctx, `
		SELECT id, username, password_hash, created_at
		FROM user_account
		WHERE username = $1
	`, username)
}

func (s *Store) FindUserByID(ctx context.Context, id string) (models.User, error) {
	return s.findUser(ctx, `
		SELECT id, username, password_hash, created_at
		FROM user_account
		WHERE id = $1
	`, id)
}

func (s *Store) findUser(ctx context.Context, query string, arg string) (models.User, error) {
	var u models.User
	err := s.db.QueryRowContext(ctx, query, arg).Scan(&u.ID, &u.Username, &u.PasswordHash, &u.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return models.User{}, polls.ErrNotFound
	}
	if err != nil {
		return models.User{}, fmt.Errorf("query user: %w", err)
	}
	return u, nil
}

// DeleteUser removes a user; their votes and sessions cascade
func (s *Store) DeleteUser(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM user_account WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete user %s: %w", id, err)
	}
	return expectOneRow(res)
}

// Sessions

func (s *Store) CreateSession(ctx context.Context, token, userID string, now time.Time, ttl time.Duration) (models.Session, error) {
	sess := models.Session{
		Token:     token,
		UserID:    userID,
		CreatedAt: dbTime(now),
		ExpiresAt: dbTime(now.Add(ttl)),
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO session (token, user_id, created_at, expires_at)
		VALUES ($1, $2, $3, $4)
	`, sess.Token, sess.UserID, sess.CreatedAt, sess.ExpiresAt)
	if err != nil {
		return models.Session{}, fmt.Errorf("insert session: %w", err)
	}
	return sess, nil
}

// FindSessionUser resolves an unexpired session token to its user
func (s *Store) FindSessionUser(ctx context.Context, token string, now time.Time) (models.User, error) {
	var u models.User
	err := s.db.QueryRowContext(ctx, `
		SELECT u.id, u.username, u.password_hash, u.created_at
		FROM session s
		JOIN user_account u ON u.id = s.user_id
		WHERE s.token = $1 AND s.expires_at > $2
	`, token, dbTime(now)).Scan(&u.ID, &u.Username, &u.PasswordHash, &u.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return models.User{}, polls.ErrNotFound
	}
	if err != nil {
		return models.User{}, fmt.Errorf("query session: %w", err)
	}
	return u, nil
}

func (s *Store) DeleteSession(ctx context.Context, token string) error {
	_, err := s.db.ExecContext(ctx, `DELETE FROM session WHERE token = $1`, token)
	if err != nil {
		return fmt.Errorf("delete session: %w", err)
	}
	return nil
}

// PurgeExpiredSessions deletes sessions that expired before now
func (s *Store) PurgeExpiredSessions(ctx context.Context, now time.Time) (int64, error) {
	res, err := s.db.ExecContext(ctx, `DELETE FROM session WHERE expires_at <= $1`, dbTime(now))
	if err != nil {
		return 0, fmt.Errorf("purge sessions: %w", err)
	}
	return res.RowsAffected()
}
