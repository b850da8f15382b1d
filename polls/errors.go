// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package polls

import "errors"

var (
	// ErrNotFound is returned when a referenced question, choice, or vote does not exist.
	ErrNotFound = errors.New("not found")

	// ErrInvalidSelection is returned when a vote names no choice, or a choice of another question.
	ErrInvalidSelection = errors.New("invalid choice selection")

	// ErrUnauthenticated is returned when a vote is attempted without a user.
	ErrUnauthenticated = errors.New("authentication required")

	// ErrClosedPoll is returned when a question's end date has passed.
	ErrClosedPoll = errors.New("poll is closed")

	// ErrUnpublished is returned when a question's publication date is still in the future.
	ErrUnpublished = errors.New("poll is not published")
)
