// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package polls holds the voting rules: when a question is visible, when it
accepts votes, how a vote is recorded, and how results are counted.

# Eligibility

A question's state is a pure function of its dates and the current time:

	polls.IsPublished(q, now)          // pub_date's day <= today
	polls.CanVote(q, now)              // published and end_date's day >= today
	polls.WasPublishedRecently(q, now) // now-24h <= pub_date <= now
	polls.StateOf(q, now)              // "unpublished", "open" or "closed"

IsPublished and CanVote compare calendar dates in the clock's location.
WasPublishedRecently compares exact instants.

# Voting

	svc := polls.NewService(store, polls.SystemClock(loc), pageSize)
	outcome, err := svc.CastVote(ctx, user, questionID, choiceID)

Checks run in this order: the question exists and is published, the
choice belongs to the question, the question is open, the user is
authenticated. Nothing is written when a check fails. A user's first vote
creates a Vote row; later votes on the same question update that row.

# Results

Vote counts are counted from Vote rows on every read, never stored.
*/
package polls
