// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package polls

import (
	"time"

	"github.com/danielhkuo/ku-polls/models"
)

// RecentWindow is how far back a publication still counts as recent
const RecentWindow = 24 * time.Hour

// Clock returns the current time. Calendar dates are taken in the
// location of the returned time.
type Clock func() time.Time

// SystemClock returns a Clock reading the wall clock in loc
func SystemClock(loc *time.Location) Clock {
	if loc == nil {
		loc = time.UTC
	}
	return func() time.Time {
		return time.Now().In(loc)
	}
}

// calendarDay truncates t to its calendar date as seen from loc
func calendarDay(t time.Time, loc *time.Location) time.Time {
	y, m, d := t.In(loc).Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// IsPublished reports whether q's publication date is on or before now's date.
// A question published later today is already published.
func IsPublished(q models.Question, now time.Time) bool {
	loc := now.Location()
	return !calendarDay(q.PubDate, loc).After(calendarDay(now, loc))
}

// CanVote reports whether q is published and its end date, if any, is
// today or later. Comparison is by calendar date, so a poll ending today
// stays open until midnight.
func CanVote(q models.Question, now time.Time) bool {
	if !IsPublished(q, now) {
		return false
	}
	if q.EndDate == nil {
		return true
	}
	loc := now.Location()
	return !calendarDay(*q.EndDate, loc).Before(calendarDay(now, loc))
}

// WasPublishedRecently reports whether now-24h <= pub_date <= now, at full
// timestamp precision. Future questions are never recent.
func WasPublishedRecently(q models.Question, now time.Time) bool {
	return !q.PubDate.Before(now.Add(-RecentWindow)) && !q.PubDate.After(now)
}

// StateOf derives the question's state from the clock
func StateOf(q models.Question, now time.Time) string {
	switch {
	case !IsPublished(q, now):
		return models.StateUnpublished
	case CanVote(q, now):
		return models.StateOpen
	default:
		return models.StateClosed
	}
}
