// Copyright (c) 2025 niichapats.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package models

import "time"

// RecentWindow is how long a question counts as recently published.
const RecentWindow = 24 * time.Hour

func (q Question) String() string {
	return q.QuestionText
}

// WasPublishedRecently reports whether pub_date falls within the last day.
// Future questions are not recent.
func (q Question) WasPublishedRecently(now time.Time) bool {
	return !q.PubDate.Before(now.Add(-RecentWindow)) && !q.PubDate.After(now)
}

// IsPublished reports whether now is on or after pub_date.
func (q Question) IsPublished(now time.Time) bool {
	return !now.Before(q.PubDate)
}

// CanVote reports whether voting is open at now. Without an end date a
// published question stays open; otherwise both bounds are inclusive.
func (q Question) CanVote(now time.Time) bool {
	if q.EndDate == nil {
		return q.IsPublished(now)
	}
	return q.IsPublished(now) && !now.After(*q.EndDate)
}

// DBTime normalizes a timestamp for storage: UTC, whole seconds. Stored
// timestamps then compare correctly as text on SQLite.
func DBTime(t time.Time) time.Time {
	return t.UTC().Truncate(time.Second)
}
