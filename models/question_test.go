package models

import (
	"testing"
	"time"
)

func TestWasPublishedRecently(t *testing.T) {
	now := time.Now()

	tests := []struct {
		name    string
		pubDate time.Time
		want    bool
	}{
		{"future question", now.Add(30 * 24 * time.Hour), false},
		{"older than one day", now.Add(-(24*time.Hour + time.Second)), false},
		{"within the last day", now.Add(-(23*time.Hour + 59*time.Minute + 59*time.Second)), true},
		{"exactly now", now, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			q := Question{PubDate: tt.pubDate}
			if got := q.WasPublishedRecently(now); got != tt.want {
				t.Errorf("WasPublishedRecently() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestIsPublished(t *testing.T) {
	now := time.Now()

	tests := []struct {
		name    string
		pubDate time.Time
		want    bool
	}{
		{"future pub_date", now.Add(24 * time.Hour), false},
		{"pub_date now", now, true},
		{"past pub_date", now.Add(-24 * time.Hour), true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			q := Question{PubDate: tt.pubDate}
			if got := q.IsPublished(now); got != tt.want {
				t.Errorf("IsPublished() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestCanVote(t *testing.T) {
	now := time.Now()
	future := now.Add(5 * 24 * time.Hour)
	past := now.Add(-24 * time.Hour)

	tests := []struct {
		name    string
		pubDate time.Time
		endDate *time.Time
		want    bool
	}{
		{"no end date", now, nil, true},
		{"no end date, not yet published", future, nil, false},
		{"end date in future", now, &future, true},
		{"after end date", now.Add(-2 * 24 * time.Hour), &past, false},
		{"end date equals now", past, &now, true},
		{"not yet published with end date", future, &future, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			q := Question{PubDate: tt.pubDate, EndDate: tt.endDate}
			if got := q.CanVote(now); got != tt.want {
				t.Errorf("CanVote() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestDBTime(t *testing.T) {
	loc := time.FixedZone("ICT", 7*60*60)
	in := time.Date(2024, 9, 1, 10, 30, 15, 999, loc)

	got := DBTime(in)
	if got.Location() != time.UTC {
		t.Errorf("expected UTC, got %v", got.Location())
	}
	if got.Nanosecond() != 0 {
		t.Errorf("expected whole seconds, got %d ns", got.Nanosecond())
	}
	if !got.Equal(in.Truncate(time.Second)) {
		t.Errorf("DBTime changed the instant: %v vs %v", got, in)
	}
}
