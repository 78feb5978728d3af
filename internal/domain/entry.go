package domain

import (
	"time"

	"github.com/google/uuid"
)

// MaxEntryTextLen is the maximum entry text length in Unicode code points.
const MaxEntryTextLen = 280

// Entry is a single achievement record in a user's log.
// Entries are append-only: after creation only the text, the top-marker
// flags, and deletion are allowed. CreatedAt is assigned by the database
// and is nil only for an optimistic entry that has not been confirmed yet.
type Entry struct {
	ID        uuid.UUID
	UserID    uuid.UUID
	Text      string
	Tags      []string
	CreatedAt *time.Time
	UpdatedAt time.Time

	IsDailyTop   bool
	IsWeeklyTop  bool
	IsMonthlyTop bool
}

// TopFlag returns the top-marker flag for the given granularity.
func (e *Entry) TopFlag(g Granularity) bool {
	switch g {
	case GranularityDay:
		return e.IsDailyTop
	case GranularityWeek:
		return e.IsWeeklyTop
	case GranularityMonth:
		return e.IsMonthlyTop
	}
	return false
}

// EntryFilter narrows and pages an entry listing. Zero values mean
// "no constraint"; results are always newest first.
type EntryFilter struct {
	Tag    string
	From   *time.Time
	To     *time.Time
	Limit  int
	Offset int
}

// SetTopFlag sets the top-marker flag for the given granularity.
func (e *Entry) SetTopFlag(g Granularity, v bool) {
	switch g {
	case GranularityDay:
		e.IsDailyTop = v
	case GranularityWeek:
		e.IsWeeklyTop = v
	case GranularityMonth:
		e.IsMonthlyTop = v
	}
}
