package domain

import (
	"time"

	"github.com/google/uuid"
)

// TagCount is one tag's occurrence count within a single day.
type TagCount struct {
	Tag   string
	Count int
}

// TagCounts holds per-tag counts for one day in first-seen order.
// Order matters: the heatmap's dominant-tag tie-break picks the tag that
// was recorded first, so TagCounts is an ordered list rather than a map.
type TagCounts []TagCount

// Get returns the count for tag, or 0 if absent.
func (tc TagCounts) Get(tag string) int {
	for _, t := range tc {
		if t.Tag == tag {
			return t.Count
		}
	}
	return 0
}

// Add adjusts the count for tag by delta and returns the updated list.
// A tag not yet present is appended (preserving first-seen order); a tag
// whose count drops to zero or below is removed entirely.
func (tc TagCounts) Add(tag string, delta int) TagCounts {
	for i, t := range tc {
		if t.Tag != tag {
			continue
		}
		next := t.Count + delta
		if next <= 0 {
			return append(tc[:i:i], tc[i+1:]...)
		}
		out := make(TagCounts, len(tc))
		copy(out, tc)
		out[i].Count = next
		return out
	}
	if delta <= 0 {
		return tc
	}
	return append(tc[:len(tc):len(tc)], TagCount{Tag: tag, Count: delta})
}

// Clone returns a deep copy.
func (tc TagCounts) Clone() TagCounts {
	if tc == nil {
		return nil
	}
	out := make(TagCounts, len(tc))
	copy(out, tc)
	return out
}

// Aggregate is the derived per-owner summary of the entry log: per-day
// entry counts, per-day tag counts, and a cached streak value. It is
// updated optimistically at write time and therefore may drift from the
// log; the reconciler restores the invariant that DailyCounts[d] equals
// the number of live entries on day d.
type Aggregate struct {
	UserID         uuid.UUID
	DailyCounts    map[string]int
	DailyTagCounts map[string]TagCounts
	Streak         int
	LastUpdate     time.Time
}

// NewAggregate returns an empty aggregate for the given owner.
func NewAggregate(userID uuid.UUID) *Aggregate {
	return &Aggregate{
		UserID:         userID,
		DailyCounts:    make(map[string]int),
		DailyTagCounts: make(map[string]TagCounts),
	}
}

// Clone returns a deep copy.
func (a *Aggregate) Clone() *Aggregate {
	out := &Aggregate{
		UserID:         a.UserID,
		DailyCounts:    make(map[string]int, len(a.DailyCounts)),
		DailyTagCounts: make(map[string]TagCounts, len(a.DailyTagCounts)),
		Streak:         a.Streak,
		LastUpdate:     a.LastUpdate,
	}
	for k, v := range a.DailyCounts {
		out.DailyCounts[k] = v
	}
	for k, v := range a.DailyTagCounts {
		out.DailyTagCounts[k] = v.Clone()
	}
	return out
}

// AggregateDelta is the aggregate-level effect of one entry mutation:
// Count is +1 for a created entry and -1 for a deleted one, applied to
// the day's entry count and to each listed tag's count on that day.
type AggregateDelta struct {
	DayKey string
	Count  int
	Tags   []string
}

// Inverse returns the delta that exactly undoes d.
func (d AggregateDelta) Inverse() AggregateDelta {
	return AggregateDelta{DayKey: d.DayKey, Count: -d.Count, Tags: d.Tags}
}

// Apply mutates the aggregate by the given delta. Day and tag counts that
// reach zero are removed from their maps entirely, so "no entries on a
// day" is always represented by key absence, never by a stored zero.
func (a *Aggregate) Apply(d AggregateDelta) {
	next := a.DailyCounts[d.DayKey] + d.Count
	if next <= 0 {
		delete(a.DailyCounts, d.DayKey)
	} else {
		a.DailyCounts[d.DayKey] = next
	}

	tc := a.DailyTagCounts[d.DayKey]
	for _, tag := range d.Tags {
		tc = tc.Add(tag, d.Count)
	}
	if len(tc) == 0 {
		delete(a.DailyTagCounts, d.DayKey)
	} else {
		a.DailyTagCounts[d.DayKey] = tc
	}
}
