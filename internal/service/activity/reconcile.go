package activity

import (
	"time"

	"github.com/heartmarshall/victorylog-backend/internal/domain"
)

// observed accumulates per-day entry and tag tallies recounted from the
// log. One value can absorb several pages of entries before the raise
// rule is applied, so a day whose entries straddle a page boundary is
// still counted whole.
type observed struct {
	counts map[string]int
	tags   map[string]domain.TagCounts
}

func newObserved() *observed {
	return &observed{
		counts: make(map[string]int),
		tags:   make(map[string]domain.TagCounts),
	}
}

// tally counts the entries into the running totals. Entries without a
// resolvable timestamp are skipped rather than failing the pass.
func (o *observed) tally(entries []*domain.Entry, loc *time.Location) {
	for _, e := range entries {
		if e == nil || e.CreatedAt == nil {
			continue
		}
		key := DayKey(*e.CreatedAt, loc)
		o.counts[key]++
		tc := o.tags[key]
		for _, tag := range e.Tags {
			tc = tc.Add(tag, 1)
		}
		if len(tc) > 0 {
			o.tags[key] = tc
		}
	}
}

// apply raises the aggregate's missing slots to the observed totals and
// reports whether anything changed.
//
// Repair is monotonically additive: an absent or zero slot is raised to
// the observed count, but a non-zero slot is never touched and nothing
// is ever decremented. When the tally covers only part of the log, the
// aggregate may hold accurate totals for entries outside it, and
// lowering them here would destroy good data.
func (o *observed) apply(agg *domain.Aggregate) bool {
	if agg.DailyCounts == nil {
		agg.DailyCounts = make(map[string]int)
	}
	if agg.DailyTagCounts == nil {
		agg.DailyTagCounts = make(map[string]domain.TagCounts)
	}

	healed := false

	for key, count := range o.counts {
		if agg.DailyCounts[key] > 0 {
			continue
		}
		agg.DailyCounts[key] = count
		healed = true
	}

	for key, tags := range o.tags {
		current := agg.DailyTagCounts[key]
		changed := false
		for _, tc := range tags {
			if current.Get(tc.Tag) > 0 {
				continue
			}
			current = current.Add(tc.Tag, tc.Count)
			changed = true
		}
		if changed {
			agg.DailyTagCounts[key] = current
			healed = true
		}
	}

	return healed
}

// Reconcile compares a bounded sample of recent entries (newest first)
// against the aggregate and fills in missing day and tag counts in
// place. It reports whether anything was healed; the caller persists the
// aggregate when it was. A sampleSize of 0 inspects every given entry.
//
// The function is idempotent: running it again over its own output with
// the same sample heals nothing.
func Reconcile(entries []*domain.Entry, agg *domain.Aggregate, loc *time.Location, sampleSize int) bool {
	if sampleSize > 0 && len(entries) > sampleSize {
		entries = entries[:sampleSize]
	}

	o := newObserved()
	o.tally(entries, loc)
	return o.apply(agg)
}
