package activity

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/google/uuid"

	"github.com/heartmarshall/victorylog-backend/internal/domain"
)

// pendingDelta is one unconfirmed optimistic write. Pointer identity is
// the handle used to confirm or drop it once the store answers.
type pendingDelta struct {
	delta domain.AggregateDelta
}

// ownerState holds one owner's in-memory aggregate view: the last
// aggregate confirmed by the store plus deltas for writes still in
// flight. Reads fold pending deltas onto a clone of the base, so the
// visible value always includes unconfirmed local writes.
type ownerState struct {
	mu      sync.Mutex
	loaded  bool
	base    *domain.Aggregate
	pending []*pendingDelta
}

// view returns the two-phase value: base with all pending deltas
// applied. The result is a deep copy and safe to hand out.
func (st *ownerState) view(userID uuid.UUID) *domain.Aggregate {
	agg := domain.NewAggregate(userID)
	if st.base != nil {
		agg = st.base.Clone()
	}
	for _, p := range st.pending {
		agg.Apply(p.delta)
	}
	return agg
}

// add registers an optimistic delta and returns its handle.
func (st *ownerState) add(d domain.AggregateDelta) *pendingDelta {
	p := &pendingDelta{delta: d}
	st.pending = append(st.pending, p)
	return p
}

// confirm folds the delta into the base and removes it from pending.
func (st *ownerState) confirm(userID uuid.UUID, p *pendingDelta) {
	st.drop(p)
	if st.base == nil {
		st.base = domain.NewAggregate(userID)
	}
	st.base.Apply(p.delta)
}

// drop discards a pending delta without folding it in (failed write).
func (st *ownerState) drop(p *pendingDelta) {
	for i, q := range st.pending {
		if q == p {
			st.pending = append(st.pending[:i], st.pending[i+1:]...)
			return
		}
	}
}

// absorb folds a freshly read persisted aggregate into the base. Each
// slot is raised to whichever side counted more; confirmed local state
// is never lowered, so a snapshot written by another replica before our
// latest merge cannot roll back counts this process already confirmed.
func (st *ownerState) absorb(stored *domain.Aggregate) {
	if st.base == nil {
		st.base = stored.Clone()
		return
	}
	for key, count := range stored.DailyCounts {
		if count > st.base.DailyCounts[key] {
			st.base.DailyCounts[key] = count
		}
	}
	for key, tags := range stored.DailyTagCounts {
		current := st.base.DailyTagCounts[key]
		for _, tc := range tags {
			if have := current.Get(tc.Tag); tc.Count > have {
				current = current.Add(tc.Tag, tc.Count-have)
			}
		}
		if len(current) > 0 {
			st.base.DailyTagCounts[key] = current
		}
	}
	if stored.LastUpdate.After(st.base.LastUpdate) {
		st.base.LastUpdate = stored.LastUpdate
	}
}

// state returns the owner's state, creating it on first touch.
func (s *Service) state(userID uuid.UUID) *ownerState {
	s.mu.Lock()
	defer s.mu.Unlock()
	st, ok := s.owners[userID]
	if !ok {
		st = &ownerState{}
		s.owners[userID] = st
	}
	return st
}

// ensureLoaded populates the confirmed base from the store on first use.
// A missing aggregate is normal for a new owner and starts empty.
// Must be called with st.mu held.
func (s *Service) ensureLoaded(ctx context.Context, userID uuid.UUID, st *ownerState) error {
	if st.loaded {
		return nil
	}
	return s.loadFresh(ctx, userID, st)
}

// loadFresh re-reads the persisted aggregate and absorbs it into the
// base, regardless of whether the owner was loaded before. Read paths
// call this on every refresh so updates written by another replica or
// by the backfill job become visible to a long-lived process.
// Must be called with st.mu held.
func (s *Service) loadFresh(ctx context.Context, userID uuid.UUID, st *ownerState) error {
	agg, err := s.aggregates.Get(ctx, userID)
	switch {
	case err == nil:
		st.absorb(agg)
	case errors.Is(err, domain.ErrNotFound):
		if st.base == nil {
			st.base = domain.NewAggregate(userID)
		}
	default:
		return fmt.Errorf("load aggregate: %w", err)
	}
	st.loaded = true
	return nil
}
