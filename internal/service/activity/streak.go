package activity

// CurrentStreak computes the current contiguous-day streak from a sparse
// day-key -> count map. It is recomputed on every read; the aggregate's
// stored streak field is only a cache and is never trusted (stored
// values desync when writes are lost or made from other devices).
//
// Rules:
//   - If neither today nor yesterday has a positive count, the streak is
//     already broken: 0.
//   - Otherwise tracing starts at today if it has a positive count, else
//     at yesterday — the current day is still in progress, and an active
//     streak should not collapse to 0 the moment midnight passes.
//   - Walk backward one calendar day at a time while counts stay
//     positive.
func CurrentStreak(dailyCounts map[string]int, todayKey string) int {
	if len(dailyCounts) == 0 {
		return 0
	}

	today, err := parseDayKey(todayKey)
	if err != nil {
		return 0
	}
	yesterdayKey := today.AddDate(0, 0, -1).Format(dayKeyLayout)

	if dailyCounts[todayKey] <= 0 && dailyCounts[yesterdayKey] <= 0 {
		return 0
	}

	trace := today
	if dailyCounts[todayKey] <= 0 {
		trace = trace.AddDate(0, 0, -1)
	}

	streak := 0
	for dailyCounts[trace.Format(dayKeyLayout)] > 0 {
		streak++
		trace = trace.AddDate(0, 0, -1)
	}
	return streak
}
