package activity

import (
	"fmt"
	"time"

	"github.com/heartmarshall/victorylog-backend/internal/domain"
)

// dayKeyLayout is the single day-key convention used by the whole
// engine: the calendar day in the owner's timezone, never UTC-truncated
// instants, so entries written just before local midnight land on the
// right day.
const dayKeyLayout = "2006-01-02"

// DayKey returns the local-calendar-day key for t in loc.
// Two instants map to the same key iff they fall on the same local day.
func DayKey(t time.Time, loc *time.Location) string {
	return t.In(loc).Format(dayKeyLayout)
}

// PeriodKey returns a key that is equal for all instants inside the same
// period instance: the day key for DAY, an ISO-week key (Monday start,
// week containing the year's first Thursday) for WEEK, and year+month
// for MONTH.
func PeriodKey(t time.Time, g domain.Granularity, loc *time.Location) string {
	local := t.In(loc)
	switch g {
	case domain.GranularityWeek:
		year, week := local.ISOWeek()
		return fmt.Sprintf("%04d-W%02d", year, week)
	case domain.GranularityMonth:
		return local.Format("2006-01")
	default:
		return local.Format(dayKeyLayout)
	}
}

// AddDays shifts a day key by n calendar days. The arithmetic goes
// through time.AddDate rather than raw 24h offsets, so month/year
// rollover and DST transitions cannot skew the result.
// An unparseable key is returned unchanged.
func AddDays(key string, n int) string {
	d, err := parseDayKey(key)
	if err != nil {
		return key
	}
	return d.AddDate(0, 0, n).Format(dayKeyLayout)
}

// parseDayKey parses a day key into a UTC midnight instant.
// The UTC anchor is only an arithmetic convenience; day keys themselves
// carry no timezone.
func parseDayKey(key string) (time.Time, error) {
	return time.ParseInLocation(dayKeyLayout, key, time.UTC)
}

// ParseTimezone parses a timezone string, returning UTC as fallback.
func ParseTimezone(tz string) *time.Location {
	loc, err := time.LoadLocation(tz)
	if err != nil {
		return time.UTC
	}
	return loc
}
