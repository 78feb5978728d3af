package domain

// Granularity identifies a calendar period size for top-marker exclusivity.
type Granularity string

const (
	GranularityDay   Granularity = "DAY"
	GranularityWeek  Granularity = "WEEK"
	GranularityMonth Granularity = "MONTH"
)

// IsValid reports whether g is one of the known granularities.
func (g Granularity) IsValid() bool {
	switch g {
	case GranularityDay, GranularityWeek, GranularityMonth:
		return true
	}
	return false
}

// AllGranularities lists every supported granularity, smallest first.
func AllGranularities() []Granularity {
	return []Granularity{GranularityDay, GranularityWeek, GranularityMonth}
}
