package activity

import "github.com/heartmarshall/victorylog-backend/internal/domain"

// HeatmapCell is one day in the trailing activity window.
// DominantTagColor is nil when the day has no tagged entries.
type HeatmapCell struct {
	DayKey           string
	Count            int
	DominantTagColor *string
}

// BuildHeatmap projects the aggregate maps onto a fixed-length window of
// day cells ending at todayKey, oldest first. Days without entries get
// Count 0 and no color. Pure and deterministic for given inputs.
func BuildHeatmap(
	dailyCounts map[string]int,
	dailyTagCounts map[string]domain.TagCounts,
	windowDays int,
	todayKey string,
) []HeatmapCell {
	if windowDays <= 0 {
		return nil
	}

	today, err := parseDayKey(todayKey)
	if err != nil {
		return nil
	}

	cells := make([]HeatmapCell, 0, windowDays)
	for i := windowDays - 1; i >= 0; i-- {
		key := today.AddDate(0, 0, -i).Format(dayKeyLayout)
		cells = append(cells, HeatmapCell{
			DayKey:           key,
			Count:            dailyCounts[key],
			DominantTagColor: dominantTagColor(dailyTagCounts[key]),
		})
	}
	return cells
}

// dominantTagColor returns the color of the tag with the highest count,
// or nil when the day has no tags. Ties go to the tag recorded first
// (TagCounts preserves first-seen order).
func dominantTagColor(tc domain.TagCounts) *string {
	if len(tc) == 0 {
		return nil
	}

	top := tc[0]
	for _, t := range tc[1:] {
		if t.Count > top.Count {
			top = t
		}
	}
	color := ColorFor(top.Tag)
	return &color
}
