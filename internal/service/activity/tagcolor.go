package activity

// tagPalette is the fixed tag color palette. The hash below must stay
// bit-compatible with the web client's charCodeAt fold so both sides
// paint the same tag the same color.
var tagPalette = [...]string{
	"#3B82F6", // blue
	"#EF4444", // red
	"#10B981", // green
	"#F59E0B", // amber
	"#8B5CF6", // violet
	"#EC4899", // pink
	"#06B6D4", // cyan
}

// defaultTagColor is returned for empty input.
const defaultTagColor = "#888"

// ColorFor deterministically maps a tag to a palette color. Same tag,
// same color, in any process on any device; no randomness, no state.
func ColorFor(tag string) string {
	if tag == "" {
		return defaultTagColor
	}

	// JS string hash: hash = charCode + ((hash << 5) - hash), in 32-bit
	// signed arithmetic with wraparound.
	var hash int32
	for _, r := range tag {
		hash = int32(r) + (hash << 5) - hash
	}

	idx := int64(hash)
	if idx < 0 {
		idx = -idx
	}
	return tagPalette[idx%int64(len(tagPalette))]
}
