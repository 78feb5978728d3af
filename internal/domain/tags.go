package domain

import "regexp"

var tagPattern = regexp.MustCompile(`#\w+`)

// ExtractTags returns the set of #word tags found in text, in first-seen
// order. Repeated occurrences of the same tag are collapsed into one.
func ExtractTags(text string) []string {
	matches := tagPattern.FindAllString(text, -1)
	if len(matches) == 0 {
		return nil
	}

	seen := make(map[string]struct{}, len(matches))
	tags := make([]string, 0, len(matches))
	for _, m := range matches {
		if _, ok := seen[m]; ok {
			continue
		}
		seen[m] = struct{}{}
		tags = append(tags, m)
	}
	return tags
}
