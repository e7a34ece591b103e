package scanner

import "regexp"

var tagPattern = regexp.MustCompile(`<([A-Z]\w+)`)

// ScanTags returns the distinct capitalized tag names opened in text, in order
// of first appearance. Self-closing and paired tags are not distinguished.
func ScanTags(text string) []string {
	matches := tagPattern.FindAllStringSubmatch(text, -1)
	if len(matches) == 0 {
		return nil
	}

	seen := make(map[string]struct{}, len(matches))
	var tags []string
	for _, m := range matches {
		name := m[1]
		if _, dup := seen[name]; dup {
			continue
		}
		seen[name] = struct{}{}
		tags = append(tags, name)
	}
	return tags
}
