package translate

import "strings"

// parseNumberedList extracts expected translations from a model response
// formatted as a numbered list. List markers and numbering prefixes are
// stripped per line. ok is false when the response holds fewer entries than
// expected, which callers treat as a retry trigger.
func parseNumberedList(response string, expected int) ([]string, bool) {
	var translations []string
	for _, line := range strings.Split(strings.TrimSpace(response), "\n") {
		line = strings.TrimSpace(line)
		line = strings.TrimLeft(line, "0123456789.- ")
		line = strings.TrimLeft(line, "*•-[] ")
		line = strings.TrimSpace(line)
		if line != "" {
			translations = append(translations, line)
		}
	}
	if len(translations) < expected {
		return nil, false
	}
	return translations[:expected], true
}
