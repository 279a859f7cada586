package llm

import "strings"

// ExtractJSON trims markdown code fences and leading prose off assistant
// content, returning the first JSON value in it. Judgment prompts ask for
// bare JSON but models habitually wrap it anyway
func ExtractJSON(content string) string {
	s := strings.TrimSpace(content)

	if strings.HasPrefix(s, "```") {
		s = strings.TrimPrefix(s, "```json")
		s = strings.TrimPrefix(s, "```")
		if i := strings.LastIndex(s, "```"); i >= 0 {
			s = s[:i]
		}
		s = strings.TrimSpace(s)
	}

	// models sometimes preface with "Here is the JSON:" style prose
	obj := strings.IndexByte(s, '{')
	arr := strings.IndexByte(s, '[')
	first := obj
	if first < 0 || (arr >= 0 && arr < first) {
		first = arr
	}
	if first > 0 {
		s = s[first:]
	}
	return s
}
