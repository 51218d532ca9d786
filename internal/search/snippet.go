package search

import "strings"

// Snippet window sizes around the first occurrence of the query term, and
// the fallback length when the term does not occur.
const (
	snippetBefore   = 80
	snippetAfter    = 140
	snippetFallback = 200
)

// makeSnippet emits a context window around the first case-insensitive
// occurrence of term, the leading portion of the content when the term is
// absent, and nothing for empty content.
func makeSnippet(content, term string) string {
	if content == "" {
		return ""
	}

	idx := -1
	if term != "" {
		idx = strings.Index(strings.ToLower(content), strings.ToLower(term))
	}
	if idx < 0 {
		if len(content) <= snippetFallback {
			return content
		}
		return content[:snippetFallback] + "…"
	}

	start := idx - snippetBefore
	if start < 0 {
		start = 0
	}
	end := idx + len(term) + snippetAfter
	if end > len(content) {
		end = len(content)
	}

	snippet := content[start:end]
	if start > 0 {
		snippet = "…" + snippet
	}
	if end < len(content) {
		snippet += "…"
	}
	return snippet
}
