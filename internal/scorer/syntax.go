package scorer

import (
	"strings"

	"ctxrank/pkg/types"
)

const (
	// exactMatchWeight scores a token found verbatim in the path or content.
	exactMatchWeight = 1.0
	// fuzzyMatchWeight scores a token whose characters appear in order in
	// the path, possibly non-contiguously.
	fuzzyMatchWeight = 0.4

	// maxSnippets bounds how many matched lines a result carries.
	maxSnippets = 5
	// snippetLimit truncates long matched lines for display.
	snippetLimit = 120
)

// Syntax scores literal and fuzzy token matches against the file path and
// raw content. The score is the mean token weight; matches holds up to
// maxSnippets content lines around exact hits.
func Syntax(query, path, content string) (float64, []types.Match) {
	tokens := Tokenize(query)
	if len(tokens) == 0 {
		return 0, nil
	}

	lowerPath := strings.ToLower(path)
	lowerContent := strings.ToLower(content)

	var sum float64
	var matches []types.Match
	for _, token := range tokens {
		switch {
		case strings.Contains(lowerContent, token):
			sum += exactMatchWeight
			matches = appendSnippets(matches, content, token)
		case strings.Contains(lowerPath, token):
			sum += exactMatchWeight
			matches = appendMatch(matches, types.Match{
				Name:      token,
				Relevance: exactMatchWeight,
				Snippet:   path,
			})
		case subsequenceMatch(lowerPath, token):
			sum += fuzzyMatchWeight
			matches = appendMatch(matches, types.Match{
				Name:      token,
				Relevance: fuzzyMatchWeight,
				Snippet:   path,
			})
		}
	}

	return types.Clamp01(sum / float64(len(tokens))), matches
}

// subsequenceMatch reports whether every rune of token occurs in s in order,
// possibly with gaps.
func subsequenceMatch(s, token string) bool {
	if token == "" {
		return false
	}
	i := 0
	for _, r := range s {
		if r == rune(token[i]) {
			i++
			if i == len(token) {
				return true
			}
		}
	}
	return false
}

// appendSnippets collects up to maxSnippets lines that contain the token.
// Each line is lowercased independently for matching, so the snippet slice
// always comes from the original line and rune length changes under ToLower
// (e.g. U+0130) cannot skew offsets.
func appendSnippets(matches []types.Match, content, token string) []types.Match {
	for _, line := range strings.Split(content, "\n") {
		if len(matches) >= maxSnippets {
			break
		}
		if !strings.Contains(strings.ToLower(line), token) {
			continue
		}
		snippet := truncate(strings.TrimSpace(line), snippetLimit)
		matches = appendMatch(matches, types.Match{
			Name:      token,
			Relevance: exactMatchWeight,
			Snippet:   snippet,
		})
	}
	return matches
}

// appendMatch adds m unless the snippet is already present or the list is
// full.
func appendMatch(matches []types.Match, m types.Match) []types.Match {
	if len(matches) >= maxSnippets {
		return matches
	}
	for _, existing := range matches {
		if existing.Snippet == m.Snippet && existing.Name == m.Name {
			return matches
		}
	}
	return append(matches, m)
}
