package scorer

import (
	"strings"

	"ctxrank/pkg/types"
)

const (
	// exactSymbolWeight scores a symbol whose full name equals a query token.
	exactSymbolWeight = 1.0
	// partialSymbolWeight scores a case-insensitive substring overlap.
	partialSymbolWeight = 0.5

	// structuralSaturation is the symbol-weight sum that maps to a full
	// score. One exact hit plus one partial hit saturate the signal, so a
	// single exact match already scores decisively.
	structuralSaturation = 1.5
)

// Tokenize lowercases the query and splits it on every non-alphanumeric
// rune. Duplicate tokens are dropped, order is preserved.
func Tokenize(query string) []string {
	fields := strings.FieldsFunc(strings.ToLower(query), func(r rune) bool {
		return !('a' <= r && r <= 'z') && !('0' <= r && r <= '9')
	})

	seen := make(map[string]bool, len(fields))
	tokens := make([]string, 0, len(fields))
	for _, f := range fields {
		if !seen[f] {
			seen[f] = true
			tokens = append(tokens, f)
		}
	}
	return tokens
}

// Structural scores symbol-name overlap between the query and the file's
// parsed declarations. It returns the astScore and the per-symbol matches
// that later feed relevantFunctions.
func Structural(query string, parsed types.ParsedFile) (float64, []types.Match) {
	tokens := Tokenize(query)
	if len(tokens) == 0 || parsed.Empty() {
		return 0, nil
	}

	var sum float64
	var matches []types.Match
	for _, name := range parsed.SymbolNames() {
		relevance := symbolRelevance(name, tokens)
		if relevance == 0 {
			continue
		}
		sum += relevance
		matches = append(matches, types.Match{Name: name, Relevance: relevance})
	}

	return types.Clamp01(sum / structuralSaturation), matches
}

// symbolRelevance returns the best token score for one symbol name: an exact
// full-name match beats a substring overlap in either direction.
func symbolRelevance(name string, tokens []string) float64 {
	lower := strings.ToLower(name)

	var best float64
	for _, token := range tokens {
		switch {
		case lower == token:
			return exactSymbolWeight
		case strings.Contains(lower, token) || strings.Contains(token, lower):
			if partialSymbolWeight > best {
				best = partialSymbolWeight
			}
		}
	}
	return best
}
