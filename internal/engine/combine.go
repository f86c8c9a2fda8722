package engine

import (
	"sort"

	"ctxrank/internal/classifier"
	"ctxrank/pkg/types"
)

// Tuned combination constants. The weights are configuration, not
// invariants; behavior is pinned by scenario tests rather than by the
// specific numbers.
const (
	DefaultSynergyThreshold = 0.5
	DefaultFunctionCutoff   = 0.3
)

// Weights blends the four signals into the final score. They should sum to
// 1 so the final score stays in [0,1] without clipping.
type Weights struct {
	AST    float64 `toml:"ast"`
	LLM    float64 `toml:"llm"`
	Syntax float64 `toml:"syntax"`
	Flan   float64 `toml:"flan"`
}

// DefaultWeights weighs the three relevance signals equally and gives the
// classifier confidence a small vote.
func DefaultWeights() Weights {
	return Weights{AST: 0.3, LLM: 0.3, Syntax: 0.3, Flan: 0.1}
}

// signals carries one file's raw scores into the combiner.
type signals struct {
	ast     float64
	llm     float64
	syntax  float64
	flan    float64
	matches []types.Match
}

func (e *Engine) combine(path string, s signals, snippets []types.Match, verdict classifier.Result) types.QueryResult {
	final := types.Clamp01(
		e.weights.AST*s.ast +
			e.weights.LLM*s.llm +
			e.weights.Syntax*s.syntax +
			e.weights.Flan*s.flan)

	return types.QueryResult{
		File:              path,
		FinalScore:        final,
		ScorePercentage:   types.ScorePercent(final),
		ASTScore:          s.ast,
		LLMScore:          s.llm,
		SyntaxScore:       s.syntax,
		FlanScore:         s.flan,
		HasSynergy:        e.hasSynergy(s),
		Matches:           snippets,
		Classification:    verdict.Classification,
		WorkflowPosition:  verdict.WorkflowPosition,
		RelevantFunctions: e.relevantFunctions(s.matches),
	}
}

// hasSynergy reports independent corroboration: at least two of the three
// relevance signals above the agreement threshold.
func (e *Engine) hasSynergy(s signals) bool {
	count := 0
	for _, v := range []float64{s.ast, s.llm, s.syntax} {
		if v > e.synergyThreshold {
			count++
		}
	}
	return count >= 2
}

// relevantFunctions deduplicates symbol matches by name keeping the maximum
// relevance, drops entries below the cutoff, and sorts descending with a
// stable name tie-break.
func (e *Engine) relevantFunctions(matches []types.Match) []types.RelevantFunction {
	best := make(map[string]float64, len(matches))
	for _, m := range matches {
		if m.Relevance > best[m.Name] {
			best[m.Name] = m.Relevance
		}
	}

	out := make([]types.RelevantFunction, 0, len(best))
	for name, relevance := range best {
		if relevance >= e.functionCutoff {
			out = append(out, types.RelevantFunction{Name: name, Relevance: relevance})
		}
	}

	sort.Slice(out, func(i, j int) bool {
		if out[i].Relevance != out[j].Relevance {
			return out[i].Relevance > out[j].Relevance
		}
		return out[i].Name < out[j].Name
	})

	if len(out) == 0 {
		return nil
	}
	return out
}
