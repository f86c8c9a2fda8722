package types

import "math"

// Classification is the architectural role assigned to a file.
type Classification string

const (
	ClassEntryPoint Classification = "entry-point"
	ClassCoreLogic  Classification = "core-logic"
	ClassHelper     Classification = "helper"
	ClassConfig     Classification = "config"
	ClassUnrelated  Classification = "unrelated"
	ClassUnknown    Classification = "unknown"
)

// WorkflowPosition is the heuristic role of a file in the import topology.
type WorkflowPosition string

const (
	PositionUpstream   WorkflowPosition = "upstream"
	PositionDownstream WorkflowPosition = "downstream"
	PositionUnknown    WorkflowPosition = "unknown"
)

// Match is a scored hit against a symbol name or a content snippet, kept for
// display and for building RelevantFunctions.
type Match struct {
	Name      string  `json:"name"`
	Relevance float64 `json:"relevance"`
	Snippet   string  `json:"snippet,omitempty"`
}

// RelevantFunction is a function-level relevance entry within a result.
type RelevantFunction struct {
	Name      string  `json:"name"`
	Relevance float64 `json:"relevance"`
	Reason    string  `json:"reason,omitempty"`
}

// QueryResult is the ranked, classified output for a single file.
type QueryResult struct {
	File            string  `json:"file"`
	FinalScore      float64 `json:"finalScore"`
	ScorePercentage int     `json:"scorePercentage"`

	ASTScore    float64 `json:"astScore"`
	LLMScore    float64 `json:"llmScore"`
	SyntaxScore float64 `json:"syntaxScore"`
	FlanScore   float64 `json:"flanScore"`

	HasSynergy bool    `json:"hasSynergy"`
	Matches    []Match `json:"matches,omitempty"`

	Classification    Classification     `json:"classification"`
	WorkflowPosition  WorkflowPosition   `json:"workflowPosition"`
	RelevantFunctions []RelevantFunction `json:"relevantFunctions,omitempty"`
}

// SearchData is the payload of a keyword-search event.
type SearchData struct {
	Keyword string        `json:"keyword"`
	Files   []QueryResult `json:"files"`
}

// SearchEvent is the envelope handed to the presentation layer and to the
// bulk add-to-context-set operation.
type SearchEvent struct {
	Type string     `json:"type"`
	Data SearchData `json:"data"`
}

// EventKeywordSearch is the event type produced by the engine.
const EventKeywordSearch = "keywordSearch"

// NewSearchEvent wraps ranked results in the keywordSearch envelope.
func NewSearchEvent(keyword string, files []QueryResult) SearchEvent {
	return SearchEvent{
		Type: EventKeywordSearch,
		Data: SearchData{Keyword: keyword, Files: files},
	}
}

// Clamp01 clamps v to the [0,1] score range.
func Clamp01(v float64) float64 {
	if v < 0 || math.IsNaN(v) {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

// ScorePercent converts a [0,1] score to a rounded integer percentage.
func ScorePercent(score float64) int {
	return int(math.Round(Clamp01(score) * 100))
}
