// Package classifier assigns each file an architectural role through a
// deterministic rule cascade, plus a workflow position derived from its
// dependency-graph degrees and a confidence score for the chosen role.
package classifier

import (
	"path"
	"strings"

	"github.com/gobwas/glob"

	"ctxrank/pkg/types"
)

// DefaultUnrelatedFloor is the signal level below which a file that matched
// no higher-priority rule is classified unrelated.
const DefaultUnrelatedFloor = 0.05

// Rule match strengths, ordered so that a decisive rule beats the default
// bucket by a visible margin.
const (
	strengthExplicitEntry = 1.0
	strengthEntryPattern  = 0.9
	strengthConfigPattern = 0.8
	strengthConfigShape   = 0.6
	strengthHelper        = 0.7
	strengthUnrelated     = 0.9
	strengthCoreLogic     = 0.5
)

var entryPointPatterns = compileAll(
	"main.*",
	"index.*",
	"app.*",
	"server.*",
	"cli.*",
)

var configPatterns = compileAll(
	"config.*",
	"*.config.*",
	"settings.*",
	"*.toml",
	"*.yaml",
	"*.yml",
	"*.ini",
	".env*",
	"*rc.json",
)

func compileAll(patterns ...string) []glob.Glob {
	globs := make([]glob.Glob, len(patterns))
	for i, p := range patterns {
		globs[i] = glob.MustCompile(p)
	}
	return globs
}

// Input carries everything the cascade needs for one file.
type Input struct {
	Path   string
	Parsed types.ParsedFile

	InDegree  int
	OutDegree int

	ASTScore    float64
	LLMScore    float64
	SyntaxScore float64

	// ExplicitEntry marks the file named by the caller's entry-point
	// parameter. It overrides every heuristic.
	ExplicitEntry bool
}

// Result is the classifier verdict for one file.
type Result struct {
	Classification   types.Classification
	WorkflowPosition types.WorkflowPosition
	FlanScore        float64
}

// Classifier evaluates the rule cascade. The zero value is not usable; call
// New.
type Classifier struct {
	floor float64
}

// Option configures a Classifier.
type Option func(*Classifier)

// WithUnrelatedFloor overrides the unrelated signal floor.
func WithUnrelatedFloor(floor float64) Option {
	return func(c *Classifier) {
		if floor > 0 {
			c.floor = floor
		}
	}
}

// New builds a Classifier.
func New(opts ...Option) *Classifier {
	c := &Classifier{floor: DefaultUnrelatedFloor}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Classify runs the cascade: entry-point, config, helper, unrelated, then
// the core-logic default. The confidence score is the margin between the
// winning rule's strength and the strongest non-winning rule.
func (c *Classifier) Classify(in Input) Result {
	strengths := map[types.Classification]float64{
		types.ClassEntryPoint: c.entryPointStrength(in),
		types.ClassConfig:     c.configStrength(in),
		types.ClassHelper:     c.helperStrength(in),
		types.ClassUnrelated:  c.unrelatedStrength(in),
		types.ClassCoreLogic:  strengthCoreLogic,
	}

	cascade := []types.Classification{
		types.ClassEntryPoint,
		types.ClassConfig,
		types.ClassHelper,
		types.ClassUnrelated,
		types.ClassCoreLogic,
	}

	winner := types.ClassCoreLogic
	for _, class := range cascade {
		if strengths[class] > 0 {
			winner = class
			break
		}
	}

	var runnerUp float64
	for class, strength := range strengths {
		if class != winner && strength > runnerUp {
			runnerUp = strength
		}
	}

	return Result{
		Classification:   winner,
		WorkflowPosition: workflowPosition(in.OutDegree, in.InDegree),
		FlanScore:        types.Clamp01(strengths[winner] - runnerUp),
	}
}

func (c *Classifier) entryPointStrength(in Input) float64 {
	if in.ExplicitEntry {
		return strengthExplicitEntry
	}
	base := strings.ToLower(path.Base(in.Path))
	for _, g := range entryPointPatterns {
		if g.Match(base) {
			return strengthEntryPattern
		}
	}
	return 0
}

func (c *Classifier) configStrength(in Input) float64 {
	base := strings.ToLower(path.Base(in.Path))
	for _, g := range configPatterns {
		if g.Match(base) {
			return strengthConfigPattern
		}
	}

	// Files that only export data with no behavior read as configuration.
	if len(in.Parsed.Exports) > 0 && len(in.Parsed.Functions) == 0 && len(in.Parsed.Classes) == 0 {
		return strengthConfigShape
	}
	return 0
}

// helperStrength marks widely imported leaf utilities: many importers, few
// outgoing imports, free functions rather than stateful classes.
func (c *Classifier) helperStrength(in Input) float64 {
	if in.InDegree >= 2 && in.OutDegree <= 1 && len(in.Parsed.Classes) == 0 && len(in.Parsed.Functions) > 0 {
		return strengthHelper
	}
	return 0
}

func (c *Classifier) unrelatedStrength(in Input) float64 {
	if in.ASTScore < c.floor && in.LLMScore < c.floor && in.SyntaxScore < c.floor {
		return strengthUnrelated
	}
	return 0
}

// workflowPosition derives the file's place in the dependency flow: a file
// that imports far more than it is imported drives others (upstream); the
// inverse is widely depended upon (downstream).
func workflowPosition(outDegree, inDegree int) types.WorkflowPosition {
	switch {
	case outDegree > 0 && outDegree >= 2*inDegree:
		return types.PositionUpstream
	case inDegree > 0 && inDegree >= 2*outDegree:
		return types.PositionDownstream
	default:
		return types.PositionUnknown
	}
}
