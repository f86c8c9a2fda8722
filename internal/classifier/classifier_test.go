package classifier

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"ctxrank/pkg/types"
)

func decl(names ...string) []types.Declaration {
	out := make([]types.Declaration, len(names))
	for i, n := range names {
		out[i] = types.Declaration{Name: n}
	}
	return out
}

func TestClassify_EntryPointByPattern(t *testing.T) {
	c := New()

	for _, path := range []string{"src/main.ts", "index.js", "cmd/app.py", "server.go"} {
		got := c.Classify(Input{Path: path, ASTScore: 0.4, SyntaxScore: 0.4})
		assert.Equal(t, types.ClassEntryPoint, got.Classification, path)
	}
}

func TestClassify_ExplicitEntryOverridesEverything(t *testing.T) {
	c := New()

	// A math helper that would never classify as entry-point on its own.
	got := c.Classify(Input{
		Path:          "utils/math.ts",
		Parsed:        types.ParsedFile{Functions: decl("add")},
		InDegree:      3,
		ASTScore:      0.2,
		ExplicitEntry: true,
	})
	assert.Equal(t, types.ClassEntryPoint, got.Classification)
	assert.Greater(t, got.FlanScore, 0.0)
}

func TestClassify_ConfigByName(t *testing.T) {
	c := New()

	for _, path := range []string{"webpack.config.js", "config.toml", "settings.py", ".env.local"} {
		got := c.Classify(Input{Path: path, ASTScore: 0.3})
		assert.Equal(t, types.ClassConfig, got.Classification, path)
	}
}

func TestClassify_ConfigByExportShape(t *testing.T) {
	c := New()

	got := c.Classify(Input{
		Path:     "src/constants.ts",
		Parsed:   types.ParsedFile{Exports: decl("API_URL", "TIMEOUT")},
		ASTScore: 0.3,
	})
	assert.Equal(t, types.ClassConfig, got.Classification)
}

func TestClassify_HelperByDegrees(t *testing.T) {
	c := New()

	got := c.Classify(Input{
		Path:        "utils/strings.ts",
		Parsed:      types.ParsedFile{Functions: decl("pad", "trim")},
		InDegree:    4,
		OutDegree:   0,
		SyntaxScore: 0.3,
	})
	assert.Equal(t, types.ClassHelper, got.Classification)
}

func TestClassify_UnrelatedBelowFloor(t *testing.T) {
	c := New()

	got := c.Classify(Input{
		Path:   "utils/math.ts",
		Parsed: types.ParsedFile{Functions: decl("add")},
	})
	assert.Equal(t, types.ClassUnrelated, got.Classification)
}

func TestClassify_CoreLogicIsTheDefault(t *testing.T) {
	c := New()

	got := c.Classify(Input{
		Path: "services/billing.ts",
		Parsed: types.ParsedFile{
			Functions: decl("charge", "refund"),
			Classes:   decl("BillingService"),
		},
		InDegree:  1,
		OutDegree: 2,
		ASTScore:  0.4,
		LLMScore:  0.6,
	})
	assert.Equal(t, types.ClassCoreLogic, got.Classification)
}

func TestClassify_AnySignalAboveFloorAvoidsUnrelated(t *testing.T) {
	c := New()

	got := c.Classify(Input{Path: "services/billing.ts", LLMScore: 0.06})
	assert.NotEqual(t, types.ClassUnrelated, got.Classification)
}

func TestClassify_FlanScoreWithinUnitInterval(t *testing.T) {
	c := New()

	inputs := []Input{
		{Path: "main.ts", ExplicitEntry: true, ASTScore: 1},
		{Path: "x.ts"},
		{Path: "config.yaml", ASTScore: 0.5},
		{Path: "utils/a.ts", Parsed: types.ParsedFile{Functions: decl("f")}, InDegree: 9, ASTScore: 0.2},
	}
	for _, in := range inputs {
		got := c.Classify(in)
		assert.GreaterOrEqual(t, got.FlanScore, 0.0, in.Path)
		assert.LessOrEqual(t, got.FlanScore, 1.0, in.Path)
	}
}

func TestClassify_CustomFloor(t *testing.T) {
	c := New(WithUnrelatedFloor(0.5))

	got := c.Classify(Input{Path: "services/billing.ts", ASTScore: 0.3})
	assert.Equal(t, types.ClassUnrelated, got.Classification, "0.3 is below the raised floor")
}

func TestWorkflowPosition(t *testing.T) {
	c := New()

	up := c.Classify(Input{Path: "a.ts", OutDegree: 4, InDegree: 1, ASTScore: 0.2})
	assert.Equal(t, types.PositionUpstream, up.WorkflowPosition)

	down := c.Classify(Input{Path: "b.ts", OutDegree: 1, InDegree: 5, ASTScore: 0.2})
	assert.Equal(t, types.PositionDownstream, down.WorkflowPosition)

	balanced := c.Classify(Input{Path: "c.ts", OutDegree: 2, InDegree: 2, ASTScore: 0.2})
	assert.Equal(t, types.PositionUnknown, balanced.WorkflowPosition)

	isolated := c.Classify(Input{Path: "d.ts", ASTScore: 0.2})
	assert.Equal(t, types.PositionUnknown, isolated.WorkflowPosition)
}
