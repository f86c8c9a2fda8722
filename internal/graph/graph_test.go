package graph

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"ctxrank/pkg/types"
)

func fileSet(paths ...string) []types.SourceFile {
	files := make([]types.SourceFile, 0, len(paths))
	for _, p := range paths {
		files = append(files, types.NewSourceFile(p, "// "+p))
	}
	return files
}

func TestBuild_RelativeResolution(t *testing.T) {
	files := fileSet("src/main.ts", "src/auth/login.ts", "src/utils/hash.ts")
	parsed := map[string]types.ParsedFile{
		"src/main.ts": {Imports: []types.Import{
			{Module: "./auth/login"},
		}},
		"src/auth/login.ts": {Imports: []types.Import{
			{Module: "../utils/hash"},
		}},
	}

	g := Build(files, parsed)

	assert.Equal(t, []string{"src/auth/login.ts"}, g.Imports("src/main.ts"))
	assert.Equal(t, []string{"src/main.ts"}, g.Importers("src/auth/login.ts"))
	assert.Equal(t, 1, g.InDegree("src/utils/hash.ts"))
	assert.Equal(t, 0, g.OutDegree("src/utils/hash.ts"))
}

func TestBuild_IndexFileResolution(t *testing.T) {
	files := fileSet("src/app.ts", "src/auth/index.ts")
	parsed := map[string]types.ParsedFile{
		"src/app.ts": {Imports: []types.Import{{Module: "./auth"}}},
	}

	g := Build(files, parsed)
	assert.Equal(t, []string{"src/auth/index.ts"}, g.Imports("src/app.ts"))
}

func TestBuild_PythonDottedModules(t *testing.T) {
	files := fileSet("auth/utils.py", "app.py")
	parsed := map[string]types.ParsedFile{
		"app.py": {Imports: []types.Import{{Module: "auth.utils"}}},
	}

	g := Build(files, parsed)
	assert.Equal(t, []string{"auth/utils.py"}, g.Imports("app.py"))
}

func TestBuild_UnresolvedImportsSkipped(t *testing.T) {
	files := fileSet("src/main.ts")
	parsed := map[string]types.ParsedFile{
		"src/main.ts": {Imports: []types.Import{
			{Module: "react"},
			{Module: "./does/not/exist"},
			{Module: ""},
		}},
	}

	g := Build(files, parsed)
	assert.Equal(t, 0, g.OutDegree("src/main.ts"))
}

func TestBuild_SelfImportIgnored(t *testing.T) {
	files := fileSet("src/a.ts")
	parsed := map[string]types.ParsedFile{
		"src/a.ts": {Imports: []types.Import{{Module: "./a"}}},
	}

	g := Build(files, parsed)
	assert.Equal(t, 0, g.OutDegree("src/a.ts"))
	assert.Equal(t, 0, g.InDegree("src/a.ts"))
}

func TestBuild_DuplicateImportsSingleEdge(t *testing.T) {
	files := fileSet("src/a.ts", "src/b.ts")
	parsed := map[string]types.ParsedFile{
		"src/a.ts": {Imports: []types.Import{
			{Module: "./b"},
			{Module: "./b.ts"},
		}},
	}

	g := Build(files, parsed)
	assert.Equal(t, 1, g.OutDegree("src/a.ts"))
	assert.Equal(t, 1, g.InDegree("src/b.ts"))
}
