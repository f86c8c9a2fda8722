package graph

import (
	"path"
	"sort"
	"strings"

	"ctxrank/pkg/types"
)

// candidate suffixes tried when a specifier has no extension, in priority
// order. Mirrors Node-style resolution plus the other supported languages.
var resolveSuffixes = []string{
	"", ".ts", ".tsx", ".js", ".jsx", ".mjs", ".cjs", ".py", ".go",
	"/index.ts", "/index.tsx", "/index.js", "/index.jsx",
}

// Graph is a directed import graph: an edge a→b means file a imports file b.
type Graph struct {
	out map[string]map[string]bool
	in  map[string]map[string]bool
}

// Build resolves every import of every parsed file against the file set and
// returns the resulting graph. Unresolved imports are skipped.
func Build(files []types.SourceFile, parsed map[string]types.ParsedFile) *Graph {
	g := &Graph{
		out: make(map[string]map[string]bool, len(files)),
		in:  make(map[string]map[string]bool, len(files)),
	}

	known := make(map[string]string, len(files)) // normalized -> original path
	for _, f := range files {
		known[normalize(f.Path)] = f.Path
	}

	for _, f := range files {
		pf, ok := parsed[f.Path]
		if !ok {
			continue
		}
		for _, imp := range pf.Imports {
			target, ok := resolve(f.Path, imp.Module, known)
			if !ok || target == f.Path {
				continue
			}
			g.addEdge(f.Path, target)
		}
	}

	return g
}

func (g *Graph) addEdge(from, to string) {
	if g.out[from] == nil {
		g.out[from] = make(map[string]bool)
	}
	if g.in[to] == nil {
		g.in[to] = make(map[string]bool)
	}
	g.out[from][to] = true
	g.in[to][from] = true
}

// OutDegree is the number of distinct files a file imports.
func (g *Graph) OutDegree(path string) int { return len(g.out[path]) }

// InDegree is the number of distinct files importing a file.
func (g *Graph) InDegree(path string) int { return len(g.in[path]) }

// Importers returns the paths that import the given file, sorted.
func (g *Graph) Importers(path string) []string { return sortedKeys(g.in[path]) }

// Imports returns the paths the given file imports, sorted.
func (g *Graph) Imports(path string) []string { return sortedKeys(g.out[path]) }

// resolve maps an import specifier to a path in the file set.
func resolve(fromPath, specifier string, known map[string]string) (string, bool) {
	if specifier == "" {
		return "", false
	}

	var base string
	switch {
	case strings.HasPrefix(specifier, "./") || strings.HasPrefix(specifier, "../"):
		base = path.Join(path.Dir(normalize(fromPath)), specifier)
	case strings.Contains(specifier, ".") && !strings.Contains(specifier, "/"):
		// dotted module path (Python): auth.utils -> auth/utils
		base = strings.ReplaceAll(specifier, ".", "/")
	default:
		// Bare specifiers only resolve when they name a project file, e.g.
		// "auth/login" in rootless TypeScript configs.
		base = normalize(specifier)
	}

	for _, suffix := range resolveSuffixes {
		if original, ok := known[base+suffix]; ok {
			return original, true
		}
	}
	return "", false
}

func normalize(p string) string {
	return path.Clean(strings.ReplaceAll(p, "\\", "/"))
}

func sortedKeys(set map[string]bool) []string {
	keys := make([]string, 0, len(set))
	for k := range set {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
