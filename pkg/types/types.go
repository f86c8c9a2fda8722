package types

import (
	"crypto/sha256"
	"encoding/hex"
	"sort"
	"strings"
)

// SourceFile is a single input file for one analysis invocation. Contents are
// supplied by an external collaborator; the engine never touches the
// filesystem for them.
type SourceFile struct {
	Path        string
	Content     string
	ContentHash string
}

// NewSourceFile builds a SourceFile with its content hash precomputed.
func NewSourceFile(path, content string) SourceFile {
	return SourceFile{
		Path:        path,
		Content:     content,
		ContentHash: HashContent(content),
	}
}

// HashContent returns the hex-encoded SHA-256 digest of content. The digest
// is the cache-invalidation key for embeddings.
func HashContent(content string) string {
	sum := sha256.Sum256([]byte(content))
	return hex.EncodeToString(sum[:])
}

// HashProject returns an aggregate hash over an entire file set, used to
// shortcut whole-project cache hits. The hash is order-independent: files
// are sorted by path before digesting.
func HashProject(files []SourceFile) string {
	paths := make([]string, 0, len(files))
	byPath := make(map[string]string, len(files))
	for _, f := range files {
		paths = append(paths, f.Path)
		byPath[f.Path] = f.ContentHash
	}
	sort.Strings(paths)

	var b strings.Builder
	for _, p := range paths {
		b.WriteString(p)
		b.WriteString("\x00")
		b.WriteString(byPath[p])
		b.WriteString("\x00")
	}
	sum := sha256.Sum256([]byte(b.String()))
	return hex.EncodeToString(sum[:])
}

// Declaration is a named construct (function, class, export target) with its
// source span.
type Declaration struct {
	Name      string
	StartLine int
	EndLine   int
}

// Import is an import statement extracted from a source file.
type Import struct {
	// Module is the import specifier as written, e.g. "./auth/login" or
	// "react".
	Module string
	// Alias is the local binding name, when the language has one.
	Alias string
	Line  int
}

// ParsedFile holds the structural facts extracted from one source file.
// A zero ParsedFile is the well-defined result for unsupported or unparsable
// files: the file drops out of the structural signal but stays eligible for
// the syntax and semantic signals.
type ParsedFile struct {
	Functions []Declaration
	Classes   []Declaration
	Imports   []Import
	Exports   []Declaration
	Calls     []Declaration
}

// Empty reports whether the parse produced no structural facts at all.
func (p ParsedFile) Empty() bool {
	return len(p.Functions) == 0 && len(p.Classes) == 0 &&
		len(p.Imports) == 0 && len(p.Exports) == 0 && len(p.Calls) == 0
}

// SymbolNames returns the names of all functions, classes and exports,
// deduplicated, in declaration order.
func (p ParsedFile) SymbolNames() []string {
	seen := make(map[string]bool)
	names := make([]string, 0, len(p.Functions)+len(p.Classes)+len(p.Exports))
	add := func(decls []Declaration) {
		for _, d := range decls {
			if d.Name == "" || seen[d.Name] {
				continue
			}
			seen[d.Name] = true
			names = append(names, d.Name)
		}
	}
	add(p.Functions)
	add(p.Classes)
	add(p.Exports)
	return names
}
