package parser

import (
	"path/filepath"
	"sort"
	"strings"

	sitter "github.com/tree-sitter/go-tree-sitter"
	tree_sitter_go "github.com/tree-sitter/tree-sitter-go/bindings/go"
	tree_sitter_javascript "github.com/tree-sitter/tree-sitter-javascript/bindings/go"
	tree_sitter_python "github.com/tree-sitter/tree-sitter-python/bindings/go"
	tree_sitter_typescript "github.com/tree-sitter/tree-sitter-typescript/bindings/go"

	"ctxrank/pkg/types"
)

// extractor turns a parsed syntax tree into structural facts.
type extractor func(root *sitter.Node, source []byte) types.ParsedFile

// language bundles a grammar with its extractor and file extensions.
type language struct {
	grammar    *sitter.Language
	extract    extractor
	extensions []string
}

// Parser dispatches files to per-language tree-sitter extractors by
// extension lookup.
type Parser struct {
	languages  map[string]language
	extensions map[string]string // ".ts" -> "typescript"
}

// New builds a Parser with all built-in languages registered.
func New() *Parser {
	p := &Parser{
		languages:  make(map[string]language),
		extensions: make(map[string]string),
	}

	p.register("javascript", language{
		grammar:    sitter.NewLanguage(tree_sitter_javascript.Language()),
		extract:    extractJS,
		extensions: []string{".js", ".jsx", ".mjs", ".cjs"},
	})
	p.register("typescript", language{
		grammar:    sitter.NewLanguage(tree_sitter_typescript.LanguageTypescript()),
		extract:    extractJS,
		extensions: []string{".ts", ".mts", ".cts"},
	})
	p.register("tsx", language{
		grammar:    sitter.NewLanguage(tree_sitter_typescript.LanguageTSX()),
		extract:    extractJS,
		extensions: []string{".tsx"},
	})
	p.register("python", language{
		grammar:    sitter.NewLanguage(tree_sitter_python.Language()),
		extract:    extractPython,
		extensions: []string{".py"},
	})
	p.register("go", language{
		grammar:    sitter.NewLanguage(tree_sitter_go.Language()),
		extract:    extractGo,
		extensions: []string{".go"},
	})

	return p
}

func (p *Parser) register(id string, lang language) {
	p.languages[id] = lang
	for _, ext := range lang.extensions {
		p.extensions[strings.ToLower(ext)] = id
	}
}

// Language returns the language id for a path, or "" when unsupported.
func (p *Parser) Language(path string) string {
	return p.extensions[strings.ToLower(filepath.Ext(path))]
}

// Supports reports whether a structural parse is available for the path.
func (p *Parser) Supports(path string) bool {
	return p.Language(path) != ""
}

// SupportedExtensions lists registered extensions, sorted.
func (p *Parser) SupportedExtensions() []string {
	exts := make([]string, 0, len(p.extensions))
	for ext := range p.extensions {
		exts = append(exts, ext)
	}
	sort.Strings(exts)
	return exts
}

// Parse extracts structural facts from one file. It never fails: unsupported
// extensions and unparsable content produce an empty ParsedFile.
func (p *Parser) Parse(path, content string) types.ParsedFile {
	id := p.Language(path)
	if id == "" {
		return types.ParsedFile{}
	}
	lang := p.languages[id]

	tsp := sitter.NewParser()
	defer tsp.Close()
	if err := tsp.SetLanguage(lang.grammar); err != nil {
		return types.ParsedFile{}
	}

	source := []byte(content)
	tree := tsp.Parse(source, nil)
	if tree == nil {
		return types.ParsedFile{}
	}
	defer tree.Close()

	root := tree.RootNode()
	if root == nil {
		return types.ParsedFile{}
	}

	return lang.extract(root, source)
}

// nodeText returns the trimmed source bytes spanned by a node.
func nodeText(node *sitter.Node, source []byte) string {
	if node == nil {
		return ""
	}
	start, end := node.StartByte(), node.EndByte()
	if start >= end || end > uint(len(source)) {
		return ""
	}
	return strings.TrimSpace(string(source[start:end]))
}

// declFor builds a Declaration from a node and its name.
func declFor(node *sitter.Node, name string) types.Declaration {
	return types.Declaration{
		Name:      name,
		StartLine: int(node.StartPosition().Row) + 1,
		EndLine:   int(node.EndPosition().Row) + 1,
	}
}

// fieldText resolves a named field child to its text.
func fieldText(node *sitter.Node, field string, source []byte) string {
	return nodeText(node.ChildByFieldName(field), source)
}
