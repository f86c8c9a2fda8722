package parser

import (
	"strings"
	"unicode"

	sitter "github.com/tree-sitter/go-tree-sitter"

	"ctxrank/pkg/types"
)

// extractGo walks a Go source file. Capitalized declarations are exports.
func extractGo(root *sitter.Node, source []byte) types.ParsedFile {
	var out types.ParsedFile
	walkGo(root, source, &out)
	return out
}

func walkGo(node *sitter.Node, source []byte, out *types.ParsedFile) {
	if node == nil {
		return
	}

	switch node.Kind() {
	case "function_declaration", "method_declaration":
		name := fieldText(node, "name", source)
		if name != "" {
			out.Functions = append(out.Functions, declFor(node, name))
			if goExported(name) {
				out.Exports = append(out.Exports, declFor(node, name))
			}
		}

	case "type_spec":
		name := fieldText(node, "name", source)
		if name != "" {
			out.Classes = append(out.Classes, declFor(node, name))
			if goExported(name) {
				out.Exports = append(out.Exports, declFor(node, name))
			}
		}

	case "import_declaration":
		goImportDecl(node, source, out)

	case "call_expression":
		if callee := fieldText(node, "function", source); callee != "" && len(callee) <= 128 {
			out.Calls = append(out.Calls, declFor(node, callee))
		}
	}

	for i := uint(0); i < node.ChildCount(); i++ {
		walkGo(node.Child(i), source, out)
	}
}

// goImportDecl handles both single and parenthesised import forms.
func goImportDecl(node *sitter.Node, source []byte, out *types.ParsedFile) {
	for i := uint(0); i < node.ChildCount(); i++ {
		ch := node.Child(i)
		if ch == nil {
			continue
		}
		switch ch.Kind() {
		case "import_spec":
			goImportSpec(ch, source, out)
		case "import_spec_list":
			for j := uint(0); j < ch.ChildCount(); j++ {
				spec := ch.Child(j)
				if spec != nil && spec.Kind() == "import_spec" {
					goImportSpec(spec, source, out)
				}
			}
		}
	}
}

func goImportSpec(spec *sitter.Node, source []byte, out *types.ParsedFile) {
	var alias, module string
	for i := uint(0); i < spec.ChildCount(); i++ {
		ch := spec.Child(i)
		if ch == nil {
			continue
		}
		switch ch.Kind() {
		case "package_identifier", "blank_identifier", "dot":
			alias = nodeText(ch, source)
		case "interpreted_string_literal", "raw_string_literal":
			module = strings.Trim(nodeText(ch, source), `"`+"`")
		}
	}
	if module == "" {
		return
	}
	out.Imports = append(out.Imports, types.Import{
		Module: module,
		Alias:  alias,
		Line:   int(spec.StartPosition().Row) + 1,
	})
}

func goExported(name string) bool {
	for _, r := range name {
		return unicode.IsUpper(r)
	}
	return false
}
