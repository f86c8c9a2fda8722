package parser

import (
	"strings"

	sitter "github.com/tree-sitter/go-tree-sitter"

	"ctxrank/pkg/types"
)

// extractJS handles JavaScript, TypeScript and TSX sources. The three
// grammars share the node kinds this walk relies on.
func extractJS(root *sitter.Node, source []byte) types.ParsedFile {
	var out types.ParsedFile
	walkJS(root, source, &out, false)
	return out
}

func walkJS(node *sitter.Node, source []byte, out *types.ParsedFile, exported bool) {
	if node == nil {
		return
	}

	switch node.Kind() {
	case "function_declaration", "generator_function_declaration":
		name := fieldText(node, "name", source)
		if name != "" {
			out.Functions = append(out.Functions, declFor(node, name))
			if exported {
				out.Exports = append(out.Exports, declFor(node, name))
			}
		}

	case "method_definition":
		name := fieldText(node, "name", source)
		if name != "" && name != "constructor" {
			out.Functions = append(out.Functions, declFor(node, name))
		}

	case "class_declaration":
		name := fieldText(node, "name", source)
		if name != "" {
			out.Classes = append(out.Classes, declFor(node, name))
			if exported {
				out.Exports = append(out.Exports, declFor(node, name))
			}
		}

	case "variable_declarator":
		// const login = () => {...} and friends count as functions.
		name := fieldText(node, "name", source)
		value := node.ChildByFieldName("value")
		if name != "" && value != nil {
			switch value.Kind() {
			case "arrow_function", "function_expression", "generator_function":
				out.Functions = append(out.Functions, declFor(node, name))
			}
			if exported {
				out.Exports = append(out.Exports, declFor(node, name))
			}
		}

	case "import_statement":
		if src := jsImportSource(node, source); src != "" {
			out.Imports = append(out.Imports, types.Import{
				Module: src,
				Alias:  jsImportBinding(node, source),
				Line:   int(node.StartPosition().Row) + 1,
			})
		}

	case "export_statement":
		jsExportStatement(node, source, out)
		return // children handled with the exported flag set

	case "call_expression":
		if callee := fieldText(node, "function", source); callee != "" && len(callee) <= 128 {
			out.Calls = append(out.Calls, declFor(node, callee))
		}
	}

	// The exported flag survives the declaration containers between an
	// export statement and its declarators.
	childExported := false
	switch node.Kind() {
	case "lexical_declaration", "variable_declaration":
		childExported = exported
	}
	for i := uint(0); i < node.ChildCount(); i++ {
		walkJS(node.Child(i), source, out, childExported)
	}
}

// jsExportStatement records exported names and recurses into any inline
// declaration with the exported flag.
func jsExportStatement(node *sitter.Node, source []byte, out *types.ParsedFile) {
	if decl := node.ChildByFieldName("declaration"); decl != nil {
		walkJS(decl, source, out, true)
		return
	}

	for i := uint(0); i < node.ChildCount(); i++ {
		ch := node.Child(i)
		if ch == nil {
			continue
		}
		switch ch.Kind() {
		case "export_clause":
			// export { login, validateToken as check }
			for j := uint(0); j < ch.ChildCount(); j++ {
				spec := ch.Child(j)
				if spec != nil && spec.Kind() == "export_specifier" {
					if name := fieldText(spec, "name", source); name != "" {
						out.Exports = append(out.Exports, declFor(spec, name))
					}
				}
			}
		case "identifier":
			// export default someName
			if name := nodeText(ch, source); name != "" {
				out.Exports = append(out.Exports, declFor(ch, name))
			}
		default:
			walkJS(ch, source, out, true)
		}
	}
}

// jsImportSource returns the module specifier of an import statement.
func jsImportSource(node *sitter.Node, source []byte) string {
	src := node.ChildByFieldName("source")
	if src == nil {
		return ""
	}
	return strings.Trim(nodeText(src, source), `"'`)
}

// jsImportBinding returns the default binding name, when present.
func jsImportBinding(node *sitter.Node, source []byte) string {
	for i := uint(0); i < node.ChildCount(); i++ {
		ch := node.Child(i)
		if ch != nil && ch.Kind() == "import_clause" {
			for j := uint(0); j < ch.ChildCount(); j++ {
				id := ch.Child(j)
				if id != nil && id.Kind() == "identifier" {
					return nodeText(id, source)
				}
			}
		}
	}
	return ""
}
