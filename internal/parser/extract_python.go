package parser

import (
	sitter "github.com/tree-sitter/go-tree-sitter"

	"ctxrank/pkg/types"
)

// extractPython walks a Python module. Module-level functions and classes
// are importable from outside, so they double as exports.
func extractPython(root *sitter.Node, source []byte) types.ParsedFile {
	var out types.ParsedFile
	walkPython(root, source, &out, 0)
	return out
}

func walkPython(node *sitter.Node, source []byte, out *types.ParsedFile, depth int) {
	if node == nil {
		return
	}

	switch node.Kind() {
	case "function_definition":
		name := fieldText(node, "name", source)
		if name != "" {
			out.Functions = append(out.Functions, declFor(node, name))
			if depth <= 1 {
				out.Exports = append(out.Exports, declFor(node, name))
			}
		}

	case "class_definition":
		name := fieldText(node, "name", source)
		if name != "" {
			out.Classes = append(out.Classes, declFor(node, name))
			if depth <= 1 {
				out.Exports = append(out.Exports, declFor(node, name))
			}
		}

	case "import_statement":
		pyImportStatement(node, source, out)

	case "import_from_statement":
		pyFromImportStatement(node, source, out)

	case "call":
		if callee := fieldText(node, "function", source); callee != "" && len(callee) <= 128 {
			out.Calls = append(out.Calls, declFor(node, callee))
		}
	}

	for i := uint(0); i < node.ChildCount(); i++ {
		walkPython(node.Child(i), source, out, depth+1)
	}
}

// pyImportStatement handles "import os" and "import sys as system".
func pyImportStatement(node *sitter.Node, source []byte, out *types.ParsedFile) {
	line := int(node.StartPosition().Row) + 1
	for i := uint(0); i < node.ChildCount(); i++ {
		ch := node.Child(i)
		if ch == nil {
			continue
		}
		switch ch.Kind() {
		case "dotted_name":
			out.Imports = append(out.Imports, types.Import{Module: nodeText(ch, source), Line: line})
		case "aliased_import":
			module, alias := pyAliasedImport(ch, source)
			if module != "" {
				out.Imports = append(out.Imports, types.Import{Module: module, Alias: alias, Line: line})
			}
		}
	}
}

// pyFromImportStatement handles "from auth.utils import login".
func pyFromImportStatement(node *sitter.Node, source []byte, out *types.ParsedFile) {
	line := int(node.StartPosition().Row) + 1
	for i := uint(0); i < node.ChildCount(); i++ {
		ch := node.Child(i)
		if ch == nil {
			continue
		}
		switch ch.Kind() {
		case "dotted_name", "relative_import":
			out.Imports = append(out.Imports, types.Import{Module: nodeText(ch, source), Line: line})
			return // only the "from" target is the module
		}
	}
}

func pyAliasedImport(node *sitter.Node, source []byte) (module, alias string) {
	for i := uint(0); i < node.ChildCount(); i++ {
		ch := node.Child(i)
		if ch == nil {
			continue
		}
		switch ch.Kind() {
		case "dotted_name":
			if module == "" {
				module = nodeText(ch, source)
			}
		case "identifier":
			alias = nodeText(ch, source)
		}
	}
	return
}
