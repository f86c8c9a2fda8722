// Package parser extracts structural facts from source files.
//
// Dispatch is a flat extension→language lookup over tree-sitter grammars,
// not a type hierarchy: each supported language registers its extensions and
// an extractor that walks the syntax tree into a types.ParsedFile.
//
// Parsing is total. Unsupported extensions and parse failures yield an empty
// ParsedFile rather than an error, so a single odd file never takes down an
// analysis run; the file simply drops out of the structural signal while
// remaining eligible for the syntax and semantic signals.
package parser
