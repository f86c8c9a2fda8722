// Package types provides shared type definitions for the ctxrank relevance
// engine.
//
// This package defines the domain types exchanged between the engine and its
// collaborators: source files going in, parsed structural facts flowing
// through the pipeline, and ranked, classified query results coming out.
//
// # Core Types
//
// SourceFile is the per-invocation input unit, carrying a path, the file
// content, and a content hash used as the cache-invalidation key:
//
//	file := types.NewSourceFile("auth/login.ts", content)
//
// ParsedFile holds the structural facts extracted by the language parsers:
//
//	parsed.Functions // named function declarations
//	parsed.Classes   // class / type declarations
//	parsed.Imports   // import statements with their module specifiers
//	parsed.Exports   // exported symbol names
//	parsed.Calls     // call sites
//
// QueryResult is the ranked output per file, combining the structural,
// semantic, syntax, and classifier signals:
//
//	result.FinalScore   // weighted combination in [0,1]
//	result.HasSynergy   // two or more independent signals agree
//	result.Classification
//
// All per-signal scores and FinalScore are guaranteed to lie in [0,1].
package types
