// Package graph builds a directed dependency graph over an in-memory file
// set by resolving import specifiers to file paths.
//
// Resolution is purely lexical: relative specifiers are joined against the
// importing file's directory and matched against the supplied paths with the
// usual extension and index-file candidates. Imports that do not resolve to
// a file in the set (bare package names, stdlib modules) are skipped
// silently: no edge is added and no error is reported.
//
// The graph feeds the classifier's in/out-degree heuristics only; it is
// rebuilt for every analysis run and never persisted.
package graph
