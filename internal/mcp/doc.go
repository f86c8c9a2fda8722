// Package mcp exposes the relevance engine over the Model Context Protocol
// on stdio.
//
// Three tools are registered:
//
//   - search_context: load a project directory, rank its files against a
//     natural-language query, and return the keywordSearch result envelope.
//   - cache_status: report embedding cache record counts and configuration.
//   - clear_cache: drop every cached embedding record.
//
// File reading happens on this side of the protocol boundary; the engine
// itself only ever sees in-memory file contents.
package mcp
