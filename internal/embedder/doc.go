// Package embedder provides the embedding capability behind the semantic
// relevance signal: turn a piece of text into a vector, or report that no
// provider is reachable.
//
// Provider selection follows the environment:
//
//  1. If CTXRANK_EMBEDDING_PROVIDER is set, use that provider.
//  2. Else if JINA_API_KEY is set, use Jina AI.
//  3. Else if OPENAI_API_KEY is set, use OpenAI.
//  4. Else fall back to the deterministic local provider (offline mode).
//
// Provider failure is a status, never a panic: callers treat an Embed error
// as "no semantic signal for this text" and continue with the remaining
// signals.
package embedder
