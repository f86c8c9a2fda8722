// Package scorer computes the three independent per-file relevance signals:
// structural (symbol-name overlap with parsed declarations), syntax (literal
// and fuzzy text matching against path and content), and semantic (embedding
// cosine similarity, cache-first). Each signal is a pure function of its
// inputs and yields a score in [0, 1].
package scorer
