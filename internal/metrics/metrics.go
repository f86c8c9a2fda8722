// Package metrics exposes Prometheus counters for engine activity.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// SearchesTotal counts engine search invocations.
	SearchesTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "ctxrank_searches_total",
		Help: "Number of search invocations started.",
	})

	// SearchesSuperseded counts searches discarded by a newer epoch.
	SearchesSuperseded = promauto.NewCounter(prometheus.CounterOpts{
		Name: "ctxrank_searches_superseded_total",
		Help: "Number of searches whose results were discarded because a newer search started.",
	})

	// ProviderCalls counts embedding provider invocations.
	ProviderCalls = promauto.NewCounter(prometheus.CounterOpts{
		Name: "ctxrank_embedding_provider_calls_total",
		Help: "Number of calls made to the embedding provider.",
	})

	// ProviderErrors counts failed embedding provider invocations.
	ProviderErrors = promauto.NewCounter(prometheus.CounterOpts{
		Name: "ctxrank_embedding_provider_errors_total",
		Help: "Number of embedding provider calls that returned an error.",
	})

	// CacheHits counts embedding cache hits, labeled by tier.
	CacheHits = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "ctxrank_embedding_cache_hits_total",
		Help: "Number of embedding cache hits.",
	}, []string{"tier"})

	// CacheMisses counts embedding cache misses.
	CacheMisses = promauto.NewCounter(prometheus.CounterOpts{
		Name: "ctxrank_embedding_cache_misses_total",
		Help: "Number of embedding cache misses.",
	})

	// SweepDeletions counts records removed by TTL sweeps.
	SweepDeletions = promauto.NewCounter(prometheus.CounterOpts{
		Name: "ctxrank_cache_sweep_deletions_total",
		Help: "Number of cache records deleted by TTL sweeps.",
	})
)
