package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	once sync.Once

	// TranslateRequestsTotal counts translation requests by boundary and outcome.
	TranslateRequestsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "menu",
		Subsystem: "translate",
		Name:      "requests_total",
		Help:      "Total number of menu translation requests, labeled by source (http, telegram) and outcome.",
	}, []string{"source", "outcome"})

	// TranslateDurationSeconds is the end-to-end time of a translation request.
	TranslateDurationSeconds = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "menu",
		Subsystem: "translate",
		Name:      "duration_seconds",
		Help:      "End-to-end time to translate a menu, including image enrichment.",
		Buckets:   []float64{0.1, 0.5, 1, 2, 5, 10, 20, 40, 60, 120},
	}, []string{"source"})

	// LLMCostUSDTotal accumulates the estimated vision API cost.
	LLMCostUSDTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "menu",
		Subsystem: "llm",
		Name:      "cost_usd_total",
		Help:      "Estimated vision API spend in USD, from the static pricing table.",
	}, []string{"model"})

	// LLMTokensTotal counts tokens by model and direction (input, output).
	LLMTokensTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "menu",
		Subsystem: "llm",
		Name:      "tokens_total",
		Help:      "Vision API tokens, labeled by model and direction.",
	}, []string{"model", "direction"})

	// CacheLookupsTotal counts cache lookups by namespace and result (hit, miss).
	CacheLookupsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "menu",
		Subsystem: "cache",
		Name:      "lookups_total",
		Help:      "Memoization cache lookups, labeled by namespace and result.",
	}, []string{"namespace", "result"})

	// ImageSearchTotal counts per-dish image enrichment outcomes.
	ImageSearchTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "menu",
		Subsystem: "image_search",
		Name:      "dishes_total",
		Help:      "Per-dish image enrichment outcomes (found, placeholder, error).",
	}, []string{"result"})
)

// Register registers the collectors with the default Prometheus registry.
func Register() {
	once.Do(func() {
		prometheus.MustRegister(
			TranslateRequestsTotal,
			TranslateDurationSeconds,
			LLMCostUSDTotal,
			LLMTokensTotal,
			CacheLookupsTotal,
			ImageSearchTotal,
		)
	})
}

// ObserveCacheLookup records a cache lookup. It matches cache.LookupFunc.
func ObserveCacheLookup(namespace string, hit bool) {
	result := "miss"
	if hit {
		result = "hit"
	}
	CacheLookupsTotal.WithLabelValues(namespace, result).Inc()
}

// ObserveLLMUsage records token counts and cost for one vision call.
func ObserveLLMUsage(model string, inputTokens, outputTokens int64, costUSD float64) {
	LLMTokensTotal.WithLabelValues(model, "input").Add(float64(inputTokens))
	LLMTokensTotal.WithLabelValues(model, "output").Add(float64(outputTokens))
	LLMCostUSDTotal.WithLabelValues(model).Add(costUSD)
}
