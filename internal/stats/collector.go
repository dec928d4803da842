// Package stats provides a unified interface for collecting metrics.
package stats

// Metric names used throughout the service.
const (
	// Cloud evaluation client.
	MetricEvalRequests    = "replaylens_cloud_eval_requests_total"
	MetricEvalUnavailable = "replaylens_cloud_eval_unavailable_total"
	MetricEvalRateLimited = "replaylens_cloud_eval_rate_limited_total"
	MetricEvalErrors      = "replaylens_cloud_eval_errors_total"
	MetricEvalRetries     = "replaylens_cloud_eval_retries_total"
	MetricEvalDuration    = "replaylens_cloud_eval_duration_seconds"

	// Evaluation cache.
	MetricCacheHits   = "replaylens_eval_cache_hits_total"
	MetricCacheMisses = "replaylens_eval_cache_misses_total"
	MetricCacheSize   = "replaylens_eval_cache_size"

	// Game fetching.
	MetricGameFetches       = "replaylens_game_fetches_total"
	MetricGameFetchFailures = "replaylens_game_fetch_failures_total"

	// Analysis pipeline.
	MetricAnalyses         = "replaylens_analyses_total"
	MetricAnalysisFailures = "replaylens_analysis_failures_total"
	MetricAnalysisDuration = "replaylens_analysis_duration_seconds"
)

// Collector defines the interface for collecting metrics.
type Collector interface {
	// IncCounter increments a counter metric by delta.
	IncCounter(name string, delta int64)

	// SetGauge sets a gauge metric to value.
	SetGauge(name string, value int64)

	// ObserveHistogram records a value in a histogram metric.
	ObserveHistogram(name string, value float64)
}
