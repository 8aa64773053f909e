package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Aggregation stages.
const (
	StageRelevance    = "relevance"     // twin post/comment searches
	StageParentLookup = "parent_lookup" // batched post lookup for matched comments
	StageMerge        = "merge"
	StageFanOut       = "fan_out" // per-post comment fetches of the feed
)

// Item kinds counted per aggregation.
const (
	KindDirectPost      = "direct_post"
	KindParentPost      = "parent_post"
	KindDuplicate       = "duplicate"
	KindOrphanedComment = "orphaned_comment"
	KindComment         = "comment"
)

// Aggregation Prometheus metrics.
var (
	AggregationStageDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "postfeed",
			Name:      "aggregation_stage_duration_seconds",
			Help:      "Duration of each aggregation stage in seconds",
			Buckets:   []float64{0.0005, 0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5},
		},
		[]string{"operation", "stage"},
	)

	AggregationItemsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "postfeed",
			Name:      "aggregation_items_total",
			Help:      "Items produced or dropped by aggregations, by kind",
		},
		[]string{"operation", "kind"},
	)
)

var aggMetricsRegistered bool

// RegisterAggregationMetrics registers Prometheus aggregation metrics. Must be called once from main.
func RegisterAggregationMetrics() {
	if aggMetricsRegistered {
		return
	}
	prometheus.MustRegister(AggregationStageDuration)
	prometheus.MustRegister(AggregationItemsTotal)
	aggMetricsRegistered = true
}

// ObserveStage records how long a stage took, measured from start.
func ObserveStage(operation, stage string, start time.Time) {
	AggregationStageDuration.WithLabelValues(operation, stage).Observe(time.Since(start).Seconds())
}

// AddItems counts n items of the given kind. Zero counts are skipped.
func AddItems(operation, kind string, n int) {
	if n <= 0 {
		return
	}
	AggregationItemsTotal.WithLabelValues(operation, kind).Add(float64(n))
}
