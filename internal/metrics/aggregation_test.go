package metrics

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestAddItems(t *testing.T) {
	before := testutil.ToFloat64(AggregationItemsTotal.WithLabelValues("search", KindDuplicate))

	AddItems("search", KindDuplicate, 3)
	AddItems("search", KindDuplicate, 0)
	AddItems("search", KindDuplicate, -1)

	after := testutil.ToFloat64(AggregationItemsTotal.WithLabelValues("search", KindDuplicate))
	if after-before != 3 {
		t.Errorf("expected +3, got %f", after-before)
	}
}

func TestObserveStage(t *testing.T) {
	ObserveStage("search", StageMerge, time.Now().Add(-10*time.Millisecond))

	if n := testutil.CollectAndCount(AggregationStageDuration); n == 0 {
		t.Error("expected aggregation_stage_duration_seconds to have series")
	}
}

func TestRegisterAggregationMetrics_Idempotent(t *testing.T) {
	RegisterAggregationMetrics()
	RegisterAggregationMetrics() // second call must not panic
}
