package postfeed

import (
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Client operations as they appear in the "operation" label and the "op" log field.
const (
	opFeed       = "feed"
	opSearch     = "search"
	opCreatePost = "create_post"
	opAddComment = "add_comment"
	opPing       = "ping"
	opHealth     = "health"
)

// Outcomes in the "status" label.
const (
	statusOK          = "ok"
	statusRejected    = "rejected"    // empty query, blank post, malformed search syntax
	statusUnavailable = "unavailable" // store unreachable or timed out
	statusError       = "error"
)

// sdkMetrics counts feed and search calls made through an embedded Client.
type sdkMetrics struct {
	operations *prometheus.CounterVec
	duration   *prometheus.HistogramVec
}

func newSDKMetrics(reg prometheus.Registerer) (*sdkMetrics, error) {
	m := &sdkMetrics{
		operations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "postfeed",
			Subsystem: "sdk",
			Name:      "operations_total",
			Help:      "Embedded feed client calls by operation and outcome.",
		}, []string{"operation", "status"}),
		duration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "postfeed",
			Subsystem: "sdk",
			Name:      "operation_duration_seconds",
			Help:      "Embedded feed client call latency by operation.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"operation"}),
	}
	if err := registerOrReuse(reg, &m.operations); err != nil {
		return nil, err
	}
	if err := registerOrReuse(reg, &m.duration); err != nil {
		return nil, err
	}
	return m, nil
}

// registerOrReuse lets several Clients share one registry.
func registerOrReuse[T prometheus.Collector](reg prometheus.Registerer, c *T) error {
	if err := reg.Register(*c); err != nil {
		var are prometheus.AlreadyRegisteredError
		if errors.As(err, &are) {
			existing, ok := are.ExistingCollector.(T)
			if !ok {
				return fmt.Errorf("postfeed: metric already registered with incompatible type: %T", are.ExistingCollector)
			}
			*c = existing
			return nil
		}
		return fmt.Errorf("postfeed: register metric: %w", err)
	}
	return nil
}

// outcome classifies a client call result for the status label.
func outcome(err error) string {
	switch {
	case err == nil:
		return statusOK
	case errors.Is(err, ErrInvalidInput), errors.Is(err, ErrMalformedQuery):
		return statusRejected
	case errors.Is(err, ErrStoreUnavailable):
		return statusUnavailable
	default:
		return statusError
	}
}

// observer records each feed, search and write call. A nil observer, or one
// without logger or registry, skips that half.
type observer struct {
	logger  *slog.Logger
	metrics *sdkMetrics
}

func newObserver(logger *slog.Logger, reg prometheus.Registerer) (*observer, error) {
	var m *sdkMetrics
	if reg != nil {
		var err error
		m, err = newSDKMetrics(reg)
		if err != nil {
			return nil, err
		}
	}
	return &observer{logger: logger, metrics: m}, nil
}

func (o *observer) observe(op string, start time.Time, err error) {
	if o == nil {
		return
	}
	dur := time.Since(start)
	status := outcome(err)

	if o.metrics != nil {
		o.metrics.operations.WithLabelValues(op, status).Inc()
		o.metrics.duration.WithLabelValues(op).Observe(dur.Seconds())
	}

	if o.logger == nil {
		return
	}
	switch status {
	case statusOK:
		o.logger.Debug("feed operation completed", "op", op, "duration", dur)
	case statusRejected:
		// Caller input, not a client fault.
		o.logger.Debug("feed operation rejected", "op", op, "duration", dur, "error", err)
	default:
		o.logger.Warn("feed operation failed", "op", op, "status", status, "duration", dur, "error", err)
	}
}
