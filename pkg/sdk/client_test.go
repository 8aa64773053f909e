package postfeed

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"

	"github.com/kailas-cloud/postfeed/internal/backend"
	domfeed "github.com/kailas-cloud/postfeed/internal/domain/feed"
	healthuc "github.com/kailas-cloud/postfeed/internal/usecase/health"
)

func TestNew_NoDatabase(t *testing.T) {
	_, err := New(context.Background())
	if err == nil || !strings.Contains(err.Error(), "database required") {
		t.Fatalf("expected database required error, got %v", err)
	}
}

func TestClientOptions(t *testing.T) {
	cfg := &clientConfig{}
	reg := prometheus.NewRegistry()
	logger := slog.Default()

	for _, o := range []Option{
		WithRedis("localhost:6379", "secret"),
		WithKeyPrefix("test:"),
		WithTextLanguage("german"),
		WithMaxHits(50),
		WithMaxConcurrency(4),
		WithReadinessTimeout(time.Second),
		WithLogger(logger),
		WithPrometheus(reg),
	} {
		o.apply(cfg)
	}

	if cfg.backend.Driver != backend.DriverRedis || cfg.backend.Addrs[0] != "localhost:6379" {
		t.Errorf("redis option not applied: %+v", cfg.backend)
	}
	if cfg.backend.Password != "secret" || cfg.backend.KeyPrefix != "test:" {
		t.Errorf("password/prefix not applied: %+v", cfg.backend)
	}
	if cfg.backend.Language != "german" || cfg.backend.MaxHits != 50 {
		t.Errorf("search options not applied: %+v", cfg.backend)
	}
	if cfg.maxConcurrency != 4 || cfg.readinessTimeout != time.Second {
		t.Errorf("maxConcurrency=%d readiness=%v", cfg.maxConcurrency, cfg.readinessTimeout)
	}
	if cfg.logger != logger || cfg.metricsReg != reg {
		t.Error("logger/prometheus not applied")
	}
}

func TestDriverOptions_LastWins(t *testing.T) {
	cfg := &clientConfig{}
	WithRedis("localhost:6379", "").apply(cfg)
	WithMongo("mongodb://localhost:27017", "feed").apply(cfg)
	if cfg.backend.Driver != backend.DriverMongo || cfg.backend.URI == "" || cfg.backend.Database != "feed" {
		t.Errorf("mongo option not applied: %+v", cfg.backend)
	}

	WithPostgres("postgres://localhost/feed").apply(cfg)
	if cfg.backend.Driver != backend.DriverPostgres || cfg.backend.DSN != "postgres://localhost/feed" {
		t.Errorf("postgres option not applied: %+v", cfg.backend)
	}
}

func TestApplyBackendDefaults(t *testing.T) {
	cfg := &clientConfig{readinessTimeout: 3 * time.Second}
	applyBackendDefaults(cfg)

	b := cfg.backend
	if b.KeyPrefix != defaultKeyPrefix || b.Language != defaultLanguage || b.MaxHits != defaultMaxHits {
		t.Errorf("defaults not applied: %+v", b)
	}
	if b.ReadinessTimeout != 3*time.Second {
		t.Errorf("ReadinessTimeout = %v", b.ReadinessTimeout)
	}
}

func TestPing_ObservesOperation(t *testing.T) {
	reg := prometheus.NewRegistry()
	obs, err := newObserver(nil, reg)
	if err != nil {
		t.Fatalf("newObserver: %v", err)
	}

	store := &mockLifecycle{pingErr: errors.New("refused")}
	c := &Client{store: store, obs: obs}

	if err := c.Ping(context.Background()); err == nil {
		t.Fatal("expected ping error")
	}
	store.pingErr = nil
	if err := c.Ping(context.Background()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if got := testutil.ToFloat64(obs.metrics.operations.WithLabelValues("ping", "error")); got != 1 {
		t.Errorf("ping errors = %v, want 1", got)
	}
	if got := testutil.ToFloat64(obs.metrics.operations.WithLabelValues("ping", "ok")); got != 1 {
		t.Errorf("ping ok = %v, want 1", got)
	}
}

func TestOutcome(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want string
	}{
		{"nil", nil, statusOK},
		{"empty query", fmt.Errorf("search: %w", ErrInvalidInput), statusRejected},
		{"malformed query", fmt.Errorf("search: %w", ErrMalformedQuery), statusRejected},
		{"store down", fmt.Errorf("feed: %w", ErrStoreUnavailable), statusUnavailable},
		{"other", errors.New("boom"), statusError},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := outcome(tt.err); got != tt.want {
				t.Errorf("outcome() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestSearch_EmptyQueryCountsAsRejected(t *testing.T) {
	reg := prometheus.NewRegistry()
	obs, err := newObserver(nil, reg)
	if err != nil {
		t.Fatalf("newObserver: %v", err)
	}
	c := &Client{obs: obs, searchSvc: &mockSearchUC{
		searchFn: func(context.Context, string) (domfeed.SearchResult, error) {
			return domfeed.SearchResult{}, ErrInvalidInput
		},
	}}

	if _, err := c.Search(context.Background(), "  "); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput, got %v", err)
	}
	if got := testutil.ToFloat64(obs.metrics.operations.WithLabelValues(opSearch, statusRejected)); got != 1 {
		t.Errorf("rejected searches = %v, want 1", got)
	}
	if got := testutil.ToFloat64(obs.metrics.operations.WithLabelValues(opSearch, statusError)); got != 0 {
		t.Errorf("failed searches = %v, want 0", got)
	}
}

func TestClose(t *testing.T) {
	store := &mockLifecycle{}
	c := &Client{store: store}
	c.Close()
	if !store.closed {
		t.Error("Close must close the store")
	}
}

func TestNewObserver_ReusesRegisteredMetrics(t *testing.T) {
	reg := prometheus.NewRegistry()
	first, err := newObserver(nil, reg)
	if err != nil {
		t.Fatalf("first: %v", err)
	}
	second, err := newObserver(nil, reg)
	if err != nil {
		t.Fatalf("second: %v", err)
	}
	if first.metrics.operations != second.metrics.operations {
		t.Error("second observer must reuse the registered collector")
	}
}

func TestObserver_NilIsNoop(t *testing.T) {
	var o *observer
	o.observe("feed", time.Now(), nil)
}

func TestHealth(t *testing.T) {
	c := &Client{healthSvc: &mockHealthUC{report: healthuc.Report{
		Status: healthuc.Degraded,
		Checks: map[string]healthuc.CheckResult{"database": healthuc.CheckOK, "text_index": healthuc.CheckMissing},
	}}}

	h := c.Health(context.Background())
	if h.Status != "degraded" || h.Checks["text_index"] != "missing" {
		t.Errorf("Health() = %+v", h)
	}
}
