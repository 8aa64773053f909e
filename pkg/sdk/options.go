package postfeed

import (
	"log/slog"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/kailas-cloud/postfeed/internal/backend"
)

// Option configures the Client.
type Option interface {
	apply(*clientConfig)
}

// optionFunc adapts a function to the Option interface.
type optionFunc func(*clientConfig)

func (f optionFunc) apply(c *clientConfig) { f(c) }

type clientConfig struct {
	backend          backend.Config
	readinessTimeout time.Duration
	maxConcurrency   int

	logger     *slog.Logger
	metricsReg prometheus.Registerer
}

// WithRedis stores posts and comments in Redis 8 (or Redis Stack) with RediSearch.
func WithRedis(addr, password string) Option {
	return optionFunc(func(c *clientConfig) {
		c.backend.Driver = backend.DriverRedis
		c.backend.Addrs = []string{addr}
		c.backend.Password = password
	})
}

// WithKeyPrefix namespaces every Redis key. Default: "postfeed:".
func WithKeyPrefix(prefix string) Option {
	return optionFunc(func(c *clientConfig) {
		c.backend.KeyPrefix = prefix
	})
}

// WithMongo stores posts and comments in the given MongoDB database.
func WithMongo(uri, database string) Option {
	return optionFunc(func(c *clientConfig) {
		c.backend.Driver = backend.DriverMongo
		c.backend.URI = uri
		c.backend.Database = database
	})
}

// WithPostgres stores posts and comments in PostgreSQL.
func WithPostgres(dsn string) Option {
	return optionFunc(func(c *clientConfig) {
		c.backend.Driver = backend.DriverPostgres
		c.backend.DSN = dsn
	})
}

// WithTextLanguage sets the stemming language of the text indexes. Default: "english".
func WithTextLanguage(lang string) Option {
	return optionFunc(func(c *clientConfig) {
		c.backend.Language = lang
	})
}

// WithMaxHits bounds how many matches one relevance search returns per collection.
// Default: 10000.
func WithMaxHits(n int) Option {
	return optionFunc(func(c *clientConfig) {
		c.backend.MaxHits = n
	})
}

// WithMaxConcurrency caps concurrent per-post comment fetches in Feed. 0 means unbounded.
func WithMaxConcurrency(n int) Option {
	return optionFunc(func(c *clientConfig) {
		c.maxConcurrency = n
	})
}

// WithReadinessTimeout bounds how long New waits for the database. Default: 10s.
func WithReadinessTimeout(d time.Duration) Option {
	return optionFunc(func(c *clientConfig) {
		c.readinessTimeout = d
	})
}

// WithLogger enables structured logging for SDK operations.
// Pass nil to disable (default). Uses standard library slog.
func WithLogger(l *slog.Logger) Option {
	return optionFunc(func(c *clientConfig) {
		c.logger = l
	})
}

// WithPrometheus registers SDK metrics (operation counts and durations)
// on the given registerer. Pass nil to disable (default).
func WithPrometheus(reg prometheus.Registerer) Option {
	return optionFunc(func(c *clientConfig) {
		c.metricsReg = reg
	})
}
