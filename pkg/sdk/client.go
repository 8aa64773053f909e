package postfeed

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/kailas-cloud/postfeed/internal/backend"
	"github.com/kailas-cloud/postfeed/internal/domain/comment"
	domfeed "github.com/kailas-cloud/postfeed/internal/domain/feed"
	"github.com/kailas-cloud/postfeed/internal/domain/post"
	feeduc "github.com/kailas-cloud/postfeed/internal/usecase/feed"
	healthuc "github.com/kailas-cloud/postfeed/internal/usecase/health"
	searchuc "github.com/kailas-cloud/postfeed/internal/usecase/search"
)

const (
	defaultReadinessTimeout = 10 * time.Second
	defaultKeyPrefix        = "postfeed:"
	defaultLanguage         = "english"
	defaultMaxHits          = 10000
)

// Internal interfaces, swapped for fakes in tests.
type feedUseCase interface {
	List(ctx context.Context) ([]domfeed.PostWithComments, error)
	CreatePost(ctx context.Context, content, author string) (post.Post, error)
	AddComment(ctx context.Context, postID, content, author string) (comment.Comment, error)
}

type searchUseCase interface {
	Search(ctx context.Context, query string) (domfeed.SearchResult, error)
}

// Client is the postfeed SDK entry point.
type Client struct {
	store     backend.Lifecycle
	feedSvc   feedUseCase
	searchSvc searchUseCase
	healthSvc healthUseCase
	obs       *observer
}

// New connects to the configured database, creates the text indexes and returns a Client.
// The provided context bounds the initial readiness check.
func New(ctx context.Context, opts ...Option) (*Client, error) {
	cfg := &clientConfig{readinessTimeout: defaultReadinessTimeout}
	for _, o := range opts {
		o.apply(cfg)
	}
	if cfg.backend.Driver == "" {
		return nil, errors.New("postfeed: database required (use WithRedis, WithMongo or WithPostgres)")
	}
	applyBackendDefaults(cfg)

	obs, err := newObserver(cfg.logger, cfg.metricsReg)
	if err != nil {
		return nil, err
	}

	store, err := backend.Connect(ctx, cfg.backend, zap.NewNop())
	if err != nil {
		return nil, fmt.Errorf("postfeed: database not ready: %w", err)
	}
	if err := store.EnsureIndexes(ctx); err != nil {
		store.Close()
		return nil, fmt.Errorf("postfeed: create text indexes: %w", err)
	}

	return wireClient(store, cfg, obs), nil
}

func applyBackendDefaults(cfg *clientConfig) {
	b := &cfg.backend
	if b.KeyPrefix == "" {
		b.KeyPrefix = defaultKeyPrefix
	}
	if b.Language == "" {
		b.Language = defaultLanguage
	}
	if b.MaxHits <= 0 {
		b.MaxHits = defaultMaxHits
	}
	if b.Database == "" {
		b.Database = "postfeed"
	}
	b.ReadinessTimeout = cfg.readinessTimeout
}

func wireClient(store *backend.Backend, cfg *clientConfig, obs *observer) *Client {
	return &Client{
		store:     store,
		feedSvc:   feeduc.New(store.Posts, store.Comments, cfg.maxConcurrency),
		searchSvc: searchuc.New(store.Posts, store.Comments),
		healthSvc: healthuc.New(store, store),
		obs:       obs,
	}
}

// Close releases all resources.
func (c *Client) Close() {
	if c.store != nil {
		c.store.Close()
	}
}

// Ping checks database connectivity.
func (c *Client) Ping(ctx context.Context) (err error) {
	start := time.Now()
	defer func() { c.obs.observe(opPing, start, err) }()

	if err = c.store.Ping(ctx); err != nil {
		return fmt.Errorf("ping: %w", err)
	}
	return nil
}
