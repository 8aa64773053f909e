// Package backend assembles the post and comment repositories for the configured database.
package backend

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/kailas-cloud/postfeed/internal/db"
	dbRedis "github.com/kailas-cloud/postfeed/internal/db/redis"
	commentrepo "github.com/kailas-cloud/postfeed/internal/repository/comment"
	"github.com/kailas-cloud/postfeed/internal/repository/mongodb"
	"github.com/kailas-cloud/postfeed/internal/repository/pgsql"
	postrepo "github.com/kailas-cloud/postfeed/internal/repository/post"
	feeduc "github.com/kailas-cloud/postfeed/internal/usecase/feed"
	searchuc "github.com/kailas-cloud/postfeed/internal/usecase/search"
)

// Supported drivers.
const (
	DriverRedis    = "redis"
	DriverMongo    = "mongo"
	DriverPostgres = "postgres"
)

// Config selects and configures the backend.
type Config struct {
	Driver string

	// redis
	Addrs     []string
	Password  string
	KeyPrefix string

	// mongo
	URI      string
	Database string

	// postgres
	DSN string

	Language string
	MaxHits  int

	ReadinessTimeout time.Duration // 0 = retry until ctx is done
	RetryInterval    time.Duration
}

// Lifecycle is the managed part of a backend: readiness, index provisioning, teardown.
type Lifecycle interface {
	Ping(ctx context.Context) error
	EnsureIndexes(ctx context.Context) error
	IndexesReady(ctx context.Context) (bool, error)
	Close()
}

// Posts is everything the use cases need from post storage.
type Posts interface {
	feeduc.PostRepository
	searchuc.PostSearcher
}

// Comments is everything the use cases need from comment storage.
type Comments interface {
	feeduc.CommentRepository
	searchuc.CommentSearcher
}

// Backend bundles a store with its repositories.
type Backend struct {
	Lifecycle
	Posts    Posts
	Comments Comments
}

// Open constructs the backend for cfg.Driver. It does not wait for the server.
func Open(cfg Config) (*Backend, error) {
	switch cfg.Driver {
	case DriverRedis, "":
		store, err := dbRedis.NewStore(dbRedis.Config{Addrs: cfg.Addrs, Password: cfg.Password})
		if err != nil {
			return nil, fmt.Errorf("redis store: %w", err)
		}
		posts := postrepo.New(store, cfg.KeyPrefix, cfg.Language, cfg.MaxHits)
		comments := commentrepo.New(store, cfg.KeyPrefix, cfg.Language, cfg.MaxHits)
		return &Backend{
			Lifecycle: &redisLifecycle{store: store, indexes: []indexOwner{posts, comments}},
			Posts:     posts,
			Comments:  comments,
		}, nil

	case DriverMongo:
		store, err := mongodb.Open(mongodb.Config{
			URI:      cfg.URI,
			Database: cfg.Database,
			Language: cfg.Language,
			MaxHits:  cfg.MaxHits,
		})
		if err != nil {
			return nil, fmt.Errorf("mongo store: %w", err)
		}
		return &Backend{Lifecycle: store, Posts: store.Posts(), Comments: store.Comments()}, nil

	case DriverPostgres:
		store, err := pgsql.Open(pgsql.Config{DSN: cfg.DSN, Language: cfg.Language, MaxHits: cfg.MaxHits})
		if err != nil {
			return nil, fmt.Errorf("postgres store: %w", err)
		}
		return &Backend{Lifecycle: store, Posts: store.Posts(), Comments: store.Comments()}, nil

	default:
		return nil, fmt.Errorf("unknown database driver %q", cfg.Driver)
	}
}

// Connect opens the backend and waits until it answers. Both steps are retried with
// cfg.RetryInterval until cfg.ReadinessTimeout elapses.
func Connect(ctx context.Context, cfg Config, log *zap.Logger) (*Backend, error) {
	return connect(ctx, cfg, log, Open)
}

func connect(ctx context.Context, cfg Config, log *zap.Logger, open func(Config) (*Backend, error)) (*Backend, error) {
	switch cfg.Driver {
	case DriverRedis, DriverMongo, DriverPostgres, "":
	default:
		return nil, fmt.Errorf("unknown database driver %q", cfg.Driver)
	}

	var b *Backend
	ping := db.PingerFunc(func(ctx context.Context) error {
		if b == nil {
			opened, err := open(cfg)
			if err != nil {
				return err
			}
			b = opened
		}
		return b.Ping(ctx)
	})

	if err := db.WaitForReady(ctx, ping, cfg.ReadinessTimeout, cfg.RetryInterval, log); err != nil {
		if b != nil {
			b.Close()
		}
		return nil, err
	}
	return b, nil
}
