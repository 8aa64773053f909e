package backend

import (
	"context"
	"fmt"
)

type indexOwner interface {
	EnsureIndex(ctx context.Context) error
	IndexReady(ctx context.Context) (bool, error)
}

// redisLifecycle owns the shared Redis store; the FT indexes belong to the repositories.
type redisLifecycle struct {
	store interface {
		Ping(ctx context.Context) error
		Close()
	}
	indexes []indexOwner
}

var _ Lifecycle = (*redisLifecycle)(nil)

func (l *redisLifecycle) Ping(ctx context.Context) error {
	if err := l.store.Ping(ctx); err != nil {
		return fmt.Errorf("redis: %w", err)
	}
	return nil
}

func (l *redisLifecycle) EnsureIndexes(ctx context.Context) error {
	for _, idx := range l.indexes {
		if err := idx.EnsureIndex(ctx); err != nil {
			return err
		}
	}
	return nil
}

func (l *redisLifecycle) IndexesReady(ctx context.Context) (bool, error) {
	for _, idx := range l.indexes {
		ok, err := idx.IndexReady(ctx)
		if err != nil || !ok {
			return false, err
		}
	}
	return true, nil
}

func (l *redisLifecycle) Close() { l.store.Close() }
