package health

import "context"

// DBPinger checks database availability.
type DBPinger interface {
	Ping(ctx context.Context) error
}

// IndexChecker reports whether the text indexes used by search exist.
type IndexChecker interface {
	IndexesReady(ctx context.Context) (bool, error)
}
