package redis

import (
	"context"
	"strconv"

	"github.com/kailas-cloud/postfeed/internal/db"
)

// Incr atomically increments a counter and returns the new value.
func (s *Store) Incr(ctx context.Context, key string) (int64, error) {
	cmd := s.b().Incr().Key(key).Build()
	n, err := s.do(ctx, cmd).AsInt64()
	if err != nil {
		return 0, &db.Error{Op: db.OpIncr, Err: err}
	}
	return n, nil
}

// ZAdd adds member to the sorted set at key with the given score.
func (s *Store) ZAdd(ctx context.Context, key string, score int64, member string) error {
	cmd := s.b().Arbitrary("ZADD").Keys(key).Args(strconv.FormatInt(score, 10), member).Build()
	if err := s.do(ctx, cmd).Error(); err != nil {
		return &db.Error{Op: db.OpZAdd, Err: err}
	}
	return nil
}

// ZRevMembers returns every member of the sorted set at key, highest score first.
// A missing key yields an empty slice.
func (s *Store) ZRevMembers(ctx context.Context, key string) ([]string, error) {
	cmd := s.b().Arbitrary("ZRANGE").Keys(key).Args("0", "-1", "REV").Build()
	members, err := s.do(ctx, cmd).AsStrSlice()
	if err != nil {
		return nil, &db.Error{Op: db.OpZRange, Err: err}
	}
	return members, nil
}
