package comment

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/kailas-cloud/postfeed/internal/db"
	"github.com/kailas-cloud/postfeed/internal/domain"
	domcomment "github.com/kailas-cloud/postfeed/internal/domain/comment"
	"github.com/kailas-cloud/postfeed/internal/domain/search/hit"
)

// fetchBatchSize bounds how many hashes one pipelined HGETALL round-trip reads.
const fetchBatchSize = 1000

// store is the consumer interface for comments (ISP).
type store interface {
	HSet(ctx context.Context, key string, fields map[string]string) error
	HGetAllMulti(ctx context.Context, keys []string) ([]map[string]string, error)
	Incr(ctx context.Context, key string) (int64, error)
	ZAdd(ctx context.Context, key string, score int64, member string) error
	ZRevMembers(ctx context.Context, key string) ([]string, error)
	CreateIndex(ctx context.Context, def *db.IndexDefinition) error
	IndexExists(ctx context.Context, name string) (bool, error)
	SearchText(ctx context.Context, q *db.TextQuery) (*db.SearchResult, error)
}

// Repo stores comments as Redis hashes indexed for full-text search.
// Each post has a sorted set of its comment ids scored by insertion sequence.
type Repo struct {
	store    store
	prefix   string
	language string
	maxHits  int
	now      func() time.Time
}

// New creates a comment repository. prefix namespaces every key (e.g. "postfeed:").
func New(s store, prefix, language string, maxHits int) *Repo {
	return &Repo{store: s, prefix: prefix, language: language, maxHits: maxHits, now: time.Now}
}

// Insert assigns an id, creation time and insertion sequence, then stores the comment.
func (r *Repo) Insert(ctx context.Context, c *domcomment.Comment) (domcomment.Comment, error) {
	seq, err := r.store.Incr(ctx, r.seqKey())
	if err != nil {
		return domcomment.Comment{}, unavailable("next comment sequence", err)
	}

	stored := domcomment.Reconstruct(
		uuid.NewString(), c.PostID(), c.Content(), c.Author(),
		r.now().UTC().Truncate(time.Millisecond),
	)
	// The listing entry goes first; an id without a hash is skipped when listing.
	if err := r.store.ZAdd(ctx, r.listKey(stored.PostID()), seq, stored.ID()); err != nil {
		return domcomment.Comment{}, unavailable("list comment", err)
	}
	if err := r.store.HSet(ctx, r.key(stored.ID()), buildHashFields(&stored, seq)); err != nil {
		return domcomment.Comment{}, unavailable("hset comment", err)
	}
	return stored, nil
}

// ListByPost returns the comments of postID by createdAt desc, later insertion first on ties.
func (r *Repo) ListByPost(ctx context.Context, postID string) ([]domcomment.Comment, error) {
	ids, err := r.store.ZRevMembers(ctx, r.listKey(postID))
	if err != nil {
		return nil, unavailable("list comments", err)
	}

	records := make([]record, 0, len(ids))
	for start := 0; start < len(ids); start += fetchBatchSize {
		batch := ids[start:min(start+fetchBatchSize, len(ids))]
		keys := make([]string, len(batch))
		for i, id := range batch {
			keys[i] = r.key(id)
		}
		maps, err := r.store.HGetAllMulti(ctx, keys)
		if err != nil {
			return nil, unavailable("list comments", err)
		}
		for i, m := range maps {
			if len(m) == 0 {
				continue
			}
			records = append(records, parseHashFields(batch[i], m))
		}
	}

	sortNewestFirst(records)
	return commentsOf(records), nil
}

// Search runs a BM25 search over comment content, best score first.
func (r *Repo) Search(ctx context.Context, query string) ([]hit.Hit[domcomment.Comment], error) {
	res, err := r.store.SearchText(ctx, &db.TextQuery{
		IndexName: r.indexName(),
		Field:     fieldContent,
		Query:     query,
		TopK:      r.maxHits,
	})
	if err != nil {
		if errors.Is(err, db.ErrQuerySyntax) {
			return nil, fmt.Errorf("search comments: %w: %w", domain.ErrMalformedQuery, err)
		}
		return nil, unavailable("search comments", err)
	}

	hits := make([]hit.Hit[domcomment.Comment], 0, len(res.Entries))
	for _, e := range res.Entries {
		rec := parseHashFields(r.idFromKey(e.Key), e.Fields)
		hits = append(hits, hit.New(rec.comment, e.Score))
	}
	return hits, nil
}

// EnsureIndex creates the comment search index. An existing index is not an error.
func (r *Repo) EnsureIndex(ctx context.Context) error {
	def, err := buildIndex(r.indexName(), r.keyPrefix(), r.language)
	if err != nil {
		return fmt.Errorf("build comment index: %w", err)
	}
	if err := r.store.CreateIndex(ctx, def); err != nil && !errors.Is(err, db.ErrIndexExists) {
		return unavailable("create comment index", err)
	}
	return nil
}

// IndexReady reports whether the comment search index exists.
func (r *Repo) IndexReady(ctx context.Context) (bool, error) {
	ok, err := r.store.IndexExists(ctx, r.indexName())
	if err != nil {
		return false, unavailable("comment index info", err)
	}
	return ok, nil
}

func (r *Repo) keyPrefix() string { return r.prefix + "comment:" }

func (r *Repo) key(id string) string { return r.keyPrefix() + id }

func (r *Repo) indexName() string { return r.prefix + "comment:idx" }

func (r *Repo) seqKey() string { return r.prefix + "seq:comment" }

// listKey is outside the "comment:" index prefix, so the set is never indexed.
func (r *Repo) listKey(postID string) string { return r.prefix + "post-comments:" + postID }

func (r *Repo) idFromKey(key string) string { return strings.TrimPrefix(key, r.keyPrefix()) }

func unavailable(op string, err error) error {
	return fmt.Errorf("%s: %w: %w", op, domain.ErrStoreUnavailable, err)
}
