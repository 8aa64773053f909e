package post

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/kailas-cloud/postfeed/internal/db"
	"github.com/kailas-cloud/postfeed/internal/domain"
	dompost "github.com/kailas-cloud/postfeed/internal/domain/post"
	"github.com/kailas-cloud/postfeed/internal/domain/search/hit"
)

// fetchBatchSize bounds how many hashes one pipelined HGETALL round-trip reads.
const fetchBatchSize = 1000

// store is the consumer interface for posts (ISP).
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

// Repo stores posts as Redis hashes indexed for full-text search.
// A sorted set of ids scored by insertion sequence lists every post.
type Repo struct {
	store    store
	prefix   string
	language string
	maxHits  int
	now      func() time.Time
}

// New creates a post repository. prefix namespaces every key (e.g. "postfeed:").
func New(s store, prefix, language string, maxHits int) *Repo {
	return &Repo{store: s, prefix: prefix, language: language, maxHits: maxHits, now: time.Now}
}

// Insert assigns an id, creation time and insertion sequence, then stores the post.
func (r *Repo) Insert(ctx context.Context, p *dompost.Post) (dompost.Post, error) {
	seq, err := r.store.Incr(ctx, r.seqKey())
	if err != nil {
		return dompost.Post{}, unavailable("next post sequence", err)
	}

	stored := dompost.Reconstruct(uuid.NewString(), p.Content(), p.Author(), r.now().UTC().Truncate(time.Millisecond))
	// The listing entry goes first; an id without a hash is skipped when listing.
	if err := r.store.ZAdd(ctx, r.listKey(), seq, stored.ID()); err != nil {
		return dompost.Post{}, unavailable("list post", err)
	}
	if err := r.store.HSet(ctx, r.key(stored.ID()), buildHashFields(&stored, seq)); err != nil {
		return dompost.Post{}, unavailable("hset post", err)
	}
	return stored, nil
}

// ListNewestFirst reads every post id from the listing set, fetches the hashes in
// batches and sorts by createdAt desc, later insertion first on ties.
func (r *Repo) ListNewestFirst(ctx context.Context) ([]dompost.Post, error) {
	ids, err := r.store.ZRevMembers(ctx, r.listKey())
	if err != nil {
		return nil, unavailable("list posts", err)
	}

	records := make([]record, 0, len(ids))
	for start := 0; start < len(ids); start += fetchBatchSize {
		batch := ids[start:min(start+fetchBatchSize, len(ids))]
		found, err := r.fetch(ctx, batch)
		if err != nil {
			return nil, unavailable("list posts", err)
		}
		records = append(records, found...)
	}

	sortNewestFirst(records)
	return postsOf(records), nil
}

// Search runs a BM25 search over post content, best score first.
func (r *Repo) Search(ctx context.Context, query string) ([]hit.Hit[dompost.Post], error) {
	res, err := r.store.SearchText(ctx, &db.TextQuery{
		IndexName: r.indexName(),
		Field:     fieldContent,
		Query:     query,
		TopK:      r.maxHits,
	})
	if err != nil {
		if errors.Is(err, db.ErrQuerySyntax) {
			return nil, fmt.Errorf("search posts: %w: %w", domain.ErrMalformedQuery, err)
		}
		return nil, unavailable("search posts", err)
	}

	hits := make([]hit.Hit[dompost.Post], 0, len(res.Entries))
	for _, e := range res.Entries {
		rec := parseHashFields(r.idFromKey(e.Key), e.Fields)
		hits = append(hits, hit.New(rec.post, e.Score))
	}
	return hits, nil
}

// FindByIDs fetches posts in one round-trip, keeping the order of ids. Unknown ids are skipped.
func (r *Repo) FindByIDs(ctx context.Context, ids []string) ([]dompost.Post, error) {
	if len(ids) == 0 {
		return []dompost.Post{}, nil
	}
	records, err := r.fetch(ctx, ids)
	if err != nil {
		return nil, unavailable("find posts", err)
	}
	return postsOf(records), nil
}

// fetch reads the hashes of ids in one pipelined round-trip, skipping missing keys.
func (r *Repo) fetch(ctx context.Context, ids []string) ([]record, error) {
	keys := make([]string, len(ids))
	for i, id := range ids {
		keys[i] = r.key(id)
	}

	maps, err := r.store.HGetAllMulti(ctx, keys)
	if err != nil {
		return nil, err
	}

	out := make([]record, 0, len(ids))
	for i, m := range maps {
		if len(m) == 0 {
			continue
		}
		out = append(out, parseHashFields(ids[i], m))
	}
	return out, nil
}

// EnsureIndex creates the post search index. An existing index is not an error.
func (r *Repo) EnsureIndex(ctx context.Context) error {
	def, err := buildIndex(r.indexName(), r.keyPrefix(), r.language)
	if err != nil {
		return fmt.Errorf("build post index: %w", err)
	}
	if err := r.store.CreateIndex(ctx, def); err != nil && !errors.Is(err, db.ErrIndexExists) {
		return unavailable("create post index", err)
	}
	return nil
}

// IndexReady reports whether the post search index exists.
func (r *Repo) IndexReady(ctx context.Context) (bool, error) {
	ok, err := r.store.IndexExists(ctx, r.indexName())
	if err != nil {
		return false, unavailable("post index info", err)
	}
	return ok, nil
}

func (r *Repo) keyPrefix() string { return r.prefix + "post:" }

func (r *Repo) key(id string) string { return r.keyPrefix() + id }

func (r *Repo) indexName() string { return r.prefix + "post:idx" }

func (r *Repo) seqKey() string { return r.prefix + "seq:post" }

func (r *Repo) listKey() string { return r.prefix + "posts" }

func (r *Repo) idFromKey(key string) string { return strings.TrimPrefix(key, r.keyPrefix()) }

func unavailable(op string, err error) error {
	return fmt.Errorf("%s: %w: %w", op, domain.ErrStoreUnavailable, err)
}
