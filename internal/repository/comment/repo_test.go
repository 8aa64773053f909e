package comment

import (
	"context"
	"errors"
	"slices"
	"strconv"
	"testing"

	"github.com/kailas-cloud/postfeed/internal/db"
	"github.com/kailas-cloud/postfeed/internal/domain"
	domcomment "github.com/kailas-cloud/postfeed/internal/domain/comment"
)

func TestInsert(t *testing.T) {
	repo, ms := newTestRepo(t)

	ms.incrFn = func(_ context.Context, key string) (int64, error) {
		if key != "postfeed:seq:comment" {
			t.Errorf("unexpected seq key: %s", key)
		}
		return 7, nil
	}
	var calls []string
	var listKey, listMember string
	var listScore int64
	ms.zaddFn = func(_ context.Context, key string, score int64, member string) error {
		calls = append(calls, "zadd")
		listKey, listScore, listMember = key, score, member
		return nil
	}
	var fields map[string]string
	ms.hsetFn = func(_ context.Context, key string, f map[string]string) error {
		calls = append(calls, "hset")
		fields = f
		return nil
	}

	c, _ := domcomment.New("post-1", "hello there", "bob")
	stored, err := repo.Insert(context.Background(), &c)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if stored.ID() == "" || stored.PostID() != "post-1" {
		t.Errorf("stored = %s / %s", stored.ID(), stored.PostID())
	}
	if !stored.CreatedAt().Equal(fixedNow) {
		t.Errorf("CreatedAt() = %v", stored.CreatedAt())
	}
	if fields["post_id"] != "post-1" || fields["seq"] != "7" {
		t.Errorf("fields = %v", fields)
	}
	if listKey != "postfeed:post-comments:post-1" || listScore != 7 || listMember != stored.ID() {
		t.Errorf("listing entry = %s %d %s", listKey, listScore, listMember)
	}
	if !slices.Equal(calls, []string{"zadd", "hset"}) {
		t.Errorf("calls = %v, want listing entry before hash", calls)
	}
}

func TestInsert_Error(t *testing.T) {
	c, _ := domcomment.New("post-1", "hello", "bob")

	repo, ms := newTestRepo(t)
	ms.hsetFn = func(context.Context, string, map[string]string) error { return errors.New("OOM") }
	if _, err := repo.Insert(context.Background(), &c); !errors.Is(err, domain.ErrStoreUnavailable) {
		t.Errorf("hset failure: expected ErrStoreUnavailable, got %v", err)
	}

	repo, ms = newTestRepo(t)
	ms.zaddFn = func(context.Context, string, int64, string) error { return errors.New("OOM") }
	if _, err := repo.Insert(context.Background(), &c); !errors.Is(err, domain.ErrStoreUnavailable) {
		t.Errorf("zadd failure: expected ErrStoreUnavailable, got %v", err)
	}
}

func TestListByPost(t *testing.T) {
	repo, ms := newTestRepo(t)

	ms.zrevMembersFn = func(_ context.Context, key string) ([]string, error) {
		if key != "postfeed:post-comments:9f1c-aa" {
			t.Errorf("listing key = %q", key)
		}
		return []string{"c3", "c2", "c1", "gone"}, nil
	}
	ms.hgetAllMultiFn = hashesByKey(map[string]map[string]string{
		"postfeed:comment:c3": hashOf("9f1c-aa", "third", 2000, 3),
		"postfeed:comment:c2": hashOf("9f1c-aa", "second", 2000, 2),
		"postfeed:comment:c1": hashOf("9f1c-aa", "first", 5000, 1),
	})

	comments, err := repo.ListByPost(context.Background(), "9f1c-aa")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := commentIDs(comments); !slices.Equal(got, []string{"c1", "c3", "c2"}) {
		t.Errorf("order = %v, want [c1 c3 c2]", got)
	}
}

func TestListByPost_PostIDWithSeparators(t *testing.T) {
	repo, ms := newTestRepo(t)

	const postID = "a,b c|d"
	var gotKey string
	ms.zaddFn = func(_ context.Context, key string, _ int64, _ string) error {
		gotKey = key
		return nil
	}
	c, _ := domcomment.New(postID, "hello", "bob")
	stored, err := repo.Insert(context.Background(), &c)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	ms.zrevMembersFn = func(_ context.Context, key string) ([]string, error) {
		if key != gotKey {
			t.Errorf("listing key = %q, written under %q", key, gotKey)
		}
		return []string{stored.ID()}, nil
	}
	ms.hgetAllMultiFn = hashesByKey(map[string]map[string]string{
		"postfeed:comment:" + stored.ID(): hashOf(postID, "hello", 1000, 1),
	})

	comments, err := repo.ListByPost(context.Background(), postID)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(comments) != 1 || comments[0].ID() != stored.ID() || comments[0].PostID() != postID {
		t.Errorf("comments = %v", commentIDs(comments))
	}
}

func TestListByPost_FetchesInBatches(t *testing.T) {
	repo, ms := newTestRepo(t)

	const total = fetchBatchSize*2 + 1
	all := make([]string, total)
	for i := range all {
		all[i] = strconv.Itoa(total - i)
	}
	ms.zrevMembersFn = func(context.Context, string) ([]string, error) { return all, nil }

	var batches []int
	ms.hgetAllMultiFn = func(_ context.Context, keys []string) ([]map[string]string, error) {
		batches = append(batches, len(keys))
		out := make([]map[string]string, len(keys))
		for i := range keys {
			out[i] = hashOf("p", "x", 1000, 1)
		}
		return out, nil
	}

	comments, err := repo.ListByPost(context.Background(), "p")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(comments) != total {
		t.Errorf("got %d comments, want %d", len(comments), total)
	}
	if !slices.Equal(batches, []int{fetchBatchSize, fetchBatchSize, 1}) {
		t.Errorf("batches = %v", batches)
	}
}

func TestListByPost_Error(t *testing.T) {
	repo, ms := newTestRepo(t)
	ms.zrevMembersFn = func(context.Context, string) ([]string, error) {
		return nil, errors.New("timeout")
	}
	if _, err := repo.ListByPost(context.Background(), "p"); !errors.Is(err, domain.ErrStoreUnavailable) {
		t.Errorf("zrange failure: expected ErrStoreUnavailable, got %v", err)
	}

	repo, ms = newTestRepo(t)
	ms.zrevMembersFn = func(context.Context, string) ([]string, error) { return []string{"c1"}, nil }
	ms.hgetAllMultiFn = func(context.Context, []string) ([]map[string]string, error) {
		return nil, errors.New("timeout")
	}
	if _, err := repo.ListByPost(context.Background(), "p"); !errors.Is(err, domain.ErrStoreUnavailable) {
		t.Errorf("hgetall failure: expected ErrStoreUnavailable, got %v", err)
	}
}

func TestSearch(t *testing.T) {
	repo, ms := newTestRepo(t)
	ms.searchTextFn = func(_ context.Context, q *db.TextQuery) (*db.SearchResult, error) {
		if q.IndexName != "postfeed:comment:idx" || q.Field != "content" {
			t.Errorf("unexpected query: %+v", q)
		}
		return &db.SearchResult{Total: 1, Entries: []db.SearchEntry{
			{Key: "postfeed:comment:c1", Score: 1.25, Fields: hashOf("B", "hello there", 1000, 1)},
		}}, nil
	}

	hits, err := repo.Search(context.Background(), "hello")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(hits) != 1 {
		t.Fatalf("got %d hits", len(hits))
	}
	c := hits[0].Item()
	if c.ID() != "c1" || c.PostID() != "B" || hits[0].Score() != 1.25 {
		t.Errorf("hit = %s/%s/%v", c.ID(), c.PostID(), hits[0].Score())
	}
}

func TestSearch_Syntax(t *testing.T) {
	repo, ms := newTestRepo(t)
	ms.searchTextFn = func(context.Context, *db.TextQuery) (*db.SearchResult, error) {
		return nil, &db.Error{Op: db.OpSearch, Err: db.ErrQuerySyntax}
	}
	if _, err := repo.Search(context.Background(), "x"); !errors.Is(err, domain.ErrMalformedQuery) {
		t.Errorf("expected ErrMalformedQuery, got %v", err)
	}
}

func TestEnsureIndex(t *testing.T) {
	repo, ms := newTestRepo(t)

	var def *db.IndexDefinition
	ms.createIndexFn = func(_ context.Context, d *db.IndexDefinition) error {
		def = d
		return nil
	}
	if err := repo.EnsureIndex(context.Background()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if def.Name != "postfeed:comment:idx" || def.Prefixes[0] != "postfeed:comment:" {
		t.Errorf("unexpected definition: %s", def)
	}
	for i := range def.Fields {
		if def.Fields[i].Name == "content" && def.Fields[i].Type != db.IndexFieldText {
			t.Errorf("content must be TEXT: %+v", def.Fields[i])
		}
		if def.Fields[i].Name == "post_id" {
			t.Errorf("post_id must not be indexed: %+v", def.Fields[i])
		}
	}
}

func TestIndexReady_Error(t *testing.T) {
	repo, ms := newTestRepo(t)
	ms.indexExistsFn = func(context.Context, string) (bool, error) { return false, errors.New("down") }
	if _, err := repo.IndexReady(context.Background()); !errors.Is(err, domain.ErrStoreUnavailable) {
		t.Errorf("expected ErrStoreUnavailable, got %v", err)
	}
}

func commentIDs(comments []domcomment.Comment) []string {
	out := make([]string, len(comments))
	for i := range comments {
		out[i] = comments[i].ID()
	}
	return out
}
