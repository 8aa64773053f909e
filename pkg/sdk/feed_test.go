package postfeed

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/kailas-cloud/postfeed/internal/domain"
	"github.com/kailas-cloud/postfeed/internal/domain/comment"
	domfeed "github.com/kailas-cloud/postfeed/internal/domain/feed"
	"github.com/kailas-cloud/postfeed/internal/domain/post"
)

var ts = time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)

func TestFeed(t *testing.T) {
	c := &Client{feedSvc: &mockFeedUC{listFn: func(context.Context) ([]domfeed.PostWithComments, error) {
		return []domfeed.PostWithComments{{
			Post:     post.Reconstruct("p1", "hello", "alice", ts),
			Comments: []comment.Comment{comment.Reconstruct("c1", "p1", "hi", "bob", ts)},
		}}, nil
	}}}

	items, err := c.Feed(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(items) != 1 || items[0].ID != "p1" || items[0].Author != "alice" {
		t.Fatalf("items = %+v", items)
	}
	if len(items[0].Comments) != 1 || items[0].Comments[0].PostID != "p1" {
		t.Errorf("comments = %+v", items[0].Comments)
	}
	if !items[0].CreatedAt.Equal(ts) {
		t.Errorf("CreatedAt = %v", items[0].CreatedAt)
	}
}

func TestFeed_Error(t *testing.T) {
	c := &Client{feedSvc: &mockFeedUC{listFn: func(context.Context) ([]domfeed.PostWithComments, error) {
		return nil, fmt.Errorf("list posts: %w", domain.ErrStoreUnavailable)
	}}}

	if _, err := c.Feed(context.Background()); !errors.Is(err, ErrStoreUnavailable) {
		t.Errorf("expected ErrStoreUnavailable, got %v", err)
	}
}

func TestSearch(t *testing.T) {
	var gotQuery string
	c := &Client{searchSvc: &mockSearchUC{searchFn: func(_ context.Context, q string) (domfeed.SearchResult, error) {
		gotQuery = q
		return domfeed.SearchResult{
			Posts:    []post.Post{post.Reconstruct("A", "hello world", "alice", ts), post.Reconstruct("B", "x", "y", ts)},
			Comments: []comment.Comment{comment.Reconstruct("C1", "B", "hello there", "bob", ts)},
		}, nil
	}}}

	res, err := c.Search(context.Background(), "hello")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if gotQuery != "hello" {
		t.Errorf("query = %q", gotQuery)
	}
	if len(res.Posts) != 2 || res.Posts[0].ID != "A" || res.Posts[1].ID != "B" {
		t.Errorf("posts = %+v", res.Posts)
	}
	if len(res.Comments) != 1 || res.Comments[0].ID != "C1" {
		t.Errorf("comments = %+v", res.Comments)
	}
}

func TestSearch_EmptyResultHasEmptySlices(t *testing.T) {
	c := &Client{searchSvc: &mockSearchUC{searchFn: func(context.Context, string) (domfeed.SearchResult, error) {
		return domfeed.EmptySearchResult(), nil
	}}}

	res, err := c.Search(context.Background(), "zzz")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.Posts == nil || res.Comments == nil {
		t.Error("empty result must use empty, non-nil slices")
	}
}

func TestSearch_InvalidInput(t *testing.T) {
	c := &Client{searchSvc: &mockSearchUC{searchFn: func(context.Context, string) (domfeed.SearchResult, error) {
		return domfeed.SearchResult{}, domain.InvalidInput("search query is required")
	}}}

	if _, err := c.Search(context.Background(), " "); !errors.Is(err, ErrInvalidInput) {
		t.Errorf("expected ErrInvalidInput, got %v", err)
	}
}

func TestCreatePost(t *testing.T) {
	c := &Client{feedSvc: &mockFeedUC{createPostFn: func(_ context.Context, content, author string) (post.Post, error) {
		return post.Reconstruct("p1", content, author, ts), nil
	}}}

	p, err := c.CreatePost(context.Background(), "hello", "alice")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if p.ID != "p1" || p.Content != "hello" || p.Author != "alice" {
		t.Errorf("post = %+v", p)
	}
}

func TestAddComment(t *testing.T) {
	c := &Client{feedSvc: &mockFeedUC{addCommentFn: func(_ context.Context, postID, content, author string) (comment.Comment, error) {
		return comment.Reconstruct("c1", postID, content, author, ts), nil
	}}}

	cm, err := c.AddComment(context.Background(), "p1", "hi", "bob")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cm.ID != "c1" || cm.PostID != "p1" {
		t.Errorf("comment = %+v", cm)
	}
}

func TestAddComment_Error(t *testing.T) {
	c := &Client{feedSvc: &mockFeedUC{addCommentFn: func(context.Context, string, string, string) (comment.Comment, error) {
		return comment.Comment{}, domain.InvalidInput("content is required")
	}}}

	if _, err := c.AddComment(context.Background(), "p1", "", "bob"); !errors.Is(err, ErrInvalidInput) {
		t.Errorf("expected ErrInvalidInput, got %v", err)
	}
}
