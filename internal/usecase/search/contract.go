package search

import (
	"context"

	"github.com/kailas-cloud/postfeed/internal/domain/comment"
	"github.com/kailas-cloud/postfeed/internal/domain/post"
	"github.com/kailas-cloud/postfeed/internal/domain/search/hit"
)

// PostSearcher runs relevance search over posts and resolves posts by id.
type PostSearcher interface {
	// Search returns posts matching query, best score first.
	Search(ctx context.Context, query string) ([]hit.Hit[post.Post], error)
	// FindByIDs returns the posts that exist among ids. Missing ids are skipped.
	FindByIDs(ctx context.Context, ids []string) ([]post.Post, error)
}

// CommentSearcher runs relevance search over comments.
type CommentSearcher interface {
	Search(ctx context.Context, query string) ([]hit.Hit[comment.Comment], error)
}
