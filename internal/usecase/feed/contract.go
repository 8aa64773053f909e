package feed

import (
	"context"

	"github.com/kailas-cloud/postfeed/internal/domain/comment"
	"github.com/kailas-cloud/postfeed/internal/domain/post"
)

// PostRepository stores and lists posts.
type PostRepository interface {
	// Insert assigns id and createdAt and returns the stored post.
	Insert(ctx context.Context, p *post.Post) (post.Post, error)
	// ListNewestFirst returns all posts by createdAt desc, later insertions first on ties.
	ListNewestFirst(ctx context.Context) ([]post.Post, error)
}

// CommentRepository stores comments and lists them per post.
type CommentRepository interface {
	Insert(ctx context.Context, c *comment.Comment) (comment.Comment, error)
	// ListByPost returns the comments of postID by createdAt desc.
	ListByPost(ctx context.Context, postID string) ([]comment.Comment, error)
}
