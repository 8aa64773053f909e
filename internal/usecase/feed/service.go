package feed

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/kailas-cloud/postfeed/internal/domain/comment"
	domfeed "github.com/kailas-cloud/postfeed/internal/domain/feed"
	"github.com/kailas-cloud/postfeed/internal/domain/post"
	"github.com/kailas-cloud/postfeed/internal/logger"
	"github.com/kailas-cloud/postfeed/internal/metrics"
)

const operation = "feed"

// Service serves the chronological feed and its write path.
type Service struct {
	posts          PostRepository
	comments       CommentRepository
	maxConcurrency int
}

// New creates a feed service. maxConcurrency caps in-flight comment fetches; 0 means no cap.
func New(posts PostRepository, comments CommentRepository, maxConcurrency int) *Service {
	return &Service{posts: posts, comments: comments, maxConcurrency: maxConcurrency}
}

// List returns every post newest first, each with its comments newest first.
// Comment fetches run concurrently; the output keeps the post order regardless of completion order.
func (s *Service) List(ctx context.Context) ([]domfeed.PostWithComments, error) {
	posts, err := s.posts.ListNewestFirst(ctx)
	if err != nil {
		return nil, fmt.Errorf("list posts: %w", err)
	}

	start := time.Now()
	out := make([]domfeed.PostWithComments, len(posts))

	var g errgroup.Group
	if s.maxConcurrency > 0 {
		g.SetLimit(s.maxConcurrency)
	}
	for i := range posts {
		g.Go(func() error {
			comments, err := s.comments.ListByPost(ctx, posts[i].ID())
			if err != nil {
				return fmt.Errorf("list comments of %s: %w", posts[i].ID(), err)
			}
			if comments == nil {
				comments = []comment.Comment{}
			}
			out[i] = domfeed.PostWithComments{Post: posts[i], Comments: comments}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	metrics.ObserveStage(operation, metrics.StageFanOut, start)

	total := 0
	for i := range out {
		total += len(out[i].Comments)
	}
	metrics.AddItems(operation, metrics.KindComment, total)
	logger.FromContext(ctx).Debug("feed assembled",
		zap.Int("posts", len(out)),
		zap.Int("comments", total),
	)

	return out, nil
}

// CreatePost sanitises, validates and stores a new post.
func (s *Service) CreatePost(ctx context.Context, content, author string) (post.Post, error) {
	p, err := post.New(sanitize(content), sanitize(author))
	if err != nil {
		return post.Post{}, err
	}
	stored, err := s.posts.Insert(ctx, &p)
	if err != nil {
		return post.Post{}, fmt.Errorf("insert post: %w", err)
	}
	return stored, nil
}

// AddComment sanitises, validates and stores a comment on postID.
// The post is not required to exist.
func (s *Service) AddComment(ctx context.Context, postID, content, author string) (comment.Comment, error) {
	c, err := comment.New(postID, sanitize(content), sanitize(author))
	if err != nil {
		return comment.Comment{}, err
	}
	stored, err := s.comments.Insert(ctx, &c)
	if err != nil {
		return comment.Comment{}, fmt.Errorf("insert comment: %w", err)
	}
	return stored, nil
}
