package search

import (
	"context"
	"fmt"
	"slices"
	"strings"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/kailas-cloud/postfeed/internal/domain"
	"github.com/kailas-cloud/postfeed/internal/domain/comment"
	"github.com/kailas-cloud/postfeed/internal/domain/feed"
	"github.com/kailas-cloud/postfeed/internal/domain/post"
	"github.com/kailas-cloud/postfeed/internal/domain/search/hit"
	"github.com/kailas-cloud/postfeed/internal/logger"
	"github.com/kailas-cloud/postfeed/internal/metrics"
)

const operation = "search"

// Service merges post and comment relevance searches into one feed answer.
type Service struct {
	posts    PostSearcher
	comments CommentSearcher
}

// New creates a search service.
func New(posts PostSearcher, comments CommentSearcher) *Service {
	return &Service{posts: posts, comments: comments}
}

// Search returns every post that matches query directly or through one of its comments.
//
// Posts come in two groups: direct matches in relevance order, then parents of matching
// comments in best-comment order. Each post appears once; a direct match wins over a
// comment-derived one. Comments whose parent no longer exists are kept in the comment list
// but contribute no post.
func (s *Service) Search(ctx context.Context, query string) (feed.SearchResult, error) {
	if strings.TrimSpace(query) == "" {
		return feed.SearchResult{}, domain.InvalidInput("search query is required")
	}

	log := logger.FromContext(ctx)

	start := time.Now()
	var (
		postHits    []hit.Hit[post.Post]
		commentHits []hit.Hit[comment.Comment]
	)
	var g errgroup.Group
	g.Go(func() error {
		var err error
		postHits, err = s.posts.Search(ctx, query)
		if err != nil {
			return fmt.Errorf("search posts: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		var err error
		commentHits, err = s.comments.Search(ctx, query)
		if err != nil {
			return fmt.Errorf("search comments: %w", err)
		}
		return nil
	})
	if err := g.Wait(); err != nil {
		return feed.SearchResult{}, err
	}
	metrics.ObserveStage(operation, metrics.StageRelevance, start)

	direct := hit.Items(postHits)
	comments := hit.Items(commentHits)

	parentIDs := referencedPostIDs(comments)

	start = time.Now()
	var parents []post.Post
	if len(parentIDs) > 0 {
		found, err := s.posts.FindByIDs(ctx, parentIDs)
		if err != nil {
			return feed.SearchResult{}, fmt.Errorf("resolve comment parents: %w", err)
		}
		parents = orderByIDs(found, parentIDs)
	}
	metrics.ObserveStage(operation, metrics.StageParentLookup, start)

	start = time.Now()
	set := feed.NewPostSet(len(direct) + len(parents))
	set.AddAll(direct)
	duplicates := set.AddAll(parents)
	metrics.ObserveStage(operation, metrics.StageMerge, start)

	orphans := len(parentIDs) - len(parents)
	metrics.AddItems(operation, metrics.KindDirectPost, len(direct))
	metrics.AddItems(operation, metrics.KindParentPost, len(parents)-duplicates)
	metrics.AddItems(operation, metrics.KindDuplicate, duplicates)
	metrics.AddItems(operation, metrics.KindOrphanedComment, orphans)
	metrics.AddItems(operation, metrics.KindComment, len(comments))

	log.Debug("search aggregated",
		zap.Int("direct_posts", len(direct)),
		zap.Int("matched_comments", len(comments)),
		zap.Int("parent_posts", len(parents)),
		zap.Int("duplicates", duplicates),
		zap.Int("orphaned_parents", orphans),
	)

	res := feed.EmptySearchResult()
	res.Posts = append(res.Posts, set.Posts()...)
	res.Comments = append(res.Comments, comments...)
	return res, nil
}

// referencedPostIDs returns the distinct parent ids of comments in first-seen order.
func referencedPostIDs(comments []comment.Comment) []string {
	seen := make(map[string]struct{}, len(comments))
	ids := make([]string, 0, len(comments))
	for i := range comments {
		id := comments[i].PostID()
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		ids = append(ids, id)
	}
	return ids
}

// orderByIDs arranges posts in the order of ids. Posts not listed in ids are dropped.
func orderByIDs(posts []post.Post, ids []string) []post.Post {
	byID := make(map[string]post.Post, len(posts))
	for i := range posts {
		byID[posts[i].ID()] = posts[i]
	}
	out := make([]post.Post, 0, len(posts))
	for _, id := range ids {
		if p, ok := byID[id]; ok {
			out = append(out, p)
			delete(byID, id)
		}
	}
	return slices.Clip(out)
}
