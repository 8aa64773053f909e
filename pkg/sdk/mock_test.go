package postfeed

import (
	"context"

	"github.com/kailas-cloud/postfeed/internal/domain/comment"
	domfeed "github.com/kailas-cloud/postfeed/internal/domain/feed"
	"github.com/kailas-cloud/postfeed/internal/domain/post"
	healthuc "github.com/kailas-cloud/postfeed/internal/usecase/health"
)

// --- feedUseCase mock ---

type mockFeedUC struct {
	listFn       func(ctx context.Context) ([]domfeed.PostWithComments, error)
	createPostFn func(ctx context.Context, content, author string) (post.Post, error)
	addCommentFn func(ctx context.Context, postID, content, author string) (comment.Comment, error)
}

func (m *mockFeedUC) List(ctx context.Context) ([]domfeed.PostWithComments, error) {
	return m.listFn(ctx)
}

func (m *mockFeedUC) CreatePost(ctx context.Context, content, author string) (post.Post, error) {
	return m.createPostFn(ctx, content, author)
}

func (m *mockFeedUC) AddComment(ctx context.Context, postID, content, author string) (comment.Comment, error) {
	return m.addCommentFn(ctx, postID, content, author)
}

// --- searchUseCase mock ---

type mockSearchUC struct {
	searchFn func(ctx context.Context, query string) (domfeed.SearchResult, error)
}

func (m *mockSearchUC) Search(ctx context.Context, query string) (domfeed.SearchResult, error) {
	return m.searchFn(ctx, query)
}

// --- healthUseCase mock ---

type mockHealthUC struct {
	report healthuc.Report
}

func (m *mockHealthUC) Check(context.Context) healthuc.Report { return m.report }

// --- backend.Lifecycle mock ---

type mockLifecycle struct {
	pingErr error
	closed  bool
}

func (m *mockLifecycle) Ping(context.Context) error                 { return m.pingErr }
func (m *mockLifecycle) EnsureIndexes(context.Context) error        { return nil }
func (m *mockLifecycle) IndexesReady(context.Context) (bool, error) { return true, nil }
func (m *mockLifecycle) Close()                                     { m.closed = true }
