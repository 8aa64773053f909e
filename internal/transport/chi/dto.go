package chi

import (
	"time"

	"github.com/kailas-cloud/postfeed/internal/domain/comment"
	domfeed "github.com/kailas-cloud/postfeed/internal/domain/feed"
	"github.com/kailas-cloud/postfeed/internal/domain/post"
)

// ErrorCode is the machine-readable error code in ErrorResponse.
type ErrorCode string

// Error codes.
const (
	ErrorCodeBadRequest       ErrorCode = "bad_request"
	ErrorCodeInvalidInput     ErrorCode = "invalid_input"
	ErrorCodeMalformedQuery   ErrorCode = "malformed_query"
	ErrorCodeStoreUnavailable ErrorCode = "store_unavailable"
	ErrorCodeInternalError    ErrorCode = "internal_error"
	ErrorCodeUnauthorized     ErrorCode = "unauthorized"
)

// timeLayout is RFC 3339 with milliseconds, always UTC.
const timeLayout = "2006-01-02T15:04:05.000Z07:00"

// ErrorResponse is the body of every non-2xx JSON response.
type ErrorResponse struct {
	Code    ErrorCode `json:"code"`
	Message string    `json:"message"`
}

// CreatePostRequest is the body of POST /api/posts.
type CreatePostRequest struct {
	Content string `json:"content"`
	Author  string `json:"author"`
}

// AddCommentRequest is the body of POST /api/posts/{id}/comments.
type AddCommentRequest struct {
	Content string `json:"content"`
	Author  string `json:"author"`
}

// PostResponse is a post on the wire.
type PostResponse struct {
	ID        string `json:"_id"`
	Content   string `json:"content"`
	Author    string `json:"author"`
	CreatedAt string `json:"createdAt"`
}

// CommentResponse is a comment on the wire.
type CommentResponse struct {
	ID        string `json:"_id"`
	PostID    string `json:"postId"`
	Content   string `json:"content"`
	Author    string `json:"author"`
	CreatedAt string `json:"createdAt"`
}

// FeedItemResponse is a post with its comments.
type FeedItemResponse struct {
	PostResponse
	Comments []CommentResponse `json:"comments"`
}

// SearchResponse is the body of GET /api/posts/search.
type SearchResponse struct {
	Posts    []PostResponse    `json:"posts"`
	Comments []CommentResponse `json:"comments"`
}

// HealthResponse is the body of GET /health.
type HealthResponse struct {
	Status string            `json:"status"`
	Checks map[string]string `json:"checks"`
}

func formatTime(t time.Time) string {
	return t.UTC().Format(timeLayout)
}

func postToResponse(p *post.Post) PostResponse {
	return PostResponse{
		ID:        p.ID(),
		Content:   p.Content(),
		Author:    p.Author(),
		CreatedAt: formatTime(p.CreatedAt()),
	}
}

func commentToResponse(c *comment.Comment) CommentResponse {
	return CommentResponse{
		ID:        c.ID(),
		PostID:    c.PostID(),
		Content:   c.Content(),
		Author:    c.Author(),
		CreatedAt: formatTime(c.CreatedAt()),
	}
}

func commentsToResponse(cc []comment.Comment) []CommentResponse {
	out := make([]CommentResponse, len(cc))
	for i := range cc {
		out[i] = commentToResponse(&cc[i])
	}
	return out
}

func feedToResponse(items []domfeed.PostWithComments) []FeedItemResponse {
	out := make([]FeedItemResponse, len(items))
	for i := range items {
		out[i] = FeedItemResponse{
			PostResponse: postToResponse(&items[i].Post),
			Comments:     commentsToResponse(items[i].Comments),
		}
	}
	return out
}

func searchToResponse(res *domfeed.SearchResult) SearchResponse {
	posts := make([]PostResponse, len(res.Posts))
	for i := range res.Posts {
		posts[i] = postToResponse(&res.Posts[i])
	}
	return SearchResponse{Posts: posts, Comments: commentsToResponse(res.Comments)}
}
