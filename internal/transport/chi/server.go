package chi

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/kailas-cloud/postfeed/internal/domain"
	"github.com/kailas-cloud/postfeed/internal/domain/comment"
	domfeed "github.com/kailas-cloud/postfeed/internal/domain/feed"
	"github.com/kailas-cloud/postfeed/internal/domain/post"
	logpkg "github.com/kailas-cloud/postfeed/internal/logger"
	healthuc "github.com/kailas-cloud/postfeed/internal/usecase/health"
)

// maxBodyBytes caps request bodies; content itself is limited to 10 KB by the domain.
const maxBodyBytes = 1 << 20

// Banner is the body of GET /.
const Banner = "Post Feed API"

// FeedService is the feed read and write path.
type FeedService interface {
	List(ctx context.Context) ([]domfeed.PostWithComments, error)
	CreatePost(ctx context.Context, content, author string) (post.Post, error)
	AddComment(ctx context.Context, postID, content, author string) (comment.Comment, error)
}

// SearchService aggregates post and comment matches.
type SearchService interface {
	Search(ctx context.Context, query string) (domfeed.SearchResult, error)
}

// HealthService reports component health.
type HealthService interface {
	Check(ctx context.Context) healthuc.Report
}

// errorHandler tries to handle a domain error. Returns true if handled.
type errorHandler func(w http.ResponseWriter, err error, msg string) bool

// Server holds the HTTP handlers of the postfeed API.
type Server struct {
	feed          FeedService
	search        SearchService
	health        HealthService
	logger        *zap.Logger
	errorHandlers []errorHandler
}

// NewServer creates an HTTP API server.
func NewServer(feed FeedService, search SearchService, health HealthService, logger *zap.Logger) *Server {
	s := &Server{
		feed:   feed,
		search: search,
		health: health,
		logger: logger,
	}
	s.errorHandlers = []errorHandler{
		sentinelHandler(domain.ErrInvalidInput, http.StatusBadRequest, ErrorCodeInvalidInput),
		sentinelHandler(domain.ErrMalformedQuery, http.StatusBadRequest, ErrorCodeMalformedQuery),
		sentinelHandler(domain.ErrStoreUnavailable, http.StatusServiceUnavailable, ErrorCodeStoreUnavailable),
	}
	return s
}

// Root handles GET /.
func (s *Server) Root(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(Banner))
}

// ListFeed handles GET /api/posts.
func (s *Server) ListFeed(w http.ResponseWriter, r *http.Request) {
	items, err := s.feed.List(r.Context())
	if err != nil {
		s.handleDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, feedToResponse(items))
}

// CreatePost handles POST /api/posts.
func (s *Server) CreatePost(w http.ResponseWriter, r *http.Request) {
	var req CreatePostRequest
	if !decodeBody(w, r, &req) {
		return
	}

	p, err := s.feed.CreatePost(r.Context(), req.Content, req.Author)
	if err != nil {
		s.handleDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, postToResponse(&p))
}

// AddComment handles POST /api/posts/{id}/comments.
func (s *Server) AddComment(w http.ResponseWriter, r *http.Request, postID string) {
	var req AddCommentRequest
	if !decodeBody(w, r, &req) {
		return
	}

	c, err := s.feed.AddComment(r.Context(), postID, req.Content, req.Author)
	if err != nil {
		s.handleDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, commentToResponse(&c))
}

// SearchFeed handles GET /api/posts/search?q=.
func (s *Server) SearchFeed(w http.ResponseWriter, r *http.Request, params SearchFeedParams) {
	var q string
	if params.Q != nil {
		q = *params.Q
	}

	res, err := s.search.Search(r.Context(), q)
	if err != nil {
		s.handleDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, searchToResponse(&res))
}

// HealthCheck handles GET /health.
func (s *Server) HealthCheck(w http.ResponseWriter, r *http.Request) {
	report := s.health.Check(r.Context())

	checks := make(map[string]string, len(report.Checks))
	for k, v := range report.Checks {
		checks[k] = string(v)
	}

	httpStatus := http.StatusOK
	if report.Status != healthuc.Healthy {
		httpStatus = http.StatusServiceUnavailable
	}

	writeJSON(w, httpStatus, HealthResponse{
		Status: string(report.Status),
		Checks: checks,
	})
}

// Metrics handles GET /metrics.
func (s *Server) Metrics(w http.ResponseWriter, r *http.Request) {
	promhttp.Handler().ServeHTTP(w, r)
}

func decodeBody(w http.ResponseWriter, r *http.Request, dst any) bool {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		writeError(w, http.StatusBadRequest, ErrorCodeBadRequest, "Invalid request body: "+err.Error())
		return false
	}
	return true
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code ErrorCode, message string) {
	writeJSON(w, status, ErrorResponse{
		Code:    code,
		Message: message,
	})
}

// safeDomainMessage returns a client-safe message without exposing internals.
// Validation messages are written for clients and pass through.
func safeDomainMessage(err error) string {
	if errors.Is(err, domain.ErrInvalidInput) {
		return err.Error()
	}
	sentinels := []error{
		domain.ErrMalformedQuery,
		domain.ErrStoreUnavailable,
	}
	for _, s := range sentinels {
		if errors.Is(err, s) {
			return s.Error()
		}
	}
	return "internal error"
}

// sentinelHandler returns an errorHandler that matches a single sentinel error.
func sentinelHandler(sentinel error, status int, code ErrorCode) errorHandler {
	return func(w http.ResponseWriter, err error, msg string) bool {
		if !errors.Is(err, sentinel) {
			return false
		}
		writeError(w, status, code, msg)
		return true
	}
}

func (s *Server) handleDomainError(w http.ResponseWriter, r *http.Request, err error) {
	log := logpkg.FromContextOr(r.Context(), s.logger)
	msg := safeDomainMessage(err)
	for _, h := range s.errorHandlers {
		if h(w, err, msg) {
			log.Warn("domain error", zap.Error(err))
			return
		}
	}
	log.Error("internal error", zap.Error(err))
	writeError(w, http.StatusInternalServerError, ErrorCodeInternalError, "internal error")
}
