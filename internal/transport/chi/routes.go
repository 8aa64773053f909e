package chi

import (
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/oapi-codegen/runtime"
)

// SearchFeedParams are the query parameters of GET /api/posts/search.
type SearchFeedParams struct {
	Q *string `form:"q,omitempty" json:"q,omitempty"`
}

// ServerOptions configures HandlerWithOptions.
type ServerOptions struct {
	BaseURL          string
	BaseRouter       chi.Router
	ErrorHandlerFunc func(w http.ResponseWriter, r *http.Request, err error)
}

// Handler mounts the API on a new chi router.
func Handler(s *Server) http.Handler {
	return HandlerWithOptions(s, ServerOptions{})
}

// HandlerWithOptions mounts the API routes on opts.BaseRouter.
// Parameter binding failures go to opts.ErrorHandlerFunc.
func HandlerWithOptions(s *Server, opts ServerOptions) http.Handler {
	r := opts.BaseRouter
	if r == nil {
		r = chi.NewRouter()
	}
	if opts.ErrorHandlerFunc == nil {
		opts.ErrorHandlerFunc = func(w http.ResponseWriter, _ *http.Request, err error) {
			writeError(w, http.StatusBadRequest, ErrorCodeBadRequest, err.Error())
		}
	}
	wrapper := paramBinder{server: s, errorHandler: opts.ErrorHandlerFunc}

	r.Get(opts.BaseURL+"/", s.Root)
	r.Get(opts.BaseURL+"/health", s.HealthCheck)
	r.Get(opts.BaseURL+"/metrics", s.Metrics)
	r.Get(opts.BaseURL+"/api/posts", s.ListFeed)
	r.Post(opts.BaseURL+"/api/posts", s.CreatePost)
	r.Get(opts.BaseURL+"/api/posts/search", wrapper.SearchFeed)
	r.Post(opts.BaseURL+"/api/posts/{id}/comments", wrapper.AddComment)

	return r
}

// paramBinder decodes path and query parameters before calling the handler.
type paramBinder struct {
	server       *Server
	errorHandler func(w http.ResponseWriter, r *http.Request, err error)
}

func (b paramBinder) AddComment(w http.ResponseWriter, r *http.Request) {
	var id string
	err := runtime.BindStyledParameterWithOptions("simple", "id", chi.URLParam(r, "id"), &id,
		runtime.BindStyledParameterOptions{ParamLocation: runtime.ParamLocationPath, Explode: false, Required: true})
	if err != nil {
		b.errorHandler(w, r, fmt.Errorf("invalid format for parameter id: %w", err))
		return
	}
	b.server.AddComment(w, r, id)
}

func (b paramBinder) SearchFeed(w http.ResponseWriter, r *http.Request) {
	var params SearchFeedParams
	if err := runtime.BindQueryParameter("form", true, false, "q", r.URL.Query(), &params.Q); err != nil {
		b.errorHandler(w, r, fmt.Errorf("invalid format for parameter q: %w", err))
		return
	}
	b.server.SearchFeed(w, r, params)
}
