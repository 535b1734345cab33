// Package api serves the catalog documents and carousel previews as JSON.
package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"github.com/tfkr-ae/foundry/carousel"
	"github.com/tfkr-ae/foundry/domain"
	"github.com/tfkr-ae/foundry/render"
)

// maxBodyBytes bounds JSON request bodies.
const maxBodyBytes = 1 << 20

// Store is every repository the API reads and writes.
type Store interface {
	domain.CategoryRepository
	domain.ProjectRepository
	domain.LeaderRepository
	domain.LogoRepository
	domain.ContactRepository
	domain.SettingsRepository
	domain.StatsRepository
}

// Server holds the API dependencies. It is safe for concurrent use.
type Server struct {
	store       Store
	logger      *slog.Logger
	carousel    carousel.Config
	prettyJSON  bool
	compression bool
	onError     func(r *http.Request, err error)
}

// WithLogger sets the logger used for access logs and internal errors.
func WithLogger(logger *slog.Logger) func(*Server) error {
	return func(s *Server) error {
		if logger != nil {
			s.logger = logger
		}
		return nil
	}
}

// WithCarouselConfig sets the defaults for carousel previews.
func WithCarouselConfig(cfg carousel.Config) func(*Server) error {
	return func(s *Server) error {
		if err := cfg.Validate(); err != nil {
			return fmt.Errorf("validating carousel config: %w", err)
		}
		s.carousel = cfg
		return nil
	}
}

// WithPrettyJSON indents every JSON response.
func WithPrettyJSON(pretty bool) func(*Server) error {
	return func(s *Server) error {
		s.prettyJSON = pretty
		return nil
	}
}

// WithCompression toggles brotli response compression.
func WithCompression(enabled bool) func(*Server) error {
	return func(s *Server) error {
		s.compression = enabled
		return nil
	}
}

// WithErrorHandler registers a callback for every internal server error.
func WithErrorHandler(handler func(r *http.Request, err error)) func(*Server) error {
	return func(s *Server) error {
		if s.onError != nil {
			return errors.New("server already has an error handler defined")
		}
		s.onError = handler
		return nil
	}
}

// New creates a Server on top of store.
func New(store Store, options ...func(*Server) error) (*Server, error) {
	if store == nil {
		return nil, errors.New("store is nil")
	}
	s := &Server{
		store:       store,
		logger:      slog.New(slog.DiscardHandler),
		carousel:    carousel.DefaultConfig(),
		compression: true,
	}
	for _, option := range options {
		if err := option(s); err != nil {
			return nil, fmt.Errorf("applying option on api server: %w", err)
		}
	}
	return s, nil
}

// Handler returns a router with the API routes and middleware.
func (s *Server) Handler() http.Handler {
	r := mux.NewRouter()
	s.Register(r)
	s.Use(r)
	return r
}

func (s *Server) middlewares() []mux.MiddlewareFunc {
	middlewares := []mux.MiddlewareFunc{requestID, s.accessLog}
	if s.compression {
		middlewares = append(middlewares, compress)
	}
	return middlewares
}

// Use installs the request ID, access log and compression middleware on r.
func (s *Server) Use(r *mux.Router) {
	r.Use(s.middlewares()...)
}

// Wrap applies the middleware of Use to h. mux skips its middleware for
// NotFoundHandler, so not-found handlers are wrapped explicitly.
func (s *Server) Wrap(h http.Handler) http.Handler {
	middlewares := s.middlewares()
	for i := len(middlewares) - 1; i >= 0; i-- {
		h = middlewares[i](h)
	}
	return h
}

const idPattern = "{id:[0-9a-fA-F-]{36}}"

// Register adds the API routes to r.
func (s *Server) Register(r *mux.Router) {
	r.HandleFunc("/healthz", s.health).Methods(http.MethodGet)

	api := r.PathPrefix("/api").Subrouter()

	api.HandleFunc("/categories", s.listCategories).Methods(http.MethodGet)
	api.HandleFunc("/categories", s.createCategory).Methods(http.MethodPost)
	api.HandleFunc("/categories/slug/{slug}", s.getCategoryBySlug).Methods(http.MethodGet)
	api.HandleFunc("/categories/"+idPattern, s.getCategory).Methods(http.MethodGet)
	api.HandleFunc("/categories/"+idPattern, s.updateCategory).Methods(http.MethodPut)
	api.HandleFunc("/categories/"+idPattern, s.deleteCategory).Methods(http.MethodDelete)

	api.HandleFunc("/projects", s.listProjects).Methods(http.MethodGet)
	api.HandleFunc("/projects", s.createProject).Methods(http.MethodPost)
	api.HandleFunc("/projects/"+idPattern, s.getProject).Methods(http.MethodGet)
	api.HandleFunc("/projects/"+idPattern, s.updateProject).Methods(http.MethodPut)
	api.HandleFunc("/projects/"+idPattern, s.deleteProject).Methods(http.MethodDelete)
	api.HandleFunc("/projects/"+idPattern+"/categories", s.listProjectCategories).Methods(http.MethodGet)
	api.HandleFunc("/projects/"+idPattern+"/categories/{category:[0-9a-fA-F-]{36}}", s.linkProjectCategory).Methods(http.MethodPut)

	api.HandleFunc("/leaders", s.listLeaders).Methods(http.MethodGet)
	api.HandleFunc("/leaders", s.createLeader).Methods(http.MethodPost)
	api.HandleFunc("/leaders/"+idPattern, s.getLeader).Methods(http.MethodGet)
	api.HandleFunc("/leaders/"+idPattern, s.updateLeader).Methods(http.MethodPut)
	api.HandleFunc("/leaders/"+idPattern, s.deleteLeader).Methods(http.MethodDelete)

	api.HandleFunc("/logos", s.listLogos).Methods(http.MethodGet)
	api.HandleFunc("/logos", s.createLogo).Methods(http.MethodPost)
	api.HandleFunc("/logos/"+idPattern, s.getLogo).Methods(http.MethodGet)
	api.HandleFunc("/logos/"+idPattern, s.deleteLogo).Methods(http.MethodDelete)

	api.HandleFunc("/contact", s.listContactMessages).Methods(http.MethodGet)
	api.HandleFunc("/contact", s.createContactMessage).Methods(http.MethodPost)
	api.HandleFunc("/contact/"+idPattern, s.deleteContactMessage).Methods(http.MethodDelete)

	api.HandleFunc("/settings", s.getSettings).Methods(http.MethodGet)
	api.HandleFunc("/settings", s.updateSettings).Methods(http.MethodPut)

	api.HandleFunc("/stats", s.stats).Methods(http.MethodGet)
	api.HandleFunc("/export.xml", s.exportXML).Methods(http.MethodGet)

	api.HandleFunc("/carousels/categories/{slug}", s.categoryCarousel).Methods(http.MethodGet)
	api.HandleFunc("/carousels/projects/"+idPattern, s.projectCarousel).Methods(http.MethodGet)
	api.HandleFunc("/carousels/{name}", s.logoCarousel).Methods(http.MethodGet)

	api.NotFoundHandler = s.Wrap(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		s.writeError(w, r, fmt.Errorf("no route for %s: %w", r.URL.Path, domain.ErrNotFound))
	}))
}

// errorResponse is the body of every failed request.
type errorResponse struct {
	Error  string              `json:"error"`
	Fields []domain.FieldError `json:"fields,omitempty"`
}

// writeJSON encodes v with status. Bodies are indented when pretty output is
// configured or requested with ?pretty=true.
func (s *Server) writeJSON(w http.ResponseWriter, r *http.Request, status int, v any) {
	body, err := json.Marshal(v)
	if err != nil {
		s.writeError(w, r, fmt.Errorf("encoding response: %w", err))
		return
	}
	if s.wantsPretty(r) {
		body = render.PrettifyOrKeep(body)
	}

	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	w.Write(body)
}

func (s *Server) wantsPretty(r *http.Request) bool {
	if s.prettyJSON {
		return true
	}
	pretty, _ := strconv.ParseBool(r.URL.Query().Get("pretty"))
	return pretty
}

// writeError maps err onto a status code. Only unexpected errors are logged.
func (s *Server) writeError(w http.ResponseWriter, r *http.Request, err error) {
	var verrs domain.ValidationErrors
	switch {
	case errors.As(err, &verrs):
		s.writeJSON(w, r, http.StatusBadRequest, errorResponse{Error: "invalid document", Fields: verrs})
	case errors.Is(err, domain.ErrInvalid):
		s.writeJSON(w, r, http.StatusBadRequest, errorResponse{Error: err.Error()})
	case errors.Is(err, domain.ErrNotFound):
		s.writeJSON(w, r, http.StatusNotFound, errorResponse{Error: "not found"})
	case errors.Is(err, domain.ErrConflict):
		s.writeJSON(w, r, http.StatusConflict, errorResponse{Error: err.Error()})
	default:
		id, _ := RequestIDFromContext(r.Context())
		s.logger.Error("handling request", "method", r.Method, "path", r.URL.Path, "request_id", id, "error", err)
		if s.onError != nil {
			s.onError(r, err)
		}
		s.writeJSON(w, r, http.StatusInternalServerError, errorResponse{Error: "internal server error"})
	}
}

// decode reads a JSON body into v. Malformed bodies are ErrInvalid.
func decode(r *http.Request, v any) error {
	dec := json.NewDecoder(io.LimitReader(r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		return fmt.Errorf("decoding request body: %v: %w", err, domain.ErrInvalid)
	}
	return nil
}

// pathID parses the named uuid route variable.
func pathID(r *http.Request, name string) (uuid.UUID, error) {
	id, err := uuid.Parse(mux.Vars(r)[name])
	if err != nil {
		return uuid.Nil, fmt.Errorf("parsing %s: %v: %w", name, err, domain.ErrInvalid)
	}
	return id, nil
}

// createdResponse is returned by POST endpoints that only echo the new ID.
type createdResponse struct {
	ID uuid.UUID `json:"id"`
}
