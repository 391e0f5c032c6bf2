// Package mock serves a local GoalForge backend so the check suite can run
// without the hosted preview environment.
package mock

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/abdul-hamid-achik/goalcheck/packages/db"
	"github.com/abdul-hamid-achik/goalcheck/packages/logging"
)

// Seed is a category created for every new account.
type Seed struct {
	Name string
	Icon string
}

// DefaultSeeds are the categories a fresh GoalForge account starts with.
var DefaultSeeds = []Seed{
	{Name: "Health", Icon: "💪"},
	{Name: "Professional", Icon: "💼"},
	{Name: "Spiritual", Icon: "🙏"},
	{Name: "Hobbies", Icon: "🎨"},
}

// Server is the reference backend
type Server struct {
	router *Router
	store  *db.Store
	port   int
	delay  time.Duration
	seeds  []Seed
	logger *slog.Logger
}

// Option is a functional option for Server
type Option func(*Server)

// WithPort sets the server port
func WithPort(port int) Option {
	return func(s *Server) {
		s.port = port
	}
}

// WithDelay adds a delay to all responses
func WithDelay(delay time.Duration) Option {
	return func(s *Server) {
		s.delay = delay
	}
}

// WithLogger sets the request logger
func WithLogger(logger *slog.Logger) Option {
	return func(s *Server) {
		s.logger = logger
	}
}

// WithSeeds replaces the categories created on registration.
func WithSeeds(seeds []Seed) Option {
	return func(s *Server) {
		s.seeds = seeds
	}
}

// NewServer creates a backend over store
func NewServer(store *db.Store, opts ...Option) *Server {
	s := &Server{
		router: NewRouter(),
		store:  store,
		port:   8001,
		seeds:  DefaultSeeds,
		logger: logging.Discard(),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.routes()
	return s
}

func (s *Server) routes() {
	r := s.router
	r.Handle(http.MethodGet, "/api", "root", false, s.handleRoot)

	r.Handle(http.MethodPost, "/api/auth/register", "register", false, s.handleRegister)
	r.Handle(http.MethodPost, "/api/auth/login", "login", false, s.handleLogin)
	r.Handle(http.MethodGet, "/api/auth/me", "me", true, s.handleMe)

	r.Handle(http.MethodGet, "/api/categories", "list categories", true, s.handleListCategories)
	r.Handle(http.MethodPost, "/api/categories", "create category", true, s.handleCreateCategory)
	r.Handle(http.MethodPut, "/api/categories/{{id}}", "update category", true, s.handleUpdateCategory)
	r.Handle(http.MethodDelete, "/api/categories/{{id}}", "delete category", true, s.handleDeleteCategory)

	r.Handle(http.MethodGet, "/api/goals", "list goals", true, s.handleListGoals)
	r.Handle(http.MethodPost, "/api/goals", "create goal", true, s.handleCreateGoal)
	r.Handle(http.MethodPut, "/api/goals/{{id}}", "update goal", true, s.handleUpdateGoal)
	r.Handle(http.MethodPatch, "/api/goals/{{id}}/toggle", "toggle goal", true, s.handleToggleGoal)
	r.Handle(http.MethodDelete, "/api/goals/{{id}}", "delete goal", true, s.handleDeleteGoal)
}

// Routes returns the registered routes
func (s *Server) Routes() []*Route {
	return s.router.Routes()
}

// Handler returns the backend as an http.Handler
func (s *Server) Handler() http.Handler {
	return http.HandlerFunc(s.handleRequest)
}

// StartWithContext serves on the configured port until ctx is cancelled.
func (s *Server) StartWithContext(ctx context.Context) error {
	ln, err := net.Listen("tcp", fmt.Sprintf(":%d", s.port))
	if err != nil {
		return fmt.Errorf("listen: %w", err)
	}
	return s.Serve(ctx, ln)
}

// Serve accepts connections on ln until ctx is cancelled.
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	server := &http.Server{
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = server.Shutdown(shutdownCtx)
	}()

	s.logger.Info("mock backend listening", "addr", ln.Addr().String(), "routes", len(s.router.routes))
	if err := server.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

type userKey struct{}

func userFrom(r *http.Request) *db.User {
	u, _ := r.Context().Value(userKey{}).(*db.User)
	return u
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (w *statusRecorder) WriteHeader(code int) {
	w.status = code
	w.ResponseWriter.WriteHeader(code)
}

func (s *Server) handleRequest(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
	defer func() {
		s.logger.Debug("mock request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", rec.status,
			"duration", time.Since(start))
	}()

	if s.delay > 0 {
		select {
		case <-time.After(s.delay):
		case <-r.Context().Done():
			return
		}
	}

	route, params, pathFound := s.router.Match(r.Method, r.URL.Path)
	if route == nil {
		if pathFound {
			writeError(rec, http.StatusMethodNotAllowed, "Method Not Allowed")
			return
		}
		writeError(rec, http.StatusNotFound, "Not Found")
		return
	}

	if route.Auth {
		user, ok := s.authenticate(r)
		if !ok {
			writeError(rec, http.StatusUnauthorized, "Not authenticated")
			return
		}
		r = r.WithContext(context.WithValue(r.Context(), userKey{}, user))
	}

	route.Handler(rec, r, params)
}

func (s *Server) authenticate(r *http.Request) (*db.User, bool) {
	token, ok := strings.CutPrefix(r.Header.Get("Authorization"), "Bearer ")
	if !ok || strings.TrimSpace(token) == "" {
		return nil, false
	}
	user, err := s.store.UserByToken(r.Context(), strings.TrimSpace(token))
	if err != nil {
		if !errors.Is(err, db.ErrNotFound) {
			s.logger.Warn("token lookup failed", "error", err)
		}
		return nil, false
	}
	return user, true
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, detail string) {
	writeJSON(w, status, map[string]string{"detail": detail})
}

// writeStoreError maps store errors to API responses.
func (s *Server) writeStoreError(w http.ResponseWriter, err error, notFound string) {
	switch {
	case errors.Is(err, db.ErrNotFound):
		writeError(w, http.StatusNotFound, notFound)
	case errors.Is(err, db.ErrDuplicateEmail):
		writeError(w, http.StatusBadRequest, "Email already registered")
	case errors.Is(err, db.ErrInvalidCredentials):
		writeError(w, http.StatusUnauthorized, "Invalid credentials")
	default:
		s.logger.Error("store failure", "error", err)
		writeError(w, http.StatusInternalServerError, "Internal Server Error")
	}
}

func decodeBody(r *http.Request, v any) error {
	if r.Body == nil {
		return errors.New("request body is required")
	}
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		return fmt.Errorf("invalid JSON body: %w", err)
	}
	return nil
}
