package transport

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/rpggio/ragboard/internal/domain/activity"
	"github.com/rpggio/ragboard/internal/domain/board"
	"github.com/rpggio/ragboard/internal/domain/connection"
	"github.com/rpggio/ragboard/internal/domain/dashboard"
)

const maxBodyBytes = 64 * 1024

// Board is the read and control surface served over HTTP.
type Board interface {
	State() board.StateView
	Configure(ctx context.Context, creds dashboard.Credentials) board.StateView
	Validate(ctx context.Context, creds dashboard.Credentials) board.ValidationResult
	Refetch(ctx context.Context) (board.StateView, error)
	Dashboard() board.DashboardView
	Projects(q dashboard.ProjectQuery) []dashboard.Project
	Project(id string) (*board.ProjectDetail, error)
	Metrics() board.MetricsView
	RecentActivity(ctx context.Context, opts activity.ListActivityOptions) ([]activity.ActivityEntry, error)
}

// Options configures the HTTP router.
type Options struct {
	Board Board
	// MCP is mounted at /mcp when set. It authenticates its own requests.
	MCP http.Handler
	// Auth guards /api when set.
	Auth   func(http.Handler) http.Handler
	Logger *slog.Logger
}

// Server wires HTTP handlers.
type Server struct {
	board  Board
	logger *slog.Logger
}

// NewServer creates an HTTP server router with middleware.
func NewServer(opts Options) *chi.Mux {
	logger := opts.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	srv := &Server{board: opts.Board, logger: logger}

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(srv.logRequests)

	r.Get("/health", srv.handleHealth)
	if opts.MCP != nil {
		r.Handle("/mcp", opts.MCP)
		r.Handle("/mcp/*", opts.MCP)
	}

	r.Group(func(r chi.Router) {
		if opts.Auth != nil {
			r.Use(opts.Auth)
		}
		r.Route("/api", func(r chi.Router) {
			r.Get("/state", srv.handleState)
			r.Post("/configure", srv.handleConfigure)
			r.Post("/validate", srv.handleValidate)
			r.Post("/refetch", srv.handleRefetch)
			r.Get("/dashboard", srv.handleDashboard)
			r.Get("/projects", srv.handleProjects)
			r.Get("/projects/{id}", srv.handleProject)
			r.Get("/metrics", srv.handleMetrics)
			r.Get("/activity", srv.handleActivity)
		})
	})

	return r
}

func (s *Server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)
		s.logger.Debug("http request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", ww.Status(),
			"request_id", middleware.GetReqID(r.Context()),
			"duration", time.Since(start))
	})
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}

func (s *Server) handleState(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, s.board.State())
}

// CredentialsRequest is the body of /api/configure and /api/validate.
type CredentialsRequest struct {
	Token              string `json:"token"`
	ProjectsDatabaseID string `json:"projects_database_id"`
	StatusDatabaseID   string `json:"status_database_id"`
	UpdatesDatabaseID  string `json:"updates_database_id"`
}

func (c CredentialsRequest) credentials() dashboard.Credentials {
	return dashboard.Credentials{
		Token:              c.Token,
		ProjectsDatabaseID: c.ProjectsDatabaseID,
		StatusDatabaseID:   c.StatusDatabaseID,
		UpdatesDatabaseID:  c.UpdatesDatabaseID,
	}
}

func decodeCredentials(w http.ResponseWriter, r *http.Request) (dashboard.Credentials, bool) {
	var req CredentialsRequest
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request", "invalid credentials body: "+err.Error())
		return dashboard.Credentials{}, false
	}
	return req.credentials(), true
}

func (s *Server) handleConfigure(w http.ResponseWriter, r *http.Request) {
	creds, ok := decodeCredentials(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, s.board.Configure(r.Context(), creds))
}

func (s *Server) handleValidate(w http.ResponseWriter, r *http.Request) {
	creds, ok := decodeCredentials(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, s.board.Validate(r.Context(), creds))
}

func (s *Server) handleRefetch(w http.ResponseWriter, r *http.Request) {
	state, err := s.board.Refetch(r.Context())
	switch {
	case err == nil:
		writeJSON(w, http.StatusOK, state)
	case errors.Is(err, connection.ErrNotReady):
		writeError(w, http.StatusConflict, "not_ready", "refetch requires a live connection", string(state.State))
	case errors.Is(err, connection.ErrSuperseded):
		writeError(w, http.StatusConflict, "superseded", err.Error())
	default:
		writeError(w, http.StatusBadGateway, "refetch_failed", dashboard.Describe("Data fetch", err))
	}
}

func (s *Server) handleDashboard(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, s.board.Dashboard())
}

func (s *Server) handleProjects(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	query, err := dashboard.NewProjectQuery(
		q.Get("search"),
		q.Get("rag"),
		q.Get("period"),
		q.Get("sort"),
		q["department"],
	)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid_query", err.Error())
		return
	}
	writeJSON(w, http.StatusOK, s.board.Projects(query))
}

func (s *Server) handleProject(w http.ResponseWriter, r *http.Request) {
	detail, err := s.board.Project(chi.URLParam(r, "id"))
	if errors.Is(err, board.ErrProjectNotFound) {
		writeError(w, http.StatusNotFound, "not_found", err.Error())
		return
	}
	if err != nil {
		writeError(w, http.StatusInternalServerError, "internal", err.Error())
		return
	}
	writeJSON(w, http.StatusOK, detail)
}

func (s *Server) handleMetrics(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, s.board.Metrics())
}

func (s *Server) handleActivity(w http.ResponseWriter, r *http.Request) {
	opts, err := parseActivityOptions(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid_query", err.Error())
		return
	}
	entries, err := s.board.RecentActivity(r.Context(), opts)
	if err != nil {
		s.logger.Error("listing activity failed", "error", err)
		writeError(w, http.StatusInternalServerError, "internal", "could not list activity")
		return
	}
	writeJSON(w, http.StatusOK, entries)
}

func parseActivityOptions(r *http.Request) (activity.ListActivityOptions, error) {
	q := r.URL.Query()
	opts := activity.ListActivityOptions{AttemptID: q.Get("attempt_id")}

	if v := q.Get("type"); v != "" {
		typ := activity.ActivityType(v)
		opts.ActivityType = &typ
	}
	if v := q.Get("since"); v != "" {
		since, err := time.Parse(time.RFC3339, v)
		if err != nil {
			return opts, errors.New("since must be an RFC3339 timestamp")
		}
		opts.Since = &since
	}
	var err error
	if opts.Limit, err = parseNonNegative(q.Get("limit")); err != nil {
		return opts, errors.New("limit must be a non-negative integer")
	}
	if opts.Offset, err = parseNonNegative(q.Get("offset")); err != nil {
		return opts, errors.New("offset must be a non-negative integer")
	}
	return opts, nil
}

func parseNonNegative(v string) (int, error) {
	if v == "" {
		return 0, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil || n < 0 {
		return 0, errors.New("invalid")
	}
	return n, nil
}
