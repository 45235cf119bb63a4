// Package api serves the citizen/analyst/authority web API over the report
// store. Identity arrives as a signed bearer token; each endpoint is gated
// by role before it touches the store.
package api

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"

	"github.com/aquasentry/aquasentry/internal/domain"
)

// ReportStore is the persistence surface the API needs.
type ReportStore interface {
	Create(ctx context.Context, report domain.Report) (int64, error)
	List(ctx context.Context) ([]domain.Report, error)
	ListNonNew(ctx context.Context) ([]domain.Report, error)
	ListByUser(ctx context.Context, userID int64) ([]domain.Report, error)
	UpdateStatus(ctx context.Context, id int64, status domain.Status, notes *string) (domain.Report, error)
	Summary(ctx context.Context) (domain.Summary, error)
}

// Server is the public-facing HTTP API.
type Server struct {
	httpServer *http.Server
	store      ReportStore
	jwtSecret  string
	logger     *slog.Logger
}

// NewServer creates the API server listening on addr. jwtSecret verifies the
// bearer tokens issued by the identity provider.
func NewServer(addr string, store ReportStore, jwtSecret string, logger *slog.Logger) *Server {
	s := &Server{
		store:     store,
		jwtSecret: jwtSecret,
		logger:    logger,
	}

	s.httpServer = &http.Server{
		Addr:         addr,
		Handler:      s.routes(),
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	return s
}

// routes wires middlewares and endpoints. Adjust CORS for your frontend hosts.
func (s *Server) routes() http.Handler {
	r := chi.NewRouter()

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"http://localhost:5173", "http://localhost:3000"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	r.Get("/healthz", s.handleHealth)

	r.Route("/api", func(api chi.Router) {
		api.Group(func(pr chi.Router) {
			pr.Use(s.identityMiddleware)
			pr.Get("/reports", s.handleListReports)
			pr.Get("/my-reports", s.handleMyReports)
			pr.Post("/reports", s.handleCreateReport)
			pr.Put("/reports/{id}/status", s.handleUpdateStatus)
			pr.Get("/reports/summary", s.handleSummary)
		})
	})

	return r
}

// Start begins listening. Returns http.ErrServerClosed on graceful shutdown.
func (s *Server) Start() error {
	s.logger.Info("api server starting", "addr", s.httpServer.Addr)
	return s.httpServer.ListenAndServe()
}

// Shutdown gracefully drains connections within the given context deadline.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.httpServer.Shutdown(ctx)
}

// ServeHTTP delegates to the underlying handler, useful for testing.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.httpServer.Handler.ServeHTTP(w, r)
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "healthy"})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v) //nolint:errcheck // response already committed
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}
