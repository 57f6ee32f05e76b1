package monitoring

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/jmoiron/sqlx"
)

// OpsServer serves liveness, readiness and profiling endpoints on a
// separate port from the API.
type OpsServer struct {
	router *chi.Mux
	db     *sqlx.DB
}

// NewOpsServer creates the ops server
func NewOpsServer(db *sqlx.DB) *OpsServer {
	s := &OpsServer{
		router: chi.NewRouter(),
		db:     db,
	}
	s.setupRoutes()
	return s
}

func (s *OpsServer) setupRoutes() {
	s.router.Use(middleware.Recoverer)

	s.router.Get("/healthz", s.handleHealthz)
	s.router.Get("/readyz", s.handleReadyz)
	s.router.Mount("/debug", middleware.Profiler())
}

// Handler returns the underlying handler
func (s *OpsServer) Handler() http.Handler {
	return s.router
}

func (s *OpsServer) handleHealthz(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	w.Write([]byte("ok"))
}

// handleReadyz reports ready only when the database answers a ping.
func (s *OpsServer) handleReadyz(w http.ResponseWriter, r *http.Request) {
	if s.db == nil {
		http.Error(w, "database not configured", http.StatusServiceUnavailable)
		return
	}
	if err := s.db.PingContext(r.Context()); err != nil {
		http.Error(w, "database unreachable", http.StatusServiceUnavailable)
		return
	}
	w.WriteHeader(http.StatusOK)
	w.Write([]byte("ready"))
}
