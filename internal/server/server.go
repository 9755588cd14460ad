package server

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"

	"github.com/sebbyk/airwaves/api"
	"github.com/sebbyk/airwaves/internal/auth"
	"github.com/sebbyk/airwaves/internal/catalog"
	"github.com/sebbyk/airwaves/internal/config"
	"github.com/sebbyk/airwaves/internal/idp"
	"github.com/sebbyk/airwaves/internal/store"
)

// Server holds dependencies for the HTTP API.
type Server struct {
	store     store.Store
	resolver  *catalog.Resolver
	validator *auth.Validator
	directory *auth.Directory
	idp       *idp.Client
	cfg       *config.Config
	log       zerolog.Logger
	mux       *http.ServeMux
}

// New creates a Server and registers routes.
func New(s store.Store, validator *auth.Validator, provider *idp.Client, cfg *config.Config, log zerolog.Logger) *Server {
	srv := &Server{
		store:     s,
		resolver:  catalog.NewResolver(s),
		validator: validator,
		directory: auth.NewDirectory(s),
		idp:       provider,
		cfg:       cfg,
		log:       log,
		mux:       http.NewServeMux(),
	}
	srv.routes()
	return srv
}

func (s *Server) routes() {
	s.mux.HandleFunc("GET /health", s.handleHealth)
	s.mux.Handle("GET /metrics", promhttp.Handler())

	// Public catalog
	s.mux.HandleFunc("GET /api/tmas", s.handleListTMAs)
	s.mux.HandleFunc("GET /api/tmas/{id}", s.handleGetTMA)
	s.mux.HandleFunc("GET /api/tmas/{id}/stations", s.handleTMAStations)
	s.mux.HandleFunc("GET /api/stations", s.handleSearchStations)
	s.mux.HandleFunc("GET /api/stations/{id}", s.handleGetStation)
	s.mux.HandleFunc("GET /api/station-groups", s.handleListStationGroups)
	s.mux.HandleFunc("GET /api/networks", s.handleListNetworks)
	s.mux.HandleFunc("GET /api/networks/{id}", s.handleGetNetwork)

	// OAuth proxy (keeps the client secret server-side)
	s.mux.HandleFunc("POST /api/auth/token", s.handleAuthToken)
	s.mux.HandleFunc("POST /api/auth/refresh", s.handleAuthRefresh)
	s.mux.HandleFunc("POST /api/auth/revoke", s.handleAuthRevoke)

	// Authenticated
	s.mux.Handle("GET /api/users/me", s.authenticated(s.handleMe))
	s.mux.Handle("POST /api/feedback", s.authenticated(s.handleSubmitFeedback))
	s.mux.Handle("GET /api/feedback/mine", s.authenticated(s.handleMyFeedback))

	// Admin
	s.mux.Handle("PATCH /api/admin/tmas/{id}", s.admin(s.handlePatchTMA))
	s.mux.Handle("POST /api/admin/stations", s.admin(s.handleCreateStation))
	s.mux.Handle("PUT /api/admin/stations/{id}", s.admin(s.handleUpdateStation))
	s.mux.Handle("DELETE /api/admin/stations/{id}", s.admin(s.handleDeleteStation))
	s.mux.Handle("POST /api/admin/substations", s.admin(s.handleCreateSubstation))
	s.mux.Handle("PUT /api/admin/substations/{id}", s.admin(s.handleUpdateSubstation))
	s.mux.Handle("DELETE /api/admin/substations/{id}", s.admin(s.handleDeleteSubstation))
	s.mux.Handle("POST /api/admin/networks", s.admin(s.handleCreateNetwork))
	s.mux.Handle("PUT /api/admin/networks/{id}", s.admin(s.handleUpdateNetwork))
	s.mux.Handle("DELETE /api/admin/networks/{id}", s.admin(s.handleDeleteNetwork))
	s.mux.Handle("GET /api/admin/station-groups", s.admin(s.handleListStationGroups))
	s.mux.Handle("GET /api/admin/station-groups/{id}", s.admin(s.handleGetStationGroup))
	s.mux.Handle("POST /api/admin/station-groups", s.admin(s.handleCreateStationGroup))
	s.mux.Handle("PUT /api/admin/station-groups/{id}", s.admin(s.handleUpdateStationGroup))
	s.mux.Handle("DELETE /api/admin/station-groups/{id}", s.admin(s.handleDeleteStationGroup))
	s.mux.Handle("GET /api/admin/users", s.admin(s.handleListUsers))
	s.mux.Handle("PATCH /api/admin/users/{id}", s.admin(s.handlePatchUser))
	s.mux.Handle("GET /api/admin/feedback", s.admin(s.handleListFeedback))
	s.mux.Handle("PATCH /api/admin/feedback/{id}", s.admin(s.handlePatchFeedback))

	// Docs
	s.mux.HandleFunc("GET /api/docs", handleSwaggerUI)
	s.mux.HandleFunc("GET /api/docs/openapi.yaml", handleOpenAPISpec)

	// JSON 404 for everything else
	s.mux.HandleFunc("/", s.handleNotFound)
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.mux.ServeHTTP(w, r)
}

// ListenAndServe starts the HTTP server on the configured port.
// It blocks until the server is shut down or ctx is cancelled.
func (s *Server) ListenAndServe(ctx context.Context) error {
	addr := ":" + s.cfg.ServerPort
	httpServer := &http.Server{
		Addr:         addr,
		Handler:      s.withCORS(s.withLogging(s.withRecovery(s))),
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	// Graceful shutdown on context cancellation.
	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			s.log.Error().Err(err).Msg("server shutdown")
		}
	}()

	s.log.Info().Str("addr", addr).Msg("listening")
	if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return fmt.Errorf("ListenAndServe: %w", err)
	}
	return nil
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleNotFound(w http.ResponseWriter, _ *http.Request) {
	writeErr(w, http.StatusNotFound, "The requested resource was not found")
}

// --- docs handlers ---

func handleOpenAPISpec(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "application/yaml")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(api.OpenAPISpec)
}

func handleSwaggerUI(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = fmt.Fprint(w, swaggerUIHTML)
}

const swaggerUIHTML = `<!DOCTYPE html>
<html lang="en">
<head>
  <meta charset="UTF-8">
  <title>Airwaves API Docs</title>
  <link rel="stylesheet" href="https://unpkg.com/swagger-ui-dist@5/swagger-ui.css">
  <style>html{box-sizing:border-box;overflow-y:scroll}*,*:before,*:after{box-sizing:inherit}body{margin:0;background:#fafafa}</style>
</head>
<body>
  <div id="swagger-ui"></div>
  <script src="https://unpkg.com/swagger-ui-dist@5/swagger-ui-bundle.js"></script>
  <script>
    SwaggerUIBundle({
      url: "/api/docs/openapi.yaml",
      dom_id: "#swagger-ui",
      presets: [SwaggerUIBundle.presets.apis],
      layout: "BaseLayout",
    });
  </script>
</body>
</html>`
