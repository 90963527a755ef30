package web

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gorilla/mux"

	"github.com/posting-planner/internal/dataset"
	"github.com/posting-planner/internal/session"
	"github.com/posting-planner/internal/web/handlers"
	"github.com/posting-planner/internal/web/middleware"
)

// Server represents the web server
type Server struct {
	config     *Config
	sessions   *session.Registry
	report     *dataset.LoadReport
	httpServer *http.Server
	router     *mux.Router
	handler    http.Handler
}

// NewServer creates a new web server instance. Every session starts from
// the registry's base dataset; report describes how it was loaded.
func NewServer(config *Config, sessions *session.Registry, report *dataset.LoadReport) *Server {
	server := &Server{
		config:   config,
		sessions: sessions,
		report:   report,
	}

	server.setupRoutes()

	server.httpServer = &http.Server{
		Addr:         fmt.Sprintf("%s:%d", config.Server.Host, config.Server.Port),
		Handler:      server.handler,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	return server
}

// Handler returns the routed handler with its middleware, mainly for tests
func (s *Server) Handler() http.Handler {
	return s.handler
}

// setupRoutes configures all HTTP routes
func (s *Server) setupRoutes() {
	s.router = mux.NewRouter()

	// Convert config for handlers (to avoid import cycle)
	handlerConfig := &handlers.Config{}
	handlerConfig.Features.ExportEnabled = s.config.Features.ExportEnabled
	handlerConfig.Features.MergeEnabled = s.config.Features.MergeEnabled
	handlerConfig.Defaults.UnitPrice = s.config.Defaults.UnitPrice
	handlerConfig.Defaults.RadiusKm = s.config.Defaults.RadiusKm
	handlerConfig.Cities = s.config.Cities
	handlerConfig.Aliases = s.config.Aliases
	handlerConfig.MaxUploadBytes = s.config.MaxUploadBytes

	apiHandler := &handlers.APIHandler{
		Sessions: s.sessions,
		Commands: session.NewHandlers(s.config.Debug),
		Config:   handlerConfig,
		Report:   s.report,
	}

	s.router.HandleFunc("/health", apiHandler.Health).Methods("GET")

	api := s.router.PathPrefix("/api").Subrouter()

	// Session lifecycle
	api.HandleFunc("/sessions", apiHandler.CreateSession).Methods("POST")
	api.HandleFunc("/sessions/{id}", apiHandler.DeleteSession).Methods("DELETE")

	// Dataset
	api.HandleFunc("/sessions/{id}/dataset", apiHandler.GetDataset).Methods("GET")
	if s.config.Features.MergeEnabled {
		api.HandleFunc("/sessions/{id}/dataset/merge", apiHandler.MergeDataset).Methods("POST")
	}

	// Selection
	api.HandleFunc("/sessions/{id}/candidates", apiHandler.ListCandidates).Methods("GET")
	api.HandleFunc("/sessions/{id}/selection", apiHandler.GetSelection).Methods("GET")
	api.HandleFunc("/sessions/{id}/selection", apiHandler.UpdateSelection).Methods("POST")

	// Radius search
	api.HandleFunc("/sessions/{id}/radius", apiHandler.RadiusSearch).Methods("GET")

	if s.config.Features.ExportEnabled {
		api.HandleFunc("/sessions/{id}/export", apiHandler.Export).Methods("GET")
	}

	// Wrapped around the router so preflight requests, which match no
	// route, still get CORS headers
	s.handler = middleware.RequestLogging()(middleware.CORS()(s.router))
}

// Start starts the web server and blocks until SIGINT or SIGTERM
func (s *Server) Start() error {
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)

	errCh := make(chan error, 1)
	go func() {
		fmt.Printf("Starting server on http://%s\n", s.httpServer.Addr)
		if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return fmt.Errorf("server error: %w", err)
	case <-stop:
	}
	fmt.Println("Shutting down server...")

	// Graceful shutdown with timeout
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := s.httpServer.Shutdown(ctx); err != nil {
		return fmt.Errorf("server shutdown: %w", err)
	}

	fmt.Println("Server stopped")
	return nil
}
