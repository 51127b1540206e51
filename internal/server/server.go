// Package server exposes the dashboard and its event API over HTTP.
package server

import (
	"context"
	"net/http"
	"os"
	"time"

	"github.com/gorilla/handlers"
	"github.com/gorilla/mux"

	"github.com/banana0000/Europen-Monthlty-Electricity/internal/config"
	"github.com/banana0000/Europen-Monthlty-Electricity/internal/controller"
	"github.com/banana0000/Europen-Monthlty-Electricity/internal/dashboard"
	"github.com/banana0000/Europen-Monthlty-Electricity/internal/dataset"
	"github.com/banana0000/Europen-Monthlty-Electricity/internal/fetchers"
	"github.com/banana0000/Europen-Monthlty-Electricity/internal/llm"
	"github.com/banana0000/Europen-Monthlty-Electricity/internal/logger"
	"github.com/banana0000/Europen-Monthlty-Electricity/internal/metrics"
	"github.com/banana0000/Europen-Monthlty-Electricity/internal/session"
	"github.com/banana0000/Europen-Monthlty-Electricity/internal/snapshot"
	"github.com/banana0000/Europen-Monthlty-Electricity/internal/storage"
)

// Options carries the wired components the server serves.
type Options struct {
	Config      *config.Config
	Store       *dataset.Store
	Sessions    *session.Manager
	Controller  *controller.Controller
	Dashboard   *dashboard.Builder
	News        *fetchers.NewsFetcher
	LLM         *llm.OpenAIClient
	Metrics     *metrics.Metrics
	Storage     storage.Client
	Snapshotter *snapshot.Snapshotter
	Version     string
}

// Server is the HTTP surface of the dashboard service.
type Server struct {
	cfg         *config.Config
	store       *dataset.Store
	sessions    *session.Manager
	controller  *controller.Controller
	dashboard   *dashboard.Builder
	news        *fetchers.NewsFetcher
	llm         *llm.OpenAIClient
	metrics     *metrics.Metrics
	storage     storage.Client
	snapshotter *snapshot.Snapshotter
	version     string
	httpServer  *http.Server
}

// NewServer creates the server around pre-built components.
func NewServer(opts Options) *Server {
	return &Server{
		cfg:         opts.Config,
		store:       opts.Store,
		sessions:    opts.Sessions,
		controller:  opts.Controller,
		dashboard:   opts.Dashboard,
		news:        opts.News,
		llm:         opts.LLM,
		metrics:     opts.Metrics,
		storage:     opts.Storage,
		snapshotter: opts.Snapshotter,
		version:     opts.Version,
	}
}

// SetupRoutes builds the router with all dashboard, API, export and
// observability endpoints, instrumented per route.
func (s *Server) SetupRoutes() *mux.Router {
	r := mux.NewRouter()

	route := func(path string, handler http.HandlerFunc) http.Handler {
		return s.metrics.WrapHandler(path, handler)
	}

	r.Handle("/", route("/", s.HandleDashboard)).Methods("GET")
	r.Handle("/api/selection", route("/api/selection", s.HandleSelection)).Methods("POST")
	r.Handle("/api/animation/toggle", route("/api/animation/toggle", s.HandleToggle)).Methods("POST")
	r.Handle("/api/animation/tick", route("/api/animation/tick", s.HandleTick)).Methods("POST")
	r.Handle("/api/countries", route("/api/countries", s.HandleCountries)).Methods("GET")
	r.Handle("/api/news", route("/api/news", s.HandleNews)).Methods("GET")
	r.Handle("/api/insights", route("/api/insights", s.HandleInsights)).Methods("POST")
	r.Handle("/api/snapshot", route("/api/snapshot", s.HandleSnapshot)).Methods("POST")
	r.Handle("/api/snapshots", route("/api/snapshots", s.HandleSnapshotList)).Methods("GET")
	r.Handle("/charts/page", route("/charts/page", s.HandlePrintablePage)).Methods("GET")
	r.Handle("/export/linechart.png", route("/export/linechart.png", s.HandleLinePNG)).Methods("GET")
	r.Handle("/export/data.xlsx", route("/export/data.xlsx", s.HandleXLSX)).Methods("GET")
	r.PathPrefix("/snapshots/").Handler(route("/snapshots/", s.HandleSnapshotFile)).Methods("GET")
	r.Handle("/health", route("/health", s.HandleHealth)).Methods("GET")
	r.Handle("/metrics", s.metrics.Handler()).Methods("GET")

	return r
}

// Start serves on the configured port, bound to all interfaces, until the
// context is canceled; it then drains in-flight requests.
func (s *Server) Start(ctx context.Context) error {
	handler := handlers.RecoveryHandler()(s.SetupRoutes())
	handler = handlers.CombinedLoggingHandler(os.Stdout, handler)

	s.httpServer = &http.Server{
		Addr:              ":" + s.cfg.Port,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("Server listening", map[string]interface{}{"port": s.cfg.Port})
		if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	logger.Info("Server shutting down")
	return s.httpServer.Shutdown(shutdownCtx)
}

// Close releases the server's long-lived resources.
func (s *Server) Close() error {
	if s.snapshotter != nil {
		s.snapshotter.Stop()
	}
	if s.sessions != nil {
		s.sessions.Close()
	}
	if s.storage != nil {
		return s.storage.Close()
	}
	return nil
}
