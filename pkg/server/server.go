// Package server is the custody web UI: an HTML form that produces the
// Chain-of-Custody PDF, plus a small JSON API over the same pipeline.
//
// Routes:
//
//	GET  /              the HTML form
//	POST /coc           HTML form submission, answers with the PDF download
//	POST /api/coc       JSON or YAML form, answers with the PDF (?format=json for the column plan)
//	POST /api/columns   JSON or YAML form, answers with the column plan preview
//	GET  /api/catalog   the analyte catalogue with methods
//	GET  /healthz       liveness and build information
package server

import (
	"context"
	stderrors "errors"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/kelplab/custody/pkg/pipeline"
)

// Defaults for zero Config fields.
const (
	DefaultAddr           = "127.0.0.1:8080"
	DefaultRequestTimeout = 30 * time.Second
	DefaultSampleRows     = 10
	shutdownTimeout       = 5 * time.Second
)

// Config holds the server settings.
type Config struct {
	Addr           string
	RequestTimeout time.Duration
	// RowsPerPage is passed to the form renderer.
	RowsPerPage int
	// Logo is drawn in the form header; nil leaves the header text-only.
	Logo     []byte
	LogoName string
	// SampleRows is the number of blank sample rows the HTML form offers.
	SampleRows int
}

func (c Config) withDefaults() Config {
	if c.Addr == "" {
		c.Addr = DefaultAddr
	}
	if c.RequestTimeout <= 0 {
		c.RequestTimeout = DefaultRequestTimeout
	}
	if c.SampleRows <= 0 {
		c.SampleRows = DefaultSampleRows
	}
	return c
}

// Server serves the web UI. It is safe for concurrent use.
type Server struct {
	runner *pipeline.Runner
	cfg    Config
	logger *log.Logger
	router chi.Router
	now    func() time.Time
}

// New builds a server rendering through runner.
func New(runner *pipeline.Runner, cfg Config, logger *log.Logger) *Server {
	if logger == nil {
		logger = log.Default()
	}
	s := &Server{
		runner: runner,
		cfg:    cfg.withDefaults(),
		logger: logger.WithPrefix("http"),
		now:    time.Now,
	}
	s.router = s.routes()
	return s
}

func (s *Server) routes() chi.Router {
	r := chi.NewRouter()
	r.Use(s.requestID)
	r.Use(s.logRequests)
	r.Use(middleware.Recoverer)

	r.Get("/healthz", s.handleHealth)
	r.Group(func(r chi.Router) {
		r.Use(middleware.Timeout(s.cfg.RequestTimeout))
		r.Get("/", s.handleIndex)
		r.Post("/coc", s.handleSubmit)
		r.Route("/api", func(r chi.Router) {
			r.Get("/catalog", s.handleCatalog)
			r.Post("/coc", s.handleAPICOC)
			r.Post("/columns", s.handleColumns)
		})
	})
	return r
}

// Handler returns the root handler, for tests and embedding.
func (s *Server) Handler() http.Handler {
	return s.router
}

// Addr returns the listen address.
func (s *Server) Addr() string {
	return s.cfg.Addr
}

// ListenAndServe serves until ctx is canceled, then shuts down gracefully.
func (s *Server) ListenAndServe(ctx context.Context) error {
	srv := &http.Server{
		Addr:              s.cfg.Addr,
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errc := make(chan error, 1)
	go func() {
		s.logger.Info("listening", "addr", s.cfg.Addr)
		errc <- srv.ListenAndServe()
	}()

	select {
	case err := <-errc:
		if stderrors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	s.logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}
