// Package api serves the string art pipeline over HTTP.
//
// # Endpoints
//
//	POST /v1/generate   multipart form: image (file), config (JSON, optional)
//	                    query: format=png|jpeg|svg|json, nails=true
//	GET  /v1/nails      query: width, height, shape, nail_step, scale_x, scale_y
//	GET  /healthz
//	GET  /version
//
// /v1/generate answers with the artifact bytes. The run ID, the number of
// pulls and whether the plan came from cache are reported in the
// X-Stringart-Run, X-Stringart-Pulls and X-Stringart-Cache headers. Errors
// are JSON bodies produced by [httputil.WriteError].
//
// The config field is decoded on top of the server defaults, so clients
// only send the keys they want to change:
//
//	curl -F image=@portrait.jpg -F 'config={"pulls": 3000, "background": "dark"}' \
//	    'http://localhost:8080/v1/generate?format=svg' > portrait.svg
//
// [httputil.WriteError]: github.com/matzehuels/stringart/pkg/httputil.WriteError
package api

import (
	"context"
	stderrors "errors"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/matzehuels/stringart/pkg/config"
	"github.com/matzehuels/stringart/pkg/pipeline"
)

// Defaults for [Limits] and request handling.
const (
	DefaultTimeout        = 5 * time.Minute
	DefaultMaxUploadBytes = 20 << 20
	DefaultMaxWorkingSize = 1200
	DefaultMaxOutputSize  = 4096
	DefaultMaxPulls       = 20000

	shutdownTimeout = 10 * time.Second
	multipartMemory = 8 << 20
)

// Limits bounds what a single request may ask for.
type Limits struct {
	MaxUploadBytes int64
	MaxWorkingSize int
	MaxOutputSize  int
	MaxPulls       int
}

// DefaultLimits returns the limits used when none are configured.
func DefaultLimits() Limits {
	return Limits{
		MaxUploadBytes: DefaultMaxUploadBytes,
		MaxWorkingSize: DefaultMaxWorkingSize,
		MaxOutputSize:  DefaultMaxOutputSize,
		MaxPulls:       DefaultMaxPulls,
	}
}

// Server handles API requests. It is safe for concurrent use.
type Server struct {
	runner   *pipeline.Runner
	logger   *log.Logger
	defaults config.Config
	limits   Limits
	timeout  time.Duration
}

// Option configures a Server.
type Option func(*Server)

// WithDefaults sets the configuration that request overrides apply to.
func WithDefaults(cfg config.Config) Option {
	return func(s *Server) { s.defaults = cfg }
}

// WithLimits sets the per-request limits.
func WithLimits(l Limits) Option {
	return func(s *Server) { s.limits = l }
}

// WithTimeout sets the deadline of a single generate request.
func WithTimeout(d time.Duration) Option {
	return func(s *Server) { s.timeout = d }
}

// New creates a server running requests through runner.
func New(runner *pipeline.Runner, logger *log.Logger, opts ...Option) *Server {
	if logger == nil {
		logger = log.Default()
	}
	s := &Server{
		runner:   runner,
		logger:   logger,
		defaults: config.Default(),
		limits:   DefaultLimits(),
		timeout:  DefaultTimeout,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Handler returns the routed HTTP handler.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(s.logRequests)
	r.Use(middleware.Recoverer)

	r.NotFound(s.handleNotFound)

	r.Get("/healthz", s.handleHealth)
	r.Get("/version", s.handleVersion)

	r.Route("/v1", func(r chi.Router) {
		r.Use(middleware.Timeout(s.timeout))
		r.Post("/generate", s.handleGenerate)
		r.Get("/nails", s.handleNails)
	})

	return r
}

// ListenAndServe serves on addr until ctx is cancelled, then shuts down
// gracefully.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errc := make(chan error, 1)
	go func() {
		s.logger.Info("listening", "addr", addr)
		errc <- srv.ListenAndServe()
	}()

	select {
	case err := <-errc:
		return err
	case <-ctx.Done():
	}

	s.logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	if err := <-errc; err != nil && !stderrors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}
