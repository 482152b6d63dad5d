package api

import (
	"context"
	"log/slog"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/dmitrymomot/standup/pkg/dispatch"
	"github.com/dmitrymomot/standup/pkg/httpserver"
	"github.com/dmitrymomot/standup/pkg/logger"
)

// Store is the part of the topic queue the API reads and appends to.
type Store interface {
	Load(ctx context.Context) ([]string, error)
	Size(ctx context.Context) (int, error)
	Append(ctx context.Context, topics []string) (int, error)
}

// Dispatcher sends the next topic on demand.
type Dispatcher interface {
	Dispatch(ctx context.Context) dispatch.Outcome
}

type config struct {
	logger       *slog.Logger
	readyChecks  []func(context.Context) error
	imagesPrefix string
	imagesDir    string
	maxBodyBytes int64
}

// Option configures the router.
type Option func(*config)

func WithLogger(l *slog.Logger) Option {
	return func(c *config) {
		if l != nil {
			c.logger = l
		}
	}
}

// WithReadyCheck adds a dependency check to /health/ready.
func WithReadyCheck(check func(context.Context) error) Option {
	return func(c *config) {
		if check != nil {
			c.readyChecks = append(c.readyChecks, check)
		}
	}
}

// WithImages serves dir under prefix, e.g. "/images/".
func WithImages(prefix, dir string) Option {
	return func(c *config) {
		if prefix == "" || dir == "" {
			return
		}
		c.imagesPrefix = "/" + strings.Trim(prefix, "/")
		c.imagesDir = dir
	}
}

// WithMaxBodyBytes limits request bodies. Default is 1MB.
func WithMaxBodyBytes(n int64) Option {
	return func(c *config) {
		if n > 0 {
			c.maxBodyBytes = n
		}
	}
}

// NewRouter builds the HTTP handler for the topic queue.
func NewRouter(store Store, dispatcher Dispatcher, opts ...Option) http.Handler {
	cfg := config{logger: slog.Default(), maxBodyBytes: 1 << 20}
	for _, opt := range opts {
		opt(&cfg)
	}
	log := cfg.logger.With(logger.Component("api"))

	h := &handlers{store: store, dispatcher: dispatcher, logger: log, maxBodyBytes: cfg.maxBodyBytes}

	r := chi.NewRouter()
	r.Use(requestID, accessLog(log), recoverer(log))
	r.NotFound(func(w http.ResponseWriter, _ *http.Request) { respondError(w, ErrNotFound) })
	r.MethodNotAllowed(func(w http.ResponseWriter, _ *http.Request) { respondError(w, ErrMethodNotAllowed) })

	r.Route("/topics", func(r chi.Router) {
		r.Get("/", h.listTopics)
		r.Post("/", h.appendTopics)
		r.Get("/size", h.size)
		r.Post("/pop", h.pop)
	})

	checks := append([]func(context.Context) error{h.storeCheck}, cfg.readyChecks...)
	r.Get("/health/live", httpserver.HealthCheckHandler(log))
	r.Get("/health/ready", httpserver.HealthCheckHandler(log, checks...))

	if cfg.imagesDir != "" {
		fs := http.StripPrefix(cfg.imagesPrefix+"/", http.FileServer(http.Dir(cfg.imagesDir)))
		r.Get(cfg.imagesPrefix+"/*", fs.ServeHTTP)
	}

	return r
}
