// Package server exposes Boolean network sessions over HTTP.
//
// Routes:
//
//	GET    /healthz
//	GET    /v1/version
//	GET    /v1/rules
//	GET    /v1/sessions
//	POST   /v1/sessions                 generate or upload a network
//	GET    /v1/sessions/{id}            summary with the state line
//	GET    /v1/sessions/{id}/text       text format
//	GET    /v1/sessions/{id}/render     ?format=dot|svg
//	POST   /v1/sessions/{id}/step       ?n=generations (default 1)
//	DELETE /v1/sessions/{id}
//
// Errors are JSON objects {"error": {"code": ..., "message": ...}} with the
// HTTP status chosen from the error code.
package server

import (
	"context"
	"io"
	"net/http"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/matzehuels/boolnet/pkg/network"
	"github.com/matzehuels/boolnet/pkg/rule"
	"github.com/matzehuels/boolnet/pkg/session"
)

// Limits applied when Config leaves them zero.
const (
	DefaultMaxNodes    = 1 << 20
	DefaultMaxEdges    = 1 << 24
	DefaultMaxSteps    = 10_000
	DefaultMaxBodySize = 64 << 20
)

// Config configures a Server.
type Config struct {
	Registry *rule.Registry
	Store    session.Store
	Stepper  *network.Stepper
	Logger   *log.Logger

	// Seed seeds the shared generator used when a request gives no seed.
	Seed uint64

	MaxNodes    int
	// MaxEdges caps nodes × max_connections for generated networks.
	MaxEdges    int
	MaxSteps    int
	MaxBodySize int64
}

// Server serves the session API.
type Server struct {
	reg     *rule.Registry
	store   session.Store
	stepper *network.Stepper
	logger  *log.Logger
	limits  limits

	genMu sync.Mutex
	gen   *network.Generator

	locks keyedMutex
}

type limits struct {
	nodes, edges, steps int
	body         int64
}

// New creates a Server. A nil Registry uses rule.Builtin, a nil Store an
// in-memory store, and a nil Logger discards output.
func New(cfg Config) *Server {
	s := &Server{
		reg:     cfg.Registry,
		store:   cfg.Store,
		stepper: cfg.Stepper,
		logger:  cfg.Logger,
		limits: limits{
			nodes: cmpOr(cfg.MaxNodes, DefaultMaxNodes),
			edges: cmpOr(cfg.MaxEdges, DefaultMaxEdges),
			steps: cmpOr(cfg.MaxSteps, DefaultMaxSteps),
			body:  cmpOr(cfg.MaxBodySize, DefaultMaxBodySize),
		},
	}
	if s.reg == nil {
		s.reg = rule.Builtin()
	}
	if s.store == nil {
		s.store = session.NewMemoryStore()
	}
	if s.stepper == nil {
		s.stepper = network.NewStepper()
	}
	if s.logger == nil {
		s.logger = log.New(io.Discard)
	}
	s.gen = network.NewGenerator(s.reg, cfg.Seed)
	return s
}

func cmpOr[T int | int64](v, def T) T {
	if v > 0 {
		return v
	}
	return def
}

// Handler returns the HTTP handler with all routes and middleware.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(s.instrument)

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	r.Route("/v1", func(r chi.Router) {
		r.Get("/version", s.handleVersion)
		r.Get("/rules", s.handleRules)
		r.Route("/sessions", func(r chi.Router) {
			r.Get("/", s.handleList)
			r.Post("/", s.handleCreate)
			r.Route("/{id}", func(r chi.Router) {
				r.Get("/", s.handleGet)
				r.Get("/text", s.handleText)
				r.Get("/render", s.handleRender)
				r.Post("/step", s.handleStep)
				r.Delete("/", s.handleDelete)
			})
		})
	})
	return r
}

// Run serves on addr until ctx is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errc := make(chan error, 1)
	go func() { errc <- srv.ListenAndServe() }()
	s.logger.Info("listening", "addr", addr)

	select {
	case err := <-errc:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	s.logger.Info("server stopped")
	return nil
}

// generate draws from the shared generator, or a fresh one when seed is set.
func (s *Server) generate(seed *uint64, nodes, minConn, maxConn int) (*network.Network, error) {
	if seed != nil {
		return network.NewGenerator(s.reg, *seed).Generate(nodes, minConn, maxConn)
	}
	s.genMu.Lock()
	defer s.genMu.Unlock()
	return s.gen.Generate(nodes, minConn, maxConn)
}

// keyedMutex serializes read-modify-write cycles per session ID. An entry
// lives only while some request holds or waits for it.
type keyedMutex struct {
	mu    sync.Mutex
	locks map[string]*keyedLock
}

type keyedLock struct {
	sync.Mutex
	refs int
}

func (k *keyedMutex) lock(id string) func() {
	k.mu.Lock()
	if k.locks == nil {
		k.locks = make(map[string]*keyedLock)
	}
	l, ok := k.locks[id]
	if !ok {
		l = &keyedLock{}
		k.locks[id] = l
	}
	l.refs++
	k.mu.Unlock()

	l.Lock()
	return func() {
		l.Unlock()
		k.mu.Lock()
		if l.refs--; l.refs == 0 {
			delete(k.locks, id)
		}
		k.mu.Unlock()
	}
}

// size reports the number of live entries.
func (k *keyedMutex) size() int {
	k.mu.Lock()
	defer k.mu.Unlock()
	return len(k.locks)
}
