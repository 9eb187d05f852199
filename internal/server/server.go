// Package server implements the HTTP preview server for demoreel serve.
package server

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"slices"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/wethinkt/go-demoreel/internal/applog"
	"github.com/wethinkt/go-demoreel/internal/render"
	"github.com/wethinkt/go-demoreel/internal/scenario"
	"github.com/wethinkt/go-demoreel/internal/theme"
	"github.com/wethinkt/go-demoreel/internal/timeline"
)

// Config holds server configuration.
type Config struct {
	Port   int
	Host   string
	Theme  theme.Theme
	Labels render.Labels

	// Scenarios loaded from files, served next to the embedded presets.
	// A file scenario shadows a preset of the same name.
	Scenarios []scenario.Scenario
}

// DefaultConfig returns a default configuration.
func DefaultConfig() Config {
	return Config{
		Port:   7480,
		Host:   "localhost",
		Theme:  theme.DefaultTheme(),
		Labels: render.DefaultLabels(),
	}
}

// entry is a prepared scenario. The animation is encoded on first request.
type entry struct {
	env    *render.Env
	frames []timeline.Frame

	gifOnce sync.Once
	gif     []byte
	gifErr  error
}

// HTTPServer renders frames and animations on demand.
type HTTPServer struct {
	router chi.Router
	config Config

	mu      sync.Mutex
	entries map[string]*entry
}

// NewHTTPServer creates a new preview server.
func NewHTTPServer(config Config) *HTTPServer {
	s := &HTTPServer{
		config:  config,
		entries: make(map[string]*entry),
	}
	s.router = s.setupRouter()
	return s
}

// setupRouter configures all routes.
func (s *HTTPServer) setupRouter() chi.Router {
	r := chi.NewRouter()

	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.RequestID)

	r.Route("/api/v1", func(r chi.Router) {
		r.Get("/scenarios", s.handleListScenarios)
		r.Get("/scenarios/{name}", s.handleGetScenario)
		r.Get("/scenarios/{name}/timeline", s.handleGetTimeline)
		r.Get("/scenarios/{name}/frames/{index}.png", s.handleGetFrame)
		r.Get("/scenarios/{name}/animation.gif", s.handleGetAnimation)
	})
	r.Handle("/metrics", promhttp.Handler())
	r.Get("/", s.handleIndex)

	return r
}

// Router returns the chi router, for tests and embedding.
func (s *HTTPServer) Router() chi.Router {
	return s.router
}

// Addr returns the server address.
func (s *HTTPServer) Addr() string {
	return fmt.Sprintf("%s:%d", s.config.Host, s.config.Port)
}

// ListenAndServe serves until ctx is cancelled, then shuts down gracefully.
func (s *HTTPServer) ListenAndServe(ctx context.Context) error {
	srv := &http.Server{
		Addr:              s.Addr(),
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	ln, err := net.Listen("tcp", srv.Addr)
	if err != nil {
		return fmt.Errorf("listen: %w", err)
	}

	// Update port if it was auto-assigned
	if s.config.Port == 0 {
		s.config.Port = ln.Addr().(*net.TCPAddr).Port
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		srv.Shutdown(shutdownCtx)
	}()

	applog.Log.Info("server listening", "addr", s.Addr())
	if err := srv.Serve(ln); !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// names lists every servable scenario, sorted.
func (s *HTTPServer) names() []string {
	names := scenario.Presets()
	for _, sc := range s.config.Scenarios {
		if !slices.Contains(names, sc.Name) {
			names = append(names, sc.Name)
		}
	}
	slices.Sort(names)
	return names
}

// lookup returns the prepared entry for name, building it on first use.
func (s *HTTPServer) lookup(name string) (*entry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if e, ok := s.entries[name]; ok {
		return e, nil
	}

	var (
		sc    scenario.Scenario
		found bool
	)
	for _, c := range s.config.Scenarios {
		if c.Name == name {
			sc, found = c, true
			break
		}
	}
	if !found {
		var err error
		if sc, err = scenario.LoadPreset(name); err != nil {
			return nil, err
		}
	}

	env, err := render.NewEnv(sc, s.config.Theme, s.config.Labels)
	if err != nil {
		return nil, err
	}
	e := &entry{env: env, frames: timeline.Build(sc)}
	s.entries[name] = e
	return e, nil
}
