package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/jackzampolin/fitcheck/internal/api"
	"github.com/jackzampolin/fitcheck/internal/config"
	"github.com/jackzampolin/fitcheck/internal/home"
	"github.com/jackzampolin/fitcheck/internal/llmcall"
	"github.com/jackzampolin/fitcheck/internal/metrics"
	"github.com/jackzampolin/fitcheck/internal/pipeline"
	"github.com/jackzampolin/fitcheck/internal/prompts"
	"github.com/jackzampolin/fitcheck/internal/providers"
	"github.com/jackzampolin/fitcheck/internal/server/endpoints"
	"github.com/jackzampolin/fitcheck/internal/svcctx"
)

// Server is the main fitcheck HTTP server. It owns the provider registry,
// the analysis pipeline, and the in-memory call/metric stores, and swaps
// the pipeline when the configuration is hot-reloaded.
type Server struct {
	httpServer   *http.Server
	registry     *providers.Registry
	configMgr    *config.Manager
	logger       *slog.Logger
	home         *home.Dir
	callStore    *llmcall.Store
	metricsStore *metrics.Store
	resolver     *prompts.Resolver

	// services holds all core services for context enrichment.
	// Replaced wholesale on config reload; read under mu.
	services *svcctx.Services

	// endpoints registry for HTTP routes
	endpointRegistry *api.Registry

	mu      sync.RWMutex
	running bool
}

// Config holds server configuration.
type Config struct {
	// Host is the address to bind to (default: 127.0.0.1)
	Host string
	// Port is the port to listen on (default: 8080)
	Port string
	// ConfigManager provides configuration with hot-reload support
	ConfigManager *config.Manager
	// Home locates the config file for status reporting
	Home *home.Dir
	// Logger is the structured logger to use
	Logger *slog.Logger
}

// New creates a new Server with the given configuration.
func New(cfg Config) (*Server, error) {
	if cfg.Host == "" {
		cfg.Host = "127.0.0.1"
	}
	if cfg.Port == "" {
		cfg.Port = "8080"
	}
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}

	// Create provider registry
	registry := providers.NewRegistry()
	registry.SetLogger(cfg.Logger)

	s := &Server{
		registry:     registry,
		configMgr:    cfg.ConfigManager,
		logger:       cfg.Logger,
		home:         cfg.Home,
		callStore:    llmcall.NewStore(llmcall.DefaultCapacity),
		metricsStore: metrics.NewStore(metrics.DefaultCapacity),
		resolver:     prompts.NewResolver(cfg.Logger),
	}

	// If config manager provided, set up providers and hot reload
	if cfg.ConfigManager != nil {
		registry.Reload(cfg.ConfigManager.Get().ToProviderRegistryConfig())

		// Watch for config changes
		cfg.ConfigManager.OnChange(func(c *config.Config) {
			registry.Reload(c.ToProviderRegistryConfig())
			if err := c.Validate(); err != nil {
				s.logger.Error("reloaded config is invalid, keeping previous pipeline", "error", err)
				return
			}
			if err := s.buildServices(c); err != nil {
				s.logger.Error("pipeline rebuild failed, keeping previous pipeline", "error", err)
				return
			}
			s.logger.Info("provider registry and pipeline reloaded from config")
		})
	}

	// Create endpoint registry and register all endpoints
	s.endpointRegistry = api.NewRegistry()
	for _, ep := range endpoints.All() {
		s.endpointRegistry.Register(ep)
	}

	// Set up HTTP server
	mux := http.NewServeMux()
	s.endpointRegistry.RegisterRoutes(mux, s.requireInit)

	s.httpServer = &http.Server{
		Addr:        net.JoinHostPort(cfg.Host, cfg.Port),
		Handler:     s.withServices(mux),
		ReadTimeout: 30 * time.Second,
		// Analyze responses wait on two sequential model calls
		WriteTimeout: 5 * time.Minute,
		IdleTimeout:  120 * time.Second,
	}

	return s, nil
}

// Start starts the server. It blocks until the context is cancelled or an
// error occurs. An unusable configuration (for example an enabled provider
// whose API key resolves to empty) is fatal before the listener opens.
func (s *Server) Start(ctx context.Context) error {
	s.mu.Lock()
	if s.running {
		s.mu.Unlock()
		return errors.New("server already running")
	}
	s.running = true
	s.mu.Unlock()

	if s.configMgr != nil {
		cfg := s.configMgr.Get()
		if err := cfg.Validate(); err != nil {
			s.setNotRunning()
			return fmt.Errorf("config validation failed: %w", err)
		}
		if err := s.buildServices(cfg); err != nil {
			s.setNotRunning()
			return fmt.Errorf("failed to build pipeline: %w", err)
		}
		s.logger.Info("pipeline ready",
			"provider", cfg.Pipeline.Provider,
			"vision_model", cfg.Pipeline.VisionModel,
			"text_model", cfg.Pipeline.TextModel,
			"strict", cfg.Pipeline.Strict)
	}

	// Start HTTP server in goroutine
	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("starting HTTP server", "addr", s.httpServer.Addr)
		if err := s.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	// Wait for context cancellation or error
	select {
	case <-ctx.Done():
		s.logger.Info("shutdown signal received")
	case err := <-errCh:
		if err != nil {
			s.setNotRunning()
			return fmt.Errorf("HTTP server error: %w", err)
		}
	}

	return s.shutdown()
}

// buildServices builds the pipeline for the given config and swaps in a new
// services struct. The registry, stores, and resolver keep their identity
// across reloads; only the pipeline is rebuilt.
func (s *Server) buildServices(cfg *config.Config) error {
	client, err := s.registry.GetLLM(cfg.Pipeline.Provider)
	if err != nil {
		return fmt.Errorf("pipeline provider %q not available: %w", cfg.Pipeline.Provider, err)
	}

	pl, err := pipeline.New(pipeline.Config{
		Client:          client,
		VisionModel:     cfg.Pipeline.VisionModel,
		TextModel:       cfg.Pipeline.TextModel,
		VisionMaxTokens: cfg.Pipeline.VisionMaxTokens,
		TextMaxTokens:   cfg.Pipeline.TextMaxTokens,
		Strict:          cfg.Pipeline.Strict,
		Calls:           llmcall.NewRecorder(s.callStore),
		Metrics:         metrics.NewRecorder(s.metricsStore),
		Prompts:         s.resolver,
		Logger:          s.logger,
	})
	if err != nil {
		return err
	}

	s.mu.Lock()
	s.services = &svcctx.Services{
		Registry:     s.registry,
		Pipeline:     pl,
		ConfigMgr:    s.configMgr,
		Logger:       s.logger,
		Home:         s.home,
		LLMCallStore: s.callStore,
		MetricsStore: s.metricsStore,
		Prompts:      s.resolver,
	}
	s.mu.Unlock()

	return nil
}

// shutdown performs graceful shutdown of the HTTP server.
func (s *Server) shutdown() error {
	s.logger.Info("shutting down server")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := s.httpServer.Shutdown(shutdownCtx); err != nil {
		s.logger.Error("HTTP server shutdown error", "error", err)
	}

	s.setNotRunning()
	s.logger.Info("server stopped")
	return nil
}

func (s *Server) setNotRunning() {
	s.mu.Lock()
	s.running = false
	s.mu.Unlock()
}

// IsRunning returns whether the server is currently running.
func (s *Server) IsRunning() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.running
}

// Addr returns the server's listen address.
func (s *Server) Addr() string {
	return s.httpServer.Addr
}

// Registry returns the provider registry.
func (s *Server) Registry() *providers.Registry {
	return s.registry
}

// Pipeline returns the current analysis pipeline.
// Returns nil until Start has built the services.
func (s *Server) Pipeline() *pipeline.Pipeline {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.services == nil {
		return nil
	}
	return s.services.Pipeline
}

// withServices wraps a handler to enrich the request context with services.
func (s *Server) withServices(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		s.mu.RLock()
		services := s.services
		s.mu.RUnlock()

		ctx := r.Context()
		if services != nil {
			ctx = svcctx.WithServices(ctx, services)
		}
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// requireInit is middleware that ensures the server is fully initialized.
// Returns 503 Service Unavailable until the pipeline has been built.
func (s *Server) requireInit(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		s.mu.RLock()
		ready := s.services != nil
		s.mu.RUnlock()

		if !ready {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusServiceUnavailable)
			w.Write([]byte(`{"error":"server not fully initialized"}`))
			return
		}
		next(w, r)
	}
}
