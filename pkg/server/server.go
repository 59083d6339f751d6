package server

import (
	"context"
	"crypto/tls"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"
)

// ErrAlreadyStarted is returned by Run when the server is already serving.
var ErrAlreadyStarted = errors.New("server: already started")

// DefaultAPIPrefixes are the paths always sent to the main handler when a
// static directory is configured.
var DefaultAPIPrefixes = []string{"/api/", "/health", "/ready", "/metrics"}

// Server represents an HTTP server with static file serving, optional TLS
// and graceful shutdown.
type Server struct {
	addr          string
	handler       http.Handler
	server        *http.Server
	tlsEnabled    bool
	staticHandler http.Handler
	apiPrefixes   []string
	shutdownGrace time.Duration
	logger        *zap.Logger
	mu            sync.RWMutex
	started       bool
}

// Config holds server configuration.
type Config struct {
	Addr          string
	Handler       http.Handler
	ReadTimeout   time.Duration
	WriteTimeout  time.Duration
	IdleTimeout   time.Duration
	ShutdownGrace time.Duration
	TLSConfig     *tls.Config
	StaticDir     string
	// APIPrefixes defaults to DefaultAPIPrefixes.
	APIPrefixes []string
	Logger      *zap.Logger
}

// New creates a new HTTP server with the given configuration.
func New(cfg Config) *Server {
	if cfg.ReadTimeout == 0 {
		cfg.ReadTimeout = 30 * time.Second
	}
	// Event streams stay open, so no write timeout unless asked for.
	if cfg.IdleTimeout == 0 {
		cfg.IdleTimeout = 120 * time.Second
	}
	if cfg.ShutdownGrace == 0 {
		cfg.ShutdownGrace = 10 * time.Second
	}
	if cfg.APIPrefixes == nil {
		cfg.APIPrefixes = DefaultAPIPrefixes
	}
	if cfg.Logger == nil {
		cfg.Logger = zap.NewNop()
	}

	s := &Server{
		addr:          cfg.Addr,
		handler:       cfg.Handler,
		apiPrefixes:   cfg.APIPrefixes,
		shutdownGrace: cfg.ShutdownGrace,
		logger:        cfg.Logger,
	}
	s.server = &http.Server{
		Addr:         cfg.Addr,
		Handler:      s,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
		IdleTimeout:  cfg.IdleTimeout,
		ErrorLog:     zap.NewStdLog(cfg.Logger),
	}
	if cfg.TLSConfig != nil {
		s.server.TLSConfig = cfg.TLSConfig
		s.tlsEnabled = true
	}
	if cfg.StaticDir != "" {
		s.staticHandler = NewStaticFileHandler(cfg.StaticDir)
	}
	return s
}

// SetHandler sets the main request handler.
func (s *Server) SetHandler(handler http.Handler) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.handler = handler
}

// SetStaticDir sets the directory for static file serving.
func (s *Server) SetStaticDir(dir string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.staticHandler = NewStaticFileHandler(dir)
}

// EnableTLS loads the certificate pair and serves TLS 1.3 only.
func (s *Server) EnableTLS(certFile, keyFile string) error {
	tlsConfig, err := LoadTLSConfig(certFile, keyFile)
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.server.TLSConfig = tlsConfig
	s.tlsEnabled = true
	return nil
}

// TLSEnabled reports whether the server serves TLS.
func (s *Server) TLSEnabled() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.tlsEnabled
}

// ServeHTTP implements http.Handler interface. With a static directory
// configured, requests outside the API prefixes are served from disk.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.mu.RLock()
	staticHandler := s.staticHandler
	handler := s.handler
	s.mu.RUnlock()

	if staticHandler != nil && (handler == nil || !s.isAPIPath(r.URL.Path)) {
		staticHandler.ServeHTTP(w, r)
		return
	}
	if handler != nil {
		handler.ServeHTTP(w, r)
		return
	}
	http.NotFound(w, r)
}

func (s *Server) isAPIPath(path string) bool {
	for _, prefix := range s.apiPrefixes {
		if strings.HasPrefix(path, prefix) {
			return true
		}
	}
	return false
}

// Run serves until ctx is cancelled, then shuts down gracefully within the
// configured grace period. A clean shutdown returns nil.
func (s *Server) Run(ctx context.Context) error {
	s.mu.Lock()
	if s.started {
		s.mu.Unlock()
		return ErrAlreadyStarted
	}
	s.started = true
	tlsEnabled := s.tlsEnabled
	s.mu.Unlock()

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("server listening", zap.String("addr", s.addr), zap.Bool("tls", tlsEnabled))
		var err error
		if tlsEnabled {
			err = s.server.ListenAndServeTLS("", "")
		} else {
			err = s.server.ListenAndServe()
		}
		errCh <- err
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("listen %s: %w", s.addr, err)
	case <-ctx.Done():
	}

	s.logger.Info("shutting down server", zap.Duration("grace", s.shutdownGrace))
	shutdownCtx, cancel := context.WithTimeout(context.Background(), s.shutdownGrace)
	defer cancel()
	if err := s.server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	return nil
}

// Shutdown gracefully shuts down the server.
func (s *Server) Shutdown(ctx context.Context) error {
	if !s.Started() {
		return nil
	}
	return s.server.Shutdown(ctx)
}

// Close closes the server immediately.
func (s *Server) Close() error {
	if !s.Started() {
		return nil
	}
	return s.server.Close()
}

// Addr returns the server address.
func (s *Server) Addr() string {
	return s.server.Addr
}

// Started returns whether the server has been started.
func (s *Server) Started() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.started
}

// HealthHandler returns a handler for liveness checks.
func HealthHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeStatus(w, http.StatusOK, "healthy")
	})
}

// ReadyHandler returns a handler for readiness checks. A nil ready func
// always reports ready.
func ReadyHandler(ready func() bool) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if ready != nil && !ready() {
			writeStatus(w, http.StatusServiceUnavailable, "not ready")
			return
		}
		writeStatus(w, http.StatusOK, "ready")
	})
}

func writeStatus(w http.ResponseWriter, code int, status string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(map[string]string{"status": status})
}
