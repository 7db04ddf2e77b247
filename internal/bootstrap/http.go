package bootstrap

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/nccmultimedia/attendance-server/internal/config"
)

// ShutdownHook releases a component after the HTTP server stops accepting
// requests.
type ShutdownHook struct {
	Name string
	Fn   func(ctx context.Context) error
}

// Server owns the HTTP listener and the shutdown order of the components
// behind it.
type Server struct {
	cfg    *config.Config
	server *http.Server
	hooks  []ShutdownHook
}

func New(cfg *config.Config, handler http.Handler) *Server {
	return &Server{
		cfg: cfg,
		server: &http.Server{
			Addr:           fmt.Sprintf(":%d", cfg.App.Port),
			Handler:        handler,
			ReadTimeout:    cfg.Server.ReadTimeout,
			WriteTimeout:   cfg.Server.WriteTimeout,
			IdleTimeout:    cfg.Server.IdleTimeout,
			MaxHeaderBytes: 1 << 20, // 1 MB
		},
	}
}

// OnShutdown registers fn to run, in registration order, once the listener
// has drained.
func (s *Server) OnShutdown(name string, fn func(ctx context.Context) error) {
	s.hooks = append(s.hooks, ShutdownHook{Name: name, Fn: fn})
}

// Start blocks serving HTTP until Shutdown. It returns nil after a clean
// shutdown.
func (s *Server) Start() error {
	slog.Info("Server starting",
		"port", s.cfg.App.Port,
		"env", s.cfg.App.Env,
		"read_timeout", s.cfg.Server.ReadTimeout,
		"write_timeout", s.cfg.Server.WriteTimeout,
	)

	if err := s.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Shutdown stops the listener, then runs every hook even if one fails.
func (s *Server) Shutdown(ctx context.Context) error {
	var errs []error
	if err := s.server.Shutdown(ctx); err != nil {
		errs = append(errs, fmt.Errorf("http: %w", err))
	}

	for _, h := range s.hooks {
		if err := h.Fn(ctx); err != nil {
			slog.Error("Shutdown hook failed", "component", h.Name, "error", err)
			errs = append(errs, fmt.Errorf("%s: %w", h.Name, err))
			continue
		}
		slog.Info("Component stopped", "component", h.Name)
	}
	return errors.Join(errs...)
}
