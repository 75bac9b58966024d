package web

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/foodrescuehub/foodrescue/internal/platform/settings"
)

// shutdownTimeout caps how long in-flight requests get during shutdown.
const shutdownTimeout = 5 * time.Second

// Server hosts the platform HTTP server.
type Server struct {
	httpServer *http.Server
	logger     *log.Logger
}

// NewServer builds a configured HTTP server. It refuses the development
// session secret outside debug mode.
func NewServer(cfg settings.Settings, handler http.Handler, logger *log.Logger) (*Server, error) {
	if !cfg.Debug && cfg.SessionSecret == settings.DevelopmentSecret {
		return nil, errors.New("session secret must be set outside debug mode")
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Server{
		httpServer: &http.Server{
			Addr:              cfg.HTTPAddr,
			Handler:           handler,
			ReadHeaderTimeout: 5 * time.Second,
		},
		logger: logger,
	}, nil
}

// ListenAndServe runs the HTTP server until the context ends, then shuts
// down gracefully.
func (s *Server) ListenAndServe(ctx context.Context) error {
	if s == nil {
		return errors.New("server is nil")
	}
	if ctx == nil {
		ctx = context.Background()
	}

	serveErr := make(chan error, 1)
	s.logger.Printf("http listening on %s", s.httpServer.Addr)
	go func() {
		serveErr <- s.httpServer.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		err := s.httpServer.Shutdown(shutdownCtx)
		cancel()
		if err != nil {
			return fmt.Errorf("shutdown http server: %w", err)
		}
		return nil
	case err := <-serveErr:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("serve http: %w", err)
	}
}
