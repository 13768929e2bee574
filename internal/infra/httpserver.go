package infra

import (
	"context"
	"errors"
	"net/http"
	"time"
)

// HTTPServer serves the API with the configured timeouts and exposes a
// graceful shutdown hook for the signal handler in main.
type HTTPServer struct {
	srv *http.Server
}

// NewHTTPServer builds the server from the HTTP timeout knobs in cfg.
func NewHTTPServer(cfg *Config, handler http.Handler) *HTTPServer {
	return &HTTPServer{srv: &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           handler,
		ReadTimeout:       cfg.HTTPReadTimeout,
		ReadHeaderTimeout: 5 * time.Second,
		WriteTimeout:      cfg.HTTPWriteTimeout,
		IdleTimeout:       cfg.HTTPIdleTimeout,
	}}
}

// Start blocks serving requests. A graceful Shutdown is a clean exit,
// not an error.
func (s *HTTPServer) Start() error {
	err := s.srv.ListenAndServe()
	if errors.Is(err, http.ErrServerClosed) {
		return nil
	}
	return err
}

// Shutdown drains in-flight requests until ctx expires.
func (s *HTTPServer) Shutdown(ctx context.Context) error {
	return s.srv.Shutdown(ctx)
}
