package httpserver

import (
	"context"
	"errors"
	"net"
	"net/http"
	"time"

	"go.uber.org/zap"
)

const (
	// DefaultAddr is where the API listens when no address is configured.
	DefaultAddr = ":8080"

	readTimeout = 15 * time.Second
	// writeTimeout leaves room for a full fan-out with retries.
	writeTimeout    = 2 * time.Minute
	idleTimeout     = 60 * time.Second
	shutdownTimeout = 10 * time.Second
)

// Server runs the REST API with graceful shutdown.
type Server struct {
	server   *http.Server
	addr     string
	log      *zap.Logger
	listener net.Listener
	errCh    chan error
}

// NewServer wraps the handler in an http.Server bound to addr.
func NewServer(addr string, handler http.Handler, log *zap.Logger) *Server {
	if addr == "" {
		addr = DefaultAddr
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &Server{
		server: &http.Server{
			Handler:      handler,
			ReadTimeout:  readTimeout,
			WriteTimeout: writeTimeout,
			IdleTimeout:  idleTimeout,
		},
		addr:  addr,
		log:   log,
		errCh: make(chan error, 1),
	}
}

// Start binds the listener and begins serving in the background.
func (s *Server) Start() error {
	listener, err := net.Listen("tcp", s.addr)
	if err != nil {
		return err
	}
	s.listener = listener

	go func() {
		if err := s.server.Serve(listener); err != nil && !errors.Is(err, http.ErrServerClosed) {
			s.errCh <- err
		}
	}()

	s.log.Info("http server listening", zap.String("addr", listener.Addr().String()))
	return nil
}

// Addr reports the bound address, useful when addr was ":0".
func (s *Server) Addr() string {
	if s.listener == nil {
		return s.addr
	}
	return s.listener.Addr().String()
}

// Shutdown drains in-flight requests and stops the server.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.server.Shutdown(ctx)
}

// Run starts the server and blocks until ctx is cancelled or serving
// fails, then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	if err := s.Start(); err != nil {
		return err
	}

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		s.log.Info("http server shutting down")
		return s.Shutdown(shutdownCtx)
	case err := <-s.errCh:
		return err
	}
}
