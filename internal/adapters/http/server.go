package http

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"strconv"
	"time"

	"github.com/jsamuelsen11/todo-backend/internal/platform/config"
)

// drainTimeout bounds Shutdown when the caller's context has no deadline.
const drainTimeout = 10 * time.Second

// Server is the todo API listener. Binding and serving are separate steps
// so a taken port fails startup before anything runs in the background.
type Server struct {
	http   *http.Server
	ln     net.Listener
	logger *slog.Logger
}

// NewServer configures a server for handler on cfg.Host:cfg.Port. Nothing is
// bound until Listen.
func NewServer(cfg config.ServerConfig, handler http.Handler, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Server{
		http: &http.Server{
			Addr:              net.JoinHostPort(cfg.Host, strconv.Itoa(cfg.Port)),
			Handler:           handler,
			ReadHeaderTimeout: cfg.ReadTimeout,
			ReadTimeout:       cfg.ReadTimeout,
			WriteTimeout:      cfg.WriteTimeout,
			IdleTimeout:       cfg.IdleTimeout,
			ErrorLog:          slog.NewLogLogger(logger.Handler(), slog.LevelWarn),
		},
		logger: logger,
	}
}

// Listen binds the configured address. Port 0 picks a free port; Addr
// reports which.
func (s *Server) Listen() error {
	ln, err := net.Listen("tcp", s.http.Addr)
	if err != nil {
		return fmt.Errorf("binding %s: %w", s.http.Addr, err)
	}
	s.ln = ln
	return nil
}

// Serve answers requests until Shutdown, binding first if Listen was not
// called. A graceful stop returns nil.
func (s *Server) Serve() error {
	if s.ln == nil {
		if err := s.Listen(); err != nil {
			return err
		}
	}

	s.logger.Info("serving todo API", slog.String("addr", s.Addr()))
	err := s.http.Serve(s.ln)
	if errors.Is(err, http.ErrServerClosed) {
		return nil
	}
	return fmt.Errorf("serving %s: %w", s.Addr(), err)
}

// Shutdown stops accepting connections and waits for in-flight requests,
// at most drainTimeout when ctx carries no deadline of its own.
func (s *Server) Shutdown(ctx context.Context) error {
	if _, ok := ctx.Deadline(); !ok {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, drainTimeout)
		defer cancel()
	}
	s.logger.Info("draining todo API")
	return s.http.Shutdown(ctx)
}

// Addr is the bound address after Listen and the configured one before.
func (s *Server) Addr() string {
	if s.ln != nil {
		return s.ln.Addr().String()
	}
	return s.http.Addr
}
