// Copyright (c) 2025 niichapats.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package sequencer

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"time"

	"golang.org/x/sync/errgroup"
)

// Serving strategies.
const (
	ModeDev  = "dev"
	ModeProd = "prod"
)

// HTTPServer serves an http.Handler on a listener handed to it by a Plan.
type HTTPServer struct {
	mode            string
	srv             *http.Server
	shutdownTimeout time.Duration
}

// DevServer has no timeouts and closes connections immediately on
// shutdown.
func DevServer(addr string, handler http.Handler) *HTTPServer {
	return &HTTPServer{
		mode: ModeDev,
		srv:  &http.Server{Addr: addr, Handler: handler},
	}
}

// ProdServer sets read, write and idle timeouts and drains in-flight
// requests for up to shutdownTimeout on shutdown.
func ProdServer(addr string, handler http.Handler, shutdownTimeout time.Duration) *HTTPServer {
	return &HTTPServer{
		mode: ModeProd,
		srv: &http.Server{
			Addr:              addr,
			Handler:           handler,
			ReadHeaderTimeout: 5 * time.Second,
			ReadTimeout:       15 * time.Second,
			WriteTimeout:      30 * time.Second,
			IdleTimeout:       120 * time.Second,
		},
		shutdownTimeout: shutdownTimeout,
	}
}

// ForMode picks exactly one serving strategy.
func ForMode(mode, addr string, handler http.Handler, shutdownTimeout time.Duration) (*HTTPServer, error) {
	switch mode {
	case ModeDev:
		return DevServer(addr, handler), nil
	case ModeProd:
		return ProdServer(addr, handler, shutdownTimeout), nil
	default:
		return nil, fmt.Errorf("unknown serve mode %q", mode)
	}
}

func (s *HTTPServer) Mode() string { return s.mode }

func (s *HTTPServer) Addr() string { return s.srv.Addr }

// Serve blocks until ctx is done or the server fails.
func (s *HTTPServer) Serve(ctx context.Context, ln net.Listener) error {
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		slog.Info("http server started", "mode", s.mode, "addr", ln.Addr().String())
		if err := s.srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})

	g.Go(func() error {
		<-gctx.Done()
		return s.shutdown()
	})

	return g.Wait()
}

func (s *HTTPServer) shutdown() error {
	if s.mode == ModeDev {
		return s.srv.Close()
	}

	slog.Info("draining connections", "timeout", s.shutdownTimeout)
	ctx, cancel := context.WithTimeout(context.Background(), s.shutdownTimeout)
	defer cancel()

	if err := s.srv.Shutdown(ctx); err != nil {
		return fmt.Errorf("graceful shutdown failed: %w", err)
	}
	return nil
}
