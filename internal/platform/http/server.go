package http

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"aumkeeper/internal/config"

	"github.com/sirupsen/logrus"
)

const shutdownTimeout = 5 * time.Second

func newOpsServer(handler http.Handler) *http.Server {
	return &http.Server{
		Handler:           handler,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      10 * time.Second,
		IdleTimeout:       60 * time.Second,
	}
}

// Start listens on the configured ops port and serves until ctx is canceled.
func Start(ctx context.Context, cfg config.HTTPServer, handler http.Handler) error {
	listener, err := net.Listen("tcp", ":"+cfg.Port)
	if err != nil {
		return fmt.Errorf("failed to listen on ops port %s: %w", cfg.Port, err)
	}
	return Serve(ctx, listener, handler)
}

// Serve runs the ops endpoint on listener and shuts it down gracefully on ctx cancellation.
func Serve(ctx context.Context, listener net.Listener, handler http.Handler) error {
	logrus.WithField("addr", listener.Addr().String()).Info("✅ Ops server listening")

	server := newOpsServer(handler)
	errCh := make(chan error, 1)
	go func() {
		if err := server.Serve(listener); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
			return
		}
		errCh <- nil
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("failed to shut down ops server: %w", err)
		}
		return nil
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("ops server stopped: %w", err)
		}
		return nil
	}
}
