package server

import (
	"context"
	"errors"
	"net"
	"net/http"
	"time"

	"go.uber.org/zap"
)

const shutdownTimeout = 10 * time.Second

// Serve runs an HTTP server for handler on listener until ctx is cancelled,
// then shuts it down gracefully.
func Serve(ctx context.Context, logger *zap.Logger, listener net.Listener, handler http.Handler) error {
	if logger == nil {
		logger = zap.NewNop()
	}

	server := &http.Server{
		Handler:      handler,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	serverErr := make(chan error, 1)
	go func() {
		logger.Info("server listening",
			zap.String("op", "server.Serve"),
			zap.String("address", listener.Addr().String()),
		)
		if err := server.Serve(listener); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
		close(serverErr)
	}()

	select {
	case err := <-serverErr:
		return err
	case <-ctx.Done():
		logger.Info("shutting down server", zap.String("op", "server.Serve"))
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		return err
	}
	return <-serverErr
}

// ListenAndServe listens on address and calls Serve.
func ListenAndServe(ctx context.Context, logger *zap.Logger, address string, handler http.Handler) error {
	listener, err := net.Listen("tcp", address)
	if err != nil {
		return err
	}
	return Serve(ctx, logger, listener, handler)
}
