package main

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/ericogr/combo-chronicle/internal/constants"
	"github.com/ericogr/combo-chronicle/internal/logging"
	"github.com/ericogr/combo-chronicle/internal/service"
	"github.com/ericogr/combo-chronicle/internal/stream"
)

const shutdownTimeout = 10 * time.Second

// startRunSweeper evicts idle runs and closes their streams.
func startRunSweeper(ctx context.Context, runs *service.Runs, hub *stream.Hub, interval time.Duration) {
	runs.StartSweeper(ctx, interval, func(ids []string) {
		for _, id := range ids {
			hub.Drop(id)
		}
	})
}

// serve runs the HTTP server until ctx is cancelled, then shuts it down.
func serve(ctx context.Context, addr string, handler http.Handler) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}
	errc := make(chan error, 1)
	go func() {
		logging.Info("Server started", logging.Fields{constants.LogFieldAddr: addr})
		errc <- srv.ListenAndServe()
	}()

	select {
	case err := <-errc:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	logging.Info("Shutting down", nil)
	sctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return srv.Shutdown(sctx)
}
