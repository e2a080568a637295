// Package server boots every subsystem and runs the HTTP server until a
// shutdown signal arrives.
package server

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/shashiranjanraj/roastery/config"
	"github.com/shashiranjanraj/roastery/internal/kernel"
	"github.com/shashiranjanraj/roastery/pkg/cache"
	"github.com/shashiranjanraj/roastery/pkg/database"
	"github.com/shashiranjanraj/roastery/pkg/logger"
	"github.com/shashiranjanraj/roastery/pkg/storage"
)

const shutdownTimeout = 10 * time.Second

func Start() error {
	if err := config.Load(); err != nil {
		return err
	}

	stopLogs := logger.Boot()
	defer stopLogs()

	if err := database.Connect(); err != nil {
		return err
	}
	if err := cache.Connect(); err != nil {
		// Cache degrades to a no-op; the server still serves.
		logger.Warn("cache unavailable", "error", err)
	}
	storage.Connect()

	k := kernel.NewHTTPKernel()
	defer k.Shutdown()

	srv := &http.Server{
		Addr:              ":" + config.AppPort(),
		Handler:           k.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.ListenAndServe()
	}()
	logger.Info("roastery listening", "addr", srv.Addr, "env", config.AppEnv())

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case sig := <-quit:
		logger.Info("shutting down", "signal", sig.String())
		ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return srv.Shutdown(ctx)
	}
}
