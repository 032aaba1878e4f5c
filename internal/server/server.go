// Package server owns the HTTP server lifecycle: boot, listen, and
// graceful shutdown.
package server

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/freshmandi/freshmandi/app/listeners"
	"github.com/freshmandi/freshmandi/app/routes"
	"github.com/freshmandi/freshmandi/app/services"
	"github.com/freshmandi/freshmandi/config"
	"github.com/freshmandi/freshmandi/pkg/app"
	"github.com/freshmandi/freshmandi/pkg/logger"
	"github.com/freshmandi/freshmandi/pkg/queue"
	"github.com/freshmandi/freshmandi/pkg/schedule"
)

// Start boots the application, mounts the API, and serves until SIGINT or
// SIGTERM. In-flight requests get ten seconds to finish.
func Start() error {
	if err := app.Boot(); err != nil {
		return err
	}
	defer app.Shutdown()

	listeners.Register()
	services.RegisterJobs()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	queue.StartWorkers(ctx, config.GetInt("QUEUE_WORKERS", 5))

	RegisterTasks()
	schedule.Start(ctx)

	srv := &http.Server{
		Addr:              ":" + config.Get("PORT", "8080"),
		Handler:           app.BuildHandler(routes.RegisterAPI),
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("server listening", "addr", srv.Addr)
		if err := srv.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
			return
		}
		errCh <- nil
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	logger.Info("server shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	return <-errCh
}
