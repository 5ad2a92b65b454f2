package main

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/phrazzld/tasktracker/internal/reminder"
)

// serve listens on the configured port and runs until SIGINT, SIGTERM or
// ctx cancellation.
func (app *application) serve(ctx context.Context) error {
	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	ln, err := net.Listen("tcp", fmt.Sprintf(":%d", app.config.Server.Port))
	if err != nil {
		return fmt.Errorf("failed to listen: %w", err)
	}
	return app.run(ctx, ln)
}

// run starts the scheduler and the HTTP server on ln, then shuts both down
// once ctx is done. The server drains first so no request arms a reminder
// after the scheduler has stopped.
func (app *application) run(ctx context.Context, ln net.Listener) error {
	var scheduler *reminder.Scheduler
	if app.config.Scheduler.Enabled {
		s, err := reminder.NewScheduler(app.sweeper, reminder.SchedulerConfig{
			Interval:     app.config.Scheduler.Interval,
			SweepTimeout: app.config.Scheduler.SweepTimeout,
		}, app.logger)
		if err != nil {
			_ = ln.Close()
			return fmt.Errorf("failed to create scheduler: %w", err)
		}
		if err := s.Start(); err != nil {
			_ = ln.Close()
			return fmt.Errorf("failed to start scheduler: %w", err)
		}
		scheduler = s
	} else {
		app.logger.Warn("reminder scheduler disabled")
	}

	server := &http.Server{
		Handler:           app.router(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		app.logger.Info("starting server", "addr", ln.Addr().String())
		if err := server.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	var runErr error
	select {
	case <-ctx.Done():
		app.logger.Info("shutting down server")
	case err := <-errCh:
		if err != nil {
			app.logger.Error("server failed", "error", err)
			runErr = fmt.Errorf("server error: %w", err)
		}
	}

	shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), app.config.Server.ShutdownTimeout)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		app.logger.Error("server shutdown failed", "error", err)
		runErr = errors.Join(runErr, fmt.Errorf("server shutdown failed: %w", err))
	}

	if scheduler != nil {
		if err := scheduler.Stop(shutdownCtx); err != nil {
			app.logger.Error("scheduler shutdown failed", "error", err)
			runErr = errors.Join(runErr, fmt.Errorf("scheduler shutdown failed: %w", err))
		}
	}

	app.logger.Info("server shutdown completed")
	return runErr
}
