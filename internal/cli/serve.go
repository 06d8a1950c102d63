package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"time"

	"github.com/aretw0/surveyor/internal/config"
	httpAdapter "github.com/aretw0/surveyor/pkg/adapters/http"
	"github.com/aretw0/surveyor/pkg/control"
	"github.com/aretw0/surveyor/pkg/domain"
)

const shutdownTimeout = 5 * time.Second

// ServeOptions contains the configuration for the serve command.
type ServeOptions struct {
	Config config.Config
	// ExitWhenDone shuts the server down once the exploration ends instead of waiting for a signal.
	ExitWhenDone bool
	ErrOut       io.Writer
}

// Serve runs an exploration in the background behind the HTTP control API.
// Single-step pauses wait for /control/step or /control/unpause.
func Serve(ctx context.Context, opts ServeOptions) error {
	if opts.ErrOut == nil {
		opts.ErrOut = os.Stderr
	}
	logger, err := createLogger(opts.ErrOut, opts.Config.Log)
	if err != nil {
		return err
	}

	sigCtx := NewSignalContext(ctx)
	defer sigCtx.Cancel()

	flags := &control.Flags{}
	server := httpAdapter.NewServer(nil, flags, nil, logger)

	session, err := NewSession(sigCtx, opts.Config, SessionOptions{
		Logger: logger,
		Flags:  flags,
		Hooks:  []domain.LifecycleHooks{server.Hooks()},
	})
	if err != nil {
		return err
	}
	defer func() {
		if err := session.Close(); err != nil {
			logger.Error("failed to close store", "error", err)
		}
	}()
	server.Status = session.Surveyor
	server.Gatherer = session.Registry

	srv := &http.Server{
		Addr:    opts.Config.HTTP.Addr,
		Handler: server.Handler(),
	}

	serverErrors := make(chan error, 1)
	go func() {
		logger.Info("starting surveyor server", "addr", srv.Addr)
		serverErrors <- srv.ListenAndServe()
	}()

	runDone := make(chan error, 1)
	go func() {
		runDone <- session.Run(sigCtx)
	}()

	var result error
	select {
	case err := <-serverErrors:
		sigCtx.Cancel()
		<-runDone
		return fmt.Errorf("server error: %w", err)
	case result = <-runDone:
		logger.Info("exploration finished", "status", session.Surveyor.String(), "error", result)
		if !opts.ExitWhenDone {
			<-sigCtx.Done()
		}
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("graceful shutdown did not complete", "timeout", shutdownTimeout, "error", err)
		_ = srv.Close()
	}
	if err := <-serverErrors; err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("server error: %w", err)
	}
	logger.Info("surveyor server stopped")
	return result
}
