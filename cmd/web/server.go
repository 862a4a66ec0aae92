package main

import (
	"context"
	"log/slog"
	"net"
	"net/http"
	"time"

	"github.com/myrjola/reaksi/internal/errors"
)

// configureAndStartServer serves the application on addr until ctx is done.
func (app *application) configureAndStartServer(ctx context.Context, addr string) error {
	handler, err := app.routes()
	if err != nil {
		return errors.Wrap(err, "routes")
	}

	idleTimeout := time.Minute
	readTimeout := 5 * time.Second //nolint:mnd // forms are small.
	// Result pages wait for the evaluation, so writes may take as long as the await timeout.
	writeTimeout := app.awaitTimeout + 5*time.Second //nolint:mnd // headroom for rendering.
	srv := &http.Server{
		ErrorLog:          slog.NewLogLogger(app.logger.Handler(), slog.LevelError),
		Handler:           timeoutHandler(handler, writeTimeout),
		IdleTimeout:       idleTimeout,
		ReadTimeout:       readTimeout,
		WriteTimeout:      writeTimeout,
		ReadHeaderTimeout: time.Second,
	}

	shutdownComplete := make(chan error, 1)
	go func() {
		<-ctx.Done()
		app.logger.LogAttrs(ctx, slog.LevelInfo, "shutting down server")

		shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), readTimeout)
		defer cancel()
		var shutdownErr error
		if shutdownErr = srv.Shutdown(shutdownCtx); shutdownErr != nil {
			shutdownErr = errors.Wrap(shutdownErr, "shutdown server")
		}
		shutdownComplete <- shutdownErr
	}()

	var listener net.Listener
	if listener, err = (&net.ListenConfig{}).Listen(ctx, "tcp", addr); err != nil { //nolint:exhaustruct // defaults
		return errors.Wrap(err, "TCP listen", slog.String("addr", addr))
	}
	app.logger.LogAttrs(ctx, slog.LevelInfo, "starting server", slog.String("addr", listener.Addr().String()))
	if err = srv.Serve(listener); !errors.Is(err, http.ErrServerClosed) {
		return errors.Wrap(err, "server serve")
	}

	return <-shutdownComplete
}
