package pprofserver

import (
	"context"
	"log/slog"
	"net"
	"net/http"
	"net/http/pprof"
	"time"

	"github.com/myrjola/reaksi/internal/errors"
)

// Handle registers the pprof endpoints on mux.
func Handle(mux *http.ServeMux) {
	mux.HandleFunc("GET /debug/pprof/", pprof.Index)
	mux.HandleFunc("GET /debug/pprof/trace", pprof.Trace)
	mux.HandleFunc("GET /debug/pprof/profile", pprof.Profile)
	mux.HandleFunc("GET /debug/pprof/symbol", pprof.Symbol)
	mux.HandleFunc("GET /debug/pprof/cmdline", pprof.Cmdline)
}

// Run serves pprof on addr until ctx is done. Bind it to a loopback address such as localhost:6060.
func Run(ctx context.Context, addr string, logger *slog.Logger) error {
	mux := http.NewServeMux()
	Handle(mux)
	srv := &http.Server{
		Addr:              addr,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}
	listener, err := (&net.ListenConfig{}).Listen(ctx, "tcp", addr)
	if err != nil {
		return errors.Wrap(err, "listen", slog.String("addr", addr))
	}
	logger.LogAttrs(ctx, slog.LevelInfo, "starting pprof server", slog.String("pprof_addr", listener.Addr().String()))

	shutdownErr := make(chan error, 1)
	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 5*time.Second)
		defer cancel()
		shutdownErr <- srv.Shutdown(shutdownCtx)
	}()

	if err = srv.Serve(listener); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return errors.Wrap(err, "serve pprof")
	}
	if err = <-shutdownErr; err != nil {
		return errors.Wrap(err, "shutdown pprof")
	}
	return nil
}
