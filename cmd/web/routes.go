package main

import (
	"io/fs"
	"net/http"

	"github.com/justinas/alice"
	"github.com/myrjola/reaksi/internal/errors"
	"github.com/myrjola/reaksi/ui"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

func (app *application) routes() (http.Handler, error) {
	mux := http.NewServeMux()

	staticFS, err := fs.Sub(ui.Files, "static")
	if err != nil {
		return nil, errors.Wrap(err, "sub static")
	}
	mux.Handle("GET /static/", cacheForeverHeaders(http.StripPrefix("/static", http.FileServerFS(staticFS))))

	mux.HandleFunc("GET /api/healthy", app.healthy)
	mux.Handle("GET /metrics", promhttp.HandlerFor(app.registry, promhttp.HandlerOpts{})) //nolint:exhaustruct // defaults
	mux.HandleFunc("GET /api/simulation", app.simulationJSON)

	session := alice.New(app.sessionManager.LoadAndSave, app.identify, app.noSurf, commonContext)

	mux.Handle("GET /{$}", session.ThenFunc(app.home))
	mux.Handle("GET /simulation", session.ThenFunc(app.simulationPartial))
	mux.Handle("POST /submissions", session.ThenFunc(app.submit))
	mux.Handle("GET /submissions/{taskID}", session.ThenFunc(app.submissionResult))
	mux.Handle("GET /teacher", session.ThenFunc(app.teacher))
	mux.Handle("GET /teacher/export.csv", session.ThenFunc(app.exportCSV))
	mux.Handle("/", session.ThenFunc(app.notFound))

	return alice.New(app.recoverPanic, app.logRequest, app.secureHeaders).Then(mux), nil
}
