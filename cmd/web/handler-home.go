package main

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/myrjola/reaksi/internal/errors"
	"github.com/myrjola/reaksi/internal/simulation"
)

// parseRed reads the initial red particle count. Invalid values fall back to the default, out of range values are
// clamped.
func parseRed(value string) int {
	red, err := strconv.Atoi(strings.TrimSpace(value))
	if err != nil {
		return simulation.DefaultRed
	}
	return simulation.Clamp(red)
}

func (app *application) home(w http.ResponseWriter, r *http.Request) {
	data := homeTemplateData{
		BaseTemplateData: app.baseData(r),
		Worksheet:        app.worksheet,
		Simulation:       app.simulationView(parseRed(r.URL.Query().Get("red"))),
		Form:             formView{}, //nolint:exhaustruct // empty form
		Notice:           "",
	}
	app.render(w, r, http.StatusOK, "home", data)
}

// simulationPartial swaps the boxes and the observation table. Plain browser requests get the whole page.
func (app *application) simulationPartial(w http.ResponseWriter, r *http.Request) {
	red := parseRed(r.URL.Query().Get("red"))
	h := app.htmx.NewHandler(w, r)
	if !h.IsHxRequest() {
		http.Redirect(w, r, "/?"+url.Values{"red": {strconv.Itoa(red)}}.Encode(), http.StatusSeeOther)
		return
	}
	app.renderPartial(w, r, http.StatusOK, "simulation", app.simulationView(red))
}

func (app *application) simulationJSON(w http.ResponseWriter, r *http.Request) {
	sim := app.layoutSimulation(parseRed(r.URL.Query().Get("red")))
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(sim); err != nil {
		app.logger.LogAttrs(r.Context(), slog.LevelDebug, "failed to write simulation", errors.SlogError(err))
	}
}
