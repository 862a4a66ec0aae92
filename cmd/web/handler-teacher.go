package main

import (
	"bytes"
	"net/http"
	"time"

	"github.com/myrjola/reaksi/internal/export"
)

// teacher lists the submissions newest first.
func (app *application) teacher(w http.ResponseWriter, r *http.Request) {
	app.render(w, r, http.StatusOK, "teacher", teacherTemplateData{
		BaseTemplateData: app.baseData(r),
		Worksheet:        app.worksheet,
		Submissions:      app.repo.List(),
	})
}

func (app *application) exportCSV(w http.ResponseWriter, r *http.Request) {
	var buf bytes.Buffer
	if err := export.WriteCSV(&buf, app.repo.List()); err != nil {
		app.serverError(w, r, err)
		return
	}
	w.Header().Set("Content-Type", export.ContentType)
	w.Header().Set("Content-Disposition", `attachment; filename="`+export.Filename(time.Now())+`"`)
	_, _ = buf.WriteTo(w)
}
