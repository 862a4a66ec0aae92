package main

import (
	"bytes"
	"html/template"
	"io/fs"
	"log/slog"
	"net/http"
	"path"
	"strconv"
	"time"

	"github.com/myrjola/reaksi/internal/contexthelpers"
	"github.com/myrjola/reaksi/internal/errors"
	"github.com/myrjola/reaksi/ui"
)

// partialsPage is the template set holding only the partials.
const partialsPage = "partials"

// templateFuncs are bound at parse time. nonce and csrf are replaced per request in [application.template].
var templateFuncs = template.FuncMap{
	"nonce": func() template.HTMLAttr { return "" },
	"csrf":  func() template.HTML { return "" },
	"inc": func(i int) int {
		return i + 1
	},
	"score": func(score float64) string {
		return strconv.FormatFloat(score, 'f', -1, 64)
	},
	"isoTime": func(t time.Time) string {
		return t.UTC().Format(time.RFC3339)
	},
	"clock": func(t time.Time) string {
		return t.Local().Format("2/1/2006, 15.04.05")
	},
}

// parseTemplates parses every page under templates/pages together with the base layout and the partials.
func parseTemplates() (map[string]*template.Template, error) {
	templateFS, err := fs.Sub(ui.Files, "templates")
	if err != nil {
		return nil, errors.Wrap(err, "sub templates")
	}
	pages, err := fs.Glob(templateFS, "pages/*/*.gohtml")
	if err != nil {
		return nil, errors.Wrap(err, "glob pages")
	}

	cache := map[string]*template.Template{}
	partials, err := template.New(partialsPage).Funcs(templateFuncs).ParseFS(templateFS, "partials/*.gohtml")
	if err != nil {
		return nil, errors.Wrap(err, "parse partials")
	}
	cache[partialsPage] = partials

	for _, page := range pages {
		name := path.Base(path.Dir(page))
		var t *template.Template
		t, err = template.New(name).Funcs(templateFuncs).ParseFS(templateFS, "base.gohtml", "partials/*.gohtml", page)
		if err != nil {
			return nil, errors.Wrap(err, "parse page", slog.String("page", page))
		}
		cache[name] = t
	}
	return cache, nil
}

// template returns a clone of the named template set with the request scoped functions bound.
func (app *application) template(r *http.Request, name string) (*template.Template, error) {
	cached, ok := app.templates[name]
	if !ok {
		return nil, errors.New("template not found", slog.String("template", name))
	}
	t, err := cached.Clone()
	if err != nil {
		return nil, errors.Wrap(err, "clone template", slog.String("template", name))
	}
	ctx := r.Context()
	nonce := contexthelpers.CSPNonce(ctx)
	csrfToken := contexthelpers.CSRFToken(ctx)
	return t.Funcs(template.FuncMap{
		"nonce": func() template.HTMLAttr {
			return template.HTMLAttr(`nonce="` + template.HTMLEscapeString(nonce) + `"`) //nolint:gosec // escaped
		},
		"csrf": func() template.HTML {
			return template.HTML(`<input type="hidden" name="csrf_token" value="` + //nolint:gosec // escaped
				template.HTMLEscapeString(csrfToken) + `">`)
		},
	}), nil
}

// render writes the full page. The page is rendered to a buffer first so that a template error results in a clean
// 500 response.
func (app *application) render(w http.ResponseWriter, r *http.Request, status int, page string, data any) {
	app.execute(w, r, status, page, "base", data)
}

// renderPartial writes only the named partial, e.g., as an htmx swap target.
func (app *application) renderPartial(w http.ResponseWriter, r *http.Request, status int, partial string, data any) {
	app.execute(w, r, status, partialsPage, partial, data)
}

func (app *application) execute(w http.ResponseWriter, r *http.Request, status int, set, name string, data any) {
	t, err := app.template(r, set)
	if err != nil {
		app.serverError(w, r, err)
		return
	}
	var buf bytes.Buffer
	if err = t.ExecuteTemplate(&buf, name, data); err != nil {
		app.serverError(w, r, errors.Wrap(err, "execute template", slog.String("template", name)))
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	if _, err = buf.WriteTo(w); err != nil {
		app.logger.LogAttrs(r.Context(), slog.LevelDebug, "failed to write response", errors.SlogError(err))
	}
}

func (app *application) baseData(r *http.Request) BaseTemplateData {
	return BaseTemplateData{CurrentPath: contexthelpers.CurrentPath(r.Context())}
}

func (app *application) serverError(w http.ResponseWriter, r *http.Request, err error) {
	var (
		method = r.Method
		uri    = r.URL.RequestURI()
	)

	app.logger.LogAttrs(r.Context(), slog.LevelError, "server error",
		slog.String("method", method), slog.String("uri", uri), errors.SlogError(err))
	http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
}

func (app *application) clientError(w http.ResponseWriter, r *http.Request, status int) {
	var (
		method = r.Method
		uri    = r.URL.RequestURI()
	)

	app.logger.LogAttrs(r.Context(), slog.LevelDebug, http.StatusText(status),
		slog.String("method", method), slog.String("uri", uri))
	http.Error(w, http.StatusText(status), status)
}

func (app *application) notFound(w http.ResponseWriter, r *http.Request) {
	app.render(w, r, http.StatusNotFound, "notfound", app.baseData(r))
}
