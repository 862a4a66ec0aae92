package main

import (
	"fmt"
	"log/slog"
	"net/http"

	"github.com/justinas/nosurf"
	"github.com/myrjola/reaksi/internal/contexthelpers"
	"github.com/myrjola/reaksi/internal/errors"
	"github.com/myrjola/reaksi/internal/logging"
	"github.com/myrjola/reaksi/internal/random"
)

const (
	nonceLength    = 24
	clientIDLength = 20
	// clientIDSessionKey stores the anonymous identity used to limit evaluations to one per browser.
	clientIDSessionKey = "clientID"
)

func (app *application) secureHeaders(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		nonce, err := random.Letters(nonceLength)
		if err != nil {
			app.serverError(w, r, errors.Wrap(err, "generate nonce"))
			return
		}
		r = contexthelpers.SetCSPNonce(r, nonce)

		w.Header().Set("Content-Security-Policy",
			fmt.Sprintf(`script-src 'nonce-%s' 'strict-dynamic' https: http:; object-src 'none'; base-uri 'none';`, nonce))
		w.Header().Set("Referrer-Policy", "origin-when-cross-origin")
		w.Header().Set("X-Content-Type-Options", "nosniff")
		w.Header().Set("X-Frame-Options", "deny")
		w.Header().Set("X-XSS-Protection", "0")

		next.ServeHTTP(w, r)
	})
}

func cacheForeverHeaders(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Cache-Control", "public, max-age=31536000, immutable")

		next.ServeHTTP(w, r)
	})
}

func (app *application) logRequest(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var (
			proto  = r.Proto
			method = r.Method
			uri    = r.URL.RequestURI()
		)

		app.logger.LogAttrs(r.Context(), slog.LevelDebug, "received request",
			slog.String("proto", proto), slog.String("method", method), slog.String("uri", uri))

		next.ServeHTTP(w, r)
	})
}

func (app *application) recoverPanic(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if err := recover(); err != nil {
				w.Header().Set("Connection", "close")
				app.serverError(w, r, errors.New("handler panicked", slog.String("panic", fmt.Sprint(err))))
			}
		}()

		next.ServeHTTP(w, r)
	})
}

// identify gives every browser session an anonymous client ID. It must run after the session is loaded.
func (app *application) identify(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		clientID := app.sessionManager.GetString(ctx, clientIDSessionKey)
		if clientID == "" {
			var err error
			if clientID, err = random.Letters(clientIDLength); err != nil {
				app.serverError(w, r, errors.Wrap(err, "generate client ID"))
				return
			}
			app.sessionManager.Put(ctx, clientIDSessionKey, clientID)
		}
		r = contexthelpers.SetClientID(r, clientID)
		r = r.WithContext(logging.WithAttrs(r.Context(), slog.String("client_id", clientID)))

		next.ServeHTTP(w, r)
	})
}

func commonContext(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		r = contexthelpers.SetCurrentPath(r, r.URL.Path)
		r = contexthelpers.SetCSRFToken(r, nosurf.Token(r))
		next.ServeHTTP(w, r)
	})
}

// noSurf implements CSRF protection using https://github.com/justinas/nosurf
func (app *application) noSurf(next http.Handler) http.Handler {
	csrfHandler := nosurf.New(next)
	csrfHandler.SetBaseCookie(http.Cookie{ //nolint:exhaustruct // defaults are fine
		HttpOnly: true,
		Path:     "/",
		Secure:   true,
		SameSite: http.SameSiteLaxMode,
	})
	csrfHandler.SetFailureHandler(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		app.logger.LogAttrs(r.Context(), slog.LevelWarn, "csrf check failed",
			slog.String("reason", fmt.Sprint(nosurf.Reason(r))))
		app.clientError(w, r, http.StatusBadRequest)
	}))

	return csrfHandler
}
