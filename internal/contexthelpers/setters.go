package contexthelpers

import (
	"context"
	"net/http"
)

func SetClientID(r *http.Request, clientID string) *http.Request {
	return r.WithContext(context.WithValue(r.Context(), clientIDContextKey, clientID))
}

func SetCurrentPath(r *http.Request, currentPath string) *http.Request {
	return r.WithContext(context.WithValue(r.Context(), currentPathContextKey, currentPath))
}

func SetCSRFToken(r *http.Request, csrfToken string) *http.Request {
	return r.WithContext(context.WithValue(r.Context(), csrfTokenContextKey, csrfToken))
}

func SetCSPNonce(r *http.Request, nonce string) *http.Request {
	return r.WithContext(context.WithValue(r.Context(), cspNonceContextKey, nonce))
}
