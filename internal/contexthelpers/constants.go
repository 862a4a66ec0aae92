package contexthelpers

type contextKey string

const (
	clientIDContextKey    = contextKey("clientID")
	currentPathContextKey = contextKey("currentPath")
	csrfTokenContextKey   = contextKey("csrfToken")
	cspNonceContextKey    = contextKey("cspNonce")
)
