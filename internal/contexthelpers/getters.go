package contexthelpers

import (
	"context"
)

// ClientID identifies the browser session that submits worksheets.
func ClientID(ctx context.Context) string {
	clientID, ok := ctx.Value(clientIDContextKey).(string)
	if !ok {
		return ""
	}
	return clientID
}

func CurrentPath(ctx context.Context) string {
	currentPath, ok := ctx.Value(currentPathContextKey).(string)
	if !ok {
		return ""
	}

	return currentPath
}

func CSRFToken(ctx context.Context) string {
	csrfToken, ok := ctx.Value(csrfTokenContextKey).(string)
	if !ok {
		return ""
	}

	return csrfToken
}

func CSPNonce(ctx context.Context) string {
	nonce, ok := ctx.Value(cspNonceContextKey).(string)
	if !ok {
		return ""
	}

	return nonce
}
