package contexthelpers_test

import (
	"context"
	"net/http/httptest"
	"testing"

	"github.com/myrjola/reaksi/internal/contexthelpers"
	"github.com/stretchr/testify/require"
)

func TestSetters(t *testing.T) {
	r := httptest.NewRequest("GET", "/", nil)
	require.Empty(t, contexthelpers.ClientID(r.Context()))
	require.Empty(t, contexthelpers.CSPNonce(context.Background()))

	r = contexthelpers.SetClientID(r, "client")
	r = contexthelpers.SetCurrentPath(r, "/teacher")
	r = contexthelpers.SetCSRFToken(r, "token")
	r = contexthelpers.SetCSPNonce(r, "nonce")

	ctx := r.Context()
	require.Equal(t, "client", contexthelpers.ClientID(ctx))
	require.Equal(t, "/teacher", contexthelpers.CurrentPath(ctx))
	require.Equal(t, "token", contexthelpers.CSRFToken(ctx))
	require.Equal(t, "nonce", contexthelpers.CSPNonce(ctx))
}
