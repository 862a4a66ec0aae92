package pprofserver_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/myrjola/reaksi/internal/pprofserver"
	"github.com/stretchr/testify/require"
)

func TestHandle(t *testing.T) {
	mux := http.NewServeMux()
	pprofserver.Handle(mux)

	rr := httptest.NewRecorder()
	mux.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/debug/pprof/cmdline", nil))
	require.Equal(t, http.StatusOK, rr.Code)
}
