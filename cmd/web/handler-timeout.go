package main

import (
	"net/http"
	"time"
)

const timeoutBody = `<html lang="id">
<head><title>Waktu habis</title></head>
<body>
<h1>Waktu habis</h1>
<p>Server terlalu lama merespons.</p>
<a href="">Coba lagi</a>
</body>
</html>
`

// timeoutHandler responds with a 503 Service Unavailable error when the handler does not meet the deadline.
func timeoutHandler(h http.Handler, writeTimeout time.Duration) http.Handler {
	// The handler deadline is a little shorter than the server's write timeout so that the
	// timeout handler has a chance to respond before the server closes the connection.
	httpHandlerTimeout := writeTimeout - 500*time.Millisecond //nolint:mnd // 500ms
	return http.TimeoutHandler(h, httpHandlerTimeout, timeoutBody)
}
