package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/myrjola/reaksi/internal/e2etest"
	"github.com/myrjola/reaksi/internal/errors"
	"github.com/myrjola/reaksi/internal/logging"
)

// TestPages checks that the public pages render. It does not submit answers so that no AI quota is spent.
func TestPages(client *e2etest.Client) error {
	ctx := context.Background()
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second) //nolint:mnd // 10 seconds
	defer cancel()

	if err := client.WaitForReady(ctx, "/api/healthy"); err != nil {
		return errors.Wrap(err, "wait for healthy")
	}

	doc, err := client.GetDoc(ctx, "/")
	if err != nil {
		return errors.Wrap(err, "get worksheet")
	}
	if n := doc.Find("figure.box").Length(); n != 3 { //nolint:mnd // three snapshots
		return errors.New("unexpected number of boxes", slog.Int("boxes", n))
	}
	if _, err = client.CSRFToken(ctx, "/", "/submissions"); err != nil {
		return errors.Wrap(err, "find submission form")
	}

	if _, err = client.GetDoc(ctx, "/teacher"); err != nil {
		return errors.Wrap(err, "get teacher page")
	}

	resp, err := client.Get(ctx, "/teacher/export.csv")
	if err != nil {
		return errors.Wrap(err, "get export")
	}
	_ = resp.Body.Close()
	if resp.StatusCode != http.StatusOK || !strings.HasPrefix(resp.Header.Get("Content-Type"), "text/csv") {
		return errors.New("unexpected export response", slog.Int("status", resp.StatusCode),
			slog.String("content_type", resp.Header.Get("Content-Type")))
	}
	return nil
}

func main() {
	logger := logging.NewLogger(os.Stdout, slog.LevelDebug)
	ctx := context.Background()

	if len(os.Args) != 2 { //nolint:mnd // we expect only hostname to be passed as argument.
		logger.LogAttrs(ctx, slog.LevelError, "usage: smoketest <hostname>")
		os.Exit(1)
	}

	var (
		hostname = os.Args[1]
		url      = "https://" + hostname
		client   *e2etest.Client
		err      error
	)
	if strings.HasPrefix(hostname, "localhost") || strings.HasPrefix(hostname, "127.0.0.1") {
		url = "http://" + hostname
	}
	ctx = logging.WithAttrs(ctx, slog.String("hostname", url))

	if client, err = e2etest.NewClient(url); err != nil {
		logger.LogAttrs(ctx, slog.LevelError, "error creating client", errors.SlogError(err))
		os.Exit(1)
	}
	if err = TestPages(client); err != nil {
		logger.LogAttrs(ctx, slog.LevelError, "error testing pages", errors.SlogError(err))
		os.Exit(1)
	}

	logger.LogAttrs(ctx, slog.LevelInfo, "Smoke test successful 🙌")
	os.Exit(0)
}
