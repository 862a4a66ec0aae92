package main

import (
	"context"
	"html/template"
	"io/fs"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/alexedwards/scs/sqlite3store"
	"github.com/alexedwards/scs/v2"
	"github.com/donseba/go-htmx"
	"github.com/joho/godotenv"
	"github.com/myrjola/reaksi/internal/ai"
	"github.com/myrjola/reaksi/internal/envstruct"
	"github.com/myrjola/reaksi/internal/errors"
	"github.com/myrjola/reaksi/internal/layout"
	"github.com/myrjola/reaksi/internal/logging"
	"github.com/myrjola/reaksi/internal/metrics"
	"github.com/myrjola/reaksi/internal/pprofserver"
	"github.com/myrjola/reaksi/internal/repositories"
	"github.com/myrjola/reaksi/internal/sqlite"
	"github.com/myrjola/reaksi/internal/submissions"
	"github.com/myrjola/reaksi/internal/worksheet"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"golang.org/x/sync/errgroup"
	"golang.org/x/time/rate"
)

type config struct {
	// Addr is the address to listen on. Use port 0 for a dynamically allocated port.
	Addr      string `env:"REAKSI_ADDR"       envDefault:"localhost:4000"`
	SqliteURL string `env:"REAKSI_SQLITE_URL" envDefault:"./reaksi.sqlite3"`
	// PprofAddr enables the pprof server when set. Keep it on a loopback address.
	PprofAddr     string `env:"REAKSI_PPROF_ADDR" envDefault:""`
	OpenAIAPIKey  string `env:"OPENAI_API_KEY"     envDefault:""`
	AIModel       string `env:"REAKSI_AI_MODEL"    envDefault:"gpt-4o-mini"`
	AIBaseURL     string `env:"REAKSI_AI_BASE_URL" envDefault:""`
	WorksheetPath string `env:"REAKSI_WORKSHEET"   envDefault:""`
	// SubmissionsPerMinute caps the evaluations started per minute across all clients.
	SubmissionsPerMinute float64 `env:"REAKSI_SUBMISSIONS_PER_MINUTE" envDefault:"30"`
	// AwaitTimeout is how long a result page waits for an evaluation before rendering the pending page.
	AwaitTimeout time.Duration `env:"REAKSI_AWAIT_TIMEOUT" envDefault:"20s"`
}

type application struct {
	logger         *slog.Logger
	worksheet      *worksheet.Content
	submissions    *submissions.Service
	repo           *repositories.SubmissionRepository
	sessionManager *scs.SessionManager
	htmx           *htmx.HTMX
	limiter        *rate.Limiter
	metrics        *metrics.Metrics
	registry       *prometheus.Registry
	rng            layout.Rand
	templates      map[string]*template.Template
	awaitTimeout   time.Duration
}

func run(ctx context.Context, logger *slog.Logger, lookupEnv func(string) (string, bool)) error {
	var cfg config
	if err := envstruct.Populate(&cfg, lookupEnv); err != nil {
		return errors.Wrap(err, "populate config")
	}

	content, err := worksheet.Load(cfg.WorksheetPath)
	if err != nil {
		return errors.Wrap(err, "load worksheet")
	}

	db, err := sqlite.NewDatabase(ctx, cfg.SqliteURL, logger)
	if err != nil {
		return errors.Wrap(err, "open database", slog.String("url", cfg.SqliteURL))
	}
	defer func() {
		if closeErr := db.Close(); closeErr != nil {
			logger.LogAttrs(ctx, slog.LevelError, "failed to close database", errors.SlogError(closeErr))
		}
	}()

	repo, err := repositories.NewSubmissionRepository(ctx, sqlite.NewKVStore(db), logger)
	if err != nil {
		return errors.Wrap(err, "load submissions")
	}

	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}), //nolint:exhaustruct // defaults
	)
	m := metrics.New(registry)

	if cfg.OpenAIAPIKey == "" {
		logger.LogAttrs(ctx, slog.LevelWarn, "OPENAI_API_KEY is not set, evaluations will fall back")
	}
	completer := ai.NewOpenAIClient(ai.Config{APIKey: cfg.OpenAIAPIKey, Model: cfg.AIModel, BaseURL: cfg.AIBaseURL})
	service := submissions.NewService(ai.NewClient(completer, cfg.AIModel, logger, m), repo, logger, m)

	sessionStore := sqlite3store.NewWithCleanupInterval(db.ReadWrite.DB, 24*time.Hour) //nolint:mnd // daily
	defer sessionStore.StopCleanup()
	sessionManager := scs.New()
	sessionManager.Store = sessionStore
	sessionManager.Lifetime = 12 * time.Hour //nolint:mnd // a school day
	sessionManager.Cookie.Name = "reaksi_session"
	sessionManager.Cookie.SameSite = http.SameSiteLaxMode

	templates, err := parseTemplates()
	if err != nil {
		return errors.Wrap(err, "parse templates")
	}

	app := application{
		logger:         logger,
		worksheet:      content,
		submissions:    service,
		repo:           repo,
		sessionManager: sessionManager,
		htmx:           htmx.New(),
		limiter:        rate.NewLimiter(rate.Limit(cfg.SubmissionsPerMinute/60), max(int(cfg.SubmissionsPerMinute), 1)), //nolint:mnd // per second
		metrics:        m,
		registry:       registry,
		rng:            layout.Source(),
		templates:      templates,
		awaitTimeout:   cfg.AwaitTimeout,
	}

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return service.Run(ctx)
	})
	g.Go(func() error {
		return db.RunOptimizer(ctx, time.Hour)
	})
	if cfg.PprofAddr != "" {
		g.Go(func() error {
			return pprofserver.Run(ctx, cfg.PprofAddr, logger)
		})
	}
	g.Go(func() error {
		return app.configureAndStartServer(ctx, cfg.Addr)
	})
	if err = g.Wait(); err != nil {
		return errors.Wrap(err, "run")
	}
	return nil
}

func main() {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		_, _ = os.Stderr.WriteString("load .env: " + err.Error() + "\n")
		os.Exit(1)
	}
	level := logging.ParseLevel(os.Getenv("REAKSI_LOG_LEVEL"))
	logger := logging.NewLogger(os.Stdout, level)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	if err := run(ctx, logger, os.LookupEnv); err != nil {
		logger.LogAttrs(ctx, slog.LevelError, "failure starting application", errors.SlogError(err))
		os.Exit(1) //nolint:gocritic // stop is a no-op at exit.
	}
}
