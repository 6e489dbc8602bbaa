// Package app wires storage, the session, metrics and the notice hub
// together for the binaries.
package app

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/kiwari-pos/stockbook/internal/config"
	"github.com/kiwari-pos/stockbook/internal/db"
	"github.com/kiwari-pos/stockbook/internal/enum"
	"github.com/kiwari-pos/stockbook/internal/metrics"
	"github.com/kiwari-pos/stockbook/internal/service"
	"github.com/kiwari-pos/stockbook/internal/store"
	"github.com/kiwari-pos/stockbook/internal/ws"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// App is the running application.
type App struct {
	Config   *config.Config
	Session  *service.Session
	Hub      *ws.Hub
	Registry *prometheus.Registry

	pg *db.Postgres
}

// New opens the configured storage backend, starts the notice hub and
// loads the session.
func New(ctx context.Context, cfg *config.Config) (*App, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	a := &App{
		Config:   cfg,
		Hub:      ws.NewHub(),
		Registry: prometheus.NewRegistry(),
	}

	kv, err := a.openStore(ctx)
	if err != nil {
		return nil, err
	}

	a.Registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	recorder := metrics.New(a.Registry)

	go a.Hub.Run()

	session, err := service.Open(ctx, store.NewGateway(kv),
		service.WithNotifier(service.NotifierFunc(a.notify)),
		service.WithObserver(recorder),
		service.WithConfirmTTL(cfg.ConfirmTTL),
		service.WithNoticeTTL(cfg.NoticeTTL),
	)
	if err != nil {
		a.Close()
		return nil, fmt.Errorf("open session: %w", err)
	}
	a.Session = session
	return a, nil
}

func (a *App) openStore(ctx context.Context) (store.KV, error) {
	switch a.Config.Storage {
	case config.StoragePostgres:
		if err := db.Migrate(a.Config.DatabaseURL); err != nil {
			return nil, err
		}
		pg, err := db.New(ctx, a.Config.DatabaseURL)
		if err != nil {
			return nil, err
		}
		a.pg = pg
		return store.NewPostgresKV(pg.Pool), nil

	case config.StorageMemory:
		log.Warn().Msg("app: using in-memory storage, nothing will be saved")
		return store.NewMemoryKV(), nil

	default:
		kv, err := store.NewFileKV(a.Config.DataDir)
		if err != nil {
			return nil, err
		}
		log.Info().Str("dir", kv.Dir()).Msg("app: using file storage")
		return kv, nil
	}
}

// notify fans a notice out to WebSocket clients and the log.
func (a *App) notify(n service.Notice) {
	a.Hub.Notify(n)

	event := log.Info()
	if n.Severity == enum.SeverityError {
		event = log.Warn()
	}
	event.Str("severity", n.Severity).Msg(n.Message)
}

// Close releases the storage backend.
func (a *App) Close() {
	if a.pg != nil {
		a.pg.Close()
	}
}

// SetupLogging points the global zerolog logger at a console writer on w
// and applies level.
func SetupLogging(w io.Writer, level string) error {
	lvl, err := zerolog.ParseLevel(level)
	if err != nil {
		return fmt.Errorf("invalid log level %q: %w", level, err)
	}
	if lvl == zerolog.NoLevel {
		lvl = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(lvl)

	if w == nil {
		w = os.Stderr
	}
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: w, TimeFormat: time.RFC3339})
	return nil
}
