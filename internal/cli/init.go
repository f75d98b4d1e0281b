// Package cli provides the initialization shared by cmd/bukmacher and
// cmd/bukmacher-server.
package cli

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"bukmacher/internal/backend"
	"bukmacher/internal/cache"
	"bukmacher/internal/config"
	"bukmacher/internal/log"
	"bukmacher/internal/metrics"
	"bukmacher/internal/services"
)

// SetupLogger builds the logger described by cfg and makes it the default.
func SetupLogger(cfg *config.Config) *log.Logger {
	lc := log.DefaultConfig()
	lc.Level = log.ParseLevel(cfg.LogLevel)
	lc.Format = cfg.LogFormat
	logger := log.New(lc)
	log.SetDefault(logger)
	return logger
}

// SetupCommandLogger builds a logger for interactive commands: records go
// to w and, unless verbose, only warnings and errors are shown.
func SetupCommandLogger(cfg *config.Config, w io.Writer, verbose bool) *log.Logger {
	lc := log.DefaultConfig()
	lc.Component = log.ComponentCLI
	lc.Format = cfg.LogFormat
	lc.Output = w
	lc.Level = log.ParseLevel(cfg.LogLevel)
	if !verbose && lc.Level < slog.LevelWarn {
		lc.Level = slog.LevelWarn
	}
	logger := log.New(lc)
	log.SetDefault(logger)
	return logger
}

// LoadEnvFile loads the .env file for local development.
// Errors are ignored silently as this is optional in production.
func LoadEnvFile() {
	_ = godotenv.Load()
}

// LoadAndValidateConfig loads configuration and validates it.
// Returns the config or exits the process on validation failure.
func LoadAndValidateConfig() *config.Config {
	cfg, err := config.Load()
	if err == nil {
		err = cfg.Validate()
	}
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	return cfg
}

const (
	overviewCacheSize = 32
	overviewCacheTTL  = 5 * time.Minute
	cacheSweepEvery   = time.Minute
)

// App bundles the wired services of one process.
type App struct {
	Config    *config.Config
	Logger    *log.Logger
	Store     *services.EntryStore
	Settings  *services.SettingsService
	Overviews *services.OverviewCache
	Metrics   *metrics.Metrics
	Location  *time.Location
	Backend   *backend.BackendResult

	caches    *cache.Manager
	unobserve func()
}

// Bootstrap creates the backend selected by cfg and wires the entry store,
// settings, metrics and, when a broker is reachable, event publishing.
func Bootstrap(ctx context.Context, cfg *config.Config, logger *log.Logger) (*App, error) {
	loc, err := cfg.Location()
	if err != nil {
		return nil, fmt.Errorf("resolve timezone: %w", err)
	}

	bcfg, err := backend.FromAppConfig(cfg)
	if err != nil {
		return nil, err
	}
	res, err := backend.NewFactory(logger).CreateBackend(ctx, bcfg)
	if err != nil {
		return nil, err
	}

	m := metrics.New(logger)
	opts := []services.Option{services.WithLogger(logger.WithComponent(log.ComponentStore))}
	if res.Broker != nil {
		opts = append(opts, services.WithPublisher(m.InstrumentPublisher(res.Broker)))
	}
	store := services.NewEntryStore(res.Backend, opts...)

	lru := cache.NewLRUCache[services.Overview](overviewCacheSize, overviewCacheTTL)
	caches := cache.NewManager(logger)
	caches.Register(lru)

	app := &App{
		Config:    cfg,
		Logger:    logger,
		Store:     store,
		Settings:  services.NewSettingsService(res.Backend, cfg.DefaultSettings(), logger),
		Overviews: services.NewOverviewCache(store, lru),
		Metrics:   m,
		Location:  loc,
		Backend:   res,
		caches:    caches,
	}
	app.unobserve = m.ObserveStore(ctx, store)
	return app, nil
}

// Ready reports whether the backend can serve requests.
func (a *App) Ready(ctx context.Context) error {
	return a.Backend.Ready(ctx)
}

// StartBackground launches the periodic cache sweep. Close stops it.
func (a *App) StartBackground() {
	a.caches.StartCleanup(cacheSweepEvery)
}

// Close releases the caches, the backend and the broker.
func (a *App) Close() error {
	if a.unobserve != nil {
		a.unobserve()
	}
	if a.Overviews != nil {
		a.Overviews.Close()
	}
	if a.caches != nil {
		a.caches.Stop()
	}
	if a.Backend != nil && a.Backend.Cleanup != nil {
		return a.Backend.Cleanup()
	}
	return nil
}

// SignalContext returns a context cancelled on SIGINT or SIGTERM.
func SignalContext(logger *log.Logger) (context.Context, context.CancelFunc) {
	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		sigChan := make(chan os.Signal, 1)
		signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
		defer signal.Stop(sigChan)
		select {
		case sig := <-sigChan:
			logger.Info("Shutdown signal received", "signal", sig.String())
			cancel()
		case <-ctx.Done():
		}
	}()
	return ctx, cancel
}
