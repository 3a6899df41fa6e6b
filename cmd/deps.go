package cmd

import (
	"context"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/abhisek/quantumsignals/internal/catalog"
	"github.com/abhisek/quantumsignals/internal/config"
	"github.com/abhisek/quantumsignals/internal/progress"
	"github.com/abhisek/quantumsignals/internal/signal"
	"github.com/abhisek/quantumsignals/internal/signallog"
	"github.com/abhisek/quantumsignals/internal/store"
	"github.com/abhisek/quantumsignals/internal/telemetry"
)

// deps are the collaborators shared by the commands.
type deps struct {
	store    *store.Store
	catalog  *catalog.Catalog
	kv       progress.KV
	engine   *progress.Engine
	signals  signallog.Log
	recorder telemetry.Recorder
	stats    telemetry.StatsReader

	closers []func() error
}

// openDeps opens the database and the configured progress backend and
// builds the engine and the remote or local collaborators.
func openDeps(ctx context.Context) (*deps, error) {
	dbPath, err := resolveDBPath()
	if err != nil {
		return nil, fmt.Errorf("resolve DB path: %w", err)
	}
	st, err := store.Open(dbPath)
	if err != nil {
		return nil, fmt.Errorf("open store: %w", err)
	}
	d := &deps{store: st}
	d.closers = append(d.closers, st.Close)

	d.catalog = catalog.Default()
	if cfg.CatalogPath != "" {
		if d.catalog, err = catalog.Load(cfg.CatalogPath); err != nil {
			d.Close()
			return nil, fmt.Errorf("load catalog: %w", err)
		}
	}

	switch cfg.Storage {
	case config.StorageRedis:
		kv, err := store.OpenRedisKV(ctx, store.RedisOptions{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
		})
		if err != nil {
			d.Close()
			return nil, err
		}
		d.kv = kv
		d.closers = append(d.closers, kv.Close)
	case config.StorageMemory:
		d.kv = store.NewMemoryKV()
	default:
		d.kv = st.KV()
	}
	d.engine = progress.NewEngine(ctx, progress.NewStore(d.kv, d.catalog))

	if cfg.SignalLogURL != "" {
		d.signals = signallog.NewClient(cfg.SignalLogURL)
	} else {
		d.signals = st.Signals(cfg.Retention)
	}

	visitor, err := telemetry.VisitorID(ctx, d.kv)
	if err != nil {
		logrus.WithError(err).Warn("Using a temporary visitor id")
		visitor = telemetry.NewVisitorID()
	}
	if cfg.StatsURL != "" {
		rec := telemetry.NewHTTPRecorder(cfg.StatsURL, visitor)
		d.recorder = rec
		d.stats = rec
		d.closers = append(d.closers, func() error {
			rec.Wait()
			return nil
		})
	} else {
		events := st.Events()
		d.recorder = telemetry.NewTrackerRecorder(events, visitor)
		d.stats = events
	}

	return d, nil
}

// enableTracing installs the tracer provider and flushes it on Close.
func (d *deps) enableTracing(ctx context.Context) {
	shutdown, err := telemetry.SetupTracing(ctx, cfg.ServiceName, cfg.ZipkinEndpoint)
	if err != nil {
		logrus.WithError(err).Warn("Tracing disabled")
		return
	}
	d.closers = append(d.closers, func() error {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return shutdown(ctx)
	})
}

// generator builds a signal generator from the configuration.
func (d *deps) generator() *signal.Generator {
	return signal.NewGenerator(
		signal.WithGridSize(cfg.GridSize),
		signal.WithSeedMode(cfg.Mode()),
	)
}

// Close releases everything in reverse order of acquisition.
func (d *deps) Close() {
	for i := len(d.closers) - 1; i >= 0; i-- {
		if err := d.closers[i](); err != nil {
			logrus.WithError(err).Warn("Failed to close resource")
		}
	}
	d.closers = nil
}
