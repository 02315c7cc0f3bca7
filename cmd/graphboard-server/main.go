// Command graphboard-server serves a graph board over HTTP and WebSocket.
package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"github.com/persistorai/graphboard/internal/api"
	"github.com/persistorai/graphboard/internal/config"
	"github.com/persistorai/graphboard/internal/db"
	"github.com/persistorai/graphboard/internal/dbpool"
	"github.com/persistorai/graphboard/internal/domain"
	"github.com/persistorai/graphboard/internal/service"
	"github.com/persistorai/graphboard/internal/store"
	"github.com/persistorai/graphboard/internal/ws"
)

const (
	shutdownTimeout = 15 * time.Second
	eventQueueSize  = 1024
)

// backend is an opened board store plus whatever has to run or be closed
// alongside it.
type backend struct {
	store  domain.GraphStore
	events domain.EventPublisher
	worker *service.EventWorker
	close  func()
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintln(os.Stderr, "graphboard-server:", err)
		os.Exit(1)
	}

	log := logrus.New()
	log.SetFormatter(&logrus.JSONFormatter{})
	if lvl, err := logrus.ParseLevel(cfg.LogLevel); err == nil {
		log.SetLevel(lvl)
	}

	if err := run(cfg, log); err != nil {
		log.WithError(err).Fatal("server exited")
	}
}

func run(cfg *config.Config, log *logrus.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	hub := ws.NewHub(log)

	b, err := openBackend(ctx, cfg, log, hub)
	if err != nil {
		return err
	}
	defer b.close()

	svc := service.NewGraphService(b.store, b.events, log)

	srv := &http.Server{
		Addr: cfg.Addr(),
		Handler: api.NewRouter(ctx, &api.RouterDeps{
			Log:         log,
			Graph:       svc,
			Store:       b.store,
			Hub:         hub,
			CORSOrigins: cfg.CORSOrigins,
			Version:     config.BuildVersion(),
			Backend:     cfg.StoreBackend,
			APIKey:      cfg.APIKey.Value(),
		}),
		ReadHeaderTimeout: 10 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		hub.Run(gctx)
		return nil
	})

	if b.worker != nil {
		g.Go(func() error {
			b.worker.Run(gctx)
			return nil
		})
	}

	g.Go(func() error {
		log.WithFields(logrus.Fields{
			"addr":    srv.Addr,
			"store":   cfg.StoreBackend,
			"version": config.BuildVersion(),
			"auth":    cfg.APIKey.Value() != "",
		}).Info("graphboard server listening")

		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("http server: %w", err)
		}

		return nil
	})

	g.Go(func() error {
		<-gctx.Done()
		log.Info("shutting down")

		hub.Shutdown()

		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()

		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("http shutdown: %w", err)
		}

		return nil
	})

	return g.Wait()
}

// openBackend opens and migrates the configured store. With postgres,
// change events travel through NOTIFY so every server on the database
// sees them; the other backends publish straight to the local hub.
func openBackend(ctx context.Context, cfg *config.Config, log *logrus.Logger, hub *ws.Hub) (*backend, error) {
	switch cfg.StoreBackend {
	case config.BackendPostgres:
		pool, err := dbpool.NewPool(ctx, cfg.DatabaseURL.Value())
		if err != nil {
			return nil, err
		}

		if err := db.RunPostgresMigrations(ctx, pool, log); err != nil {
			pool.Close()
			return nil, err
		}

		if err := db.NewNotifyBridge(log, pool, hub).Start(ctx); err != nil {
			pool.Close()
			return nil, err
		}

		worker := service.NewEventWorker(db.NewPublisher(pool, log), log, eventQueueSize)

		return &backend{
			store:  store.NewPostgresStore(store.Base{Pool: pool, Log: log}),
			events: worker,
			worker: worker,
			close:  pool.Close,
		}, nil

	case config.BackendSQLite:
		sqlDB, err := db.OpenSQLite(ctx, cfg.SQLitePath)
		if err != nil {
			return nil, err
		}

		if err := db.RunSQLiteMigrations(ctx, sqlDB, log); err != nil {
			sqlDB.Close()
			return nil, err
		}

		return &backend{
			store:  store.NewSQLiteStore(sqlDB, log),
			events: hub,
			close:  func() { sqlDB.Close() },
		}, nil

	default:
		return &backend{
			store:  store.NewMemoryStore(log),
			events: hub,
			close:  func() {},
		}, nil
	}
}
