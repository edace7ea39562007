package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	zlog "github.com/rs/zerolog/log"

	"github.com/maxviazov/football-sim-service/internal/config"
	"github.com/maxviazov/football-sim-service/internal/engine"
	"github.com/maxviazov/football-sim-service/internal/handler"
	"github.com/maxviazov/football-sim-service/internal/logger"
	"github.com/maxviazov/football-sim-service/internal/repository"
	"github.com/maxviazov/football-sim-service/internal/repository/postgres"
	"github.com/maxviazov/football-sim-service/internal/repository/sqlite"
	"github.com/maxviazov/football-sim-service/internal/service"
)

const shutdownTimeout = 10 * time.Second

// storage is the backend-agnostic set of repositories the services need.
type storage struct {
	teams   repository.TeamRepository
	players repository.PlayerRepository
	matches repository.MatchRepository
	tx      repository.TxManager
	pinger  repository.Pinger
	close   func()
}

func main() {
	// Load application config
	cfg, err := config.Load("config.yaml")
	if err != nil {
		log.Fatalf("❌ Config loading failed: %v", err)
	}

	// Initialize logger
	appLogger, err := logger.New(&cfg.Logger)
	if err != nil {
		log.Fatalf("❌ Logger initialization failed: %v", err)
	}
	zlog.Logger = appLogger

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, appLogger); err != nil {
		appLogger.Fatal().Err(err).Msg("service stopped with error")
	}
}

func run(ctx context.Context, cfg *config.Config, appLogger zerolog.Logger) error {
	store, err := openStorage(ctx, cfg, appLogger)
	if err != nil {
		return err
	}
	defer store.close()

	sim := service.NewSimulationService(service.SimulationDeps{
		Matches: store.matches,
		Teams:   store.teams,
		Players: store.players,
		Tx:      store.tx,
		Engine:  engine.New(appLogger),
		Rand:    service.SeededRand(cfg.Engine.Seed),
	}, appLogger)

	if cfg.App.Env == "prod" {
		gin.SetMode(gin.ReleaseMode)
	}
	r := gin.New()
	r.Use(gin.Recovery())
	handler.Register(r, store.pinger, handler.Services{
		Teams:      service.NewTeamService(store.teams, appLogger),
		Players:    service.NewPlayerService(store.players, store.teams, appLogger),
		Matches:    service.NewMatchService(store.matches, store.teams, store.tx, appLogger),
		Simulation: sim,
	})

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.App.Port),
		Handler:           r,
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		appLogger.Info().
			Str("addr", srv.Addr).
			Str("storage", cfg.Storage.Driver).
			Uint64("seed", cfg.Engine.Seed).
			Msg("🚀 Service started")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return fmt.Errorf("http server: %w", err)
	case <-ctx.Done():
	}

	appLogger.Info().Msg("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("graceful shutdown: %w", err)
	}
	appLogger.Info().Msg("✅ Service stopped")
	return nil
}

func openStorage(ctx context.Context, cfg *config.Config, appLogger zerolog.Logger) (*storage, error) {
	switch cfg.Storage.Driver {
	case config.DriverSQLite:
		db, err := repository.OpenSQLite(ctx, cfg.Storage.SQLitePath, appLogger)
		if err != nil {
			return nil, err
		}
		if cfg.Storage.AutoMigrate {
			if err := repository.MigrateSQLite(ctx, db, appLogger); err != nil {
				db.Close()
				return nil, err
			}
		}
		return &storage{
			teams:   sqlite.NewTeamRepository(db),
			players: sqlite.NewPlayerRepository(db),
			matches: sqlite.NewMatchRepository(db),
			tx:      sqlite.NewTxManager(db),
			pinger:  sqlite.NewPinger(db),
			close:   func() { _ = db.Close() },
		}, nil
	default:
		pool, err := repository.NewPostgresPool(ctx, cfg.Postgres, appLogger)
		if err != nil {
			return nil, err
		}
		if cfg.Storage.AutoMigrate {
			if err := repository.MigratePostgres(ctx, pool, appLogger); err != nil {
				pool.Close()
				return nil, err
			}
		}
		return &storage{
			teams:   postgres.NewTeamRepository(pool),
			players: postgres.NewPlayerRepository(pool),
			matches: postgres.NewMatchRepository(pool),
			tx:      postgres.NewTxManager(pool),
			pinger:  postgres.NewPinger(pool),
			close:   pool.Close,
		}, nil
	}
}
