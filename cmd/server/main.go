package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"garage-spot-service/internal/adapters/cache"
	"garage-spot-service/internal/adapters/repositories"
	"garage-spot-service/internal/api"
	"garage-spot-service/internal/config"
	"garage-spot-service/internal/platform/db"
	"garage-spot-service/internal/platform/obs"
	"garage-spot-service/internal/ports"
	"garage-spot-service/internal/services"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// main is the application composition root.
// It wires concrete adapters (SQL, redis) behind ports and starts the HTTP server.
func main() {
	if err := config.LoadEnv(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	logger, err := obs.NewLogger(config.Get("LOG_LEVEL", "info"))
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	defer func() { _ = logger.Sync() }()

	if err := run(logger); err != nil {
		logger.Fatal("server stopped", zap.Error(err))
	}
}

func run(logger *zap.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	driver := config.Get("DB_DRIVER", "sqlite")
	dialect, err := repositories.ParseDialect(driver)
	if err != nil {
		return err
	}
	dsn := config.Get("DB_PATH", "data/app.db")
	if dialect == repositories.Postgres {
		dsn = config.Get("DATABASE_URL", "")
		if dsn == "" {
			return errors.New("DATABASE_URL is required when DB_DRIVER=pgx")
		}
	}

	site, err := config.LoadSite(config.Get("GARAGES_PATH", ""))
	if err != nil {
		return err
	}
	ttl, err := config.Duration("SESSION_TTL", 12*time.Hour)
	if err != nil {
		return err
	}
	idle, err := config.Duration("SESSION_IDLE", 30*time.Minute)
	if err != nil {
		return err
	}

	conn, err := db.Open(ctx, driverName(dialect), dsn)
	if err != nil {
		return err
	}
	defer conn.Close()

	// Initialize schema and seed demo data on startup for local runs.
	if err := initAndSeed(ctx, conn, dialect, config.Get("SEED_PATH", "data/seeds/trucks.json"), logger); err != nil {
		return err
	}

	store, closeStore, err := openPendingStore(ctx, config.Get("REDIS_ADDR", ""), ttl, logger)
	if err != nil {
		return err
	}
	defer closeStore()

	repo := repositories.NewSQLTruckRepository(conn, dialect)
	sessions := services.NewSessionManager(site, repo, store, logger)
	defer sessions.CloseAll()

	port := config.Get("PORT", "8080")
	srv := &http.Server{
		Addr:              ":" + port,
		Handler:           api.NewRouter(site, repo, sessions, logger),
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		logger.Info("server listening", zap.String("addr", srv.Addr), zap.String("db_driver", driver))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("listen: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		return sessions.RunEvictor(gctx, time.Minute, idle)
	})
	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(gctx), 10*time.Second)
		defer cancel()
		logger.Info("shutting down")
		return srv.Shutdown(shutdownCtx)
	})

	return g.Wait()
}

func driverName(d repositories.Dialect) string {
	if d == repositories.Postgres {
		return "pgx"
	}
	return "sqlite"
}

func initAndSeed(ctx context.Context, conn *sql.DB, dialect repositories.Dialect, seedPath string, logger *zap.Logger) error {
	if err := repositories.InitSchema(ctx, conn); err != nil {
		return fmt.Errorf("init and seed: %w", err)
	}

	if seedPath == "" {
		return nil
	}
	n, err := repositories.SeedIfEmpty(ctx, conn, dialect, seedPath)
	if err != nil {
		return fmt.Errorf("init and seed: %w", err)
	}
	logger.Info("trucks seeded", zap.Int("count", n), zap.String("path", seedPath))
	return nil
}

// openPendingStore uses redis when an address is configured and an in-process
// store otherwise.
func openPendingStore(ctx context.Context, addr string, ttl time.Duration, logger *zap.Logger) (ports.PendingStore, func(), error) {
	if addr == "" {
		logger.Info("pending store: memory")
		return cache.NewMemoryPendingStore(ttl), func() {}, nil
	}

	client := redis.NewClient(&redis.Options{Addr: addr})
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, nil, fmt.Errorf("open pending store: ping redis %s: %w", addr, err)
	}
	logger.Info("pending store: redis", zap.String("addr", addr))
	return cache.NewRedisPendingStore(client, ttl), func() { _ = client.Close() }, nil
}
