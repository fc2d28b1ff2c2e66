package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/cargotrail/custody-ledger/internal/api"
	"github.com/cargotrail/custody-ledger/internal/infrastructure/config"
	ledgermongo "github.com/cargotrail/custody-ledger/internal/infrastructure/db/mongo"
	ledgerredis "github.com/cargotrail/custody-ledger/internal/infrastructure/db/redis"
	"github.com/cargotrail/custody-ledger/internal/infrastructure/queue"
	"github.com/cargotrail/custody-ledger/pkg/logger"
)

// @title        Custody Ledger API
// @version      1.0
// @description  Shipment custody ledger: authorized status progression, station advancement and per-station damage claims.
//
// @securityDefinitions.apikey  BearerAuth
// @in                          header
// @name                        Authorization
func main() {
	cfg := config.Load()

	log := logger.Init(logger.Options{
		Level:  cfg.LogLevel,
		Pretty: cfg.Env == "development",
	})

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// --- MongoDB ---
	mongoClient, db, err := ledgermongo.Connect(ctx, ledgermongo.Config{
		URI:      cfg.Mongo.URI,
		Database: cfg.Mongo.Database,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("mongodb connection failed")
	}
	defer func() {
		disconnectCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := mongoClient.Disconnect(disconnectCtx); err != nil {
			log.Error().Err(err).Msg("mongodb disconnect failed")
		}
	}()

	if err := ledgermongo.EnsureIndexes(ctx, db); err != nil {
		log.Fatal().Err(err).Msg("mongodb index creation failed")
	}

	// --- Redis ---
	rdb, err := ledgerredis.Connect(ctx, ledgerredis.Config{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("redis connection failed")
	}
	defer func() {
		if err := rdb.Close(); err != nil {
			log.Error().Err(err).Msg("redis close failed")
		}
	}()

	// --- Mutation scheduler ---
	sched := queue.NewScheduler(cfg.MutationWorkers, log)
	sched.Start(ctx)

	// --- HTTP server ---
	e := api.NewRouter(db, rdb, sched, cfg.JWTSecret, cfg.Redis.Stream, log)

	go func() {
		log.Info().Str("port", cfg.Port).Str("env", cfg.Env).Msg("starting custody ledger api")
		if err := e.Start(":" + cfg.Port); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("server stopped unexpectedly")
		}
	}()

	<-ctx.Done()
	log.Info().Msg("shutdown signal received")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("graceful shutdown failed")
	}
	log.Info().Msg("custody ledger api stopped")
}
