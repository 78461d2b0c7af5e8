// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/nats-io/nats.go"
	"github.com/redis/go-redis/v9"

	"github.com/danielhkuo/quickly-rank/broadcast"
	"github.com/danielhkuo/quickly-rank/cliparse"
	"github.com/danielhkuo/quickly-rank/db"
	"github.com/danielhkuo/quickly-rank/health"
	"github.com/danielhkuo/quickly-rank/metrics"
	"github.com/danielhkuo/quickly-rank/middleware"
	"github.com/danielhkuo/quickly-rank/router"
	"github.com/danielhkuo/quickly-rank/session"
	"github.com/danielhkuo/quickly-rank/store"
)

func main() {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))
	slog.SetDefault(logger)

	if err := cliparse.LoadEnvFile(".env"); err != nil {
		slog.Error("Error loading .env", "error", err)
		os.Exit(1)
	}

	// Parse configuration
	cfg, err := cliparse.ParseFlags(os.Args[1:])
	if err != nil {
		slog.Error("Error parsing flags", "error", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Connect to Redis
	redisOpts, err := redis.ParseURL(cfg.RedisURL)
	if err != nil {
		slog.Error("invalid redis URL", "error", err)
		os.Exit(1)
	}
	redisClient := redis.NewClient(redisOpts)
	defer redisClient.Close()

	if err := redisClient.Ping(ctx).Err(); err != nil {
		slog.Error("redis ping failed", "error", err)
		os.Exit(1)
	}
	roomStore := store.NewRedisStore(redisClient, store.WithIdleTTL(cfg.RoomTTL))
	slog.Info("Room store ready", "ttl", cfg.RoomTTL.String())

	m := metrics.New()
	hub := broadcast.NewHub(
		broadcast.WithAllowedOrigin(cfg.AllowedOrigin),
		broadcast.WithHubMetrics(m),
	)
	defer hub.Close()

	// Events go straight to the hub unless NATS fans them out across nodes
	var publisher broadcast.Publisher = hub
	var nc *nats.Conn
	if cfg.NATSURL != "" {
		nc, err = broadcast.Connect(cfg.NATSURL, logger)
		if err != nil {
			slog.Error("NATS connection failed", "error", err)
			os.Exit(1)
		}
		defer nc.Close()

		relay := broadcast.NewRelay(nc, hub)
		if err := relay.Start(); err != nil {
			slog.Error("NATS relay failed", "error", err)
			os.Exit(1)
		}
		defer relay.Stop()
		publisher = broadcast.NewNATSPublisher(nc)
	}

	opts := []session.Option{session.WithMetrics(m), session.WithLogger(logger)}
	var archivePinger health.Pinger
	if cfg.ArchiveEnabled() {
		dbConn, err := db.Open(ctx, cfg.DatabaseType, cfg.DatabaseURL)
		if err != nil {
			slog.Error("database connection failed", "error", err)
			os.Exit(1)
		}
		defer dbConn.Close()

		// Create schema (tables)
		if err := db.CreateSchema(dbConn); err != nil {
			slog.Error("schema creation failed", "error", err)
			os.Exit(1)
		}
		archive := db.NewSnapshotStore(dbConn)
		opts = append(opts, session.WithArchive(archive))
		archivePinger = archive
		slog.Info("Result archive ready", "type", cfg.DatabaseType)
	}

	svc := session.NewService(roomStore, publisher, opts...)

	// Create router
	mux := router.NewRouter(router.Deps{
		Session: svc,
		Hub:     hub,
		Health:  health.NewChecker(roomStore, nc, archivePinger),
		Metrics: m,
	})

	// Create server
	server := http.Server{
		Handler:           middleware.CORS(cfg.AllowedOrigin, mux),
		Addr:              ":" + strconv.Itoa(cfg.Port),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		// Wait for Ctrl-C signal
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		// Shutdown does not wait for hijacked websocket connections
		hub.Close()
		if err := server.Shutdown(shutdownCtx); err != nil {
			slog.Error("graceful shutdown failed", "error", err)
		}
	}()

	// Start server
	slog.Info("Listening", "port", cfg.Port)
	err = server.ListenAndServe()
	if err != nil && !errors.Is(err, http.ErrServerClosed) {
		slog.Error("Server closed", "error", err)
	} else {
		slog.Info("Server closed")
	}
}
