package main

import (
	"context"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/lmittmann/tint"
	"github.com/redis/go-redis/v9"

	"showdown/internal/cache"
	"showdown/internal/config"
	"showdown/internal/question"
	"showdown/internal/service"
	"showdown/internal/store"
	"showdown/internal/transport/rest"
	"showdown/internal/transport/ws"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal("failed to load config:", err)
	}

	logger := slog.New(tint.NewHandler(os.Stdout, &tint.Options{Level: slog.LevelDebug}))
	slog.SetDefault(logger)

	// Question bank
	var bank *question.Bank
	if cfg.QuestionsPath != "" {
		bank, err = question.NewBankFromFile(cfg.QuestionsPath)
	} else {
		bank, err = question.NewBank()
	}
	if err != nil {
		logger.Error("failed to load question bank", "error", err)
		os.Exit(1)
	}
	logger.Info("question bank loaded", "questions", bank.Len())

	// Redis is optional; without it the leaderboard endpoints serve
	// empty results.
	var leaderboard cache.LeaderboardCache
	if cfg.RedisURI != "" {
		addr := strings.TrimPrefix(cfg.RedisURI, "redis://")
		rdb := redis.NewClient(&redis.Options{Addr: addr})
		defer rdb.Close()

		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		if _, err := rdb.Ping(ctx).Result(); err != nil {
			cancel()
			logger.Error("failed to ping Redis", "error", err)
			os.Exit(1)
		}
		cancel()
		leaderboard = cache.NewLeaderboardCache(rdb)
		logger.Info("connected to Redis", "addr", addr)
	} else {
		logger.Warn("REDIS_URI not set, leaderboard disabled")
	}

	// Room store and live-update hub
	roomStore := store.New(bank, logger, store.Options{
		InactivityTTL: cfg.RoomInactivityTTL,
		SweepInterval: cfg.SweepInterval,
	})
	defer roomStore.Close()

	wsHub := ws.NewHub(logger)
	gameSvc := service.NewGameService(roomStore, leaderboard, logger)
	gameSvc.SetNotifier(wsHub)
	roomStore.SetNotifier(gameSvc)
	roomStore.StartSweeper()

	router := rest.NewRouter(&rest.Container{
		GameService:        gameSvc,
		WSHub:              wsHub,
		Logger:             logger,
		CORSAllowedOrigins: cfg.CORSAllowedOrigins,
	})

	srv := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: router,
	}

	go func() {
		logger.Info("server starting", "port", cfg.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("listen and serve failed", "error", err)
			os.Exit(1)
		}
	}()

	// Wait for interrupt
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Info("shutting down server")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("forced shutdown", "error", err)
		os.Exit(1)
	}

	logger.Info("server exited")
}
