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

	"github.com/rs/zerolog/log"

	"github.com/shiv159/TradeWiseAi/config"
	"github.com/shiv159/TradeWiseAi/internal/api"
	"github.com/shiv159/TradeWiseAi/internal/logger"
	"github.com/shiv159/TradeWiseAi/internal/parser"
	"github.com/shiv159/TradeWiseAi/internal/provider/alphavantage"
	"github.com/shiv159/TradeWiseAi/internal/service"
	"github.com/shiv159/TradeWiseAi/internal/storage"
	"github.com/shiv159/TradeWiseAi/internal/storage/memory"
	"github.com/shiv159/TradeWiseAi/internal/storage/postgres"
	"github.com/shiv159/TradeWiseAi/internal/storage/redis"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintln(os.Stderr, "loading configuration:", err)
		os.Exit(1)
	}
	logger.Init(cfg.LogLevel)

	store, err := newStore(cfg.Store)
	if err != nil {
		log.Fatal().Err(err).Str("driver", cfg.Store.Driver).Msg("initializing document store")
	}
	defer store.Close()

	provider := alphavantage.New(alphavantage.Options{
		APIKey:         cfg.Provider.APIKey,
		BaseURL:        cfg.Provider.BaseURL,
		SymbolSuffix:   cfg.Provider.SymbolSuffix,
		Timeout:        time.Duration(cfg.Provider.TimeoutSeconds) * time.Second,
		RequestsPerSec: cfg.Provider.RequestsPerSec,
		MaxRetryTime:   time.Duration(cfg.Provider.MaxRetrySeconds) * time.Second,
	})

	orchestrator := service.New(store, provider, parser.New(), service.Config{
		CacheEnabled: cfg.Cache.Enabled,
		TTL:          time.Duration(cfg.Cache.TTLMinutes) * time.Minute,
		LookbackDays: cfg.Analysis.LookbackDays,
	})

	srv := &http.Server{
		Addr:    ":" + cfg.Server.Port,
		Handler: api.NewRouter(orchestrator),
	}

	go func() {
		log.Info().Str("port", cfg.Server.Port).Str("store", cfg.Store.Driver).Bool("cache_enabled", cfg.Cache.Enabled).Msg("server listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("server failed")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("shutting down")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Error().Err(err).Msg("graceful shutdown failed")
	}
}

func newStore(cfg config.Store) (storage.DocumentStore, error) {
	switch cfg.Driver {
	case "postgres":
		return postgres.New(cfg.PostgresDSN)
	case "redis":
		return redis.New(redis.Options{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
		})
	case "memory", "":
		return memory.New(), nil
	default:
		return nil, fmt.Errorf("unknown store driver %q", cfg.Driver)
	}
}
