package main

import (
	"context"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"github.com/gofiber/storage/redis/v3"
	"github.com/joho/godotenv"

	"agentdeals/internal/catalog"
	"agentdeals/internal/config"
	"agentdeals/internal/handlers"
	"agentdeals/internal/handlers/api"
	"agentdeals/internal/jobs"
	"agentdeals/internal/mcp"
	"agentdeals/internal/metrics"
	"agentdeals/internal/server"
	"agentdeals/internal/snapshot"
)

func main() {
	// .env is optional
	_ = godotenv.Load()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	cfg := config.Load()
	yamlCfg, err := config.LoadYAMLConfig()
	if err != nil {
		log.Fatalf("Failed to load config file: %v", err)
	}
	cfg.ApplyYAML(yamlCfg)

	logger := slog.Default()

	store := catalog.NewStore(
		catalog.FileSource{Path: cfg.OffersPath},
		catalog.FileSource{Path: cfg.ChangesPath},
		logger,
	)
	svc := catalog.NewService(store)
	if err := store.OffersErr(); err != nil {
		log.Printf("Warning: offer catalog unavailable: %v", err)
	} else {
		log.Printf("Loaded %d offers from %s", len(store.Offers()), cfg.OffersPath)
	}

	metrics.Init(svc, cfg.StaleThresholdDays)

	// Tool protocol sessions live in Redis when configured, otherwise in memory
	var sessionStore mcp.SessionStore
	if cfg.RedisURL != "" {
		sessionStore = redis.New(redis.Config{URL: cfg.RedisURL})
		log.Println("Tool protocol sessions stored in Redis")
	}
	sessions := mcp.NewSessions(sessionStore, cfg.SessionTTL)

	mcpServer := mcp.NewServer(svc,
		mcp.WithLogger(logger),
		mcp.WithToolObserver(metrics.ObserveToolCall),
	)

	// The snapshot store backs the pricing monitor, and with Postgres also
	// run history and the readiness database check
	var (
		snapStore snapshot.Store
		history   api.RunHistory
		dbPinger  handlers.Pinger
		monitor   *jobs.PricingMonitor
	)
	if cfg.FetchInterval > 0 || cfg.SnapshotBackend == snapshot.BackendPostgres {
		snapStore, err = jobs.OpenSnapshotStore(ctx, cfg, logger)
		if err != nil {
			log.Fatalf("Failed to open snapshot store: %v", err)
		}
		if h, ok := snapStore.(snapshot.RunHistory); ok {
			history = h
		}
		if p, ok := snapStore.(snapshot.Pinger); ok {
			dbPinger = p
		}
	}
	if cfg.FetchInterval > 0 {
		check, err := jobs.NewPricingCheck(cfg, yamlCfg, svc, snapStore, logger)
		if err != nil {
			log.Fatalf("Failed to set up pricing monitor: %v", err)
		}
		monitor = jobs.NewPricingMonitor(check, cfg.FetchInterval)
		if history == nil {
			history = monitor
		}
	}

	srv := server.New(cfg)
	srv.RegisterRoutes(server.Deps{
		Catalog:  svc,
		MCP:      mcpServer,
		Sessions: sessions,
		History:  history,
		DB:       dbPinger,
		Logger:   logger,
	})

	// Background pricing checks
	var wg sync.WaitGroup
	if monitor != nil {
		wg.Add(1)
		go func() {
			defer wg.Done()
			monitor.Start(ctx)
		}()
	}

	// Graceful shutdown
	go func() {
		if err := srv.Start(); err != nil {
			log.Printf("Server error: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("Shutting down server...")
	cancel()
	if err := srv.Shutdown(); err != nil {
		log.Printf("Server forced to shutdown: %v", err)
	}

	// The monitor may be mid-save; wait for it before closing the store
	wg.Wait()
	if snapStore != nil {
		if err := snapStore.Close(); err != nil {
			log.Printf("Failed to close snapshot store: %v", err)
		}
	}
	log.Println("Server exited")
}
