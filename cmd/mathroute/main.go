package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/mathroute/internal/agent"
	"github.com/mathroute/internal/api"
	"github.com/mathroute/internal/benchmark"
	"github.com/mathroute/internal/cache"
	"github.com/mathroute/internal/config"
	"github.com/mathroute/internal/embedding"
	"github.com/mathroute/internal/events"
	"github.com/mathroute/internal/feedback"
	"github.com/mathroute/internal/guard"
	"github.com/mathroute/internal/health"
	"github.com/mathroute/internal/knowledge"
	"github.com/mathroute/internal/storage"
	"github.com/mathroute/internal/websearch"
)

var (
	version = "dev"
	commit  = "unknown"
	date    = "unknown"
)

func main() {
	var (
		configFile  = flag.String("config", "config/config.yaml", "Configuration file path")
		showVersion = flag.Bool("version", false, "Show version information")
		showHelp    = flag.Bool("help", false, "Show help information")
	)
	flag.Parse()

	if *showHelp {
		printHelp()
		return
	}

	if *showVersion {
		printVersion()
		return
	}

	log.Printf("Starting mathroute v%s (commit: %s, built: %s)", version, commit, date)

	if *configFile != "" {
		os.Setenv("CONFIG_PATH", *configFile)
	}
	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		log.Fatalf("Invalid configuration: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Embedding provider
	var provider embedding.Provider
	switch strings.ToLower(cfg.Embedding.Provider) {
	case "openai":
		provider = embedding.NewOpenAIProvider(cfg.Embedding.OpenAIAPIKey)
	default:
		provider = embedding.NewHashProvider(cfg.Embedding.Dimensions)
	}

	// Persistence
	var store storage.Store
	var err error
	switch strings.ToLower(cfg.Storage.Driver) {
	case "sqlite":
		store, err = storage.NewSQLiteStore(cfg.Storage.DataDir)
		if err != nil {
			log.Fatalf("Failed to open sqlite store: %v", err)
		}
	default:
		store = storage.NewMemoryStore()
	}
	defer store.Close()

	// Knowledge base with seed problems
	knowledgeStore := knowledge.NewStore(provider)
	log.Printf("Knowledge base seeded with %d problems", knowledgeStore.Len())

	// Web search with mock fallback
	searchService := websearch.NewService(websearch.Config{
		TavilyAPIKey: cfg.Search.TavilyAPIKey,
		ExaAPIKey:    cfg.Search.ExaAPIKey,
		SerperAPIKey: cfg.Search.SerperAPIKey,
		Timeout:      cfg.Search.Timeout,
	})

	contentGuard := guard.New()
	processor := feedback.NewProcessor()

	var opts []agent.Option

	// Optional Redis solution cache
	var redisCache *cache.RedisCache
	if cfg.Cache.Enabled {
		redisCache = cache.NewRedisCache(cfg.Cache.Addr, cfg.Cache.Password, cfg.Cache.DB, cfg.Cache.Prefix)
		defer redisCache.Close()
		opts = append(opts, agent.WithCache(redisCache))
	}

	// Optional Kafka activity stream
	var publisher *events.KafkaPublisher
	if cfg.Events.Enabled {
		publisher = events.NewKafkaPublisher(events.KafkaConfig{
			Brokers:      cfg.Events.Brokers,
			ClientID:     cfg.Events.ClientID,
			BatchSize:    cfg.Events.BatchSize,
			BatchTimeout: cfg.Events.BatchTimeout,
		})
		defer publisher.Close()
		opts = append(opts, agent.WithPublisher(publisher))
	}

	routingAgent := agent.New(
		agent.Config{
			SimilarityThreshold: cfg.Routing.SimilarityThreshold,
			TopK:                cfg.Routing.TopK,
		},
		contentGuard,
		knowledgeStore,
		searchService,
		websearch.BuildSolution,
		store,
		processor,
		opts...,
	)

	runner := benchmark.NewRunner(routingAgent)

	// Health checks
	checker := health.NewHealthChecker()
	checker.Register(&health.StorageHealthCheck{Store: store})
	if redisCache != nil {
		checker.Register(&health.RedisHealthCheck{Cache: redisCache})
	}
	if publisher != nil {
		checker.Register(&health.KafkaHealthCheck{Broker: publisher})
	}

	gateway := api.NewGateway(cfg.API, routingAgent, store, knowledgeStore, runner, checker.HTTPHandler())

	go func() {
		if err := gateway.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("Gateway failed: %v", err)
		}
	}()

	waitForShutdown(ctx, cancel, gateway)
}

func printHelp() {
	fmt.Printf(`mathroute - Math Routing Agent

Routes math problems between a seeded knowledge base and web search,
with feedback-driven refinement.

Usage:
  mathroute [flags]

Flags:
  -config string
        Configuration file path (default "config/config.yaml")
  -version
        Show version information
  -help
        Show this help message

Examples:
  mathroute                                  # Start with default config
  mathroute -config config/production.yaml   # Start with production config
  mathroute -version                         # Show version
`)
}

func printVersion() {
	fmt.Printf("mathroute version %s\n", version)
	fmt.Printf("Commit: %s\n", commit)
	fmt.Printf("Built: %s\n", date)
}

func waitForShutdown(ctx context.Context, cancel context.CancelFunc, gateway *api.Gateway) {
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	<-sigChan
	log.Println("Shutdown signal received, stopping services...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	if err := gateway.Stop(shutdownCtx); err != nil {
		log.Printf("Error during gateway shutdown: %v", err)
	}

	cancel()
	log.Println("mathroute stopped")
}
