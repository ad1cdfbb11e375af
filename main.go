package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"econtent/api"
	"econtent/config"
	"econtent/generation"
	"econtent/kafka"
	"econtent/registry"
	"econtent/reporting"
	"econtent/rssfeeds"
	"econtent/scheduler"
	"econtent/store"
	"econtent/types"
)

func main() {
	// Load environment variables from .env if present (non-fatal if missing)
	_ = godotenv.Load()

	cfg := config.Load()
	if len(cfg.FeedURLs) == 0 {
		cfg.FeedURLs = rssfeeds.PresetNames()
		log.Printf("FEED_URLS not set, using the %d built-in feed presets", len(cfg.FeedURLs))
	}

	outputStore, err := store.NewOutputStore(cfg.OutputPath)
	if err != nil {
		log.Fatalf("Failed to open output store: %v", err)
	}

	state := scheduler.NewManager()

	fetcher := scheduler.FetcherFunc(func(ctx context.Context, feed string, limit int) ([]*types.NewsItem, error) {
		return rssfeeds.FetchLatest(ctx, rssfeeds.ResolveFeedURL(feed), limit)
	})

	runner := scheduler.NewRunner(scheduler.RunnerConfig{
		FeedURLs:  cfg.FeedURLs,
		FeedLimit: cfg.FeedLimit,
		PlanSlots: cfg.PlanSlots,
	}, fetcher, outputStore, state)

	deps := api.Deps{
		State:     state,
		Runner:    runner,
		Reporting: reporting.NewService(cfg.OutputPath),
	}

	if cfg.CohereAPIKey != "" {
		client := generation.NewClient(cfg.CohereAPIKey)
		model := cfg.CohereModel
		if model == "" {
			model = generation.DefaultModel
		}
		deps.Content = generation.NewContentGenerator(client, model)
		deps.Headlines = generation.NewHeadlineGenerator(client, model)
		deps.Summarize = generation.NewSummarizer(client, model)

		runner.WithGenerator(deps.Content)
		if cfg.EnrichContent {
			runner.WithEnricher(scheduler.NewArticleEnricher(deps.Summarize))
		}
	} else {
		log.Println("COHERE_API_KEY not set: runs will record planned tasks without generated content")
	}

	startupCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if cfg.RedisAddr != "" {
		reg, err := registry.New(startupCtx, registry.Config{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
			SeenTTL:  cfg.SeenTTL,
		})
		if err != nil {
			// An unreachable Redis disables the seen-guard and registry, it
			// never blocks the content pipeline
			log.Printf("Redis unreachable, continuing without source registry and duplicate filtering: %v", err)
		} else {
			defer reg.Close()
			deps.Registry = reg
			runner.WithSeenGuard(reg)
		}
	} else {
		log.Println("REDIS_ADDR not set: source registry and cross-run duplicate filtering disabled")
	}

	if len(cfg.KafkaBrokers) > 0 {
		publisher, err := kafka.NewPublisher(kafka.PublisherConfig{
			Brokers: cfg.KafkaBrokers,
			Topic:   cfg.KafkaTopic,
		})
		if err != nil {
			log.Fatalf("Failed to create Kafka publisher: %v", err)
		}
		defer publisher.Close()
		runner.WithPublisher(publisher)
	}

	if cfg.S3Bucket != "" {
		archiver, err := store.NewArchiver(startupCtx, store.ArchiverConfig{
			Bucket:       cfg.S3Bucket,
			Prefix:       cfg.S3Prefix,
			Region:       cfg.S3Region,
			Profile:      cfg.S3Profile,
			UsePathStyle: cfg.S3UsePathStyle,
		})
		if err != nil {
			log.Fatalf("Failed to create S3 archiver: %v", err)
		}
		runner.WithArchiver(archiver)
	}

	server := api.NewServer(deps, cfg.Port)
	if err := server.Start(); err != nil {
		log.Fatalf("Failed to start API server: %v", err)
	}
	if err := server.StartCron(cfg.CronSchedule); err != nil {
		log.Fatalf("Failed to start cron: %v", err)
	}

	// Wait for shutdown signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("Shutdown signal received")
	shutdownCtx, cancelShutdown := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancelShutdown()
	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Printf("Server shutdown error: %v", err)
	}
	log.Println("Shutdown complete")
}
