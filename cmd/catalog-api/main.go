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

	"github.com/gorilla/mux"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"catalog-backend/internal/catalog"
	"catalog-backend/internal/config"
	"catalog-backend/internal/dedupe"
	"catalog-backend/internal/feed"
	"catalog-backend/internal/httpapi"
	"catalog-backend/internal/kstream"
	"catalog-backend/internal/leads"
	"catalog-backend/internal/logging"
	"catalog-backend/internal/metrics"
	"catalog-backend/internal/screens"
)

func main() {
	cfg, err := config.Load(getEnv("CATALOG_CONFIG", ""))
	if err != nil {
		log.Fatalf("config: %v", err)
	}
	logger, err := logging.New(cfg.Log.Level, cfg.Log.Development)
	if err != nil {
		log.Fatalf("logger: %v", err)
	}
	defer func() { _ = logger.Sync() }()

	if err := run(cfg, logger); err != nil {
		logger.Fatal("catalog-api stopped", zap.Error(err))
	}
}

func run(cfg *config.Config, logger *zap.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	reg, err := screens.NewRegistry(cfg.Profiles())
	if err != nil {
		return err
	}
	m := metrics.New()

	// redis/go-redis/v9: one client serves the feed (when sourced from redis)
	// and the lead guard.
	rdb := redis.NewClient(&redis.Options{Addr: cfg.Redis.Addr})
	defer rdb.Close()

	g, ctx := errgroup.WithContext(ctx)

	var sub feed.Subscriber
	switch cfg.Feed.Source {
	case config.FeedKafka:
		ks := feed.NewKafkaSubscriber(kstream.SnapshotReader(cfg.Kafka.Broker, cfg.Kafka.SnapshotTopic), logger)
		defer ks.Close()
		g.Go(func() error { return ks.Run(ctx) })
		sub = ks
	default:
		sub = feed.NewRedisSubscriber(rdb, logger)
	}

	leadWriter := kstream.Writer(cfg.Kafka.Broker, cfg.Kafka.LeadTopic)
	publisher := kstream.NewLeadPublisher(leadWriter)
	defer publisher.Close()

	cat := catalog.NewService(reg, sub, cfg.Banner.Interval, logger, m)
	g.Go(func() error { return cat.Run(ctx) })

	leadSvc := leads.NewService(dedupe.NewGuard(rdb, cfg.Leads.DedupeTTL, logger), publisher, logger)

	r := mux.NewRouter()
	httpapi.NewServer(cat, leadSvc, m, logger).RegisterRoutes(r)

	server := &http.Server{
		Addr:              cfg.HTTP.Addr,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	g.Go(func() error {
		logger.Info("catalog-api listening", zap.String("addr", cfg.HTTP.Addr), zap.String("feed", cfg.Feed.Source))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("http server: %w", err)
		}
		return nil
	})

	// Graceful shutdown
	g.Go(func() error {
		<-ctx.Done()
		logger.Info("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return server.Shutdown(shutdownCtx)
	})

	return g.Wait()
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}
