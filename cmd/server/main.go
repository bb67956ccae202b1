package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/redis/go-redis/v9"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
	"go.opentelemetry.io/contrib/instrumentation/go.mongodb.org/mongo-driver/mongo/otelmongo"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	apihttp "moviecatalog/catalogservice/internal/api/http"
	"moviecatalog/catalogservice/internal/app"
	"moviecatalog/catalogservice/internal/catalog"
	"moviecatalog/catalogservice/internal/metrics"
	"moviecatalog/catalogservice/internal/providers/omdb"
	"moviecatalog/catalogservice/internal/repository/memory"
	mongorepo "moviecatalog/catalogservice/internal/repository/mongo"
	"moviecatalog/catalogservice/internal/search"
	"moviecatalog/catalogservice/internal/telemetry"
)

func main() {
	cfg := app.LoadConfig()
	logger := newLogger(cfg.LogLevel, cfg.LogFormat)
	slog.SetDefault(logger)
	metrics.Register(prometheus.DefaultRegisterer)

	shutdownTracer, err := telemetry.Init(context.Background(), "movie-catalog")
	if err != nil {
		logger.Warn("otel init failed", slog.String("error", err.Error()))
	}
	defer func() {
		if shutdownTracer != nil {
			_ = shutdownTracer(context.Background())
		}
	}()

	logger.Info("configuration loaded",
		slog.String("service", "movie-catalog"),
		slog.String("httpAddr", cfg.HTTPAddr),
		slog.String("logLevel", cfg.LogLevel),
		slog.String("logFormat", cfg.LogFormat),
		slog.String("omdbBaseURL", cfg.OMDBBaseURL),
		slog.Bool("hasOMDBKey", cfg.OMDBAPIKey != ""),
		slog.Duration("omdbTimeout", cfg.OMDBTimeout),
		slog.Int("titleLimit", cfg.TitleLimit),
		slog.Int("actorPages", cfg.ActorPages),
		slog.Int("detailConcurrency", cfg.DetailConcurrency),
		slog.Bool("hasMongo", cfg.MongoURI != ""),
		slog.Bool("hasRedis", cfg.RedisURL != ""),
		slog.Bool("cacheDisabled", cfg.CacheDisabled),
	)

	rootCtx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	store, mongoClient := buildStore(rootCtx, cfg, logger)
	if mongoClient != nil {
		defer func() {
			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			if err := mongoClient.Disconnect(ctx); err != nil {
				logger.Warn("mongo disconnect failed", slog.String("error", err.Error()))
			}
		}()
	}

	omdbClient := omdb.NewClient(omdb.Config{
		APIKey:  cfg.OMDBAPIKey,
		BaseURL: cfg.OMDBBaseURL,
		Client:  &http.Client{Timeout: cfg.OMDBTimeout, Transport: otelhttp.NewTransport(http.DefaultTransport)},
		Cache:   buildDetailCache(rootCtx, cfg, logger),
		Logger:  logger,
	})

	hub := apihttp.NewEventHub(logger)
	go hub.Run()
	defer hub.Close()

	activity := search.NewActivity()
	activity.Subscribe(hub.PublishActivity)

	searchService := search.NewService(omdbClient,
		search.WithTitleLimit(cfg.TitleLimit),
		search.WithActorPages(cfg.ActorPages),
		search.WithDetailConcurrency(cfg.DetailConcurrency),
		search.WithActivity(activity),
		search.WithLogger(logger),
	)
	catalogService := catalog.NewService(store, searchService, omdbClient,
		catalog.WithEvents(hub),
		catalog.WithLogger(logger),
	)

	if cfg.SeedDefaults {
		seedCtx, cancel := context.WithTimeout(rootCtx, 10*time.Second)
		if n, err := catalogService.SeedDefaults(seedCtx); err != nil {
			logger.Warn("seed defaults failed", slog.String("error", err.Error()))
		} else {
			logger.Info("default collection seeded", slog.Int("count", n))
		}
		cancel()
	}

	handler := apihttp.NewServer(catalogService,
		apihttp.WithLogger(logger),
		apihttp.WithActivity(activity),
		apihttp.WithEventHub(hub),
		apihttp.WithRateLimit(cfg.RateLimitRPS, cfg.RateLimitBurst),
		apihttp.WithCORSOrigins(cfg.CORSOrigins),
	).Handler()
	server := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           handler,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       15 * time.Second,
		// Actor searches fan out to several upstream calls; /ws is long-lived.
		WriteTimeout: 0,
		IdleTimeout:  60 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- server.ListenAndServe()
	}()

	logger.Info("movie catalog service started", slog.String("addr", cfg.HTTPAddr))

	select {
	case <-rootCtx.Done():
		logger.Info("shutdown signal received")
	case err := <-errCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("http server error", slog.String("error", err.Error()))
			os.Exit(1)
		}
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Warn("shutdown error", slog.String("error", err.Error()))
	}
	logger.Info("movie catalog service stopped")
}

// buildStore connects to MongoDB when configured and falls back to an
// in-process collection otherwise.
func buildStore(ctx context.Context, cfg app.Config, logger *slog.Logger) (catalog.Store, *mongo.Client) {
	if strings.TrimSpace(cfg.MongoURI) == "" {
		logger.Info("mongo uri not configured, using in-memory collection")
		return memory.NewCollectionStore(), nil
	}

	connectCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	client, err := mongorepo.Connect(connectCtx, cfg.MongoURI, options.Client().SetMonitor(otelmongo.NewMonitor()))
	if err != nil {
		logger.Error("mongo connect failed", slog.String("error", err.Error()))
		os.Exit(1)
	}
	if err := client.Ping(connectCtx, readpref.Primary()); err != nil {
		logger.Error("mongo ping failed", slog.String("error", err.Error()))
		os.Exit(1)
	}

	repo := mongorepo.NewCollectionRepository(client, cfg.MongoDatabase, cfg.MongoCollection)
	if err := repo.EnsureIndexes(connectCtx); err != nil {
		logger.Warn("mongo ensure indexes failed", slog.String("error", err.Error()))
	}
	logger.Info("mongo connected",
		slog.String("database", cfg.MongoDatabase),
		slog.String("collection", cfg.MongoCollection),
	)
	return repo, client
}

func buildDetailCache(ctx context.Context, cfg app.Config, logger *slog.Logger) omdb.DetailCache {
	if cfg.CacheDisabled {
		return nil
	}
	redisURL := strings.TrimSpace(cfg.RedisURL)
	if redisURL == "" {
		return nil
	}
	redisOpts, err := redis.ParseURL(redisURL)
	if err != nil {
		logger.Warn("invalid redis url, detail cache disabled", slog.String("error", err.Error()))
		return nil
	}
	cache := omdb.NewRedisDetailCache(redis.NewClient(redisOpts), cfg.CacheTTL)

	pingCtx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()
	if err := cache.Ping(pingCtx); err != nil {
		logger.Warn("redis not reachable, detail cache disabled", slog.String("error", err.Error()))
		return nil
	}
	logger.Info("redis connected", slog.String("addr", redisOpts.Addr))
	return cache
}

func newLogger(levelRaw, formatRaw string) *slog.Logger {
	level := parseLogLevel(levelRaw)
	handlerOpts := &slog.HandlerOptions{Level: level}
	format := strings.ToLower(strings.TrimSpace(formatRaw))
	if format == "json" {
		return slog.New(slog.NewJSONHandler(os.Stdout, handlerOpts))
	}
	return slog.New(slog.NewTextHandler(os.Stdout, handlerOpts))
}

func parseLogLevel(raw string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
