package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	listingapp "staysearch/internal/app/handlers/listings"
	"staysearch/internal/app/middleware"
	"staysearch/internal/app/queries"
	domainlistings "staysearch/internal/domain/listings"
	"staysearch/internal/infra/broker/kafka"
	rediscache "staysearch/internal/infra/cache/redis"
	"staysearch/internal/infra/config"
	mongostore "staysearch/internal/infra/db/mongo"
	ginserver "staysearch/internal/infra/http/gin"
	"staysearch/internal/infra/obs"
	"staysearch/internal/infra/storage/memory"
)

func main() {
	_ = godotenv.Load()

	if err := run(); err != nil {
		slog.Error("staysearch exited", "error", err)
		os.Exit(1)
	}
}

// run owns every deferred cleanup, so main exits only after they ran.
func run() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}
	logger := obs.NewLogger(cfg.Env, cfg.LogLevel)
	slog.SetDefault(logger)

	app, err := buildApplication(ctx, cfg, logger)
	if err != nil {
		return fmt.Errorf("startup: %w", err)
	}
	defer app.close(logger)

	server := ginserver.NewServer(cfg, obs.Middleware{Logger: logger}, obs.HealthHandlers{Ready: app.ready}, app.handlers)

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			logger.Error("http shutdown failed", "error", err)
		}
	}()

	logger.Info("HTTP server starting", "addr", cfg.HTTPAddr, "store", app.store)
	if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("http server: %w", err)
	}
	logger.Info("HTTP server stopped")
	return nil
}

type application struct {
	handlers ginserver.Handlers
	store    string
	ready    func(ctx context.Context) error
	closers  []func(ctx context.Context) error
}

func buildApplication(ctx context.Context, cfg config.Config, logger *slog.Logger) (*application, error) {
	app := &application{}
	metrics := obs.NewMetrics()

	repo, err := app.listingStore(ctx, cfg, logger)
	if err != nil {
		return nil, err
	}
	deps := listingapp.Dependencies{
		Listings:         repo,
		FilterOptionsTTL: cfg.FilterOptionsTTL,
		Logger:           logger,
		LegacyPetMerge:   cfg.LegacyPetMerge,
	}

	if cfg.RedisAddr != "" {
		cache, err := rediscache.New(rediscache.Config{Addr: cfg.RedisAddr, Password: cfg.RedisPassword, DB: cfg.RedisDB}, "staysearch")
		if err != nil {
			return nil, err
		}
		if err := cache.Ping(ctx); err != nil {
			logger.Warn("redis unreachable, filter options will not be cached until it recovers", "error", err)
		}
		deps.Cache = cache
		app.closers = append(app.closers, func(context.Context) error { return cache.Close() })
	}

	if len(cfg.KafkaBrokers) > 0 {
		producer, err := kafka.NewProducer(cfg.KafkaBrokers, nil)
		if err != nil {
			logger.Warn("kafka producer unavailable, search events disabled", "error", err)
		} else {
			publisher, err := kafka.NewEventPublisher(producer, cfg.KafkaSearchTopic)
			if err != nil {
				return nil, err
			}
			deps.Events = publisher
			app.closers = append(app.closers, func(context.Context) error { return producer.Close() })
		}
	}

	bus := queries.NewInMemoryBus()
	listingapp.Register(bus, deps)
	logger.Debug("query handlers registered", "keys", bus.Keys())

	app.handlers = ginserver.Handlers{
		Listing: ginserver.ListingHandler{
			Queries: middleware.ChainQueries(bus, middleware.QueryLogging(logger), middleware.QueryMetrics(metrics)),
			Logger:  logger,
		},
		Metrics: metrics,
	}
	return app, nil
}

func (a *application) listingStore(ctx context.Context, cfg config.Config, logger *slog.Logger) (domainlistings.Repository, error) {
	if cfg.UsesMongo() {
		client, err := mongostore.New(ctx, cfg.MongoURI, cfg.MongoDB, cfg.MongoTimeout)
		if err != nil {
			return nil, err
		}
		repo := mongostore.NewListingRepository(client.DB, cfg.MongoCollection)
		if err := repo.EnsureIndexes(ctx); err != nil {
			logger.Warn("listing indexes not created", "error", err)
		}
		a.store = "mongo"
		a.ready = client.Ping
		a.closers = append(a.closers, client.Close)
		return repo, nil
	}

	repo := memory.NewListingRepository()
	if err := loadListingFixtures(ctx, repo, cfg.FixturesPath, logger); err != nil {
		logger.Warn("listing fixtures load failed", "error", err, "path", cfg.FixturesPath)
	}
	a.store = "memory"
	return repo, nil
}

func (a *application) close(logger *slog.Logger) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	for i := len(a.closers) - 1; i >= 0; i-- {
		if err := a.closers[i](ctx); err != nil {
			logger.Warn("close failed", "error", err)
		}
	}
}
