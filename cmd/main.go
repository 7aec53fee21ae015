package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/elastic/go-elasticsearch/v8"
	"github.com/gin-gonic/gin"

	"github.com/minutes-archive/search-service/internal/cache"
	"github.com/minutes-archive/search-service/internal/config"
	"github.com/minutes-archive/search-service/internal/handler"
	"github.com/minutes-archive/search-service/internal/repository"
	"github.com/minutes-archive/search-service/internal/service"
	"github.com/minutes-archive/search-service/pkg/database"
	pkglog "github.com/minutes-archive/search-service/pkg/log"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		l := pkglog.L()
		l.Fatal().Err(err).Msg("failed to load config")
	}

	// Initialize structured logger
	pkglog.Init(pkglog.Config{
		Level:       cfg.Log.Level,
		Pretty:      cfg.Log.Level == "debug",
		ServiceName: "minutes-search",
	})
	logger := pkglog.L()

	// Resolve the backend identity once; it is shared read-only afterward.
	backend, err := database.ParseBackend(cfg.Database.Driver)
	if err != nil {
		logger.Fatal().Err(err).Msg("invalid database driver")
	}

	db, err := database.New(cfg.DatabaseConfig())
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to connect to database")
	}
	logger.Info().Str(pkglog.FieldBackend, string(backend)).Msg("database connected")

	// Initialize Elasticsearch client
	esClient, err := elasticsearch.NewClient(elasticsearch.Config{
		Addresses: cfg.Elasticsearch.Addresses,
	})
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to create elasticsearch client")
	}

	// An unreachable engine is not fatal: the structured path still serves
	// every request through the fallback.
	if res, err := esClient.Info(); err != nil {
		logger.Warn().Err(err).Msg("full-text engine unreachable, structured search only")
	} else {
		res.Body.Close()
		logger.Info().Strs("addresses", cfg.Elasticsearch.Addresses).Msg("elasticsearch connected")
	}

	// Initialize repositories
	meetingRepo := repository.NewGormMeetingRepository(db, backend)
	esRepo := repository.NewESSearchRepository(esClient, cfg.Elasticsearch.Index)

	// Initialize Redis cache
	searchCache, err := cache.NewRedisSearchCache(cache.RedisOptions{
		Address:  cfg.Redis.Address,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	}, cfg.Cache.Prefix)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to connect to redis")
	}
	defer searchCache.Close()
	logger.Info().Str("addr", cfg.Redis.Address).Msg("redis connected")

	// Initialize service
	searchService := service.NewSearchService(
		meetingRepo,
		esRepo,
		searchCache,
		cfg.Cache.TTL,
		cfg.Elasticsearch.Timeout,
	)

	// Initialize HTTP handler
	httpHandler := handler.NewHandler(searchService)

	// Setup Gin router
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(pkglog.GinMiddleware(logger))

	// Health check
	r.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	// Register routes
	httpHandler.RegisterRoutes(r)

	addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	srv := &http.Server{
		Addr:         addr,
		Handler:      r,
		ReadTimeout:  cfg.Server.RequestTimeout,
		WriteTimeout: cfg.Server.RequestTimeout,
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	go func() {
		logger.Info().Str("addr", addr).Msg("minutes-search starting")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal().Err(err).Msg("failed to start server")
		}
	}()

	<-ctx.Done()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error().Err(err).Msg("server shutdown failed")
	}
	logger.Info().Msg("minutes-search stopped")
}
