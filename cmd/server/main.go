package main

import (
	"context"
	"flag"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rpattn/leadsathi/internal/analytics"
	"github.com/rpattn/leadsathi/internal/cache"
	"github.com/rpattn/leadsathi/internal/config"
	"github.com/rpattn/leadsathi/internal/db"
	"github.com/rpattn/leadsathi/internal/events"
	"github.com/rpattn/leadsathi/internal/ingestion"
	"github.com/rpattn/leadsathi/internal/middleware"
	"github.com/rpattn/leadsathi/internal/repository"
	"github.com/rpattn/leadsathi/internal/server"
)

func main() {
	configDir := flag.String("config", ".", "directory containing config.yaml")
	flag.Parse()

	cfg, err := config.Load(*configDir)
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	logger, err := middleware.NewLogger(cfg.Log.Level, cfg.Log.Format)
	if err != nil {
		log.Fatalf("Invalid log configuration: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Record Store
	var leads repository.LeadRepository
	switch cfg.Store.Backend {
	case config.BackendPostgres:
		if err := db.RunMigrations(cfg.Database); err != nil {
			logger.Fatalf("Failed to run migrations: %v", err)
		}
		conn, err := db.NewConnection(ctx, cfg.Database)
		if err != nil {
			logger.Fatalf("Failed to connect to database: %v", err)
		}
		defer conn.Close()
		leads = repository.NewPostgresLeadRepository(conn.Pool)
	default:
		xlsx, err := repository.NewXLSXLeadRepository(cfg.Store.XLSXPath, cfg.Leads.SheetName)
		if err != nil {
			logger.Fatalf("Failed to open workbook: %v", err)
		}
		leads = xlsx
	}
	logger.WithField("backend", cfg.Store.Backend).Info("lead store ready")

	location := cfg.Location()
	ingestOpts := []ingestion.Option{ingestion.WithLocation(location), ingestion.WithLogger(logger)}
	analyticsOpts := []analytics.Option{analytics.WithLocation(location), analytics.WithLogger(logger)}

	if cfg.Cache.Enabled {
		redisCache, err := cache.NewRedisCache(ctx, cache.Options{
			Addr:     cfg.Cache.Addr,
			Password: cfg.Cache.Password,
			DB:       cfg.Cache.DB,
			Prefix:   cfg.Cache.Prefix,
			TTL:      cfg.Cache.TTL,
		})
		if err != nil {
			logger.Fatalf("Failed to connect to redis: %v", err)
		}
		defer redisCache.Close()
		ingestOpts = append(ingestOpts, ingestion.WithInvalidator(redisCache))
		analyticsOpts = append(analyticsOpts, analytics.WithCache(redisCache))
		logger.WithField("addr", cfg.Cache.Addr).Info("analytics cache enabled")
	}

	if cfg.Events.Enabled() {
		publisher, err := events.NewKafkaPublisher(events.KafkaConfig{
			Brokers:      cfg.Events.Brokers,
			Topic:        cfg.Events.Topic,
			RequiredAcks: cfg.Events.RequiredAcks,
		}, logger)
		if err != nil {
			logger.Fatalf("Failed to create kafka publisher: %v", err)
		}
		defer publisher.Close()
		ingestOpts = append(ingestOpts, ingestion.WithPublisher(publisher))
	}

	ingestService := ingestion.NewService(leads, ingestOpts...)
	analyticsService := analytics.NewService(leads, analyticsOpts...)

	handler := server.NewRouter(
		ingestion.NewHTTPHandler(ingestService, logger),
		analytics.NewHTTPHandler(analyticsService,
			analytics.WithLimits(cfg.Leads.MaxTrendDays, cfg.Leads.MaxRecentLimit),
			analytics.WithHandlerLogger(logger),
		),
		cfg.Server.AllowedOrigins,
		logger,
	)

	// Create HTTP server
	srv := &http.Server{
		Addr:         cfg.Server.Addr,
		Handler:      handler,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	// Start server in a goroutine
	go func() {
		logger.WithField("addr", cfg.Server.Addr).Info("starting lead capture server")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatalf("Failed to start server: %v", err)
		}
	}()

	// Wait for interrupt signal to gracefully shutdown the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Info("shutting down server")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Errorf("Server forced to shutdown: %v", err)
	}

	logger.Info("server exited")
}
