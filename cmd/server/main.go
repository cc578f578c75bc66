package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"stock-tracker/internal/entity"
	"stock-tracker/internal/tracker/config"
	delivery "stock-tracker/internal/tracker/delivery/http"
	_ "stock-tracker/internal/tracker/docs"
	"stock-tracker/internal/tracker/repository"
	"stock-tracker/internal/tracker/service"
	"stock-tracker/pkg/database"
	"stock-tracker/pkg/logger"
	"stock-tracker/pkg/redis"
	"stock-tracker/pkg/telegram"

	"github.com/labstack/echo/v4"
	goredis "github.com/redis/go-redis/v9"
	"github.com/spf13/cobra"
	swagger "github.com/swaggo/echo-swagger"
)

var configPath string

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Starts the stock tracker service",
	Run:   runServe,
}

func runServe(cmd *cobra.Command, args []string) {
	// Create a context that is canceled on interrupt signals
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Load configuration
	cfg, err := config.Load(configPath)
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Initialize logger
	appLogger, err := logger.New(cfg.Logger.Level, cfg.Logger.Encoding)
	if err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer func() { _ = appLogger.Sync() }()

	appLogger.Info("Starting Stock Tracker", logger.Field("name", cfg.App.Name))

	// Initialize database
	db, err := database.NewDB(database.Config{
		Driver:          cfg.Database.Driver,
		URL:             cfg.Database.URL,
		Path:            cfg.Database.Path,
		Host:            cfg.Database.Host,
		Port:            cfg.Database.Port,
		User:            cfg.Database.User,
		Password:        cfg.Database.Password,
		DBName:          cfg.Database.DBName,
		SSLMode:         cfg.Database.SSLMode,
		TimeZone:        cfg.Database.TimeZone,
		MaxIdleConns:    cfg.Database.MaxIdleConns,
		MaxOpenConns:    cfg.Database.MaxOpenConns,
		ConnMaxLifetime: cfg.Database.ConnMaxLifetime,
		LogLevel:        cfg.Database.LogLevel,
	})
	if err != nil {
		appLogger.Fatal("Failed to initialize database", logger.ErrorField(err))
	}
	if sqlDB, err := db.DB.DB(); err == nil {
		defer sqlDB.Close()
	}

	if cfg.Database.AutoMigrate {
		if err := db.DB.WithContext(ctx).AutoMigrate(entity.Models()...); err != nil {
			appLogger.Fatal("Failed to migrate database", logger.ErrorField(err))
		}
	}

	// Initialize Redis when the summary cache is enabled
	var redisClient *redis.Client
	if cfg.Redis.Enabled {
		redisClient, err = redis.NewClient(redis.Config{
			Host:     cfg.Redis.Host,
			Port:     cfg.Redis.Port,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
			PoolSize: cfg.Redis.PoolSize,
		})
		if err != nil {
			appLogger.Fatal("Failed to initialize Redis", logger.ErrorField(err))
		}
		defer redisClient.Close()
	}

	// Initialize the Telegram notifier when configured
	var notifier telegram.Notifier
	if cfg.Telegram.Enabled {
		notifier, err = telegram.NewClient(cfg.Telegram.BotToken, cfg.Telegram.ChatID)
		if err != nil {
			appLogger.Fatal("Failed to initialize Telegram notifier", logger.ErrorField(err))
		}
	}

	// Initialize repositories
	stockRepo := repository.NewStockRepository(db.DB)
	industryRepo := repository.NewIndustryRepository(db.DB)
	snapshotRepo := repository.NewPriceSnapshotRepository(db.DB)
	syncRunRepo := repository.NewSyncRunRepository(db.DB)
	marketRepo := repository.NewFinnhubRepository(cfg, appLogger)

	// Initialize services
	summarySvc := service.NewSummaryService(stockRepo, industryRepo, appLogger)
	var rawRedis *goredis.Client
	if redisClient != nil {
		rawRedis = redisClient.Client
	}
	cachedSummarySvc := service.NewCachingSummaryService(summarySvc, rawRedis, cfg.Updater.SummaryCacheTTL, appLogger)
	updaterSvc := service.NewUpdaterService(stockRepo, snapshotRepo, syncRunRepo, marketRepo, cachedSummarySvc, appLogger)
	stockSvc := service.NewStockService(stockRepo, snapshotRepo, appLogger)
	industrySvc := service.NewIndustryService(industryRepo, stockRepo, appLogger)
	syncRunSvc := service.NewSyncRunService(syncRunRepo, appLogger)
	seedSvc := service.NewSeedService(stockRepo, industryRepo, appLogger)
	schedulerSvc := service.NewSchedulerService(updaterSvc, notifier, appLogger, cfg)

	if cfg.Updater.SeedOnStartup {
		if _, err := seedSvc.Seed(ctx); err != nil {
			appLogger.Fatal("Failed to seed default universe", logger.ErrorField(err))
		}
	}

	// Start the periodic updater
	schedulerSvc.Start(ctx)
	defer schedulerSvc.Stop()

	// Initialize Echo server
	e := echo.New()
	e.HideBanner = true

	// Initialize handlers and routes
	api := e.Group("/api")

	summaryHandler := delivery.NewSummaryHandler(cachedSummarySvc, appLogger)
	summaryHandler.RegisterRoutes(api.Group("/summary"))

	actionHandler := delivery.NewActionHandler(updaterSvc, appLogger)
	actionHandler.RegisterRoutes(api.Group("/actions"))

	stockHandler := delivery.NewStockHandler(stockSvc, appLogger)
	stockHandler.RegisterRoutes(api.Group("/stocks"))

	industryHandler := delivery.NewIndustryHandler(industrySvc, appLogger)
	industryHandler.RegisterRoutes(api.Group("/industries"))

	syncRunHandler := delivery.NewSyncRunHandler(syncRunSvc, appLogger)
	syncRunHandler.RegisterRoutes(api.Group("/runs"))

	healthHandler := delivery.NewHealthHandler(db)
	healthHandler.RegisterRoutes(e)

	e.GET("/swagger/*", swagger.WrapHandler)

	// Start server
	go func() {
		addr := fmt.Sprintf("%s:%d", cfg.API.Host, cfg.API.Port)
		appLogger.Info("HTTP server starting", logger.Field("address", addr))
		if err := e.Start(addr); err != nil && err != http.ErrServerClosed {
			appLogger.Error("HTTP server failed to start", logger.ErrorField(err))
			stop() // trigger shutdown
		}
	}()

	// Wait for shutdown signal
	<-ctx.Done()

	appLogger.Info("Shutting down server...")

	// Gracefully shutdown the server
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		appLogger.Fatal("Server forced to shutdown", logger.ErrorField(err))
	}

	appLogger.Info("Server exiting")
}

// @title Stock Tracker API
// @version 1.0
// @description Tracks a fixed portfolio of stocks, stores hourly price snapshots and serves return summaries.
// @BasePath /api
func main() {
	rootCmd := &cobra.Command{Use: "server"}

	serveCmd.Flags().StringVarP(&configPath, "config", "c", "configs/config.yaml", "Path to the configuration file")

	rootCmd.AddCommand(serveCmd)
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error executing server CLI: %s\n", err)
		os.Exit(1)
	}
}
