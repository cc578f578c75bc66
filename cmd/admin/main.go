package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"stock-tracker/internal/entity"
	"stock-tracker/internal/tracker/config"
	"stock-tracker/internal/tracker/repository"
	"stock-tracker/internal/tracker/service"
	"stock-tracker/pkg/database"
	"stock-tracker/pkg/logger"
	"stock-tracker/pkg/utils"

	"github.com/spf13/cobra"
)

var (
	configPath  string
	onlyMissing bool
)

// deps bundles everything the one-shot commands need.
type deps struct {
	cfg        *config.Config
	log        *logger.Logger
	stocks     repository.StockRepository
	industries repository.IndustryRepository
	snapshots  repository.PriceSnapshotRepository
	updater    service.UpdaterService
	seeder     service.SeedService
}

func bootstrap(ctx context.Context) (*deps, func(), error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load configuration: %w", err)
	}

	appLogger, err := logger.New(cfg.Logger.Level, cfg.Logger.Encoding)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to initialize logger: %w", err)
	}

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
		return nil, nil, fmt.Errorf("failed to initialize database: %w", err)
	}

	if cfg.Database.AutoMigrate {
		if err := db.DB.WithContext(ctx).AutoMigrate(entity.Models()...); err != nil {
			return nil, nil, fmt.Errorf("failed to migrate database: %w", err)
		}
	}

	stockRepo := repository.NewStockRepository(db.DB)
	industryRepo := repository.NewIndustryRepository(db.DB)
	snapshotRepo := repository.NewPriceSnapshotRepository(db.DB)
	syncRunRepo := repository.NewSyncRunRepository(db.DB)
	marketRepo := repository.NewFinnhubRepository(cfg, appLogger)

	cleanup := func() {
		_ = appLogger.Sync()
		if sqlDB, err := db.DB.DB(); err == nil {
			_ = sqlDB.Close()
		}
	}

	return &deps{
		cfg:        cfg,
		log:        appLogger,
		stocks:     stockRepo,
		industries: industryRepo,
		snapshots:  snapshotRepo,
		updater:    service.NewUpdaterService(stockRepo, snapshotRepo, syncRunRepo, marketRepo, nil, appLogger),
		seeder:     service.NewSeedService(stockRepo, industryRepo, appLogger),
	}, cleanup, nil
}

// runWith wraps a command body with signal handling and bootstrapping.
func runWith(fn func(ctx context.Context, d *deps) error) func(*cobra.Command, []string) {
	return func(cmd *cobra.Command, args []string) {
		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		d, cleanup, err := bootstrap(ctx)
		if err != nil {
			log.Fatalf("Failed to start: %v", err)
		}
		defer cleanup()

		if err := fn(ctx, d); err != nil {
			log.Fatalf("Command failed: %v", err)
		}
	}
}

func printJSON(v interface{}) error {
	out, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	fmt.Println(string(out))
	return nil
}

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Insert the default industries and stocks",
	Run: runWith(func(ctx context.Context, d *deps) error {
		result, err := d.seeder.Seed(ctx)
		if err != nil {
			return err
		}
		return printJSON(result)
	}),
}

var updateCmd = &cobra.Command{
	Use:   "update",
	Short: "Run one price update pass and print the result",
	Run: runWith(func(ctx context.Context, d *deps) error {
		result, err := d.updater.RunUpdate(ctx, entity.TriggerManual)
		if err != nil {
			return err
		}
		return printJSON(result)
	}),
}

var backfillCmd = &cobra.Command{
	Use:   "backfill",
	Short: "Run one history backfill pass and print the result",
	Run: runWith(func(ctx context.Context, d *deps) error {
		result, err := d.updater.RunBackfill(ctx, onlyMissing, entity.TriggerManual)
		if err != nil {
			return err
		}
		return printJSON(result)
	}),
}

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Print database row counts and data coverage",
	Run: runWith(func(ctx context.Context, d *deps) error {
		stockCount, err := d.stocks.Count(ctx)
		if err != nil {
			return err
		}
		active, err := d.stocks.FindActive(ctx)
		if err != nil {
			return err
		}
		industryCount, err := d.industries.Count(ctx)
		if err != nil {
			return err
		}
		snapshotCount, err := d.snapshots.Count(ctx)
		if err != nil {
			return err
		}
		latest, err := d.snapshots.LatestObservedAt(ctx)
		if err != nil {
			return err
		}
		missing, err := d.stocks.FindMissingPurchasePrice(ctx)
		if err != nil {
			return err
		}

		fmt.Printf("Stocks:             %d (%d active)\n", stockCount, len(active))
		fmt.Printf("Industries:         %d\n", industryCount)
		fmt.Printf("Price snapshots:    %d\n", snapshotCount)
		if latest != nil {
			fmt.Printf("Latest observation: %s\n", utils.PrettyDate(*latest))
		} else {
			fmt.Println("Latest observation: none")
		}
		if len(missing) > 0 {
			tickers := make([]string, 0, len(missing))
			for _, s := range missing {
				tickers = append(tickers, s.Ticker)
			}
			fmt.Printf("Missing purchase price: %s\n", strings.Join(tickers, ", "))
		} else {
			fmt.Println("Missing purchase price: none")
		}
		return nil
	}),
}

func main() {
	rootCmd := &cobra.Command{
		Use:   "admin",
		Short: "Maintenance commands for the stock tracker",
	}
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "configs/config.yaml", "Path to the configuration file")
	backfillCmd.Flags().BoolVar(&onlyMissing, "only-missing", true, "Skip timestamps that already have a snapshot")

	rootCmd.AddCommand(seedCmd, updateCmd, backfillCmd, statsCmd)
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error executing admin CLI: %s\n", err)
		os.Exit(1)
	}
}
