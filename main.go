package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"sort"
	"syscall"
	"time"

	"github.com/getsentry/sentry-go"
	"github.com/salesanalytics/auth"
	"github.com/salesanalytics/config"
	"github.com/salesanalytics/database"
	"github.com/salesanalytics/logging"
	"github.com/salesanalytics/metrics"
	"github.com/salesanalytics/web"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

const recentQueryLogSize = 100

type serveOptions struct {
	migrate bool
	seed    bool
	check   bool
}

func main() {
	if err := rootCommand().Execute(); err != nil {
		os.Exit(1)
	}
}

func rootCommand() *cobra.Command {
	var opts serveOptions

	cmd := &cobra.Command{
		Use:   "sales-analytics",
		Short: "Sales analytics reporting API",
		Long: `Serves the sales dashboard JSON API.

For full migration control use cmd/migrate, for demo data use cmd/seed
and for synthetic pipeline data use cmd/simulate.`,
		Example: `  # Start server only
  sales-analytics

  # Start server with migration and seed
  sales-analytics --migrate --seed

  # Check the database connection and exit
  sales-analytics --check`,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return serve(opts)
		},
	}

	cmd.Flags().BoolVar(&opts.migrate, "migrate", false, "Run database migration on startup")
	cmd.Flags().BoolVar(&opts.seed, "seed", false, "Seed database with demo data")
	cmd.Flags().BoolVar(&opts.check, "check", false, "Check the database connection, print table counts and exit")
	return cmd
}

func serve(opts serveOptions) error {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	log, err := logging.New(cfg.Log)
	if err != nil {
		return err
	}
	defer func() { _ = log.Sync() }()
	zap.ReplaceGlobals(log)

	if cfg.App.SentryDSN != "" {
		if err := sentry.Init(sentry.ClientOptions{
			Dsn:         cfg.App.SentryDSN,
			Environment: cfg.App.Environment,
			SampleRate:  1.0,
		}); err != nil {
			log.Warn("sentry initialization failed", zap.Error(err))
		}
		defer sentry.Flush(2 * time.Second)
	}

	queries := database.NewQueryLogger(recentQueryLogSize)
	db, err := database.Open(&cfg.Database, log, database.Options{Queries: queries})
	if err != nil {
		return fmt.Errorf("failed to initialize database: %w", err)
	}
	defer func() { _ = database.Close(db) }()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	err = database.CheckConnection(ctx, db)
	cancel()
	if err != nil {
		return fmt.Errorf("database connection check failed: %w", err)
	}

	// Run migration if requested
	if opts.migrate {
		log.Info("running database migration")
		if err := database.AutoMigrate(db, log); err != nil {
			return fmt.Errorf("failed to migrate database: %w", err)
		}
	}

	// Seed database if requested
	if opts.seed {
		log.Info("seeding database with demo data")
		if err := database.SeedData(db, log, database.SeedOptions{Year: cfg.App.DefaultFiscalYear}); err != nil {
			return fmt.Errorf("failed to seed database: %w", err)
		}
	}

	if opts.check {
		return printTableCounts(db)
	}

	m, err := metrics.NewHTTPMetrics()
	if err != nil {
		return fmt.Errorf("failed to register metrics: %w", err)
	}

	server := web.NewServer(web.Deps{
		DB:      db,
		Log:     log,
		Config:  cfg,
		Issuer:  auth.NewIssuer(cfg.Auth.JWTSecret, cfg.Auth.TokenExpires),
		Metrics: m,
		Queries: queries,
	})

	// Start server in a goroutine
	errCh := make(chan error, 1)
	go func() {
		errCh <- server.Start(cfg.App.Port)
	}()

	// Setup graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errCh:
		return fmt.Errorf("server failed: %w", err)
	case sig := <-quit:
		log.Info("shutting down server", zap.String("signal", sig.String()))
	}
	return server.Shutdown(10 * time.Second)
}

// printTableCounts replaces the old connection test script
func printTableCounts(db *gorm.DB) error {
	counts, err := database.TableCounts(db)
	if err != nil {
		return fmt.Errorf("failed to count rows: %w", err)
	}

	tables := make([]string, 0, len(counts))
	for table := range counts {
		tables = append(tables, table)
	}
	sort.Strings(tables)

	fmt.Println("✓ Database connected successfully")
	for _, table := range tables {
		fmt.Printf("  %-26s %d\n", table, counts[table])
	}
	return nil
}
