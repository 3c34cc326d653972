package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/salesanalytics/config"
	"github.com/salesanalytics/database"
	"github.com/salesanalytics/logging"
	"github.com/salesanalytics/models"
	"github.com/spf13/cobra"
	"gorm.io/gorm"
)

type options struct {
	force         bool
	hashPasswords bool
	year          int
}

func main() {
	var opts options

	cmd := &cobra.Command{
		Use:   "seed",
		Short: "Database seeding tool",
		Example: `  # Seed an empty database
  seed

  # Force re-seed (clear and re-insert data)
  seed --force

  # Re-hash plaintext passwords left by older imports
  seed --hash-passwords`,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(opts)
		},
	}
	cmd.Flags().BoolVar(&opts.force, "force", false, "Force re-seed by clearing existing data")
	cmd.Flags().BoolVar(&opts.hashPasswords, "hash-passwords", false, "Only re-hash plaintext passwords, no seeding")
	cmd.Flags().IntVar(&opts.year, "year", 0, "Fiscal year for demo facts (default DEFAULT_FISCAL_YEAR)")

	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func run(opts options) error {
	fmt.Println("🌱 Starting Database Seeding Tool")

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}
	log := logging.Must(cfg.Log)
	defer func() { _ = log.Sync() }()
	fmt.Printf("📊 Database: %s (%s)\n\n", cfg.Database.DBName, cfg.Database.Driver)

	db, err := database.Open(&cfg.Database, log, database.Options{})
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	defer func() { _ = database.Close(db) }()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := database.CheckConnection(ctx, db); err != nil {
		return fmt.Errorf("database connection check failed: %w", err)
	}

	if opts.hashPasswords {
		n, err := database.HashLegacyPasswords(db, log)
		if err != nil {
			return err
		}
		fmt.Printf("🔐 Re-hashed %d password(s)\n", n)
		return nil
	}

	if opts.year == 0 {
		opts.year = cfg.App.DefaultFiscalYear
	}
	if opts.force {
		fmt.Println("⚠️  Force flag enabled. Clearing existing data...")
	}
	if err := database.SeedData(db, log, database.SeedOptions{Force: opts.force, Year: opts.year}); err != nil {
		return fmt.Errorf("failed to seed database: %w", err)
	}

	// Show statistics
	fmt.Println("\n📊 Database Statistics:")
	if err := showTableStats(db); err != nil {
		return err
	}

	fmt.Println("\n✨ Seeding completed successfully!")
	fmt.Printf("\n📝 Demo users: director1, ae1, ae2, ae3 (password %q)\n", database.DemoPassword)
	return nil
}

func showTableStats(db *gorm.DB) error {
	counts, err := database.TableCounts(db)
	if err != nil {
		return err
	}
	// Parents before children, the order tables are created in
	tables := models.TableNames()
	for i := len(tables) - 1; i >= 0; i-- {
		fmt.Printf("  %-26s %6d\n", tables[i], counts[tables[i]])
	}
	return nil
}
