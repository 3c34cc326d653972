package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/salesanalytics/config"
	"github.com/salesanalytics/database"
	"github.com/salesanalytics/logging"
	"github.com/spf13/cobra"
)

func main() {
	var drop bool

	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Database migration tool for the sales analytics schema",
		Example: `  # Create or update all tables
  migrate

  # Drop all tables and recreate them (WARNING: data loss)
  migrate --drop`,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(drop)
		},
	}
	cmd.Flags().BoolVar(&drop, "drop", false, "Drop all tables before migration (WARNING: data loss)")

	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func run(drop bool) error {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}
	log := logging.Must(cfg.Log)
	defer func() { _ = log.Sync() }()

	fmt.Println("🚀 Starting Database Migration Tool")
	fmt.Printf("📊 Database: %s (%s)\n", cfg.Database.DBName, cfg.Database.Driver)

	db, err := database.Open(&cfg.Database, log, database.Options{})
	if err != nil {
		return fmt.Errorf("failed to initialize database: %w", err)
	}
	defer func() { _ = database.Close(db) }()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := database.CheckConnection(ctx, db); err != nil {
		return err
	}

	// Drop tables if requested
	if drop {
		fmt.Println("⚠️  Dropping all tables...")
		if err := database.DropAll(db, log); err != nil {
			return fmt.Errorf("failed to drop tables: %w", err)
		}
		fmt.Println("✅ All tables dropped")
	}

	fmt.Println("🔄 Running GORM AutoMigrate...")
	if err := database.AutoMigrate(db, log); err != nil {
		return fmt.Errorf("failed to run migration: %w", err)
	}
	fmt.Println("✅ Migration completed successfully!")

	counts, err := database.TableCounts(db)
	if err == nil {
		fmt.Printf("📊 Total tables: %d\n", len(counts))
	}

	fmt.Println("\n📝 Next Steps:")
	fmt.Println("1. Seed demo data:    go run ./cmd/seed")
	fmt.Println("2. Run the server:    go run .")
	return nil
}
