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

type options struct {
	year          int
	opportunities int
	seedValue     int64
	winRate       float64
	clear         bool
	noQueryLog    bool
}

func main() {
	var opts options

	cmd := &cobra.Command{
		Use:   "simulate",
		Short: "Generate a fiscal year of synthetic pipeline activity",
		Long: `Creates opportunities for existing clients and derives their stage
history, signings, monthly revenue and wins. Equal seeds on equal master
data produce equal results.`,
		Example: `  # 200 opportunities in 2024 with a fixed seed
  simulate --year 2024 --opportunities 200 --seed-value 42

  # Replace previously generated facts
  simulate --clear`,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(opts)
		},
	}
	cmd.Flags().IntVar(&opts.year, "year", 0, "Fiscal year to simulate (default DEFAULT_FISCAL_YEAR)")
	cmd.Flags().IntVar(&opts.opportunities, "opportunities", 100, "Number of opportunities to generate")
	cmd.Flags().Int64Var(&opts.seedValue, "seed-value", time.Now().UnixNano(), "Random seed")
	cmd.Flags().Float64Var(&opts.winRate, "win-rate", 0.3, "Share of opportunities that close won")
	cmd.Flags().BoolVar(&opts.clear, "clear", false, "Clear existing opportunity facts before running")
	cmd.Flags().BoolVar(&opts.noQueryLog, "no-query-log", false, "Silence SQL logging during simulation")

	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func run(opts options) error {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	log := logging.Must(cfg.Log)
	defer func() { _ = log.Sync() }()

	db, err := database.Open(&cfg.Database, log, database.Options{Silent: opts.noQueryLog})
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	defer func() { _ = database.Close(db) }()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := database.CheckConnection(ctx, db); err != nil {
		return err
	}
	fmt.Println("✅ Connected to database successfully")

	// Clear existing simulation data if requested
	if opts.clear {
		if err := database.ClearFacts(db, log); err != nil {
			return fmt.Errorf("failed to clear simulation data: %w", err)
		}
		fmt.Println("✅ Cleared existing simulation data")
	}

	if opts.year == 0 {
		opts.year = cfg.App.DefaultFiscalYear
	}
	sim, err := database.NewPipelineSimulation(db, log, database.SimulationConfig{
		Year:          opts.year,
		Opportunities: opts.opportunities,
		Seed:          opts.seedValue,
		WinRate:       opts.winRate,
	})
	if err != nil {
		return err
	}

	start := time.Now()
	stats, err := sim.Run()
	if err != nil {
		return fmt.Errorf("simulation failed: %w", err)
	}

	fmt.Printf("\n✨ Simulation completed in %s (seed %d)\n", time.Since(start).Round(time.Millisecond), opts.seedValue)
	fmt.Printf("  Opportunities: %d\n", stats.Opportunities)
	fmt.Printf("  Signings:      %d\n", stats.Signings)
	fmt.Printf("  Wins:          %d\n", stats.Wins)
	fmt.Printf("  Stage updates: %d\n", stats.UpdateEvents)
	return nil
}
