package database

import (
	"context"
	"fmt"

	"github.com/salesanalytics/models"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// AutoMigrate runs auto migration for all models
func AutoMigrate(db *gorm.DB, log *zap.Logger) error {
	log.Info("starting GORM AutoMigrate")

	// Get all models in dependency order
	migrator := db.Migrator()
	for _, model := range models.AllModels() {
		tableName := tableNameOf(db, model)
		existed := migrator.HasTable(model)

		if err := db.AutoMigrate(model); err != nil {
			return fmt.Errorf("failed to migrate %s: %w", tableName, err)
		}
		if existed {
			log.Info("✓ table up to date", zap.String("table", tableName))
		} else {
			log.Info("✓ created table", zap.String("table", tableName))
		}
	}

	if err := CreateIndexes(db, log); err != nil {
		log.Warn("some indexes could not be created", zap.Error(err))
	}

	log.Info("GORM AutoMigrate completed successfully")
	return nil
}

func tableNameOf(db *gorm.DB, model interface{}) string {
	stmt := &gorm.Statement{DB: db}
	if err := stmt.Parse(model); err != nil {
		return fmt.Sprintf("%T", model)
	}
	return stmt.Schema.Table
}

// CheckConnection verifies the database is reachable
func CheckConnection(ctx context.Context, db *gorm.DB) error {
	sqlDB, err := db.DB()
	if err != nil {
		return fmt.Errorf("failed to get database instance: %w", err)
	}

	// Ping the database
	if err := sqlDB.PingContext(ctx); err != nil {
		return fmt.Errorf("failed to ping database: %w", err)
	}
	return nil
}

// CreateIndexes creates the reporting indexes that the model tags do not declare
func CreateIndexes(db *gorm.DB, log *zap.Logger) error {
	indexes := []struct {
		table   string
		name    string
		columns string
	}{
		// Pipeline reports filter on creation date and stage
		{"opportunity", "idx_opportunity_created", "created_date"},
		{"opportunity", "idx_opportunity_forecast_stage", "forecast_category, sales_stage"},

		// Fact tables are always read per client and fiscal period
		{"win", "idx_win_client_year", "client_id, fiscal_year"},
		{"signing", "idx_signing_date", "signing_date"},
		{"revenue", "idx_revenue_year_month", "fiscal_year, month"},

		// Target lookups
		{"quarterlytarget", "idx_quarterlytarget_user", "user_id"},
	}

	migrator := db.Migrator()
	var failed int
	for _, idx := range indexes {
		if migrator.HasIndex(idx.table, idx.name) {
			continue
		}
		query := fmt.Sprintf("CREATE INDEX %s ON %s (%s)", idx.name, idx.table, idx.columns)
		if err := db.Exec(query).Error; err != nil {
			log.Warn("⚠ failed to create index", zap.String("index", idx.name), zap.Error(err))
			failed++
			continue
		}
		log.Info("✓ created index", zap.String("index", idx.name))
	}

	if failed > 0 {
		return fmt.Errorf("%d of %d indexes failed", failed, len(indexes))
	}
	return nil
}

// DropAll drops every application table, children first
func DropAll(db *gorm.DB, log *zap.Logger) error {
	migrator := db.Migrator()
	for _, table := range models.TableNames() {
		if !migrator.HasTable(table) {
			continue
		}
		if err := migrator.DropTable(table); err != nil {
			return fmt.Errorf("failed to drop %s: %w", table, err)
		}
		log.Info("✓ dropped table", zap.String("table", table))
	}
	return nil
}

// TableCounts returns the row count of every application table
func TableCounts(db *gorm.DB) (map[string]int64, error) {
	counts := make(map[string]int64, len(models.TableNames()))
	for _, table := range models.TableNames() {
		var n int64
		if err := db.Table(table).Count(&n).Error; err != nil {
			return nil, fmt.Errorf("failed to count %s: %w", table, err)
		}
		counts[table] = n
	}
	return counts, nil
}
