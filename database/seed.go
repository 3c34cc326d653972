package database

import (
	"fmt"
	"time"

	"github.com/salesanalytics/auth"
	"github.com/salesanalytics/models"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// DemoPassword is the password of every seeded user
const DemoPassword = "password123"

// SeedOptions controls demo seeding
type SeedOptions struct {
	// Force clears every table before seeding.
	Force bool
	// Year is the fiscal year the demo facts are placed in.
	Year int
}

// ClearData deletes all rows, children first
func ClearData(db *gorm.DB, log *zap.Logger) error {
	log.Info("cleaning up existing data")

	return db.Transaction(func(tx *gorm.DB) error {
		for _, table := range models.TableNames() {
			if err := tx.Exec(fmt.Sprintf("DELETE FROM %s", tx.Statement.Quote(table))).Error; err != nil {
				return fmt.Errorf("failed to clear %s: %w", table, err)
			}
		}
		log.Info("✓ cleaned up data")
		return nil
	})
}

// SeedData seeds demo data into an empty database
func SeedData(db *gorm.DB, log *zap.Logger, opts SeedOptions) error {
	if opts.Year == 0 {
		opts.Year = 2024
	}

	if opts.Force {
		if err := ClearData(db, log); err != nil {
			return err
		}
	} else {
		var userCount int64
		if err := db.Model(&models.User{}).Count(&userCount).Error; err != nil {
			return fmt.Errorf("failed to count users: %w", err)
		}
		if userCount > 0 {
			log.Info("database already has data, skipping seed")
			return nil
		}
	}

	log.Info("database is empty, starting seed process", zap.Int("year", opts.Year))

	hashed, err := auth.HashPassword(DemoPassword)
	if err != nil {
		return err
	}

	// Use transaction for data integrity
	return db.Transaction(func(tx *gorm.DB) error {
		users, err := seedUsers(tx, hashed)
		if err != nil {
			return fmt.Errorf("failed to seed users: %w", err)
		}

		products, err := seedProducts(tx)
		if err != nil {
			return fmt.Errorf("failed to seed products: %w", err)
		}

		clients, err := seedClients(tx, users, opts.Year)
		if err != nil {
			return fmt.Errorf("failed to seed clients: %w", err)
		}

		if err := seedTargets(tx, users, opts.Year); err != nil {
			return fmt.Errorf("failed to seed targets: %w", err)
		}

		if err := seedFacts(tx, clients, products, opts.Year); err != nil {
			return fmt.Errorf("failed to seed facts: %w", err)
		}

		log.Info("✅ database seeded successfully",
			zap.Int("users", len(users)),
			zap.Int("clients", len(clients)),
			zap.Int("products", len(products)))
		return nil
	})
}

// HashLegacyPasswords bcrypt-hashes any password still stored as plaintext
func HashLegacyPasswords(db *gorm.DB, log *zap.Logger) (int, error) {
	var users []models.User
	if err := db.Find(&users).Error; err != nil {
		return 0, fmt.Errorf("failed to load users: %w", err)
	}

	var updated int
	for _, u := range users {
		if auth.IsHashed(u.HashedPassword) {
			continue
		}
		hashed, err := auth.HashPassword(u.HashedPassword)
		if err != nil {
			return updated, err
		}
		if err := db.Model(&models.User{}).Where("user_id = ?", u.UserID).
			Update("hashed_password", hashed).Error; err != nil {
			return updated, fmt.Errorf("failed to update user %s: %w", u.Username, err)
		}
		log.Info("✓ hashed legacy password", zap.String("username", u.Username))
		updated++
	}
	return updated, nil
}

func seedUsers(tx *gorm.DB, hashed string) (map[string]models.User, error) {
	users := []models.User{
		{Username: "director1", Email: "director1@example.com", FirstName: "Dana", LastName: "Whitfield", Role: models.RoleDirector},
		{Username: "ae1", Email: "ae1@example.com", FirstName: "Alex", LastName: "Moreau", Role: models.RoleAccountExecutive},
		{Username: "ae2", Email: "ae2@example.com", FirstName: "Priya", LastName: "Nair", Role: models.RoleAccountExecutive},
		{Username: "ae3", Email: "ae3@example.com", FirstName: "Sam", LastName: "Okafor", Role: models.RoleAccountExecutive},
	}
	for i := range users {
		users[i].HashedPassword = hashed
	}
	if err := tx.Create(&users).Error; err != nil {
		return nil, err
	}

	byName := make(map[string]models.User, len(users))
	for _, u := range users {
		byName[u.Username] = u
	}

	// ae3 reports to nobody yet
	mappings := []models.DirectorAccountExecutive{
		{DirectorID: byName["director1"].UserID, AccountExecutiveID: byName["ae1"].UserID},
		{DirectorID: byName["director1"].UserID, AccountExecutiveID: byName["ae2"].UserID},
	}
	if err := tx.Create(&mappings).Error; err != nil {
		return nil, err
	}
	return byName, nil
}

func seedProducts(tx *gorm.DB) ([]models.Product, error) {
	products := []models.Product{
		{ProductName: "Compute Engine", ProductCategory: "gcp-core"},
		{ProductName: "Cloud Storage", ProductCategory: "gcp-core"},
		{ProductName: "BigQuery", ProductCategory: "data-analytics"},
		{ProductName: "Dataflow", ProductCategory: "data-analytics"},
		{ProductName: "Security Command Center", ProductCategory: "cloud-security"},
		{ProductName: "Mandiant Threat Intel", ProductCategory: "mandiant"},
		{ProductName: "Looker", ProductCategory: "looker"},
		{ProductName: "Apigee X", ProductCategory: "apigee"},
		{ProductName: "Maps Platform", ProductCategory: "maps"},
		{ProductName: "Marketplace Listing", ProductCategory: "marketplace"},
		{ProductName: "Vertex AI", ProductCategory: "vertex-ai-platform"},
	}
	if err := tx.Create(&products).Error; err != nil {
		return nil, err
	}
	return products, nil
}

func seedClients(tx *gorm.DB, users map[string]models.User, year int) ([]models.Client, error) {
	created := time.Date(year-1, time.June, 1, 0, 0, 0, 0, time.UTC)
	rows := []struct {
		name, ae, city, province, industry string
	}{
		{"Northwind Logistics", "ae1", "Toronto", "ON", "Transportation"},
		{"Maple Health", "ae1", "Ottawa", "ON", "Healthcare"},
		{"Laurentian Bank Group", "ae1", "Montreal", "QC", "Financial Services"},
		{"Pacific Retail Co", "ae2", "Vancouver", "BC", "Retail"},
		{"Prairie Energy", "ae2", "Calgary", "AB", "Energy"},
		{"Coastal Media", "ae2", "Halifax", "NS", "Media"},
		{"Tundra Mining", "ae3", "Whitehorse", "YT", "Mining"},
	}

	clients := make([]models.Client, 0, len(rows))
	for _, r := range rows {
		clients = append(clients, models.Client{
			ClientName:         r.name,
			AccountExecutiveID: users[r.ae].UserID,
			City:               strPtr(r.city),
			Province:           strPtr(r.province),
			Industry:           strPtr(r.industry),
			CreatedDate:        created,
		})
	}
	if err := tx.Create(&clients).Error; err != nil {
		return nil, err
	}
	return clients, nil
}

func seedTargets(tx *gorm.DB, users map[string]models.User, year int) error {
	amounts := map[models.TargetType]float64{
		models.TargetRevenue:  2000000,
		models.TargetSignings: 800000,
		models.TargetWins:     8,
	}
	split := []float64{20, 25, 25, 30}

	// ae3 deliberately has no stored targets and falls back to the defaults
	for _, name := range []string{"ae1", "ae2"} {
		user := users[name]
		for _, tt := range models.TargetTypes() {
			yearly := models.YearlyTarget{UserID: user.UserID, FiscalYear: year, TargetType: tt, Amount: amounts[tt]}
			if err := tx.Create(&yearly).Error; err != nil {
				return err
			}
			for q, pct := range split {
				quarterly := models.QuarterlyTarget{
					TargetID:      yearly.TargetID,
					FiscalQuarter: q + 1,
					UserID:        user.UserID,
					Percentage:    pct,
				}
				if err := tx.Create(&quarterly).Error; err != nil {
					return err
				}
			}
		}
	}
	return nil
}

// seedFacts creates a small, hand-shaped pipeline: one closed-won deal per
// client with its signing, monthly revenue and win, plus open opportunities.
func seedFacts(tx *gorm.DB, clients []models.Client, products []models.Product, year int) error {
	stages := []struct {
		forecast, stage string
		probability     float64
	}{
		{models.ForecastPipeline, models.StageQualify, 10},
		{models.ForecastUpside, models.StageRefine, 30},
		{models.ForecastCommit, models.StageProposal, 70},
		{models.ForecastOmit, models.StageTechEval, 0},
	}

	for i, client := range clients {
		product := products[i%len(products)]
		closeMonth := time.Month(1 + (i*2)%12)
		closeDate := time.Date(year, closeMonth, 15, 0, 0, 0, 0, time.UTC)
		amount := float64(150000 + i*50000)

		won := models.Opportunity{
			OpportunityName:  fmt.Sprintf("%s - %s", client.ClientName, product.ProductName),
			ClientID:         client.ClientID,
			ProductID:        product.ProductID,
			ForecastCategory: models.ForecastClosedWon,
			SalesStage:       models.StageMigrate,
			CloseDate:        closeDate,
			Probability:      100,
			Amount:           amount,
			CreatedDate:      closeDate.AddDate(0, -2, 0),
			LastModifiedDate: closeDate,
		}
		if err := tx.Create(&won).Error; err != nil {
			return err
		}

		if err := createDealFacts(tx, won, product, 1+i%3, 1); err != nil {
			return err
		}

		for j, s := range stages {
			open := products[(i+j+1)%len(products)]
			created := time.Date(year, time.Month(1+(i+j)%12), 1+j, 0, 0, 0, 0, time.UTC)
			opp := models.Opportunity{
				OpportunityName:  fmt.Sprintf("%s - %s expansion", client.ClientName, open.ProductName),
				ClientID:         client.ClientID,
				ProductID:        open.ProductID,
				ForecastCategory: s.forecast,
				SalesStage:       s.stage,
				CloseDate:        created.AddDate(0, 4, 0),
				Probability:      s.probability,
				Amount:           float64(40000 + 10000*j + 5000*i),
				CreatedDate:      created,
				LastModifiedDate: created.AddDate(0, 0, 14),
			}
			if err := tx.Create(&opp).Error; err != nil {
				return err
			}
		}
	}
	return nil
}

// createDealFacts records the signing, monthly revenue through year end and
// the win for a closed-won opportunity.
func createDealFacts(tx *gorm.DB, opp models.Opportunity, product models.Product, years, winLevel int) error {
	start := opp.CloseDate
	end := start.AddDate(years, 0, 0)
	iacv := opp.Amount / float64(years)

	signing := models.Signing{
		OpportunityID:      opp.OpportunityID,
		ClientID:           opp.ClientID,
		ProductID:          opp.ProductID,
		TotalContractValue: opp.Amount,
		IncrementalACV:     &iacv,
		StartDate:          start,
		EndDate:            end,
		SigningDate:        opp.CloseDate,
		FiscalYear:         opp.CloseDate.Year(),
		FiscalQuarter:      quarterOf(opp.CloseDate.Month()),
	}
	if err := tx.Create(&signing).Error; err != nil {
		return err
	}

	monthly := iacv / 12
	var revenue []models.Revenue
	for m := int(start.Month()); m <= 12; m++ {
		revenue = append(revenue, models.Revenue{
			OpportunityID: opp.OpportunityID,
			ClientID:      opp.ClientID,
			SigningID:     &signing.SigningID,
			ProductID:     opp.ProductID,
			FiscalYear:    start.Year(),
			FiscalQuarter: quarterOf(time.Month(m)),
			Month:         m,
			Amount:        roundCents(monthly),
		})
	}
	if len(revenue) > 0 {
		if err := tx.Create(&revenue).Error; err != nil {
			return err
		}
	}

	win := models.Win{
		ClientID:      opp.ClientID,
		WinCategory:   winCategoryFor(product.ProductCategory),
		WinLevel:      winLevel,
		WinMultiplier: winMultiplier(winLevel),
		FiscalYear:    signing.FiscalYear,
		FiscalQuarter: signing.FiscalQuarter,
		OpportunityID: opp.OpportunityID,
		ProductID:     opp.ProductID,
	}
	return tx.Create(&win).Error
}

func quarterOf(m time.Month) int {
	return (int(m)-1)/3 + 1
}

func winCategoryFor(productCategory string) string {
	if productCategory == "data-analytics" || productCategory == "looker" {
		return models.WinCategoryDA
	}
	return models.WinCategoryGCP
}

// winMultiplier gives full credit for a first-level win, half after that
func winMultiplier(level int) float64 {
	if level <= 1 {
		return 1.0
	}
	return 0.5
}

func roundCents(v float64) float64 {
	return float64(int64(v*100+0.5)) / 100
}

func strPtr(s string) *string {
	return &s
}
