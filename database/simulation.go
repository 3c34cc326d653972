package database

import (
	"errors"
	"fmt"
	"math/rand"
	"strconv"
	"time"

	"github.com/salesanalytics/models"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// SimulationConfig holds simulation parameters
type SimulationConfig struct {
	Year          int
	Opportunities int     // Number of opportunities to generate
	Seed          int64   // Random seed; equal seeds give equal data on equal master data
	WinRate       float64 // Share of opportunities that close won (e.g., 0.3 = 30%)
}

// PipelineSimulation generates a fiscal year of sales activity for existing clients
type PipelineSimulation struct {
	db       *gorm.DB
	log      *zap.Logger
	config   SimulationConfig
	rng      *rand.Rand
	clients  []models.Client
	products []models.Product
	// next free win level per client/category
	winLevels map[string]int
	stats     SimulationStats
}

// SimulationStats summarizes what a run created
type SimulationStats struct {
	Opportunities int
	Signings      int
	Wins          int
	UpdateEvents  int
}

var stageOrder = []string{
	models.StageQualify,
	models.StageRefine,
	models.StageTechEval,
	models.StageProposal,
	models.StageMigrate,
}

var stageProbability = map[string]float64{
	models.StageQualify:  10,
	models.StageRefine:   25,
	models.StageTechEval: 40,
	models.StageProposal: 70,
	models.StageMigrate:  90,
}

// NewPipelineSimulation creates a new simulation instance
func NewPipelineSimulation(db *gorm.DB, log *zap.Logger, config SimulationConfig) (*PipelineSimulation, error) {
	if config.Year == 0 {
		return nil, errors.New("simulation year is required")
	}
	if config.Opportunities <= 0 {
		config.Opportunities = 100
	}
	if config.WinRate <= 0 || config.WinRate > 1 {
		config.WinRate = 0.3
	}

	sim := &PipelineSimulation{
		db:        db,
		log:       log,
		config:    config,
		rng:       rand.New(rand.NewSource(config.Seed)),
		winLevels: make(map[string]int),
	}

	// Load existing data
	if err := sim.loadExistingData(); err != nil {
		return nil, fmt.Errorf("failed to load existing data: %w", err)
	}
	return sim, nil
}

// loadExistingData loads clients, products and wins already recorded for the year
func (s *PipelineSimulation) loadExistingData() error {
	if err := s.db.Order("client_id").Find(&s.clients).Error; err != nil {
		return fmt.Errorf("failed to load clients: %w", err)
	}
	if err := s.db.Order("product_id").Find(&s.products).Error; err != nil {
		return fmt.Errorf("failed to load products: %w", err)
	}
	if len(s.clients) == 0 || len(s.products) == 0 {
		return errors.New("no clients or products found, run the seed first")
	}

	var wins []models.Win
	if err := s.db.Where("fiscal_year = ?", s.config.Year).Find(&wins).Error; err != nil {
		return fmt.Errorf("failed to load wins: %w", err)
	}
	for _, w := range wins {
		key := winKey(w.ClientID, w.WinCategory)
		if w.WinLevel >= s.winLevels[key] {
			s.winLevels[key] = w.WinLevel + 1
		}
	}

	s.log.Info("loaded master data", zap.Int("clients", len(s.clients)), zap.Int("products", len(s.products)))
	return nil
}

// Run generates the configured number of opportunities
func (s *PipelineSimulation) Run() (SimulationStats, error) {
	s.log.Info("🚀 starting pipeline simulation",
		zap.Int("year", s.config.Year),
		zap.Int("opportunities", s.config.Opportunities),
		zap.Int64("seed", s.config.Seed))

	for i := 0; i < s.config.Opportunities; i++ {
		if err := s.db.Transaction(s.createOpportunity); err != nil {
			return s.stats, fmt.Errorf("opportunity %d: %w", i+1, err)
		}
	}

	s.log.Info("simulation summary",
		zap.Int("opportunities", s.stats.Opportunities),
		zap.Int("signings", s.stats.Signings),
		zap.Int("wins", s.stats.Wins),
		zap.Int("update_events", s.stats.UpdateEvents))
	return s.stats, nil
}

func (s *PipelineSimulation) createOpportunity(tx *gorm.DB) error {
	client := s.clients[s.rng.Intn(len(s.clients))]
	product := s.products[s.rng.Intn(len(s.products))]

	created := time.Date(s.config.Year, time.January, 1, 9, 0, 0, 0, time.UTC).
		AddDate(0, 0, s.rng.Intn(300))
	closeDate := created.AddDate(0, 0, 30+s.rng.Intn(60))
	if closeDate.Year() > s.config.Year {
		closeDate = time.Date(s.config.Year, time.December, 31, 0, 0, 0, 0, time.UTC)
	}

	won := s.rng.Float64() < s.config.WinRate
	reached := s.rng.Intn(len(stageOrder))
	forecast := s.randomOpenForecast(reached)
	if won {
		reached = len(stageOrder) - 1
		forecast = models.ForecastClosedWon
	}
	stage := stageOrder[reached]
	probability := stageProbability[stage]
	if won {
		probability = 100
	}

	opp := models.Opportunity{
		OpportunityName:  fmt.Sprintf("%s - %s #%d", client.ClientName, product.ProductName, s.rng.Intn(10000)),
		ClientID:         client.ClientID,
		ProductID:        product.ProductID,
		ForecastCategory: forecast,
		SalesStage:       stage,
		CloseDate:        truncateDay(closeDate),
		Probability:      probability,
		Amount:           float64(10000 + s.rng.Intn(490)*1000),
		CreatedDate:      created,
		LastModifiedDate: closeDate,
	}
	if err := tx.Create(&opp).Error; err != nil {
		return fmt.Errorf("failed to create opportunity: %w", err)
	}
	s.stats.Opportunities++

	if err := s.recordStageHistory(tx, opp, reached); err != nil {
		return err
	}

	if !won {
		return nil
	}

	category := winCategoryFor(product.ProductCategory)
	key := winKey(client.ClientID, category)
	level := s.winLevels[key]
	if level == 0 {
		level = 1
	}
	s.winLevels[key] = level + 1

	if err := createDealFacts(tx, opp, product, 1+s.rng.Intn(3), level); err != nil {
		return fmt.Errorf("failed to create deal facts: %w", err)
	}
	s.stats.Signings++
	s.stats.Wins++
	return nil
}

// recordStageHistory writes one update event per stage transition
func (s *PipelineSimulation) recordStageHistory(tx *gorm.DB, opp models.Opportunity, reached int) error {
	if reached == 0 {
		return nil
	}
	span := opp.LastModifiedDate.Sub(opp.CreatedDate) / time.Duration(reached+1)

	for i := 1; i <= reached; i++ {
		event := models.UpdateEvent{
			OpportunityID: opp.OpportunityID,
			ChangeDate:    opp.CreatedDate.Add(span * time.Duration(i)),
		}
		if err := tx.Create(&event).Error; err != nil {
			return fmt.Errorf("failed to create update event: %w", err)
		}
		changes := []models.OpportunityUpdateLog{
			{ChangeBatchID: event.ChangeBatchID, FieldName: "sales_stage", OldValue: stageOrder[i-1], NewValue: stageOrder[i]},
			{
				ChangeBatchID: event.ChangeBatchID,
				FieldName:     "probability",
				OldValue:      strconv.FormatFloat(stageProbability[stageOrder[i-1]], 'f', 2, 64),
				NewValue:      strconv.FormatFloat(stageProbability[stageOrder[i]], 'f', 2, 64),
			},
		}
		if err := tx.Create(&changes).Error; err != nil {
			return fmt.Errorf("failed to create update log: %w", err)
		}
		s.stats.UpdateEvents++
	}
	return nil
}

func (s *PipelineSimulation) randomOpenForecast(reached int) string {
	r := s.rng.Float64()
	switch {
	case r < 0.1:
		return models.ForecastOmit
	case reached >= 3:
		return models.ForecastCommit
	case reached >= 1:
		return models.ForecastUpside
	default:
		return models.ForecastPipeline
	}
}

// ClearFacts deletes all opportunity-derived rows, keeping users, clients, products and targets
func ClearFacts(db *gorm.DB, log *zap.Logger) error {
	tables := []string{"opportunityupdatelog", "updateevent", "revenue", "win", "signing", "opportunity"}
	return db.Transaction(func(tx *gorm.DB) error {
		for _, table := range tables {
			if err := tx.Exec(fmt.Sprintf("DELETE FROM %s", tx.Statement.Quote(table))).Error; err != nil {
				return fmt.Errorf("failed to clear %s: %w", table, err)
			}
		}
		log.Info("✓ cleared opportunity facts")
		return nil
	})
}

func winKey(clientID uint, category string) string {
	return fmt.Sprintf("%d/%s", clientID, category)
}

func truncateDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
