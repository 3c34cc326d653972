package analytics

import (
	"context"
	"fmt"
	"strings"
	"time"

	"gorm.io/gorm"
)

// DefaultLimit caps table reports when no limit is given
const DefaultLimit = 100

const (
	dateLayout     = "2006-01-02"
	dateTimeLayout = "2006-01-02 15:04:05"
)

// OpportunityFilter narrows the opportunity table. Empty lists do not filter.
type OpportunityFilter struct {
	SalesStages        []string
	ForecastCategories []string
	ProductCategories  []string
	Name               string
	Limit              int
}

// OpportunityRow is one line of the opportunity table
type OpportunityRow struct {
	OpportunityID    uint    `json:"opportunity_id"`
	OpportunityName  string  `json:"opportunity_name"`
	ClientName       string  `json:"client_name"`
	ProductName      string  `json:"product_name"`
	ProductCategory  string  `json:"product_category"`
	ForecastCategory string  `json:"forecast_category"`
	SalesStage       string  `json:"sales_stage"`
	CloseDate        string  `json:"close_date"`
	Probability      float64 `json:"probability"`
	Amount           float64 `json:"amount"`
	CreatedDate      string  `json:"created_date"`
}

type opportunityScan struct {
	OpportunityID    uint
	OpportunityName  string
	ClientName       string
	ProductName      string
	ProductCategory  string
	ForecastCategory string
	SalesStage       string
	CloseDate        time.Time
	Probability      float64
	Amount           float64
	CreatedDate      time.Time
}

// ListOpportunities returns up to f.Limit opportunities in scope and the
// number matching before the limit.
func ListOpportunities(ctx context.Context, db *gorm.DB, scope Scope, f OpportunityFilter) ([]OpportunityRow, int64, error) {
	rows := []OpportunityRow{}
	if scope.Empty() {
		return rows, 0, nil
	}
	if f.Limit <= 0 {
		f.Limit = DefaultLimit
	}

	tx := db.WithContext(ctx).Table("opportunity o").
		Joins("JOIN client c ON c.client_id = o.client_id").
		Joins("JOIN product p ON p.product_id = o.product_id")
	tx = scope.Apply(tx, "o.client_id")

	if len(f.SalesStages) > 0 {
		tx = tx.Where("o.sales_stage IN ?", f.SalesStages)
	}
	if len(f.ForecastCategories) > 0 {
		tx = tx.Where("o.forecast_category IN ?", f.ForecastCategories)
	}
	if len(f.ProductCategories) > 0 {
		tx = tx.Where("p.product_category IN ?", ExpandProductCategories(f.ProductCategories))
	}
	if f.Name != "" {
		tx = tx.Where("LOWER(o.opportunity_name) LIKE ?", "%"+strings.ToLower(f.Name)+"%")
	}
	tx = tx.Session(&gorm.Session{})

	var total int64
	if err := tx.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("count: %w", err)
	}

	var scanned []opportunityScan
	err := tx.Select("o.opportunity_id, o.opportunity_name, c.client_name, p.product_name, p.product_category, " +
		"o.forecast_category, o.sales_stage, o.close_date, o.probability, o.amount, o.created_date").
		Order("o.opportunity_id").
		Limit(f.Limit).
		Scan(&scanned).Error
	if err != nil {
		return nil, 0, err
	}

	for _, s := range scanned {
		rows = append(rows, OpportunityRow{
			OpportunityID:    s.OpportunityID,
			OpportunityName:  s.OpportunityName,
			ClientName:       s.ClientName,
			ProductName:      s.ProductName,
			ProductCategory:  s.ProductCategory,
			ForecastCategory: s.ForecastCategory,
			SalesStage:       s.SalesStage,
			CloseDate:        s.CloseDate.Format(dateLayout),
			Probability:      s.Probability,
			Amount:           s.Amount,
			CreatedDate:      s.CreatedDate.UTC().Format(dateTimeLayout),
		})
	}
	return rows, total, nil
}

// ForecastSlice is one bar of the forecast category chart
type ForecastSlice struct {
	Category       string  `json:"category"`
	Label          string  `json:"label"`
	Count          int64   `json:"count"`
	Amount         float64 `json:"amount"`
	WeightedAmount float64 `json:"weighted_amount"`
}

// ForecastCategoryChart groups opportunities created in year by forecast category
func ForecastCategoryChart(ctx context.Context, db *gorm.DB, scope Scope, year int) ([]ForecastSlice, error) {
	found := map[string]ForecastSlice{}
	if !scope.Empty() {
		var rows []ForecastSlice
		start, end := YearBounds(year)
		err := scope.Apply(db.WithContext(ctx).Table("opportunity"), "client_id").
			Where("created_date >= ? AND created_date < ?", start, end).
			Select("forecast_category AS category, COUNT(*) AS count, " +
				"COALESCE(SUM(amount), 0) AS amount, COALESCE(SUM(amount * probability / 100), 0) AS weighted_amount").
			Group("forecast_category").
			Scan(&rows).Error
		if err != nil {
			return nil, err
		}
		for _, r := range rows {
			r.Label = Label(r.Category)
			r.Amount = round2(r.Amount)
			r.WeightedAmount = round2(r.WeightedAmount)
			found[r.Category] = r
		}
	}

	return FillKeys(ForecastCategories, found, func(c string) ForecastSlice {
		return ForecastSlice{Category: c, Label: Label(c)}
	}), nil
}

// StageSlice is one bar of the sales stage chart
type StageSlice struct {
	SalesStage string  `json:"sales_stage"`
	Label      string  `json:"label"`
	Count      int64   `json:"count"`
	Amount     float64 `json:"amount"`
}

// SalesStageChart groups opportunities created in year by sales stage
func SalesStageChart(ctx context.Context, db *gorm.DB, scope Scope, year int) ([]StageSlice, error) {
	found := map[string]StageSlice{}
	if !scope.Empty() {
		var rows []StageSlice
		start, end := YearBounds(year)
		err := scope.Apply(db.WithContext(ctx).Table("opportunity"), "client_id").
			Where("created_date >= ? AND created_date < ?", start, end).
			Select("sales_stage, COUNT(*) AS count, COALESCE(SUM(amount), 0) AS amount").
			Group("sales_stage").
			Scan(&rows).Error
		if err != nil {
			return nil, err
		}
		for _, r := range rows {
			r.Label = Label(r.SalesStage)
			r.Amount = round2(r.Amount)
			found[r.SalesStage] = r
		}
	}

	return FillKeys(SalesStages, found, func(s string) StageSlice {
		return StageSlice{SalesStage: s, Label: Label(s)}
	}), nil
}
