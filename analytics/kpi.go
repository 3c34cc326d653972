package analytics

import (
	"context"
	"fmt"
	"time"

	"github.com/salesanalytics/models"
	"gorm.io/gorm"
)

// KPIs are the four landing page cards
type KPIs struct {
	Pipeline float64 `json:"pipeline"`
	Revenue  float64 `json:"revenue"`
	Signings float64 `json:"signings"`
	Wins     float64 `json:"wins"`
}

// daysPerYear converts contract durations to years
const daysPerYear = 365.25

// AnnualizedValue spreads a contract value over its duration in years,
// never dividing by less than one year.
func AnnualizedValue(totalContractValue float64, start, end time.Time) float64 {
	years := end.Sub(start).Hours() / 24 / daysPerYear
	if years < 1 {
		years = 1
	}
	return totalContractValue / years
}

// ComputeKPIs computes the KPI cards from January 1 through the end of quarter
func ComputeKPIs(ctx context.Context, db *gorm.DB, scope Scope, year, quarter int) (KPIs, error) {
	var kpis KPIs
	if scope.Empty() {
		return kpis, nil
	}

	pipeline, err := PipelineValue(ctx, db, scope, year, quarter)
	if err != nil {
		return kpis, err
	}
	kpis.Pipeline = pipeline

	for _, metric := range models.TargetTypes() {
		quarters, err := QuarterlyActuals(ctx, db, scope, year, metric)
		if err != nil {
			return kpis, err
		}
		total := round2(throughQuarter(quarters, quarter))
		switch metric {
		case models.TargetRevenue:
			kpis.Revenue = total
		case models.TargetSignings:
			kpis.Signings = total
		case models.TargetWins:
			kpis.Wins = total
		}
	}
	return kpis, nil
}

// PipelineValue sums amount × probability of non-omitted opportunities
// created between January 1 and the end of quarter.
func PipelineValue(ctx context.Context, db *gorm.DB, scope Scope, year, quarter int) (float64, error) {
	if scope.Empty() {
		return 0, nil
	}
	start, _ := YearBounds(year)
	_, end := QuarterBounds(year, quarter)

	var total float64
	err := scope.Apply(db.WithContext(ctx).Model(&models.Opportunity{}), "client_id").
		Where("forecast_category <> ?", models.ForecastOmit).
		Where("created_date >= ? AND created_date < ?", start, end).
		Select("COALESCE(SUM(amount * probability / 100), 0)").
		Scan(&total).Error
	if err != nil {
		return 0, fmt.Errorf("pipeline: %w", err)
	}
	return round2(total), nil
}

type quarterTotal struct {
	Quarter int
	Total   float64
}

// QuarterlyActuals returns the metric's total in each fiscal quarter of year
func QuarterlyActuals(ctx context.Context, db *gorm.DB, scope Scope, year int, metric models.TargetType) ([4]float64, error) {
	var out [4]float64
	if scope.Empty() {
		return out, nil
	}
	tx := db.WithContext(ctx)

	var rows []quarterTotal
	switch metric {
	case models.TargetRevenue:
		err := scope.Apply(tx.Model(&models.Revenue{}), "client_id").
			Where("fiscal_year = ?", year).
			Select("fiscal_quarter AS quarter, COALESCE(SUM(amount), 0) AS total").
			Group("fiscal_quarter").
			Scan(&rows).Error
		if err != nil {
			return out, fmt.Errorf("revenue: %w", err)
		}
	case models.TargetWins:
		err := scope.Apply(tx.Model(&models.Win{}), "client_id").
			Where("fiscal_year = ?", year).
			Select("fiscal_quarter AS quarter, COALESCE(SUM(win_multiplier), 0) AS total").
			Group("fiscal_quarter").
			Scan(&rows).Error
		if err != nil {
			return out, fmt.Errorf("wins: %w", err)
		}
	case models.TargetSignings:
		var signings []models.Signing
		err := scope.Apply(tx.Model(&models.Signing{}), "client_id").
			Where("fiscal_year = ?", year).
			Select("fiscal_quarter", "total_contract_value", "start_date", "end_date").
			Find(&signings).Error
		if err != nil {
			return out, fmt.Errorf("signings: %w", err)
		}
		for _, s := range signings {
			rows = append(rows, quarterTotal{
				Quarter: s.FiscalQuarter,
				Total:   AnnualizedValue(s.TotalContractValue, s.StartDate, s.EndDate),
			})
		}
	default:
		return out, fmt.Errorf("unknown metric %q", metric)
	}

	for _, r := range rows {
		if r.Quarter >= 1 && r.Quarter <= 4 {
			out[r.Quarter-1] += r.Total
		}
	}
	return out, nil
}

func throughQuarter(quarters [4]float64, quarter int) float64 {
	var total float64
	for q := 1; q <= quarter && q <= 4; q++ {
		total += quarters[q-1]
	}
	return total
}
