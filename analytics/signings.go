package analytics

import (
	"context"
	"time"

	"gorm.io/gorm"
)

// SigningFilter narrows the signing table. Empty lists do not filter.
type SigningFilter struct {
	Quarters          []int
	ProductCategories []string
}

// SigningRow is one line of the signing table. Categories of the
// app-modernization group are reported as the group.
type SigningRow struct {
	SigningID          uint     `json:"signing_id"`
	ClientName         string   `json:"client_name"`
	ProductName        string   `json:"product_name"`
	ProductCategory    string   `json:"product_category"`
	TotalContractValue float64  `json:"total_contract_value"`
	IncrementalACV     *float64 `json:"incremental_acv"`
	StartDate          string   `json:"start_date"`
	EndDate            string   `json:"end_date"`
	SigningDate        string   `json:"signing_date"`
	FiscalYear         int      `json:"fiscal_year"`
	FiscalQuarter      int      `json:"fiscal_quarter"`
}

type signingScan struct {
	SigningID          uint
	ClientName         string
	ProductName        string
	ProductCategory    string
	TotalContractValue float64
	IncrementalACV     *float64 `gorm:"column:incremental_acv"`
	StartDate          time.Time
	EndDate            time.Time
	SigningDate        time.Time
	FiscalYear         int
	FiscalQuarter      int
}

// ListSignings returns signings in scope for year, newest first
func ListSignings(ctx context.Context, db *gorm.DB, scope Scope, year int, f SigningFilter) ([]SigningRow, error) {
	rows := []SigningRow{}
	if scope.Empty() {
		return rows, nil
	}

	tx := scope.Apply(db.WithContext(ctx).Table("signing s"), "s.client_id").
		Joins("JOIN client c ON c.client_id = s.client_id").
		Joins("JOIN product p ON p.product_id = s.product_id").
		Where("s.fiscal_year = ?", year)
	if len(f.Quarters) > 0 {
		tx = tx.Where("s.fiscal_quarter IN ?", f.Quarters)
	}
	if len(f.ProductCategories) > 0 {
		tx = tx.Where("p.product_category IN ?", ExpandProductCategories(f.ProductCategories))
	}

	var scanned []signingScan
	err := tx.Select("s.signing_id, c.client_name, p.product_name, p.product_category, s.total_contract_value, " +
		"s.incremental_acv, s.start_date, s.end_date, s.signing_date, s.fiscal_year, s.fiscal_quarter").
		Order("s.signing_date DESC, s.signing_id DESC").
		Scan(&scanned).Error
	if err != nil {
		return nil, err
	}

	for _, s := range scanned {
		rows = append(rows, SigningRow{
			SigningID:          s.SigningID,
			ClientName:         s.ClientName,
			ProductName:        s.ProductName,
			ProductCategory:    ProductGroupOf(s.ProductCategory),
			TotalContractValue: s.TotalContractValue,
			IncrementalACV:     s.IncrementalACV,
			StartDate:          s.StartDate.Format(dateLayout),
			EndDate:            s.EndDate.Format(dateLayout),
			SigningDate:        s.SigningDate.Format(dateLayout),
			FiscalYear:         s.FiscalYear,
			FiscalQuarter:      s.FiscalQuarter,
		})
	}
	return rows, nil
}

// SigningQuarter is one bar of the quarterly signings chart
type SigningQuarter struct {
	Quarter            int     `json:"quarter"`
	Label              string  `json:"label"`
	Count              int64   `json:"count"`
	TotalContractValue float64 `json:"total_contract_value"`
	IncrementalACV     float64 `json:"incremental_acv"`
}

// SigningsQuarterlyChart totals signings per fiscal quarter of year
func SigningsQuarterlyChart(ctx context.Context, db *gorm.DB, scope Scope, year int) ([]SigningQuarter, error) {
	found := map[int]SigningQuarter{}
	if !scope.Empty() {
		var rows []SigningQuarter
		err := scope.Apply(db.WithContext(ctx).Table("signing"), "client_id").
			Where("fiscal_year = ?", year).
			Select("fiscal_quarter AS quarter, COUNT(*) AS count, " +
				"COALESCE(SUM(total_contract_value), 0) AS total_contract_value, " +
				"COALESCE(SUM(incremental_acv), 0) AS incremental_acv").
			Group("fiscal_quarter").
			Scan(&rows).Error
		if err != nil {
			return nil, err
		}
		for _, r := range rows {
			r.Label = QuarterLabel(r.Quarter)
			r.TotalContractValue = round2(r.TotalContractValue)
			r.IncrementalACV = round2(r.IncrementalACV)
			found[r.Quarter] = r
		}
	}

	return FillInts(Quarters, found, func(q int) SigningQuarter {
		return SigningQuarter{Quarter: q, Label: QuarterLabel(q)}
	}), nil
}
