package analytics

import (
	"context"
	"time"

	"gorm.io/gorm"
)

// WinFilter narrows the win table. Bounds apply to the linked opportunity's
// amount and close date; nil bounds do not filter.
type WinFilter struct {
	Quarters   []int
	Categories []string
	LowerBound *float64
	UpperBound *float64
	StartDate  *time.Time
	EndDate    *time.Time
}

// WinRow is one line of the win table
type WinRow struct {
	WinID           uint    `json:"win_id"`
	ClientID        uint    `json:"client_id"`
	ClientName      string  `json:"client_name"`
	WinCategory     string  `json:"win_category"`
	WinLevel        int     `json:"win_level"`
	WinMultiplier   float64 `json:"win_multiplier"`
	FiscalYear      int     `json:"fiscal_year"`
	FiscalQuarter   int     `json:"fiscal_quarter"`
	OpportunityID   uint    `json:"opportunity_id"`
	OpportunityName string  `json:"opportunity_name"`
	Amount          float64 `json:"amount"`
	CloseDate       string  `json:"close_date"`
	ProductName     string  `json:"product_name"`
}

type winScan struct {
	WinID           uint
	ClientID        uint
	ClientName      string
	WinCategory     string
	WinLevel        int
	WinMultiplier   float64
	FiscalYear      int
	FiscalQuarter   int
	OpportunityID   uint
	OpportunityName string
	Amount          float64
	CloseDate       time.Time
	ProductName     string
}

// ListWins returns wins in scope for year and the sum of their multipliers
func ListWins(ctx context.Context, db *gorm.DB, scope Scope, year int, f WinFilter) ([]WinRow, float64, error) {
	rows := []WinRow{}
	if scope.Empty() {
		return rows, 0, nil
	}

	tx := scope.Apply(db.WithContext(ctx).Table("win w"), "w.client_id").
		Joins("JOIN client c ON c.client_id = w.client_id").
		Joins("JOIN opportunity o ON o.opportunity_id = w.opportunity_id").
		Joins("JOIN product p ON p.product_id = w.product_id").
		Where("w.fiscal_year = ?", year)
	if len(f.Quarters) > 0 {
		tx = tx.Where("w.fiscal_quarter IN ?", f.Quarters)
	}
	if len(f.Categories) > 0 {
		tx = tx.Where("w.win_category IN ?", f.Categories)
	}
	if f.LowerBound != nil {
		tx = tx.Where("o.amount >= ?", *f.LowerBound)
	}
	if f.UpperBound != nil {
		tx = tx.Where("o.amount <= ?", *f.UpperBound)
	}
	if f.StartDate != nil {
		tx = tx.Where("o.close_date >= ?", *f.StartDate)
	}
	if f.EndDate != nil {
		// inclusive of the whole end day
		tx = tx.Where("o.close_date < ?", f.EndDate.AddDate(0, 0, 1))
	}

	var scanned []winScan
	err := tx.Select("w.win_id, w.client_id, c.client_name, w.win_category, w.win_level, w.win_multiplier, " +
		"w.fiscal_year, w.fiscal_quarter, w.opportunity_id, o.opportunity_name, o.amount, o.close_date, p.product_name").
		Order("w.fiscal_quarter, w.win_id").
		Scan(&scanned).Error
	if err != nil {
		return nil, 0, err
	}

	var total float64
	for _, s := range scanned {
		total += s.WinMultiplier
		rows = append(rows, WinRow{
			WinID:           s.WinID,
			ClientID:        s.ClientID,
			ClientName:      s.ClientName,
			WinCategory:     s.WinCategory,
			WinLevel:        s.WinLevel,
			WinMultiplier:   s.WinMultiplier,
			FiscalYear:      s.FiscalYear,
			FiscalQuarter:   s.FiscalQuarter,
			OpportunityID:   s.OpportunityID,
			OpportunityName: s.OpportunityName,
			Amount:          s.Amount,
			CloseDate:       s.CloseDate.Format(dateLayout),
			ProductName:     s.ProductName,
		})
	}
	return rows, round2(total), nil
}

// WinQuarter is one point of the win evolution chart
type WinQuarter struct {
	Quarter  int     `json:"quarter"`
	WinCount float64 `json:"win_count"`
}

// WinEvolution sums win multipliers per fiscal quarter of year
func WinEvolution(ctx context.Context, db *gorm.DB, scope Scope, year int) ([]WinQuarter, error) {
	found := map[int]WinQuarter{}
	if !scope.Empty() {
		var rows []WinQuarter
		err := scope.Apply(db.WithContext(ctx).Table("win"), "client_id").
			Where("fiscal_year = ?", year).
			Select("fiscal_quarter AS quarter, COALESCE(SUM(win_multiplier), 0) AS win_count").
			Group("fiscal_quarter").
			Scan(&rows).Error
		if err != nil {
			return nil, err
		}
		for _, r := range rows {
			r.WinCount = round2(r.WinCount)
			found[r.Quarter] = r
		}
	}

	return FillInts(Quarters, found, func(q int) WinQuarter {
		return WinQuarter{Quarter: q}
	}), nil
}

// WinCategorySlice is one slice of the win category chart
type WinCategorySlice struct {
	Category string  `json:"category"`
	Label    string  `json:"label"`
	WinCount float64 `json:"win_count"`
	Count    int64   `json:"count"`
}

// WinCategoryChart sums wins per category in year
func WinCategoryChart(ctx context.Context, db *gorm.DB, scope Scope, year int) ([]WinCategorySlice, error) {
	found := map[string]WinCategorySlice{}
	if !scope.Empty() {
		var rows []WinCategorySlice
		err := scope.Apply(db.WithContext(ctx).Table("win"), "client_id").
			Where("fiscal_year = ?", year).
			Select("win_category AS category, COALESCE(SUM(win_multiplier), 0) AS win_count, COUNT(*) AS count").
			Group("win_category").
			Scan(&rows).Error
		if err != nil {
			return nil, err
		}
		for _, r := range rows {
			r.Label = Label(r.Category)
			r.WinCount = round2(r.WinCount)
			found[r.Category] = r
		}
	}

	return FillKeys(WinCategories, found, func(c string) WinCategorySlice {
		return WinCategorySlice{Category: c, Label: Label(c)}
	}), nil
}
