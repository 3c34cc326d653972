package analytics

import (
	"context"

	"gorm.io/gorm"
)

// BubbleSeries is one product group of the revenue bubble chart. Each point
// is [quarter, revenue, distinct clients].
type BubbleSeries struct {
	ProductCategory string       `json:"product_category"`
	Data            [][3]float64 `json:"data"`
}

type groupQuarter struct {
	ProductGroup string
	Quarter      int
	Revenue      float64
	ClientCount  int64
}

// RevenueDistribution returns revenue and distinct clients per product group and quarter
func RevenueDistribution(ctx context.Context, db *gorm.DB, scope Scope, year int) ([]BubbleSeries, error) {
	type key struct {
		group   string
		quarter int
	}
	found := map[key]groupQuarter{}

	if !scope.Empty() {
		group := productGroupExpr("p.product_category")
		var rows []groupQuarter
		err := scope.Apply(db.WithContext(ctx).Table("revenue r"), "r.client_id").
			Joins("JOIN product p ON p.product_id = r.product_id").
			Where("r.fiscal_year = ?", year).
			Select(group + " AS product_group, r.fiscal_quarter AS quarter, " +
				"COALESCE(SUM(r.amount), 0) AS revenue, COUNT(DISTINCT r.client_id) AS client_count").
			Group(group + ", r.fiscal_quarter").
			Scan(&rows).Error
		if err != nil {
			return nil, err
		}
		for _, r := range rows {
			found[key{r.ProductGroup, r.Quarter}] = r
		}
	}

	series := make([]BubbleSeries, 0, len(ProductGroups))
	for _, g := range ProductGroups {
		s := BubbleSeries{ProductCategory: g}
		for _, q := range Quarters {
			r := found[key{g, q}]
			s.Data = append(s.Data, [3]float64{float64(q), round2(r.Revenue), float64(r.ClientCount)})
		}
		series = append(series, s)
	}
	return series, nil
}

// MonthRevenue is one bar of the monthly revenue chart
type MonthRevenue struct {
	Month   int     `json:"month"`
	Label   string  `json:"label"`
	Revenue float64 `json:"revenue"`
}

// MonthlyRevenue returns revenue for each month of year and the yearly total
func MonthlyRevenue(ctx context.Context, db *gorm.DB, scope Scope, year int) ([]MonthRevenue, float64, error) {
	found := map[int]MonthRevenue{}
	var total float64

	if !scope.Empty() {
		var rows []MonthRevenue
		err := scope.Apply(db.WithContext(ctx).Table("revenue"), "client_id").
			Where("fiscal_year = ?", year).
			Select("month, COALESCE(SUM(amount), 0) AS revenue").
			Group("month").
			Scan(&rows).Error
		if err != nil {
			return nil, 0, err
		}
		for _, r := range rows {
			r.Label = MonthLabel(r.Month)
			r.Revenue = round2(r.Revenue)
			found[r.Month] = r
			total += r.Revenue
		}
	}

	months := FillInts(Months, found, func(m int) MonthRevenue {
		return MonthRevenue{Month: m, Label: MonthLabel(m)}
	})
	return months, round2(total), nil
}

// ClientRevenue is one line of the top clients table
type ClientRevenue struct {
	ClientID     uint    `json:"client_id"`
	ClientName   string  `json:"client_name"`
	Industry     *string `json:"industry"`
	Province     *string `json:"province"`
	TotalRevenue float64 `json:"total_revenue"`
}

// TopClients ranks clients in scope by revenue in year
func TopClients(ctx context.Context, db *gorm.DB, scope Scope, year, limit int) ([]ClientRevenue, error) {
	rows := []ClientRevenue{}
	if scope.Empty() {
		return rows, nil
	}

	err := scope.Apply(db.WithContext(ctx).Table("revenue r"), "r.client_id").
		Joins("JOIN client c ON c.client_id = r.client_id").
		Where("r.fiscal_year = ?", year).
		Select("c.client_id, c.client_name, c.industry, c.province, COALESCE(SUM(r.amount), 0) AS total_revenue").
		Group("c.client_id, c.client_name, c.industry, c.province").
		Order("total_revenue DESC, c.client_id").
		Limit(limit).
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	for i := range rows {
		rows[i].TotalRevenue = round2(rows[i].TotalRevenue)
	}
	return rows, nil
}
