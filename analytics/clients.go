package analytics

import (
	"context"
	"fmt"
	"time"

	"github.com/salesanalytics/models"
	"gorm.io/gorm"
)

// TreemapLimit is the number of industries on the treemap
const TreemapLimit = 10

// ClientSummary is one line of the client table
type ClientSummary struct {
	ClientID             uint    `json:"client_id"`
	ClientName           string  `json:"client_name"`
	AccountExecutiveID   uint    `json:"account_executive_id"`
	AccountExecutiveName string  `json:"account_executive_name"`
	City                 *string `json:"city"`
	Province             *string `json:"province"`
	Industry             *string `json:"industry"`
	CreatedDate          string  `json:"created_date"`
	TotalRevenue         float64 `json:"total_revenue"`
}

type clientScan struct {
	ClientID           uint
	ClientName         string
	AccountExecutiveID uint
	City               *string
	Province           *string
	Industry           *string
	CreatedDate        time.Time
	TotalRevenue       float64
}

// ListClients returns every client in scope with its revenue in year
func ListClients(ctx context.Context, db *gorm.DB, scope Scope, year int) ([]ClientSummary, error) {
	out := []ClientSummary{}
	if scope.Empty() {
		return out, nil
	}
	tx := db.WithContext(ctx)

	var scanned []clientScan
	err := scope.Apply(tx.Table("client c"), "c.client_id").
		Joins("LEFT JOIN revenue r ON r.client_id = c.client_id AND r.fiscal_year = ?", year).
		Select("c.client_id, c.client_name, c.account_executive_id, c.city, c.province, c.industry, c.created_date, " +
			"COALESCE(SUM(r.amount), 0) AS total_revenue").
		Group("c.client_id, c.client_name, c.account_executive_id, c.city, c.province, c.industry, c.created_date").
		Order("c.client_name, c.client_id").
		Scan(&scanned).Error
	if err != nil {
		return nil, err
	}

	names, err := userNames(ctx, db, scope.AccountExecutiveIDs)
	if err != nil {
		return nil, err
	}

	for _, s := range scanned {
		out = append(out, ClientSummary{
			ClientID:             s.ClientID,
			ClientName:           s.ClientName,
			AccountExecutiveID:   s.AccountExecutiveID,
			AccountExecutiveName: names[s.AccountExecutiveID],
			City:                 s.City,
			Province:             s.Province,
			Industry:             s.Industry,
			CreatedDate:          s.CreatedDate.Format(dateLayout),
			TotalRevenue:         round2(s.TotalRevenue),
		})
	}
	return out, nil
}

func userNames(ctx context.Context, db *gorm.DB, ids []uint) (map[uint]string, error) {
	names := make(map[uint]string, len(ids))
	if len(ids) == 0 {
		return names, nil
	}
	var users []models.User
	if err := db.WithContext(ctx).Where("user_id IN ?", ids).Find(&users).Error; err != nil {
		return nil, fmt.Errorf("failed to load account executives: %w", err)
	}
	for _, u := range users {
		names[u.UserID] = u.FullName()
	}
	return names, nil
}

// IndustryTile is one rectangle of the industry treemap; Y is the client count
type IndustryTile struct {
	X           string  `json:"x"`
	Y           int64   `json:"y"`
	Revenue     float64 `json:"revenue"`
	ClientCount int64   `json:"client_count"`
}

// IndustryTreemap returns the top industries by revenue in year with their distinct client counts
func IndustryTreemap(ctx context.Context, db *gorm.DB, scope Scope, year int) ([]IndustryTile, error) {
	tiles := []IndustryTile{}
	if scope.Empty() {
		return tiles, nil
	}

	var rows []struct {
		Industry     string
		ClientCount  int64
		TotalRevenue float64
	}
	err := scope.Apply(db.WithContext(ctx).Table("client c"), "c.client_id").
		Joins("LEFT JOIN revenue r ON r.client_id = c.client_id AND r.fiscal_year = ?", year).
		Where("c.industry IS NOT NULL AND c.industry <> ''").
		Select("c.industry, COUNT(DISTINCT c.client_id) AS client_count, COALESCE(SUM(r.amount), 0) AS total_revenue").
		Group("c.industry").
		Order("total_revenue DESC, c.industry").
		Limit(TreemapLimit).
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	for _, r := range rows {
		tiles = append(tiles, IndustryTile{
			X:           r.Industry,
			Y:           r.ClientCount,
			Revenue:     round2(r.TotalRevenue),
			ClientCount: r.ClientCount,
		})
	}
	return tiles, nil
}

// ProvinceCount is one bar of the province chart
type ProvinceCount struct {
	Province    string `json:"province"`
	ClientCount int64  `json:"client_count"`
}

// ProvinceDistribution counts clients in scope per province
func ProvinceDistribution(ctx context.Context, db *gorm.DB, scope Scope) ([]ProvinceCount, error) {
	rows := []ProvinceCount{}
	if scope.Empty() {
		return rows, nil
	}

	err := scope.Apply(db.WithContext(ctx).Table("client"), "client_id").
		Where("province IS NOT NULL AND province <> ''").
		Select("province, COUNT(*) AS client_count").
		Group("province").
		Order("client_count DESC, province").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}
