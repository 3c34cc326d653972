package analytics

import (
	"context"
	"errors"
	"fmt"

	"github.com/salesanalytics/models"
	"gorm.io/gorm"
)

// DefaultQuarterPercentage applies to any quarter without a stored split
const DefaultQuarterPercentage = 25.0

// DirectorQuarterSplit is the fixed share (percent) of a director's yearly target per quarter
var DirectorQuarterSplit = [4]float64{10, 20, 25, 45}

// FallbackTargets are the yearly targets of an account executive without stored ones
var FallbackTargets = map[models.TargetType]float64{
	models.TargetRevenue:  2500000,
	models.TargetSignings: 1000000,
	models.TargetWins:     10,
}

// QuarterPercentages returns the quarterly split for a role. Account
// executives use their stored percentages, missing quarters count 25.
func QuarterPercentages(role models.Role, stored map[int]float64) [4]float64 {
	switch role {
	case models.RoleDirector:
		return DirectorQuarterSplit
	case models.RoleAccountExecutive:
		var out [4]float64
		for i := range out {
			if pct, ok := stored[i+1]; ok {
				out[i] = pct
			} else {
				out[i] = DefaultQuarterPercentage
			}
		}
		return out
	}
	return [4]float64{}
}

// CumulativePercentage is the share of the yearly target due by the end of quarter, as a fraction
func CumulativePercentage(pcts [4]float64, quarter int) float64 {
	return throughQuarter(pcts, quarter) / 100
}

// Achievement is actual as a percentage of yearly × cumulative, 0 when that is 0
func Achievement(actual, yearly, cumulative float64) float64 {
	denominator := yearly * cumulative
	if denominator == 0 {
		return 0
	}
	return round2(actual / denominator * 100)
}

// YearlyTargetAmount returns the user's yearly target. A director's target is
// the sum of their account executives' targets.
func YearlyTargetAmount(ctx context.Context, db *gorm.DB, user models.User, scope Scope, year int, metric models.TargetType) (float64, error) {
	var userIDs []uint
	switch user.Role {
	case models.RoleDirector:
		userIDs = scope.AccountExecutiveIDs
	case models.RoleAccountExecutive:
		userIDs = []uint{user.UserID}
	}
	if len(userIDs) == 0 {
		return 0, nil
	}

	amounts, err := storedTargets(ctx, db, userIDs, year, metric)
	if err != nil {
		return 0, err
	}

	var total float64
	for _, id := range userIDs {
		if amount, ok := amounts[id]; ok {
			total += amount
		} else {
			total += FallbackTargets[metric]
		}
	}
	return total, nil
}

func storedTargets(ctx context.Context, db *gorm.DB, userIDs []uint, year int, metric models.TargetType) (map[uint]float64, error) {
	var targets []models.YearlyTarget
	if err := db.WithContext(ctx).
		Where("user_id IN ? AND fiscal_year = ? AND target_type = ?", userIDs, year, metric).
		Find(&targets).Error; err != nil {
		return nil, fmt.Errorf("failed to load yearly targets: %w", err)
	}
	amounts := make(map[uint]float64, len(targets))
	for _, t := range targets {
		amounts[t.UserID] = t.Amount
	}
	return amounts, nil
}

// StoredQuarterPercentages loads the quarterly split of a user's yearly target
func StoredQuarterPercentages(ctx context.Context, db *gorm.DB, userID uint, year int, metric models.TargetType) (map[int]float64, error) {
	var yearly models.YearlyTarget
	err := db.WithContext(ctx).
		Where("user_id = ? AND fiscal_year = ? AND target_type = ?", userID, year, metric).
		Take(&yearly).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load yearly target: %w", err)
	}

	var quarterly []models.QuarterlyTarget
	if err := db.WithContext(ctx).Where("target_id = ?", yearly.TargetID).Find(&quarterly).Error; err != nil {
		return nil, fmt.Errorf("failed to load quarterly targets: %w", err)
	}
	out := make(map[int]float64, len(quarterly))
	for _, q := range quarterly {
		out[q.FiscalQuarter] = q.Percentage
	}
	return out, nil
}

// QuarterPerformance is the cumulative position at the end of one quarter
type QuarterPerformance struct {
	Quarter      int     `json:"quarter"`
	Label        string  `json:"label"`
	Amount       float64 `json:"amount"`
	TargetToDate float64 `json:"target_to_date"`
	Percentage   float64 `json:"percentage"`
}

// MetricPerformance compares one metric against its target through a quarter
type MetricPerformance struct {
	Metric             models.TargetType    `json:"metric"`
	Label              string               `json:"label"`
	Amount             float64              `json:"amount"`
	YearlyTarget       float64              `json:"yearly_target"`
	QuarterPercentages [4]float64           `json:"quarter_percentages"`
	TargetToDate       float64              `json:"target_to_date"`
	Percentage         float64              `json:"percentage"`
	Quarters           []QuarterPerformance `json:"quarters"`
}

// Performance is the quarterly target report of one user
type Performance struct {
	Year    int                 `json:"year"`
	Quarter int                 `json:"quarter"`
	Role    models.Role         `json:"role"`
	Metrics []MetricPerformance `json:"metrics"`
}

// QuarterlyPerformance computes revenue, signings and wins against target through quarter
func QuarterlyPerformance(ctx context.Context, db *gorm.DB, user models.User, scope Scope, year, quarter int) (Performance, error) {
	perf := Performance{Year: year, Quarter: quarter, Role: user.Role}

	for _, metric := range models.TargetTypes() {
		m, err := metricPerformance(ctx, db, user, scope, year, quarter, metric)
		if err != nil {
			return perf, err
		}
		perf.Metrics = append(perf.Metrics, m)
	}
	return perf, nil
}

func metricPerformance(ctx context.Context, db *gorm.DB, user models.User, scope Scope, year, quarter int, metric models.TargetType) (MetricPerformance, error) {
	m := MetricPerformance{Metric: metric, Label: Label(string(metric))}

	actuals, err := QuarterlyActuals(ctx, db, scope, year, metric)
	if err != nil {
		return m, err
	}

	yearly, err := YearlyTargetAmount(ctx, db, user, scope, year, metric)
	if err != nil {
		return m, err
	}

	var stored map[int]float64
	if user.Role == models.RoleAccountExecutive {
		if stored, err = StoredQuarterPercentages(ctx, db, user.UserID, year, metric); err != nil {
			return m, err
		}
	}
	pcts := QuarterPercentages(user.Role, stored)

	m.YearlyTarget = round2(yearly)
	m.QuarterPercentages = pcts
	for _, q := range Quarters {
		amount := throughQuarter(actuals, q)
		cumulative := CumulativePercentage(pcts, q)
		qp := QuarterPerformance{
			Quarter:      q,
			Label:        QuarterLabel(q),
			Amount:       round2(amount),
			TargetToDate: round2(yearly * cumulative),
			Percentage:   Achievement(amount, yearly, cumulative),
		}
		m.Quarters = append(m.Quarters, qp)
		if q == quarter {
			m.Amount = qp.Amount
			m.TargetToDate = qp.TargetToDate
			m.Percentage = qp.Percentage
		}
	}
	return m, nil
}
