package analytics

import (
	"context"
	"errors"
	"fmt"

	"github.com/salesanalytics/models"
	"gorm.io/gorm"
)

// ErrNotDirector is returned when a team report is requested by a non-director
var ErrNotDirector = errors.New("only directors can view account executive performance")

// ExecutivePerformance is one line of a director's team table
type ExecutivePerformance struct {
	UserID     uint    `json:"user_id"`
	Username   string  `json:"username"`
	Name       string  `json:"name"`
	Clients    int64   `json:"clients"`
	Revenue    float64 `json:"revenue"`
	Target     float64 `json:"target"`
	Percentage float64 `json:"percentage"`
	Color      string  `json:"color"`
}

// PerformanceColor maps an achievement percentage to the dashboard traffic light
func PerformanceColor(pct float64) string {
	switch {
	case pct >= 70:
		return "green"
	case pct >= 40:
		return "#ffc107"
	}
	return "red"
}

// AccountExecutivePerformance reports revenue against target through quarter
// for every account executive the director manages.
func AccountExecutivePerformance(ctx context.Context, db *gorm.DB, director models.User, scope Scope, year, quarter int) ([]ExecutivePerformance, error) {
	if director.Role != models.RoleDirector {
		return nil, ErrNotDirector
	}
	out := []ExecutivePerformance{}
	if len(scope.AccountExecutiveIDs) == 0 {
		return out, nil
	}

	var executives []models.User
	if err := db.WithContext(ctx).
		Where("user_id IN ?", scope.AccountExecutiveIDs).
		Order("user_id").
		Find(&executives).Error; err != nil {
		return nil, fmt.Errorf("failed to load account executives: %w", err)
	}

	for _, ae := range executives {
		aeScope, err := ResolveScope(ctx, db, ae)
		if err != nil {
			return nil, err
		}

		actuals, err := QuarterlyActuals(ctx, db, aeScope, year, models.TargetRevenue)
		if err != nil {
			return nil, err
		}
		yearly, err := YearlyTargetAmount(ctx, db, ae, aeScope, year, models.TargetRevenue)
		if err != nil {
			return nil, err
		}
		stored, err := StoredQuarterPercentages(ctx, db, ae.UserID, year, models.TargetRevenue)
		if err != nil {
			return nil, err
		}

		cumulative := CumulativePercentage(QuarterPercentages(ae.Role, stored), quarter)
		revenue := throughQuarter(actuals, quarter)
		pct := Achievement(revenue, yearly, cumulative)

		out = append(out, ExecutivePerformance{
			UserID:     ae.UserID,
			Username:   ae.Username,
			Name:       ae.FullName(),
			Clients:    int64(len(aeScope.ClientIDs)),
			Revenue:    round2(revenue),
			Target:     round2(yearly * cumulative),
			Percentage: pct,
			Color:      PerformanceColor(pct),
		})
	}
	return out, nil
}
