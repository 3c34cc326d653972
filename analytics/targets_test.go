package analytics_test

import (
	"context"
	"testing"

	"github.com/salesanalytics/analytics"
	"github.com/salesanalytics/models"
	"github.com/salesanalytics/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestQuarterPercentages(t *testing.T) {
	assert.Equal(t, [4]float64{10, 20, 25, 45}, analytics.QuarterPercentages(models.RoleDirector, map[int]float64{1: 99}))
	assert.Equal(t, [4]float64{30, 25, 25, 20}, analytics.QuarterPercentages(models.RoleAccountExecutive, map[int]float64{1: 30, 4: 20}))
	assert.Equal(t, [4]float64{25, 25, 25, 25}, analytics.QuarterPercentages(models.RoleAccountExecutive, nil))
	assert.Equal(t, [4]float64{}, analytics.QuarterPercentages(models.Role("admin"), nil))
}

func TestCumulativePercentage(t *testing.T) {
	split := analytics.DirectorQuarterSplit
	assert.InDelta(t, 0.10, analytics.CumulativePercentage(split, 1), 1e-9)
	assert.InDelta(t, 0.55, analytics.CumulativePercentage(split, 3), 1e-9)
	assert.InDelta(t, 1.00, analytics.CumulativePercentage(split, 4), 1e-9)
}

func TestAchievementNeverDividesByZero(t *testing.T) {
	for q := 1; q <= 4; q++ {
		cumulative := analytics.CumulativePercentage(analytics.DirectorQuarterSplit, q)
		assert.Equal(t, 0.0, analytics.Achievement(5000, 0, cumulative))
	}
	assert.Equal(t, 0.0, analytics.Achievement(5000, 1000, 0))
	assert.Equal(t, 33.33, analytics.Achievement(1, 3, 1))
}

func TestYearlyTargetAmount(t *testing.T) {
	db := testutil.NewDB(t)
	fx := testutil.NewFixtures(t, db)
	team := fx.NewTeam()
	lonely := fx.User("director2", models.RoleDirector)
	ctx := context.Background()

	fx.Target(team.AE1, 2024, models.TargetRevenue, 1000000)

	tests := []struct {
		name string
		user models.User
		want float64
	}{
		{"stored target", team.AE1, 1000000},
		{"fallback target", team.AE2, 2500000},
		{"director sums executives", team.Director, 3500000},
		{"director without executives", lonely, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			scope, err := analytics.ResolveScope(ctx, db, tt.user)
			require.NoError(t, err)
			got, err := analytics.YearlyTargetAmount(ctx, db, tt.user, scope, 2024, models.TargetRevenue)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestQuarterlyPerformance(t *testing.T) {
	db := testutil.NewDB(t)
	fx := testutil.NewFixtures(t, db)
	team := fx.NewTeam()
	ctx := context.Background()

	fx.Target(team.AE1, 2024, models.TargetRevenue, 100000, 20, 30, 25, 25)
	opp := fx.Opportunity(team.Client1, "gcp-core", 50000)
	fx.Revenue(opp, 2024, 1, 10000)
	fx.Revenue(opp, 2024, 5, 15000)

	scope, err := analytics.ResolveScope(ctx, db, team.AE1)
	require.NoError(t, err)

	perf, err := analytics.QuarterlyPerformance(ctx, db, team.AE1, scope, 2024, 2)
	require.NoError(t, err)
	require.Len(t, perf.Metrics, 3)

	revenue := perf.Metrics[0]
	assert.Equal(t, models.TargetRevenue, revenue.Metric)
	assert.Equal(t, 25000.0, revenue.Amount)
	assert.Equal(t, 100000.0, revenue.YearlyTarget)
	assert.Equal(t, 50000.0, revenue.TargetToDate)
	assert.Equal(t, 50.0, revenue.Percentage)
	require.Len(t, revenue.Quarters, 4)
	assert.Equal(t, 50.0, revenue.Quarters[0].Percentage)
	assert.Equal(t, 25000.0, revenue.Quarters[3].Amount)

	// no stored wins target: fallback of 10 with an even split
	wins := perf.Metrics[2]
	assert.Equal(t, 10.0, wins.YearlyTarget)
	assert.Equal(t, [4]float64{25, 25, 25, 25}, wins.QuarterPercentages)
}

func TestQuarterlyPerformanceDirectorWithoutExecutives(t *testing.T) {
	db := testutil.NewDB(t)
	fx := testutil.NewFixtures(t, db)
	lonely := fx.User("director2", models.RoleDirector)
	ctx := context.Background()

	scope, err := analytics.ResolveScope(ctx, db, lonely)
	require.NoError(t, err)

	perf, err := analytics.QuarterlyPerformance(ctx, db, lonely, scope, 2024, 4)
	require.NoError(t, err)
	for _, m := range perf.Metrics {
		assert.Zero(t, m.YearlyTarget)
		for _, q := range m.Quarters {
			assert.Zero(t, q.Percentage)
		}
	}
}

func TestAccountExecutivePerformance(t *testing.T) {
	db := testutil.NewDB(t)
	fx := testutil.NewFixtures(t, db)
	team := fx.NewTeam()
	ctx := context.Background()

	fx.Target(team.AE1, 2024, models.TargetRevenue, 100000, 25, 25, 25, 25)
	opp := fx.Opportunity(team.Client1, "gcp-core", 50000)
	fx.Revenue(opp, 2024, 2, 20000)

	scope, err := analytics.ResolveScope(ctx, db, team.Director)
	require.NoError(t, err)

	rows, err := analytics.AccountExecutivePerformance(ctx, db, team.Director, scope, 2024, 1)
	require.NoError(t, err)
	require.Len(t, rows, 2)

	assert.Equal(t, team.AE1.UserID, rows[0].UserID)
	assert.Equal(t, int64(1), rows[0].Clients)
	assert.Equal(t, 25000.0, rows[0].Target)
	assert.Equal(t, 80.0, rows[0].Percentage)
	assert.Equal(t, "green", rows[0].Color)

	assert.Equal(t, 0.0, rows[1].Revenue)
	assert.Equal(t, "red", rows[1].Color)

	_, err = analytics.AccountExecutivePerformance(ctx, db, team.AE1, scope, 2024, 1)
	assert.ErrorIs(t, err, analytics.ErrNotDirector)
}

func TestPerformanceColor(t *testing.T) {
	assert.Equal(t, "green", analytics.PerformanceColor(70))
	assert.Equal(t, "#ffc107", analytics.PerformanceColor(40))
	assert.Equal(t, "#ffc107", analytics.PerformanceColor(69.99))
	assert.Equal(t, "red", analytics.PerformanceColor(39.99))
}
