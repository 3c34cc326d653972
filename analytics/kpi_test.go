package analytics_test

import (
	"context"
	"testing"
	"time"

	"github.com/salesanalytics/analytics"
	"github.com/salesanalytics/models"
	"github.com/salesanalytics/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAnnualizedValue(t *testing.T) {
	start := testutil.Date(2024, time.January, 1)

	// shorter than a year counts as one year
	assert.Equal(t, 120000.0, analytics.AnnualizedValue(120000, start, start.AddDate(0, 6, 0)))

	// 1461 days is exactly four years of 365.25 days
	assert.InDelta(t, 100000.0, analytics.AnnualizedValue(400000, start, start.AddDate(0, 0, 1461)), 0.001)

	// inverted dates never divide by less than one
	assert.Equal(t, 5000.0, analytics.AnnualizedValue(5000, start, start.AddDate(-1, 0, 0)))
}

func TestDirectorRevenueIsUnionOfExecutives(t *testing.T) {
	db := testutil.NewDB(t)
	fx := testutil.NewFixtures(t, db)
	team := fx.NewTeam()
	ctx := context.Background()

	opp := fx.Opportunity(team.Client1, "gcp-core", 5000)
	fx.Revenue(opp, 2024, 2, 1000)

	// outside the director's scope
	other := fx.Opportunity(team.Client3, "gcp-core", 5000)
	fx.Revenue(other, 2024, 2, 777)

	scope, err := analytics.ResolveScope(ctx, db, team.Director)
	require.NoError(t, err)

	kpis, err := analytics.ComputeKPIs(ctx, db, scope, 2024, 4)
	require.NoError(t, err)
	assert.Equal(t, 1000.0, kpis.Revenue)
}

func TestComputeKPIs(t *testing.T) {
	db := testutil.NewDB(t)
	fx := testutil.NewFixtures(t, db)
	team := fx.NewTeam()
	ctx := context.Background()

	// weighted 100000 × 50%
	fx.Opportunity(team.Client1, "gcp-core", 100000)
	// omitted opportunities never count
	fx.Opportunity(team.Client1, "looker", 900000, func(o *models.Opportunity) {
		o.ForecastCategory = models.ForecastOmit
	})
	// created in Q3, excluded through Q2
	late := fx.Opportunity(team.Client1, "maps", 20000, func(o *models.Opportunity) {
		o.CreatedDate = testutil.Date(2024, time.August, 10)
		o.Probability = 100
	})

	fx.Revenue(late, 2024, 3, 300)
	fx.Revenue(late, 2024, 9, 900)
	fx.Signing(late, 200000, testutil.Date(2024, time.January, 1), testutil.Date(2026, time.January, 1), 2024, 1)
	fx.Win(late, models.WinCategoryGCP, 1, 1.0, 2024, 1)
	fx.Win(late, models.WinCategoryDA, 1, 0.5, 2024, 2)
	fx.Win(late, models.WinCategoryGCP, 2, 0.5, 2024, 4)

	scope, err := analytics.ResolveScope(ctx, db, team.AE1)
	require.NoError(t, err)

	h1, err := analytics.ComputeKPIs(ctx, db, scope, 2024, 2)
	require.NoError(t, err)
	assert.Equal(t, 50000.0, h1.Pipeline)
	assert.Equal(t, 300.0, h1.Revenue)
	assert.InDelta(t, 200000/(731/365.25), h1.Signings, 0.01)
	assert.Equal(t, 1.5, h1.Wins)

	full, err := analytics.ComputeKPIs(ctx, db, scope, 2024, 4)
	require.NoError(t, err)
	assert.Equal(t, 70000.0, full.Pipeline)
	assert.Equal(t, 1200.0, full.Revenue)
	assert.Equal(t, 2.0, full.Wins)
}

func TestComputeKPIsEmptyScope(t *testing.T) {
	db := testutil.NewDB(t)
	fx := testutil.NewFixtures(t, db)
	fx.NewTeam()
	lonely := fx.User("director2", models.RoleDirector)
	ctx := context.Background()

	scope, err := analytics.ResolveScope(ctx, db, lonely)
	require.NoError(t, err)

	kpis, err := analytics.ComputeKPIs(ctx, db, scope, 2024, 4)
	require.NoError(t, err)
	assert.Equal(t, analytics.KPIs{}, kpis)
}
