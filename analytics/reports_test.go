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
	"gorm.io/gorm"
)

type reportEnv struct {
	db   *gorm.DB
	fx   *testutil.Fixtures
	team testutil.Team
}

func newReportEnv(t *testing.T) reportEnv {
	db := testutil.NewDB(t)
	fx := testutil.NewFixtures(t, db)
	return reportEnv{db: db, fx: fx, team: fx.NewTeam()}
}

func (e reportEnv) scope(t *testing.T, user models.User) analytics.Scope {
	scope, err := analytics.ResolveScope(context.Background(), e.db, user)
	require.NoError(t, err)
	return scope
}

func TestChartsZeroFillEmptyYear(t *testing.T) {
	env := newReportEnv(t)
	opp := env.fx.Opportunity(env.team.Client1, "gcp-core", 1000)
	env.fx.Revenue(opp, 2024, 1, 100)
	env.fx.Win(opp, models.WinCategoryGCP, 1, 1, 2024, 1)

	ctx := context.Background()
	scope := env.scope(t, env.team.Director)

	wins, err := analytics.WinEvolution(ctx, env.db, scope, 2099)
	require.NoError(t, err)
	assert.Equal(t, []analytics.WinQuarter{{Quarter: 1}, {Quarter: 2}, {Quarter: 3}, {Quarter: 4}}, wins)

	months, total, err := analytics.MonthlyRevenue(ctx, env.db, scope, 2099)
	require.NoError(t, err)
	assert.Len(t, months, 12)
	assert.Zero(t, total)

	forecast, err := analytics.ForecastCategoryChart(ctx, env.db, scope, 2099)
	require.NoError(t, err)
	assert.Len(t, forecast, 5)

	stages, err := analytics.SalesStageChart(ctx, env.db, scope, 2099)
	require.NoError(t, err)
	assert.Len(t, stages, 5)

	signings, err := analytics.SigningsQuarterlyChart(ctx, env.db, scope, 2099)
	require.NoError(t, err)
	assert.Len(t, signings, 4)

	categories, err := analytics.WinCategoryChart(ctx, env.db, scope, 2099)
	require.NoError(t, err)
	assert.Len(t, categories, 2)

	bubbles, err := analytics.RevenueDistribution(ctx, env.db, scope, 2099)
	require.NoError(t, err)
	require.Len(t, bubbles, 4)
	for _, b := range bubbles {
		assert.Len(t, b.Data, 4)
	}
}

func TestChartsZeroFillForOtherRoles(t *testing.T) {
	env := newReportEnv(t)
	admin := env.fx.User("admin", models.Role("admin"))
	scope := env.scope(t, admin)
	ctx := context.Background()

	wins, err := analytics.WinEvolution(ctx, env.db, scope, 2024)
	require.NoError(t, err)
	assert.Len(t, wins, 4)

	months, _, err := analytics.MonthlyRevenue(ctx, env.db, scope, 2024)
	require.NoError(t, err)
	assert.Len(t, months, 12)
}

func TestMonthlyRevenue(t *testing.T) {
	env := newReportEnv(t)
	opp := env.fx.Opportunity(env.team.Client1, "gcp-core", 1000)
	env.fx.Revenue(opp, 2024, 3, 100)
	env.fx.Revenue(opp, 2024, 3, 50)
	env.fx.Revenue(opp, 2024, 11, 25)

	months, total, err := analytics.MonthlyRevenue(context.Background(), env.db, env.scope(t, env.team.AE1), 2024)
	require.NoError(t, err)
	assert.Equal(t, analytics.MonthRevenue{Month: 3, Label: "Mar", Revenue: 150}, months[2])
	assert.Equal(t, 25.0, months[10].Revenue)
	assert.Zero(t, months[0].Revenue)
	assert.Equal(t, 175.0, total)
}

func TestListOpportunitiesFilters(t *testing.T) {
	env := newReportEnv(t)
	env.fx.Opportunity(env.team.Client1, "gcp-core", 1000, func(o *models.Opportunity) {
		o.OpportunityName = "Cloud Migration"
	})
	env.fx.Opportunity(env.team.Client1, "looker", 2000, func(o *models.Opportunity) {
		o.SalesStage = models.StageProposal
		o.ForecastCategory = models.ForecastCommit
	})
	env.fx.Opportunity(env.team.Client2, "apigee", 3000)
	env.fx.Opportunity(env.team.Client3, "gcp-core", 4000)

	ctx := context.Background()
	scope := env.scope(t, env.team.Director)

	tests := []struct {
		name   string
		filter analytics.OpportunityFilter
		want   int64
	}{
		{"no filter", analytics.OpportunityFilter{}, 3},
		{"stage", analytics.OpportunityFilter{SalesStages: []string{models.StageProposal}}, 1},
		{"forecast", analytics.OpportunityFilter{ForecastCategories: []string{models.ForecastPipeline}}, 2},
		{"group expands", analytics.OpportunityFilter{ProductCategories: []string{analytics.GroupAppModernization}}, 2},
		{"name is case insensitive", analytics.OpportunityFilter{Name: "MIGRATION"}, 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rows, total, err := analytics.ListOpportunities(ctx, env.db, scope, tt.filter)
			require.NoError(t, err)
			assert.Equal(t, tt.want, total)
			assert.Len(t, rows, int(tt.want))
		})
	}

	rows, total, err := analytics.ListOpportunities(ctx, env.db, scope, analytics.OpportunityFilter{Limit: 1})
	require.NoError(t, err)
	assert.Equal(t, int64(3), total)
	require.Len(t, rows, 1)
	assert.Equal(t, "2024-06-30", rows[0].CloseDate)
	assert.Equal(t, "2024-02-01 00:00:00", rows[0].CreatedDate)
}

func TestListWins(t *testing.T) {
	env := newReportEnv(t)
	ae := env.team.AE1
	small := env.fx.Opportunity(env.team.Client1, "gcp-core", 1000, func(o *models.Opportunity) {
		o.CloseDate = testutil.Date(2024, time.February, 10)
	})
	big := env.fx.Opportunity(env.team.Client1, "data-analytics", 90000, func(o *models.Opportunity) {
		o.CloseDate = testutil.Date(2024, time.May, 20)
	})
	env.fx.Win(small, models.WinCategoryGCP, 1, 1.0, 2024, 1)
	env.fx.Win(big, models.WinCategoryDA, 1, 0.5, 2024, 2)
	env.fx.Win(big, models.WinCategoryGCP, 2, 0.5, 2024, 3)

	// another executive's win in the same quarters
	foreign := env.fx.Opportunity(env.team.Client2, "gcp-core", 1000)
	env.fx.Win(foreign, models.WinCategoryGCP, 1, 1.0, 2024, 1)

	ctx := context.Background()
	scope := env.scope(t, ae)
	lower, upper := 5000.0, 100000.0
	start, end := testutil.Date(2024, time.May, 20), testutil.Date(2024, time.May, 20)

	tests := []struct {
		name  string
		f     analytics.WinFilter
		rows  int
		total float64
	}{
		{"quarters", analytics.WinFilter{Quarters: []int{1, 2}}, 2, 1.5},
		{"category", analytics.WinFilter{Categories: []string{models.WinCategoryGCP}}, 2, 1.5},
		{"amount bounds", analytics.WinFilter{LowerBound: &lower, UpperBound: &upper}, 2, 1.0},
		{"single close day", analytics.WinFilter{StartDate: &start, EndDate: &end}, 2, 1.0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rows, total, err := analytics.ListWins(ctx, env.db, scope, 2024, tt.f)
			require.NoError(t, err)
			assert.Len(t, rows, tt.rows)
			assert.Equal(t, tt.total, total)

			var sum float64
			for _, r := range rows {
				assert.Equal(t, env.team.Client1.ClientID, r.ClientID)
				sum += r.WinMultiplier
			}
			assert.Equal(t, total, sum)
		})
	}
}

func TestRevenueDistributionCountsDistinctClients(t *testing.T) {
	env := newReportEnv(t)
	c1 := env.team.Client1
	looker := env.fx.Opportunity(c1, "looker", 1000)
	maps := env.fx.Opportunity(c1, "maps", 1000)
	env.fx.Revenue(looker, 2024, 1, 100)
	env.fx.Revenue(maps, 2024, 2, 200)
	core := env.fx.Opportunity(env.team.Client2, "gcp-core", 1000)
	env.fx.Revenue(core, 2024, 4, 50)

	series, err := analytics.RevenueDistribution(context.Background(), env.db, env.scope(t, env.team.Director), 2024)
	require.NoError(t, err)
	require.Len(t, series, 4)

	assert.Equal(t, "gcp-core", series[0].ProductCategory)
	assert.Equal(t, [3]float64{2, 50, 1}, series[0].Data[1])

	appMod := series[3]
	assert.Equal(t, analytics.GroupAppModernization, appMod.ProductCategory)
	assert.Equal(t, [3]float64{1, 300, 1}, appMod.Data[0])
	assert.Equal(t, [3]float64{2, 0, 0}, appMod.Data[1])
}

func TestSignings(t *testing.T) {
	env := newReportEnv(t)
	c1 := env.team.Client1
	a := env.fx.Opportunity(c1, "gcp-core", 1000)
	b := env.fx.Opportunity(c1, "apigee", 1000)
	env.fx.Signing(a, 100000, testutil.Date(2024, time.February, 1), testutil.Date(2025, time.February, 1), 2024, 1)
	env.fx.Signing(b, 60000, testutil.Date(2024, time.August, 1), testutil.Date(2027, time.August, 1), 2024, 3)

	ctx := context.Background()
	scope := env.scope(t, env.team.AE1)

	rows, err := analytics.ListSignings(ctx, env.db, scope, 2024, analytics.SigningFilter{})
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, "2024-08-01", rows[0].SigningDate, "newest first")
	assert.Equal(t, analytics.GroupAppModernization, rows[0].ProductCategory)

	rows, err = analytics.ListSignings(ctx, env.db, scope, 2024, analytics.SigningFilter{Quarters: []int{1}})
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, "gcp-core", rows[0].ProductCategory)

	chart, err := analytics.SigningsQuarterlyChart(ctx, env.db, scope, 2024)
	require.NoError(t, err)
	assert.Equal(t, int64(1), chart[0].Count)
	assert.Equal(t, 100000.0, chart[0].TotalContractValue)
	assert.Equal(t, 50000.0, chart[0].IncrementalACV)
	assert.Zero(t, chart[1].Count)
}

func TestClientReports(t *testing.T) {
	env := newReportEnv(t)
	team := env.team
	extra := env.fx.Client(team.AE1, "Hooli", "Retail", "ON")
	env.fx.Revenue(env.fx.Opportunity(team.Client1, "gcp-core", 1), 2024, 1, 500)
	env.fx.Revenue(env.fx.Opportunity(extra, "gcp-core", 1), 2024, 2, 250)
	env.fx.Revenue(env.fx.Opportunity(team.Client2, "gcp-core", 1), 2024, 2, 100)
	env.fx.Revenue(env.fx.Opportunity(team.Client2, "gcp-core", 1), 2023, 2, 99999)

	ctx := context.Background()
	scope := env.scope(t, team.Director)

	clients, err := analytics.ListClients(ctx, env.db, scope, 2024)
	require.NoError(t, err)
	require.Len(t, clients, 3)
	assert.Equal(t, "Acme Corp", clients[0].ClientName)
	assert.Equal(t, 500.0, clients[0].TotalRevenue)
	assert.Equal(t, "ae1 Test", clients[0].AccountExecutiveName)

	tiles, err := analytics.IndustryTreemap(ctx, env.db, scope, 2024)
	require.NoError(t, err)
	require.Len(t, tiles, 2)
	assert.Equal(t, analytics.IndustryTile{X: "Retail", Y: 2, Revenue: 750, ClientCount: 2}, tiles[0])
	assert.Equal(t, 100.0, tiles[1].Revenue)

	provinces, err := analytics.ProvinceDistribution(ctx, env.db, scope)
	require.NoError(t, err)
	assert.Equal(t, []analytics.ProvinceCount{{Province: "ON", ClientCount: 2}, {Province: "AB", ClientCount: 1}}, provinces)

	top, err := analytics.TopClients(ctx, env.db, scope, 2024, 2)
	require.NoError(t, err)
	require.Len(t, top, 2)
	assert.Equal(t, "Acme Corp", top[0].ClientName)
	assert.Equal(t, "Hooli", top[1].ClientName)
}
