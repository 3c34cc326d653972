package database_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/salesanalytics/auth"
	"github.com/salesanalytics/config"
	"github.com/salesanalytics/database"
	"github.com/salesanalytics/models"
	"github.com/salesanalytics/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

func count(t *testing.T, db *gorm.DB, table string) int64 {
	t.Helper()
	counts, err := database.TableCounts(db)
	require.NoError(t, err)
	return counts[table]
}

func TestOpenRejectsUnknownDriver(t *testing.T) {
	_, err := database.Open(&config.DatabaseConfig{Driver: "oracle"}, zap.NewNop(), database.Options{})
	require.Error(t, err)
}

func TestMigrateCreatesTablesAndIndexes(t *testing.T) {
	db := testutil.NewDB(t)

	for _, table := range models.TableNames() {
		assert.True(t, db.Migrator().HasTable(table), table)
	}
	assert.True(t, db.Migrator().HasIndex("revenue", "idx_revenue_year_month"))
	assert.NoError(t, database.CheckConnection(context.Background(), db))

	// idempotent
	require.NoError(t, database.AutoMigrate(db, zap.NewNop()))
}

func TestDropAll(t *testing.T) {
	db := testutil.NewDB(t)
	require.NoError(t, database.DropAll(db, zap.NewNop()))
	for _, table := range models.TableNames() {
		assert.False(t, db.Migrator().HasTable(table), table)
	}
}

func TestSeedDataIsIdempotent(t *testing.T) {
	db := testutil.NewDB(t)
	log := zap.NewNop()

	require.NoError(t, database.SeedData(db, log, database.SeedOptions{Year: 2024}))
	first, err := database.TableCounts(db)
	require.NoError(t, err)

	assert.EqualValues(t, 4, first["user"])
	assert.EqualValues(t, 2, first["directoraccountexecutive"])
	assert.NotZero(t, first["revenue"])
	assert.NotZero(t, first["win"])
	assert.NotZero(t, first["quarterlytarget"])

	// a second run skips because users exist
	require.NoError(t, database.SeedData(db, log, database.SeedOptions{Year: 2024}))
	second, err := database.TableCounts(db)
	require.NoError(t, err)
	assert.Equal(t, first, second)

	// force clears and reseeds the same shape
	require.NoError(t, database.SeedData(db, log, database.SeedOptions{Force: true, Year: 2024}))
	forced, err := database.TableCounts(db)
	require.NoError(t, err)
	assert.Equal(t, first, forced)
}

func TestSeededPasswordsAreHashed(t *testing.T) {
	db := testutil.NewDB(t)
	require.NoError(t, database.SeedData(db, zap.NewNop(), database.SeedOptions{}))

	var user models.User
	require.NoError(t, db.Where("username = ?", "director1").Take(&user).Error)
	assert.True(t, auth.IsHashed(user.HashedPassword))
	assert.NoError(t, auth.VerifyPassword(user.HashedPassword, database.DemoPassword))
}

func TestHashLegacyPasswords(t *testing.T) {
	db := testutil.NewDB(t)
	fx := testutil.NewFixtures(t, db)
	fx.User("hashed", models.RoleAccountExecutive)

	legacy := models.User{
		Username:       "legacy",
		Email:          "legacy@example.com",
		Role:           models.RoleAccountExecutive,
		HashedPassword: "plaintext",
	}
	require.NoError(t, db.Create(&legacy).Error)

	n, err := database.HashLegacyPasswords(db, zap.NewNop())
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	require.NoError(t, db.First(&legacy, legacy.UserID).Error)
	assert.NoError(t, auth.VerifyPassword(legacy.HashedPassword, "plaintext"))

	n, err = database.HashLegacyPasswords(db, zap.NewNop())
	require.NoError(t, err)
	assert.Zero(t, n)
}

func TestSimulationRequiresMasterData(t *testing.T) {
	db := testutil.NewDB(t)
	_, err := database.NewPipelineSimulation(db, zap.NewNop(), database.SimulationConfig{Year: 2024})
	require.Error(t, err)
}

func simulate(t *testing.T, seed int64) (*gorm.DB, database.SimulationStats) {
	t.Helper()
	db := testutil.NewDB(t)
	require.NoError(t, database.SeedData(db, zap.NewNop(), database.SeedOptions{Year: 2024}))
	require.NoError(t, database.ClearFacts(db, zap.NewNop()))

	sim, err := database.NewPipelineSimulation(db, zap.NewNop(), database.SimulationConfig{
		Year:          2024,
		Opportunities: 25,
		Seed:          seed,
		WinRate:       0.5,
	})
	require.NoError(t, err)
	stats, err := sim.Run()
	require.NoError(t, err)
	return db, stats
}

func TestSimulationIsDeterministic(t *testing.T) {
	dbA, statsA := simulate(t, 42)
	dbB, statsB := simulate(t, 42)

	assert.Equal(t, statsA, statsB)
	assert.Equal(t, 25, statsA.Opportunities)
	assert.Equal(t, statsA.Wins, statsA.Signings)

	load := func(db *gorm.DB) []models.Opportunity {
		var opps []models.Opportunity
		require.NoError(t, db.Order("opportunity_id").Find(&opps).Error)
		return opps
	}
	oppsA, oppsB := load(dbA), load(dbB)
	require.Len(t, oppsA, 25)
	for i := range oppsA {
		assert.Equal(t, oppsA[i].OpportunityName, oppsB[i].OpportunityName)
		assert.Equal(t, oppsA[i].Amount, oppsB[i].Amount)
		assert.Equal(t, oppsA[i].SalesStage, oppsB[i].SalesStage)
		assert.True(t, oppsA[i].CreatedDate.Equal(oppsB[i].CreatedDate))
		assert.Equal(t, 2024, oppsA[i].CreatedDate.Year())
	}

	assert.EqualValues(t, statsA.Wins, count(t, dbA, "win"))
	assert.EqualValues(t, statsA.UpdateEvents, count(t, dbA, "updateevent"))
	assert.EqualValues(t, 2*statsA.UpdateEvents, count(t, dbA, "opportunityupdatelog"))
}

func TestQueryLogger(t *testing.T) {
	ql := database.NewQueryLogger(3)
	for i := 0; i < 5; i++ {
		ql.LogQuery("SELECT 1", time.Millisecond, 1, nil)
	}
	ql.LogQuery("SELECT broken", time.Millisecond, 0, errors.New("syntax error"))

	assert.Equal(t, 6, ql.Count())

	recent := ql.GetRecentQueries(10)
	require.Len(t, recent, 3)
	assert.Equal(t, 6, recent[0].ID)
	assert.Equal(t, "syntax error", recent[0].Error)
	assert.Equal(t, 4, recent[2].ID)

	assert.Empty(t, ql.GetRecentQueries(-1))

	ql.Clear()
	assert.Empty(t, ql.GetRecentQueries(10))
	assert.Equal(t, 6, ql.Count())
}

func TestGormLoggerRecordsQueries(t *testing.T) {
	ql := database.NewQueryLogger(10)
	db := testutil.NewDBWithQueries(t, ql)
	before := ql.Count()

	var n int64
	require.NoError(t, db.Model(&models.Client{}).Count(&n).Error)

	assert.Equal(t, before+1, ql.Count())
	assert.Contains(t, ql.GetRecentQueries(1)[0].SQL, "client")
}
