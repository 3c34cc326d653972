// Package testutil provides an in-memory database and fixture builders for tests.
package testutil

import (
	"fmt"
	"testing"
	"time"

	"github.com/salesanalytics/auth"
	"github.com/salesanalytics/config"
	"github.com/salesanalytics/database"
	"github.com/salesanalytics/models"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// Password is the plaintext password of every fixture user
const Password = "secret"

// NewDB opens a migrated in-memory sqlite database closed at test cleanup
func NewDB(t testing.TB) *gorm.DB {
	t.Helper()
	return NewDBWithQueries(t, nil)
}

// NewDBWithQueries is NewDB with statements recorded into queries
func NewDBWithQueries(t testing.TB, queries *database.QueryLogger) *gorm.DB {
	t.Helper()

	cfg := &config.DatabaseConfig{Driver: "sqlite", URL: ":memory:"}
	db, err := database.Open(cfg, zap.NewNop(), database.Options{Queries: queries, Silent: true})
	require.NoError(t, err)
	t.Cleanup(func() {
		_ = database.Close(db)
	})

	require.NoError(t, database.AutoMigrate(db, zap.NewNop()))
	return db
}

// Fixtures creates rows with sensible defaults
type Fixtures struct {
	t        testing.TB
	db       *gorm.DB
	hash     string
	products map[string]models.Product
}

// NewFixtures binds fixture builders to a database
func NewFixtures(t testing.TB, db *gorm.DB) *Fixtures {
	t.Helper()
	hash, err := auth.HashPassword(Password)
	require.NoError(t, err)
	return &Fixtures{t: t, db: db, hash: hash, products: map[string]models.Product{}}
}

// Date is a UTC midnight
func Date(year int, month time.Month, day int) time.Time {
	return time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
}

// User creates a user with the given role
func (f *Fixtures) User(username string, role models.Role) models.User {
	f.t.Helper()
	u := models.User{
		Username:       username,
		Email:          username + "@example.com",
		FirstName:      username,
		LastName:       "Test",
		Role:           role,
		HashedPassword: f.hash,
	}
	require.NoError(f.t, f.db.Create(&u).Error)
	return u
}

// Manage maps account executives to a director
func (f *Fixtures) Manage(director models.User, executives ...models.User) {
	f.t.Helper()
	for _, ae := range executives {
		m := models.DirectorAccountExecutive{DirectorID: director.UserID, AccountExecutiveID: ae.UserID}
		require.NoError(f.t, f.db.Create(&m).Error)
	}
}

// Client creates a client owned by the account executive
func (f *Fixtures) Client(ae models.User, name, industry, province string) models.Client {
	f.t.Helper()
	c := models.Client{
		ClientName:         name,
		AccountExecutiveID: ae.UserID,
		Industry:           &industry,
		Province:           &province,
		CreatedDate:        Date(2023, time.January, 1),
	}
	require.NoError(f.t, f.db.Create(&c).Error)
	return c
}

// Product returns the product of a category, creating it on first use
func (f *Fixtures) Product(category string) models.Product {
	f.t.Helper()
	if p, ok := f.products[category]; ok {
		return p
	}
	p := models.Product{ProductName: fmt.Sprintf("%s product", category), ProductCategory: category}
	require.NoError(f.t, f.db.Create(&p).Error)
	f.products[category] = p
	return p
}

// Opportunity creates an opportunity; the closure may adjust defaults before insert
func (f *Fixtures) Opportunity(client models.Client, category string, amount float64, opts ...func(*models.Opportunity)) models.Opportunity {
	f.t.Helper()
	created := Date(2024, time.February, 1)
	o := models.Opportunity{
		OpportunityName:  fmt.Sprintf("%s %s deal", client.ClientName, category),
		ClientID:         client.ClientID,
		ProductID:        f.Product(category).ProductID,
		ForecastCategory: models.ForecastPipeline,
		SalesStage:       models.StageQualify,
		CloseDate:        Date(2024, time.June, 30),
		Probability:      50,
		Amount:           amount,
		CreatedDate:      created,
		LastModifiedDate: created,
	}
	for _, opt := range opts {
		opt(&o)
	}
	require.NoError(f.t, f.db.Create(&o).Error)
	return o
}

// Revenue records revenue for a client in a fiscal month
func (f *Fixtures) Revenue(opp models.Opportunity, year, month int, amount float64) models.Revenue {
	f.t.Helper()
	r := models.Revenue{
		OpportunityID: opp.OpportunityID,
		ClientID:      opp.ClientID,
		ProductID:     opp.ProductID,
		FiscalYear:    year,
		FiscalQuarter: (month-1)/3 + 1,
		Month:         month,
		Amount:        amount,
	}
	require.NoError(f.t, f.db.Create(&r).Error)
	return r
}

// Signing records a signing for an opportunity
func (f *Fixtures) Signing(opp models.Opportunity, tcv float64, start, end time.Time, year, quarter int) models.Signing {
	f.t.Helper()
	iacv := tcv / 2
	s := models.Signing{
		OpportunityID:      opp.OpportunityID,
		ClientID:           opp.ClientID,
		ProductID:          opp.ProductID,
		TotalContractValue: tcv,
		IncrementalACV:     &iacv,
		StartDate:          start,
		EndDate:            end,
		SigningDate:        start,
		FiscalYear:         year,
		FiscalQuarter:      quarter,
	}
	require.NoError(f.t, f.db.Create(&s).Error)
	return s
}

// Win records a win for an opportunity
func (f *Fixtures) Win(opp models.Opportunity, category string, level int, multiplier float64, year, quarter int) models.Win {
	f.t.Helper()
	w := models.Win{
		ClientID:      opp.ClientID,
		WinCategory:   category,
		WinLevel:      level,
		WinMultiplier: multiplier,
		FiscalYear:    year,
		FiscalQuarter: quarter,
		OpportunityID: opp.OpportunityID,
		ProductID:     opp.ProductID,
	}
	require.NoError(f.t, f.db.Create(&w).Error)
	return w
}

// Target stores a yearly target and, when given, its quarterly split
func (f *Fixtures) Target(user models.User, year int, tt models.TargetType, amount float64, split ...float64) models.YearlyTarget {
	f.t.Helper()
	y := models.YearlyTarget{UserID: user.UserID, FiscalYear: year, TargetType: tt, Amount: amount}
	require.NoError(f.t, f.db.Create(&y).Error)
	for i, pct := range split {
		q := models.QuarterlyTarget{TargetID: y.TargetID, FiscalQuarter: i + 1, UserID: user.UserID, Percentage: pct}
		require.NoError(f.t, f.db.Create(&q).Error)
	}
	return y
}

// Team is the reference dataset: a director managing ae1 and ae2, each with
// one client, plus an unmanaged ae3.
type Team struct {
	Director models.User
	AE1      models.User
	AE2      models.User
	AE3      models.User
	Client1  models.Client
	Client2  models.Client
	Client3  models.Client
}

// NewTeam creates the reference dataset
func (f *Fixtures) NewTeam() Team {
	f.t.Helper()
	var team Team
	team.Director = f.User("director1", models.RoleDirector)
	team.AE1 = f.User("ae1", models.RoleAccountExecutive)
	team.AE2 = f.User("ae2", models.RoleAccountExecutive)
	team.AE3 = f.User("ae3", models.RoleAccountExecutive)
	f.Manage(team.Director, team.AE1, team.AE2)

	team.Client1 = f.Client(team.AE1, "Acme Corp", "Retail", "ON")
	team.Client2 = f.Client(team.AE2, "Globex", "Energy", "AB")
	team.Client3 = f.Client(team.AE3, "Initech", "Software", "QC")
	return team
}
