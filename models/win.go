package models

// Win categories
const (
	WinCategoryGCP = "gcp"
	WinCategoryDA  = "da"
)

// Win represents win table. A client wins at most once per category, level and fiscal year.
type Win struct {
	WinID         uint    `gorm:"primaryKey;column:win_id" json:"win_id"`
	ClientID      uint    `gorm:"not null;uniqueIndex:unique_win_per_category_level_year,priority:1" json:"client_id"`
	WinCategory   string  `gorm:"type:varchar(10);not null;uniqueIndex:unique_win_per_category_level_year,priority:2" json:"win_category"`
	WinLevel      int     `gorm:"not null;uniqueIndex:unique_win_per_category_level_year,priority:3" json:"win_level"`
	WinMultiplier float64 `gorm:"type:decimal(3,1);not null" json:"win_multiplier"`
	FiscalYear    int     `gorm:"not null;uniqueIndex:unique_win_per_category_level_year,priority:4" json:"fiscal_year"`
	FiscalQuarter int     `gorm:"not null" json:"fiscal_quarter"`
	OpportunityID uint    `gorm:"not null" json:"opportunity_id"`
	ProductID     uint    `gorm:"not null" json:"product_id"`

	// Relationships
	Client      Client      `gorm:"foreignKey:ClientID" json:"-"`
	Opportunity Opportunity `gorm:"foreignKey:OpportunityID" json:"-"`
	Product     Product     `gorm:"foreignKey:ProductID" json:"-"`
}

// TableName specifies the table name for Win
func (Win) TableName() string {
	return "win"
}
