package models

// Revenue represents revenue table, one recognized-revenue ledger row
type Revenue struct {
	RevenueID     uint    `gorm:"primaryKey;column:revenue_id" json:"revenue_id"`
	OpportunityID uint    `gorm:"not null" json:"opportunity_id"`
	ClientID      uint    `gorm:"not null;index:idx_revenue_client_year,priority:1" json:"client_id"`
	SigningID     *uint   `json:"signing_id,omitempty"`
	ProductID     uint    `gorm:"not null" json:"product_id"`
	FiscalYear    int     `gorm:"not null;index:idx_revenue_client_year,priority:2" json:"fiscal_year"`
	FiscalQuarter int     `gorm:"not null" json:"fiscal_quarter"`
	Month         int     `gorm:"not null" json:"month"`
	Amount        float64 `gorm:"type:decimal(15,2);not null" json:"amount"`

	// Relationships
	Opportunity Opportunity `gorm:"foreignKey:OpportunityID" json:"-"`
	Client      Client      `gorm:"foreignKey:ClientID" json:"-"`
	Signing     *Signing    `gorm:"foreignKey:SigningID" json:"-"`
	Product     Product     `gorm:"foreignKey:ProductID" json:"-"`
}

// TableName specifies the table name for Revenue
func (Revenue) TableName() string {
	return "revenue"
}
