package models

import "time"

// Signing represents signing table
type Signing struct {
	SigningID          uint      `gorm:"primaryKey;column:signing_id" json:"signing_id"`
	OpportunityID      uint      `gorm:"not null" json:"opportunity_id"`
	ClientID           uint      `gorm:"not null;index:idx_signing_client_year,priority:1" json:"client_id"`
	ProductID          uint      `gorm:"not null" json:"product_id"`
	TotalContractValue float64   `gorm:"type:decimal(15,2);not null" json:"total_contract_value"`
	IncrementalACV     *float64  `gorm:"column:incremental_acv;type:decimal(15,2)" json:"incremental_acv,omitempty"`
	StartDate          time.Time `gorm:"type:date;not null" json:"start_date"`
	EndDate            time.Time `gorm:"type:date;not null" json:"end_date"`
	SigningDate        time.Time `gorm:"type:date;not null" json:"signing_date"`
	FiscalYear         int       `gorm:"not null;index:idx_signing_client_year,priority:2" json:"fiscal_year"`
	FiscalQuarter      int       `gorm:"not null" json:"fiscal_quarter"`

	// Relationships
	Opportunity Opportunity `gorm:"foreignKey:OpportunityID" json:"-"`
	Client      Client      `gorm:"foreignKey:ClientID" json:"-"`
	Product     Product     `gorm:"foreignKey:ProductID" json:"-"`
}

// TableName specifies the table name for Signing
func (Signing) TableName() string {
	return "signing"
}
