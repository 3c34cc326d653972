package models

import "time"

// Forecast categories
const (
	ForecastOmit      = "omit"
	ForecastPipeline  = "pipeline"
	ForecastUpside    = "upside"
	ForecastCommit    = "commit"
	ForecastClosedWon = "closed-won"
)

// Sales stages
const (
	StageQualify  = "qualify"
	StageRefine   = "refine"
	StageTechEval = "tech-eval/soln-dev"
	StageProposal = "proposal/negotiation"
	StageMigrate  = "migrate"
)

// Opportunity represents opportunity table
type Opportunity struct {
	OpportunityID    uint      `gorm:"primaryKey;column:opportunity_id" json:"opportunity_id"`
	OpportunityName  string    `gorm:"type:varchar(100);not null" json:"opportunity_name"`
	ClientID         uint      `gorm:"not null;index" json:"client_id"`
	ProductID        uint      `gorm:"not null" json:"product_id"`
	ForecastCategory string    `gorm:"type:varchar(20);not null" json:"forecast_category"`
	SalesStage       string    `gorm:"type:varchar(50);not null" json:"sales_stage"`
	CloseDate        time.Time `gorm:"type:date;not null" json:"close_date"`
	Probability      float64   `gorm:"type:decimal(5,2);not null" json:"probability"`
	Amount           float64   `gorm:"type:decimal(15,2);not null" json:"amount"`
	CreatedDate      time.Time `gorm:"not null" json:"created_date"`
	LastModifiedDate time.Time `gorm:"not null" json:"last_modified_date"`

	// Relationships
	Client  Client  `gorm:"foreignKey:ClientID" json:"-"`
	Product Product `gorm:"foreignKey:ProductID" json:"-"`
}

// TableName specifies the table name for Opportunity
func (Opportunity) TableName() string {
	return "opportunity"
}

// UpdateEvent groups the field changes applied to an opportunity at one time
type UpdateEvent struct {
	ChangeBatchID uint      `gorm:"primaryKey;column:change_batch_id" json:"change_batch_id"`
	OpportunityID uint      `gorm:"not null;index" json:"opportunity_id"`
	ChangeDate    time.Time `gorm:"not null" json:"change_date"`

	// Relationships
	Opportunity Opportunity `gorm:"foreignKey:OpportunityID" json:"-"`
}

// TableName specifies the table name for UpdateEvent
func (UpdateEvent) TableName() string {
	return "updateevent"
}

// OpportunityUpdateLog represents opportunityupdatelog table
type OpportunityUpdateLog struct {
	LogID         uint   `gorm:"primaryKey;column:log_id" json:"log_id"`
	ChangeBatchID uint   `gorm:"not null;uniqueIndex:unique_field_per_batch" json:"change_batch_id"`
	FieldName     string `gorm:"type:varchar(50);not null;uniqueIndex:unique_field_per_batch" json:"field_name"`
	OldValue      string `gorm:"type:text;not null" json:"old_value"`
	NewValue      string `gorm:"type:text;not null" json:"new_value"`

	// Relationships
	UpdateEvent UpdateEvent `gorm:"foreignKey:ChangeBatchID" json:"-"`
}

// TableName specifies the table name for OpportunityUpdateLog
func (OpportunityUpdateLog) TableName() string {
	return "opportunityupdatelog"
}
