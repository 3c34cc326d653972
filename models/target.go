package models

// TargetType type for yearly target types
type TargetType string

const (
	TargetRevenue  TargetType = "revenue"
	TargetSignings TargetType = "signings"
	TargetWins     TargetType = "wins"
)

// TargetTypes lists every target type in display order
func TargetTypes() []TargetType {
	return []TargetType{TargetRevenue, TargetSignings, TargetWins}
}

// YearlyTarget represents yearlytarget table
type YearlyTarget struct {
	TargetID   uint       `gorm:"primaryKey;column:target_id" json:"target_id"`
	UserID     uint       `gorm:"not null;uniqueIndex:unique_target_per_user_year_type,priority:1" json:"user_id"`
	FiscalYear int        `gorm:"not null;uniqueIndex:unique_target_per_user_year_type,priority:2" json:"fiscal_year"`
	TargetType TargetType `gorm:"type:varchar(20);not null;uniqueIndex:unique_target_per_user_year_type,priority:3" json:"target_type"`
	Amount     float64    `gorm:"type:decimal(15,2);not null" json:"amount"`

	// Relationships
	User User `gorm:"foreignKey:UserID;references:UserID" json:"-"`
}

// TableName specifies the table name for YearlyTarget
func (YearlyTarget) TableName() string {
	return "yearlytarget"
}

// QuarterlyTarget is the share of a yearly target (in percent) due in one quarter
type QuarterlyTarget struct {
	QuarterlyTargetID uint    `gorm:"primaryKey;column:quarterly_target_id" json:"quarterly_target_id"`
	TargetID          uint    `gorm:"not null;uniqueIndex:unique_quarterly_target,priority:1" json:"target_id"`
	FiscalQuarter     int     `gorm:"not null;uniqueIndex:unique_quarterly_target,priority:2" json:"fiscal_quarter"`
	UserID            uint    `gorm:"not null" json:"user_id"`
	Percentage        float64 `gorm:"type:decimal(5,2);not null" json:"percentage"`

	// Relationships
	YearlyTarget YearlyTarget `gorm:"foreignKey:TargetID" json:"-"`
}

// TableName specifies the table name for QuarterlyTarget
func (QuarterlyTarget) TableName() string {
	return "quarterlytarget"
}
