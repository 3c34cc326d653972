package models

import "time"

// Client represents client table
type Client struct {
	ClientID           uint      `gorm:"primaryKey;column:client_id" json:"client_id"`
	ClientName         string    `gorm:"type:varchar(100);not null" json:"client_name"`
	AccountExecutiveID uint      `gorm:"not null;index" json:"account_executive_id"`
	City               *string   `gorm:"type:varchar(50)" json:"city,omitempty"`
	Province           *string   `gorm:"type:varchar(2)" json:"province,omitempty"`
	Industry           *string   `gorm:"type:varchar(50)" json:"industry,omitempty"`
	CreatedDate        time.Time `gorm:"type:date;not null" json:"created_date"`

	// Relationships
	AccountExecutive User `gorm:"foreignKey:AccountExecutiveID;references:UserID" json:"-"`
}

// TableName specifies the table name for Client
func (Client) TableName() string {
	return "client"
}

// Product represents product table
type Product struct {
	ProductID       uint   `gorm:"primaryKey;column:product_id" json:"product_id"`
	ProductName     string `gorm:"type:varchar(100);not null;unique" json:"product_name"`
	ProductCategory string `gorm:"type:varchar(50);not null" json:"product_category"`
}

// TableName specifies the table name for Product
func (Product) TableName() string {
	return "product"
}
