package models

// Role type for user roles
type Role string

const (
	RoleDirector         Role = "director"
	RoleAccountExecutive Role = "account-executive"
)

// User represents user table
type User struct {
	UserID         uint   `gorm:"primaryKey;column:user_id" json:"user_id"`
	Username       string `gorm:"type:varchar(50);not null;unique" json:"username"`
	Email          string `gorm:"type:varchar(100);not null;unique" json:"email"`
	FirstName      string `gorm:"type:varchar(50)" json:"first_name"`
	LastName       string `gorm:"type:varchar(50)" json:"last_name"`
	Role           Role   `gorm:"type:varchar(20);not null" json:"role"`
	HashedPassword string `gorm:"type:varchar(100);not null" json:"-"`
}

// TableName specifies the table name for User
func (User) TableName() string {
	return "user"
}

// FullName returns "first last", falling back to the username
func (u User) FullName() string {
	switch {
	case u.FirstName != "" && u.LastName != "":
		return u.FirstName + " " + u.LastName
	case u.FirstName != "":
		return u.FirstName
	case u.LastName != "":
		return u.LastName
	}
	return u.Username
}

// DirectorAccountExecutive maps each account executive to exactly one director
type DirectorAccountExecutive struct {
	AccountExecutiveID uint `gorm:"primaryKey;autoIncrement:false;column:account_executive_id" json:"account_executive_id"`
	DirectorID         uint `gorm:"not null;index" json:"director_id"`

	// Relationships
	AccountExecutive User `gorm:"foreignKey:AccountExecutiveID;references:UserID" json:"-"`
	Director         User `gorm:"foreignKey:DirectorID;references:UserID" json:"-"`
}

// TableName specifies the table name for DirectorAccountExecutive
func (DirectorAccountExecutive) TableName() string {
	return "directoraccountexecutive"
}
