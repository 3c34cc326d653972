// Package analytics holds the reporting logic behind the dashboard: role
// scoping, zero-filled chart axes, KPI and target arithmetic and the grouped
// aggregate queries over the fact tables.
package analytics

import (
	"context"
	"errors"
	"fmt"

	"github.com/salesanalytics/models"
	"gorm.io/gorm"
)

// ErrUserNotFound is returned when an identity matches no user
var ErrUserNotFound = errors.New("user not found")

// Identity names the caller of a report, by id or username
type Identity struct {
	UserID   uint
	Username string
}

// ResolveUser loads the user an identity refers to. A user id takes precedence.
func ResolveUser(ctx context.Context, db *gorm.DB, id Identity) (models.User, error) {
	var user models.User
	tx := db.WithContext(ctx)
	switch {
	case id.UserID != 0:
		tx = tx.Where("user_id = ?", id.UserID)
	case id.Username != "":
		tx = tx.Where("username = ?", id.Username)
	default:
		return user, ErrUserNotFound
	}

	if err := tx.Take(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return user, ErrUserNotFound
		}
		return user, fmt.Errorf("failed to load user: %w", err)
	}
	return user, nil
}

// Scope is the set of account executives and clients a user may report on
type Scope struct {
	Role                models.Role
	AccountExecutiveIDs []uint
	ClientIDs           []uint
}

// Empty reports whether the scope admits no client at all
func (s Scope) Empty() bool {
	return len(s.ClientIDs) == 0
}

// Apply restricts tx to rows whose column holds a client in scope
func (s Scope) Apply(tx *gorm.DB, column string) *gorm.DB {
	if s.Empty() {
		return tx.Where("1 = 0")
	}
	return tx.Where(column+" IN ?", s.ClientIDs)
}

// Contains reports whether the client is in scope
func (s Scope) Contains(clientID uint) bool {
	for _, id := range s.ClientIDs {
		if id == clientID {
			return true
		}
	}
	return false
}

// ResolveScope computes the user's scope from the director mapping and client ownership
func ResolveScope(ctx context.Context, db *gorm.DB, user models.User) (Scope, error) {
	scope := Scope{Role: user.Role}
	tx := db.WithContext(ctx)

	switch user.Role {
	case models.RoleDirector:
		if err := tx.Model(&models.DirectorAccountExecutive{}).
			Where("director_id = ?", user.UserID).
			Order("account_executive_id").
			Pluck("account_executive_id", &scope.AccountExecutiveIDs).Error; err != nil {
			return scope, fmt.Errorf("failed to load account executives: %w", err)
		}
	case models.RoleAccountExecutive:
		scope.AccountExecutiveIDs = []uint{user.UserID}
	default:
		return scope, nil
	}

	if len(scope.AccountExecutiveIDs) == 0 {
		return scope, nil
	}

	if err := tx.Model(&models.Client{}).
		Where("account_executive_id IN ?", scope.AccountExecutiveIDs).
		Order("client_id").
		Pluck("client_id", &scope.ClientIDs).Error; err != nil {
		return scope, fmt.Errorf("failed to load clients: %w", err)
	}
	return scope, nil
}

// ScopedClients lists the clients in scope ordered by name
func ScopedClients(ctx context.Context, db *gorm.DB, scope Scope) ([]models.Client, error) {
	clients := []models.Client{}
	if scope.Empty() {
		return clients, nil
	}
	if err := scope.Apply(db.WithContext(ctx), "client_id").
		Order("client_name").Find(&clients).Error; err != nil {
		return nil, fmt.Errorf("failed to load clients: %w", err)
	}
	return clients, nil
}
