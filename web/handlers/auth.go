package handlers

import (
	"errors"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/salesanalytics/analytics"
	"github.com/salesanalytics/auth"
	"github.com/salesanalytics/models"
	"github.com/salesanalytics/web/middleware"
	"go.uber.org/zap"
)

// LoginRequest is the body of POST /api/auth/login
type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type clientRef struct {
	ClientID   uint   `json:"client_id"`
	ClientName string `json:"client_name"`
}

// Login verifies credentials and issues a bearer token
func (h *Handler) Login(c *fiber.Ctx) error {
	var body LoginRequest
	if err := c.BodyParser(&body); err != nil {
		return badRequest("Invalid request body")
	}
	body.Username = strings.TrimSpace(body.Username)
	if body.Username == "" || body.Password == "" {
		return badRequest("Username and password are required")
	}

	ctx := c.UserContext()
	user, err := analytics.ResolveUser(ctx, h.db, analytics.Identity{Username: body.Username})
	if err != nil && !errors.Is(err, analytics.ErrUserNotFound) {
		return queryFailed("load user", err)
	}
	if err != nil || auth.VerifyPassword(user.HashedPassword, body.Password) != nil {
		h.log.Info("login rejected", zap.String("username", body.Username))
		return fiber.NewError(fiber.StatusUnauthorized, "Invalid username or password")
	}

	token, err := h.issuer.Issue(user)
	if err != nil {
		return queryFailed("issue token", err)
	}

	scope, err := analytics.ResolveScope(ctx, h.db, user)
	if err != nil {
		return queryFailed("resolve user scope", err)
	}
	clients, err := analytics.ScopedClients(ctx, h.db, scope)
	if err != nil {
		return queryFailed("fetch clients", err)
	}
	refs := make([]clientRef, 0, len(clients))
	for _, cl := range clients {
		refs = append(refs, clientRef{ClientID: cl.ClientID, ClientName: cl.ClientName})
	}

	h.log.Info("login", zap.Uint("user_id", user.UserID), zap.String("role", string(user.Role)))
	return c.JSON(fiber.Map{
		"message": "Login successful",
		"token":   token,
		"user":    userView(user),
		"role":    user.Role,
		"clients": refs,
	})
}

// Me returns the user the bearer token was issued to
func (h *Handler) Me(c *fiber.Ctx) error {
	claims, ok := middleware.Claims(c)
	if !ok {
		return fiber.NewError(fiber.StatusUnauthorized, "Missing bearer token")
	}
	id, err := claims.UserID()
	if err != nil {
		return fiber.NewError(fiber.StatusUnauthorized, "Invalid or expired token")
	}

	user, err := analytics.ResolveUser(c.UserContext(), h.db, analytics.Identity{UserID: id})
	if errors.Is(err, analytics.ErrUserNotFound) {
		return fiber.NewError(fiber.StatusNotFound, "User not found")
	}
	if err != nil {
		return queryFailed("load user", err)
	}
	return c.JSON(fiber.Map{"user": userView(user)})
}

func userView(u models.User) fiber.Map {
	return fiber.Map{
		"user_id":    u.UserID,
		"username":   u.Username,
		"email":      u.Email,
		"first_name": u.FirstName,
		"last_name":  u.LastName,
		"name":       u.FullName(),
		"role":       u.Role,
	}
}
