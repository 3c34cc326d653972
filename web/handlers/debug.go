package handlers

import (
	"context"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/salesanalytics/database"
)

const recentSQLLogs = 20

// GetSQLLogs returns the most recent SQL statements
func (h *Handler) GetSQLLogs(c *fiber.Ctx) error {
	n, err := limitParam(c, recentSQLLogs)
	if err != nil {
		return err
	}
	return c.JSON(h.queries.GetRecentQueries(n))
}

// ClearSQLLogs clears all SQL logs
func (h *Handler) ClearSQLLogs(c *fiber.Ctx) error {
	h.queries.Clear()
	return c.SendStatus(fiber.StatusOK)
}

// Health pings the database
func (h *Handler) Health(c *fiber.Ctx) error {
	ctx, cancel := context.WithTimeout(c.UserContext(), 2*time.Second)
	defer cancel()

	if err := database.CheckConnection(ctx, h.db); err != nil {
		return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{
			"status": "unavailable",
			"error":  err.Error(),
		})
	}
	return c.JSON(fiber.Map{"status": "ok"})
}
