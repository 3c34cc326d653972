package handlers

import (
	"errors"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/salesanalytics/analytics"
)

// AccountExecutives returns the director's team performance table
func (h *Handler) AccountExecutives(c *fiber.Ctx) error {
	quarter, err := quarterParam(c, 4)
	if err != nil {
		return err
	}
	req, err := h.resolve(c)
	if err != nil {
		return err
	}

	start := time.Now()
	rows, err := analytics.AccountExecutivePerformance(req.ctx, h.db, req.user, req.scope, req.year, quarter)
	if errors.Is(err, analytics.ErrNotDirector) {
		return fiber.NewError(fiber.StatusForbidden, "Only directors can view account executive performance")
	}
	h.observe("account_executives", start, err)
	if err != nil {
		return queryFailed("fetch account executive performance", err)
	}
	return c.JSON(fiber.Map{
		"account_executives": rows,
		"year":               req.year,
		"quarter":            quarter,
	})
}
