package handlers

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/salesanalytics/analytics"
)

const defaultTopClients = 10

// RevenueProductDistribution returns the quarter by product group bubble chart
func (h *Handler) RevenueProductDistribution(c *fiber.Ctx) error {
	req, err := h.resolve(c)
	if err != nil {
		return err
	}

	start := time.Now()
	series, err := analytics.RevenueDistribution(req.ctx, h.db, req.scope, req.year)
	h.observe("revenue_product_distribution", start, err)
	if err != nil {
		return queryFailed("fetch revenue distribution", err)
	}
	return c.JSON(fiber.Map{
		"bubble_data": series,
		"year":        req.year,
	})
}

// MonthlyRevenue returns revenue per month with the yearly total
func (h *Handler) MonthlyRevenue(c *fiber.Ctx) error {
	req, err := h.resolve(c)
	if err != nil {
		return err
	}

	start := time.Now()
	months, total, err := analytics.MonthlyRevenue(req.ctx, h.db, req.scope, req.year)
	h.observe("monthly_revenue", start, err)
	if err != nil {
		return queryFailed("fetch monthly revenue", err)
	}
	return c.JSON(fiber.Map{
		"months": months,
		"year":   req.year,
		"total":  total,
	})
}

// TopClients ranks clients in scope by revenue in the year
func (h *Handler) TopClients(c *fiber.Ctx) error {
	limit, err := limitParam(c, defaultTopClients)
	if err != nil {
		return err
	}
	req, err := h.resolve(c)
	if err != nil {
		return err
	}

	start := time.Now()
	clients, err := analytics.TopClients(req.ctx, h.db, req.scope, req.year, limit)
	h.observe("top_clients", start, err)
	if err != nil {
		return queryFailed("fetch top clients", err)
	}
	return c.JSON(fiber.Map{
		"clients": clients,
		"year":    req.year,
	})
}
