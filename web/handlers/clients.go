package handlers

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/salesanalytics/analytics"
)

// Clients returns the clients in scope with their revenue in the year
func (h *Handler) Clients(c *fiber.Ctx) error {
	req, err := h.resolve(c)
	if err != nil {
		return err
	}

	start := time.Now()
	clients, err := analytics.ListClients(req.ctx, h.db, req.scope, req.year)
	h.observe("clients", start, err)
	if err != nil {
		return queryFailed("fetch clients", err)
	}
	return c.JSON(fiber.Map{
		"clients":     clients,
		"total_count": len(clients),
		"year":        req.year,
	})
}

// IndustryTreemap returns the top industries by revenue
func (h *Handler) IndustryTreemap(c *fiber.Ctx) error {
	req, err := h.resolve(c)
	if err != nil {
		return err
	}

	start := time.Now()
	tiles, err := analytics.IndustryTreemap(req.ctx, h.db, req.scope, req.year)
	h.observe("industry_treemap", start, err)
	if err != nil {
		return queryFailed("fetch industry treemap", err)
	}
	return c.JSON(fiber.Map{
		"treemap_data": tiles,
		"year":         req.year,
	})
}

// ProvinceChart returns client counts per province
func (h *Handler) ProvinceChart(c *fiber.Ctx) error {
	req, err := h.resolve(c)
	if err != nil {
		return err
	}

	start := time.Now()
	provinces, err := analytics.ProvinceDistribution(req.ctx, h.db, req.scope)
	h.observe("province_chart", start, err)
	if err != nil {
		return queryFailed("fetch province chart", err)
	}
	return c.JSON(provinces)
}
