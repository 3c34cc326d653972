package handlers

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/salesanalytics/analytics"
)

// Signings returns the filtered signing table, newest first
func (h *Handler) Signings(c *fiber.Ctx) error {
	quarters, err := quartersParam(c)
	if err != nil {
		return err
	}
	products, err := enumParam(c, "product_categories", analytics.ProductCategoryFilters())
	if err != nil {
		return err
	}
	filter := analytics.SigningFilter{Quarters: quarters, ProductCategories: products}
	req, err := h.resolve(c)
	if err != nil {
		return err
	}

	start := time.Now()
	rows, err := analytics.ListSignings(req.ctx, h.db, req.scope, req.year, filter)
	h.observe("signings", start, err)
	if err != nil {
		return queryFailed("fetch signings", err)
	}

	return c.JSON(fiber.Map{
		"signings":    rows,
		"total_count": len(rows),
		"applied_filters": fiber.Map{
			"year":               req.year,
			"quarters":           quarters,
			"product_categories": products,
		},
	})
}

// SigningsQuarterlyChart returns signing totals per quarter
func (h *Handler) SigningsQuarterlyChart(c *fiber.Ctx) error {
	req, err := h.resolve(c)
	if err != nil {
		return err
	}

	start := time.Now()
	quarters, err := analytics.SigningsQuarterlyChart(req.ctx, h.db, req.scope, req.year)
	h.observe("signings_quarterly_chart", start, err)
	if err != nil {
		return queryFailed("fetch signings chart", err)
	}
	return c.JSON(quarters)
}
