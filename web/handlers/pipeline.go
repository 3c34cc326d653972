package handlers

import (
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/salesanalytics/analytics"
)

// Opportunities returns the filtered opportunity table
func (h *Handler) Opportunities(c *fiber.Ctx) error {
	stages, err := enumParam(c, "sales_stages", analytics.SalesStages)
	if err != nil {
		return err
	}
	forecasts, err := enumParam(c, "forecast_categories", analytics.ForecastCategories)
	if err != nil {
		return err
	}
	products, err := enumParam(c, "product_categories", analytics.ProductCategoryFilters())
	if err != nil {
		return err
	}
	limit, err := limitParam(c, analytics.DefaultLimit)
	if err != nil {
		return err
	}
	filter := analytics.OpportunityFilter{
		SalesStages:        stages,
		ForecastCategories: forecasts,
		ProductCategories:  products,
		Name:               strings.TrimSpace(c.Query("opportunity_name")),
		Limit:              limit,
	}
	req, err := h.resolve(c)
	if err != nil {
		return err
	}

	start := time.Now()
	rows, total, err := analytics.ListOpportunities(req.ctx, h.db, req.scope, filter)
	h.observe("opportunities", start, err)
	if err != nil {
		return queryFailed("fetch opportunities", err)
	}

	return c.JSON(fiber.Map{
		"opportunities": rows,
		"total_count":   total,
		"applied_filters": fiber.Map{
			"sales_stages":        stages,
			"forecast_categories": forecasts,
			"product_categories":  products,
			"opportunity_name":    filter.Name,
			"limit":               limit,
		},
	})
}

// ForecastCategoryChart returns count and amount per forecast category
func (h *Handler) ForecastCategoryChart(c *fiber.Ctx) error {
	req, err := h.resolve(c)
	if err != nil {
		return err
	}

	start := time.Now()
	slices, err := analytics.ForecastCategoryChart(req.ctx, h.db, req.scope, req.year)
	h.observe("forecast_category_chart", start, err)
	if err != nil {
		return queryFailed("fetch forecast category chart", err)
	}
	return c.JSON(slices)
}

// SalesStageChart returns count and amount per sales stage
func (h *Handler) SalesStageChart(c *fiber.Ctx) error {
	req, err := h.resolve(c)
	if err != nil {
		return err
	}

	start := time.Now()
	slices, err := analytics.SalesStageChart(req.ctx, h.db, req.scope, req.year)
	h.observe("sales_stage_chart", start, err)
	if err != nil {
		return queryFailed("fetch sales stage chart", err)
	}
	return c.JSON(slices)
}
