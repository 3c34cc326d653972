package handlers

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/salesanalytics/analytics"
)

// KPICards returns pipeline, revenue, signings and wins through the quarter
func (h *Handler) KPICards(c *fiber.Ctx) error {
	quarter, err := quarterParam(c, 4)
	if err != nil {
		return err
	}
	req, err := h.resolve(c)
	if err != nil {
		return err
	}

	start := time.Now()
	kpis, err := analytics.ComputeKPIs(req.ctx, h.db, req.scope, req.year, quarter)
	h.observe("kpi_cards", start, err)
	if err != nil {
		return queryFailed("fetch KPI cards", err)
	}
	return c.JSON(kpis)
}

// QuarterlyTargets returns achievement against target for each metric
func (h *Handler) QuarterlyTargets(c *fiber.Ctx) error {
	quarter, err := quarterParam(c, 4)
	if err != nil {
		return err
	}
	req, err := h.resolve(c)
	if err != nil {
		return err
	}

	start := time.Now()
	perf, err := analytics.QuarterlyPerformance(req.ctx, h.db, req.user, req.scope, req.year, quarter)
	h.observe("quarterly_targets", start, err)
	if err != nil {
		return queryFailed("fetch quarterly targets", err)
	}
	return c.JSON(perf)
}

// LandingMonthlyRevenue returns the twelve monthly revenue points
func (h *Handler) LandingMonthlyRevenue(c *fiber.Ctx) error {
	req, err := h.resolve(c)
	if err != nil {
		return err
	}

	start := time.Now()
	months, _, err := analytics.MonthlyRevenue(req.ctx, h.db, req.scope, req.year)
	h.observe("landing_monthly_revenue", start, err)
	if err != nil {
		return queryFailed("fetch monthly revenue", err)
	}
	return c.JSON(months)
}
