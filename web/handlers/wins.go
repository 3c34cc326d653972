package handlers

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/salesanalytics/analytics"
)

// Wins returns the filtered win table and the sum of its multipliers
func (h *Handler) Wins(c *fiber.Ctx) error {
	filter, err := winFilterParams(c)
	if err != nil {
		return err
	}
	req, err := h.resolve(c)
	if err != nil {
		return err
	}

	start := time.Now()
	rows, totalWinCount, err := analytics.ListWins(req.ctx, h.db, req.scope, req.year, filter)
	h.observe("wins", start, err)
	if err != nil {
		return queryFailed("fetch wins", err)
	}

	applied := fiber.Map{
		"year":        req.year,
		"quarters":    filter.Quarters,
		"categories":  filter.Categories,
		"lower_bound": filter.LowerBound,
		"upper_bound": filter.UpperBound,
		"start_date":  nil,
		"end_date":    nil,
	}
	if filter.StartDate != nil {
		applied["start_date"] = filter.StartDate.Format(dateLayout)
	}
	if filter.EndDate != nil {
		applied["end_date"] = filter.EndDate.Format(dateLayout)
	}

	return c.JSON(fiber.Map{
		"wins":            rows,
		"total_count":     len(rows),
		"total_win_count": totalWinCount,
		"applied_filters": applied,
	})
}

func winFilterParams(c *fiber.Ctx) (analytics.WinFilter, error) {
	var f analytics.WinFilter
	var err error

	if f.Quarters, err = quartersParam(c); err != nil {
		return f, err
	}
	if f.Categories, err = enumParam(c, "categories", analytics.WinCategories); err != nil {
		return f, err
	}
	if f.LowerBound, err = floatParam(c, "lower_bound"); err != nil {
		return f, err
	}
	if f.UpperBound, err = floatParam(c, "upper_bound"); err != nil {
		return f, err
	}
	if f.LowerBound != nil && f.UpperBound != nil && *f.LowerBound > *f.UpperBound {
		return f, badRequest("lower_bound cannot be greater than upper_bound")
	}
	if f.StartDate, err = dateParam(c, "start_date"); err != nil {
		return f, err
	}
	if f.EndDate, err = dateParam(c, "end_date"); err != nil {
		return f, err
	}
	if f.StartDate != nil && f.EndDate != nil && f.StartDate.After(*f.EndDate) {
		return f, badRequest("start_date cannot be after end_date")
	}
	return f, nil
}

// WinEvolution returns win counts per quarter. Served under two paths.
func (h *Handler) WinEvolution(c *fiber.Ctx) error {
	req, err := h.resolve(c)
	if err != nil {
		return err
	}

	start := time.Now()
	evolution, err := analytics.WinEvolution(req.ctx, h.db, req.scope, req.year)
	h.observe("win_evolution", start, err)
	if err != nil {
		return queryFailed("fetch win evolution", err)
	}
	return c.JSON(fiber.Map{
		"win_evolution": evolution,
		"categories":    analytics.QuarterLabels(),
		"year":          req.year,
	})
}

// WinCategoryChart returns wins per win category
func (h *Handler) WinCategoryChart(c *fiber.Ctx) error {
	req, err := h.resolve(c)
	if err != nil {
		return err
	}

	start := time.Now()
	slices, err := analytics.WinCategoryChart(req.ctx, h.db, req.scope, req.year)
	h.observe("win_category_chart", start, err)
	if err != nil {
		return queryFailed("fetch win category chart", err)
	}
	return c.JSON(slices)
}
