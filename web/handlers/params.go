package handlers

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/salesanalytics/analytics"
)

const (
	maxLimit   = 1000
	dateLayout = "2006-01-02"
)

func badRequest(format string, args ...any) error {
	return fiber.NewError(fiber.StatusBadRequest, fmt.Sprintf(format, args...))
}

// identityParam reads user_id or username; user_id wins when both are set
func identityParam(c *fiber.Ctx) (analytics.Identity, error) {
	var id analytics.Identity
	if raw := strings.TrimSpace(c.Query("user_id")); raw != "" {
		n, err := strconv.ParseUint(raw, 10, 64)
		if err != nil || n == 0 {
			return id, badRequest("Invalid user_id: %s", raw)
		}
		id.UserID = uint(n)
	}
	id.Username = strings.TrimSpace(c.Query("username"))
	if id.UserID == 0 && id.Username == "" {
		return id, badRequest("Missing required parameter: username")
	}
	return id, nil
}

func intParam(c *fiber.Ctx, name string, def int) (int, error) {
	raw := strings.TrimSpace(c.Query(name))
	if raw == "" {
		return def, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return 0, badRequest("Invalid %s: %s", name, raw)
	}
	return n, nil
}

func yearParam(c *fiber.Ctx, def int) (int, error) {
	year, err := intParam(c, "year", def)
	if err != nil {
		return 0, err
	}
	if year < 1 || year > 9999 {
		return 0, badRequest("Invalid year: %d", year)
	}
	return year, nil
}

func quarterParam(c *fiber.Ctx, def int) (int, error) {
	q, err := intParam(c, "quarter", def)
	if err != nil {
		return 0, err
	}
	if q < 1 || q > 4 {
		return 0, badRequest("Quarter must be between 1 and 4, got %d", q)
	}
	return q, nil
}

// listParam splits a comma separated parameter, dropping blanks
func listParam(c *fiber.Ctx, name string) []string {
	raw := c.Query(name)
	if raw == "" {
		return nil
	}
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

func quartersParam(c *fiber.Ctx) ([]int, error) {
	var quarters []int
	for _, v := range listParam(c, "quarters") {
		q, err := strconv.Atoi(v)
		if err != nil || q < 1 || q > 4 {
			return nil, badRequest("Invalid quarter %q: quarters must be between 1 and 4", v)
		}
		quarters = append(quarters, q)
	}
	return quarters, nil
}

// enumParam reads a comma list and rejects values outside allowed
func enumParam(c *fiber.Ctx, name string, allowed []string) ([]string, error) {
	values := listParam(c, name)
	if invalid := analytics.InvalidValues(values, allowed); len(invalid) > 0 {
		return nil, badRequest("Invalid %s: %s. Valid values: %s",
			name, strings.Join(invalid, ", "), strings.Join(allowed, ", "))
	}
	return values, nil
}

func floatParam(c *fiber.Ctx, name string) (*float64, error) {
	raw := strings.TrimSpace(c.Query(name))
	if raw == "" {
		return nil, nil
	}
	f, err := strconv.ParseFloat(raw, 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return nil, badRequest("Invalid %s: %s", name, raw)
	}
	return &f, nil
}

func dateParam(c *fiber.Ctx, name string) (*time.Time, error) {
	raw := strings.TrimSpace(c.Query(name))
	if raw == "" {
		return nil, nil
	}
	t, err := time.ParseInLocation(dateLayout, raw, time.UTC)
	if err != nil {
		return nil, badRequest("Invalid %s: %s (expected YYYY-MM-DD)", name, raw)
	}
	return &t, nil
}

func limitParam(c *fiber.Ctx, def int) (int, error) {
	limit, err := intParam(c, "limit", def)
	if err != nil {
		return 0, err
	}
	if limit < 1 {
		return 0, badRequest("Limit must be positive, got %d", limit)
	}
	if limit > maxLimit {
		limit = maxLimit
	}
	return limit, nil
}
