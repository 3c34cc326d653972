// Package handlers serves the dashboard's JSON API. Every report route
// resolves the caller, their role scope and the fiscal year before querying.
package handlers

import (
	"context"
	"errors"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/salesanalytics/analytics"
	"github.com/salesanalytics/auth"
	"github.com/salesanalytics/config"
	"github.com/salesanalytics/database"
	"github.com/salesanalytics/metrics"
	"github.com/salesanalytics/models"
	"github.com/salesanalytics/web/middleware"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// Handler holds the dependencies shared by all routes
type Handler struct {
	db      *gorm.DB
	log     *zap.Logger
	cfg     *config.Config
	issuer  *auth.Issuer
	metrics *metrics.HTTPMetrics
	queries *database.QueryLogger
}

// Options configures a Handler. Metrics and Queries may be nil.
type Options struct {
	DB      *gorm.DB
	Log     *zap.Logger
	Config  *config.Config
	Issuer  *auth.Issuer
	Metrics *metrics.HTTPMetrics
	Queries *database.QueryLogger
}

// New creates a Handler
func New(opts Options) *Handler {
	log := opts.Log
	if log == nil {
		log = zap.NewNop()
	}
	return &Handler{
		db:      opts.DB,
		log:     log,
		cfg:     opts.Config,
		issuer:  opts.Issuer,
		metrics: opts.Metrics,
		queries: opts.Queries,
	}
}

// reportRequest is the resolved context of a report call
type reportRequest struct {
	ctx   context.Context
	user  models.User
	scope analytics.Scope
	year  int
}

// resolve reads identity and year, checks them against the bearer token,
// then loads the user and computes their scope. Handlers parse their own
// parameters first so malformed input is rejected before any lookup.
func (h *Handler) resolve(c *fiber.Ctx) (reportRequest, error) {
	var req reportRequest

	identity, err := identityParam(c)
	if err != nil {
		return req, err
	}
	year, err := yearParam(c, h.cfg.App.DefaultFiscalYear)
	if err != nil {
		return req, err
	}
	if err := authorizeIdentity(c, identity); err != nil {
		return req, err
	}

	req.ctx = c.UserContext()
	req.year = year

	req.user, err = analytics.ResolveUser(req.ctx, h.db, identity)
	if err != nil {
		if errors.Is(err, analytics.ErrUserNotFound) {
			return req, fiber.NewError(fiber.StatusNotFound, "User not found")
		}
		return req, queryFailed("load user", err)
	}

	req.scope, err = analytics.ResolveScope(req.ctx, h.db, req.user)
	if err != nil {
		return req, queryFailed("resolve user scope", err)
	}
	return req, nil
}

// authorizeIdentity rejects a bearer token issued to someone other than the
// requested user. The parsed identity is compared, so it follows the same
// user_id over username precedence as ResolveUser.
func authorizeIdentity(c *fiber.Ctx, identity analytics.Identity) error {
	claims, ok := middleware.Claims(c)
	if !ok {
		return nil
	}

	subject, err := claims.UserID()
	if err != nil {
		return fiber.NewError(fiber.StatusUnauthorized, "Invalid or expired token")
	}

	if identity.UserID != 0 {
		if identity.UserID != subject {
			return errForeignToken
		}
		return nil
	}
	if identity.Username != claims.Username {
		return errForeignToken
	}
	return nil
}

var errForeignToken = fiber.NewError(fiber.StatusForbidden, "Token does not belong to the requested user")

// observe records the outcome of one report computation
func (h *Handler) observe(report string, start time.Time, err error) {
	if h.metrics != nil {
		h.metrics.RecordReport(report, time.Since(start).Seconds(), err)
	}
}

// queryFailed wraps an unexpected failure as a 500 naming the operation
func queryFailed(op string, err error) error {
	return fiber.NewError(fiber.StatusInternalServerError, "Failed to "+op+": "+err.Error())
}
