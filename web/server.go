package web

import (
	"errors"
	"time"

	"github.com/getsentry/sentry-go"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/google/uuid"
	"github.com/salesanalytics/auth"
	"github.com/salesanalytics/config"
	"github.com/salesanalytics/database"
	"github.com/salesanalytics/metrics"
	"github.com/salesanalytics/web/handlers"
	"github.com/salesanalytics/web/middleware"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// Deps are the collaborators the server is built from. Metrics and Queries
// may be nil; the corresponding routes and middleware are then skipped.
type Deps struct {
	DB      *gorm.DB
	Log     *zap.Logger
	Config  *config.Config
	Issuer  *auth.Issuer
	Metrics *metrics.HTTPMetrics
	Queries *database.QueryLogger
}

// Server represents the web server
type Server struct {
	app  *fiber.App
	deps Deps
}

// NewServer creates a new Fiber server
func NewServer(deps Deps) *Server {
	if deps.Log == nil {
		deps.Log = zap.NewNop()
	}
	if deps.Issuer == nil {
		deps.Issuer = auth.NewIssuer(deps.Config.Auth.JWTSecret, deps.Config.Auth.TokenExpires)
	}
	log := deps.Log

	app := fiber.New(fiber.Config{
		AppName:               "sales-analytics",
		DisableStartupMessage: true,
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			code := fiber.StatusInternalServerError
			var e *fiber.Error
			if errors.As(err, &e) {
				code = e.Code
			}

			if code >= fiber.StatusInternalServerError {
				log.Error("request failed",
					zap.String("method", c.Method()),
					zap.String("path", c.Path()),
					zap.Any("request_id", c.Locals(requestid.ConfigDefault.ContextKey)),
					zap.Error(err))
				if deps.Config.App.SentryDSN != "" {
					sentry.CaptureException(err)
				}
			}

			return c.Status(code).JSON(fiber.Map{
				"error": err.Error(),
			})
		},
	})

	// Middleware
	app.Use(recover.New(recover.Config{
		EnableStackTrace: true,
	}))
	app.Use(requestid.New(requestid.Config{
		Generator: uuid.NewString,
	}))
	app.Use(cors.New(cors.Config{
		AllowOrigins: deps.Config.App.CORSAllowOrigins,
		AllowHeaders: "Origin, Content-Type, Accept, Authorization",
	}))
	app.Use(logger.New(logger.Config{
		Format: "[${time}] ${status} - ${latency} ${method} ${path} ${error}\n",
	}))
	if deps.Metrics != nil {
		app.Use(middleware.MetricsMiddleware(deps.Metrics))
	}

	// Statement counts per request, development only
	debug := deps.Config.IsDevelopment() && deps.Queries != nil
	if debug {
		app.Use(middleware.SQLDebugMiddleware(deps.Queries))
	}

	h := handlers.New(handlers.Options{
		DB:      deps.DB,
		Log:     log.Named("http"),
		Config:  deps.Config,
		Issuer:  deps.Issuer,
		Metrics: deps.Metrics,
		Queries: deps.Queries,
	})
	setupRoutes(app, h, deps, debug)

	return &Server{app: app, deps: deps}
}

// App exposes the fiber app, mainly for app.Test
func (s *Server) App() *fiber.App {
	return s.app
}

// Start starts the server
func (s *Server) Start(port string) error {
	s.deps.Log.Info("server starting", zap.String("addr", "http://localhost:"+port))
	return s.app.Listen(":" + port)
}

// Shutdown waits up to timeout for in-flight requests
func (s *Server) Shutdown(timeout time.Duration) error {
	return s.app.ShutdownWithTimeout(timeout)
}

// setupRoutes configures all application routes
func setupRoutes(app *fiber.App, h *handlers.Handler, deps Deps, debug bool) {
	app.Get("/healthz", h.Health)
	if deps.Metrics != nil {
		app.Get("/metrics", adaptor.HTTPHandler(deps.Metrics.Handler()))
	}

	api := app.Group("/api")

	// Debug endpoint for SQL logs
	if debug {
		api.Get("/debug/sql", h.GetSQLLogs)
		api.Delete("/debug/sql", h.ClearSQLLogs)
	}

	authGroup := api.Group("/auth")
	authGroup.Post("/login", h.Login)
	authGroup.Get("/me", middleware.RequireToken(deps.Issuer), h.Me)

	reports := middleware.ReportAuth(deps.Issuer, deps.Config.Auth.Required)

	landing := api.Group("/landing", reports)
	landing.Get("/kpi-cards", h.KPICards)
	landing.Get("/quarterly-targets", h.QuarterlyTargets)
	landing.Get("/revenue-monthly-chart", h.LandingMonthlyRevenue)

	pipeline := api.Group("/pipeline", reports)
	pipeline.Get("/opportunities", h.Opportunities)
	pipeline.Get("/forecast-category-chart", h.ForecastCategoryChart)
	pipeline.Get("/sales-stage-chart", h.SalesStageChart)

	revenue := api.Group("/revenue", reports)
	revenue.Get("/revenue-product-distribution-chart", h.RevenueProductDistribution)
	revenue.Get("/revenue-monthly-chart", h.MonthlyRevenue)
	revenue.Get("/top-clients", h.TopClients)

	signings := api.Group("/signings", reports)
	signings.Get("/signings", h.Signings)
	signings.Get("/quarterly-chart", h.SigningsQuarterlyChart)

	wins := api.Group("/wins", reports)
	wins.Get("/wins", h.Wins)
	wins.Get("/win-quarterly-evolution-chart", h.WinEvolution)
	wins.Get("/win-chart-data", h.WinEvolution) // Alias kept for older dashboards
	wins.Get("/win-category-chart", h.WinCategoryChart)

	clients := api.Group("/clients", reports)
	clients.Get("/clients", h.Clients)
	clients.Get("/industry-treemap-chart", h.IndustryTreemap)
	clients.Get("/province-chart", h.ProvinceChart)

	executives := api.Group("/executives", reports)
	executives.Get("/account-executives", h.AccountExecutives)
}
