package routes

import (
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"

	"github.com/stacked-time/stacked_time/internal/auth"
	"github.com/stacked-time/stacked_time/internal/category"
	"github.com/stacked-time/stacked_time/internal/config"
	"github.com/stacked-time/stacked_time/internal/feedback"
	"github.com/stacked-time/stacked_time/internal/identity"
	"github.com/stacked-time/stacked_time/internal/mail"
	"github.com/stacked-time/stacked_time/internal/middleware"
	"github.com/stacked-time/stacked_time/internal/timer"
	"github.com/stacked-time/stacked_time/internal/verification"
)

// Deps aggregates shared dependencies required to wire routes.
type Deps struct {
	Cfg    config.Config
	DB     *pgxpool.Pool
	Cache  *redis.Client
	Logger *slog.Logger
}

// Setup configures middlewares and all application routes.
func Setup(app *fiber.App, d Deps) error {
	// Enforce DB/Redis presence outside of dev, even though main also checks.
	if !d.Cfg.IsDev() {
		if d.DB == nil {
			return fmt.Errorf("database is required when APP_ENV=%s", d.Cfg.AppEnv)
		}
		if d.Cache == nil {
			return fmt.Errorf("redis is required when APP_ENV=%s", d.Cfg.AppEnv)
		}
	}

	// Middlewares
	app.Use(recover.New())
	app.Use(middleware.RequestID())
	// Plain text access log: [HH:MM:SS] 200 -  145ms METHOD /path
	app.Use(logger.New(logger.Config{
		Format:     "[${time}] ${status} -  ${latency} ${method} ${path}\n",
		TimeFormat: "15:04:05",
		TimeZone:   "Local",
	}))
	if d.Logger != nil {
		app.Use(middleware.Audit(d.Logger))
	}

	// Health
	RegisterHealthRoutes(app, d)

	// Storage backends, with in-memory fallbacks for dev
	var ledger verification.Ledger
	if d.Cache != nil {
		ledger = verification.NewRedisLedger(d.Cache, d.Cfg.VerificationTTL)
	} else {
		ledger = verification.NewMemoryLedger(d.Cfg.VerificationTTL)
	}

	var identityRepo identity.Repository
	var timerRepo timer.Repository
	var categoryRepo category.Repository
	if d.DB != nil {
		identityRepo = identity.NewPostgresRepository(d.DB)
		timerRepo = timer.NewPostgresRepository(d.DB)
		categoryRepo = category.NewPostgresRepository(d.DB)
	} else {
		identityRepo = identity.NewMemoryRepository()
		timerRepo = timer.NewMemoryRepository()
		categoryRepo = category.NewMemoryRepository()
	}

	var mailer mail.Mailer
	if d.Cfg.SMTPHost != "" {
		mailer = mail.NewSMTPMailer(d.Cfg.SMTPHost, d.Cfg.SMTPPort, d.Cfg.SMTPUser, d.Cfg.SMTPPassword, d.Cfg.MailFrom)
	} else {
		mailer = mail.NewLoggerMailer(d.Logger)
	}

	// Services and handlers
	verificationSvc := verification.NewService(ledger, mailer)
	identitySvc := identity.NewService(identityRepo, verificationSvc)
	authSvc := auth.NewService(d.Cfg)
	timerSvc := timer.NewService(timerRepo)
	categorySvc := category.NewService(categoryRepo)

	identityHandler := identity.NewHandler(identitySvc)
	authHandler := auth.NewHandler(identitySvc, authSvc)
	timerHandler := timer.NewHandler(timerSvc)
	categoryHandler := category.NewHandler(categorySvc)
	feedbackHandler := feedback.NewHandler(mailer, d.Cfg.FeedbackTo)

	// API routes
	api := app.Group("/api/v1")
	api.Get("/ping", func(c *fiber.Ctx) error {
		reqID, _ := c.Locals("X-Request-ID").(string)
		return c.Status(http.StatusOK).JSON(fiber.Map{
			"status":     "ok",
			"request_id": reqID,
			"timestamp":  time.Now().UTC().Format(time.RFC3339Nano),
		})
	})

	// Public routes
	sendLimiter := middleware.RateLimit(d.Cache, "send_code", 3)
	loginLimiter := middleware.RateLimit(d.Cache, "login", 5)
	RegisterSignupRoutes(api, identityHandler, sendLimiter)
	RegisterAuthRoutes(api, authHandler, loginLimiter)
	RegisterFeedbackRoutes(api, feedbackHandler)

	// Protected routes
	jwtmw := middleware.JWTAuth(authSvc, identityRepo)
	protected := api.Group("", jwtmw)
	RegisterUserRoutes(protected, identityHandler, sendLimiter)
	RegisterTimerRoutes(protected, timerHandler)
	RegisterCategoryRoutes(protected, categoryHandler)

	return nil
}
