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

	"github.com/congo-pay/homebank/internal/accounts"
	"github.com/congo-pay/homebank/internal/activity"
	"github.com/congo-pay/homebank/internal/auth"
	"github.com/congo-pay/homebank/internal/cards"
	"github.com/congo-pay/homebank/internal/config"
	"github.com/congo-pay/homebank/internal/identity"
	"github.com/congo-pay/homebank/internal/middleware"
)

// Deps aggregates shared dependencies required to wire routes. DB and Cache
// may be nil in development, in which case memory stores are used and the
// Redis-backed middleware is skipped.
type Deps struct {
	Cfg    config.Config
	DB     *pgxpool.Pool
	Cache  *redis.Client
	Logger *slog.Logger
}

// Setup configures middlewares and all application routes under /api.
func Setup(app *fiber.App, d Deps) error {
	if !d.Cfg.IsDev() {
		if d.DB == nil {
			return fmt.Errorf("database is required when APP_ENV=%s", d.Cfg.AppEnv)
		}
		if d.Cache == nil {
			return fmt.Errorf("redis is required when APP_ENV=%s", d.Cfg.AppEnv)
		}
	}

	app.Use(recover.New())
	app.Use(middleware.RequestID())
	if d.Cfg.IsDev() {
		app.Use(logger.New(logger.Config{
			Format:     "[${time}] ${status} -  ${latency} ${method} ${path}\n",
			TimeFormat: "15:04:05",
			TimeZone:   "Local",
		}))
	}
	app.Use(middleware.Audit(d.Logger))
	if d.Cache != nil {
		app.Use(middleware.Idempotency(d.Cache, d.Cfg.IdempotencyTTL, d.Logger))
	}

	RegisterHealthRoutes(app, d)

	var (
		identityRepo identity.Repository
		accountRepo  accounts.Repository
		cardRepo     cards.Repository
		activityRepo activity.Repository
	)
	if d.DB != nil {
		identityRepo = identity.NewPostgresRepository(d.DB)
		accountRepo = accounts.NewPostgresRepository(d.DB)
		cardRepo = cards.NewPostgresRepository(d.DB)
		activityRepo = activity.NewPostgresRepository(d.DB)
	} else {
		identityRepo = identity.NewMemoryRepository()
		accountRepo = accounts.NewMemoryRepository()
		cardRepo = cards.NewMemoryRepository()
		activityRepo = activity.NewMemoryRepository()
	}

	identitySvc := identity.NewService(identityRepo)
	accountSvc := accounts.NewService(accountRepo)
	cardSvc := cards.NewService(cardRepo)
	activitySvc := activity.NewService(activityRepo)
	tokens := auth.NewTokens(d.Cfg.JWTSecret, d.Cfg.AccessTokenTTL)
	authSvc := auth.NewService(identitySvc, accountSvc, tokens, d.Logger)

	api := app.Group("/api")
	api.Get("/ping", func(c *fiber.Ctx) error {
		return c.Status(http.StatusOK).JSON(fiber.Map{
			"status":     "ok",
			"request_id": middleware.RequestIDFrom(c),
			"timestamp":  time.Now().UTC().Format(time.RFC3339Nano),
		})
	})

	RegisterAuthRoutes(api, auth.NewHandler(authSvc), middleware.LoginRateLimit(d.Cache, d.Cfg.LoginAttempts, d.Logger))

	jwt := middleware.JWTAuth(tokens, identityRepo)
	RegisterUserRoutes(api, identity.NewHandler(identitySvc), jwt)
	RegisterAccountRoutes(api, accounts.NewHandler(accountSvc), cards.NewHandler(cardSvc, accountSvc), jwt)
	RegisterActivityRoutes(api, activity.NewHandler(activitySvc, accountSvc), jwt)

	return nil
}
