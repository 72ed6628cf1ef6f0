package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/pennywise/pennywise-backend/internal/config"
	"github.com/pennywise/pennywise-backend/internal/handler"
	"github.com/pennywise/pennywise-backend/internal/metrics"
	"github.com/pennywise/pennywise-backend/internal/middleware"
	"github.com/pennywise/pennywise-backend/internal/repository/cache"
	"github.com/pennywise/pennywise-backend/internal/repository/postgres"
	"github.com/pennywise/pennywise-backend/internal/repository/storage"
	"github.com/pennywise/pennywise-backend/internal/service"
	"github.com/pennywise/pennywise-backend/internal/websocket"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

func main() {
	// Initialize zerolog
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	if os.Getenv("ENV") != "production" {
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load configuration")
	}

	ctx := context.Background()

	if cfg.RunMigrations {
		if err := postgres.RunMigrations(cfg.DatabaseURL); err != nil {
			log.Fatal().Err(err).Msg("Failed to run migrations")
		}
	}

	pool, err := pgxpool.New(ctx, cfg.DatabaseURL)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to database")
	}
	defer pool.Close()

	if err := pool.Ping(ctx); err != nil {
		log.Fatal().Err(err).Msg("Failed to ping database")
	}
	log.Info().Msg("Connected to database")

	registry := metrics.New()

	// Initialize repositories
	userRepo := postgres.NewUserRepository(pool)
	accountRepo := postgres.NewAccountRepository(pool)
	transactionRepo := postgres.NewTransactionRepository(pool)
	budgetRepo := postgres.NewBudgetRepository(pool)
	savingLogRepo := postgres.NewSavingLogRepository(pool)
	saveGoalRepo := postgres.NewSaveGoalRepository(pool)
	apiTokenRepo := postgres.NewAPITokenRepository(pool)

	var reportCache service.ReportCache = service.NoOpReportCache{}
	if cfg.RedisURL != "" {
		redisClient, err := cache.NewRedisClient(ctx, cfg.RedisURL)
		if err != nil {
			log.Fatal().Err(err).Msg("Failed to connect to redis")
		}
		defer redisClient.Close()
		reportCache = cache.NewRedisReportCache(redisClient, cfg.ReportCacheTTL)
		log.Info().Dur("ttl", cfg.ReportCacheTTL).Msg("Report cache enabled")
	}

	// Live updates: every mutation is counted and pushed to the user's sockets
	hub := websocket.NewHub()
	notifier := service.NewChangeNotifier(reportCache)
	notifier.SetEventPublisher(websocket.NewCountingPublisher(hub, registry))

	clock := service.Clock(service.SystemClock)

	// Initialize services
	authService := service.NewAuthService(userRepo, accountRepo)
	apiTokenService := service.NewAPITokenService(apiTokenRepo, clock)
	accountService := service.NewAccountService(accountRepo, transactionRepo, notifier, clock)
	expenseService := service.NewExpenseService(accountRepo, transactionRepo, notifier, clock)
	budgetService := service.NewBudgetService(budgetRepo, transactionRepo, notifier, clock)
	savingService := service.NewSavingService(accountRepo, savingLogRepo, notifier, clock)
	saveGoalService := service.NewSaveGoalService(saveGoalRepo, notifier)

	reportService := service.NewReportService(transactionRepo, budgetRepo, savingLogRepo, clock)
	reportService.SetCache(reportCache)
	reportService.SetRecorder(registry)
	if cfg.S3.Enabled() {
		store, err := storage.NewS3ReportStore(ctx, cfg.S3)
		if err != nil {
			log.Fatal().Err(err).Msg("Failed to initialize report storage")
		}
		reportService.SetReportStore(store)
		log.Info().Str("bucket", cfg.S3.Bucket).Msg("Report archiving enabled")
	}

	dashboardService := service.NewDashboardService(accountRepo, transactionRepo, budgetRepo, saveGoalRepo, clock)
	dashboardService.SetRecorder(registry)

	// Authentication: Auth0 sessions when configured, API tokens always
	var jwtAuth *middleware.AuthMiddleware
	if cfg.Auth0Enabled() {
		jwtAuth, err = middleware.NewAuthMiddleware(cfg.Auth0Domain, cfg.Auth0Audience, authService)
		if err != nil {
			log.Fatal().Err(err).Msg("Failed to create auth middleware")
		}
	} else {
		log.Warn().Msg("AUTH0_DOMAIN not set: only API tokens can authenticate")
	}
	dualAuth := middleware.NewDualAuthMiddleware(jwtAuth, middleware.NewAPITokenAuthMiddleware(apiTokenService))

	rateLimiter := middleware.NewRateLimiterWithConfig(cfg.APIRateLimit, cfg.APIRateBurst)
	defer rateLimiter.Stop()

	handlers := handler.Handlers{
		Auth:      handler.NewAuthHandler(authService),
		APIToken:  handler.NewAPITokenHandler(apiTokenService),
		Account:   handler.NewAccountHandler(accountService),
		Expense:   handler.NewExpenseHandler(expenseService),
		Budget:    handler.NewBudgetHandler(budgetService),
		Saving:    handler.NewSavingHandler(savingService),
		SaveGoal:  handler.NewSaveGoalHandler(saveGoalService),
		Report:    handler.NewReportHandler(reportService),
		Dashboard: handler.NewDashboardHandler(dashboardService),
	}

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	e.Use(echomiddleware.RequestID())

	e.Use(echomiddleware.CORSWithConfig(echomiddleware.CORSConfig{
		AllowOrigins:     cfg.CORSOrigins,
		AllowMethods:     []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodPatch, http.MethodDelete, http.MethodOptions},
		AllowHeaders:     []string{echo.HeaderOrigin, echo.HeaderContentType, echo.HeaderAccept, echo.HeaderAuthorization},
		ExposeHeaders:    []string{echo.HeaderContentDisposition, "X-RateLimit-Limit", "X-RateLimit-Remaining", "X-RateLimit-Reset", "Retry-After"},
		AllowCredentials: true,
		MaxAge:           86400,
	}))

	// Security headers middleware (helmet-like)
	e.Use(echomiddleware.SecureWithConfig(echomiddleware.SecureConfig{
		XSSProtection:         "1; mode=block",
		ContentTypeNosniff:    "nosniff",
		XFrameOptions:         "DENY",
		HSTSMaxAge:            31536000,
		ContentSecurityPolicy: "default-src 'self'",
		ReferrerPolicy:        "strict-origin-when-cross-origin",
	}))

	e.Use(zerologMiddleware())
	e.Use(middleware.RequestMetrics(registry))
	e.Use(echomiddleware.Recover())

	e.GET("/health", func(c echo.Context) error {
		if err := pool.Ping(c.Request().Context()); err != nil {
			return c.JSON(http.StatusServiceUnavailable, map[string]string{"status": "database unavailable"})
		}
		return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
	})
	e.GET("/metrics", echo.WrapHandler(registry.Handler()))

	e.GET("/ws", handler.NewWebSocketHandler(hub, dualAuth, cfg.CORSOrigins).HandleWS)

	handler.RegisterRoutes(e, dualAuth, middleware.RateLimitMiddleware(rateLimiter), handlers)

	go func() {
		log.Info().Str("port", cfg.Port).Msg("Starting server")
		if err := e.Start(":" + cfg.Port); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("Server failed")
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	hub.Shutdown()
	if err := e.Shutdown(shutdownCtx); err != nil {
		log.Fatal().Err(err).Msg("Server forced to shutdown")
	}

	log.Info().Msg("Server exited")
}

// zerologMiddleware returns a middleware that logs requests using zerolog
func zerologMiddleware() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			start := time.Now()

			err := next(c)
			if err != nil {
				c.Error(err)
			}

			req := c.Request()
			res := c.Response()

			event := log.Info()
			if res.Status >= http.StatusInternalServerError {
				event = log.Error()
			}
			event.
				Str("method", req.Method).
				Str("path", req.URL.Path).
				Int("status", res.Status).
				Dur("latency", time.Since(start)).
				Str("request_id", res.Header().Get(echo.HeaderXRequestID)).
				Bool("api_token", middleware.IsAPITokenAuth(c)).
				Msg("request")

			return nil
		}
	}
}
