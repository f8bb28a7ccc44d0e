package api

import (
	"net/http"

	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/labourshub/marketplace/internal/api/handler"
	"github.com/labourshub/marketplace/internal/api/middleware"
	"github.com/labourshub/marketplace/internal/core/domain"
	"github.com/labourshub/marketplace/internal/core/service"
	"github.com/labourshub/marketplace/internal/infrastructure/config"
	mongorepo "github.com/labourshub/marketplace/internal/infrastructure/db/mongo"
	redisstore "github.com/labourshub/marketplace/internal/infrastructure/db/redis"
	"github.com/labourshub/marketplace/internal/infrastructure/realtime"
	"github.com/labourshub/marketplace/internal/infrastructure/upload"
)

// NewRouter builds and returns the Echo instance with all routes registered.
func NewRouter(cfg *config.Config, db *mongo.Database, rdb *redis.Client, uploads *upload.Store, log zerolog.Logger) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.Validator = handler.NewValidator()
	e.HTTPErrorHandler = NewHTTPErrorHandler(log)

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestID())
	e.Use(echomiddleware.Logger())
	e.Use(echomiddleware.CORSWithConfig(echomiddleware.CORSConfig{
		AllowOrigins:     []string{cfg.CORSOrigin},
		AllowMethods:     []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete},
		AllowCredentials: true,
	}))
	e.Use(echoprometheus.NewMiddleware("labourshub"))

	// --- Dependencies ---
	userRepo := mongorepo.NewUserRepository(db)
	jobRepo := mongorepo.NewJobRepository(db)
	contactRepo := mongorepo.NewContactRepository(db)
	sessions := redisstore.NewSessionStore(rdb)
	registry := realtime.NewRegistry(log)

	authService := service.NewAuthService(userRepo, sessions, cfg.SessionSecret, cfg.SessionTTL, log)
	userService := service.NewUserService(userRepo, log)
	jobService := service.NewJobService(jobRepo, userRepo, registry, log)
	contactService := service.NewContactService(contactRepo, log)

	authHandler := handler.NewAuthHandler(authService, sessions, uploads, cfg.SessionSecret, cfg.SessionTTL)
	profileHandler := handler.NewProfileHandler(userService, uploads)
	labourHandler := handler.NewLabourHandler(userService)
	jobHandler := handler.NewJobHandler(jobService)
	ratingHandler := handler.NewRatingHandler(userService)
	contactHandler := handler.NewContactHandler(contactService)
	wsHandler := handler.NewWSHandler(registry, cfg.CORSOrigin, log)

	sessionAuth := middleware.SessionAuth(cfg.SessionSecret, sessions)

	// --- Auth ---
	e.POST("/register", authHandler.Register)
	e.POST("/login", authHandler.Login)
	e.GET("/logout", authHandler.Logout, sessionAuth)
	e.GET("/api/me", authHandler.Me)

	// --- Profile & listings ---
	e.GET("/api/profile", profileHandler.Get, sessionAuth)
	e.PUT("/api/profile", profileHandler.Update, sessionAuth)
	e.GET("/api/labours", labourHandler.List, sessionAuth)

	// --- Jobs & ratings ---
	e.POST("/api/hire/:labourId", jobHandler.Hire, sessionAuth, middleware.RBAC(domain.RoleCustomer))
	e.GET("/api/jobs", jobHandler.List, sessionAuth, middleware.RBAC(domain.RoleLabour))
	e.PUT("/api/jobs/:id", jobHandler.UpdateStatus, sessionAuth, middleware.RBAC(domain.RoleLabour))
	e.POST("/api/rate/:labourId", ratingHandler.Rate, sessionAuth, middleware.RBAC(domain.RoleCustomer))

	// --- Contact ---
	e.POST("/api/contact", contactHandler.Submit)

	// --- Realtime ---
	e.GET("/ws", wsHandler.Serve, sessionAuth)

	// --- Uploaded files ---
	e.Static("/uploads", uploads.Dir())

	// --- Health probes (no auth required) ---
	healthHandler := handler.NewHealthHandler()
	healthDepsHandler := handler.NewHealthDependenciesHandler(db, rdb)

	e.GET("/health", healthHandler.Liveness)            // liveness  – is the process alive?
	e.GET("/health/ready", healthDepsHandler.Readiness) // readiness – are dependencies up?

	// --- Metrics ---
	e.GET("/metrics", echoprometheus.NewHandler())

	return e
}
