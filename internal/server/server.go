// Package server contains the HTTP handlers for the application's API endpoints.
package server

import (
	"context"
	"fmt"
	"log"
	"time"

	"campwild/internal/cache"
	"campwild/internal/config"
	"campwild/internal/database"
	"campwild/internal/middleware"
	"campwild/internal/models"
	"campwild/internal/repository"
	"campwild/internal/service"
	"campwild/internal/session"
	"campwild/internal/storage"

	"github.com/ansrivas/fiberprometheus/v2"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/helmet"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"github.com/gofiber/fiber/v2/middleware/monitor"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

// Server holds all dependencies and provides handlers
type Server struct {
	config         *config.Config
	db             *gorm.DB
	redis          *redis.Client
	app            *fiber.App
	promMiddleware *fiberprometheus.FiberPrometheus
	sessions       *session.Store
	images         *storage.DiskStore

	userRepo       repository.UserRepository
	campgroundRepo repository.CampgroundRepository
	reviewRepo     repository.ReviewRepository

	campgroundService *service.CampgroundService
	reviewService     *service.ReviewService
	userService       *service.UserService
}

// NewServer creates a new server instance with all dependencies
func NewServer(cfg *config.Config) (*Server, error) {
	// Initialize database
	db, err := database.Connect(cfg)
	if err != nil {
		return nil, fmt.Errorf("database connection failed: %w", err)
	}

	// Initialize Redis
	cache.InitRedis(cfg.RedisURL)
	redisClient := cache.GetClient()

	return NewServerWithDeps(cfg, db, redisClient)
}

// NewServerWithDeps creates a Server using already-initialized dependencies.
// Use this in tests or when a bootstrap layer establishes DB/Redis.
func NewServerWithDeps(cfg *config.Config, db *gorm.DB, redisClient *redis.Client) (*Server, error) {
	userRepo := repository.NewUserRepository(db)
	campgroundRepo := repository.NewCampgroundRepository(db)
	reviewRepo := repository.NewReviewRepository(db)

	images := storage.NewDiskStore(cfg.UploadDir, cfg.ImageMaxUploadSizeMB)

	// Initialize Prometheus metrics
	prom := middleware.InitMetrics("campwild-api")

	isProduction := cfg.Env == "production" || cfg.Env == "prod"
	sessions := session.New(session.Config{
		Redis:  redisClient,
		Secure: isProduction,
	})

	server := &Server{
		config:         cfg,
		db:             db,
		redis:          redisClient,
		promMiddleware: prom,
		sessions:       sessions,
		images:         images,
		userRepo:       userRepo,
		campgroundRepo: campgroundRepo,
		reviewRepo:     reviewRepo,
	}
	server.campgroundService = service.NewCampgroundService(campgroundRepo, reviewRepo, images)
	server.reviewService = service.NewReviewService(reviewRepo, campgroundRepo)
	server.userService = service.NewUserService(userRepo, campgroundRepo, reviewRepo, images)

	return server, nil
}

// SetupMiddleware configures middleware for the Fiber app
func (s *Server) SetupMiddleware(app *fiber.App) {
	// Panic recovery
	app.Use(recover.New())

	// Request ID for tracing
	app.Use(requestid.New())

	// Context Middleware to propagate Request ID and User ID
	app.Use(middleware.ContextMiddleware())

	// OpenTelemetry spans (after requestid so the span can carry it)
	if s.config.TracingEnabled {
		app.Use(middleware.TracingMiddleware())
	}

	// Prometheus Metrics
	if s.promMiddleware != nil {
		app.Use(middleware.MetricsMiddleware(s.promMiddleware))
	}

	// Security headers
	app.Use(helmet.New())

	// Structured Logging middleware (after requestid and context middleware)
	app.Use(middleware.StructuredLogger())

	// CORS middleware should run before middlewares that can short-circuit (e.g. limiter)
	// so browser clients still receive CORS headers on error responses.
	origins := s.config.AllowedOrigins
	if origins == "" {
		origins = "http://localhost:5173,http://localhost:3000,http://127.0.0.1:5173"
	}

	app.Use(cors.New(cors.Config{
		AllowOrigins:     origins,
		AllowHeaders:     "Origin, Content-Type, Accept, Authorization",
		AllowCredentials: true,
		MaxAge:           86400, // 24 hours
	}))

	// Global rate limiting (100 requests per minute per IP)
	app.Use(limiter.New(limiter.Config{
		Max:        100,
		Expiration: 1 * time.Minute,
		// Never rate-limit preflight requests; they should be handled by CORS.
		Next: func(c *fiber.Ctx) bool {
			return c.Method() == fiber.MethodOptions
		},
		KeyGenerator: func(c *fiber.Ctx) string {
			return c.IP()
		},
		LimitReached: func(c *fiber.Ctx) error {
			return c.Status(fiber.StatusTooManyRequests).JSON(fiber.Map{
				"error": "Too many requests, please try again later.",
			})
		},
	}))
}

// SetupRoutes configures all routes for the application
func (s *Server) SetupRoutes(app *fiber.App) {
	api := app.Group("/api")

	// Health checks
	app.Get("/health/live", s.LivenessCheck)
	app.Get("/health/ready", s.ReadinessCheck)
	app.Get("/health", s.ReadinessCheck)

	// Metrics endpoint for Prometheus
	if s.promMiddleware != nil {
		s.promMiddleware.RegisterAt(app, "/metrics")
	}
	api.Get("/metrics/dashboard", monitor.New(monitor.Config{
		Title: "Campwild Metrics Dashboard",
	}))

	// Stored images, including the w_200 thumbnail renditions
	app.Get("/upload/*", s.ServeImage)

	// Auth routes
	auth := api.Group("/auth")
	auth.Post("/register", middleware.RateLimit(
		s.redis, 3, 10*time.Minute, "register"), s.Register)
	auth.Post("/login", middleware.RateLimit(
		s.redis, 10, 5*time.Minute, "login"), s.Login)
	auth.Post("/logout", s.Logout)

	// Public campground routes (browse/search)
	campgrounds := api.Group("/campgrounds")
	campgrounds.Get("/", s.ListCampgrounds)
	campgrounds.Get("/search", middleware.RateLimit(
		s.redis, 10, time.Minute, "search"), s.SearchCampgrounds)
	campgrounds.Get("/:id/reviews", s.ListReviews)
	campgrounds.Get("/:id", s.GetCampground)

	// Protected routes
	protected := api.Group("", s.RequireLogin())

	// Campground mutations
	protectedCampgrounds := protected.Group("/campgrounds")
	protectedCampgrounds.Post("/", middleware.RateLimit(
		s.redis, 5, 5*time.Minute, "create_campground"), s.CreateCampground)
	protectedCampgrounds.Put("/:id", s.UpdateCampground)
	protectedCampgrounds.Delete("/:id", s.DeleteCampground)

	// Review mutations
	protectedCampgrounds.Post("/:id/reviews", middleware.RateLimit(
		s.redis, 10, time.Minute, "create_review"), s.CreateReview)
	protectedCampgrounds.Delete("/:id/reviews/:reviewId", s.DeleteReview)

	// User routes
	users := protected.Group("/users")
	users.Get("/me", s.GetMyProfile)
	users.Put("/me/bio", s.UpdateMyBio)
	users.Delete("/me", s.DeleteMyAccount)
}

// LivenessCheck handles liveness probe requests
func (s *Server) LivenessCheck(c *fiber.Ctx) error {
	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"status": "up",
		"time":   time.Now(),
	})
}

// ReadinessCheck handles readiness probe requests
func (s *Server) ReadinessCheck(c *fiber.Ctx) error {
	ctx, cancel := context.WithTimeout(c.Context(), 5*time.Second)
	defer cancel()

	dbStatus := "healthy"
	sqlDB, err := s.db.DB()
	if err != nil {
		dbStatus = "unhealthy"
	} else if err := sqlDB.PingContext(ctx); err != nil {
		dbStatus = "unhealthy"
	}

	redisStatus := "healthy"
	if s.redis != nil {
		if err := s.redis.Ping(ctx).Err(); err != nil {
			redisStatus = "unhealthy"
		}
	} else {
		// Sessions fall back to memory without Redis, so it degrades rather
		// than fails readiness.
		redisStatus = "unavailable"
	}

	status := fiber.StatusOK
	overallStatus := "healthy"
	if dbStatus == "unhealthy" {
		status = fiber.StatusServiceUnavailable
		overallStatus = "unhealthy"
	}

	return c.Status(status).JSON(fiber.Map{
		"status": overallStatus,
		"checks": fiber.Map{
			"database": dbStatus,
			"redis":    redisStatus,
		},
		"time": time.Now(),
	})
}

// RequireLogin returns middleware that enforces authentication. Browser
// clients authenticate via the session cookie; API clients may use a bearer
// token instead. Anonymous requests are remembered and redirected to login.
func (s *Server) RequireLogin() fiber.Handler {
	return func(c *fiber.Ctx) error {
		if userID := s.sessions.UserID(c); userID != 0 {
			s.setUserID(c, userID)
			return c.Next()
		}

		if token := middleware.BearerToken(c); token != "" {
			userID, err := middleware.UserIDFromToken(token)
			if err != nil {
				return models.RespondWithError(c, fiber.StatusUnauthorized,
					models.NewUnauthorizedError("Invalid or expired token"))
			}
			s.setUserID(c, userID)
			return c.Next()
		}

		s.sessions.SetReturnTo(c, c.OriginalURL())
		s.sessions.AddError(c, "You must be signed in first!")
		return c.Redirect("/login", fiber.StatusSeeOther)
	}
}

// setUserID stores the authenticated user in Fiber locals and the request
// context so logging and services can pick it up.
func (s *Server) setUserID(c *fiber.Ctx, userID uint) {
	c.Locals("userID", userID)
	ctx := context.WithValue(c.UserContext(), middleware.UserIDKey, userID)
	c.SetUserContext(ctx)
}

// Start starts the server
func (s *Server) Start() error {
	app := fiber.New(fiber.Config{
		AppName: "Campwild API",
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			log.Printf("Error: %v", err)
			return models.RespondWithError(c, fiber.StatusInternalServerError,
				models.NewInternalError(err))
		},
	})
	s.app = app

	s.SetupMiddleware(app)
	s.SetupRoutes(app)

	log.Printf("Server starting on port %s...", s.config.Port)
	return app.Listen(":" + s.config.Port)
}

// Shutdown gracefully shuts down the server
func (s *Server) Shutdown(ctx context.Context) error {
	if s.app != nil {
		if err := s.app.ShutdownWithContext(ctx); err != nil {
			log.Printf("error shutting down HTTP server: %v", err)
		}
	}

	if sqlDB, err := s.db.DB(); err == nil {
		if cerr := sqlDB.Close(); cerr != nil {
			log.Printf("error closing sql DB: %v", cerr)
		}
	}

	if s.redis != nil {
		if rerr := s.redis.Close(); rerr != nil {
			log.Printf("error closing redis: %v", rerr)
		}
	}

	log.Println("Server shutdown complete")
	return nil
}
