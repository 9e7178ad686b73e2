package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "github.com/campusgig/server/docs"
	"github.com/campusgig/server/internal/config"
	"github.com/campusgig/server/internal/database"
	"github.com/campusgig/server/internal/handlers"
	"github.com/campusgig/server/internal/middleware"
	"github.com/campusgig/server/internal/telemetry"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/swagger"
	"github.com/joho/godotenv"
)

// @title CampusGig API
// @version 1.0.0
// @description Student gig marketplace API
// @host localhost:3000
// @BasePath /v1
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
func main() {
	// Load .env file
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	// Load configuration
	cfg := config.Load()

	// Initialize OpenTelemetry Tracer
	ctx := context.Background()
	tracerShutdown, err := telemetry.InitTracer(ctx, "campusgig-api", cfg.OTLPEndpoint)
	if err != nil {
		log.Printf("Failed to initialize tracer: %v", err)
	}
	defer func() {
		if err := tracerShutdown(ctx); err != nil {
			log.Printf("Error shutting down tracer: %v", err)
		}
	}()

	// Initialize OpenTelemetry Metrics
	meterShutdown, err := telemetry.InitMeter(ctx, "campusgig-api", cfg.OTLPEndpoint)
	if err != nil {
		log.Printf("Failed to initialize metrics: %v", err)
	}
	defer func() {
		if err := meterShutdown(ctx); err != nil {
			log.Printf("Error shutting down metrics: %v", err)
		}
	}()

	// Initialize database
	db, err := database.Connect(cfg)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	// Run migrations
	if err := database.Migrate(db); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}

	// Export connection pool stats alongside the query metrics
	go database.StartConnectionPoolMetricsCollector(ctx, db.DB, 15*time.Second)

	// Initialize Fiber app
	app := fiber.New(fiber.Config{
		AppName:      "CampusGig API",
		ErrorHandler: handlers.ErrorHandler,
	})

	// Middleware
	app.Use(recover.New())
	// JSON structured access logging
	app.Use(logger.New(logger.Config{
		Format:     `{"time":"${time}","status":${status},"latency":"${latency}","ip":"${ip}","method":"${method}","path":"${path}","user_agent":"${ua}","error":"${error}"}` + "\n",
		TimeFormat: "2006-01-02T15:04:05Z07:00",
		TimeZone:   "UTC",
	}))
	app.Use(telemetry.New(telemetry.Config{
		ServiceName: "campusgig-api",
	}))
	// Mobile clients call the API directly, so all origins are allowed
	app.Use(cors.New(cors.Config{
		AllowOrigins:     "*",
		AllowMethods:     "GET, POST, PUT, PATCH, DELETE, OPTIONS",
		AllowHeaders:     "Accept, Accept-Encoding, Authorization, Content-Type, DNT, Origin, User-Agent, X-Requested-With",
		AllowCredentials: false,
		ExposeHeaders:    "Content-Length, Content-Type",
		MaxAge:           86400,
	}))
	app.Use(middleware.PrometheusMiddleware())

	// Setup routes
	setupRoutes(app, db, cfg)

	// Start server
	port := cfg.ServerPort
	if port == "" {
		port = "3000"
	}

	// Graceful shutdown
	go func() {
		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
		<-sigCh

		log.Println("Shutting down server...")
		if err := app.Shutdown(); err != nil {
			log.Printf("Error shutting down server: %v", err)
		}
	}()

	log.Printf("Server starting on port %s", port)
	if err := app.Listen(":" + port); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}

func setupRoutes(app *fiber.App, db *database.DB, cfg *config.Config) {
	// Swagger UI
	app.Get("/v1/docs/*", swagger.HandlerDefault)

	// Prometheus scrape endpoint
	app.Get("/metrics", middleware.PrometheusHandler())

	// Health check endpoints for k8s probes
	app.Get("/healthz", handlers.HealthCheck)
	app.Get("/v1/healthz", handlers.HealthCheck)
	app.Get("/v1/health", handlers.HealthCheck)
	app.Get("/v1/readiness", handlers.ReadinessCheck(db))
	app.Get("/v1/liveness", handlers.LivenessCheck)

	// API v1 group
	v1 := app.Group("/v1")

	// Auth routes (no auth required)
	auth := v1.Group("/auth")
	handlers.SetupAuthRoutes(auth, db, cfg)

	// Users routes (auth required)
	users := v1.Group("/users", middleware.AuthRequired(cfg))
	handlers.SetupUserRoutes(users, db)

	// Gigs routes (browse is public, write operations enforce auth per route)
	gigs := v1.Group("/gigs")
	handlers.SetupGigRoutes(gigs, db, cfg)
	handlers.SetupGigApplicationRoutes(gigs, db, cfg)

	// Applications routes (auth required)
	applications := v1.Group("/applications", middleware.AuthRequired(cfg))
	handlers.SetupApplicationRoutes(applications, db, cfg)
}
