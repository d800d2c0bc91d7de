package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/sirupsen/logrus"

	"github.com/haulplan/eld-backend/internal/cache"
	"github.com/haulplan/eld-backend/internal/config"
	"github.com/haulplan/eld-backend/internal/database"
	"github.com/haulplan/eld-backend/internal/eld"
	"github.com/haulplan/eld-backend/internal/geocode"
	"github.com/haulplan/eld-backend/internal/handlers"
	"github.com/haulplan/eld-backend/internal/hos"
	"github.com/haulplan/eld-backend/internal/metrics"
	"github.com/haulplan/eld-backend/internal/middleware"
	"github.com/haulplan/eld-backend/internal/services"
	"github.com/haulplan/eld-backend/internal/utils"
	"github.com/haulplan/eld-backend/pkg/jwt"
	"github.com/haulplan/eld-backend/pkg/maps"
)

var (
	version   = "1.0.0"
	buildTime = "unknown"
)

func main() {
	// Initialize logger
	logger := logrus.New()
	logger.SetFormatter(&logrus.JSONFormatter{})
	logger.SetOutput(os.Stdout)

	logger.Info("Starting Haulplan ELD Trip Planner Backend")
	logger.Infof("Version: %s, Build Time: %s", version, buildTime)

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		logger.Fatalf("Failed to load configuration: %v", err)
	}

	// Set log level
	logLevel, err := logrus.ParseLevel(cfg.Server.LogLevel)
	if err != nil {
		logger.Warn("Invalid log level, using INFO")
		logLevel = logrus.InfoLevel
	}
	logger.SetLevel(logLevel)

	// Set Gin mode
	if cfg.Server.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	} else {
		gin.SetMode(gin.DebugMode)
	}

	// Initialize database connection
	logger.Info("Connecting to database...")
	db, err := database.NewConnection(cfg.Database)
	if err != nil {
		logger.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()
	logger.Info("Database connection established")

	if err := db.Ping(); err != nil {
		logger.Fatalf("Failed to ping database: %v", err)
	}

	if err := database.InitSchema(db); err != nil {
		logger.Fatalf("Failed to initialize database schema: %v", err)
	}
	logger.Info("Database schema ready")

	// Initialize geocode cache backend
	var geocodeCache cache.Cache
	switch cfg.Cache.Backend {
	case "redis":
		logger.Infof("Using Redis geocode cache at %s", cfg.Redis.Addr)
		redisCache, err := cache.NewRedis(cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB)
		if err != nil {
			logger.Fatalf("Failed to connect to Redis: %v", err)
		}
		geocodeCache = redisCache
	default:
		logger.Info("Using in-memory geocode cache")
		geocodeCache = cache.NewMemory()
	}
	defer geocodeCache.Close()

	// Initialize routing provider
	logger.Info("Initializing services...")

	var (
		tripRouter maps.Router
		resolver   hos.LocationResolver
	)
	if cfg.Maps.Provider == "azure" && cfg.Maps.APIKey != "" {
		logger.Info("Routing provider: Azure Maps")
		mapsClient := maps.NewClient(maps.Config{
			BaseURL: cfg.Maps.BaseURL,
			APIKey:  cfg.Maps.APIKey,
			Timeout: cfg.Maps.Timeout,
		}, logger)
		tripRouter = mapsClient
		resolver = geocode.NewResolver(mapsClient, geocodeCache, cfg.Cache.TTL, logger)
	} else {
		// No provider key: estimate routes, leave place names unresolved
		logger.Warn("Routing provider: haversine fallback (no Azure Maps key configured)")
		tripRouter = maps.FallbackRouter{}
	}

	jwtService := jwt.NewService(cfg.Auth.JWTSecret, cfg.Auth.TokenExpiry)

	tripRepository := database.NewTripRepository(db)
	simulator := hos.NewSimulator(resolver)
	tripService := services.NewTripService(
		tripRepository,
		tripRouter,
		simulator,
		eld.NewGenerator(),
		cfg.Maps.Provider,
		logger,
	)

	// Retention cleanup
	cleanupService := services.NewCleanupService(tripRepository, cfg.Cleanup.Schedule, cfg.Cleanup.RetentionDays, logger)
	if cfg.Cleanup.Enabled {
		if err := cleanupService.Start(); err != nil {
			logger.Fatalf("Failed to start cleanup service: %v", err)
		}
		logger.Info("✓ Cleanup service started - Trip retention purge enabled")
	} else {
		logger.Info("Cleanup service disabled")
	}

	logger.Info("Services initialized")

	// Register Prometheus collectors
	metrics.RegisterDefault()

	// Initialize handlers
	tripHandler := handlers.NewTripHandler(tripService, logger)
	hosHandler := handlers.NewHOSHandler(logger)
	authHandler := handlers.NewAuthHandler(jwtService, cfg.Auth.APIKeyHash, logger)

	// Initialize Gin router
	router := gin.New()

	// Middleware
	router.Use(gin.Recovery())
	router.Use(requestLogger(logger))
	router.Use(middleware.Metrics())

	// CORS configuration
	corsConfig := cors.Config{
		AllowOrigins:     cfg.CORS.AllowedOrigins,
		AllowMethods:     cfg.CORS.AllowedMethods,
		AllowHeaders:     cfg.CORS.AllowedHeaders,
		ExposeHeaders:    []string{"Content-Length", "Content-Disposition"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}
	router.Use(cors.New(corsConfig))

	// Rate limiting
	if cfg.RateLimit.Enabled {
		limiter := middleware.NewRateLimiter(cfg.RateLimit)
		limiter.StartCleanup()
		router.Use(middleware.RateLimit(limiter))
		logger.WithFields(logrus.Fields{
			"requests": cfg.RateLimit.Requests,
			"window_s": cfg.RateLimit.WindowSeconds,
			"burst":    cfg.RateLimit.Burst,
		}).Info("Rate limiting enabled")
	}

	// Health check and metrics endpoints
	router.GET("/health", healthCheckHandler(db))
	router.GET("/metrics", gin.WrapH(promhttp.HandlerFor(metrics.Registry, promhttp.HandlerOpts{})))

	// API v1 routes
	v1 := router.Group("/api/v1")
	{
		// Token exchange (public)
		auth := v1.Group("/auth")
		{
			auth.POST("/token", authHandler.IssueToken)
		}

		// Trip planning routes
		trips := v1.Group("/trips")
		if cfg.Auth.Enabled {
			trips.Use(middleware.AuthMiddleware(jwtService))
			trips.POST("/plan", middleware.RequireScope("trips:write"), tripHandler.PlanTrip)
			trips.GET("", middleware.RequireScope("trips:read"), tripHandler.ListTrips)
			trips.GET("/:id", middleware.RequireScope("trips:read"), tripHandler.GetTrip)
			trips.GET("/:id/eld-pdf", middleware.RequireScope("trips:read"), tripHandler.GetELDLogs)
			trips.DELETE("/:id", middleware.RequireScope("trips:admin"), tripHandler.DeleteTrip)
		} else {
			trips.POST("/plan", tripHandler.PlanTrip)
			trips.GET("", tripHandler.ListTrips)
			trips.GET("/:id", tripHandler.GetTrip)
			trips.GET("/:id/eld-pdf", tripHandler.GetELDLogs)
			trips.DELETE("/:id", tripHandler.DeleteTrip)
		}

		// Hours-of-service calculations
		hosRoutes := v1.Group("/hos")
		if cfg.Auth.Enabled {
			hosRoutes.Use(middleware.AuthMiddleware(jwtService))
			hosRoutes.POST("/rolling-hours", middleware.RequireScope("trips:read"), hosHandler.RollingHours)
		} else {
			hosRoutes.POST("/rolling-hours", hosHandler.RollingHours)
		}
	}

	if cfg.Auth.Enabled {
		logger.Info("API authentication enabled")
	} else {
		logger.Warn("API authentication disabled - all endpoints are open")
	}

	// Create HTTP server
	srv := &http.Server{
		Addr:         fmt.Sprintf(":%s", cfg.Server.Port),
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start server in a goroutine
	go func() {
		logger.Infof("Server starting on port %s", cfg.Server.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatalf("Failed to start server: %v", err)
		}
	}()

	// Wait for interrupt signal to gracefully shutdown the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down server...")

	if cfg.Cleanup.Enabled {
		logger.Info("Stopping cleanup service...")
		cleanupService.Stop()
	}

	// Graceful shutdown with timeout
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Errorf("Server forced to shutdown: %v", err)
	}

	logger.Info("Server exited successfully")
}

// requestLogger middleware for logging HTTP requests
func requestLogger(logger *logrus.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		path := c.Request.URL.Path
		query := c.Request.URL.RawQuery

		c.Next()

		latency := time.Since(start)
		agent := utils.ParseClientAgent(utils.GetUserAgent(c))

		fields := logrus.Fields{
			"status":      c.Writer.Status(),
			"method":      c.Request.Method,
			"path":        path,
			"query":       query,
			"ip":          utils.GetRealIP(c),
			"latency_ms":  latency.Milliseconds(),
			"client_kind": agent.Kind,
			"client_os":   agent.OS,
		}

		// Record auth presence, never the token itself
		fields["has_auth"] = c.GetHeader("Authorization") != ""

		if clientCtx, exists := middleware.GetClientContext(c); exists {
			fields["client_id"] = clientCtx.ClientID
		}

		entry := logger.WithFields(fields)

		if len(c.Errors) > 0 {
			for i, err := range c.Errors {
				entry = entry.WithField(fmt.Sprintf("error_%d", i), err.Error())
			}
			entry.Error("Request failed with errors")
		} else {
			status := c.Writer.Status()
			if status >= 500 {
				entry.Error("Request completed with server error")
			} else if status >= 400 {
				entry.Warn("Request completed with client error")
			} else {
				entry.Info("Request completed successfully")
			}
		}
	}
}

// healthCheckHandler returns a health check endpoint
func healthCheckHandler(db database.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		dbStatus := "healthy"
		if err := db.Ping(); err != nil {
			dbStatus = "unhealthy"
			c.JSON(http.StatusServiceUnavailable, gin.H{
				"status":   "unhealthy",
				"database": dbStatus,
				"error":    err.Error(),
			})
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"status":    "healthy",
			"database":  dbStatus,
			"version":   version,
			"timestamp": time.Now().Unix(),
		})
	}
}
