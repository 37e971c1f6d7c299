package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/flickmobile/navigation-backend/internal/cache"
	"github.com/flickmobile/navigation-backend/internal/config"
	"github.com/flickmobile/navigation-backend/internal/database"
	"github.com/flickmobile/navigation-backend/internal/handlers"
	"github.com/flickmobile/navigation-backend/internal/middleware"
	"github.com/flickmobile/navigation-backend/internal/services"
	"github.com/flickmobile/navigation-backend/internal/utils"
	"github.com/flickmobile/navigation-backend/pkg/jwt"
	"github.com/flickmobile/navigation-backend/pkg/routing"
	"github.com/flickmobile/navigation-backend/pkg/speech"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

func main() {
	// Step 1: initialize logger
	logger := logrus.New()
	logger.SetFormatter(&logrus.JSONFormatter{})

	// Step 2: load configuration
	cfg, err := config.Load()
	if err != nil {
		logger.WithError(err).Fatal("Failed to load configuration")
	}

	level, err := logrus.ParseLevel(cfg.Server.LogLevel)
	if err != nil {
		level = logrus.InfoLevel
	}
	logger.SetLevel(level)

	if cfg.Server.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	// Step 3: connect to database
	db, err := database.NewConnection(cfg.Database)
	if err != nil {
		logger.WithError(err).Fatal("Failed to connect to database")
	}
	defer db.Close()
	logger.Info("Database connection established")

	// Step 4: optional Redis geocode cache
	var geocodeCache *cache.GeocodeCache
	if cfg.Redis.Enabled {
		geocodeCache, err = cache.NewGeocodeCache(cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB, cfg.Geocoding.CacheTTL, logger)
		if err != nil {
			logger.WithError(err).Warn("Redis unavailable, continuing without geocode cache")
			geocodeCache = nil
		} else {
			defer geocodeCache.Close()
			logger.Info("Redis geocode cache connected")
		}
	}

	// Step 5: routing provider
	var provider routing.Provider
	switch cfg.Routing.Provider {
	case "google":
		provider, err = routing.NewGoogleProvider(cfg.Routing.GoogleAPIKey)
		if err != nil {
			logger.WithError(err).Fatal("Failed to create Google routing provider")
		}
	default:
		provider = routing.NewOSRMProvider(cfg.Routing.OSRMBaseURL, cfg.Routing.RequestTimeout)
	}
	logger.WithField("provider", provider.Name()).Info("Routing provider configured")

	// Step 6: speech announcer
	var announcer speech.Announcer
	if cfg.Speech.Enabled {
		announcer = speech.NewQueueAnnouncer(cfg.SpeechQueuePath(), cfg.Speech.MaxEntries, logger)
		logger.WithField("queue", cfg.SpeechQueuePath()).Info("Speech queue enabled")
	} else {
		announcer = speech.NewNoopAnnouncer()
	}

	// Step 7: repositories
	deviceRepo := database.NewDeviceRepository(db)
	tokenRepo := database.NewRefreshTokenRepository(db)
	favoriteRepo := database.NewFavoriteRepository(db)
	historyRepo := database.NewSearchHistoryRepository(db)
	tripRepo := database.NewTripLogRepository(db)

	// Step 8: services
	jwtService := jwt.NewService(
		cfg.JWT.Secret,
		cfg.JWT.RefreshSecret,
		cfg.JWT.AccessTokenExpiry,
		cfg.JWT.RefreshTokenExpiry,
	)

	rateLimitSvc := services.NewRateLimitService(db, cfg.RateLimit.SearchRequests, cfg.RateLimit.Window)

	geocodeSvc := services.NewGeocodeService(
		cfg.Geocoding.BaseURL,
		cfg.Geocoding.UserAgent,
		cfg.Geocoding.MinInterval,
		geocodeCache,
		rateLimitSvc,
		historyRepo,
		logger,
	)

	navigationSvc := services.NewNavigationService(
		provider,
		announcer,
		tripRepo,
		deviceRepo,
		logger,
		cfg.Guidance.StepAdvanceRadiusM,
		cfg.Routing.RequestTimeout,
		cfg.Routing.Profile,
	)

	cronSvc := services.NewCronService(
		navigationSvc,
		rateLimitSvc,
		historyRepo,
		tripRepo,
		tokenRepo,
		logger,
		cfg.Sessions.StaleAfter,
		cfg.Retention.SearchHistoryDays,
		cfg.Retention.TripLogDays,
	)
	if err := cronSvc.Start(); err != nil {
		logger.WithError(err).Fatal("Failed to start cron service")
	}
	defer cronSvc.Stop()

	// Step 9: handlers
	authHandler, err := handlers.NewAuthHandler(deviceRepo, tokenRepo, jwtService, logger, cfg.Pairing.Code, cfg.Guidance.VoiceDefault)
	if err != nil {
		logger.WithError(err).Fatal("Failed to create auth handler")
	}
	navigationHandler := handlers.NewNavigationHandler(navigationSvc, logger)
	routeHandler := handlers.NewRouteHandler(provider, logger, cfg.Routing.RequestTimeout, cfg.Routing.Profile)
	placeHandler := handlers.NewPlaceHandler(geocodeSvc, favoriteRepo, historyRepo, logger)
	tripHandler := handlers.NewTripHandler(tripRepo, logger)

	// Step 10: router
	router := setupRouter(cfg, logger, db, geocodeCache, navigationSvc, jwtService,
		authHandler, navigationHandler, routeHandler, placeHandler, tripHandler, cronSvc)

	// Step 11: HTTP server with graceful shutdown
	srv := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		logger.WithFields(logrus.Fields{
			"port":        cfg.Server.Port,
			"environment": cfg.Server.Environment,
		}).Info("Navigation backend started")

		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.WithError(err).Fatal("Failed to start server")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.WithError(err).Fatal("Server forced to shutdown")
	}

	logger.Info("Server exited")
}

// setupRouter wires middleware and routes
func setupRouter(
	cfg *config.Config,
	logger *logrus.Logger,
	db database.DB,
	geocodeCache *cache.GeocodeCache,
	navigationSvc *services.NavigationService,
	jwtService *jwt.Service,
	authHandler *handlers.AuthHandler,
	navigationHandler *handlers.NavigationHandler,
	routeHandler *handlers.RouteHandler,
	placeHandler *handlers.PlaceHandler,
	tripHandler *handlers.TripHandler,
	cronSvc *services.CronService,
) *gin.Engine {
	router := gin.New()

	router.Use(gin.Recovery())
	router.Use(requestLogger(logger))

	router.Use(cors.New(cors.Config{
		AllowOrigins:     cfg.CORS.AllowedOrigins,
		AllowMethods:     cfg.CORS.AllowedMethods,
		AllowHeaders:     cfg.CORS.AllowedHeaders,
		AllowCredentials: false,
		MaxAge:           12 * time.Hour,
	}))

	router.GET("/health", healthCheckHandler(db, geocodeCache, navigationSvc))

	v1 := router.Group("/api/v1")

	// Public pairing endpoints
	auth := v1.Group("/auth")
	{
		auth.POST("/pair", authHandler.Pair)
		auth.POST("/refresh-token", authHandler.RefreshToken)
	}

	// Authenticated device endpoints
	protected := v1.Group("")
	protected.Use(middleware.AuthMiddleware(jwtService))
	{
		protected.POST("/auth/logout", authHandler.Logout)

		navigation := protected.Group("/navigation")
		{
			navigation.POST("/start", navigationHandler.Start)
			navigation.POST("/position", navigationHandler.Position)
			navigation.GET("/state", navigationHandler.State)
			navigation.POST("/stop", navigationHandler.Stop)
			navigation.PUT("/voice", navigationHandler.Voice)
		}

		routes := protected.Group("/routes")
		{
			routes.GET("/preview", routeHandler.Preview)
		}

		places := protected.Group("/places")
		{
			places.GET("/search", placeHandler.Search)
			places.GET("/favorites", placeHandler.ListFavorites)
			places.POST("/favorites", placeHandler.CreateFavorite)
			places.PUT("/favorites/:id", placeHandler.UpdateFavorite)
			places.DELETE("/favorites/:id", placeHandler.DeleteFavorite)
			places.GET("/history", placeHandler.History)
			places.DELETE("/history", placeHandler.ClearHistory)
		}

		trips := protected.Group("/trips")
		{
			trips.GET("", tripHandler.List)
			trips.GET("/stats", tripHandler.Stats)
		}
	}

	// Admin endpoints: localhost only, for operator tooling on the device
	admin := v1.Group("/admin")
	admin.Use(localhostOnly())
	{
		admin.GET("/devices", authHandler.ListDevices)
		admin.DELETE("/devices/:id", authHandler.RevokeDevice)

		admin.GET("/jobs", func(c *gin.Context) {
			c.JSON(http.StatusOK, cronSvc.GetJobStatus())
		})
		admin.POST("/jobs/run-sweep", func(c *gin.Context) {
			cronSvc.RunSweepNow()
			c.JSON(http.StatusOK, gin.H{"message": "Session sweep triggered"})
		})
		admin.POST("/jobs/run-cleanup", func(c *gin.Context) {
			cronSvc.RunCleanupNow()
			c.JSON(http.StatusOK, gin.H{"message": "Cleanup triggered"})
		})
	}

	return router
}

// localhostOnly restricts a route group to loopback clients
func localhostOnly() gin.HandlerFunc {
	return func(c *gin.Context) {
		if !utils.IsLocalhost(c.ClientIP()) {
			c.JSON(http.StatusForbidden, gin.H{
				"error":   "forbidden",
				"message": "Admin endpoints are only accessible from localhost",
				"code":    "LOCALHOST_ONLY",
			})
			c.Abort()
			return
		}
		c.Next()
	}
}

// requestLogger logs each request with method, path, status, and latency
func requestLogger(logger *logrus.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		path := c.Request.URL.Path

		c.Next()

		logger.WithFields(logrus.Fields{
			"method":     c.Request.Method,
			"path":       path,
			"status":     c.Writer.Status(),
			"latency_ms": time.Since(start).Milliseconds(),
			"client_ip":  utils.GetRealIP(c),
		}).Info("Request processed")
	}
}

// healthCheckHandler reports service health including dependencies
func healthCheckHandler(db database.DB, geocodeCache *cache.GeocodeCache, navigationSvc *services.NavigationService) gin.HandlerFunc {
	return func(c *gin.Context) {
		health := gin.H{
			"status":          "healthy",
			"timestamp":       time.Now().UTC(),
			"provider":        navigationSvc.ProviderName(),
			"active_sessions": navigationSvc.ActiveSessionCount(),
		}

		status := http.StatusOK

		if err := db.Ping(); err != nil {
			health["status"] = "unhealthy"
			health["database"] = "unreachable"
			status = http.StatusServiceUnavailable
		} else {
			health["database"] = "ok"
		}

		if geocodeCache != nil {
			ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
			defer cancel()
			if err := geocodeCache.Ping(ctx); err != nil {
				health["cache"] = "unreachable"
			} else {
				health["cache"] = "ok"
			}
		} else {
			health["cache"] = "disabled"
		}

		c.JSON(status, health)
	}
}
