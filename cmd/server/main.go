package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"receivables_monitor/internal/config"
	"receivables_monitor/internal/handler"
	"receivables_monitor/internal/logger"
	"receivables_monitor/internal/middleware"
	"receivables_monitor/internal/repository"
	"receivables_monitor/internal/service"
	"receivables_monitor/internal/utils"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
)

func main() {
	log := logger.NewWithWriter(os.Stdout)

	// Load .env file
	if err := godotenv.Load(); err != nil {
		log.Info().Msg("No .env file found, relying on environment variables")
	}

	// --- Configuration ---
	cfg, err := config.LoadAppConfig()
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load app config")
	}
	log = logger.WithLevel(log, cfg.LogLevel)

	dbCfg, err := config.LoadDBConfig()
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load DB config")
	}

	rules, err := config.LoadRules(cfg.RulesFile)
	if err != nil {
		log.Fatal().Err(err).Str("path", cfg.RulesFile).Msg("Failed to load classification rules")
	}

	// --- Database Connection ---
	ctx := context.Background()
	dbPool, err := config.ConnectDB(ctx, dbCfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to database")
	}
	defer dbPool.Close()

	// --- Auto Migration ---
	if err := config.AutoMigrate(ctx, dbPool, log); err != nil {
		log.Fatal().Err(err).Msg("Failed to auto-migrate database")
	}

	// --- Initialize Utilities ---
	jwtUtil := utils.NewJWTUtil(cfg.JWTSecret, cfg.JWTExpirationHours)

	// --- Initialize Repositories ---
	analystRepo := repository.NewAnalystRepository(dbPool)
	ledgerRepo := repository.NewLedgerRepository(dbPool)
	rulesRepo := repository.NewRulesRepository(dbPool)

	// --- Initialize Services ---
	rulesService := service.NewRulesService(rulesRepo, rules, log)
	reportService := service.NewReportService(ledgerRepo, rulesService, service.ReportConfig{
		WeekEnd:  cfg.WeekEnd,
		Epsilon:  cfg.Epsilon,
		Workers:  cfg.AllocationWorkers,
		Target:   cfg.Target,
		Location: cfg.Location,
	}, log)
	authService := service.NewAuthService(analystRepo, jwtUtil, cfg.InitialAdminUsername, log)

	// --- Initialize Handlers ---
	authHandler := handler.NewAuthHandler(authService)
	reportHandler := handler.NewReportHandler(reportService, rulesService)

	// --- Setup Gin Router ---
	// gin.SetMode(gin.ReleaseMode) // Uncomment for production
	router := gin.New()
	router.Use(gin.Recovery(), middleware.RequestLogger(log))

	// Simple CORS middleware (allow all for development)
	router.Use(func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		c.Writer.Header().Set("Access-Control-Allow-Credentials", "true")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Content-Length, Accept-Encoding, Authorization, accept, origin, Cache-Control, X-Requested-With")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "POST, OPTIONS, GET, PUT, DELETE")
		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}
		c.Next()
	})

	// --- Initialize Middlewares ---
	jwtAuthMW := middleware.JWTAuthMiddleware(jwtUtil)
	adminRoleMW := middleware.AdminMiddleware()

	// --- Register Routes ---
	apiGroup := router.Group("/api/v1")
	authHandler.RegisterAuthRoutes(apiGroup)
	reportHandler.RegisterReportRoutes(apiGroup, jwtAuthMW, adminRoleMW)

	router.GET("/health", func(c *gin.Context) {
		if err := dbPool.Ping(c.Request.Context()); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "error", "db": "unhealthy"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "ok", "db": "healthy"})
	})

	// --- Start Server ---
	srv := &http.Server{
		Addr:    ":" + cfg.ServerPort,
		Handler: router,
	}

	go func() {
		log.Info().Str("port", cfg.ServerPort).Int("rules_version", rules.Version).Msg("Server starting")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("listen")
		}
	}()

	// --- Graceful Shutdown ---
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info().Msg("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Fatal().Err(err).Msg("Server forced to shutdown")
	}

	log.Info().Msg("Server exiting")
}
