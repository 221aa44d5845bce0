package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	_ "github.com/noah-isme/facility-ops-api/api/swagger"
	"github.com/noah-isme/facility-ops-api/internal/handler"
	"github.com/noah-isme/facility-ops-api/internal/middleware"
	"github.com/noah-isme/facility-ops-api/internal/models"
	"github.com/noah-isme/facility-ops-api/internal/repository"
	"github.com/noah-isme/facility-ops-api/internal/service"
	"github.com/noah-isme/facility-ops-api/pkg/cache"
	"github.com/noah-isme/facility-ops-api/pkg/config"
	"github.com/noah-isme/facility-ops-api/pkg/database"
	"github.com/noah-isme/facility-ops-api/pkg/logger"
	corsmiddleware "github.com/noah-isme/facility-ops-api/pkg/middleware/cors"
	reqidmiddleware "github.com/noah-isme/facility-ops-api/pkg/middleware/requestid"
)

// @title Facility Ops API
// @version 1.0.0
// @description Content approval workflow for healthcare facility operations
// @BasePath /api/v1
// @schemes http

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logr, err := logger.New(cfg)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer logr.Sync() //nolint:errcheck

	db, err := database.NewPostgres(cfg.Database)
	if err != nil {
		logr.Sugar().Fatalw("failed to connect to postgres", "error", err)
	}
	defer db.Close()

	redisClient, err := cache.NewRedis(cfg.Redis)
	if err != nil {
		logr.Sugar().Warnw("redis unavailable, caching disabled", "error", err)
		redisClient = nil
	}
	if redisClient != nil {
		defer redisClient.Close()
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// repositories
	contentRepo := repository.NewContentRepository(db, logr)
	taskRepo := repository.NewTaskRepository(db)
	notificationRepo := repository.NewNotificationRepository(db)
	facilityRepo := repository.NewFacilityRepository(db)
	userRepo := repository.NewUserRepository(db)
	analyticsRepo := repository.NewAnalyticsRepository(db)
	cacheRepo := repository.NewCacheRepository(redisClient, logr)

	// services
	metricsSvc := service.NewMetricsService()
	cacheSvc := service.NewCacheService(cacheRepo, metricsSvc, cfg.Facility.CacheTTL, logr, redisClient != nil)
	facilitySvc := service.NewFacilityService(facilityRepo, cacheSvc, cfg.Facility, cfg.Env, logr)
	notificationSvc := service.NewNotificationService(notificationRepo, cfg.Notifications, logr)
	notificationSvc.Start(ctx)
	defer notificationSvc.Stop()

	validate := validator.New()
	authSvc := service.NewAuthService(userRepo, validate, logr, service.AuthConfig{
		AccessTokenSecret:  cfg.JWT.Secret,
		AccessTokenExpiry:  cfg.JWT.Expiration,
		RefreshTokenExpiry: cfg.JWT.RefreshExpiration,
		Issuer:             "facility-ops-api",
	})
	approvalSvc := service.NewApprovalService(contentRepo, taskRepo, notificationSvc, userRepo, metricsSvc, validate, logr)
	analyticsSvc := service.NewAnalyticsService(analyticsRepo, cacheSvc, metricsSvc, cfg.Analytics.CacheTTL, logr)
	exportSvc := service.NewExportService(contentRepo, nil, nil, logr)

	// handlers
	authHandler := handler.NewAuthHandler(authSvc)
	approvalHandler := handler.NewApprovalHandler(approvalSvc, exportSvc)
	facilityHandler := handler.NewFacilityHandler(facilitySvc)
	notificationHandler := handler.NewNotificationHandler(notificationSvc)
	analyticsHandler := handler.NewAnalyticsHandler(analyticsSvc)
	metricsHandler := handler.NewMetricsHandler(metricsSvc)

	if cfg.Env == config.EnvProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(reqidmiddleware.Middleware())
	r.Use(logger.GinMiddleware(logr))
	r.Use(corsmiddleware.New(cfg.CORS.AllowedOrigins))
	r.Use(middleware.Metrics(metricsSvc))

	r.GET("/health", metricsHandler.Health)
	r.GET("/ready", func(c *gin.Context) {
		if err := db.PingContext(c.Request.Context()); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "degraded", "error": "database unreachable"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "ready"})
	})
	r.GET("/internal/metrics", metricsHandler.Prometheus)

	if cfg.Env != config.EnvProduction {
		r.GET("/docs/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	api := r.Group(cfg.APIPrefix)

	auth := api.Group("/auth")
	auth.POST("/login", authHandler.Login)
	auth.POST("/refresh", authHandler.Refresh)
	auth.POST("/logout", middleware.JWT(authSvc), authHandler.Logout)
	auth.POST("/change-password", middleware.JWT(authSvc), authHandler.ChangePassword)
	auth.GET("/me", middleware.JWT(authSvc), authHandler.Me)

	protected := api.Group("")
	protected.Use(middleware.JWT(authSvc))
	protected.Use(middleware.Facility(facilitySvc))

	approvals := protected.Group("/approvals")
	approvals.Use(middleware.RequirePermission(func(p models.Permission) bool { return p.ApproveContent }))
	approvals.GET("/pending", approvalHandler.List)
	approvals.POST("/:id/approve", approvalHandler.Approve)
	approvals.POST("/:id/reject", approvalHandler.Reject)
	if cfg.Exports.Enabled {
		approvals.GET("/pending/export", approvalHandler.Export)
	}

	facility := protected.Group("/facility")
	facility.GET("/current", facilityHandler.Current)
	facility.POST("/refresh", middleware.RequireRoles(models.RoleAdministrator, models.RoleManager), facilityHandler.Refresh)

	notifications := protected.Group("/notifications")
	notifications.GET("", notificationHandler.List)
	notifications.POST("/:id/read", notificationHandler.MarkRead)

	if cfg.Analytics.Enabled {
		analytics := protected.Group("/analytics")
		analytics.Use(middleware.RequirePermission(func(p models.Permission) bool { return p.ViewAnalytics }))
		analytics.GET("/approvals", analyticsHandler.Overview)
		analytics.GET("/system", analyticsHandler.System)
	}

	addr := fmt.Sprintf(":%d", cfg.Port)
	srv := &http.Server{Addr: addr, Handler: r}

	go func() {
		logr.Sugar().Infow("server starting", "addr", addr, "env", cfg.Env)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logr.Sugar().Fatalw("server failed", "error", err)
		}
	}()

	<-ctx.Done()
	logr.Sugar().Infow("shutdown signal received")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logr.Sugar().Errorw("graceful shutdown failed", "error", err)
	}
}
