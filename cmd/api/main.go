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
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"github.com/venturelink/app-venturelink/internal/config"
	"github.com/venturelink/app-venturelink/internal/handlers"
	"github.com/venturelink/app-venturelink/internal/logging"
	"github.com/venturelink/app-venturelink/internal/middleware"
	"github.com/venturelink/app-venturelink/internal/models"
	"github.com/venturelink/app-venturelink/internal/observability"
	"go.uber.org/zap"

	_ "github.com/venturelink/app-venturelink/docs"
)

// @title           VentureLink API
// @version         1.0
// @description     API for the VentureLink platform connecting entrepreneurs and investors. Profiles, pitches and content updates pass through an admin moderation workflow before becoming visible.

// @contact.name   API Support
// @contact.email  support@venturelink.app

// @host      localhost:8080
// @BasePath  /v1

// @securityDefinitions.apikey ApiKeyAuth
// @in header
// @name Authorization

// @tag.name auth
// @tag.description Registration, login and account recovery

// @tag.name profiles
// @tag.description Profile management and identity documents

// @tag.name pitches
// @tag.description Pitch lifecycle and the investor catalog

// @tag.name notifications
// @tag.description Per-member notification feed

// @tag.name admin
// @tag.description Moderation queues and platform settings

// @tag.name health
// @tag.description Health check operations

func main() {
	// Initialize logger first
	if err := logging.InitLogger(); err != nil {
		panic(fmt.Sprintf("failed to initialize logger: %v", err))
	}

	// Load configuration
	if err := config.LoadConfig(); err != nil {
		logging.Logger.Fatal("failed to load config", zap.Error(err))
	}

	// Initialize observability
	observability.InitTracer()
	defer observability.ShutdownTracer()

	// Initialize database connections
	config.InitMongoDB()
	config.InitRedis()

	// Wire handler services
	handlers.Init()

	// Set Gin mode
	if config.AppConfig.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	// Create router with middleware
	router := gin.New()
	router.Use(
		gin.Recovery(),
		middleware.RequestID(),
		middleware.RequestLogger(),
		middleware.RequestTracker(),
		middleware.RequestTiming(),
		cors.Default(),
	)

	// Metrics endpoint
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	// API v1 routes
	v1 := router.Group("/v1")
	{
		v1.GET("/health", handlers.HealthCheck)

		auth := v1.Group("/auth")
		{
			auth.POST("/register", handlers.Register)
			auth.POST("/login", handlers.Login)
			auth.GET("/verify-email", handlers.VerifyEmail)
			auth.POST("/forgot-password", handlers.ForgotPassword)
			auth.POST("/reset-password", handlers.ResetPassword)
		}

		profiles := v1.Group("/profiles", middleware.AuthMiddleware())
		{
			profiles.GET("/me", handlers.GetMyProfile)
			profiles.PUT("/me", handlers.UpdateMyProfile)
			profiles.DELETE("/me", handlers.DeleteMyAccount)
			profiles.POST("/me/documents", handlers.SubmitDocumentRevision)
			profiles.GET("/:id", handlers.GetProfile)
		}

		pitches := v1.Group("/pitches", middleware.AuthMiddleware())
		{
			pitches.GET("", handlers.ListApprovedPitches)
			pitches.GET("/mine", middleware.RequireRole(models.RoleEntrepreneur), handlers.ListMyPitches)
			pitches.POST("", middleware.RequireRole(models.RoleEntrepreneur), handlers.CreatePitch)
			pitches.POST("/assets", middleware.RequireRole(models.RoleEntrepreneur), handlers.UploadAsset)
			pitches.GET("/:id", handlers.GetPitch)
			pitches.PUT("/:id", middleware.RequireRole(models.RoleEntrepreneur), handlers.ResubmitPitch)
			pitches.DELETE("/:id", middleware.RequireRole(models.RoleEntrepreneur), handlers.DeletePitch)
			pitches.POST("/:id/revisions", middleware.RequireRole(models.RoleEntrepreneur), handlers.SubmitPitchRevision)
		}

		notifications := v1.Group("/notifications", middleware.AuthMiddleware())
		{
			notifications.GET("", handlers.ListNotifications)
			notifications.POST("/:id/read", handlers.MarkNotificationRead)
			notifications.DELETE("/:id", handlers.DeleteNotification)
		}

		admin := v1.Group("/admin", middleware.AuthMiddleware(), middleware.RequireAdmin())
		{
			admin.GET("/profiles/pending", handlers.ListPendingProfiles)
			admin.POST("/profiles/:id/decide", handlers.DecideProfile)
			admin.GET("/pitches/pending", handlers.ListPendingPitches)
			admin.POST("/pitches/:id/decide", handlers.DecidePitch)
			admin.GET("/pitch-revisions/pending", handlers.ListPendingPitchRevisions)
			admin.POST("/pitch-revisions/:id/decide", handlers.DecidePitchRevision)
			admin.GET("/document-revisions/pending", handlers.ListPendingDocumentRevisions)
			admin.POST("/document-revisions/:id/decide", handlers.DecideDocumentRevision)
			admin.GET("/settings", handlers.GetSettings)
			admin.PUT("/settings", handlers.UpdateSettings)
			admin.POST("/cache/read", handlers.ReadCacheKey)
		}
	}

	// Swagger documentation
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	// Create server with timeouts
	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", config.AppConfig.Port),
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start server in a goroutine
	go func() {
		logging.Logger.Info("starting server",
			zap.Int("port", config.AppConfig.Port),
			zap.String("environment", config.AppConfig.Environment),
		)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logging.Logger.Fatal("failed to start server", zap.Error(err))
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	// Graceful shutdown
	logging.Logger.Info("shutting down server...")
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logging.Logger.Fatal("server forced to shutdown", zap.Error(err))
	}

	logging.Logger.Info("server exited gracefully")
}
