package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"portfolio-contact-api/config"
	_ "portfolio-contact-api/docs" // Important for Swagger
	v1 "portfolio-contact-api/internal/delivery/http/v1"
	"portfolio-contact-api/internal/repository/mongodb"
	"portfolio-contact-api/internal/usecase"
	"portfolio-contact-api/pkg/database"
	"portfolio-contact-api/pkg/email"
	"portfolio-contact-api/pkg/logger"
	"portfolio-contact-api/pkg/validation"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// @title           Portfolio Contact API
// @version         1.0.0
// @description     Backend API for handling contact form submissions
// @host            localhost:8000
// @BasePath        /api/v1
func main() {
	// 1. Load Config
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	// 2. Setup Logger
	zl, err := logger.Init(cfg.LogLevel)
	if err != nil {
		log.Fatalf("Failed to init logger: %v", err)
	}
	defer func() { _ = zl.Sync() }()
	logger.Log.Info("Starting portfolio contact API", zap.String("port", cfg.Port))

	// 3. Setup Email Service (fails fast on bad SMTP settings)
	emailService, err := email.NewEmailService(cfg)
	if err != nil {
		logger.Log.Fatal("Email service misconfigured", zap.Error(err))
	}

	// 4. Setup Database
	db := database.NewMongo(cfg.MongoURL, config.DatabaseName, cfg.MongoConnectTimeout)
	if err := db.Connect(context.Background()); err != nil {
		logger.Log.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := db.Disconnect(ctx); err != nil {
			logger.Log.Error("Failed to disconnect from database", zap.Error(err))
		}
	}()

	// 5. Setup Repositories and UseCases
	contactRepo := mongodb.NewContactRepository(db)
	contactUC := usecase.NewContactUsecase(contactRepo, emailService, validation.New())
	healthUC := usecase.NewHealthUsecase(v1.DocsPath)

	// 6. Setup Router
	gin.SetMode(cfg.GinMode)
	router := v1.NewRouter(v1.RouterDeps{
		ContactUC: contactUC,
		HealthUC:  healthUC,
		Config:    cfg,
	})

	// 7. Start Server
	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	serveErr := make(chan error, 1)
	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
	}()

	// Graceful Shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	select {
	case <-quit:
	case err := <-serveErr:
		logger.Log.Error("Listen failed", zap.Error(err))
	}
	logger.Log.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Log.Error("Server forced to shutdown", zap.Error(err))
	}

	logger.Log.Info("Server exiting")
}
