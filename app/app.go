// File: app/app.go
package app

import (
	"context"
	"go-content-api/config"
	"go-content-api/db"
	"go-content-api/handler"
	"go-content-api/logger"
	"go-content-api/repository"
	"go-content-api/router"
	"go-content-api/service"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"
)

func Run() {
	config.LoadConfig(".")
	logger.Init()
	logger.Log.Info("Logger initialized")
	logger.Log.Info("Configuration loaded successfully")

	database, err := db.Connect()
	if err != nil {
		logger.Log.Fatalf("Error connecting to the database: %v", err)
	}
	defer database.Close()

	if err := db.RunMigrations("db/migrations"); err != nil {
		logger.Log.Fatalf("Error applying database migrations: %v", err)
	}

	redisClient, err := db.ConnectRedis()
	if err != nil {
		logger.Log.Fatalf("Error connecting to Redis: %v", err)
	}
	defer redisClient.Close()

	// --- Wiring All Layers Together ---
	// Every component receives its collaborators explicitly; nothing is
	// resolved at runtime.

	userRepo := repository.NewUserRepository(database)
	tokenRepo := repository.NewTokenRepository(database)
	attemptRepo := repository.NewAttemptRepository(database)
	categoryRepo := repository.NewCategoryRepository(database)

	cfg := &config.AppConfig
	tokenService := service.NewTokenService(cfg.JWT.SecretKey, nil)
	userService := service.NewUserService(userRepo)
	authService := service.NewAuthService(userRepo, tokenRepo, attemptRepo, tokenService,
		cfg.AccessTokenTTL(), cfg.Lockout.MaxFailures, cfg.LockoutWindow(), nil)
	verificationService := service.NewVerificationService(redisClient, service.NewSMTPMailer())
	categoryService := service.NewCategoryService(categoryRepo, nil)

	authHandler := handler.NewAuthHandler(authService, userService)
	userHandler := handler.NewUserHandler(userService)
	verificationHandler := handler.NewVerificationHandler(verificationService)
	categoryHandler := handler.NewCategoryHandler(categoryService)

	r := router.NewRouter(authHandler, userHandler, verificationHandler, categoryHandler, tokenService, userRepo)

	// The retention batch job runs outside the request-serving paths.
	cleanupService := service.NewCleanupService(userRepo, tokenRepo,
		time.Duration(cfg.Cleanup.RetentionDays)*24*time.Hour,
		time.Duration(cfg.Cleanup.IntervalHours)*time.Hour,
		cfg.Cleanup.BatchSize, nil)
	cleanupService.Start()
	defer cleanupService.Stop()

	// --- Start the Server with Graceful Shutdown ---
	port := cfg.Server.Port
	srv := &http.Server{
		Addr:    ":" + port,
		Handler: r,
	}

	go func() {
		logger.Log.Infof("Server starting on port :%s", port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Log.Fatalf("Failed to start server: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Log.Warn("Shutdown signal received. Starting graceful shutdown...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Log.Fatalf("Server forced to shutdown: %v", err)
	}

	logger.Log.Info("Server exited properly")
}
