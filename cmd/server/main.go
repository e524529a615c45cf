package main

import (
	"log"
	"net/http"

	_ "campusevents/docs" // swagger docs

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	"campusevents/internal/auth"
	"campusevents/internal/cache"
	"campusevents/internal/config"
	"campusevents/internal/db"
	"campusevents/internal/handler"
	"campusevents/internal/model"
	"campusevents/internal/repository"
	"campusevents/internal/router"
	"campusevents/internal/service"
	"campusevents/internal/storage"
)

// @title College Event Management API
// @version 1.0
// @description Event catalog, registration admission control and JWT authentication for a college event platform.
// @host localhost:8080
// @BasePath /api
// @schemes http
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and JWT token.
func main() {
	_ = godotenv.Load()
	cfg := config.Load()

	e := echo.New()
	e.Use(middleware.RequestID())

	gormDB, err := db.NewMySQL(cfg.MySQLDSN)
	if err != nil {
		log.Fatalf("database init: %v", err)
	}

	// Run migrations for all models
	if err := gormDB.AutoMigrate(
		&model.User{},
		&model.Event{},
		&model.Registration{},
	); err != nil {
		log.Fatalf("auto-migrate: %v", err)
	}

	cacheClient := cache.New(cfg.RedisAddr, cfg.RedisPass, cfg.RedisDB)

	// Initialize repositories
	userRepo := repository.NewUserRepository(gormDB)
	eventRepo := repository.NewEventRepository(gormDB)
	regRepo := repository.NewRegistrationRepository(gormDB)

	// Initialize auth components
	jwtService := auth.NewJWTService(cfg.JWTSecret)
	resetStore := auth.NewResetTokenStore(cacheClient)

	blobs := storage.NewLocalStore(cfg.UploadDir, cfg.BaseURL)

	// Initialize services
	authService := service.NewAuthService(userRepo, jwtService, resetStore)
	eventService := service.NewEventService(eventRepo, cacheClient)
	regService := service.NewRegistrationService(regRepo, eventRepo)

	// Initialize handlers
	authHandler := handler.NewAuthHandler(authService, blobs)
	eventHandler := handler.NewEventHandler(eventService, blobs)
	regHandler := handler.NewRegistrationHandler(regService)

	// Register routes
	router.Register(e, cfg, authHandler, eventHandler, regHandler)

	addr := ":" + cfg.ServerPort
	if err := e.Start(addr); err != nil && err != http.ErrServerClosed {
		log.Fatalf("server start: %v", err)
	}
}
