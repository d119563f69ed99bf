package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/isaiahpere/notion-clony/internal/config"
	"github.com/isaiahpere/notion-clony/internal/db"
	"github.com/isaiahpere/notion-clony/internal/document"
	"github.com/isaiahpere/notion-clony/internal/logger"
	"github.com/isaiahpere/notion-clony/internal/middleware"
	"github.com/isaiahpere/notion-clony/internal/user"
	"github.com/isaiahpere/notion-clony/internal/worker"
	"github.com/isaiahpere/notion-clony/redis"
)

func main() {
	// Load configuration
	config.LoadConfig()
	logger.Init(config.AppConfig.Environment)

	// Connect to database
	db.ConnectDb()
	defer db.CloseDb()

	// Migrate database schema
	db.Migrate()

	// Initialize Redis cache (nil when unavailable, app still works)
	cache := redis.NewCache(config.AppConfig.RedisAddress)
	defer cache.Close()

	// Background workers running the archive/restore cascades
	pool := worker.NewWorkerPool(config.AppConfig.CascadeWorkers)
	defer pool.Shutdown()

	// Initialize repository
	userRepo := user.NewRepository(db.AppDb)
	docRepo := document.NewRepository(db.AppDb)
	// Initialize service
	userService := user.NewService(userRepo)
	docService := document.NewService(docRepo, pool, cache)
	// Initialize handler
	userHandler := user.NewHandler(userService)
	docHandler := document.NewHandler(docService)

	// Initialize Gin router
	router := gin.Default()
	router.Use(middleware.ErrorHandler())

	// cors setting
	corsConfig := cors.Config{
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: false,
	}

	if config.AppConfig.Environment == "development" {
		// Allow all origins in development
		corsConfig.AllowAllOrigins = true
	} else {
		// Restrict origins in production
		corsConfig.AllowOrigins = []string{config.AppConfig.FrontendAddress}
	}
	router.Use(cors.New(corsConfig))

	// User routes
	router.POST("/register", userHandler.Register)
	router.POST("/login", userHandler.Login)
	router.GET("/profile", middleware.RequireAuth(), userHandler.GetProfile)

	// Document routes
	router.POST("/documents", middleware.RequireAuth(), docHandler.Create)
	router.GET("/documents/sidebar", middleware.RequireAuth(), docHandler.ShowSidebar)
	router.GET("/documents/search", middleware.RequireAuth(), docHandler.ShowSearch)
	router.GET("/documents/trash", middleware.RequireAuth(), docHandler.ShowTrash)
	router.GET("/documents/:id", middleware.OptionalAuth(), docHandler.ShowDocument)
	router.PATCH("/documents/:id", middleware.RequireAuth(), docHandler.Update)
	router.PUT("/documents/:id/archive", middleware.RequireAuth(), docHandler.Archive)
	router.PUT("/documents/:id/restore", middleware.RequireAuth(), docHandler.Restore)
	router.DELETE("/documents/:id", middleware.RequireAuth(), docHandler.Remove)
	router.DELETE("/documents/:id/icon", middleware.RequireAuth(), docHandler.RemoveIcon)
	router.DELETE("/documents/:id/cover-image", middleware.RequireAuth(), docHandler.RemoveCoverImage)

	// Server configuration
	serverPort := config.AppConfig.ServerPort
	server := &http.Server{
		Addr:    fmt.Sprintf(":%s", serverPort),
		Handler: router.Handler(),
	}

	// Start server
	go func() {
		log.Printf("Server listening on port %s", serverPort)
		err := server.ListenAndServe()
		if err != nil && err != http.ErrServerClosed {
			log.Fatalf("Server failed to start: %v", err)
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Println("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		log.Println("Server shutdown error:", err)
	}

	<-ctx.Done()
	log.Println("Server shutdown complete")
}
