package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/animehub/backend/internal/config"
	"github.com/animehub/backend/internal/handlers"
	"github.com/animehub/backend/internal/middleware"
	"github.com/animehub/backend/internal/models"
	"github.com/animehub/backend/internal/services"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
)

func main() {
	// Load environment variables
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	// Initialize configuration
	cfg := config.New()

	// Initialize database
	db, err := models.InitDB(cfg)
	if err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}

	// Run migrations
	if err := models.Migrate(db); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}

	// Initialize Redis
	redisClient := models.InitRedis(cfg)
	defer redisClient.Close()

	// Initialize services
	authService := services.NewAuthService(db, redisClient, cfg)
	userService := services.NewUserService(db)
	characterService := services.NewCharacterService(db)
	accessoryService := services.NewAccessoryService(db)
	loreService := services.NewLoreService(db)
	galleryService := services.NewGalleryService(db)
	storageService := services.NewStorageService(cfg)
	exportService := services.NewExportService(cfg)
	adminService := services.NewAdminService(db, cfg)

	// Create admin user if not exists
	if err := adminService.CreateDefaultAdmin(); err != nil {
		log.Printf("Failed to create default admin: %v", err)
	}

	// Periodic cleanup of expired refresh tokens
	go func() {
		for {
			if err := authService.CleanupExpiredTokens(); err != nil {
				log.Printf("Refresh token cleanup error: %v", err)
			}
			time.Sleep(1 * time.Hour)
		}
	}()

	// Setup Gin router
	if cfg.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()
	router.Use(gin.Logger())
	router.Use(gin.Recovery())
	router.Use(middleware.CORS(cfg))
	router.Use(middleware.RateLimiter(redisClient, cfg))

	// Initialize handlers
	authHandler := handlers.NewAuthHandler(authService, userService)
	userHandler := handlers.NewUserHandler(userService)
	characterHandler := handlers.NewCharacterHandler(characterService, accessoryService, loreService)
	loreHandler := handlers.NewLoreHandler(loreService)
	galleryHandler := handlers.NewGalleryHandler(galleryService, storageService, exportService, cfg)
	adminHandler := handlers.NewAdminHandler(adminService, userService, characterService, loreService, exportService)

	// Health check outside API group
	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "healthy"})
	})

	api := router.Group("/api/v1")
	{
		api.GET("/health", func(c *gin.Context) {
			c.JSON(http.StatusOK, gin.H{"status": "healthy"})
		})

		// Uploaded gallery files are served straight from local disk
		api.Static("/files", cfg.LocalAssetsPath)

		// Public routes: anonymous viewers never see mature folders
		public := api.Group("/public")
		{
			public.GET("/characters", characterHandler.GetCharacters)
			public.GET("/characters/:id", characterHandler.GetCharacter)
			public.GET("/characters/attires/:id", characterHandler.GetAttire)
			public.GET("/lore/types", loreHandler.GetLoreTypes)
			public.GET("/lore/entries", loreHandler.GetLoreEntries)
			public.GET("/lore/entries/:id", loreHandler.GetLoreEntry)
			public.GET("/gallery", galleryHandler.GetFolders)
			public.GET("/gallery/:id", galleryHandler.GetFolder)
			public.GET("/gallery/:id/images", galleryHandler.GetImages)
		}

		// Auth routes
		auth := api.Group("/auth")
		{
			auth.POST("/register", authHandler.Register)
			auth.POST("/login", authHandler.Login)
			auth.POST("/refresh", authHandler.RefreshToken)
			auth.POST("/logout", middleware.Auth(authService), authHandler.Logout)
		}

		// User routes: the gallery endpoints gate mature folders on is_adult
		user := api.Group("/user")
		user.Use(middleware.Auth(authService))
		{
			user.GET("/profile", userHandler.GetProfile)
			user.PUT("/profile", userHandler.UpdateProfile)
			user.GET("/characters", characterHandler.GetCharacters)
			user.GET("/characters/:id", characterHandler.GetCharacter)
			user.GET("/characters/attires/:id", characterHandler.GetAttire)
			user.GET("/lore/types", loreHandler.GetLoreTypes)
			user.GET("/lore/entries", loreHandler.GetLoreEntries)
			user.GET("/lore/entries/:id", loreHandler.GetLoreEntry)
			user.GET("/gallery", galleryHandler.GetFolders)
			user.GET("/gallery/:id", galleryHandler.GetFolder)
			user.GET("/gallery/:id/images", galleryHandler.GetImages)
		}

		// Admin routes
		admin := api.Group("/admin")
		admin.Use(middleware.Auth(authService))
		admin.Use(middleware.AdminOnly())
		{
			// User management
			admin.GET("/users", adminHandler.GetUsers)
			admin.PUT("/users/:id/active", adminHandler.UpdateUserActive)
			admin.PUT("/users/:id/adult", adminHandler.UpdateUserAdult)
			admin.POST("/users/:id/reset-password", adminHandler.ResetUserPassword)

			// Character management
			admin.POST("/characters", characterHandler.CreateCharacter)
			admin.PUT("/characters/:id", characterHandler.UpdateCharacter)
			admin.DELETE("/characters/:id", characterHandler.DeleteCharacter)
			admin.PUT("/characters/:id/best-friend", characterHandler.SetBestFriend)
			admin.PUT("/characters/:id/greatest-feat", characterHandler.UpdateGreatestFeat)
			admin.GET("/characters/:id/sheet.pdf", adminHandler.ExportCharacterSheet)

			// Attires and accessories
			admin.POST("/characters/:id/attires", characterHandler.CreateAttire)
			admin.DELETE("/characters/attires/:id", characterHandler.DeleteAttire)

			// Lore links
			admin.POST("/characters/:id/lore-links", characterHandler.AddLoreLink)
			admin.DELETE("/characters/:id/lore-links/:loreId", characterHandler.RemoveLoreLink)

			// Lore management
			admin.POST("/lore/types", loreHandler.CreateLoreType)
			admin.DELETE("/lore/types/:id", loreHandler.DeleteLoreType)
			admin.POST("/lore/entries", loreHandler.CreateLoreEntry)
			admin.PUT("/lore/entries/:id", loreHandler.UpdateLoreEntry)
			admin.DELETE("/lore/entries/:id", loreHandler.DeleteLoreEntry)

			// Gallery management (ungated)
			admin.GET("/gallery/folders", galleryHandler.GetAllFolders)
			admin.POST("/gallery/folders", galleryHandler.CreateFolder)
			admin.PUT("/gallery/folders/:id", galleryHandler.UpdateFolder)
			admin.DELETE("/gallery/folders/:id", galleryHandler.DeleteFolder)
			admin.GET("/gallery/folders/:id/images", galleryHandler.GetFolderImages)
			admin.POST("/gallery/folders/:id/images", galleryHandler.AddImage)
			admin.GET("/gallery/folders/:id/qr.png", galleryHandler.GetFolderShareQR)
			admin.PUT("/gallery/images/:id/move", galleryHandler.MoveImage)
			admin.DELETE("/gallery/images/:id", galleryHandler.DeleteImage)
		}
	}

	// Start server
	srv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      router,
		ReadTimeout:  60 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Graceful shutdown
	go func() {
		log.Printf("Starting server on port %s", cfg.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Failed to start server: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatalf("Server forced to shutdown: %v", err)
	}

	log.Println("Server exited")
}
