package main

import (
	"log"
	"net/http"
	"path/filepath"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/carlelieser/avatarmon/internal/config"
	"github.com/carlelieser/avatarmon/internal/database"
	"github.com/carlelieser/avatarmon/internal/events"
	"github.com/carlelieser/avatarmon/internal/export"
	"github.com/carlelieser/avatarmon/internal/generation"
	"github.com/carlelieser/avatarmon/internal/handlers"
	"github.com/carlelieser/avatarmon/internal/middleware"
	"github.com/carlelieser/avatarmon/internal/purchases"
	"github.com/carlelieser/avatarmon/internal/replicate"
	"github.com/carlelieser/avatarmon/internal/store"
	"github.com/carlelieser/avatarmon/internal/supastore"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	if cfg.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	// Persistence: postgres when DATABASE_URL is set, per-user JSON
	// files otherwise.
	var persister store.Persister
	if cfg.DatabaseURL != "" {
		db, err := database.Open(cfg.DatabaseURL)
		if err != nil {
			log.Fatalf("Failed to connect to database: %v", err)
		}
		defer db.Close()

		if err := database.NewMigrator(db).Run(); err != nil {
			log.Fatalf("Migration failed: %v", err)
		}
		persister = store.NewPostgresPersister(db)
	} else {
		log.Println("DATABASE_URL not set, using file-backed state")
		filePersister, err := store.NewFilePersister(cfg.StateDir)
		if err != nil {
			log.Fatalf("Failed to initialize state directory: %v", err)
		}
		persister = filePersister
	}

	stores := store.NewManager(persister)

	// Export and events: cloud gallery plus table-backed event publishing
	// when Supabase is configured, local directory otherwise.
	var exporters handlers.ExporterFactory
	var publisher handlers.EventPublisher
	var cleaner handlers.GalleryCleaner
	if cfg.SupabaseURL != "" && cfg.SupabaseAnonKey != "" {
		storageClient, err := supastore.NewStorageClient(cfg.SupabaseURL, cfg.SupabaseAnonKey, cfg.SupabaseStorageBucket)
		if err != nil {
			log.Fatalf("Failed to initialize storage client: %v", err)
		}
		eventsPublisher, err := events.NewPublisher(cfg.SupabaseURL, cfg.SupabaseAnonKey)
		if err != nil {
			log.Fatalf("Failed to initialize events publisher: %v", err)
		}
		publisher = eventsPublisher
		cleaner = storageClient
		exporters = func(userID string) *export.Exporter {
			gallery := supastore.NewCloudGallery(storageClient, userID)
			return export.NewExporter(gallery, export.NoShareSheet{}, cfg.CacheDir)
		}
	} else {
		log.Println("Supabase not configured, exporting to local gallery directory")
		exporters = func(userID string) *export.Exporter {
			gallery := export.DirGallery{Dir: filepath.Join(cfg.StateDir, "gallery", userID)}
			return export.NewExporter(gallery, export.NoShareSheet{}, cfg.CacheDir)
		}
	}

	jobClient := replicate.NewClient(cfg.GenerateAPIBaseURL, cfg.GenerateAPIKey)
	generationService := generation.NewService(jobClient, stores, publisher,
		generation.WithPollInterval(cfg.PollInterval),
		generation.WithTimeout(cfg.GenerationTimeout),
	)

	purchaseService := purchases.NewService(stores)

	generateHandler := handlers.NewGenerateHandler(generationService, publisher)
	historyHandler := handlers.NewHistoryHandler(stores, cleaner)
	exportHandler := handlers.NewExportHandler(stores, exporters, publisher)
	quotaHandler := handlers.NewQuotaHandler(generationService, stores)
	purchaseHandler := handlers.NewPurchaseHandler(purchaseService, stores)
	settingsHandler := handlers.NewSettingsHandler(stores)

	router := gin.Default()

	router.GET("/health", handlers.HealthHandler)
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	api := router.Group("/api/v1")
	api.Use(middleware.AuthMiddleware(cfg))

	api.POST("/generate", generateHandler.Start)
	api.GET("/generate/:id", generateHandler.Status)
	api.POST("/generate/:id/cancel", generateHandler.Cancel)
	api.DELETE("/generate/:id", generateHandler.Clear)

	api.GET("/quota", quotaHandler.Get)

	api.GET("/history", historyHandler.List)
	api.POST("/history", historyHandler.Save)
	api.DELETE("/history", historyHandler.Clear)
	api.DELETE("/history/:id", historyHandler.Delete)
	api.POST("/history/:id/export", exportHandler.Export)

	api.GET("/purchase", purchaseHandler.Get)
	api.POST("/purchase", purchaseHandler.Purchase)
	api.POST("/purchase/restore", purchaseHandler.Restore)

	api.GET("/settings", settingsHandler.Get)
	api.PATCH("/settings", settingsHandler.Update)

	log.Printf("Server starting on port %s", cfg.Port)
	if err := http.ListenAndServe(":"+cfg.Port, router); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}
