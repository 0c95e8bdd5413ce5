package main

import (
	"context"
	"log"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/ahmednasr/help-wanted/internal/config"
	"github.com/ahmednasr/help-wanted/internal/database"
	"github.com/ahmednasr/help-wanted/internal/github"
	"github.com/ahmednasr/help-wanted/internal/handler"
	"github.com/ahmednasr/help-wanted/internal/middleware"
	"github.com/ahmednasr/help-wanted/internal/repository"
	"github.com/ahmednasr/help-wanted/internal/service"
	"github.com/ahmednasr/help-wanted/internal/sources"
)

// main is the single entry-point for the REST API.
func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Load configuration
	cfg := config.Load()
	log.Printf("Configuration loaded:")
	log.Printf("  - Refresh interval: %s", cfg.RefreshInterval)
	log.Printf("  - Fetch timeout: %s", cfg.FetchTimeout)
	log.Printf("  - Refresh history: %t", cfg.HistoryEnabled())

	table, err := sources.Load(cfg.SourcesFile)
	if err != nil {
		log.Fatalf("Failed to load sources: %v", err)
	}
	log.Printf("Loaded %d sources (%d labels, %d categories)", table.Len(), len(table.Labels()), len(table.Categories()))

	ghClient := github.NewClient(ctx, cfg.GitHubToken, table)

	// Refresh history is optional; without it the server only logs runs.
	var (
		mongoClient *mongo.Client
		recorder    service.RunRecorder
	)
	if cfg.HistoryEnabled() {
		mongoClient, err = database.NewMongo(ctx, cfg.MongoURI)
		if err != nil {
			log.Fatalf("Failed to connect to MongoDB: %v", err)
		}
		defer mongoClient.Disconnect(context.Background())
		log.Printf("Connected to MongoDB, using database: %s", cfg.DBName)

		recorder = repository.NewRefreshRunRepository(mongoClient.Database(cfg.DBName))
	}

	// Initialize services
	issueSvc := service.NewIssueService(ghClient, recorder, table, cfg.FetchTimeout)
	go issueSvc.Run(ctx, cfg.RefreshInterval)

	// Create Fiber app
	app := fiber.New(fiber.Config{
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
	})

	// Add middleware
	middleware.Use(app, cfg.CORSOrigin)

	// Register routes
	handler.RegisterRoutes(app, issueSvc, mongoClient)

	go func() {
		<-ctx.Done()
		log.Printf("Shutting down server")
		if err := app.ShutdownWithTimeout(10 * time.Second); err != nil {
			log.Printf("Server shutdown: %v", err)
		}
	}()

	// Start server
	log.Printf("Server starting on port %s", cfg.Port)
	if err := app.Listen(":" + cfg.Port); err != nil {
		log.Fatalf("Server failed to start: %v", err)
	}
}
