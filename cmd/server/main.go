package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/joaopmafra/sapie/internal/config"
	"github.com/joaopmafra/sapie/internal/database"
	"github.com/joaopmafra/sapie/internal/handlers"
	"github.com/joaopmafra/sapie/internal/identity"
	"github.com/joaopmafra/sapie/internal/middleware"
	"github.com/joaopmafra/sapie/internal/services"
	"github.com/joaopmafra/sapie/internal/storage"
	"github.com/joaopmafra/sapie/pkg/logger"
)

func main() {
	logger.Init()

	cfg := config.Load()

	db, err := database.Connect(cfg.DB)
	if err != nil {
		log.Fatalf("database connection failed: %v", err)
	}

	storageClient, err := storage.NewMinIOClient(cfg.MinIO)
	if err != nil {
		log.Fatalf("minio initialization failed: %v", err)
	}
	if err := storageClient.EnsureBucket(context.Background()); err != nil {
		log.Fatalf("failed ensuring minio bucket: %v", err)
	}

	verifier := identity.NewVerifier(db, cfg.Auth)
	contentService := services.NewContentService(db)

	healthHandler := handlers.NewHealthHandler(cfg.Server.Environment)
	authHandler := handlers.NewAuthHandler(verifier)
	contentHandler := handlers.NewContentHandler(contentService, storageClient)

	authMiddleware := middleware.NewAuthMiddleware(verifier)

	app := fiber.New(fiber.Config{BodyLimit: 10 * 1024 * 1024})
	app.Use(recover.New(recover.Config{EnableStackTrace: true}))
	app.Use(middleware.CORS(cfg.Server.FrontendURL))
	app.Use(middleware.RequestLogger())
	app.Use(middleware.SecurityLogger())

	api := app.Group("/api")
	api.Get("/health", healthHandler.Check)
	api.Get("/auth", authMiddleware.RequireAuth, authHandler.Me)

	contentRoutes := api.Group("/content", authMiddleware.RequireAuth)
	contentRoutes.Get("/root", contentHandler.GetRoot)
	contentRoutes.Get("/", contentHandler.List)
	contentRoutes.Post("/", contentHandler.Create)
	contentRoutes.Get("/:id/payload", contentHandler.DownloadPayload)
	contentRoutes.Put("/:id/payload", contentHandler.UploadPayload)
	contentRoutes.Get("/:id", contentHandler.Get)

	listenAddr := fmt.Sprintf(":%s", cfg.Server.Port)

	logger.Info("server_starting", map[string]interface{}{
		"port":        cfg.Server.Port,
		"environment": cfg.Server.Environment,
	})

	errCh := make(chan error, 1)
	go func() {
		errCh <- app.Listen(listenAddr)
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-quit:
		log.Printf("shutting down server due to signal: %s", sig)
		shutdownDone := make(chan struct{})
		go func() {
			_ = app.Shutdown()
			close(shutdownDone)
		}()
		select {
		case <-shutdownDone:
		case <-time.After(10 * time.Second):
			log.Print("forced shutdown timeout reached")
		}
	case err := <-errCh:
		if err != nil {
			log.Fatalf("server error: %v", err)
		}
	}
}
