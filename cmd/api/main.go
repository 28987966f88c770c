package main

import (
	"context"
	"log"
	"os"
	"time"

	"github.com/adminphoeniixx/chutneee-menu-ai/internal/auth"
	"github.com/adminphoeniixx/chutneee-menu-ai/internal/classify"
	"github.com/adminphoeniixx/chutneee-menu-ai/internal/db"
	"github.com/adminphoeniixx/chutneee-menu-ai/internal/extraction"
	"github.com/adminphoeniixx/chutneee-menu-ai/internal/imagegen"
	"github.com/adminphoeniixx/chutneee-menu-ai/internal/openrouter"
	"github.com/adminphoeniixx/chutneee-menu-ai/internal/router"
	"github.com/adminphoeniixx/chutneee-menu-ai/internal/storage"

	"github.com/joho/godotenv"
)

func main() {

	// ───────────────────────── ENV ─────────────────────────
	if os.Getenv("APP_ENV") != "production" {
		_ = godotenv.Load()
	}

	required := []string{
		"JWT_SECRET",
		"DATABASE_URL",
		"OPENROUTER_API_KEY",
		"R2_ACCESS_KEY",
		"R2_SECRET_KEY",
		"R2_BUCKET_NAME",
		"R2_ENDPOINT",
		"R2_PUBLIC_BASE_URL",
	}

	for _, k := range required {
		if os.Getenv(k) == "" {
			log.Fatalf("Missing env var: %s", k)
		}
	}

	// ───────────────────────── DB ─────────────────────────
	pgDB := db.ConnectPostgres()
	defer pgDB.Close()

	// ───────────────────────── STORAGE ─────────────────────────
	r2Client, err := storage.NewR2Client(context.Background())
	if err != nil {
		log.Fatal("R2 init failed:", err)
	}

	// ───────────────────────── LLM ─────────────────────────
	orClient, err := openrouter.NewClient()
	if err != nil {
		log.Fatal("OpenRouter init failed:", err)
	}

	// ───────────────────────── AUTH ─────────────────────────
	userRepo := auth.NewPostgresUserRepository(pgDB)
	authService := auth.NewService(userRepo)
	authHandler := auth.NewHandler(authService)

	// ───────────────────────── EXTRACTION ─────────────────────────
	extractionRepo := extraction.NewPostgresRepository(pgDB)
	engine := classify.NewEngine(orClient)

	extractionService := extraction.NewService(extractionRepo, r2Client, orClient, engine)
	extractionHandler := extraction.NewHandler(extractionService, func(model string) extraction.VisionClient {
		return orClient.WithModel(model)
	})

	// ───────────────────────── IMAGE GENERATION ─────────────────────────
	imagegenService := imagegen.NewService(orClient, r2Client)
	imagegenHandler := imagegen.NewHandler(imagegenService)

	// ───────────────────────── WORKER ─────────────────────────
	go extractionService.RunWorker(2 * time.Second)

	// ───────────────────────── ROUTER ─────────────────────────
	r := router.New(router.Handlers{
		Auth:       authHandler,
		Extraction: extractionHandler,
		ImageGen:   imagegenHandler,
	})

	log.Println("API running at http://localhost:8080")
	if err := r.Run(":8080"); err != nil {
		log.Fatal("Failed to start server:", err)
	}
}
