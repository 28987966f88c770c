package main

import (
	"context"
	"log"
	"os"
	"time"

	"github.com/adminphoeniixx/chutneee-menu-ai/internal/classify"
	"github.com/adminphoeniixx/chutneee-menu-ai/internal/db"
	"github.com/adminphoeniixx/chutneee-menu-ai/internal/extraction"
	"github.com/adminphoeniixx/chutneee-menu-ai/internal/openrouter"
	"github.com/adminphoeniixx/chutneee-menu-ai/internal/storage"

	"github.com/joho/godotenv"
)

func main() {
	// Load environment variables
	if err := godotenv.Load(); err != nil {
		log.Println("Note: No .env file found, using environment variables")
	}

	log.Println("Extraction worker starting...")

	if os.Getenv("DATABASE_URL") == "" {
		log.Fatal("DATABASE_URL is not set in .env")
	}

	pgDB := db.ConnectPostgres()
	defer pgDB.Close()

	log.Println("Connected to PostgreSQL")

	r2Client, err := storage.NewR2Client(context.Background())
	if err != nil {
		log.Fatal("R2 init failed:", err)
	}

	orClient, err := openrouter.NewClient()
	if err != nil {
		log.Fatal("OpenRouter init failed:", err)
	}

	repo := extraction.NewPostgresRepository(pgDB)
	engine := classify.NewEngine(orClient)
	service := extraction.NewService(repo, r2Client, orClient, engine)

	log.Println("Worker initialized, polling every 2 seconds. Press Ctrl+C to stop.")

	service.RunWorker(2 * time.Second)
}
