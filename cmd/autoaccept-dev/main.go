package main

import (
	"fmt"
	"log"
	"os"

	"github.com/joho/godotenv"

	"autoaccept/internal/app"
)

func main() {
	// Load .env first so the checks below see it; app.New does not override set values
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using system environment variables")
	}

	// Local runs keep everything in memory and poll Telegram
	os.Setenv("USE_MOCK_DB", "true")
	os.Setenv("WEBHOOK_MODE", "false")
	if os.Getenv("LOG_LEVEL") == "" {
		os.Setenv("LOG_LEVEL", "debug")
	}

	for _, key := range []string{"BOT_TOKEN", "BOT_USERNAME", "ADMIN_USER_ID"} {
		if os.Getenv(key) == "" {
			log.Printf("⚠️  %s not set. Please set it in your .env file or environment.", key)
		}
	}

	log.Println("Starting application with in-memory storage...")
	fmt.Println()

	application, err := app.New()
	if err != nil {
		log.Fatalf("Failed to create application: %v", err)
	}

	// Run blocks until SIGINT or SIGTERM
	if err := application.Run(); err != nil {
		log.Fatalf("Application error: %v", err)
	}
}
