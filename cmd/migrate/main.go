package main

import (
	"log"
	"os"

	"tutorly-be/internal/model"
	"tutorly-be/pkg/database"

	"github.com/fatih/color"
	"github.com/joho/godotenv"
)

func main() {
	// 1. Load Environment Variables
	if err := godotenv.Load(); err != nil {
		log.Println("Info: No .env file found, using system env")
	}

	dsn := os.Getenv("DB_CONNECTION_STRING")
	if dsn == "" {
		color.Red("Error: DB_CONNECTION_STRING is not set")
		os.Exit(1)
	}

	// 2. Connect to Database using existing GORM helpers
	db, err := database.NewGormDBFromDSN(dsn, false)
	if err != nil {
		color.Red("Error: Failed to connect to database: %v", err)
		os.Exit(1)
	}

	color.Cyan("Starting GORM Migration...")

	// 3. Extensions (gen_random_uuid lives in pgcrypto on older Postgres)
	color.Yellow("Step 1: Setting up extensions...")
	if err := db.Exec(`CREATE EXTENSION IF NOT EXISTS pgcrypto;`).Error; err != nil {
		color.Yellow("Warn: Failed to create pgcrypto: %v. Continuing...", err)
	}

	// 4. AutoMigrate
	models := []interface{}{
		&model.WaitlistEntry{},
		&model.SessionReport{},
	}
	color.Yellow("Step 2: Running AutoMigrate for %d tables...", len(models))

	for _, m := range models {
		if err := db.AutoMigrate(m); err != nil {
			color.Red("Error: AutoMigrate failed for %T: %v", m, err)
			os.Exit(1)
		}
		color.Green("  ✓ %T", m)
	}

	color.Green("Migration complete.")
}
