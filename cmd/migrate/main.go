package main

import (
	"fmt"
	"log"
	"strings"

	"subscription-tracker-be/internal/config"
	"subscription-tracker-be/internal/entity"
	"subscription-tracker-be/internal/model"
	"subscription-tracker-be/pkg/database"
)

func main() {
	// 1. Load configuration (.env included)
	cfg := config.Load()
	if cfg.Database.Connection == "" {
		log.Fatal("Error: DB_CONNECTION_STRING is not set")
	}

	// 2. Connect to Database using existing GORM helpers
	db, err := database.NewGormDBFromDSN(cfg.Database.Connection, database.DefaultOptions(cfg.IsProduction()))
	if err != nil {
		log.Fatal("Error: Failed to connect to database:", err)
	}

	log.Println("Starting GORM Migration...")

	// 3. Pre-Migration: extensions and enum types (AutoMigrate does not create them)
	log.Println("Step 1: Setting up Extensions and Enums...")
	setupSQL := append([]string{`CREATE EXTENSION IF NOT EXISTS pgcrypto;`}, enumStatements()...)
	for _, sql := range setupSQL {
		if err := db.Exec(sql).Error; err != nil {
			log.Fatalf("Error: setup SQL failed: %v", err)
		}
	}

	// 4. AutoMigrate
	log.Println("Step 2: Running AutoMigrate...")
	if err := db.AutoMigrate(&model.User{}, &model.Subscription{}); err != nil {
		log.Fatalf("Error: AutoMigrate failed: %v", err)
	}

	log.Println("✅ Migration completed")
}

// enumStatements creates each enum type once, from the values the entity accepts.
func enumStatements() []string {
	enums := []struct {
		name   string
		values []string
	}{
		{"subscription_currency", toStrings(entity.Currencies)},
		{"subscription_frequency", toStrings(entity.Frequencies)},
		{"subscription_category", toStrings(entity.Categories)},
		{"subscription_status", toStrings(entity.SubscriptionStatuses)},
	}

	statements := make([]string, 0, len(enums))
	for _, e := range enums {
		quoted := make([]string, len(e.values))
		for i, v := range e.values {
			quoted[i] = "'" + v + "'"
		}
		statements = append(statements, fmt.Sprintf(
			`DO $$ BEGIN IF NOT EXISTS (SELECT 1 FROM pg_type WHERE typname = '%s') THEN CREATE TYPE %s AS ENUM (%s); END IF; END $$;`,
			e.name, e.name, strings.Join(quoted, ", "),
		))
	}
	return statements
}

func toStrings[T ~string](values []T) []string {
	out := make([]string, len(values))
	for i, v := range values {
		out[i] = string(v)
	}
	return out
}
