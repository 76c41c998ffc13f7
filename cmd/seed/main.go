package main

import (
	"log"

	"github.com/katnyeung/beans-finder-sub000/internal/config"
	"github.com/katnyeung/beans-finder-sub000/internal/model"
	"github.com/katnyeung/beans-finder-sub000/pkg/database"
)

func main() {
	cfg := config.Load()

	db, err := database.NewGormDB(cfg.Database.Connection)
	if err != nil {
		log.Fatalf("Unable to connect to GORM DB: %v", err)
	}

	if err := db.Exec("CREATE EXTENSION IF NOT EXISTS vector").Error; err != nil {
		log.Fatalf("Unable to create pgvector extension: %v", err)
	}
	if err := db.AutoMigrate(&model.Product{}); err != nil {
		log.Fatalf("Migration failed: %v", err)
	}

	SeedCatalog(db)
	log.Println("✅ Seeding complete")
}
