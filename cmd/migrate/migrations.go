package main

import (
	"gorm.io/gorm"

	"github.com/ace-TI85/dev-connector/internal/models"
)

// registerModels returns all models that need migration.
func registerModels() []interface{} {
	return []interface{}{
		&models.User{},
		&models.Profile{},
		&models.Post{},
	}
}

// runMigrations executes all database migrations. Profiles and posts need
// pgcrypto for gen_random_uuid on older Postgres versions.
func runMigrations(db *gorm.DB) error {
	if err := db.Exec("CREATE EXTENSION IF NOT EXISTS pgcrypto").Error; err != nil {
		return err
	}
	return db.AutoMigrate(registerModels()...)
}
