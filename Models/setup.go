package Models

import (
	"fmt"
	"log"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

var DB *gorm.DB

// Connect opens the local cache database and migrates its schema. The cache
// only holds the session and not-yet-submitted drafts; all records of note
// live on the backend.
func Connect(path string) (*gorm.DB, error) {
	connection, err := gorm.Open(sqlite.Open(path), &gorm.Config{})
	if err != nil {
		return nil, fmt.Errorf("failed to open cache database %s: %w", path, err)
	}

	if err := connection.AutoMigrate(
		&SessionRow{},
		&TravelDraft{},
	); err != nil {
		return nil, fmt.Errorf("failed to migrate cache schema: %w", err)
	}

	DB = connection
	log.Printf("Cache database ready at %s", path)
	return connection, nil
}
