package database

import (
	"fmt"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/themisvote/themis/backend/internal/models"
)

// Open bootstraps a SQLite database using the provided filesystem path.
func Open(dbPath string) (*gorm.DB, error) {
	db, err := gorm.Open(sqlite.Open(dbPath), &gorm.Config{})
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}

	return db, nil
}

// Migrate establishes the schema and seeds required configuration rows.
// It runs once at startup; request paths assume the schema exists and
// fail loudly if it does not, rather than repairing it on the fly.
func Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(
		&models.Precinct{},
		&models.AddressRule{},
		&models.ElectionPrecinctAssignment{},
		&models.Election{},
		&models.Student{},
		&models.Setting{},
		&models.Notification{},
	); err != nil {
		return fmt.Errorf("auto migrate: %w", err)
	}

	// required settings rows; existing values are left untouched
	defaults := []models.Setting{
		{Key: "current_semester", Value: "1st", Category: "academic", Type: "string"},
		{Key: "operator_token_hash", Value: "", Category: "auth", Type: "string"},
	}
	for _, setting := range defaults {
		if err := db.Where(models.Setting{Key: setting.Key}).FirstOrCreate(&setting).Error; err != nil {
			return fmt.Errorf("seed setting %s: %w", setting.Key, err)
		}
	}

	return nil
}
