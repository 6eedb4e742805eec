package database

import (
	"github.com/2023371019/CheckMeKit/internal/config"
	"github.com/2023371019/CheckMeKit/internal/models"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

// Open connects to the database and runs the schema migrations. The handle is
// returned instead of stored in a package global so callers can substitute a
// test store.
func Open(cfg *config.Config) (*gorm.DB, error) {
	db, err := gorm.Open(postgres.Open(cfg.PostgresURI), &gorm.Config{TranslateError: true})
	if err != nil {
		return nil, err
	}
	if err := Migrate(db); err != nil {
		return nil, err
	}
	return db, nil
}

// Migrate creates or updates the schema for every entity.
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&models.User{},
		&models.Doctor{},
		&models.CompanyAccount{},
		&models.Product{},
		&models.Sale{},
		&models.SaleLine{},
		&models.ClinicalReport{},
		&models.VitalRecord{},
	)
}
