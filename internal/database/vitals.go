package database

import (
	"context"

	"github.com/2023371019/CheckMeKit/internal/models"

	"gorm.io/gorm"
)

// VitalsFeed reads device vital-sign records. The device feed itself is an
// external collaborator; this is the store-backed view the API serves.
type VitalsFeed struct {
	db *gorm.DB
}

func NewVitalsFeed(db *gorm.DB) *VitalsFeed {
	return &VitalsFeed{db: db}
}

// Latest returns the most recent records, newest first.
func (f *VitalsFeed) Latest(ctx context.Context, limit int) ([]models.VitalRecord, error) {
	var records []models.VitalRecord
	err := f.db.WithContext(ctx).Order("date DESC").Limit(limit).Find(&records).Error
	return records, err
}
