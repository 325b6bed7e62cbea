package repositories

import (
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/ngquocbao99/gash-dashboard-sub001/internal/models"
)

// GORMAuditRepository is a GORM implementation of AuditRepository.
type GORMAuditRepository struct {
	db *gorm.DB
}

// NewGORMAuditRepository creates a new instance of GORMAuditRepository.
func NewGORMAuditRepository(db *gorm.DB) *GORMAuditRepository {
	return &GORMAuditRepository{
		db: db,
	}
}

// Record appends an audit entry.
func (r *GORMAuditRepository) Record(entry *models.AuditEntry) error {
	if entry.ID == "" {
		entry.ID = uuid.New().String()
	}
	if err := r.db.Create(entry).Error; err != nil {
		return fmt.Errorf("failed to record audit entry: %w", err)
	}
	return nil
}

// List returns the most recent audit entries, newest first.
func (r *GORMAuditRepository) List(limit int) ([]models.AuditEntry, error) {
	if limit <= 0 {
		limit = 50
	}
	var entries []models.AuditEntry
	if err := r.db.Order("created_at DESC").Limit(limit).Find(&entries).Error; err != nil {
		return nil, fmt.Errorf("failed to list audit entries: %w", err)
	}
	return entries, nil
}
