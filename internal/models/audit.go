package models

import "gorm.io/gorm"

// AuditEntry records one successful mutating console operation.
type AuditEntry struct {
	ID         string `json:"id" gorm:"primaryKey;type:varchar(36)"`
	Actor      string `json:"actor" gorm:"type:varchar(100);index"`
	Action     string `json:"action" gorm:"type:varchar(50)"`
	EntityType string `json:"entityType" gorm:"type:varchar(50)"`
	EntityID   string `json:"entityId" gorm:"type:varchar(36);index"`
	Detail     string `json:"detail" gorm:"type:text"`
	gorm.Model        // Embed gorm.Model for CreatedAt, UpdatedAt, DeletedAt
}
