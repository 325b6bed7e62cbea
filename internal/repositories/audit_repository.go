package repositories

import "github.com/ngquocbao99/gash-dashboard-sub001/internal/models"

// AuditRepository defines the interface for the console's audit trail.
type AuditRepository interface {
	Record(entry *models.AuditEntry) error
	List(limit int) ([]models.AuditEntry, error)
}
