package repositories

import (
	"sync"

	"github.com/google/uuid"

	"github.com/ngquocbao99/gash-dashboard-sub001/internal/models"
)

// MockAuditRepository is an in-memory implementation of AuditRepository.
type MockAuditRepository struct {
	entries []models.AuditEntry
	mu      sync.RWMutex
}

// NewMockAuditRepository creates a new instance of MockAuditRepository.
func NewMockAuditRepository() *MockAuditRepository {
	return &MockAuditRepository{}
}

// Record appends an audit entry.
func (r *MockAuditRepository) Record(entry *models.AuditEntry) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if entry.ID == "" {
		entry.ID = uuid.New().String()
	}
	r.entries = append(r.entries, *entry)
	return nil
}

// List returns the most recent entries, newest first.
func (r *MockAuditRepository) List(limit int) ([]models.AuditEntry, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if limit <= 0 || limit > len(r.entries) {
		limit = len(r.entries)
	}
	out := make([]models.AuditEntry, 0, limit)
	for i := len(r.entries) - 1; i >= 0 && len(out) < limit; i-- {
		out = append(out, r.entries[i])
	}
	return out, nil
}
