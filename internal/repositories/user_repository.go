package repositories

import "github.com/ngquocbao99/gash-dashboard-sub001/internal/models"

// UserRepository defines the interface for administrator account data access.
type UserRepository interface {
	Create(user *models.User) error
	GetByUsername(username string) (*models.User, error)
	GetByEmail(email string) (*models.User, error)
	GetByID(id string) (*models.User, error)
}
