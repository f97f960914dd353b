package repository

import (
	"time"

	"github.com/WeOneApp/wardsponsor/app/models"
	"gorm.io/gorm"
)

// UserRepository defines the interface for user-related database operations
type UserRepository interface {
	Create(user *models.User) error
	GetByID(id uint) (*models.User, error)
	GetByEmail(email string) (*models.User, error)
	Update(user *models.User) error
	List(offset, limit int) ([]models.User, error)
	Count() (int64, error)
	Search(query string, offset, limit int) ([]models.User, error)
}

// WardQuery narrows ward lookups to a hierarchy node. Empty fields are
// ignored; LocalBodyType holds the single-letter type code.
type WardQuery struct {
	Zone          string
	District      string
	Subdistrict   string
	LocalBodyType string
	LocalBodyName string
}

// WardRepository defines the interface for ward-related database operations
type WardRepository interface {
	CreateBatch(wards []models.Ward) error
	GetByID(id uint) (*models.Ward, error)
	GetByNameAndLocalBody(wardName, localBodyName string) (*models.Ward, error)
	Find(query WardQuery) ([]models.Ward, error)
	Zones() ([]string, error)
	Districts(zone string) ([]string, error)
	Subdistricts(district string) ([]string, error)
	LocalBodies(subdistrict, typeCode string) ([]string, error)
}

// SponsorshipRepository defines the interface for sponsorship order operations
type SponsorshipRepository interface {
	GetByID(id uint) (*models.Sponsorship, error)
	GetByProviderOrderID(orderID string) (*models.Sponsorship, error)
	GetByUserID(userID uint) ([]models.Sponsorship, error)
	List(offset, limit int) ([]models.Sponsorship, error)
	ListByStatus(status string, offset, limit int) ([]models.Sponsorship, error)
	Count() (int64, error)
	Search(query string, offset, limit int) ([]models.Sponsorship, error)
	// CountingOrders returns every order that can hold a ward right now:
	// all active orders plus pending orders created after cutoff.
	CountingOrders(cutoff time.Time) ([]models.Sponsorship, error)
}

// QueueRepository defines the interface for cache/queue operations
type QueueRepository interface {
	GetValue(key string) (string, error)
	GetTTL(key string) (time.Duration, error)
	GetListLength(key string) (int64, error)
	FindKeysByPatterns(patterns []string) ([]string, error)
	DeleteKeys(keys []string) (int64, error)
}

// Repositories struct holds all repository instances
type Repositories struct {
	User        UserRepository
	Ward        WardRepository
	Sponsorship SponsorshipRepository
	Queue       QueueRepository
}

// NewRepositories creates a new instance of all repositories
func NewRepositories(db *gorm.DB) *Repositories {
	return &Repositories{
		User:        NewUserRepository(db),
		Ward:        NewWardRepository(db),
		Sponsorship: NewSponsorshipRepository(db),
		Queue:       NewQueueRepository(),
	}
}
