package repository

import (
	"time"

	"github.com/WeOneApp/wardsponsor/app/models"
	"gorm.io/gorm"
)

// sponsorshipRepository implements the SponsorshipRepository interface
type sponsorshipRepository struct {
	db *gorm.DB
}

// NewSponsorshipRepository creates a new sponsorship repository instance
func NewSponsorshipRepository(db *gorm.DB) SponsorshipRepository {
	return &sponsorshipRepository{db: db}
}

// GetByID retrieves a sponsorship by its ID
func (r *sponsorshipRepository) GetByID(id uint) (*models.Sponsorship, error) {
	var s models.Sponsorship
	err := r.db.First(&s, id).Error
	if err != nil {
		return nil, err
	}
	return &s, nil
}

// GetByProviderOrderID retrieves a sponsorship by its payment gateway order ID
func (r *sponsorshipRepository) GetByProviderOrderID(orderID string) (*models.Sponsorship, error) {
	var s models.Sponsorship
	err := r.db.Where("provider_order_id = ?", orderID).First(&s).Error
	if err != nil {
		return nil, err
	}
	return &s, nil
}

// GetByUserID retrieves every sponsorship of one user, newest first
func (r *sponsorshipRepository) GetByUserID(userID uint) ([]models.Sponsorship, error) {
	var orders []models.Sponsorship
	err := r.db.Where("user_id = ?", userID).Order("created_at DESC").Find(&orders).Error
	return orders, err
}

// List retrieves sponsorships with pagination
func (r *sponsorshipRepository) List(offset, limit int) ([]models.Sponsorship, error) {
	var orders []models.Sponsorship
	err := r.db.Offset(offset).Limit(limit).Order("created_at DESC").Find(&orders).Error
	return orders, err
}

// ListByStatus retrieves sponsorships in one status with pagination
func (r *sponsorshipRepository) ListByStatus(status string, offset, limit int) ([]models.Sponsorship, error) {
	var orders []models.Sponsorship
	err := r.db.Where("status = ?", status).Offset(offset).Limit(limit).
		Order("created_at DESC").Find(&orders).Error
	return orders, err
}

// Count returns the total number of sponsorships
func (r *sponsorshipRepository) Count() (int64, error) {
	var count int64
	err := r.db.Model(&models.Sponsorship{}).Count(&count).Error
	return count, err
}

// Search finds sponsorships by sponsor name, email or gateway order ID
func (r *sponsorshipRepository) Search(query string, offset, limit int) ([]models.Sponsorship, error) {
	var orders []models.Sponsorship
	searchTerm := "%" + query + "%"
	err := r.db.Where("sponsor_name LIKE ? OR sponsor_email LIKE ? OR provider_order_id LIKE ?",
		searchTerm, searchTerm, searchTerm).
		Offset(offset).Limit(limit).
		Order("created_at DESC").Find(&orders).Error
	return orders, err
}

// CountingOrders returns the orders the occupancy resolver has to consider:
// every active order plus pending orders still inside the lock window.
func (r *sponsorshipRepository) CountingOrders(cutoff time.Time) ([]models.Sponsorship, error) {
	var orders []models.Sponsorship
	err := r.db.Where("status = ? OR (status = ? AND created_at > ?)",
		models.SPONSORSHIP_ACTIVE, models.SPONSORSHIP_PENDING, cutoff).
		Find(&orders).Error
	return orders, err
}
