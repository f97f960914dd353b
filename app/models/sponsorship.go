package models

import (
	"encoding/json"
	"time"

	"github.com/WeOneApp/wardsponsor/internal/pkg/sponsorcart"
)

// Sponsorship order lifecycle.
const (
	SPONSORSHIP_PENDING   = "pending"
	SPONSORSHIP_ACTIVE    = "active"
	SPONSORSHIP_EXPIRED   = "expired"
	SPONSORSHIP_CANCELLED = "cancelled"
)

// Sponsorship is one sponsorship order: the processed cart snapshot plus the
// payment lifecycle. Created as pending on checkout submission, flipped to
// active on verified payment (which locks the referenced wards), and to
// expired on cancellation or natural elapse.
type Sponsorship struct {
	ID              uint       `gorm:"primaryKey" json:"id"`
	UserID          uint       `gorm:"not null;index" json:"user_id"`
	SponsorName     string     `gorm:"type:varchar(150);not null" json:"sponsor_name"`
	SponsorEmail    string     `gorm:"type:varchar(200);not null" json:"sponsor_email"`
	SponsorType     string     `gorm:"type:varchar(20);default:'individual'" json:"sponsor_type"`
	TotalAmount     int64      `gorm:"not null" json:"total_amount"` // rupees, GST included
	Status          string     `gorm:"type:varchar(20);not null;default:'pending';index" json:"status"`
	DurationMonths  int        `gorm:"not null;default:1" json:"duration_months"`
	CartJSON        string     `gorm:"type:longtext;not null" json:"-"`
	StartDate       *time.Time `gorm:"type:timestamp;default:null" json:"start_date,omitempty"`
	EndDate         *time.Time `gorm:"type:timestamp;default:null;index" json:"end_date,omitempty"`
	ProviderOrderID string     `gorm:"type:varchar(100);default:'';index" json:"provider_order_id"`
	PaymentID       string     `gorm:"type:varchar(100);default:''" json:"payment_id"`
	PaymentDate     *time.Time `gorm:"type:timestamp;default:null" json:"payment_date,omitempty"`
	CreatedAt       time.Time  `gorm:"autoCreateTime;index" json:"created_at"`
	UpdatedAt       time.Time  `gorm:"autoUpdateTime" json:"updated_at"`
}

// SetCart serializes the cart snapshot onto the order.
func (s *Sponsorship) SetCart(items []sponsorcart.CartItem) error {
	data, err := json.Marshal(items)
	if err != nil {
		return err
	}
	s.CartJSON = string(data)
	return nil
}

// Cart deserializes the stored cart snapshot.
func (s *Sponsorship) Cart() ([]sponsorcart.CartItem, error) {
	if s.CartJSON == "" {
		return nil, nil
	}
	var items []sponsorcart.CartItem
	if err := json.Unmarshal([]byte(s.CartJSON), &items); err != nil {
		return nil, err
	}
	return items, nil
}

// IsPending reports whether the order still awaits payment.
func (s *Sponsorship) IsPending() bool {
	return s.Status == SPONSORSHIP_PENDING
}

// IsActive reports whether the order currently holds its ward locks.
func (s *Sponsorship) IsActive() bool {
	return s.Status == SPONSORSHIP_ACTIVE
}
