package models

import "time"

// Payment provider constants used across payment-related models.
const (
	PaymentProviderRazorpay = "razorpay"
)

// Payment event types recorded along the checkout flow.
const (
	PaymentEventOrderCreated      = "order_created"
	PaymentEventVerified          = "payment_verified"
	PaymentEventSignatureMismatch = "signature_mismatch"
	PaymentEventCancelled         = "order_cancelled"
)

// PaymentEvent stores gateway callback payloads with deduplication metadata
// for idempotent processing and a security audit trail; signature mismatches
// are kept with SignatureValid=false and are never retried.
type PaymentEvent struct {
	ID                uint       `gorm:"primaryKey" json:"id"`
	Provider          string     `gorm:"type:varchar(20);not null;index:ux_payment_events_provider_order,priority:1" json:"provider"`
	ProviderOrderID   string     `gorm:"type:varchar(100);not null;default:'';index:ux_payment_events_provider_order,priority:2" json:"provider_order_id"`
	ProviderPaymentID string     `gorm:"type:varchar(100);not null;default:''" json:"provider_payment_id"`
	SponsorshipID     uint       `gorm:"not null;index" json:"sponsorship_id"`
	EventType         string     `gorm:"type:varchar(50);not null;index" json:"event_type"`
	PayloadJSON       string     `gorm:"type:longtext" json:"payload_json"`
	SignatureValid    bool       `gorm:"default:false;index" json:"signature_valid"`
	ProcessedAt       *time.Time `gorm:"type:timestamp;default:null" json:"processed_at,omitempty"`
	ProcessingError   string     `gorm:"type:text" json:"processing_error"`
	CreatedAt         time.Time  `gorm:"autoCreateTime;index" json:"created_at"`
	UpdatedAt         time.Time  `gorm:"autoUpdateTime" json:"updated_at"`
}
