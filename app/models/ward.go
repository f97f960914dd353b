package models

import (
	"time"

	"github.com/go-playground/validator/v10"
)

// Local body type codes as they appear in the ward reference data.
const (
	LOCAL_BODY_PANCHAYAT    = "P"
	LOCAL_BODY_MUNICIPALITY = "M"
	LOCAL_BODY_CORPORATION  = "C"
)

// Ward is one administrative ward, the smallest sponsorable unit. The rows
// are reference data created by import; the cart engine never mutates them.
// IsSponsored/SponsoredUntil are lock fields written at order activation and
// cleared on cancellation. Availability reads derive occupancy from the
// sponsorship ledger instead of trusting these fields (see internal/pkg/occupancy).
type Ward struct {
	ID             uint       `gorm:"primaryKey" json:"id"`
	WardName       string     `gorm:"type:varchar(150);not null;index" json:"ward_name" validate:"required,max=150"`
	LocalBodyName  string     `gorm:"type:varchar(150);not null;index" json:"local_body_name" validate:"required,max=150"`
	LocalBodyType  string     `gorm:"type:varchar(5);not null;index:idx_wards_subdistrict_type,priority:2" json:"local_body_type" validate:"required"`
	District       string     `gorm:"type:varchar(100);not null;index" json:"district" validate:"required,max=100"`
	Subdistrict    string     `gorm:"type:varchar(100);not null;index:idx_wards_subdistrict_type,priority:1" json:"subdistrict" validate:"required,max=100"`
	Zone           string     `gorm:"type:varchar(100);not null;index" json:"zone" validate:"required,max=100"`
	State          string     `gorm:"type:varchar(100);not null" json:"state" validate:"required,max=100"`
	IsSponsored    bool       `gorm:"default:false;index" json:"is_sponsored"`
	SponsoredUntil *time.Time `gorm:"type:timestamp;default:null;index" json:"sponsored_until,omitempty"`
	CreatedAt      time.Time  `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt      time.Time  `gorm:"autoUpdateTime" json:"updated_at"`
}

func (w *Ward) Validate() error {
	v := validator.New()

	return v.Struct(w)
}

// TypeCode returns the normalized one-letter local body type code.
func (w *Ward) TypeCode() string {
	if w.LocalBodyType == "" {
		return LOCAL_BODY_PANCHAYAT
	}
	c := w.LocalBodyType[:1]
	switch c {
	case "p":
		return LOCAL_BODY_PANCHAYAT
	case "m":
		return LOCAL_BODY_MUNICIPALITY
	case "c":
		return LOCAL_BODY_CORPORATION
	}
	return c
}

// IsRural reports whether the ward belongs to a rural (Panchayat) local body.
func (w *Ward) IsRural() bool {
	return w.TypeCode() == LOCAL_BODY_PANCHAYAT
}
