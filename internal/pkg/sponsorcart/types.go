package sponsorcart

import (
	"time"

	"github.com/google/uuid"
)

// Level identifies a node depth in the ward hierarchy. LevelWard is the
// synthetic level used when an individual ward add is checked against bulk
// claims already in the cart.
type Level string

const (
	LevelState       Level = "state"
	LevelZone        Level = "zone"
	LevelDistrict    Level = "district"
	LevelSubdistrict Level = "subdistrict"
	LevelType        Level = "type"
	LevelLocalBody   Level = "localbody"
	LevelWard        Level = "ward"
)

// HierarchyData is the full ancestor-name snapshot carried by a bulk cart
// entry, populated down to the entry's level.
type HierarchyData struct {
	State         string `json:"state,omitempty"`
	Zone          string `json:"zone,omitempty"`
	District      string `json:"district,omitempty"`
	Subdistrict   string `json:"subdistrict,omitempty"`
	LocalBodyType string `json:"local_body_type,omitempty"`
	LocalBodyName string `json:"local_body_name,omitempty"`
}

// WardRef is the ward snapshot embedded in an individual cart entry.
type WardRef struct {
	ID            uint   `json:"id"`
	WardName      string `json:"ward_name"`
	LocalBodyName string `json:"local_body_name"`
	LocalBodyType string `json:"local_body_type"`
	District      string `json:"district"`
	Zone          string `json:"zone"`
}

// CartItem is one pending selection. Individual entries reference a single
// ward; bulk entries claim every ward under a hierarchy node and carry the
// node's ancestor snapshot for conflict detection.
type CartItem struct {
	ID                  string    `json:"id"`
	Ward                *WardRef  `json:"ward,omitempty"`
	ExecutivesSponsored int       `json:"executives_sponsored"`
	MonthlyRate         int64     `json:"monthly_rate"`
	CostPerMonth        int64     `json:"cost_per_month"`
	StartDate           time.Time `json:"start_date"`
	EndDate             time.Time `json:"end_date"`

	IsBulk         bool           `json:"is_bulk,omitempty"`
	BulkLevel      Level          `json:"bulk_level,omitempty"`
	BulkIdentifier string         `json:"bulk_identifier,omitempty"`
	BulkWardCount  int            `json:"bulk_ward_count,omitempty"`
	DisplayName    string         `json:"display_name,omitempty"`
	Hierarchy      *HierarchyData `json:"hierarchy,omitempty"`
}

// ConflictResult is the decision of the hierarchy conflict detector.
type ConflictResult struct {
	HasConflict     bool      `json:"has_conflict"`
	Message         string    `json:"message,omitempty"`
	ConflictingItem *CartItem `json:"conflicting_item,omitempty"`
}

// OverlapResult is the decision of the ward date-overlap detector.
// ConflictingWards carries the full ward-name list for programmatic use;
// Message truncates it for display.
type OverlapResult struct {
	HasOverlap       bool     `json:"has_overlap"`
	Message          string   `json:"message,omitempty"`
	ConflictingWards []string `json:"conflicting_wards,omitempty"`
}

// Severity classifies an outcome for user-facing notification mapping.
type Severity string

const (
	SeveritySuccess Severity = "success"
	SeverityInfo    Severity = "info"
	SeverityWarn    Severity = "warn"
	SeverityError   Severity = "error"
)

// Outcome is the structured result of a cart mutation. Business rejections
// (validation, conflict, overlap) are outcomes, not errors: the cart is left
// untouched and the caller maps severity/summary/detail to a notification.
type Outcome struct {
	OK       bool     `json:"ok"`
	Severity Severity `json:"severity"`
	Summary  string   `json:"summary"`
	Detail   string   `json:"detail,omitempty"`
	Updated  bool     `json:"updated,omitempty"`
}

func successOutcome(summary, detail string, updated bool) Outcome {
	return Outcome{OK: true, Severity: SeveritySuccess, Summary: summary, Detail: detail, Updated: updated}
}

func validationOutcome(detail string) Outcome {
	return Outcome{Severity: SeverityWarn, Summary: "Validation Error", Detail: detail}
}

func conflictOutcome(detail string) Outcome {
	return Outcome{Severity: SeverityWarn, Summary: "Selection Conflict", Detail: detail}
}

// NewItemID generates a cart item identifier.
func NewItemID() string {
	return "cart_" + uuid.NewString()
}
