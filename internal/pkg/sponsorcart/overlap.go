package sponsorcart

import (
	"fmt"
	"strings"
	"time"
)

const overlapDateFormat = "02/01/2006"

// datesOverlap tests closed intervals; touching boundaries count as overlap.
func datesOverlap(newStart, newEnd, existingStart, existingEnd time.Time) bool {
	return !newStart.After(existingEnd) && !newEnd.Before(existingStart)
}

// CheckWardOverlap detects whether a proposed date range for a single ward
// intersects the range already held by that ward's individual cart entry.
// Bulk entries are not consulted; hierarchy conflict detection already
// prevents bulk double-claims of the same scope.
func CheckWardOverlap(wardID uint, newStart, newEnd time.Time, items []CartItem) OverlapResult {
	var existing *CartItem
	for i := range items {
		if !items[i].IsBulk && items[i].Ward != nil && items[i].Ward.ID == wardID {
			existing = &items[i]
			break
		}
	}
	if existing == nil {
		return OverlapResult{}
	}

	if datesOverlap(newStart, newEnd, existing.StartDate, existing.EndDate) {
		return OverlapResult{
			HasOverlap: true,
			Message: fmt.Sprintf(
				"This ward is already in your cart with sponsorship from %s to %s. Please choose different dates or remove the existing item first.",
				existing.StartDate.Format(overlapDateFormat),
				existing.EndDate.Format(overlapDateFormat),
			),
		}
	}

	return OverlapResult{}
}

// CheckBulkOverlap applies the single-ward overlap check across a batch and
// aggregates the result. The message lists up to 3 conflicting ward names
// with a truncation indicator; ConflictingWards carries the full list.
func CheckBulkOverlap(wards []WardRef, newStart, newEnd time.Time, items []CartItem) OverlapResult {
	var conflicting []string
	for _, ward := range wards {
		if overlap := CheckWardOverlap(ward.ID, newStart, newEnd, items); overlap.HasOverlap {
			conflicting = append(conflicting, ward.WardName)
		}
	}

	if len(conflicting) > 0 {
		shown := conflicting
		suffix := ""
		if len(shown) > 3 {
			shown = shown[:3]
			suffix = "..."
		}
		return OverlapResult{
			HasOverlap: true,
			Message: fmt.Sprintf("%d ward(s) already in cart with overlapping dates: %s%s",
				len(conflicting), strings.Join(shown, ", "), suffix),
			ConflictingWards: conflicting,
		}
	}

	return OverlapResult{ConflictingWards: []string{}}
}
