package sponsorcart

import (
	"fmt"
	"math"
	"time"
)

// Cart is the in-memory, per-session selection state. All mutation methods
// validate and conflict-check against the current entries and either apply
// the change and return a success outcome, or leave the cart untouched and
// return a rejection outcome. Carts are never shared between sessions, so
// no locking happens here.
type Cart struct {
	Items []CartItem `json:"items"`
}

// AddResult pairs the mutation outcome with the affected entry.
type AddResult struct {
	Outcome Outcome
	Item    *CartItem
}

func validateDates(start, end time.Time) string {
	if start.IsZero() || end.IsZero() {
		return "Please select valid start and end dates."
	}
	if end.Before(start) {
		return "End date must not be before the start date."
	}
	return ""
}

// AddIndividual validates and upserts a single-ward entry. Re-adding a ward
// already in the cart replaces that entry in place (last write wins); the
// outcome reports whether the entry was added or updated.
func (c *Cart) AddIndividual(ward WardRef, executives int, start, end time.Time) AddResult {
	if ward.WardName == "" {
		return AddResult{Outcome: validationOutcome("Please select a ward to sponsor.")}
	}
	if executives < 1 {
		return AddResult{Outcome: validationOutcome("Executives sponsored must be at least 1.")}
	}
	if max := MaxExecutivesFor(ward.LocalBodyType); executives > max {
		return AddResult{Outcome: validationOutcome(fmt.Sprintf(
			"A %s ward supports at most %d sponsored executive(s).", TypeLabel(ward.LocalBodyType), max))}
	}
	if msg := validateDates(start, end); msg != "" {
		return AddResult{Outcome: validationOutcome(msg)}
	}

	// Individual adds can still be blocked by a bulk claim covering the
	// ward's zone or district.
	newHierarchy := HierarchyData{State: StateName, Zone: ward.Zone, District: ward.District}
	if conflict := CheckHierarchyConflict(LevelWard, newHierarchy, c.Items); conflict.HasConflict {
		return AddResult{Outcome: conflictOutcome(conflict.Message)}
	}

	item := CartItem{
		ID:                  NewItemID(),
		Ward:                &ward,
		ExecutivesSponsored: executives,
		MonthlyRate:         RatePerExecutive,
		CostPerMonth:        int64(executives) * RatePerExecutive,
		StartDate:           start,
		EndDate:             end,
	}

	for i := range c.Items {
		if !c.Items[i].IsBulk && c.Items[i].Ward != nil && c.Items[i].Ward.ID == ward.ID {
			item.ID = c.Items[i].ID
			c.Items[i] = item
			return AddResult{
				Outcome: successOutcome("Added to Cart", fmt.Sprintf("Updated sponsorship for ward %q.", ward.WardName), true),
				Item:    &c.Items[i],
			}
		}
	}

	if len(c.Items) >= MaxCartItems {
		return AddResult{Outcome: validationOutcome(fmt.Sprintf("Cart is limited to %d items.", MaxCartItems))}
	}

	c.Items = append(c.Items, item)
	return AddResult{
		Outcome: successOutcome("Added to Cart", fmt.Sprintf("Ward %q added to cart.", ward.WardName), false),
		Item:    &c.Items[len(c.Items)-1],
	}
}

// AddBulk validates and inserts a bulk hierarchy-node entry. ExecutivesSponsored
// is interpreted as "per ward". Re-selecting the exact same node (level and
// identifier) updates the existing entry in place.
func (c *Cart) AddBulk(level Level, identifier string, hierarchy HierarchyData, wardCount, executivesPerWard int, start, end time.Time, displayName string) AddResult {
	if identifier == "" {
		return AddResult{Outcome: validationOutcome("Please select an area to sponsor.")}
	}
	if executivesPerWard < 1 {
		return AddResult{Outcome: validationOutcome("Executives sponsored must be at least 1.")}
	}
	if wardCount < 1 {
		return AddResult{Outcome: validationOutcome("The selected area has no sponsorable wards.")}
	}
	if msg := validateDates(start, end); msg != "" {
		return AddResult{Outcome: validationOutcome(msg)}
	}

	if conflict := CheckHierarchyConflict(level, hierarchy, c.Items); conflict.HasConflict {
		// An exact re-selection of the same node is an update, not a conflict.
		if conflict.ConflictingItem == nil ||
			conflict.ConflictingItem.BulkLevel != level ||
			conflict.ConflictingItem.BulkIdentifier != identifier {
			return AddResult{Outcome: conflictOutcome(conflict.Message)}
		}
	}

	h := hierarchy
	item := CartItem{
		ID:                  NewItemID(),
		ExecutivesSponsored: executivesPerWard,
		MonthlyRate:         RatePerExecutive,
		CostPerMonth:        int64(wardCount) * int64(executivesPerWard) * RatePerExecutive,
		StartDate:           start,
		EndDate:             end,
		IsBulk:              true,
		BulkLevel:           level,
		BulkIdentifier:      identifier,
		BulkWardCount:       wardCount,
		DisplayName:         displayName,
		Hierarchy:           &h,
	}

	for i := range c.Items {
		if c.Items[i].IsBulk && c.Items[i].BulkLevel == level && c.Items[i].BulkIdentifier == identifier {
			item.ID = c.Items[i].ID
			c.Items[i] = item
			return AddResult{
				Outcome: successOutcome("Added to Cart", fmt.Sprintf("Updated %s selection %q.", level, identifier), true),
				Item:    &c.Items[i],
			}
		}
	}

	if len(c.Items) >= MaxCartItems {
		return AddResult{Outcome: validationOutcome(fmt.Sprintf("Cart is limited to %d items.", MaxCartItems))}
	}

	c.Items = append(c.Items, item)
	return AddResult{
		Outcome: successOutcome("Added to Cart", fmt.Sprintf("%s selection %q added to cart.", TypeLabelForLevel(level), identifier), false),
		Item:    &c.Items[len(c.Items)-1],
	}
}

// AddWardBatch adds a literal list of wards in one operation, all or
// nothing: if any ward in the batch conflicts with a bulk claim or overlaps
// an existing entry's dates, the whole batch is rejected and the cart is
// unchanged.
func (c *Cart) AddWardBatch(wards []WardRef, executives int, start, end time.Time) Outcome {
	if len(wards) == 0 {
		return validationOutcome("Please select at least one ward.")
	}
	if executives < 1 {
		return validationOutcome("Executives sponsored must be at least 1.")
	}
	if msg := validateDates(start, end); msg != "" {
		return validationOutcome(msg)
	}
	for _, ward := range wards {
		if max := MaxExecutivesFor(ward.LocalBodyType); executives > max {
			return validationOutcome(fmt.Sprintf(
				"Ward %q (%s) supports at most %d sponsored executive(s).", ward.WardName, TypeLabel(ward.LocalBodyType), max))
		}
		newHierarchy := HierarchyData{State: StateName, Zone: ward.Zone, District: ward.District}
		if conflict := CheckHierarchyConflict(LevelWard, newHierarchy, c.Items); conflict.HasConflict {
			return conflictOutcome(conflict.Message)
		}
	}

	if overlap := CheckBulkOverlap(wards, start, end, c.Items); overlap.HasOverlap {
		return conflictOutcome(overlap.Message)
	}

	if len(c.Items)+len(wards) > MaxCartItems {
		return validationOutcome(fmt.Sprintf("Cart is limited to %d items.", MaxCartItems))
	}

	for _, ward := range wards {
		c.Items = append(c.Items, CartItem{
			ID:                  NewItemID(),
			Ward:                &ward,
			ExecutivesSponsored: executives,
			MonthlyRate:         RatePerExecutive,
			CostPerMonth:        int64(executives) * RatePerExecutive,
			StartDate:           start,
			EndDate:             end,
		})
	}

	return successOutcome("Added to Cart", fmt.Sprintf("%d ward(s) added to cart.", len(wards)), false)
}

// Remove deletes the entry with the given item id. Returns false if absent.
func (c *Cart) Remove(itemID string) bool {
	for i := range c.Items {
		if c.Items[i].ID == itemID {
			c.Items = append(c.Items[:i], c.Items[i+1:]...)
			return true
		}
	}
	return false
}

// RemoveWard deletes the individual entry for the given ward id.
func (c *Cart) RemoveWard(wardID uint) bool {
	for i := range c.Items {
		if !c.Items[i].IsBulk && c.Items[i].Ward != nil && c.Items[i].Ward.ID == wardID {
			c.Items = append(c.Items[:i], c.Items[i+1:]...)
			return true
		}
	}
	return false
}

// Clear empties the cart.
func (c *Cart) Clear() {
	c.Items = nil
}

// Subtotal is the monthly cost across all entries, in rupees.
func (c *Cart) Subtotal() int64 {
	var sum int64
	for i := range c.Items {
		sum += c.Items[i].CostPerMonth
	}
	return sum
}

// GST returns the tax on a rupee amount, rounded to the nearest rupee.
func GST(amount int64) int64 {
	return int64(math.Round(float64(amount) * GSTRate))
}

// TotalForMonths is the amount due for the whole sponsorship period,
// GST included, in rupees.
func (c *Cart) TotalForMonths(months int) int64 {
	if months < MinSponsorshipMonths {
		months = MinSponsorshipMonths
	}
	base := c.Subtotal() * int64(months)
	return base + GST(base)
}

// WalletBonus is the loyalty credit granted on an order total.
func WalletBonus(total int64) int64 {
	return total * WalletBonusMultiplier
}

// TotalExecutives sums the executive counts across entries (per ward for
// bulk entries).
func (c *Cart) TotalExecutives() int {
	total := 0
	for i := range c.Items {
		if c.Items[i].IsBulk {
			total += c.Items[i].ExecutivesSponsored * c.Items[i].BulkWardCount
		} else {
			total += c.Items[i].ExecutivesSponsored
		}
	}
	return total
}

// TypeLabelForLevel returns a display word for a hierarchy level.
func TypeLabelForLevel(level Level) string {
	switch level {
	case LevelState:
		return "State"
	case LevelZone:
		return "Zone"
	case LevelDistrict:
		return "District"
	case LevelSubdistrict:
		return "Subdistrict"
	case LevelType:
		return "Local body type"
	case LevelLocalBody:
		return "Local body"
	}
	return string(level)
}
