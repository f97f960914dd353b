package sponsorcart

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func wardRef(id uint, name, localBodyType string) WardRef {
	return WardRef{
		ID:            id,
		WardName:      name,
		LocalBodyName: "Payyanur",
		LocalBodyType: localBodyType,
		District:      "Kannur",
		Zone:          "North",
	}
}

func dates() (time.Time, time.Time) {
	start := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	return start, start.AddDate(0, 1, 0)
}

func TestAddIndividual(t *testing.T) {
	start, end := dates()

	var cart Cart
	result := cart.AddIndividual(wardRef(1, "Ward 1", TypeCorporation), 2, start, end)

	assert.True(t, result.Outcome.OK)
	assert.False(t, result.Outcome.Updated)
	assert.Len(t, cart.Items, 1)
	assert.Equal(t, int64(2*RatePerExecutive), result.Item.CostPerMonth)
	assert.Equal(t, int64(RatePerExecutive), result.Item.MonthlyRate)
}

func TestAddIndividualValidation(t *testing.T) {
	start, end := dates()

	tests := []struct {
		name       string
		ward       WardRef
		executives int
		start      time.Time
		end        time.Time
		detail     string
	}{
		{"missing ward name", WardRef{}, 1, start, end, "select a ward"},
		{"zero executives", wardRef(1, "Ward 1", TypePanchayat), 0, start, end, "at least 1"},
		{"over panchayat bound", wardRef(1, "Ward 1", TypePanchayat), 2, start, end, "at most 1"},
		{"over municipality bound", wardRef(1, "Ward 1", TypeMunicipality), 4, start, end, "at most 3"},
		{"over corporation bound", wardRef(1, "Ward 1", TypeCorporation), 6, start, end, "at most 5"},
		{"zero dates", wardRef(1, "Ward 1", TypePanchayat), 1, time.Time{}, time.Time{}, "valid start and end"},
		{"end before start", wardRef(1, "Ward 1", TypePanchayat), 1, end, start, "not be before"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var cart Cart
			result := cart.AddIndividual(tt.ward, tt.executives, tt.start, tt.end)
			assert.False(t, result.Outcome.OK)
			assert.Equal(t, "Validation Error", result.Outcome.Summary)
			assert.Contains(t, result.Outcome.Detail, tt.detail)
			assert.Empty(t, cart.Items)
		})
	}
}

func TestAddIndividualUpsertsInPlace(t *testing.T) {
	start, end := dates()

	var cart Cart
	first := cart.AddIndividual(wardRef(1, "Ward 1", TypeCorporation), 2, start, end)
	assert.True(t, first.Outcome.OK)

	// Re-adding the same ward replaces the entry, even with overlapping dates.
	second := cart.AddIndividual(wardRef(1, "Ward 1", TypeCorporation), 5, start, end)
	assert.True(t, second.Outcome.OK)
	assert.True(t, second.Outcome.Updated)
	assert.Len(t, cart.Items, 1)
	assert.Equal(t, first.Item.ID, second.Item.ID)
	assert.Equal(t, 5, cart.Items[0].ExecutivesSponsored)
}

func TestAddIndividualBlockedByBulkClaim(t *testing.T) {
	start, end := dates()

	var cart Cart
	bulk := cart.AddBulk(LevelDistrict, "Kannur",
		BuildHierarchyData(LevelDistrict, "North", "Kannur", "", "", ""), 10, 1, start, end, "Kannur")
	assert.True(t, bulk.Outcome.OK)

	result := cart.AddIndividual(wardRef(1, "Ward 1", TypePanchayat), 1, start, end)
	assert.False(t, result.Outcome.OK)
	assert.Equal(t, "Selection Conflict", result.Outcome.Summary)
	assert.Len(t, cart.Items, 1)
}

func TestAddBulk(t *testing.T) {
	start, end := dates()

	var cart Cart
	result := cart.AddBulk(LevelZone, "North",
		BuildHierarchyData(LevelZone, "North", "", "", "", ""), 50, 2, start, end, "North")

	assert.True(t, result.Outcome.OK)
	assert.Len(t, cart.Items, 1)
	assert.True(t, result.Item.IsBulk)
	assert.Equal(t, 50, result.Item.BulkWardCount)
	assert.Equal(t, int64(50*2*RatePerExecutive), result.Item.CostPerMonth)
}

func TestAddBulkRejectsContainedSelection(t *testing.T) {
	start, end := dates()

	var cart Cart
	zone := cart.AddBulk(LevelZone, "Central",
		BuildHierarchyData(LevelZone, "Central", "", "", "", ""), 50, 1, start, end, "Central")
	assert.True(t, zone.Outcome.OK)

	district := cart.AddBulk(LevelDistrict, "Central District",
		BuildHierarchyData(LevelDistrict, "Central", "Central District", "", "", ""), 12, 1, start, end, "Central District")
	assert.False(t, district.Outcome.OK)
	assert.Equal(t, "Selection Conflict", district.Outcome.Summary)
	assert.Contains(t, district.Outcome.Detail, "Central")
	assert.Len(t, cart.Items, 1)
}

func TestAddBulkSameNodeUpdatesInPlace(t *testing.T) {
	start, end := dates()

	var cart Cart
	first := cart.AddBulk(LevelZone, "North",
		BuildHierarchyData(LevelZone, "North", "", "", "", ""), 50, 1, start, end, "North")
	assert.True(t, first.Outcome.OK)

	second := cart.AddBulk(LevelZone, "North",
		BuildHierarchyData(LevelZone, "North", "", "", "", ""), 48, 2, start, end, "North")
	assert.True(t, second.Outcome.OK)
	assert.True(t, second.Outcome.Updated)
	assert.Len(t, cart.Items, 1)
	assert.Equal(t, first.Item.ID, second.Item.ID)
	assert.Equal(t, 48, cart.Items[0].BulkWardCount)
	assert.Equal(t, int64(48*2*RatePerExecutive), cart.Items[0].CostPerMonth)
}

func TestAddWardBatchAllOrNothing(t *testing.T) {
	start, end := dates()

	var cart Cart
	seeded := cart.AddIndividual(wardRef(2, "Ward 2", TypeMunicipality), 1, start, end)
	assert.True(t, seeded.Outcome.OK)

	// Ward 2 overlaps its existing entry, so the whole batch is rejected.
	batch := cart.AddWardBatch([]WardRef{
		wardRef(1, "Ward 1", TypeMunicipality),
		wardRef(2, "Ward 2", TypeMunicipality),
		wardRef(3, "Ward 3", TypeMunicipality),
	}, 1, start, end)

	assert.False(t, batch.OK)
	assert.Contains(t, batch.Detail, "Ward 2")
	assert.Len(t, cart.Items, 1)

	// With clean dates the same batch goes through whole.
	batch = cart.AddWardBatch([]WardRef{
		wardRef(1, "Ward 1", TypeMunicipality),
		wardRef(3, "Ward 3", TypeMunicipality),
	}, 1, end.AddDate(0, 0, 1), end.AddDate(0, 1, 1))
	assert.True(t, batch.OK)
	assert.Len(t, cart.Items, 3)
}

func TestAddWardBatchEnforcesPerWardBound(t *testing.T) {
	start, end := dates()

	var cart Cart
	batch := cart.AddWardBatch([]WardRef{
		wardRef(1, "Ward 1", TypeCorporation),
		wardRef(2, "Ward 2", TypePanchayat),
	}, 2, start, end)

	assert.False(t, batch.OK)
	assert.Contains(t, batch.Detail, "Ward 2")
	assert.Empty(t, cart.Items)
}

func TestAddWardBatchBlockedByBulkClaim(t *testing.T) {
	start, end := dates()

	var cart Cart
	bulk := cart.AddBulk(LevelZone, "North",
		BuildHierarchyData(LevelZone, "North", "", "", "", ""), 50, 1, start, end, "North")
	assert.True(t, bulk.Outcome.OK)

	batch := cart.AddWardBatch([]WardRef{wardRef(1, "Ward 1", TypePanchayat)}, 1, start, end)
	assert.False(t, batch.OK)
	assert.Len(t, cart.Items, 1)
}

func TestMaxCartItems(t *testing.T) {
	start, end := dates()

	var cart Cart
	for i := 0; i < MaxCartItems; i++ {
		result := cart.AddIndividual(wardRef(uint(i+1), fmt.Sprintf("Ward %d", i+1), TypePanchayat), 1, start, end)
		assert.True(t, result.Outcome.OK)
	}

	overflow := cart.AddIndividual(wardRef(500, "Ward 500", TypePanchayat), 1, start, end)
	assert.False(t, overflow.Outcome.OK)
	assert.Contains(t, overflow.Outcome.Detail, fmt.Sprintf("%d", MaxCartItems))
	assert.Len(t, cart.Items, MaxCartItems)
}

func TestRemove(t *testing.T) {
	start, end := dates()

	var cart Cart
	added := cart.AddIndividual(wardRef(1, "Ward 1", TypePanchayat), 1, start, end)

	assert.False(t, cart.Remove("cart_missing"))
	assert.True(t, cart.Remove(added.Item.ID))
	assert.Empty(t, cart.Items)
}

func TestRemoveWard(t *testing.T) {
	start, end := dates()

	var cart Cart
	cart.AddIndividual(wardRef(1, "Ward 1", TypePanchayat), 1, start, end)
	cart.AddBulk(LevelZone, "South",
		BuildHierarchyData(LevelZone, "South", "", "", "", ""), 10, 1, start, end, "South")

	assert.True(t, cart.RemoveWard(1))
	assert.False(t, cart.RemoveWard(1))
	assert.Len(t, cart.Items, 1)
	assert.True(t, cart.Items[0].IsBulk)
}

func TestTotals(t *testing.T) {
	start, end := dates()

	var cart Cart
	cart.AddIndividual(wardRef(1, "Ward 1", TypeCorporation), 2, start, end)
	cart.AddBulk(LevelZone, "South",
		BuildHierarchyData(LevelZone, "South", "", "", "", ""), 10, 1, start, end, "South")

	subtotal := int64(2*RatePerExecutive + 10*RatePerExecutive)
	assert.Equal(t, subtotal, cart.Subtotal())
	assert.Equal(t, 12, cart.TotalExecutives())

	base := subtotal * 3
	assert.Equal(t, base+GST(base), cart.TotalForMonths(3))

	// Durations below the minimum are clamped up.
	oneMonth := subtotal + GST(subtotal)
	assert.Equal(t, oneMonth, cart.TotalForMonths(0))
}

func TestGSTRounding(t *testing.T) {
	assert.Equal(t, int64(2700), GST(15000))
	assert.Equal(t, int64(18), GST(100))
	assert.Equal(t, int64(0), GST(0))
}

func TestWalletBonus(t *testing.T) {
	assert.Equal(t, int64(53100), WalletBonus(17700))
}
