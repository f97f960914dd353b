package sponsorcart

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func bulkItem(level Level, identifier string, h HierarchyData) CartItem {
	return CartItem{
		ID:             NewItemID(),
		IsBulk:         true,
		BulkLevel:      level,
		BulkIdentifier: identifier,
		Hierarchy:      &h,
	}
}

func TestBuildHierarchyData(t *testing.T) {
	h := BuildHierarchyData(LevelDistrict, "North", "Kannur", "Taliparamba", "M", "Payyanur")
	assert.Equal(t, StateName, h.State)
	assert.Equal(t, "North", h.Zone)
	assert.Equal(t, "Kannur", h.District)
	assert.Empty(t, h.Subdistrict)
	assert.Empty(t, h.LocalBodyType)
	assert.Empty(t, h.LocalBodyName)

	full := BuildHierarchyData(LevelLocalBody, "North", "Kannur", "Taliparamba", "Municipality", "Payyanur")
	assert.Equal(t, "Taliparamba", full.Subdistrict)
	assert.Equal(t, TypeMunicipality, full.LocalBodyType)
	assert.Equal(t, "Payyanur", full.LocalBodyName)

	// The all-types marker is dropped from the snapshot.
	allTypes := BuildHierarchyData(LevelType, "North", "Kannur", "Taliparamba", "All", "")
	assert.Empty(t, allTypes.LocalBodyType)
}

func TestStateAbsorbsEverything(t *testing.T) {
	existing := []CartItem{bulkItem(LevelState, StateName, HierarchyData{State: StateName})}

	result := CheckHierarchyConflict(LevelZone,
		BuildHierarchyData(LevelZone, "South", "", "", "", ""), existing)
	assert.True(t, result.HasConflict)
	assert.Contains(t, result.Message, StateName)

	// And symmetrically: any bulk item blocks a new state selection.
	existing = []CartItem{bulkItem(LevelZone, "South",
		BuildHierarchyData(LevelZone, "South", "", "", "", ""))}
	result = CheckHierarchyConflict(LevelState, HierarchyData{State: StateName}, existing)
	assert.True(t, result.HasConflict)
}

func TestContainmentBothDirections(t *testing.T) {
	zone := BuildHierarchyData(LevelZone, "North", "", "", "", "")
	district := BuildHierarchyData(LevelDistrict, "North", "Kannur", "", "", "")

	// Coarse first, fine second.
	existing := []CartItem{bulkItem(LevelZone, "North", zone)}
	result := CheckHierarchyConflict(LevelDistrict, district, existing)
	assert.True(t, result.HasConflict)
	assert.Contains(t, result.Message, "North")

	// Fine first, coarse second.
	existing = []CartItem{bulkItem(LevelDistrict, "Kannur", district)}
	result = CheckHierarchyConflict(LevelZone, zone, existing)
	assert.True(t, result.HasConflict)
	assert.Contains(t, result.Message, "North")
}

func TestDisjointSiblingsNeverConflict(t *testing.T) {
	tests := []struct {
		name      string
		level     Level
		existing  HierarchyData
		proposed  HierarchyData
		existId   string
		proposeId string
	}{
		{
			name:      "different zones",
			level:     LevelZone,
			existing:  BuildHierarchyData(LevelZone, "North", "", "", "", ""),
			proposed:  BuildHierarchyData(LevelZone, "South", "", "", "", ""),
			existId:   "North",
			proposeId: "South",
		},
		{
			name:      "different districts same zone",
			level:     LevelDistrict,
			existing:  BuildHierarchyData(LevelDistrict, "North", "Kannur", "", "", ""),
			proposed:  BuildHierarchyData(LevelDistrict, "North", "Kasaragod", "", "", ""),
			existId:   "Kannur",
			proposeId: "Kasaragod",
		},
		{
			name:      "different subdistricts",
			level:     LevelSubdistrict,
			existing:  BuildHierarchyData(LevelSubdistrict, "North", "Kannur", "Taliparamba", "", ""),
			proposed:  BuildHierarchyData(LevelSubdistrict, "North", "Kannur", "Iritty", "", ""),
			existId:   "Taliparamba",
			proposeId: "Iritty",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			existing := []CartItem{bulkItem(tt.level, tt.existId, tt.existing)}
			result := CheckHierarchyConflict(tt.level, tt.proposed, existing)
			assert.False(t, result.HasConflict)
		})
	}
}

func TestTypeLevelNeedsSubdistrictAndTypeMatch(t *testing.T) {
	existing := []CartItem{bulkItem(LevelType, "Taliparamba Municipality",
		BuildHierarchyData(LevelType, "North", "Kannur", "Taliparamba", "M", ""))}

	// Same subdistrict, same type: conflict.
	result := CheckHierarchyConflict(LevelType,
		BuildHierarchyData(LevelType, "North", "Kannur", "Taliparamba", "M", ""), existing)
	assert.True(t, result.HasConflict)
	assert.Contains(t, result.Message, "Municipality")

	// Same subdistrict, different type: no conflict.
	result = CheckHierarchyConflict(LevelType,
		BuildHierarchyData(LevelType, "North", "Kannur", "Taliparamba", "P", ""), existing)
	assert.False(t, result.HasConflict)

	// Different subdistrict, same type: no conflict.
	result = CheckHierarchyConflict(LevelType,
		BuildHierarchyData(LevelType, "North", "Kannur", "Iritty", "M", ""), existing)
	assert.False(t, result.HasConflict)
}

func TestTypeLevelAbsorbsExistingLocalBody(t *testing.T) {
	existing := []CartItem{bulkItem(LevelLocalBody, "Payyanur",
		BuildHierarchyData(LevelLocalBody, "North", "Kannur", "Taliparamba", "M", "Payyanur"))}

	// A type-level selection covering the cart's local body is rejected.
	result := CheckHierarchyConflict(LevelType,
		BuildHierarchyData(LevelType, "North", "Kannur", "Taliparamba", "M", ""), existing)
	assert.True(t, result.HasConflict)
	assert.Contains(t, result.Message, "Payyanur")

	// A different type under the same subdistrict stays independent.
	result = CheckHierarchyConflict(LevelType,
		BuildHierarchyData(LevelType, "North", "Kannur", "Taliparamba", "P", ""), existing)
	assert.False(t, result.HasConflict)

	// Same type, different subdistrict: no overlap.
	result = CheckHierarchyConflict(LevelType,
		BuildHierarchyData(LevelType, "North", "Kannur", "Iritty", "M", ""), existing)
	assert.False(t, result.HasConflict)
}

func TestLocalBodyLevelExactMatch(t *testing.T) {
	existing := []CartItem{bulkItem(LevelLocalBody, "Payyanur",
		BuildHierarchyData(LevelLocalBody, "North", "Kannur", "Taliparamba", "M", "Payyanur"))}

	result := CheckHierarchyConflict(LevelLocalBody,
		BuildHierarchyData(LevelLocalBody, "North", "Kannur", "Taliparamba", "M", "Payyanur"), existing)
	assert.True(t, result.HasConflict)
	assert.Contains(t, result.Message, "Payyanur")

	// Same name under a different subdistrict is a different local body.
	result = CheckHierarchyConflict(LevelLocalBody,
		BuildHierarchyData(LevelLocalBody, "North", "Kannur", "Iritty", "M", "Payyanur"), existing)
	assert.False(t, result.HasConflict)
}

func TestIndividualWardBlockedByCoveringBulk(t *testing.T) {
	existing := []CartItem{bulkItem(LevelDistrict, "Kannur",
		BuildHierarchyData(LevelDistrict, "North", "Kannur", "", "", ""))}

	ward := HierarchyData{State: StateName, Zone: "North", District: "Kannur"}
	result := CheckHierarchyConflict(LevelWard, ward, existing)
	assert.True(t, result.HasConflict)

	other := HierarchyData{State: StateName, Zone: "North", District: "Kasaragod"}
	result = CheckHierarchyConflict(LevelWard, other, existing)
	assert.False(t, result.HasConflict)
}

func TestIndividualEntriesNeverConflictAtHierarchyLevel(t *testing.T) {
	start := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	end := start.AddDate(0, 1, 0)
	existing := []CartItem{{
		ID:        NewItemID(),
		Ward:      &WardRef{ID: 1, WardName: "Ward 1", Zone: "North", District: "Kannur"},
		StartDate: start,
		EndDate:   end,
	}}

	ward := HierarchyData{State: StateName, Zone: "North", District: "Kannur"}
	result := CheckHierarchyConflict(LevelWard, ward, existing)
	assert.False(t, result.HasConflict)
}

func TestFirstMatchInCartOrderWins(t *testing.T) {
	zoneItem := bulkItem(LevelZone, "North", BuildHierarchyData(LevelZone, "North", "", "", "", ""))
	stateItem := bulkItem(LevelState, StateName, HierarchyData{State: StateName})
	existing := []CartItem{zoneItem, stateItem}

	result := CheckHierarchyConflict(LevelDistrict,
		BuildHierarchyData(LevelDistrict, "North", "Kannur", "", "", ""), existing)
	assert.True(t, result.HasConflict)
	assert.Equal(t, zoneItem.ID, result.ConflictingItem.ID)
}
