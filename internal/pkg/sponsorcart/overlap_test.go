package sponsorcart

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func day(d string) time.Time {
	parsed, err := time.Parse(overlapDateFormat, d)
	if err != nil {
		panic(err)
	}
	return parsed
}

func individualItem(wardID uint, wardName, start, end string) CartItem {
	return CartItem{
		ID:        NewItemID(),
		Ward:      &WardRef{ID: wardID, WardName: wardName, LocalBodyType: TypePanchayat},
		StartDate: day(start),
		EndDate:   day(end),
	}
}

func TestCheckWardOverlap(t *testing.T) {
	items := []CartItem{individualItem(1, "Ward 1", "01/03/2026", "31/03/2026")}

	tests := []struct {
		name     string
		start    string
		end      string
		overlaps bool
	}{
		{"fully inside", "10/03/2026", "20/03/2026", true},
		{"straddles start", "20/02/2026", "05/03/2026", true},
		{"straddles end", "25/03/2026", "10/04/2026", true},
		{"contains existing", "01/02/2026", "30/04/2026", true},
		{"touching end boundary", "31/03/2026", "30/04/2026", true},
		{"touching start boundary", "01/02/2026", "01/03/2026", true},
		{"before", "01/01/2026", "28/02/2026", false},
		{"after", "01/04/2026", "30/04/2026", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := CheckWardOverlap(1, day(tt.start), day(tt.end), items)
			assert.Equal(t, tt.overlaps, result.HasOverlap)
			if tt.overlaps {
				assert.Contains(t, result.Message, "01/03/2026")
				assert.Contains(t, result.Message, "31/03/2026")
			}
		})
	}
}

func TestCheckWardOverlapOtherWardIgnored(t *testing.T) {
	items := []CartItem{individualItem(1, "Ward 1", "01/03/2026", "31/03/2026")}

	result := CheckWardOverlap(2, day("01/03/2026"), day("31/03/2026"), items)
	assert.False(t, result.HasOverlap)
}

func TestCheckWardOverlapSkipsBulkEntries(t *testing.T) {
	h := BuildHierarchyData(LevelZone, "North", "", "", "", "")
	items := []CartItem{{
		ID:        NewItemID(),
		IsBulk:    true,
		BulkLevel: LevelZone,
		Hierarchy: &h,
		StartDate: day("01/03/2026"),
		EndDate:   day("31/03/2026"),
	}}

	result := CheckWardOverlap(1, day("01/03/2026"), day("31/03/2026"), items)
	assert.False(t, result.HasOverlap)
}

func TestCheckBulkOverlapAggregates(t *testing.T) {
	items := []CartItem{
		individualItem(1, "Ward 1", "01/03/2026", "31/03/2026"),
		individualItem(2, "Ward 2", "01/03/2026", "31/03/2026"),
	}

	wards := []WardRef{
		{ID: 1, WardName: "Ward 1"},
		{ID: 2, WardName: "Ward 2"},
		{ID: 3, WardName: "Ward 3"},
	}

	result := CheckBulkOverlap(wards, day("15/03/2026"), day("15/04/2026"), items)
	assert.True(t, result.HasOverlap)
	assert.Equal(t, []string{"Ward 1", "Ward 2"}, result.ConflictingWards)
	assert.Contains(t, result.Message, "2 ward(s)")
	assert.NotContains(t, result.Message, "...")
}

func TestCheckBulkOverlapTruncatesMessage(t *testing.T) {
	items := []CartItem{
		individualItem(1, "Ward 1", "01/03/2026", "31/03/2026"),
		individualItem(2, "Ward 2", "01/03/2026", "31/03/2026"),
		individualItem(3, "Ward 3", "01/03/2026", "31/03/2026"),
		individualItem(4, "Ward 4", "01/03/2026", "31/03/2026"),
	}

	wards := []WardRef{
		{ID: 1, WardName: "Ward 1"},
		{ID: 2, WardName: "Ward 2"},
		{ID: 3, WardName: "Ward 3"},
		{ID: 4, WardName: "Ward 4"},
	}

	result := CheckBulkOverlap(wards, day("15/03/2026"), day("15/04/2026"), items)
	assert.True(t, result.HasOverlap)
	assert.Len(t, result.ConflictingWards, 4)
	assert.Contains(t, result.Message, "Ward 1, Ward 2, Ward 3...")
	assert.NotContains(t, result.Message, "Ward 4")
}

func TestCheckBulkOverlapClean(t *testing.T) {
	items := []CartItem{individualItem(1, "Ward 1", "01/03/2026", "31/03/2026")}

	wards := []WardRef{{ID: 1, WardName: "Ward 1"}, {ID: 2, WardName: "Ward 2"}}
	result := CheckBulkOverlap(wards, day("01/05/2026"), day("31/05/2026"), items)
	assert.False(t, result.HasOverlap)
	assert.Empty(t, result.ConflictingWards)
}
