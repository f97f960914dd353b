package hierarchy

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/WeOneApp/wardsponsor/internal/pkg/occupancy"
	"github.com/WeOneApp/wardsponsor/internal/pkg/sponsorcart"
)

func TestNormalizeName(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"thiruvananthapuram", "Thiruvananthapuram"},
		{"NEDUMANGAD", "Nedumangad"},
		{"  kollam   east ", "Kollam East"},
		{"ward 4", "Ward 4"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, NormalizeName(tt.in), tt.in)
	}
}

func TestSummarizeViewsExcludesFullyOccupiedWards(t *testing.T) {
	views := []WardView{
		{
			LocalBodyType: sponsorcart.TypePanchayat,
			Occupancy:     occupancy.Status{AvailableExecutives: 1},
		},
		{
			LocalBodyType: sponsorcart.TypePanchayat,
			Occupancy:     occupancy.Status{AvailableExecutives: 0, IsSponsored: true},
		},
		{
			LocalBodyType: sponsorcart.TypeCorporation,
			Occupancy:     occupancy.Status{AvailableExecutives: 3, SponsoredExecutivesCount: 2, IsSponsored: true},
		},
	}

	summary := SummarizeViews(views)

	assert.Equal(t, 2, summary.WardCount)
	assert.Equal(t, 4, summary.AvailableExecutives)
	assert.Equal(t, int64(4*sponsorcart.RatePerExecutive), summary.EstimatedCost)
	assert.Equal(t, map[string]int{
		sponsorcart.TypePanchayat:   1,
		sponsorcart.TypeCorporation: 1,
	}, summary.Breakdown)
}

func TestTypeFilterDropsAllMarker(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"", ""},
		{"All", ""},
		{"all", ""},
		{"Municipality", sponsorcart.TypeMunicipality},
		{"M", sponsorcart.TypeMunicipality},
		{"panchayath", sponsorcart.TypePanchayat},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, typeFilter(tt.in), tt.in)
	}
}

func TestListingKeysShareInvalidationPrefix(t *testing.T) {
	keys := []string{
		listKey("zones"),
		listKey("districts", "kannur"),
		listKey("subdistricts", "taliparamba"),
		listKey("localbodies", "taliparamba", sponsorcart.TypeMunicipality),
	}

	for _, key := range keys {
		assert.True(t, strings.HasPrefix(key, cachePrefix), key)
	}
	assert.Equal(t, "hierarchy:districts:kannur", keys[1])
}

func TestSummarizeViewsEmpty(t *testing.T) {
	summary := SummarizeViews(nil)

	assert.Equal(t, 0, summary.WardCount)
	assert.Equal(t, int64(0), summary.EstimatedCost)
	assert.Empty(t, summary.Breakdown)
}
