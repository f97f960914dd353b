package occupancy

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/WeOneApp/wardsponsor/internal/pkg/sponsorcart"
)

func individualItem(wardName, localBody string, executives int, end time.Time) sponsorcart.CartItem {
	return sponsorcart.CartItem{
		ID: sponsorcart.NewItemID(),
		Ward: &sponsorcart.WardRef{
			WardName:      wardName,
			LocalBodyName: localBody,
			LocalBodyType: sponsorcart.TypePanchayat,
		},
		ExecutivesSponsored: executives,
		EndDate:             end,
	}
}

func TestResolveUnsponsoredWard(t *testing.T) {
	now := time.Now()

	status := Resolve("Ward 1", "Aruvikkara", sponsorcart.TypePanchayat, nil, now)

	assert.False(t, status.IsSponsored)
	assert.Nil(t, status.SponsoredUntil)
	assert.Equal(t, 0, status.SponsoredExecutivesCount)
	assert.Equal(t, 1, status.AvailableExecutives)
	assert.False(t, status.IsPendingSponsorship)
}

func TestResolveActiveOrderOccupiesWard(t *testing.T) {
	now := time.Now()
	end := now.Add(90 * 24 * time.Hour)
	orders := []Order{
		{
			Status:    "active",
			CreatedAt: now.Add(-30 * 24 * time.Hour),
			Items:     []sponsorcart.CartItem{individualItem("Ward 4", "Nedumangad", 1, end)},
		},
	}

	status := Resolve("Ward 4", "Nedumangad", sponsorcart.TypePanchayat, orders, now)

	assert.True(t, status.IsSponsored)
	assert.Equal(t, 1, status.SponsoredExecutivesCount)
	assert.Equal(t, 0, status.AvailableExecutives)
	if assert.NotNil(t, status.SponsoredUntil) {
		assert.True(t, status.SponsoredUntil.Equal(end))
	}
	assert.False(t, status.IsPendingSponsorship)
}

func TestResolvePendingLockWindow(t *testing.T) {
	now := time.Now()
	end := now.Add(60 * 24 * time.Hour)

	tests := []struct {
		name      string
		age       time.Duration
		sponsored bool
		pending   bool
	}{
		{"fresh pending order counts", time.Hour, true, true},
		{"two day old pending order counts", 2 * 24 * time.Hour, true, true},
		{"just inside the window", PendingLockWindow - time.Minute, true, true},
		{"exactly at the window boundary", PendingLockWindow, false, false},
		{"abandoned pending order releases the ward", 4 * 24 * time.Hour, false, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			orders := []Order{
				{
					Status:    "pending",
					CreatedAt: now.Add(-tt.age),
					Items:     []sponsorcart.CartItem{individualItem("Ward 2", "Vellanad", 1, end)},
				},
			}

			status := Resolve("Ward 2", "Vellanad", sponsorcart.TypePanchayat, orders, now)

			assert.Equal(t, tt.sponsored, status.IsSponsored)
			assert.Equal(t, tt.pending, status.IsPendingSponsorship)
			if tt.sponsored {
				assert.Equal(t, 0, status.AvailableExecutives)
			} else {
				assert.Equal(t, 1, status.AvailableExecutives)
			}
		})
	}
}

func TestResolveExpiredAndCancelledOrdersDoNotCount(t *testing.T) {
	now := time.Now()
	end := now.Add(-time.Hour)

	for _, st := range []string{"expired", "cancelled"} {
		orders := []Order{
			{
				Status:    st,
				CreatedAt: now.Add(-100 * 24 * time.Hour),
				Items:     []sponsorcart.CartItem{individualItem("Ward 3", "Kattakada", 1, end)},
			},
		}

		status := Resolve("Ward 3", "Kattakada", sponsorcart.TypePanchayat, orders, now)
		assert.False(t, status.IsSponsored, st)
		assert.Equal(t, 1, status.AvailableExecutives, st)
	}
}

func TestResolvePartialOccupancyInCorporation(t *testing.T) {
	now := time.Now()
	endA := now.Add(30 * 24 * time.Hour)
	endB := now.Add(180 * 24 * time.Hour)
	orders := []Order{
		{
			Status:    "active",
			CreatedAt: now.Add(-10 * 24 * time.Hour),
			Items:     []sponsorcart.CartItem{individualItem("Palayam", "Thiruvananthapuram", 2, endA)},
		},
		{
			Status:    "active",
			CreatedAt: now.Add(-5 * 24 * time.Hour),
			Items:     []sponsorcart.CartItem{individualItem("Palayam", "Thiruvananthapuram", 1, endB)},
		},
	}

	status := Resolve("Palayam", "Thiruvananthapuram", sponsorcart.TypeCorporation, orders, now)

	assert.True(t, status.IsSponsored)
	assert.Equal(t, 3, status.SponsoredExecutivesCount)
	assert.Equal(t, 2, status.AvailableExecutives)
	// the most distant end date across contributing orders wins
	if assert.NotNil(t, status.SponsoredUntil) {
		assert.True(t, status.SponsoredUntil.Equal(endB))
	}
}

func TestResolveClampsOversubscribedWardToZero(t *testing.T) {
	now := time.Now()
	end := now.Add(30 * 24 * time.Hour)
	orders := []Order{
		{
			Status:    "active",
			CreatedAt: now,
			Items:     []sponsorcart.CartItem{individualItem("Ward 9", "Varkala", 5, end)},
		},
	}

	// Municipality max is 3; a historic oversubscription must not go negative.
	status := Resolve("Ward 9", "Varkala", sponsorcart.TypeMunicipality, orders, now)

	assert.Equal(t, 5, status.SponsoredExecutivesCount)
	assert.Equal(t, 0, status.AvailableExecutives)
}

func TestResolveMatchesByWardAndLocalBodyName(t *testing.T) {
	now := time.Now()
	end := now.Add(30 * 24 * time.Hour)
	orders := []Order{
		{
			Status:    "active",
			CreatedAt: now,
			Items:     []sponsorcart.CartItem{individualItem("Ward 1", "Aruvikkara", 1, end)},
		},
	}

	// Same ward name in a different local body is a different ward.
	other := Resolve("Ward 1", "Vellanad", sponsorcart.TypePanchayat, orders, now)
	assert.False(t, other.IsSponsored)
	assert.Equal(t, 1, other.AvailableExecutives)

	// Matching is case and whitespace insensitive.
	same := Resolve("  ward 1 ", "ARUVIKKARA", sponsorcart.TypePanchayat, orders, now)
	assert.True(t, same.IsSponsored)
}

func TestResolveIgnoresBulkEntries(t *testing.T) {
	now := time.Now()
	orders := []Order{
		{
			Status:    "active",
			CreatedAt: now,
			Items: []sponsorcart.CartItem{
				{
					ID:                  sponsorcart.NewItemID(),
					IsBulk:              true,
					BulkLevel:           sponsorcart.LevelDistrict,
					BulkIdentifier:      "Kollam",
					ExecutivesSponsored: 50,
					EndDate:             now.Add(30 * 24 * time.Hour),
				},
			},
		},
	}

	// Bulk entries reference no concrete ward, so they never mark one occupied.
	status := Resolve("Ward 1", "Punalur", sponsorcart.TypeMunicipality, orders, now)
	assert.False(t, status.IsSponsored)
	assert.Equal(t, 3, status.AvailableExecutives)
}

func TestIndexMatchesResolve(t *testing.T) {
	now := time.Now()
	end := now.Add(45 * 24 * time.Hour)
	orders := []Order{
		{
			Status:    "active",
			CreatedAt: now.Add(-time.Hour),
			Items: []sponsorcart.CartItem{
				individualItem("Ward 1", "Aruvikkara", 1, end),
				individualItem("Ward 7", "Kochi", 2, end),
			},
		},
		{
			Status:    "pending",
			CreatedAt: now.Add(-time.Hour),
			Items:     []sponsorcart.CartItem{individualItem("Ward 7", "Kochi", 1, end)},
		},
	}

	idx := NewIndex(orders, now)

	for _, tc := range []struct {
		ward, body, typ string
	}{
		{"Ward 1", "Aruvikkara", sponsorcart.TypePanchayat},
		{"Ward 7", "Kochi", sponsorcart.TypeCorporation},
		{"Ward 99", "Nowhere", sponsorcart.TypePanchayat},
	} {
		want := Resolve(tc.ward, tc.body, tc.typ, orders, now)
		got := idx.Lookup(tc.ward, tc.body, tc.typ)
		assert.Equal(t, want, got, tc.ward)
	}
}
