package checkout

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/WeOneApp/wardsponsor/app/models"
	"github.com/WeOneApp/wardsponsor/internal/pkg/occupancy"
	"github.com/WeOneApp/wardsponsor/internal/pkg/payment"
	"github.com/WeOneApp/wardsponsor/internal/pkg/sponsorcart"
)

type fakeGateway struct {
	created []int64
	order   *payment.Order
	valid   bool
}

func (g *fakeGateway) CreateOrder(ctx context.Context, amountRupees int64, receipt string, notes map[string]string) (*payment.Order, error) {
	g.created = append(g.created, amountRupees)
	return g.order, nil
}

func (g *fakeGateway) VerifySignature(orderID, paymentID, signature string) bool {
	return g.valid
}

func (g *fakeGateway) KeyID() string { return "rzp_test_key" }

func cartItems() []sponsorcart.CartItem {
	now := time.Now()
	return []sponsorcart.CartItem{
		{
			ID: sponsorcart.NewItemID(),
			Ward: &sponsorcart.WardRef{
				ID:            1,
				WardName:      "Ward 1",
				LocalBodyName: "Aruvikkara",
				LocalBodyType: sponsorcart.TypePanchayat,
			},
			ExecutivesSponsored: 1,
			MonthlyRate:         sponsorcart.RatePerExecutive,
			CostPerMonth:        sponsorcart.RatePerExecutive,
			StartDate:           now,
			EndDate:             now.Add(30 * 24 * time.Hour),
		},
	}
}

func TestSubmitOrderRejectsEmptyCart(t *testing.T) {
	svc := NewService(nil, &fakeGateway{}, nil)

	_, _, err := svc.SubmitOrder(context.Background(), SubmitInput{
		UserID:         1,
		SponsorName:    "Asha Menon",
		SponsorEmail:   "asha@example.com",
		SponsorType:    "individual",
		DurationMonths: 3,
	})

	assert.ErrorIs(t, err, ErrEmptyCart)
}

func TestSubmitOrderValidatesInput(t *testing.T) {
	svc := NewService(nil, &fakeGateway{}, nil)

	tests := []struct {
		name  string
		input SubmitInput
	}{
		{"missing user", SubmitInput{SponsorName: "Asha", SponsorEmail: "a@b.com", SponsorType: "individual", DurationMonths: 1, Items: cartItems()}},
		{"bad email", SubmitInput{UserID: 1, SponsorName: "Asha", SponsorEmail: "not-an-email", SponsorType: "individual", DurationMonths: 1, Items: cartItems()}},
		{"bad sponsor type", SubmitInput{UserID: 1, SponsorName: "Asha", SponsorEmail: "a@b.com", SponsorType: "ngo", DurationMonths: 1, Items: cartItems()}},
		{"zero months", SubmitInput{UserID: 1, SponsorName: "Asha", SponsorEmail: "a@b.com", SponsorType: "individual", DurationMonths: 0, Items: cartItems()}},
		{"too many months", SubmitInput{UserID: 1, SponsorName: "Asha", SponsorEmail: "a@b.com", SponsorType: "individual", DurationMonths: 120, Items: cartItems()}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, err := svc.SubmitOrder(context.Background(), tt.input)
			assert.Error(t, err)
		})
	}
}

func TestSubmitOrderRejectsZeroTotal(t *testing.T) {
	svc := NewService(nil, &fakeGateway{}, nil)

	items := cartItems()
	items[0].CostPerMonth = 0

	_, _, err := svc.SubmitOrder(context.Background(), SubmitInput{
		UserID:         1,
		SponsorName:    "Asha Menon",
		SponsorEmail:   "asha@example.com",
		SponsorType:    "individual",
		DurationMonths: 3,
		Items:          items,
	})

	assert.ErrorIs(t, err, ErrEmptyCart)
}

func TestStaleStateErrorMessage(t *testing.T) {
	err := &StaleStateError{Wards: []string{"Ward 1", "Ward 4"}}
	assert.Equal(t, "wards no longer available: Ward 1, Ward 4", err.Error())
}

func TestStaleWardsDetectsSaturatedCapacity(t *testing.T) {
	now := time.Now()
	items := cartItems()

	// Aruvikkara is a panchayat, so one executive fills the ward.
	occupying := occupancy.Order{
		Status:    models.SPONSORSHIP_ACTIVE,
		CreatedAt: now.Add(-time.Hour),
		Items:     cartItems(),
	}

	stale := staleWards(items, []occupancy.Order{occupying}, now)
	assert.Equal(t, []string{"Ward 1"}, stale)

	// With an empty ledger the snapshot is still claimable.
	assert.Empty(t, staleWards(items, nil, now))
}

func TestLockableWardIDsSkipsFullyOccupiedWards(t *testing.T) {
	now := time.Now()
	wards := []models.Ward{
		{ID: 11, WardName: "Ward 1", LocalBodyName: "Aruvikkara", LocalBodyType: sponsorcart.TypePanchayat},
		{ID: 12, WardName: "Ward 2", LocalBodyName: "Aruvikkara", LocalBodyType: sponsorcart.TypePanchayat},
	}

	idx := occupancy.NewIndex([]occupancy.Order{{
		Status:    models.SPONSORSHIP_ACTIVE,
		CreatedAt: now.Add(-time.Hour),
		Items:     cartItems(),
	}}, now)

	// Ward 1 is saturated, Ward 2 still has its slot.
	assert.Equal(t, []uint{12}, lockableWardIDs(wards, idx))

	// Without an index every expanded ward is kept.
	assert.Equal(t, []uint{11, 12}, lockableWardIDs(wards, nil))
}

func TestReleasableWardIDsExcludesWardsHeldByOthers(t *testing.T) {
	ids := []uint{1, 2, 3}
	held := map[uint]bool{2: true}

	assert.Equal(t, []uint{1, 3}, releasableWardIDs(ids, held))
	assert.Equal(t, ids, releasableWardIDs(ids, nil))
}

func TestWardIDsSkipsBulkEntries(t *testing.T) {
	items := cartItems()
	items = append(items, sponsorcart.CartItem{
		ID:             sponsorcart.NewItemID(),
		IsBulk:         true,
		BulkLevel:      sponsorcart.LevelDistrict,
		BulkIdentifier: "Kollam",
	})

	assert.Equal(t, []uint{1}, wardIDs(items))
}
