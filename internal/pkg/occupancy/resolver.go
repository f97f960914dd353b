package occupancy

import (
	"strings"
	"time"

	"github.com/WeOneApp/wardsponsor/internal/pkg/sponsorcart"
)

// PendingLockWindow is how long an unpaid order provisionally holds its
// wards. A pending order older than this no longer counts toward occupancy,
// even though its stored status still reads pending until explicitly expired.
const PendingLockWindow = 3 * 24 * time.Hour

// Order is the ledger view the resolver needs: status, creation time and
// the processed cart snapshot.
type Order struct {
	Status    string
	CreatedAt time.Time
	Items     []sponsorcart.CartItem
}

// Status is the derived occupancy of one ward, recomputed at read time from
// the ledger rather than stored.
type Status struct {
	IsSponsored              bool       `json:"is_sponsored"`
	SponsoredUntil           *time.Time `json:"sponsored_until,omitempty"`
	SponsoredExecutivesCount int        `json:"sponsored_executives_count"`
	AvailableExecutives      int        `json:"available_executives"`
	IsPendingSponsorship     bool       `json:"is_pending_sponsorship"`
}

// Counts reports whether an order contributes to occupancy: active orders
// always, pending orders only within the lock window.
func Counts(order Order, now time.Time) bool {
	switch order.Status {
	case "active":
		return true
	case "pending":
		return now.Sub(order.CreatedAt) < PendingLockWindow
	}
	return false
}

func wardKey(wardName, localBodyName string) string {
	return strings.ToLower(strings.TrimSpace(wardName)) + "|" + strings.ToLower(strings.TrimSpace(localBodyName))
}

// Resolve computes a single ward's occupancy. Orders reference wards by
// name plus local body name in their cart snapshots (bulk entries carry no
// literal ward id), so the match happens on that pair. The available count
// clamps at zero even if a prior buggy order oversubscribed the ward.
func Resolve(wardName, localBodyName, localBodyType string, orders []Order, now time.Time) Status {
	key := wardKey(wardName, localBodyName)

	total := 0
	var latestEnd time.Time
	pending := false

	for _, order := range orders {
		if !Counts(order, now) {
			continue
		}
		for i := range order.Items {
			item := &order.Items[i]
			if item.Ward == nil {
				continue
			}
			if wardKey(item.Ward.WardName, item.Ward.LocalBodyName) != key {
				continue
			}
			total += item.ExecutivesSponsored
			if item.EndDate.After(latestEnd) {
				latestEnd = item.EndDate
			}
			if order.Status == "pending" {
				pending = true
			}
		}
	}

	max := sponsorcart.MaxExecutivesFor(localBodyType)
	available := max - total
	if available < 0 {
		available = 0
	}

	status := Status{
		IsSponsored:              total > 0,
		SponsoredExecutivesCount: total,
		AvailableExecutives:      available,
		IsPendingSponsorship:     pending,
	}
	if !latestEnd.IsZero() {
		end := latestEnd
		status.SponsoredUntil = &end
	}
	return status
}

// Index precomputes per-ward occupancy aggregates for list endpoints so a
// page of wards does not rescan the order set per row.
type Index struct {
	now     time.Time
	entries map[string]*indexEntry
}

type indexEntry struct {
	total     int
	latestEnd time.Time
	pending   bool
}

// NewIndex aggregates counting orders once.
func NewIndex(orders []Order, now time.Time) *Index {
	idx := &Index{now: now, entries: make(map[string]*indexEntry)}
	for _, order := range orders {
		if !Counts(order, now) {
			continue
		}
		for i := range order.Items {
			item := &order.Items[i]
			if item.Ward == nil {
				continue
			}
			key := wardKey(item.Ward.WardName, item.Ward.LocalBodyName)
			entry := idx.entries[key]
			if entry == nil {
				entry = &indexEntry{}
				idx.entries[key] = entry
			}
			entry.total += item.ExecutivesSponsored
			if item.EndDate.After(entry.latestEnd) {
				entry.latestEnd = item.EndDate
			}
			if order.Status == "pending" {
				entry.pending = true
			}
		}
	}
	return idx
}

// Lookup returns the derived occupancy for one ward from the index.
func (idx *Index) Lookup(wardName, localBodyName, localBodyType string) Status {
	max := sponsorcart.MaxExecutivesFor(localBodyType)

	entry := idx.entries[wardKey(wardName, localBodyName)]
	if entry == nil {
		return Status{AvailableExecutives: max}
	}

	available := max - entry.total
	if available < 0 {
		available = 0
	}

	status := Status{
		IsSponsored:              entry.total > 0,
		SponsoredExecutivesCount: entry.total,
		AvailableExecutives:      available,
		IsPendingSponsorship:     entry.pending,
	}
	if !entry.latestEnd.IsZero() {
		end := entry.latestEnd
		status.SponsoredUntil = &end
	}
	return status
}
