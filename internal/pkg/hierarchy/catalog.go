package hierarchy

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/WeOneApp/wardsponsor/app/models"
	"github.com/WeOneApp/wardsponsor/app/repository"
	"github.com/WeOneApp/wardsponsor/internal/pkg/cache"
	"github.com/WeOneApp/wardsponsor/internal/pkg/occupancy"
	"github.com/WeOneApp/wardsponsor/internal/pkg/sponsorcart"
)

// catalogCacheTTL keeps hierarchy listings hot without letting occupancy
// data go noticeably stale.
const catalogCacheTTL = 60 * time.Second

// cachePrefix scopes every cached listing so an import can drop them all.
const cachePrefix = "hierarchy:"

func listKey(parts ...string) string {
	return cachePrefix + strings.Join(parts, ":")
}

// WardView is a catalog ward with its derived occupancy applied.
type WardView struct {
	ID             uint              `json:"id"`
	WardName       string            `json:"ward_name"`
	LocalBodyName  string            `json:"local_body_name"`
	LocalBodyType  string            `json:"local_body_type"`
	LocalBodyLabel string            `json:"local_body_label"`
	Subdistrict    string            `json:"subdistrict"`
	District       string            `json:"district"`
	Zone           string            `json:"zone"`
	State          string            `json:"state"`
	MonthlyRate    int64             `json:"monthly_rate"`
	MaxExecutives  int               `json:"max_executives"`
	Occupancy      occupancy.Status  `json:"occupancy"`
}

// Summary aggregates the sponsorable capacity under one hierarchy node.
// Fully occupied wards are excluded from the counts so the figures reflect
// what a sponsor can still buy.
type Summary struct {
	WardCount           int              `json:"ward_count"`
	AvailableExecutives int              `json:"available_executives"`
	EstimatedCost       int64            `json:"estimated_cost"`
	Breakdown           map[string]int   `json:"breakdown"`
}

// Catalog serves hierarchy navigation and ward listings with occupancy
// resolved from the order ledger.
type Catalog struct {
	wards  repository.WardRepository
	orders repository.SponsorshipRepository
}

// NewCatalog creates a catalog over the given repositories.
func NewCatalog(wards repository.WardRepository, orders repository.SponsorshipRepository) *Catalog {
	return &Catalog{wards: wards, orders: orders}
}

// NormalizeName collapses inner whitespace and title-cases a hierarchy
// name so imports with inconsistent casing land on one catalog entry.
func NormalizeName(name string) string {
	fields := strings.Fields(name)
	for i, f := range fields {
		lower := strings.ToLower(f)
		fields[i] = strings.ToUpper(lower[:1]) + lower[1:]
	}
	return strings.Join(fields, " ")
}

func cachedList(key string, load func() ([]string, error)) ([]string, error) {
	if raw, err := cache.Get(key); err == nil && raw != "" {
		var names []string
		if json.Unmarshal([]byte(raw), &names) == nil {
			return names, nil
		}
	}

	names, err := load()
	if err != nil {
		return nil, err
	}

	if raw, err := json.Marshal(names); err == nil {
		_ = cache.Set(key, string(raw), catalogCacheTTL)
	}
	return names, nil
}

// Zones lists the zone names in the catalog.
func (c *Catalog) Zones() ([]string, error) {
	return cachedList(listKey("zones"), c.wards.Zones)
}

// Districts lists the district names inside a zone.
func (c *Catalog) Districts(zone string) ([]string, error) {
	key := listKey("districts", strings.ToLower(zone))
	return cachedList(key, func() ([]string, error) {
		return c.wards.Districts(zone)
	})
}

// Subdistricts lists the subdistrict names inside a district.
func (c *Catalog) Subdistricts(district string) ([]string, error) {
	key := listKey("subdistricts", strings.ToLower(district))
	return cachedList(key, func() ([]string, error) {
		return c.wards.Subdistricts(district)
	})
}

// LocalBodies lists the local body names of one type inside a subdistrict.
// The type may arrive as a code or a full label.
func (c *Catalog) LocalBodies(subdistrict, localBodyType string) ([]string, error) {
	code := sponsorcart.NormalizeType(localBodyType)
	key := listKey("localbodies", strings.ToLower(subdistrict), code)
	return cachedList(key, func() ([]string, error) {
		return c.wards.LocalBodies(subdistrict, code)
	})
}

func (c *Catalog) occupancyIndex(now time.Time) (*occupancy.Index, error) {
	records, err := c.orders.CountingOrders(now.Add(-occupancy.PendingLockWindow))
	if err != nil {
		return nil, err
	}

	orders := make([]occupancy.Order, 0, len(records))
	for i := range records {
		items, err := records[i].Cart()
		if err != nil {
			continue
		}
		orders = append(orders, occupancy.Order{
			Status:    records[i].Status,
			CreatedAt: records[i].CreatedAt,
			Items:     items,
		})
	}
	return occupancy.NewIndex(orders, now), nil
}

func wardView(ward models.Ward, idx *occupancy.Index) WardView {
	status := idx.Lookup(ward.WardName, ward.LocalBodyName, ward.LocalBodyType)
	return WardView{
		ID:             ward.ID,
		WardName:       ward.WardName,
		LocalBodyName:  ward.LocalBodyName,
		LocalBodyType:  ward.TypeCode(),
		LocalBodyLabel: sponsorcart.TypeLabel(ward.LocalBodyType),
		Subdistrict:    ward.Subdistrict,
		District:       ward.District,
		Zone:           ward.Zone,
		State:          ward.State,
		MonthlyRate:    sponsorcart.RatePerExecutive,
		MaxExecutives:  sponsorcart.MaxExecutivesFor(ward.LocalBodyType),
		Occupancy:      status,
	}
}

// typeFilter maps a type parameter to the catalog code stored on ward rows.
// The all-types marker means no filter; matching it literally would select
// nothing.
func typeFilter(localBodyType string) string {
	if localBodyType == "" {
		return ""
	}
	code := sponsorcart.NormalizeType(localBodyType)
	if code == sponsorcart.TypeAll {
		return ""
	}
	return code
}

// Wards returns the wards under a hierarchy node with occupancy applied.
func (c *Catalog) Wards(query repository.WardQuery, now time.Time) ([]WardView, error) {
	query.LocalBodyType = typeFilter(query.LocalBodyType)
	wards, err := c.wards.Find(query)
	if err != nil {
		return nil, err
	}

	idx, err := c.occupancyIndex(now)
	if err != nil {
		return nil, err
	}

	views := make([]WardView, 0, len(wards))
	for _, ward := range wards {
		views = append(views, wardView(ward, idx))
	}
	return views, nil
}

// Summarize aggregates remaining capacity under a hierarchy node for the
// bulk selection preview.
func (c *Catalog) Summarize(query repository.WardQuery, now time.Time) (*Summary, error) {
	views, err := c.Wards(query, now)
	if err != nil {
		return nil, err
	}
	return SummarizeViews(views), nil
}

// SummarizeViews folds occupancy-resolved wards into a Summary. Wards with
// no remaining slots drop out entirely.
func SummarizeViews(views []WardView) *Summary {
	summary := &Summary{Breakdown: make(map[string]int)}
	for _, view := range views {
		available := view.Occupancy.AvailableExecutives
		if available == 0 {
			continue
		}
		summary.WardCount++
		summary.AvailableExecutives += available
		summary.Breakdown[view.LocalBodyType]++
	}
	summary.EstimatedCost = int64(summary.AvailableExecutives) * sponsorcart.RatePerExecutive
	return summary
}

// WardsUnderNode resolves the concrete sponsorable wards a bulk cart entry
// expands to at activation time. Fully occupied wards are skipped.
func (c *Catalog) WardsUnderNode(item sponsorcart.CartItem, now time.Time) ([]WardView, error) {
	if !item.IsBulk {
		return nil, fmt.Errorf("cart item %s is not a bulk selection", item.ID)
	}

	query := repository.WardQuery{}
	h := item.Hierarchy
	if h != nil {
		query.Zone = h.Zone
		query.District = h.District
		query.Subdistrict = h.Subdistrict
		if h.LocalBodyType != "" && item.BulkLevel != sponsorcart.LevelSubdistrict {
			query.LocalBodyType = sponsorcart.NormalizeType(h.LocalBodyType)
		}
		query.LocalBodyName = h.LocalBodyName
	}

	views, err := c.Wards(query, now)
	if err != nil {
		return nil, err
	}

	available := views[:0]
	for _, view := range views {
		if view.Occupancy.AvailableExecutives > 0 {
			available = append(available, view)
		}
	}
	return available, nil
}

// InvalidateCache drops every cached hierarchy listing, called after a
// catalog import.
func (c *Catalog) InvalidateCache() {
	_ = cache.DeletePrefix(cachePrefix)
}
