package checkout

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2/log"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/WeOneApp/wardsponsor/app/models"
	"github.com/WeOneApp/wardsponsor/internal/pkg/occupancy"
	"github.com/WeOneApp/wardsponsor/internal/pkg/payment"
	"github.com/WeOneApp/wardsponsor/internal/pkg/sponsorcart"
)

// sponsorshipMonth is the fixed month length used to derive the end date of
// an activated sponsorship.
const sponsorshipMonth = 30 * 24 * time.Hour

// ReceiptSender delivers the post-payment receipt. Delivery failures never
// fail the activation.
type ReceiptSender interface {
	SendReceipt(s *models.Sponsorship) error
}

// SubmitInput is a checkout submission: sponsor details plus the cart the
// sponsor is paying for.
type SubmitInput struct {
	UserID         uint                   `validate:"required"`
	SponsorName    string                 `validate:"required,min=2,max=150"`
	SponsorEmail   string                 `validate:"required,email"`
	SponsorType    string                 `validate:"required,oneof=individual company"`
	DurationMonths int                    `validate:"required,min=1,max=60"`
	Items          []sponsorcart.CartItem `validate:"required,min=1"`
}

// Service orchestrates the checkout flow: order submission, gateway order
// creation, payment verification with activation, cancellation and expiry.
type Service struct {
	db       *gorm.DB
	gateway  payment.Gateway
	receipts ReceiptSender
	validate *validator.Validate
}

// NewService creates a checkout service. receipts may be nil to disable
// receipt delivery.
func NewService(db *gorm.DB, gateway payment.Gateway, receipts ReceiptSender) *Service {
	return &Service{
		db:       db,
		gateway:  gateway,
		receipts: receipts,
		validate: validator.New(),
	}
}

// GatewayKeyID exposes the public gateway key the payment widget embeds.
func (s *Service) GatewayKeyID() string {
	return s.gateway.KeyID()
}

// SubmitOrder validates the submission, persists a pending sponsorship with
// the cart snapshot, creates the gateway order and records the audit event.
// The returned gateway order carries the paise amount the widget charges.
func (s *Service) SubmitOrder(ctx context.Context, input SubmitInput) (*models.Sponsorship, *payment.Order, error) {
	if len(input.Items) == 0 {
		return nil, nil, ErrEmptyCart
	}
	if err := s.validate.Struct(input); err != nil {
		return nil, nil, err
	}

	// Totals are always recomputed server side from the snapshot.
	cart := sponsorcart.Cart{Items: input.Items}
	total := cart.TotalForMonths(input.DurationMonths)
	if total <= 0 {
		return nil, nil, ErrEmptyCart
	}

	order := &models.Sponsorship{
		UserID:         input.UserID,
		SponsorName:    strings.TrimSpace(input.SponsorName),
		SponsorEmail:   strings.ToLower(strings.TrimSpace(input.SponsorEmail)),
		SponsorType:    input.SponsorType,
		TotalAmount:    total,
		Status:         models.SPONSORSHIP_PENDING,
		DurationMonths: input.DurationMonths,
	}
	if err := order.SetCart(input.Items); err != nil {
		return nil, nil, err
	}
	if err := s.db.Create(order).Error; err != nil {
		return nil, nil, err
	}

	receipt := fmt.Sprintf("spn_%d", order.ID)
	gwOrder, err := s.gateway.CreateOrder(ctx, total, receipt, map[string]string{
		"sponsorship_id": fmt.Sprintf("%d", order.ID),
		"sponsor_email":  order.SponsorEmail,
	})
	if err != nil {
		return nil, nil, fmt.Errorf("gateway order creation failed: %w", err)
	}

	order.ProviderOrderID = gwOrder.ID
	if err := s.db.Save(order).Error; err != nil {
		return nil, nil, err
	}

	s.recordEvent(order, models.PaymentEventOrderCreated, "", true, gwOrder)
	return order, gwOrder, nil
}

// RecreatePaymentOrder issues a fresh gateway order for a pending
// sponsorship whose earlier payment attempt went nowhere. Only the owner
// may retry.
func (s *Service) RecreatePaymentOrder(ctx context.Context, sponsorshipID, userID uint) (*models.Sponsorship, *payment.Order, error) {
	var order models.Sponsorship
	if err := s.db.First(&order, sponsorshipID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil, ErrOrderNotFound
		}
		return nil, nil, err
	}
	if order.UserID != userID {
		return nil, nil, ErrNotAllowed
	}
	if order.Status != models.SPONSORSHIP_PENDING {
		return nil, nil, ErrInvalidState
	}

	receipt := fmt.Sprintf("spn_%d", order.ID)
	gwOrder, err := s.gateway.CreateOrder(ctx, order.TotalAmount, receipt, map[string]string{
		"sponsorship_id": fmt.Sprintf("%d", order.ID),
		"sponsor_email":  order.SponsorEmail,
	})
	if err != nil {
		return nil, nil, fmt.Errorf("gateway order creation failed: %w", err)
	}

	order.ProviderOrderID = gwOrder.ID
	if err := s.db.Save(&order).Error; err != nil {
		return nil, nil, err
	}

	s.recordEvent(&order, models.PaymentEventOrderCreated, "", true, gwOrder)
	return &order, gwOrder, nil
}

// VerifyAndActivate checks the gateway signature and, inside one
// transaction, re-verifies ward capacity against the current ledger before
// flipping the order to active. A signature mismatch or stale ward leaves
// the order pending and the payment unapplied.
func (s *Service) VerifyAndActivate(ctx context.Context, providerOrderID, paymentID, signature string) (*models.Sponsorship, error) {
	var order models.Sponsorship
	if err := s.db.Where("provider_order_id = ?", providerOrderID).First(&order).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrOrderNotFound
		}
		return nil, err
	}

	if !s.gateway.VerifySignature(providerOrderID, paymentID, signature) {
		s.recordEvent(&order, models.PaymentEventSignatureMismatch, paymentID, false, nil)
		return nil, ErrSignatureMismatch
	}

	now := time.Now()

	err := s.db.Transaction(func(tx *gorm.DB) error {
		var locked models.Sponsorship
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("provider_order_id = ?", providerOrderID).First(&locked).Error; err != nil {
			return err
		}

		// Replays of an already applied payment succeed idempotently.
		if locked.Status == models.SPONSORSHIP_ACTIVE && locked.PaymentID == paymentID {
			order = locked
			return nil
		}
		if locked.Status != models.SPONSORSHIP_PENDING {
			return ErrInvalidState
		}

		items, err := locked.Cart()
		if err != nil {
			return err
		}

		ledger, err := countingOrders(tx, locked.ID, now)
		if err != nil {
			return err
		}
		if stale := staleWards(items, ledger, now); len(stale) > 0 {
			return &StaleStateError{Wards: stale}
		}

		start := now
		end := now.Add(time.Duration(locked.DurationMonths) * sponsorshipMonth)
		for i := range items {
			items[i].StartDate = start
			items[i].EndDate = end
		}
		if err := locked.SetCart(items); err != nil {
			return err
		}

		locked.Status = models.SPONSORSHIP_ACTIVE
		locked.PaymentID = paymentID
		locked.PaymentDate = &now
		locked.StartDate = &start
		locked.EndDate = &end
		if err := tx.Save(&locked).Error; err != nil {
			return err
		}

		ids, err := claimedWardIDs(tx, items, occupancy.NewIndex(ledger, now))
		if err != nil {
			return err
		}
		if len(ids) > 0 {
			if err := tx.Model(&models.Ward{}).Where("id IN ?", ids).
				Updates(map[string]interface{}{"is_sponsored": true, "sponsored_until": end}).Error; err != nil {
				return err
			}
		}

		order = locked
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.recordEvent(&order, models.PaymentEventVerified, paymentID, true, nil)

	if s.receipts != nil {
		if err := s.receipts.SendReceipt(&order); err != nil {
			log.Errorf("[Checkout] receipt delivery failed for order %d: %v", order.ID, err)
		}
	}
	return &order, nil
}

// countingOrders reads every other order that contributes to occupancy:
// active orders plus pending ones still inside the lock window. Read errors
// and unreadable cart snapshots abort the caller's transaction; activating
// against a partial ledger would undercount occupancy.
func countingOrders(tx *gorm.DB, excludeID uint, now time.Time) ([]occupancy.Order, error) {
	var records []models.Sponsorship
	cutoff := now.Add(-occupancy.PendingLockWindow)
	if err := tx.Where("id <> ?", excludeID).
		Where("status = ? OR (status = ? AND created_at > ?)",
			models.SPONSORSHIP_ACTIVE, models.SPONSORSHIP_PENDING, cutoff).
		Find(&records).Error; err != nil {
		return nil, fmt.Errorf("reading occupancy ledger: %w", err)
	}

	orders := make([]occupancy.Order, 0, len(records))
	for i := range records {
		items, err := records[i].Cart()
		if err != nil {
			return nil, fmt.Errorf("order %d carries an unreadable cart snapshot: %w", records[i].ID, err)
		}
		orders = append(orders, occupancy.Order{
			Status:    records[i].Status,
			CreatedAt: records[i].CreatedAt,
			Items:     items,
		})
	}
	return orders, nil
}

// staleWards returns the wards in the snapshot that no longer have enough
// capacity against the given ledger.
func staleWards(items []sponsorcart.CartItem, ledger []occupancy.Order, now time.Time) []string {
	var stale []string
	for _, item := range items {
		if item.Ward == nil {
			continue
		}
		status := occupancy.Resolve(item.Ward.WardName, item.Ward.LocalBodyName, item.Ward.LocalBodyType, ledger, now)
		if status.AvailableExecutives < item.ExecutivesSponsored {
			stale = append(stale, item.Ward.WardName)
		}
	}
	return stale
}

// Cancel atomically cancels a sponsorship and releases its ward locks. Only
// the owner (or an admin) may cancel; any other caller gets the same
// generic denial a nonexistent order would.
func (s *Service) Cancel(ctx context.Context, sponsorshipID, userID uint, isAdmin bool) error {
	_ = ctx
	return s.db.Transaction(func(tx *gorm.DB) error {
		var order models.Sponsorship
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			First(&order, sponsorshipID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrOrderNotFound
			}
			return err
		}

		if order.UserID != userID && !isAdmin {
			return ErrNotAllowed
		}
		if order.Status != models.SPONSORSHIP_PENDING && order.Status != models.SPONSORSHIP_ACTIVE {
			return ErrInvalidState
		}

		wasActive := order.Status == models.SPONSORSHIP_ACTIVE
		order.Status = models.SPONSORSHIP_CANCELLED
		if err := tx.Save(&order).Error; err != nil {
			return err
		}

		if wasActive {
			if err := releaseWardLocks(tx, &order); err != nil {
				return err
			}
		}

		s.recordEvent(&order, models.PaymentEventCancelled, order.PaymentID, true, nil)
		return nil
	})
}

// ExpireOverdue is the sweeper entry point: it expires pending orders whose
// lock window lapsed and active orders past their end date, releasing ward
// locks. Returns how many orders changed status.
func (s *Service) ExpireOverdue(now time.Time) (int, error) {
	// The status guard in the WHERE clause keeps a concurrent activation or
	// cancellation from being overwritten with an expiry.
	cutoff := now.Add(-occupancy.PendingLockWindow)
	res := s.db.Model(&models.Sponsorship{}).
		Where("status = ? AND created_at <= ?", models.SPONSORSHIP_PENDING, cutoff).
		Update("status", models.SPONSORSHIP_EXPIRED)
	if res.Error != nil {
		return 0, res.Error
	}
	expired := int(res.RowsAffected)

	var activeIDs []uint
	if err := s.db.Model(&models.Sponsorship{}).
		Where("status = ? AND end_date IS NOT NULL AND end_date <= ?",
			models.SPONSORSHIP_ACTIVE, now).Pluck("id", &activeIDs).Error; err != nil {
		return expired, err
	}
	for _, id := range activeIDs {
		changed := false
		err := s.db.Transaction(func(tx *gorm.DB) error {
			var order models.Sponsorship
			if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
				First(&order, id).Error; err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					return nil
				}
				return err
			}
			// Re-check under the row lock; the order may have been cancelled
			// since the candidate scan.
			if order.Status != models.SPONSORSHIP_ACTIVE || order.EndDate == nil || order.EndDate.After(now) {
				return nil
			}

			order.Status = models.SPONSORSHIP_EXPIRED
			if err := tx.Save(&order).Error; err != nil {
				return err
			}
			if err := releaseWardLocks(tx, &order); err != nil {
				return err
			}
			changed = true
			return nil
		})
		if err != nil {
			return expired, err
		}
		if changed {
			expired++
		}
	}

	return expired, nil
}

// releaseWardLocks clears the sponsored flag on the order's wards, except
// those another active order still claims.
func releaseWardLocks(tx *gorm.DB, order *models.Sponsorship) error {
	items, err := order.Cart()
	if err != nil {
		return err
	}
	ids, err := claimedWardIDs(tx, items, nil)
	if err != nil {
		return err
	}
	if len(ids) == 0 {
		return nil
	}

	held, err := wardsHeldByOthers(tx, order.ID)
	if err != nil {
		return err
	}
	release := releasableWardIDs(ids, held)
	if len(release) == 0 {
		return nil
	}
	return tx.Model(&models.Ward{}).Where("id IN ?", release).
		Updates(map[string]interface{}{"is_sponsored": false, "sponsored_until": nil}).Error
}

// wardsHeldByOthers collects every ward id any other active order claims.
// Bulk claims are expanded without an availability filter, so an ambiguous
// ward stays locked rather than being freed under an active sponsor.
func wardsHeldByOthers(tx *gorm.DB, excludeID uint) (map[uint]bool, error) {
	var others []models.Sponsorship
	if err := tx.Where("id <> ? AND status = ?", excludeID, models.SPONSORSHIP_ACTIVE).
		Find(&others).Error; err != nil {
		return nil, err
	}

	held := make(map[uint]bool)
	for i := range others {
		items, err := others[i].Cart()
		if err != nil {
			return nil, fmt.Errorf("order %d carries an unreadable cart snapshot: %w", others[i].ID, err)
		}
		ids, err := claimedWardIDs(tx, items, nil)
		if err != nil {
			return nil, err
		}
		for _, id := range ids {
			held[id] = true
		}
	}
	return held, nil
}

func releasableWardIDs(ids []uint, held map[uint]bool) []uint {
	release := make([]uint, 0, len(ids))
	for _, id := range ids {
		if !held[id] {
			release = append(release, id)
		}
	}
	return release
}

// claimedWardIDs resolves every ward a cart snapshot claims: individual
// entries directly, bulk entries by expanding their hierarchy node against
// the catalog. With an occupancy index the expansion skips fully occupied
// wards, the same exclusion the bulk selection preview applies.
func claimedWardIDs(tx *gorm.DB, items []sponsorcart.CartItem, idx *occupancy.Index) ([]uint, error) {
	ids := wardIDs(items)
	for i := range items {
		if !items[i].IsBulk || items[i].Hierarchy == nil {
			continue
		}
		h := items[i].Hierarchy

		q := tx.Model(&models.Ward{})
		if h.Zone != "" {
			q = q.Where("zone = ?", h.Zone)
		}
		if h.District != "" {
			q = q.Where("district = ?", h.District)
		}
		if h.Subdistrict != "" {
			q = q.Where("subdistrict = ?", h.Subdistrict)
		}
		if h.LocalBodyType != "" {
			q = q.Where("local_body_type = ?", h.LocalBodyType)
		}
		if h.LocalBodyName != "" {
			q = q.Where("local_body_name = ?", h.LocalBodyName)
		}

		var wards []models.Ward
		if err := q.Find(&wards).Error; err != nil {
			return nil, err
		}
		ids = append(ids, lockableWardIDs(wards, idx)...)
	}
	return ids, nil
}

// lockableWardIDs filters expanded bulk wards through the occupancy index.
// A nil index keeps every ward.
func lockableWardIDs(wards []models.Ward, idx *occupancy.Index) []uint {
	ids := make([]uint, 0, len(wards))
	for _, ward := range wards {
		if idx != nil && idx.Lookup(ward.WardName, ward.LocalBodyName, ward.LocalBodyType).AvailableExecutives == 0 {
			continue
		}
		ids = append(ids, ward.ID)
	}
	return ids
}

func wardIDs(items []sponsorcart.CartItem) []uint {
	var ids []uint
	for _, item := range items {
		if item.Ward != nil && item.Ward.ID != 0 {
			ids = append(ids, item.Ward.ID)
		}
	}
	return ids
}

// recordEvent appends a payment audit row; failures are logged, never fatal.
func (s *Service) recordEvent(order *models.Sponsorship, eventType, paymentID string, signatureValid bool, payload interface{}) {
	event := &models.PaymentEvent{
		Provider:          models.PaymentProviderRazorpay,
		ProviderOrderID:   order.ProviderOrderID,
		ProviderPaymentID: paymentID,
		SponsorshipID:     order.ID,
		EventType:         eventType,
		SignatureValid:    signatureValid,
	}
	if payload != nil {
		if raw, err := json.Marshal(payload); err == nil {
			event.PayloadJSON = string(raw)
		}
	}
	now := time.Now()
	event.ProcessedAt = &now
	if err := s.db.Create(event).Error; err != nil {
		log.Errorf("[Checkout] failed to record payment event %s for order %d: %v", eventType, order.ID, err)
	}
}
