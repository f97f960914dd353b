package jobqueue

import (
	"fmt"
	"sync"
	"time"

	"github.com/gofiber/fiber/v2/log"
)

// ExpiryRunner sweeps the sponsorship ledger: it expires pending orders
// whose lock window lapsed and active orders past their end date.
type ExpiryRunner interface {
	ExpireOverdue(now time.Time) (int, error)
}

// ReceiptRunner delivers the receipt email for one sponsorship.
type ReceiptRunner interface {
	SendReceiptByID(sponsorshipID uint) error
}

var (
	runnerMu      sync.RWMutex
	expiryRunner  ExpiryRunner
	receiptRunner ReceiptRunner
)

// SetExpiryRunner wires the checkout service into the queue at startup.
func SetExpiryRunner(r ExpiryRunner) {
	runnerMu.Lock()
	defer runnerMu.Unlock()
	expiryRunner = r
}

// SetReceiptRunner wires the mail sender into the queue at startup.
func SetReceiptRunner(r ReceiptRunner) {
	runnerMu.Lock()
	defer runnerMu.Unlock()
	receiptRunner = r
}

// processSponsorshipExpiryJob runs one expiry sweep over the ledger
func (q *Queue) processSponsorshipExpiryJob(job *Job) error {
	runnerMu.RLock()
	runner := expiryRunner
	runnerMu.RUnlock()
	if runner == nil {
		return fmt.Errorf("no expiry runner registered")
	}

	expired, err := runner.ExpireOverdue(time.Now())
	if err != nil {
		return fmt.Errorf("expiry sweep failed: %w", err)
	}
	if expired > 0 {
		log.Infof("[JobQueue] Expiry sweep closed %d sponsorship orders", expired)
	}
	return nil
}

// processReceiptEmailJob sends the receipt for one paid sponsorship
func (q *Queue) processReceiptEmailJob(job *Job) error {
	runnerMu.RLock()
	runner := receiptRunner
	runnerMu.RUnlock()
	if runner == nil {
		return fmt.Errorf("no receipt runner registered")
	}

	payload, err := ReceiptEmailJobPayloadFromMap(job.Payload)
	if err != nil {
		return fmt.Errorf("invalid receipt payload: %w", err)
	}
	if payload.SponsorshipID == 0 {
		return fmt.Errorf("receipt payload missing sponsorship_id")
	}

	return runner.SendReceiptByID(payload.SponsorshipID)
}
