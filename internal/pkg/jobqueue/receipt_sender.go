package jobqueue

import (
	"github.com/WeOneApp/wardsponsor/app/models"
)

// QueuedReceiptSender hands receipt delivery to the background queue so a
// slow SMTP relay never holds up payment verification.
type QueuedReceiptSender struct{}

// NewQueuedReceiptSender creates a queue-backed receipt sender.
func NewQueuedReceiptSender() *QueuedReceiptSender {
	return &QueuedReceiptSender{}
}

// SendReceipt enqueues a receipt delivery job for the sponsorship.
func (QueuedReceiptSender) SendReceipt(s *models.Sponsorship) error {
	payload := ReceiptEmailJobPayload{SponsorshipID: s.ID}
	_, err := GetManager().GetQueue().EnqueueJob(JobTypeReceiptEmail, payload.ToMap())
	return err
}
