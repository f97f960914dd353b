package mail

import (
	"fmt"
	"strings"

	"github.com/WeOneApp/wardsponsor/app/models"
	"github.com/WeOneApp/wardsponsor/app/repository"
	"github.com/WeOneApp/wardsponsor/internal/pkg/sponsorcart"
)

// ReceiptMailer builds and sends sponsorship receipts over SMTP.
type ReceiptMailer struct{}

// NewReceiptMailer creates a receipt mailer.
func NewReceiptMailer() *ReceiptMailer {
	return &ReceiptMailer{}
}

// SendReceipt mails the payment receipt for an activated sponsorship.
func (m *ReceiptMailer) SendReceipt(s *models.Sponsorship) error {
	subject := fmt.Sprintf("Sponsorship receipt #%d", s.ID)
	body, err := buildReceiptBody(s)
	if err != nil {
		return err
	}
	return SendMail(s.SponsorEmail, subject, body)
}

// SendReceiptByID loads the sponsorship and mails its receipt, used by the
// background queue.
func (m *ReceiptMailer) SendReceiptByID(sponsorshipID uint) error {
	order, err := repository.GetGlobalRepositories().Sponsorship.GetByID(sponsorshipID)
	if err != nil {
		return err
	}
	return m.SendReceipt(order)
}

func buildReceiptBody(s *models.Sponsorship) (string, error) {
	items, err := s.Cart()
	if err != nil {
		return "", err
	}

	var b strings.Builder
	b.WriteString(fmt.Sprintf("<h2>Thank you, %s!</h2>", s.SponsorName))
	b.WriteString("<p>Your ward sponsorship payment has been received.</p>")
	b.WriteString("<ul>")
	for _, item := range items {
		if item.IsBulk {
			b.WriteString(fmt.Sprintf("<li>%s (%d wards)</li>", item.DisplayName, item.BulkWardCount))
			continue
		}
		if item.Ward != nil {
			b.WriteString(fmt.Sprintf("<li>%s, %s &mdash; %d executive(s)</li>",
				item.Ward.WardName, item.Ward.LocalBodyName, item.ExecutivesSponsored))
		}
	}
	b.WriteString("</ul>")
	b.WriteString(fmt.Sprintf("<p>Duration: %d month(s)<br>", s.DurationMonths))
	b.WriteString(fmt.Sprintf("Amount paid: &#8377;%d (GST included)<br>", s.TotalAmount))
	b.WriteString(fmt.Sprintf("Wallet bonus credited: &#8377;%d</p>", sponsorcart.WalletBonus(s.TotalAmount)))
	if s.EndDate != nil {
		b.WriteString(fmt.Sprintf("<p>Your sponsorship runs until %s.</p>", s.EndDate.Format("02/01/2006")))
	}
	b.WriteString(fmt.Sprintf("<p>Payment reference: %s</p>", s.PaymentID))
	return b.String(), nil
}
