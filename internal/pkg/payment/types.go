package payment

import "context"

// Order is a payment order created at the gateway. Amount is in paise, the
// gateway's minor unit; everything above this package works in rupees.
type Order struct {
	ID       string `json:"id"`
	Amount   int64  `json:"amount"`
	Currency string `json:"currency"`
	Receipt  string `json:"receipt"`
	Status   string `json:"status"`
}

// Gateway abstracts the payment provider so the checkout service can be
// tested without network calls.
type Gateway interface {
	CreateOrder(ctx context.Context, amountRupees int64, receipt string, notes map[string]string) (*Order, error)
	VerifySignature(orderID, paymentID, signature string) bool
	KeyID() string
}

// ToPaise converts a rupee amount to the gateway's minor unit. This is the
// only place the conversion happens; callers must pass rupees.
func ToPaise(rupees int64) int64 {
	return rupees * 100
}
