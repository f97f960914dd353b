package payment

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func sign(payload, secret string) string {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write([]byte(payload))
	return hex.EncodeToString(mac.Sum(nil))
}

func TestVerifySignature(t *testing.T) {
	secret := "test_secret_key"
	orderID := "order_Nf8qX2pZ1a"
	paymentID := "pay_Ng3rT7wB4c"
	valid := sign(orderID+"|"+paymentID, secret)

	tests := []struct {
		name      string
		orderID   string
		paymentID string
		signature string
		secret    string
		want      bool
	}{
		{"valid signature", orderID, paymentID, valid, secret, true},
		{"uppercase hex accepted", orderID, paymentID, strings.ToUpper(valid), secret, true},
		{"surrounding whitespace trimmed", orderID, paymentID, " " + valid + " ", secret, true},
		{"tampered payment id", orderID, "pay_other", valid, secret, false},
		{"tampered order id", "order_other", paymentID, valid, secret, false},
		{"wrong secret", orderID, paymentID, valid, "other_secret", false},
		{"empty signature", orderID, paymentID, "", secret, false},
		{"empty secret", orderID, paymentID, valid, "", false},
		{"empty order id", "", paymentID, valid, secret, false},
		{"non-hex signature", orderID, paymentID, "not-hex!", secret, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := VerifySignature(tt.orderID, tt.paymentID, tt.signature, tt.secret)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestSignaturePayload(t *testing.T) {
	assert.Equal(t, "order_1|pay_1", SignaturePayload("order_1", "pay_1"))
}

func TestToPaise(t *testing.T) {
	assert.Equal(t, int64(1500000), ToPaise(15000))
	assert.Equal(t, int64(0), ToPaise(0))
}
