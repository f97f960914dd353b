package payment

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"strings"
)

// SignaturePayload builds the string the gateway signs on checkout
// completion: the order ID and payment ID joined by a pipe.
func SignaturePayload(orderID, paymentID string) string {
	return orderID + "|" + paymentID
}

// VerifySignature checks the hex-encoded HMAC-SHA256 signature returned by
// the gateway against the order/payment pair. Comparison is constant time.
func VerifySignature(orderID, paymentID, signature, secret string) bool {
	sig := strings.TrimSpace(signature)
	if sig == "" || strings.TrimSpace(secret) == "" {
		return false
	}
	if orderID == "" || paymentID == "" {
		return false
	}

	decodedSig, err := hex.DecodeString(strings.ToLower(sig))
	if err != nil {
		return false
	}

	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write([]byte(SignaturePayload(orderID, paymentID)))
	return hmac.Equal(mac.Sum(nil), decodedSig)
}
