package checkout

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrOrderNotFound means no sponsorship matches the given identifier.
	ErrOrderNotFound = errors.New("sponsorship order not found")

	// ErrSignatureMismatch means the gateway signature did not verify.
	// The order stays pending; the sponsor can retry payment.
	ErrSignatureMismatch = errors.New("payment signature verification failed")

	// ErrNotAllowed is returned for any ownership or permission failure.
	// It deliberately carries no detail about whose order it is.
	ErrNotAllowed = errors.New("not allowed")

	// ErrInvalidState means the order is not in a status the requested
	// transition accepts.
	ErrInvalidState = errors.New("sponsorship order is not in a valid state for this operation")

	// ErrEmptyCart means checkout was submitted without any selections.
	ErrEmptyCart = errors.New("cart is empty")
)

// StaleStateError reports wards that were consumed by other orders between
// checkout submission and payment verification. The payment is not applied
// and the order stays pending.
type StaleStateError struct {
	Wards []string
}

func (e *StaleStateError) Error() string {
	return fmt.Sprintf("wards no longer available: %s", strings.Join(e.Wards, ", "))
}
