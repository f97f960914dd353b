package cartstore

import (
	"encoding/json"
	"time"

	"github.com/WeOneApp/wardsponsor/internal/pkg/cache"
	"github.com/WeOneApp/wardsponsor/internal/pkg/sponsorcart"
)

// cartTTL keeps abandoned carts around long enough to survive a browsing
// pause but not forever.
const cartTTL = 7 * 24 * time.Hour

func cartKey(sessionID string) string {
	return "cart:" + sessionID
}

// Load returns the cart stored for a session. A missing or unreadable cart
// comes back empty, never as an error the caller must branch on.
func Load(sessionID string) *sponsorcart.Cart {
	raw, err := cache.Get(cartKey(sessionID))
	if err != nil || raw == "" {
		return &sponsorcart.Cart{}
	}

	var cart sponsorcart.Cart
	if err := json.Unmarshal([]byte(raw), &cart); err != nil {
		return &sponsorcart.Cart{}
	}
	return &cart
}

// Save persists the cart for a session.
func Save(sessionID string, cart *sponsorcart.Cart) error {
	raw, err := json.Marshal(cart)
	if err != nil {
		return err
	}
	return cache.Set(cartKey(sessionID), string(raw), cartTTL)
}

// Clear drops the session's cart, typically after checkout submission.
func Clear(sessionID string) error {
	return cache.Delete(cartKey(sessionID))
}
