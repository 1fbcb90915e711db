package cart

import (
	"sync"

	"github.com/ashendes/bec-market/internal/models"
)

// Registry keeps one cart per browsing session, keyed by purchaser email.
type Registry struct {
	carts map[string]*Cart
	mutex sync.Mutex
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{carts: make(map[string]*Cart)}
}

// Update runs fn against the session's cart, creating it if needed, and
// returns the resulting summary.
func (r *Registry) Update(key string, fn func(*Cart)) models.CartSummary {
	r.mutex.Lock()
	defer r.mutex.Unlock()

	c, exists := r.carts[key]
	if !exists {
		c = New()
		r.carts[key] = c
	}
	fn(c)
	return c.Summary()
}

// Snapshot returns the current summary without modifying the cart.
func (r *Registry) Snapshot(key string) models.CartSummary {
	r.mutex.Lock()
	defer r.mutex.Unlock()

	c, exists := r.carts[key]
	if !exists {
		return New().Summary()
	}
	return c.Summary()
}

// Clear drops the session's cart.
func (r *Registry) Clear(key string) {
	r.mutex.Lock()
	defer r.mutex.Unlock()
	delete(r.carts, key)
}
