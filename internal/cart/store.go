package cart

import (
	"sync"

	"github.com/fjod/go_storefront/internal/domain"
)

// Store holds the line items of one shopper's cart.
//
// Store trusts its caller: quantities and product fields are expected to have
// gone through the validation package already. Every method is a complete
// state transition and none of them fail.
type Store struct {
	mu    sync.RWMutex
	items []domain.CartItem
	count int
}

// NewStore creates an empty cart
func NewStore() *Store {
	return &Store{}
}

// Add appends product with the given quantity, or merges the quantity into the
// existing line for the same product id. A merged line keeps its position.
func (s *Store) Add(product domain.Product, quantity int) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if i := s.indexOf(product.ID); i >= 0 {
		s.items[i].Quantity += quantity
	} else {
		s.items = append(s.items, domain.NewCartItem(product, quantity))
	}
	s.recount()
}

// Increment raises the quantity of id by one. Unknown ids are ignored.
func (s *Store) Increment(id int64) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if i := s.indexOf(id); i >= 0 {
		s.items[i].Quantity++
		s.recount()
	}
}

// Decrement lowers the quantity of id by one while it stays at least 1.
// Removing a line is a separate action, see Remove.
func (s *Store) Decrement(id int64) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if i := s.indexOf(id); i >= 0 && s.items[i].Quantity > 1 {
		s.items[i].Quantity--
		s.recount()
	}
}

// Remove deletes the line for id. Unknown ids are ignored.
func (s *Store) Remove(id int64) {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.indexOf(id)
	if i < 0 {
		return
	}
	s.items = append(s.items[:i:i], s.items[i+1:]...)
	s.recount()
}

// Clear empties the cart.
func (s *Store) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.items = nil
	s.recount()
}

// Items returns a copy of the lines in insertion order.
func (s *Store) Items() []domain.CartItem {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]domain.CartItem, len(s.items))
	copy(out, s.items)
	return out
}

// Find returns the line for id.
func (s *Store) Find(id int64) (domain.CartItem, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if i := s.indexOf(id); i >= 0 {
		return s.items[i], true
	}
	return domain.CartItem{}, false
}

// ItemCount is the sum of quantities over all lines.
func (s *Store) ItemCount() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.count
}

func (s *Store) TotalPrice() float64 {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var total float64
	for _, item := range s.items {
		total += item.Subtotal()
	}
	return total
}

func (s *Store) IsEmpty() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.items) == 0
}

// Snapshot returns lines, count and total under a single read lock.
func (s *Store) Snapshot() ([]domain.CartItem, int, float64) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	items := make([]domain.CartItem, len(s.items))
	copy(items, s.items)
	var total float64
	for _, item := range s.items {
		total += item.Subtotal()
	}
	return items, s.count, total
}

// Drain returns the current lines and empties the cart atomically.
func (s *Store) Drain() []domain.CartItem {
	s.mu.Lock()
	defer s.mu.Unlock()

	items := s.items
	s.items = nil
	s.recount()
	return items
}

func (s *Store) indexOf(id int64) int {
	for i := range s.items {
		if s.items[i].ID == id {
			return i
		}
	}
	return -1
}

// recount must be called with mu held for writing.
func (s *Store) recount() {
	count := 0
	for _, item := range s.items {
		count += item.Quantity
	}
	s.count = count
}
