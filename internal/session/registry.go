package session

import (
	"sync"
	"time"

	"github.com/fjod/go_storefront/internal/cart"
	"github.com/google/uuid"
)

const (
	// DefaultTTL is how long an idle session keeps its cart
	DefaultTTL = 30 * time.Minute

	// CleanupInterval is how often the background cleanup runs
	CleanupInterval = 30 * time.Second
)

type entry struct {
	cart     *cart.Store
	lastSeen time.Time
}

// Registry owns one cart per shopper session. Nothing is persisted: a restart
// or an expired session starts from an empty cart.
type Registry struct {
	mu       sync.RWMutex
	sessions map[string]*entry
	ttl      time.Duration
	now      func() time.Time

	stopCleanup chan struct{}
	wg          sync.WaitGroup
}

// NewRegistry creates a registry and starts its cleanup goroutine
func NewRegistry(ttl time.Duration) *Registry {
	return newRegistry(ttl, CleanupInterval, time.Now)
}

func newRegistry(ttl, interval time.Duration, now func() time.Time) *Registry {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	r := &Registry{
		sessions:    make(map[string]*entry),
		ttl:         ttl,
		now:         now,
		stopCleanup: make(chan struct{}),
	}

	r.wg.Add(1)
	go r.cleanupLoop(interval)

	return r
}

// Acquire returns the cart for id, creating a fresh session when id is empty,
// unknown or expired. The returned id is the one the caller must keep using.
func (r *Registry) Acquire(id string) (string, *cart.Store) {
	r.mu.Lock()
	defer r.mu.Unlock()

	now := r.now()
	if e, ok := r.sessions[id]; ok && !r.expired(e, now) {
		e.lastSeen = now
		return id, e.cart
	}
	if id != "" {
		delete(r.sessions, id)
	}

	newID := uuid.New().String()
	e := &entry{cart: cart.NewStore(), lastSeen: now}
	r.sessions[newID] = e
	return newID, e.cart
}

// Lookup returns the cart for a live session without creating one.
func (r *Registry) Lookup(id string) (*cart.Store, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	e, ok := r.sessions[id]
	if !ok || r.expired(e, r.now()) {
		return nil, false
	}
	return e.cart, true
}

// End drops a session and its cart.
func (r *Registry) End(id string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.sessions, id)
}

func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.sessions)
}

// cleanupLoop periodically drops idle sessions
func (r *Registry) cleanupLoop(interval time.Duration) {
	defer r.wg.Done()

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			r.expireSessions()
		case <-r.stopCleanup:
			return
		}
	}
}

func (r *Registry) expireSessions() {
	r.mu.Lock()
	defer r.mu.Unlock()

	now := r.now()
	for id, e := range r.sessions {
		if r.expired(e, now) {
			delete(r.sessions, id)
		}
	}
}

func (r *Registry) expired(e *entry, now time.Time) bool {
	return now.Sub(e.lastSeen) > r.ttl
}

// Close stops the background cleanup and waits for it to finish
func (r *Registry) Close() error {
	close(r.stopCleanup)
	r.wg.Wait()
	return nil
}
