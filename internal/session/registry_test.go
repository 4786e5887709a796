package session

import (
	"sync"
	"testing"
	"time"

	"github.com/fjod/go_storefront/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

func setupRegistry(t *testing.T, ttl time.Duration) (*Registry, *fakeClock) {
	clock := &fakeClock{now: time.Date(2025, 7, 1, 12, 0, 0, 0, time.UTC)}
	r := newRegistry(ttl, time.Hour, clock.Now)
	t.Cleanup(func() { r.Close() })
	return r, clock
}

func TestAcquire_CreatesSession(t *testing.T) {
	r, _ := setupRegistry(t, time.Minute)

	id, store := r.Acquire("")
	require.NotEmpty(t, id)
	require.NotNil(t, store)
	assert.Equal(t, 1, r.Len())
}

func TestAcquire_ReturnsSameCart(t *testing.T) {
	r, _ := setupRegistry(t, time.Minute)

	id, store := r.Acquire("")
	store.Add(domain.Product{ID: 1, Name: "Citrus", Price: 100}, 2)

	sameID, sameStore := r.Acquire(id)
	assert.Equal(t, id, sameID)
	assert.Same(t, store, sameStore)
	assert.Equal(t, 2, sameStore.ItemCount())
}

func TestAcquire_UnknownIDGetsNewSession(t *testing.T) {
	r, _ := setupRegistry(t, time.Minute)

	id, _ := r.Acquire("forged-session-id")
	assert.NotEqual(t, "forged-session-id", id)

	_, ok := r.Lookup("forged-session-id")
	assert.False(t, ok)
}

func TestSessions_AreIsolated(t *testing.T) {
	r, _ := setupRegistry(t, time.Minute)

	_, a := r.Acquire("")
	_, b := r.Acquire("")
	a.Add(domain.Product{ID: 1, Name: "Citrus", Price: 100}, 3)

	assert.Equal(t, 3, a.ItemCount())
	assert.Equal(t, 0, b.ItemCount())
}

func TestAcquire_ExpiredSessionStartsEmpty(t *testing.T) {
	r, clock := setupRegistry(t, time.Minute)

	id, store := r.Acquire("")
	store.Add(domain.Product{ID: 1, Name: "Citrus", Price: 100}, 1)

	clock.Advance(2 * time.Minute)

	newID, newStore := r.Acquire(id)
	assert.NotEqual(t, id, newID)
	assert.Equal(t, 0, newStore.ItemCount())
	assert.Equal(t, 1, r.Len())
}

func TestAcquire_TouchKeepsSessionAlive(t *testing.T) {
	r, clock := setupRegistry(t, time.Minute)

	id, _ := r.Acquire("")
	for i := 0; i < 5; i++ {
		clock.Advance(45 * time.Second)
		got, _ := r.Acquire(id)
		require.Equal(t, id, got)
	}
}

func TestLookup(t *testing.T) {
	r, clock := setupRegistry(t, time.Minute)

	id, store := r.Acquire("")
	got, ok := r.Lookup(id)
	require.True(t, ok)
	assert.Same(t, store, got)

	clock.Advance(2 * time.Minute)
	_, ok = r.Lookup(id)
	assert.False(t, ok)
}

func TestExpireSessions(t *testing.T) {
	r, clock := setupRegistry(t, time.Minute)

	r.Acquire("")
	r.Acquire("")
	clock.Advance(30 * time.Second)
	fresh, _ := r.Acquire("")
	clock.Advance(40 * time.Second)

	r.expireSessions()

	assert.Equal(t, 1, r.Len())
	_, ok := r.Lookup(fresh)
	assert.True(t, ok)
}

func TestEnd(t *testing.T) {
	r, _ := setupRegistry(t, time.Minute)

	id, _ := r.Acquire("")
	r.End(id)

	assert.Equal(t, 0, r.Len())
	r.End("missing")
}

func TestNewRegistry_DefaultTTL(t *testing.T) {
	r := NewRegistry(0)
	defer r.Close()
	assert.Equal(t, DefaultTTL, r.ttl)
}
