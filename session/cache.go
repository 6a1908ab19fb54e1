package session

import (
	"sync"
	"time"
)

// Cache memoizes "this session was already verified for this route" so that
// revisiting a route inside the TTL window skips a full authorization pass.
//
// The cache holds at most one session snapshot plus the set of route paths
// verified against it. It is invalidated wholesale the instant the engine
// transitions to "no session".
type Cache struct {
	mu       sync.Mutex
	session  *Session
	storedAt time.Time
	verified map[string]struct{}

	ttl time.Duration
	now func() time.Time
}

// NewCache creates a verification cache with the given entry lifetime.
func NewCache(ttl time.Duration) *Cache {
	return &Cache{
		verified: make(map[string]struct{}),
		ttl:      ttl,
		now:      time.Now,
	}
}

// IsValid reports whether path was verified against a still-fresh session
// snapshot. Expired entries are treated as absent, never returned stale.
func (c *Cache) IsValid(path string) bool {
	if c == nil {
		return false
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if c.session == nil {
		return false
	}
	if c.now().Sub(c.storedAt) >= c.ttl {
		return false
	}

	_, ok := c.verified[path]
	return ok
}

// Session returns a clone of the cached snapshot, or nil when the cache is
// empty or expired.
func (c *Cache) Session() *Session {
	if c == nil {
		return nil
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if c.session == nil || c.now().Sub(c.storedAt) >= c.ttl {
		return nil
	}
	return c.session.Clone()
}

// Update records that sess was verified for path and refreshes the entry
// timestamp. A nil sess clears the cache entirely: once the store goes to
// "no session", no residual cached authorization may survive.
func (c *Cache) Update(sess *Session, path string) {
	if c == nil {
		return
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if sess == nil {
		c.session = nil
		c.storedAt = time.Time{}
		c.verified = make(map[string]struct{})
		return
	}

	c.session = sess.Clone()
	c.storedAt = c.now()
	c.verified[path] = struct{}{}
}

// Clear drops the snapshot and every verified path.
func (c *Cache) Clear() {
	c.Update(nil, "")
}
