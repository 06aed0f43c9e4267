// Package pending correlates browser sessions with work that spans two
// requests: trip details parked while a payment completes, and the trip ids
// a session created. Entries expire instead of living for the process
// lifetime.
package pending

import (
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const sessionHeader = "X-Session-Id"

// SessionID returns the request's session id, minting one when absent. The
// id is echoed back in the response header so the client can persist it.
func SessionID(c *gin.Context) string {
	id := c.GetHeader(sessionHeader)
	if id == "" {
		id = uuid.NewString()
	}
	c.Header(sessionHeader, id)
	return id
}

type entry struct {
	value   any
	tripIDs []int
	expires time.Time
}

// Cache is a TTL-bounded session store. Put/Take hold one pending payload
// per session (pending trip details awaiting payment); AddTrip/Trips track
// the trips a session generated.
type Cache struct {
	mu    sync.Mutex
	ttl   time.Duration
	items map[string]*entry
}

func NewCache(ttl time.Duration) *Cache {
	if ttl <= 0 {
		ttl = 30 * time.Minute
	}
	c := &Cache{ttl: ttl, items: map[string]*entry{}}
	go c.sweep()
	return c
}

func (c *Cache) get(session string) *entry {
	e, ok := c.items[session]
	if !ok {
		e = &entry{}
		c.items[session] = e
	}
	e.expires = time.Now().Add(c.ttl)
	return e
}

// Put parks a payload for the session, replacing any previous one.
func (c *Cache) Put(session string, v any) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.get(session).value = v
}

// Take removes and returns the parked payload.
func (c *Cache) Take(session string) (any, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	e, ok := c.items[session]
	if !ok || e.value == nil || time.Now().After(e.expires) {
		return nil, false
	}
	v := e.value
	e.value = nil
	return v, true
}

// AddTrip records a trip the session generated.
func (c *Cache) AddTrip(session string, tripID int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	e := c.get(session)
	e.tripIDs = append(e.tripIDs, tripID)
}

// Trips returns the trip ids recorded for the session.
func (c *Cache) Trips(session string) []int {
	c.mu.Lock()
	defer c.mu.Unlock()
	e, ok := c.items[session]
	if !ok || time.Now().After(e.expires) {
		return nil
	}
	out := make([]int, len(e.tripIDs))
	copy(out, e.tripIDs)
	return out
}

func (c *Cache) sweep() {
	ticker := time.NewTicker(c.ttl)
	for range ticker.C {
		now := time.Now()
		c.mu.Lock()
		for k, e := range c.items {
			if now.After(e.expires) {
				delete(c.items, k)
			}
		}
		c.mu.Unlock()
	}
}
