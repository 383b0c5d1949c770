package spritegen

import (
	"container/list"
	"sync"

	"golang.org/x/sync/singleflight"
)

// DefaultCacheSize is the number of encoded sprites a Generator keeps.
const DefaultCacheSize = 256

type cacheEntry struct {
	key         string
	fingerprint string
	b           []byte
}

// Cache is a bounded, least recently used store of encoded sprites keyed by
// entity. Each entry also records a fingerprint of the attributes it was
// rendered from so a changed entity is never served a stale sprite.
type Cache struct {
	mu       sync.Mutex
	capacity int
	ll       *list.List
	items    map[string]*list.Element

	group singleflight.Group
}

// NewCache returns a cache holding at most capacity sprites. A capacity
// below one disables caching.
func NewCache(capacity int) *Cache {
	return &Cache{
		capacity: capacity,
		ll:       list.New(),
		items:    make(map[string]*list.Element),
	}
}

// Get returns the sprite stored for key if it was rendered from fingerprint.
func (c *Cache) Get(key, fingerprint string) ([]byte, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	el, ok := c.items[key]
	if !ok {
		return nil, false
	}
	ent := el.Value.(*cacheEntry)
	if ent.fingerprint != fingerprint {
		return nil, false
	}
	c.ll.MoveToFront(el)
	return ent.b, true
}

// Add stores b for key, evicting the least recently used entry if the cache
// is full.
func (c *Cache) Add(key, fingerprint string, b []byte) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.capacity < 1 {
		return
	}

	if el, ok := c.items[key]; ok {
		ent := el.Value.(*cacheEntry)
		ent.fingerprint, ent.b = fingerprint, b
		c.ll.MoveToFront(el)
		return
	}

	c.items[key] = c.ll.PushFront(&cacheEntry{key, fingerprint, b})
	for c.ll.Len() > c.capacity {
		c.removeElement(c.ll.Back())
	}
}

// GetOrCreate returns the cached sprite or calls fn to create it. Concurrent
// callers for the same key and fingerprint share a single call to fn.
func (c *Cache) GetOrCreate(key, fingerprint string, fn func() ([]byte, error)) ([]byte, error) {
	if b, ok := c.Get(key, fingerprint); ok {
		return b, nil
	}

	v, err, _ := c.group.Do(key+"\x00"+fingerprint, func() (interface{}, error) {
		b, err := fn()
		if err != nil {
			return nil, err
		}
		c.Add(key, fingerprint, b)
		return b, nil
	})
	if err != nil {
		return nil, err
	}
	return v.([]byte), nil
}

// Invalidate removes key from the cache.
func (c *Cache) Invalidate(key string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if el, ok := c.items[key]; ok {
		c.removeElement(el)
	}
}

// Purge empties the cache.
func (c *Cache) Purge() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.ll.Init()
	c.items = make(map[string]*list.Element)
}

// Len returns the number of cached sprites.
func (c *Cache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()

	return c.ll.Len()
}

func (c *Cache) removeElement(el *list.Element) {
	c.ll.Remove(el)
	delete(c.items, el.Value.(*cacheEntry).key)
}
