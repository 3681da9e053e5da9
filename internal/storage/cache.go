/*
MIT License

Copyright (c) 2025 Yuval Adar <adary@adary.org>

Permission is hereby granted, free of charge, to any person obtaining a copy
of this software and associated documentation files (the "Software"), to deal
in the Software without restriction, including without limitation the rights
to use, copy, modify, merge, publish, distribute, sublicense, and/or sell
copies of the Software, and to permit persons to whom the Software is
furnished to do so, subject to the following conditions:

The above copyright notice and this permission notice shall be included in all
copies or substantial portions of the Software.

THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN THE
SOFTWARE.
*/

package storage

import (
	"container/list"
	"sync"
	"time"
)

// refreshAfter is how stale the cached listing may get before it is reloaded.
const refreshAfter = 5 * time.Second

// HistoryCache keeps the history listing in memory and the bodies of
// recently viewed exports in an LRU.
type HistoryCache struct {
	storage *Storage

	meta        []EntryMeta
	lastRefresh time.Time

	bodies   map[string]*list.Element // id -> element holding *bodyEntry
	lru      *list.List
	maxCache int

	mu sync.RWMutex
}

type bodyEntry struct {
	id      string
	content string
}

// CacheStats describes the cache state.
type CacheStats struct {
	Entries     int
	Cached      int
	MaxCached   int
	LastRefresh time.Time
}

// NewHistoryCache loads the listing from storage. maxCache bounds the number
// of cached bodies.
func NewHistoryCache(storage *Storage, maxCache int) *HistoryCache {
	if maxCache <= 0 {
		maxCache = 10
	}
	c := &HistoryCache{
		storage:  storage,
		bodies:   make(map[string]*list.Element),
		lru:      list.New(),
		maxCache: maxCache,
	}
	c.Refresh()
	return c
}

// Refresh reloads the listing now.
func (c *HistoryCache) Refresh() {
	meta := c.storage.List()
	c.mu.Lock()
	defer c.mu.Unlock()
	c.meta = meta
	c.lastRefresh = time.Now()
}

// List returns the listing, reloading it when stale.
func (c *HistoryCache) List() []EntryMeta {
	c.mu.RLock()
	stale := time.Since(c.lastRefresh) > refreshAfter
	c.mu.RUnlock()
	if stale {
		c.Refresh()
	}

	c.mu.RLock()
	defer c.mu.RUnlock()
	out := make([]EntryMeta, len(c.meta))
	copy(out, c.meta)
	return out
}

// Count returns the number of entries in the cached listing.
func (c *HistoryCache) Count() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.meta)
}

// Content returns an export body, from the LRU when possible.
func (c *HistoryCache) Content(id string) (string, error) {
	c.mu.Lock()
	if elem, ok := c.bodies[id]; ok {
		c.lru.MoveToFront(elem)
		content := elem.Value.(*bodyEntry).content
		c.mu.Unlock()
		return content, nil
	}
	c.mu.Unlock()

	content, err := c.storage.Content(id)
	if err != nil {
		return "", err
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	c.put(id, content)
	return content, nil
}

func (c *HistoryCache) put(id, content string) {
	if elem, ok := c.bodies[id]; ok {
		elem.Value.(*bodyEntry).content = content
		c.lru.MoveToFront(elem)
		return
	}
	c.bodies[id] = c.lru.PushFront(&bodyEntry{id: id, content: content})
	for c.lru.Len() > c.maxCache {
		oldest := c.lru.Back()
		c.lru.Remove(oldest)
		delete(c.bodies, oldest.Value.(*bodyEntry).id)
	}
}

// Evict drops a cached body.
func (c *HistoryCache) Evict(id string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if elem, ok := c.bodies[id]; ok {
		c.lru.Remove(elem)
		delete(c.bodies, id)
	}
}

// Stats reports the cache state.
func (c *HistoryCache) Stats() CacheStats {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return CacheStats{
		Entries:     len(c.meta),
		Cached:      c.lru.Len(),
		MaxCached:   c.maxCache,
		LastRefresh: c.lastRefresh,
	}
}
