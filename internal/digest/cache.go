package digest

import (
	"sync"

	"golang.org/x/sync/singleflight"
)

// Run cache keys.
const (
	CacheRecentPosts      = "recent_posts"
	CacheRecentPhotos     = "recent_photos"
	CacheEditorialContent = "editorial_content"
)

// RunCache holds site-wide data shared across all users of one batch run.
// Each key is populated at most once (single-flight) and reused until
// Clear. Owned by the batch runner, passed into every pipeline call.
type RunCache struct {
	mu     sync.RWMutex
	data   map[string]interface{}
	flight singleflight.Group
}

func NewRunCache() *RunCache {
	return &RunCache{data: make(map[string]interface{})}
}

// GetOrPopulate returns the cached value for key, running populate exactly
// once across concurrent callers when the key is cold. A populate error is
// not cached; the next caller retries.
func (c *RunCache) GetOrPopulate(key string, populate func() (interface{}, error)) (interface{}, error) {
	c.mu.RLock()
	if v, ok := c.data[key]; ok {
		c.mu.RUnlock()
		return v, nil
	}
	c.mu.RUnlock()

	v, err, _ := c.flight.Do(key, func() (interface{}, error) {
		c.mu.RLock()
		if v, ok := c.data[key]; ok {
			c.mu.RUnlock()
			return v, nil
		}
		c.mu.RUnlock()

		v, err := populate()
		if err != nil {
			return nil, err
		}

		c.mu.Lock()
		c.data[key] = v
		c.mu.Unlock()
		return v, nil
	})
	return v, err
}

// Clear drops every key. Called at the end of a full weekly cycle.
func (c *RunCache) Clear() {
	c.mu.Lock()
	c.data = make(map[string]interface{})
	c.mu.Unlock()
}
