package buffer

import (
	"context"
	"fmt"
	"io"
	"log"
	"net/http"
	"os"
	"path"
	"path/filepath"
	"strings"
	"sync"
	"time"
)

// soundPrefix is the only local path form accepted by Load. Everything
// else must be an absolute http(s) URL.
const soundPrefix = "/sounds/"

// Cache decodes audio sources into mono buffers and keeps the most
// recently inserted MaxCacheSize of them. Eviction is FIFO by insertion
// order, not LRU; sound packs are small and the simpler policy is enough.
type Cache struct {
	mu       sync.Mutex
	capacity int
	store    map[string]*Buffer
	order    []string

	targetRate int
	soundRoot  string
	client     *http.Client
	decodes    int
}

// Stats is a read-only snapshot for UI display.
type Stats struct {
	Count    int
	Capacity int
	Keys     []string
}

// NewCache creates a cache that decodes everything to targetRate.
func NewCache(capacity, targetRate int) *Cache {
	if capacity < 1 {
		capacity = 1
	}
	return &Cache{
		capacity:   capacity,
		store:      make(map[string]*Buffer),
		targetRate: targetRate,
		client:     &http.Client{Timeout: 30 * time.Second},
	}
}

// SetSoundRoot points /sounds/ paths at a local directory holding the
// bundled sound packs.
func (c *Cache) SetSoundRoot(dir string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.soundRoot = dir
}

// SetCapacity adjusts the cache bound, evicting oldest entries if the
// cache already holds more than n.
func (c *Cache) SetCapacity(n int) {
	if n < 1 {
		n = 1
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.capacity = n
	c.evictLocked()
}

// SetHTTPClient overrides the client used for http(s) fetches.
func (c *Cache) SetHTTPClient(client *http.Client) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.client = client
}

// ValidateURL checks the source form without performing any I/O.
func ValidateURL(url string) error {
	if strings.HasPrefix(url, "http://") || strings.HasPrefix(url, "https://") {
		return nil
	}
	if strings.HasPrefix(url, soundPrefix) {
		// Clean collapses any ../ traversal; the prefix must survive it.
		// Literal dots inside a segment ("/sounds/ver..2/a.wav") are fine.
		if strings.HasPrefix(path.Clean(url), soundPrefix) {
			return nil
		}
	}
	return fmt.Errorf("%w: %q", ErrInvalidPath, url)
}

// Load returns the decoded buffer for url. A cache hit performs no I/O.
// For a valid url Load always succeeds: fetch or decode failures are
// logged and replaced with the fallback tone, which is not cached so a
// later call can retry the real source.
func (c *Cache) Load(ctx context.Context, url string) (*Buffer, error) {
	if err := ValidateURL(url); err != nil {
		return nil, err
	}

	c.mu.Lock()
	if buf, ok := c.store[url]; ok {
		c.mu.Unlock()
		return buf, nil
	}
	c.mu.Unlock()

	data, err := c.fetch(ctx, url)
	if err != nil {
		log.Printf("audio load failed for %s: %v; using fallback tone", url, err)
		return FallbackTone(c.targetRate), nil
	}

	buf, err := decode(url, data, c.targetRate)
	if err != nil {
		log.Printf("audio decode failed for %s: %v; using fallback tone", url, err)
		return FallbackTone(c.targetRate), nil
	}

	c.insert(url, buf)
	return buf, nil
}

// fetch retrieves raw bytes from the network or the local sound root.
func (c *Cache) fetch(ctx context.Context, url string) ([]byte, error) {
	if strings.HasPrefix(url, soundPrefix) {
		c.mu.Lock()
		root := c.soundRoot
		c.mu.Unlock()
		if root == "" {
			return nil, fmt.Errorf("%w: no sound root configured", ErrNotFound)
		}
		rel := strings.TrimPrefix(path.Clean(url), soundPrefix)
		data, err := os.ReadFile(filepath.Join(root, filepath.FromSlash(rel)))
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrNotFound, url)
		}
		return data, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	resp, err := c.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	if resp.StatusCode == http.StatusNotFound {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, url)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("fetching %s: unexpected status %s", url, resp.Status)
	}
	return io.ReadAll(resp.Body)
}

func (c *Cache) insert(url string, buf *Buffer) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if _, ok := c.store[url]; ok {
		return
	}
	c.store[url] = buf
	c.order = append(c.order, url)
	c.decodes++
	c.evictLocked()
}

// evictLocked drops oldest-inserted entries until the bound holds.
// Callers must hold c.mu.
func (c *Cache) evictLocked() {
	for len(c.order) > c.capacity {
		oldest := c.order[0]
		c.order = c.order[1:]
		delete(c.store, oldest)
	}
}

// Stats reports the current contents in insertion order.
func (c *Cache) Stats() Stats {
	c.mu.Lock()
	defer c.mu.Unlock()
	keys := make([]string, len(c.order))
	copy(keys, c.order)
	return Stats{Count: len(c.store), Capacity: c.capacity, Keys: keys}
}

// Decodes reports how many sources have been decoded and inserted.
func (c *Cache) Decodes() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.decodes
}

// Clear empties the cache.
func (c *Cache) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.store = make(map[string]*Buffer)
	c.order = nil
}
