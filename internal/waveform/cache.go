package waveform

import (
	"crypto/sha256"
	"encoding/binary"
	"encoding/hex"
	"fmt"
	"os"
	"sync"
)

// Cache memoizes extracted peaks per file. The key covers path, mtime
// and size, so editing a file in place invalidates its entry without
// any explicit eviction call.
type Cache struct {
	mu      sync.Mutex
	entries map[string]*Peaks
}

// NewCache creates an empty peak cache.
func NewCache() *Cache {
	return &Cache{entries: make(map[string]*Peaks)}
}

// Key derives the cache key for path from its metadata.
func (c *Cache) Key(path string) (string, error) {
	info, err := os.Stat(path)
	if err != nil {
		return "", fmt.Errorf("waveform: stat %s: %w", path, err)
	}

	h := sha256.New()
	h.Write([]byte(path))
	var buf [8]byte
	binary.BigEndian.PutUint64(buf[:], uint64(info.ModTime().Unix()))
	h.Write(buf[:])
	binary.BigEndian.PutUint64(buf[:], uint64(info.Size()))
	h.Write(buf[:])
	return hex.EncodeToString(h.Sum(nil)), nil
}

// Load returns the peaks for path, extracting and caching them on the
// first call for the file's current content.
func (c *Cache) Load(path string) (*Peaks, error) {
	key, err := c.Key(path)
	if err != nil {
		return nil, err
	}

	c.mu.Lock()
	if p, ok := c.entries[key]; ok {
		c.mu.Unlock()
		return p, nil
	}
	c.mu.Unlock()

	p, err := Extract(path)
	if err != nil {
		return nil, err
	}

	c.mu.Lock()
	c.entries[key] = p
	c.mu.Unlock()
	return p, nil
}

// Len reports the number of cached entries.
func (c *Cache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}
