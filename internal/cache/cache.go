package cache

import (
	"context"
	"sync"
	"time"

	"invopos/backend/internal/domain"
)

// InvoiceCache keeps the most recent bill per terminal so it can be viewed
// and reprinted after the preview is dismissed.
type InvoiceCache interface {
	Get(ctx context.Context, terminal string) (*domain.RenderedInvoice, bool, error)
	Set(ctx context.Context, terminal string, value *domain.RenderedInvoice, ttl time.Duration) error
}

// MemoryInvoiceCache is the in-process default used when Redis is not
// configured. Entries expire lazily on read.
type MemoryInvoiceCache struct {
	mu      sync.RWMutex
	entries map[string]memoryEntry
}

type memoryEntry struct {
	value     domain.RenderedInvoice
	expiresAt time.Time
}

func NewMemoryInvoiceCache() *MemoryInvoiceCache {
	return &MemoryInvoiceCache{entries: make(map[string]memoryEntry)}
}

func (c *MemoryInvoiceCache) Get(_ context.Context, terminal string) (*domain.RenderedInvoice, bool, error) {
	c.mu.RLock()
	entry, ok := c.entries[terminal]
	c.mu.RUnlock()
	if !ok {
		return nil, false, nil
	}
	if !entry.expiresAt.IsZero() && time.Now().After(entry.expiresAt) {
		c.mu.Lock()
		delete(c.entries, terminal)
		c.mu.Unlock()
		return nil, false, nil
	}
	value := entry.value
	return &value, true, nil
}

func (c *MemoryInvoiceCache) Set(_ context.Context, terminal string, value *domain.RenderedInvoice, ttl time.Duration) error {
	if value == nil {
		return nil
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	entry := memoryEntry{value: *value}
	if ttl > 0 {
		entry.expiresAt = time.Now().Add(ttl)
	}
	c.entries[terminal] = entry
	return nil
}
