package events

import (
	"sync"
	"time"
)

// CatalogRefresh is a domain event emitted after a catalog fetch cycle.
// Numbers travel as plain ints and strings so web/UI consumers can render
// them without caring about internal types.
type CatalogRefresh struct {
	Timestamp time.Time `json:"ts"`
	Source    string    `json:"source"`
	Pools     int       `json:"pools"`
	TopApy    string    `json:"top_apy,omitempty"`
}

// CatalogBroadcaster fans out refresh events to all subscribers via
// buffered channels. The API stays intentionally small.
type CatalogBroadcaster struct {
	mu     sync.RWMutex
	subs   map[chan CatalogRefresh]struct{}
	buffer int
}

// NewCatalogBroadcaster creates a broadcaster with the given per-subscriber buffer.
func NewCatalogBroadcaster(buffer int) *CatalogBroadcaster {
	if buffer < 1 {
		buffer = 64
	}
	return &CatalogBroadcaster{
		subs:   make(map[chan CatalogRefresh]struct{}),
		buffer: buffer,
	}
}

// DefaultCatalogBroadcaster is the shared broadcaster used across the app.
var DefaultCatalogBroadcaster = NewCatalogBroadcaster(256)

// Publish sends the event to all subscribers, dropping if a reader is slow.
func (b *CatalogBroadcaster) Publish(e CatalogRefresh) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	for ch := range b.subs {
		select {
		case ch <- e:
		default:
			// drop slow consumer
		}
	}
}

// Subscribe returns a channel that receives events until Unsubscribe is called.
func (b *CatalogBroadcaster) Subscribe() chan CatalogRefresh {
	ch := make(chan CatalogRefresh, b.buffer)
	b.mu.Lock()
	b.subs[ch] = struct{}{}
	b.mu.Unlock()
	return ch
}

// Unsubscribe removes the channel and closes it.
func (b *CatalogBroadcaster) Unsubscribe(ch chan CatalogRefresh) {
	b.mu.Lock()
	if _, ok := b.subs[ch]; ok {
		delete(b.subs, ch)
		close(ch)
	}
	b.mu.Unlock()
}
