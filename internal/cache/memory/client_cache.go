package memory

import (
	"container/list"
	"context"
	"sync"
	"time"

	"github.com/Gunvolt24/ginutils/internal/domain"
	"github.com/Gunvolt24/ginutils/pkg/metrics"
)

type entry struct {
	id        string
	client    *domain.Client
	expiresAt time.Time
}

// ClientCache — LRU-кэш OAuth2-клиентов с TTL.
type ClientCache struct {
	capacity int
	ttl      time.Duration

	ll    *list.List
	index map[string]*list.Element

	mu sync.Mutex
}

// NewClientCache — capacity <= 0 приводится к 1, ttl <= 0 — без истечения.
func NewClientCache(capacity int, ttl time.Duration) *ClientCache {
	if capacity <= 0 {
		capacity = 1
	}
	return &ClientCache{
		capacity: capacity,
		ttl:      ttl,
		ll:       list.New(),
		index:    make(map[string]*list.Element),
	}
}

// Get — (client, true) при попадании; копия, чтобы изменения снаружи не портили кэш.
func (c *ClientCache) Get(_ context.Context, id string) (*domain.Client, bool) {
	now := time.Now()

	c.mu.Lock()
	defer c.mu.Unlock()

	elem, ok := c.index[id]
	if !ok {
		metrics.CacheOps.WithLabelValues("miss").Inc()
		return nil, false
	}
	ent := elem.Value.(*entry)
	if c.isExpired(ent, now) {
		metrics.CacheOps.WithLabelValues("expired").Inc()
		c.removeElement(elem)
		metrics.CacheSize.Set(float64(len(c.index)))
		return nil, false
	}
	c.ll.MoveToFront(elem)

	metrics.CacheOps.WithLabelValues("hit").Inc()
	return cloneClient(ent.client), true
}

// Set — сохранить/обновить клиента.
func (c *ClientCache) Set(_ context.Context, client *domain.Client) {
	if client == nil || client.ID == "" {
		return
	}
	now := time.Now()

	c.mu.Lock()
	defer c.mu.Unlock()

	if elem, ok := c.index[client.ID]; ok {
		ent := elem.Value.(*entry)
		ent.client = cloneClient(client)
		ent.expiresAt = c.expiryFrom(now)
		c.ll.MoveToFront(elem)
		return
	}

	c.pruneExpiredFromBack(now)

	elem := c.ll.PushFront(&entry{
		id:        client.ID,
		client:    cloneClient(client),
		expiresAt: c.expiryFrom(now),
	})
	c.index[client.ID] = elem
	metrics.CacheSize.Set(float64(len(c.index)))

	if c.ll.Len() > c.capacity {
		c.evictLRU()
	}
}

// Delete — убрать клиента из кэша.
func (c *ClientCache) Delete(_ context.Context, id string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if elem, ok := c.index[id]; ok {
		c.removeElement(elem)
		metrics.CacheSize.Set(float64(len(c.index)))
	}
}

// Len — текущее число элементов.
func (c *ClientCache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.ll.Len()
}
