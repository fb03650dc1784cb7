package memory

import (
	"container/list"
	"time"

	"github.com/Gunvolt24/ginutils/internal/domain"
	"github.com/Gunvolt24/ginutils/pkg/metrics"
)

// evictLRU — удаляет наименее используемый элемент.
func (c *ClientCache) evictLRU() {
	if back := c.ll.Back(); back != nil {
		c.removeElement(back)
		metrics.CacheOps.WithLabelValues("evicted").Inc()
		metrics.CacheSize.Set(float64(c.ll.Len()))
	}
}

// removeElement — удаляет элемент из списка и индекса.
func (c *ClientCache) removeElement(elem *list.Element) {
	if elem == nil {
		return
	}
	if ent, ok := elem.Value.(*entry); ok {
		delete(c.index, ent.id)
	}
	c.ll.Remove(elem)
}

func (c *ClientCache) isExpired(ent *entry, now time.Time) bool {
	if c.ttl <= 0 {
		return false
	}
	return now.After(ent.expiresAt)
}

func (c *ClientCache) expiryFrom(now time.Time) time.Time {
	if c.ttl <= 0 {
		return time.Time{}
	}
	return now.Add(c.ttl)
}

// pruneExpiredFromBack — удаляет элементы с истекшим TTL из хвоста до первого актуального.
func (c *ClientCache) pruneExpiredFromBack(now time.Time) {
	if c.ttl <= 0 {
		return
	}
	for back := c.ll.Back(); back != nil; back = c.ll.Back() {
		ent := back.Value.(*entry)
		if !now.After(ent.expiresAt) {
			return
		}
		c.removeElement(back)
		metrics.CacheOps.WithLabelValues("expired").Inc()
		metrics.CacheSize.Set(float64(c.ll.Len()))
	}
}

func cloneClient(client *domain.Client) *domain.Client {
	if client == nil {
		return nil
	}
	cloned := *client
	cloned.SecretHash = append([]byte(nil), client.SecretHash...)
	cloned.Scopes = append([]string(nil), client.Scopes...)
	return &cloned
}
