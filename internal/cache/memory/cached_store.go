package memory

import (
	"context"

	"github.com/Gunvolt24/ginutils/internal/domain"
	"github.com/Gunvolt24/ginutils/internal/ports"
)

var _ ports.ClientStore = (*CachedClientStore)(nil)

// CachedClientStore — ClientStore с кэшем чтения перед основным хранилищем.
type CachedClientStore struct {
	next  ports.ClientStore
	cache *ClientCache
}

func NewCachedClientStore(next ports.ClientStore, cache *ClientCache) *CachedClientStore {
	return &CachedClientStore{next: next, cache: cache}
}

func (s *CachedClientStore) GetClient(ctx context.Context, clientID string) (*domain.Client, error) {
	if c, ok := s.cache.Get(ctx, clientID); ok {
		return c, nil
	}
	c, err := s.next.GetClient(ctx, clientID)
	if err != nil || c == nil {
		return c, err
	}
	s.cache.Set(ctx, c)
	return c, nil
}

// SaveClient — запись в хранилище, кэш инвалидируется.
func (s *CachedClientStore) SaveClient(ctx context.Context, client *domain.Client) error {
	if err := s.next.SaveClient(ctx, client); err != nil {
		return err
	}
	if client != nil {
		s.cache.Delete(ctx, client.ID)
	}
	return nil
}
