package memory

import (
	"context"
	"errors"
	"sync"

	"github.com/Gunvolt24/ginutils/internal/domain"
	"github.com/Gunvolt24/ginutils/internal/ports"
)

var _ ports.ClientStore = (*ClientStore)(nil)

// ClientStore — хранилище клиентов в памяти процесса (без БД и для тестов).
type ClientStore struct {
	mu      sync.RWMutex
	clients map[string]domain.Client
}

func NewClientStore(clients ...*domain.Client) *ClientStore {
	s := &ClientStore{clients: make(map[string]domain.Client, len(clients))}
	for _, c := range clients {
		if c != nil {
			s.clients[c.ID] = *c
		}
	}
	return s
}

func (s *ClientStore) GetClient(_ context.Context, clientID string) (*domain.Client, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	c, ok := s.clients[clientID]
	if !ok {
		return nil, nil
	}
	return &c, nil
}

func (s *ClientStore) SaveClient(_ context.Context, c *domain.Client) error {
	if c == nil || c.ID == "" {
		return errors.New("client is empty or client_id is required")
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.clients[c.ID] = *c
	return nil
}
