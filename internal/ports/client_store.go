package ports

import (
	"context"

	"github.com/Gunvolt24/ginutils/internal/domain"
)

// ClientStore — хранилище OAuth2-клиентов.
type ClientStore interface {
	// GetClient — клиент по id; (nil, nil), если не найден.
	GetClient(ctx context.Context, clientID string) (*domain.Client, error)
	SaveClient(ctx context.Context, client *domain.Client) error
}
