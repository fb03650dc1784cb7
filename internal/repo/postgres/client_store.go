package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/Gunvolt24/ginutils/internal/domain"
	"github.com/Gunvolt24/ginutils/internal/ports"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Проверка, что ClientStore удовлетворяет интерфейсу ports.ClientStore.
var _ ports.ClientStore = (*ClientStore)(nil)

// ClientStore — OAuth2-клиенты в таблице oauth_clients.
type ClientStore struct {
	pool *pgxpool.Pool
}

// NewClientStore - конструктор ClientStore.
func NewClientStore(pool *pgxpool.Pool) *ClientStore { return &ClientStore{pool: pool} }

// GetClient — клиент по id; (nil, nil), если его нет.
func (s *ClientStore) GetClient(ctx context.Context, clientID string) (*domain.Client, error) {
	var c domain.Client
	err := s.pool.QueryRow(ctx, `
		SELECT id, secret_hash, name, scopes, created_at
		FROM oauth_clients
		WHERE id = $1
	`, clientID).Scan(&c.ID, &c.SecretHash, &c.Name, &c.Scopes, &c.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("select client: %w", err)
	}
	return &c, nil
}

// SaveClient — upsert клиента по id.
func (s *ClientStore) SaveClient(ctx context.Context, c *domain.Client) error {
	if c == nil || c.ID == "" {
		return errors.New("client is empty or client_id is required")
	}
	if _, err := s.pool.Exec(ctx, `
		INSERT INTO oauth_clients (id, secret_hash, name, scopes, created_at)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (id) DO UPDATE SET
			secret_hash = EXCLUDED.secret_hash,
			name        = EXCLUDED.name,
			scopes      = EXCLUDED.scopes
	`, c.ID, c.SecretHash, c.Name, c.Scopes, c.CreatedAt); err != nil {
		return fmt.Errorf("upsert client: %w", err)
	}
	return nil
}
