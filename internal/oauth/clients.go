package oauth

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"time"

	"github.com/Gunvolt24/ginutils/internal/domain"
	"github.com/Gunvolt24/ginutils/internal/ports"
	"github.com/google/uuid"
)

// RegisterClient — создаёт клиента со случайным секретом и сохраняет его.
// Секрет в открытом виде возвращается один раз; в хранилище только bcrypt-хэш.
func RegisterClient(ctx context.Context, store ports.ClientStore, name string, scopes []string) (*domain.Client, string, error) {
	buf := make([]byte, 32)
	if _, err := rand.Read(buf); err != nil {
		return nil, "", fmt.Errorf("generate secret: %w", err)
	}
	secret := hex.EncodeToString(buf)

	hash, err := HashSecret(secret)
	if err != nil {
		return nil, "", fmt.Errorf("hash secret: %w", err)
	}

	client := &domain.Client{
		ID:         uuid.NewString(),
		SecretHash: hash,
		Name:       name,
		Scopes:     scopes,
		CreatedAt:  time.Now().UTC(),
	}
	if err := store.SaveClient(ctx, client); err != nil {
		return nil, "", err
	}
	return client, secret, nil
}
