//go:build integration

package testutil

import (
	"crypto/rand"
	"encoding/hex"
	"time"

	"github.com/Gunvolt24/ginutils/internal/domain"
)

func randHex(n int) string {
	b := make([]byte, n)
	_, _ = rand.Read(b)
	return hex.EncodeToString(b)
}

func UniqSuffix() string { return randHex(6) }

// MakeClient — OAuth-клиент с уникальным id.
func MakeClient(opts ...func(*domain.Client)) *domain.Client {
	c := &domain.Client{
		ID:         "cli-" + UniqSuffix(),
		SecretHash: []byte("hash-" + UniqSuffix()),
		Name:       "test client",
		Scopes:     []string{"read", "write"},
		CreatedAt:  time.Now().UTC().Truncate(time.Millisecond),
	}
	for _, o := range opts {
		o(c)
	}
	return c
}
