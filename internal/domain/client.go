package domain

import (
	"slices"
	"time"
)

// Client — зарегистрированный OAuth2-клиент.
type Client struct {
	ID         string    `json:"client_id"`
	SecretHash []byte    `json:"-"`
	Name       string    `json:"name"`
	Scopes     []string  `json:"scopes"`
	CreatedAt  time.Time `json:"created_at"`
}

// AllowsScopes — все ли запрошенные scope разрешены клиенту.
func (c *Client) AllowsScopes(requested []string) bool {
	for _, s := range requested {
		if !slices.Contains(c.Scopes, s) {
			return false
		}
	}
	return true
}
