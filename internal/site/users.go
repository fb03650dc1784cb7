package site

import (
	"context"

	"github.com/Gunvolt24/ginutils/internal/auth"
)

// User — пользователь сайта.
type User struct {
	ID     string
	Active bool
}

func (u User) GetID() string  { return u.ID }
func (u User) IsActive() bool { return u.Active }

// LoadUser — загрузчик пользователей для LoginManager.
// Пользователи сайта фиксированы; неизвестный id — (nil, nil).
func LoadUser(_ context.Context, id string) (auth.User, error) {
	u, ok := users[id]
	if !ok {
		return nil, nil
	}
	return u, nil
}

var users = map[string]User{
	"admin": {ID: "admin", Active: true},
}
