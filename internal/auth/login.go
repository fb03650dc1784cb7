package auth

import (
	"context"
	"crypto/sha512"
	"encoding/hex"
	"errors"
	"fmt"
	"net/http"

	"github.com/Gunvolt24/ginutils/internal/ports"
	"github.com/Gunvolt24/ginutils/pkg/ctxmeta"
	"github.com/gin-gonic/gin"
	"github.com/gorilla/sessions"
)

// Protection — режим защиты сессии от кражи cookie.
type Protection string

const (
	ProtectionNone   Protection = ""
	ProtectionBasic  Protection = "basic"
	ProtectionStrong Protection = "strong"
)

const (
	keyUserID     = "_user_id"
	keyIdentifier = "_id"
	keyFresh      = "_fresh"

	ctxUser = "current_user"
)

// ErrNotInitialized — менеджер используется до InitApp.
var ErrNotInitialized = errors.New("login manager is not initialized")

// User — пользователь, которого можно залогинить.
type User interface {
	GetID() string
	IsActive() bool
}

// UserLoader — загрузка пользователя по id из сессии; (nil, nil) — нет такого.
type UserLoader func(ctx context.Context, id string) (User, error)

// LoginManager — cookie-сессия пользователя поверх gorilla/sessions.
type LoginManager struct {
	SessionProtection Protection

	loader     UserLoader
	store      sessions.Store
	cookieName string
	log        ports.Logger
}

func NewLoginManager() *LoginManager {
	return &LoginManager{SessionProtection: ProtectionBasic}
}

// UserLoader — регистрирует функцию загрузки пользователя.
func (m *LoginManager) UserLoader(fn UserLoader) { m.loader = fn }

// InitApp — создаёт хранилище cookie и регистрирует before-хук загрузки пользователя.
func (m *LoginManager) InitApp(hooks ports.RequestHooks, log ports.Logger, secret, cookieName string, secure bool) error {
	if secret == "" {
		return errors.New("SECRET_KEY is required for login sessions")
	}
	store := sessions.NewCookieStore([]byte(secret))
	store.Options = &sessions.Options{
		Path:     "/",
		MaxAge:   86400 * 31,
		HttpOnly: true,
		Secure:   secure,
		SameSite: http.SameSiteLaxMode,
	}

	m.store = store
	m.cookieName = cookieName
	m.log = log
	hooks.BeforeRequest(m.loadUser)
	return nil
}

// identifier — отпечаток клиента: sha512(ip|user-agent).
func identifier(c *gin.Context) string {
	sum := sha512.Sum512([]byte(c.ClientIP() + "|" + c.Request.UserAgent()))
	return hex.EncodeToString(sum[:])
}

func (m *LoginManager) session(c *gin.Context) (*sessions.Session, error) {
	if m.store == nil {
		return nil, ErrNotInitialized
	}
	// Повреждённая/чужая cookie — просто новая сессия.
	s, err := m.store.Get(c.Request, m.cookieName)
	if err != nil && s == nil {
		return nil, fmt.Errorf("load session: %w", err)
	}
	return s, nil
}

// loadUser — проверка отпечатка сессии и загрузка текущего пользователя.
func (m *LoginManager) loadUser(c *gin.Context) error {
	s, err := m.session(c)
	if err != nil {
		return err
	}

	id, _ := s.Values[keyUserID].(string)
	if id == "" {
		return nil
	}

	if stored, _ := s.Values[keyIdentifier].(string); stored != identifier(c) {
		switch m.SessionProtection {
		case ProtectionStrong:
			m.log.Warnf(c.Request.Context(), "session identifier mismatch, user %s logged out", id)
			clearSession(s)
			return m.save(c, s)
		case ProtectionBasic:
			s.Values[keyFresh] = false
			s.Values[keyIdentifier] = identifier(c)
			if err := m.save(c, s); err != nil {
				return err
			}
		}
	}

	if m.loader == nil {
		return nil
	}
	u, err := m.loader(c.Request.Context(), id)
	if err != nil {
		return fmt.Errorf("load user %s: %w", id, err)
	}
	if u != nil {
		c.Set(ctxUser, u)
		c.Request = c.Request.WithContext(ctxmeta.WithSubject(c.Request.Context(), u.GetID()))
	}
	return nil
}

// LoginUser — записывает пользователя в сессию; неактивных не логинит.
func (m *LoginManager) LoginUser(c *gin.Context, u User) error {
	if !u.IsActive() {
		return errors.New("user is not active")
	}
	s, err := m.session(c)
	if err != nil {
		return err
	}
	s.Values[keyUserID] = u.GetID()
	s.Values[keyIdentifier] = identifier(c)
	s.Values[keyFresh] = true
	if err := m.save(c, s); err != nil {
		return err
	}
	c.Set(ctxUser, u)
	return nil
}

// LogoutUser — очищает сессию.
func (m *LoginManager) LogoutUser(c *gin.Context) error {
	s, err := m.session(c)
	if err != nil {
		return err
	}
	clearSession(s)
	c.Set(ctxUser, nil)
	return m.save(c, s)
}

// IsFresh — вход был выполнен в этой сессии без смены отпечатка клиента.
func (m *LoginManager) IsFresh(c *gin.Context) bool {
	s, err := m.session(c)
	if err != nil {
		return false
	}
	fresh, _ := s.Values[keyFresh].(bool)
	return fresh
}

// LoginRequired — middleware: 401, если пользователь не вошёл.
func (m *LoginManager) LoginRequired() gin.HandlerFunc {
	return func(c *gin.Context) {
		if _, ok := CurrentUser(c); !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "login required"})
			return
		}
		c.Next()
	}
}

// CurrentUser — пользователь текущего запроса.
func CurrentUser(c *gin.Context) (User, bool) {
	v, ok := c.Get(ctxUser)
	if !ok || v == nil {
		return nil, false
	}
	u, ok := v.(User)
	return u, ok
}

func (m *LoginManager) save(c *gin.Context, s *sessions.Session) error {
	if err := s.Save(c.Request, c.Writer); err != nil {
		return fmt.Errorf("save session: %w", err)
	}
	return nil
}

func clearSession(s *sessions.Session) {
	for k := range s.Values {
		delete(s.Values, k)
	}
}
