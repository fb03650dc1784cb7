// Пакет dbsession — привязка сессии БД к жизненному циклу запроса
// (или к процессу для консольных команд и тестов).
package dbsession

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/Gunvolt24/ginutils/internal/ports"
	"github.com/gin-gonic/gin"
)

// ContextKey — ключ сессии в *gin.Context.
const ContextKey = "pgbase_session"

// Mode — режим привязки сессии.
type Mode int

const (
	// ModeRequest — новая сессия на каждый запрос, освобождается в teardown.
	ModeRequest Mode = iota
	// ModeConsole — одна сессия на процесс, хуки не регистрируются.
	ModeConsole
	// ModeShared — одна сессия на процесс, которую получает каждый запрос.
	ModeShared
)

func (m Mode) String() string {
	switch m {
	case ModeRequest:
		return "request"
	case ModeConsole:
		return "console"
	case ModeShared:
		return "shared"
	default:
		return fmt.Sprintf("mode(%d)", int(m))
	}
}

// ErrNoProcessSession — Share вызван до открытия сессии процесса.
var ErrNoProcessSession = errors.New("process session is not open")

// Binder — связывает SessionFactory с хуками запроса.
type Binder struct {
	factory ports.SessionFactory
	log     ports.Logger

	mu      sync.Mutex
	session ports.Session // сессия процесса (console/shared)
}

func New(factory ports.SessionFactory, log ports.Logger) *Binder {
	return &Binder{factory: factory, log: log}
}

// Bind — регистрирует хуки и/или открывает сессию процесса согласно режиму.
// Ошибки открытия сессии возвращаются как есть.
func (b *Binder) Bind(ctx context.Context, hooks ports.RequestHooks, mode Mode) error {
	switch mode {
	case ModeRequest:
		hooks.BeforeRequest(b.openForRequest)
		hooks.TeardownRequest(b.releaseForRequest)
		return nil
	case ModeConsole, ModeShared:
		if err := b.openProcessSession(ctx); err != nil {
			return err
		}
		if mode == ModeShared {
			return b.Share(hooks)
		}
		return nil
	default:
		return fmt.Errorf("unknown session mode %v", mode)
	}
}

// Share — каждый запрос получает сессию процесса (без изоляции).
func (b *Binder) Share(hooks ports.RequestHooks) error {
	s := b.Session()
	if s == nil {
		return ErrNoProcessSession
	}
	hooks.BeforeRequest(func(c *gin.Context) error {
		c.Set(ContextKey, s)
		return nil
	})
	return nil
}

// Session — сессия процесса или nil.
func (b *Binder) Session() ports.Session {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.session
}

// Close — освобождает сессию процесса.
func (b *Binder) Close() {
	b.mu.Lock()
	s := b.session
	b.session = nil
	b.mu.Unlock()

	if s != nil {
		s.Release()
	}
}

func (b *Binder) openProcessSession(ctx context.Context) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.session != nil {
		return nil
	}
	s, err := b.factory.Open(ctx)
	if err != nil {
		return fmt.Errorf("open process session: %w", err)
	}
	b.session = s
	return nil
}

func (b *Binder) openForRequest(c *gin.Context) error {
	s, err := b.factory.Open(c.Request.Context())
	if err != nil {
		b.log.Errorf(c.Request.Context(), "open request session: %v", err)
		return fmt.Errorf("open request session: %w", err)
	}
	c.Set(ContextKey, s)
	return nil
}

// releaseForRequest — ошибка запроса на освобождение не влияет.
func (b *Binder) releaseForRequest(c *gin.Context, _ error) {
	if s, ok := FromContext(c); ok {
		s.Release()
		c.Set(ContextKey, nil)
	}
}

// FromContext — сессия текущего запроса, если она есть.
func FromContext(c *gin.Context) (ports.Session, bool) {
	v, ok := c.Get(ContextKey)
	if !ok || v == nil {
		return nil, false
	}
	s, ok := v.(ports.Session)
	return s, ok && s != nil
}
