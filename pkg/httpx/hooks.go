package httpx

import (
	"fmt"
	"net/http"
	"sync"

	"github.com/Gunvolt24/ginutils/internal/ports"
	"github.com/gin-gonic/gin"
)

var _ ports.RequestHooks = (*Hooks)(nil)

// Hooks — реестр хуков before/teardown и middleware, который их исполняет.
// Регистрировать хуки можно и после установки middleware: список читается на каждом запросе.
type Hooks struct {
	mu       sync.RWMutex
	before   []ports.BeforeRequestFunc
	teardown []ports.TeardownFunc
}

func NewHooks() *Hooks { return &Hooks{} }

func (h *Hooks) BeforeRequest(fn ports.BeforeRequestFunc) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.before = append(h.before, fn)
}

func (h *Hooks) TeardownRequest(fn ports.TeardownFunc) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.teardown = append(h.teardown, fn)
}

// Len — количество зарегистрированных хуков (before, teardown).
func (h *Hooks) Len() (before, teardown int) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.before), len(h.teardown)
}

func (h *Hooks) snapshot() ([]ports.BeforeRequestFunc, []ports.TeardownFunc) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return append([]ports.BeforeRequestFunc(nil), h.before...),
		append([]ports.TeardownFunc(nil), h.teardown...)
}

// Middleware — before-хуки по порядку регистрации; ошибка → 500 и обработчик не вызывается.
// Teardown-хуки — в обратном порядке, всегда, в том числе при панике
// (паника пробрасывается дальше, в gin.Recovery).
func (h *Hooks) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		before, teardown := h.snapshot()

		var hookErr error
		defer func() {
			rec := recover()
			err := requestError(c, hookErr)
			if rec != nil {
				err = fmt.Errorf("panic: %v", rec)
			}
			for i := len(teardown) - 1; i >= 0; i-- {
				teardown[i](c, err)
			}
			if rec != nil {
				panic(rec)
			}
		}()

		for _, fn := range before {
			if err := fn(c); err != nil {
				hookErr = err
				_ = c.Error(err)
				c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
				return
			}
		}
		c.Next()
	}
}

func requestError(c *gin.Context, hookErr error) error {
	if hookErr != nil {
		return hookErr
	}
	if last := c.Errors.Last(); last != nil {
		return last.Err
	}
	return nil
}

