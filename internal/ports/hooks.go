package ports

import "github.com/gin-gonic/gin"

// BeforeRequestFunc — хук перед обработкой запроса; ошибка прерывает запрос.
type BeforeRequestFunc func(c *gin.Context) error

// TeardownFunc — хук завершения запроса; вызывается всегда, err — ошибка запроса (если была).
type TeardownFunc func(c *gin.Context, err error)

// RequestHooks — реестр хуков жизненного цикла запроса.
type RequestHooks interface {
	BeforeRequest(fn BeforeRequestFunc)
	TeardownRequest(fn TeardownFunc)
}
