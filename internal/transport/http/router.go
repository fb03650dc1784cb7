package rest

import (
	"net/http"

	"github.com/Gunvolt24/ginutils/internal/ports"
	"github.com/Gunvolt24/ginutils/pkg/httpx"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
)

// EngineOptions — параметры базового движка.
type EngineOptions struct {
	Log           ports.Logger
	Hooks         *httpx.Hooks
	TemplatesGlob string // пусто — без HTML-шаблонов
	StaticDir     string // пусто — без /static
	OtelService   string // пусто — без otelgin
}

// NewEngine — gin-движок с общими middleware и служебными маршрутами
// (/ping, /metrics). Маршруты приложения добавляются позже.
//
// Порядок middleware: recovery → otel → request id → логгер → хуки запроса,
// поэтому teardown-хуки выполняются до ответа recovery на панику.
func NewEngine(opts EngineOptions) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	if opts.OtelService != "" {
		r.Use(otelgin.Middleware(opts.OtelService))
	}
	r.Use(httpx.RequestIDMiddleware())
	r.Use(httpx.RequestLogger(opts.Log))

	r.GET("/ping", func(c *gin.Context) { c.String(http.StatusOK, "pong") })
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	if opts.Hooks != nil {
		r.Use(opts.Hooks.Middleware())
	}

	if opts.TemplatesGlob != "" {
		r.LoadHTMLGlob(opts.TemplatesGlob)
	}
	if opts.StaticDir != "" {
		r.Static("/static", opts.StaticDir)
	}

	// 404/405 — JSON, как и остальные ответы API.
	r.HandleMethodNotAllowed = true
	r.NoRoute(func(c *gin.Context) {
		c.JSON(http.StatusNotFound, gin.H{"error": "not found"})
	})
	r.NoMethod(func(c *gin.Context) {
		c.JSON(http.StatusMethodNotAllowed, gin.H{"error": "method not allowed"})
	})

	return r
}
