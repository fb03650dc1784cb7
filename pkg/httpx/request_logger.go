package httpx

import (
	"strconv"
	"time"

	"github.com/Gunvolt24/ginutils/internal/ports"
	"github.com/Gunvolt24/ginutils/pkg/ctxmeta"
	"github.com/Gunvolt24/ginutils/pkg/metrics"
	"github.com/gin-gonic/gin"
)

// RequestLogger — middleware: журнал запросов и HTTP-метрики.
func RequestLogger(log ports.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		elapsed := time.Since(start)

		// не логируем /metrics, /ping
		switch c.FullPath() {
		case "/metrics", "/ping":
			return
		}

		metrics.HTTPRequests.WithLabelValues(c.Request.Method, strconv.Itoa(c.Writer.Status())).Inc()
		metrics.HTTPDuration.WithLabelValues(c.Request.Method).Observe(elapsed.Seconds())

		path := c.FullPath()
		if path == "" {
			path = c.Request.URL.Path
		}

		ctx := c.Request.Context()
		rid, _ := ctxmeta.RequestIDFromContext(ctx)
		tr, _ := ctxmeta.TraceIDFromContext(ctx)
		sp, _ := ctxmeta.SpanIDFromContext(ctx)

		if len(c.Errors) > 0 {
			log.Warnf(ctx, "request id=%s method=%s path=%s status=%d duration=%s errors=%s",
				rid, c.Request.Method, path, c.Writer.Status(), elapsed, c.Errors.String())
			return
		}

		log.Infof(
			ctx,
			"request id=%s trace=%s span=%s method=%s path=%s status=%d ip=%s duration=%s size=%d",
			rid, tr, sp,
			c.Request.Method,
			path,
			c.Writer.Status(),
			c.ClientIP(),
			elapsed,
			c.Writer.Size(),
		)
	}
}
