package site

import (
	"context"
	"net/http"
	"time"

	"github.com/Gunvolt24/ginutils/internal/routes"
	"github.com/Gunvolt24/ginutils/internal/views"
	"github.com/gin-gonic/gin"
)

const dbPingTimeout = 2 * time.Second

// StatusView — состояние сервиса и БД.
type StatusView struct {
	views.ResourceView
}

func (v *StatusView) Get(c *gin.Context) {
	db := "disabled"
	if v.PGSession != nil {
		ctx, cancel := context.WithTimeout(c.Request.Context(), dbPingTimeout)
		defer cancel()

		var one int
		if err := v.PGSession.QueryRow(ctx, "SELECT 1").Scan(&one); err != nil {
			_ = c.Error(err)
			v.JSONResponse(c, http.StatusServiceUnavailable, gin.H{"status": "degraded", "database": "unavailable"})
			return
		}
		db = "ok"
	}
	v.JSONResponse(c, http.StatusOK, gin.H{"status": "ok", "database": db})
}

// IndexView — главная страница (HTML-шаблон).
type IndexView struct {
	views.BaseView
}

func (v *IndexView) Get(c *gin.Context) {
	v.RenderTemplate(c, "index.html", gin.H{"title": "ginutils", "status_url": "/status"})
}

// URLs — модули маршрутов сайта.
func URLs() routes.Modules {
	return routes.Modules{
		URLModule: {
			routes.R("/", func() views.View { return &IndexView{} }, "index"),
			routes.R("/status", func() views.View { return &StatusView{} }, "status"),
		},
	}
}
