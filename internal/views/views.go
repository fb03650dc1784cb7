// Пакет views — базовые class-based представления.
//
// Конкретное представление встраивает BaseView (пустой ответ 400 на
// нереализованные методы) или ResourceView (JSON {} с кодом 400) и
// переопределяет только нужные HTTP-методы:
//
//	type StatusView struct{ views.ResourceView }
//
//	func (v *StatusView) Get(c *gin.Context) {
//		v.JSONResponse(c, http.StatusOK, gin.H{"status": "ok"})
//	}
package views

import (
	"encoding/json"
	"net/http"

	"github.com/Gunvolt24/ginutils/internal/dbsession"
	"github.com/Gunvolt24/ginutils/internal/ports"
	"github.com/gin-gonic/gin"
)

// MIMEJSON — тип содержимого JSON-ответов.
const MIMEJSON = "application/json"

// View — набор обработчиков по HTTP-методам.
type View interface {
	Get(c *gin.Context)
	Post(c *gin.Context)
	Put(c *gin.Context)
	Patch(c *gin.Context)
	Delete(c *gin.Context)
}

// Factory — создаёт новый экземпляр представления на каждый запрос.
type Factory func() View

// sessionSetter — представления, которым нужна сессия запроса.
type sessionSetter interface {
	SetSession(s ports.Session)
}

// BaseView — нереализованные методы прерывают запрос с 400 без тела.
type BaseView struct {
	// PGSession — сессия БД текущего запроса (nil, если БД не настроена).
	PGSession ports.Session
}

func (v *BaseView) SetSession(s ports.Session) { v.PGSession = s }

func (v *BaseView) Get(c *gin.Context)    { c.AbortWithStatus(http.StatusBadRequest) }
func (v *BaseView) Post(c *gin.Context)   { c.AbortWithStatus(http.StatusBadRequest) }
func (v *BaseView) Put(c *gin.Context)    { c.AbortWithStatus(http.StatusBadRequest) }
func (v *BaseView) Patch(c *gin.Context)  { c.AbortWithStatus(http.StatusBadRequest) }
func (v *BaseView) Delete(c *gin.Context) { c.AbortWithStatus(http.StatusBadRequest) }

// JSONResponse — сериализует data в JSON с типом application/json; nil → {}.
func (v *BaseView) JSONResponse(c *gin.Context, status int, data any) {
	if data == nil {
		data = gin.H{}
	}
	body, err := json.Marshal(data)
	if err != nil {
		_ = c.Error(err)
		c.AbortWithStatus(http.StatusInternalServerError)
		return
	}
	c.Data(status, MIMEJSON, body)
}

// RenderTemplate — рендер HTML-шаблона, загруженного в движок (TEMPLATES_GLOB).
func (v *BaseView) RenderTemplate(c *gin.Context, name string, values gin.H) {
	c.HTML(http.StatusOK, name, values)
}

// ResourceView — нереализованные методы отвечают 400 с телом {}.
type ResourceView struct {
	BaseView
}

func (v *ResourceView) Get(c *gin.Context)    { v.JSONResponse(c, http.StatusBadRequest, nil) }
func (v *ResourceView) Post(c *gin.Context)   { v.JSONResponse(c, http.StatusBadRequest, nil) }
func (v *ResourceView) Put(c *gin.Context)    { v.JSONResponse(c, http.StatusBadRequest, nil) }
func (v *ResourceView) Patch(c *gin.Context)  { v.JSONResponse(c, http.StatusBadRequest, nil) }
func (v *ResourceView) Delete(c *gin.Context) { v.JSONResponse(c, http.StatusBadRequest, nil) }

// Methods — методы, на которые регистрируется представление.
var Methods = []string{
	http.MethodGet, http.MethodHead, http.MethodPost,
	http.MethodPut, http.MethodPatch, http.MethodDelete,
}

// AsView — gin-обработчик: новый экземпляр представления на запрос,
// сессия запроса (если есть) передаётся в представление, затем диспетчеризация по методу.
func AsView(factory Factory) gin.HandlerFunc {
	return func(c *gin.Context) {
		view := factory()
		if ss, ok := view.(sessionSetter); ok {
			if s, ok := dbsession.FromContext(c); ok {
				ss.SetSession(s)
			}
		}

		switch c.Request.Method {
		case http.MethodGet, http.MethodHead:
			view.Get(c)
		case http.MethodPost:
			view.Post(c)
		case http.MethodPut:
			view.Put(c)
		case http.MethodPatch:
			view.Patch(c)
		case http.MethodDelete:
			view.Delete(c)
		default:
			c.AbortWithStatus(http.StatusMethodNotAllowed)
		}
	}
}
