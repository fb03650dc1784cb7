package routes_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/Gunvolt24/ginutils/internal/routes"
	"github.com/Gunvolt24/ginutils/internal/views"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
)

type helloView struct{ views.ResourceView }

func (v *helloView) Get(c *gin.Context) {
	v.JSONResponse(c, http.StatusOK, gin.H{"hello": c.Param("name")})
}

func hello() views.View { return &helloView{} }

func TestInstall_RegistersAllMethods(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	table := routes.NewTable()

	routes.Install(r, table, []routes.Route{
		routes.R("/hello/:name", hello, "hello"),
		routes.R("/other", hello, "other"),
	})

	got := r.Routes()
	require.Len(t, got, 2*len(views.Methods))

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/hello/bob", http.NoBody))
	require.Equal(t, http.StatusOK, w.Code)
	require.JSONEq(t, `{"hello":"bob"}`, w.Body.String())

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodDelete, "/hello/bob", http.NoBody))
	require.Equal(t, http.StatusBadRequest, w.Code)

	require.Equal(t, []routes.Entry{
		{Name: "hello", Pattern: "/hello/:name"},
		{Name: "other", Pattern: "/other"},
	}, table.Entries())
}

func TestInstall_DuplicateNameLastWins(t *testing.T) {
	gin.SetMode(gin.TestMode)
	table := routes.NewTable()

	routes.Install(gin.New(), table, []routes.Route{
		routes.R("/a", hello, "dup"),
		routes.R("/b", hello, "dup"),
	})

	p, ok := table.Pattern("dup")
	require.True(t, ok)
	require.Equal(t, "/b", p)
	require.Len(t, table.Entries(), 2)
}

func TestInstall_DuplicatePathPanics(t *testing.T) {
	gin.SetMode(gin.TestMode)

	require.Panics(t, func() {
		routes.Install(gin.New(), routes.NewTable(), []routes.Route{
			routes.R("/a", hello, "one"),
			routes.R("/a", hello, "two"),
		})
	})
}

func TestURLFor(t *testing.T) {
	gin.SetMode(gin.TestMode)
	table := routes.NewTable()
	routes.Install(gin.New(), table, []routes.Route{
		routes.R("/users/:id/files/*path", hello, "file"),
		routes.R("/static", hello, "static"),
	})

	u, err := table.URLFor("file", map[string]string{"id": "a b", "path": "/x/y.txt", "v": "2"})
	require.NoError(t, err)
	require.Equal(t, "/users/a%20b/files/x/y.txt?v=2", u)

	u, err = table.URLFor("static", nil)
	require.NoError(t, err)
	require.Equal(t, "/static", u)

	_, err = table.URLFor("file", map[string]string{"id": "1"})
	require.Error(t, err)

	_, err = table.URLFor("missing", nil)
	require.Error(t, err)
}
