package oauth_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/Gunvolt24/ginutils/internal/oauth"
	"github.com/Gunvolt24/ginutils/internal/ports/mocks"
	"github.com/Gunvolt24/ginutils/internal/repo/memory"
	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/golang/mock/gomock"
	"github.com/stretchr/testify/require"
)

type noopLogger struct{}

func (noopLogger) Infof(context.Context, string, ...any)  {}
func (noopLogger) Warnf(context.Context, string, ...any)  {}
func (noopLogger) Errorf(context.Context, string, ...any) {}

var testCfg = oauth.Config{Secret: "s3cret", Issuer: "test", Expiry: time.Minute}

type fixture struct {
	r        *gin.Engine
	p        *oauth.Provider
	clientID string
	secret   string
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	gin.SetMode(gin.TestMode)

	store := memory.NewClientStore()
	client, secret, err := oauth.RegisterClient(context.Background(), store, "svc", []string{"read", "write"})
	require.NoError(t, err)

	r := gin.New()
	p := oauth.NewProvider()
	require.NoError(t, p.InitApp(r, noopLogger{}, testCfg, store))

	r.GET("/read", p.RequireOAuth("read"), func(c *gin.Context) {
		claims, ok := oauth.ClaimsFrom(c)
		require.True(t, ok)
		c.JSON(http.StatusOK, gin.H{"client": claims.ClientID})
	})
	r.GET("/admin", p.RequireOAuth("admin"), func(c *gin.Context) { c.Status(http.StatusOK) })

	return &fixture{r: r, p: p, clientID: client.ID, secret: secret}
}

func (f *fixture) token(form url.Values, basic bool) *httptest.ResponseRecorder {
	if !basic {
		form.Set("client_id", f.clientID)
		form.Set("client_secret", f.secret)
	}
	req := httptest.NewRequest(http.MethodPost, "/oauth/token", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	if basic {
		req.SetBasicAuth(f.clientID, f.secret)
	}
	w := httptest.NewRecorder()
	f.r.ServeHTTP(w, req)
	return w
}

func (f *fixture) get(path, token string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, path, http.NoBody)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	f.r.ServeHTTP(w, req)
	return w
}

type tokenResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
	ExpiresIn   int    `json:"expires_in"`
	Scope       string `json:"scope"`
}

func TestToken_ClientCredentials(t *testing.T) {
	f := newFixture(t)

	for _, basic := range []bool{false, true} {
		w := f.token(url.Values{"grant_type": {"client_credentials"}, "scope": {"read"}}, basic)
		require.Equal(t, http.StatusOK, w.Code, w.Body.String())
		require.Equal(t, "no-store", w.Header().Get("Cache-Control"))

		var resp tokenResponse
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		require.Equal(t, "Bearer", resp.TokenType)
		require.Equal(t, 60, resp.ExpiresIn)
		require.Equal(t, "read", resp.Scope)

		claims, err := f.p.ValidateToken(resp.AccessToken)
		require.NoError(t, err)
		require.Equal(t, f.clientID, claims.ClientID)
		require.Equal(t, []string{"read"}, claims.Scopes())
	}
}

func TestToken_DefaultsToClientScopes(t *testing.T) {
	f := newFixture(t)

	w := f.token(url.Values{"grant_type": {"client_credentials"}}, false)
	require.Equal(t, http.StatusOK, w.Code)

	var resp tokenResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.Equal(t, "read write", resp.Scope)
}

func TestToken_Errors(t *testing.T) {
	f := newFixture(t)

	w := f.token(url.Values{"grant_type": {"password"}}, false)
	require.Equal(t, http.StatusBadRequest, w.Code)
	require.JSONEq(t, `{"error":"unsupported_grant_type"}`, w.Body.String())

	w = f.token(url.Values{"grant_type": {"client_credentials"}, "scope": {"admin"}}, false)
	require.Equal(t, http.StatusBadRequest, w.Code)
	require.JSONEq(t, `{"error":"invalid_scope"}`, w.Body.String())

	f.secret = "wrong"
	w = f.token(url.Values{"grant_type": {"client_credentials"}}, false)
	require.Equal(t, http.StatusUnauthorized, w.Code)
	require.JSONEq(t, `{"error":"invalid_client"}`, w.Body.String())
}

func TestToken_StoreErrorIsServerError(t *testing.T) {
	gin.SetMode(gin.TestMode)
	ctrl := gomock.NewController(t)
	store := mocks.NewMockClientStore(ctrl)
	store.EXPECT().GetClient(gomock.Any(), "c1").Return(nil, errors.New("db down"))

	r := gin.New()
	require.NoError(t, oauth.NewProvider().InitApp(r, noopLogger{}, testCfg, store))

	form := url.Values{"grant_type": {"client_credentials"}, "client_id": {"c1"}, "client_secret": {"x"}}
	req := httptest.NewRequest(http.MethodPost, "/oauth/token", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusInternalServerError, w.Code)
}

func TestRequireOAuth(t *testing.T) {
	f := newFixture(t)

	w := f.token(url.Values{"grant_type": {"client_credentials"}, "scope": {"read"}}, false)
	var resp tokenResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))

	w = f.get("/read", resp.AccessToken)
	require.Equal(t, http.StatusOK, w.Code)
	require.JSONEq(t, `{"client":"`+f.clientID+`"}`, w.Body.String())

	w = f.get("/admin", resp.AccessToken)
	require.Equal(t, http.StatusForbidden, w.Code)

	w = f.get("/read", "")
	require.Equal(t, http.StatusUnauthorized, w.Code)

	w = f.get("/read", "garbage")
	require.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestValidateToken_ForeignSecret(t *testing.T) {
	f := newFixture(t)

	gin.SetMode(gin.TestMode)
	other := oauth.NewProvider()
	require.NoError(t, other.InitApp(gin.New(), noopLogger{}, oauth.Config{Secret: "other", Issuer: "test"}, memory.NewClientStore()))

	w := f.token(url.Values{"grant_type": {"client_credentials"}}, false)
	var resp tokenResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))

	_, err := other.ValidateToken(resp.AccessToken)
	require.ErrorIs(t, err, oauth.ErrInvalidToken)
}

func TestInitApp_RequiresSecret(t *testing.T) {
	gin.SetMode(gin.TestMode)
	require.Error(t, oauth.NewProvider().InitApp(gin.New(), noopLogger{}, oauth.Config{}, memory.NewClientStore()))
}

// Без InitApp секрета нет: токен, подписанный пустым ключом, не проходит.
func TestRequireOAuth_UninitializedRejectsEmptyKeyToken(t *testing.T) {
	gin.SetMode(gin.TestMode)
	p := oauth.NewProvider()

	r := gin.New()
	r.GET("/admin", p.RequireOAuth("admin"), func(c *gin.Context) { c.String(http.StatusOK, "secret data") })

	forged, err := jwt.NewWithClaims(jwt.SigningMethodHS256, &oauth.Claims{
		ClientID: "evil",
		Scope:    "admin",
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	}).SignedString([]byte{})
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "/admin", http.NoBody)
	req.Header.Set("Authorization", "Bearer "+forged)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusUnauthorized, w.Code)
	require.NotContains(t, w.Body.String(), "secret data")

	_, err = p.ValidateToken(forged)
	require.ErrorIs(t, err, oauth.ErrInvalidToken)
	require.ErrorIs(t, err, oauth.ErrNotInitialized)
}
