package oauth

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/Gunvolt24/ginutils/internal/domain"
	"github.com/Gunvolt24/ginutils/internal/ports"
	"github.com/Gunvolt24/ginutils/pkg/ctxmeta"
	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

const (
	GrantClientCredentials = "client_credentials"

	ctxClaims = "oauth_claims"
)

var (
	ErrInvalidClient = errors.New("invalid_client")
	ErrInvalidToken  = errors.New("invalid_token")

	// ErrNotInitialized — провайдер используется до InitApp.
	ErrNotInitialized = errors.New("oauth provider is not initialized")
)

// Config — параметры выдачи токенов.
type Config struct {
	Secret    string
	Issuer    string
	Expiry    time.Duration
	TokenPath string
}

// Claims — содержимое access token.
type Claims struct {
	ClientID string `json:"client_id"`
	Scope    string `json:"scope,omitempty"`
	jwt.RegisteredClaims
}

// Scopes — scope токена списком.
func (c *Claims) Scopes() []string { return strings.Fields(c.Scope) }

// Provider — OAuth2-провайдер: эндпоинт выдачи токенов и защита ресурсов.
type Provider struct {
	cfg     Config
	clients ports.ClientStore
	log     ports.Logger
	now     func() time.Time
}

func NewProvider() *Provider {
	return &Provider{now: time.Now}
}

// InitApp — привязка к приложению: регистрирует POST <TokenPath>.
func (p *Provider) InitApp(r gin.IRoutes, log ports.Logger, cfg Config, clients ports.ClientStore) error {
	if cfg.Secret == "" {
		return errors.New("SECRET_KEY is required for oauth tokens")
	}
	if cfg.Expiry <= 0 {
		cfg.Expiry = time.Hour
	}
	if cfg.TokenPath == "" {
		cfg.TokenPath = "/oauth/token"
	}
	p.cfg = cfg
	p.clients = clients
	p.log = log

	r.POST(cfg.TokenPath, p.tokenHandler)
	return nil
}

// Clients — хранилище клиентов провайдера.
func (p *Provider) Clients() ports.ClientStore { return p.clients }

// tokenHandler — RFC 6749 §4.4, client_credentials.
func (p *Provider) tokenHandler(c *gin.Context) {
	c.Header("Cache-Control", "no-store")
	c.Header("Pragma", "no-cache")

	if gt := c.PostForm("grant_type"); gt != GrantClientCredentials {
		oauthError(c, http.StatusBadRequest, "unsupported_grant_type")
		return
	}

	clientID, secret, ok := c.Request.BasicAuth()
	if !ok {
		clientID, secret = c.PostForm("client_id"), c.PostForm("client_secret")
	}

	ctx := c.Request.Context()
	client, err := p.Authenticate(ctx, clientID, secret)
	if err != nil {
		if errors.Is(err, ErrInvalidClient) {
			c.Header("WWW-Authenticate", `Basic realm="oauth"`)
			oauthError(c, http.StatusUnauthorized, "invalid_client")
			return
		}
		p.log.Errorf(ctx, "authenticate client %s: %v", clientID, err)
		oauthError(c, http.StatusInternalServerError, "server_error")
		return
	}

	scopes := strings.Fields(c.PostForm("scope"))
	if len(scopes) == 0 {
		scopes = client.Scopes
	}
	if !client.AllowsScopes(scopes) {
		oauthError(c, http.StatusBadRequest, "invalid_scope")
		return
	}

	token, err := p.IssueToken(client, scopes)
	if err != nil {
		p.log.Errorf(ctx, "issue token for %s: %v", client.ID, err)
		oauthError(c, http.StatusInternalServerError, "server_error")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"access_token": token,
		"token_type":   "Bearer",
		"expires_in":   int(p.cfg.Expiry.Seconds()),
		"scope":        strings.Join(scopes, " "),
	})
}

// Authenticate — проверка client_id/secret (bcrypt).
func (p *Provider) Authenticate(ctx context.Context, clientID, secret string) (*domain.Client, error) {
	if clientID == "" || secret == "" {
		return nil, ErrInvalidClient
	}
	client, err := p.clients.GetClient(ctx, clientID)
	if err != nil {
		return nil, fmt.Errorf("get client: %w", err)
	}
	if client == nil {
		return nil, ErrInvalidClient
	}
	if err := bcrypt.CompareHashAndPassword(client.SecretHash, []byte(secret)); err != nil {
		return nil, ErrInvalidClient
	}
	return client, nil
}

// IssueToken — подписанный HS256 access token.
func (p *Provider) IssueToken(client *domain.Client, scopes []string) (string, error) {
	if p.cfg.Secret == "" {
		return "", ErrNotInitialized
	}
	now := p.now()
	claims := &Claims{
		ClientID: client.ID,
		Scope:    strings.Join(scopes, " "),
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    p.cfg.Issuer,
			Subject:   client.ID,
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(p.cfg.Expiry)),
			ID:        uuid.NewString(),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(p.cfg.Secret))
}

// ValidateToken — проверка подписи, issuer и сроков.
// Без секрета (провайдер не инициализирован) любой токен отклоняется.
func (p *Provider) ValidateToken(raw string) (*Claims, error) {
	if p.cfg.Secret == "" {
		return nil, fmt.Errorf("%w: %w", ErrInvalidToken, ErrNotInitialized)
	}
	claims := &Claims{}
	_, err := jwt.ParseWithClaims(raw, claims, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return []byte(p.cfg.Secret), nil
	},
		jwt.WithIssuer(p.cfg.Issuer),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(p.now),
	)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}
	return claims, nil
}

// RequireOAuth — middleware защиты ресурса bearer-токеном с нужными scope.
func (p *Provider) RequireOAuth(scopes ...string) gin.HandlerFunc {
	return func(c *gin.Context) {
		raw, ok := bearerToken(c.GetHeader("Authorization"))
		if !ok {
			c.Header("WWW-Authenticate", `Bearer realm="oauth"`)
			oauthError(c, http.StatusUnauthorized, "invalid_token")
			return
		}
		claims, err := p.ValidateToken(raw)
		if err != nil {
			c.Header("WWW-Authenticate", `Bearer realm="oauth", error="invalid_token"`)
			oauthError(c, http.StatusUnauthorized, "invalid_token")
			return
		}
		granted := &domain.Client{Scopes: claims.Scopes()}
		if !granted.AllowsScopes(scopes) {
			oauthError(c, http.StatusForbidden, "insufficient_scope")
			return
		}
		c.Set(ctxClaims, claims)
		c.Request = c.Request.WithContext(ctxmeta.WithSubject(c.Request.Context(), claims.ClientID))
		c.Next()
	}
}

// ClaimsFrom — claims проверенного токена текущего запроса.
func ClaimsFrom(c *gin.Context) (*Claims, bool) {
	v, ok := c.Get(ctxClaims)
	if !ok {
		return nil, false
	}
	claims, ok := v.(*Claims)
	return claims, ok
}

// HashSecret — bcrypt-хэш секрета клиента.
func HashSecret(secret string) ([]byte, error) {
	return bcrypt.GenerateFromPassword([]byte(secret), bcrypt.DefaultCost)
}

func bearerToken(header string) (string, bool) {
	const prefix = "Bearer "
	if len(header) <= len(prefix) || !strings.EqualFold(header[:len(prefix)], prefix) {
		return "", false
	}
	return strings.TrimSpace(header[len(prefix):]), true
}

func oauthError(c *gin.Context, status int, code string) {
	c.AbortWithStatusJSON(status, gin.H{"error": code})
}
