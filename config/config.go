package config

import (
	"fmt"
	"maps"
	"os"
	"strings"
	"time"

	"dario.cat/mergo"
	"github.com/kelseyhightower/envconfig"
	"go.uber.org/zap/zapcore"
)

// SettingsModuleEnv — переменная окружения с именем модуля настроек.
const SettingsModuleEnv = "FLASKUTILS_SETTINGS_MODULE"

// Settings — конфигурация приложения (ключ → значение).
// Нулевое значение поля означает «модуль это поле не задаёт».
type Settings struct {
	Debug    bool   `envconfig:"FLASKUTILS_DEBUG"`
	LogLevel string `envconfig:"FLASKUTILS_LOG_LEVEL"`
	URLs     string `envconfig:"FLASKUTILS_URLS"`
	BaseDir  string `ignored:"true"`

	PostgresURI      string `envconfig:"FLASKUTILS_POSTGRESQL_DATABASE_URI"`
	PostgresMaxConns int32  `envconfig:"FLASKUTILS_POSTGRESQL_MAX_CONNS"`
	MigrationsDir    string `envconfig:"FLASKUTILS_MIGRATIONS_DIR"`

	HTTPAddr          string        `envconfig:"FLASKUTILS_HTTP_ADDR"`
	ReadTimeout       time.Duration `envconfig:"FLASKUTILS_HTTP_READ_TIMEOUT"`
	WriteTimeout      time.Duration `envconfig:"FLASKUTILS_HTTP_WRITE_TIMEOUT"`
	ReadHeaderTimeout time.Duration `envconfig:"FLASKUTILS_HTTP_READ_HEADER_TIMEOUT"`
	IdleTimeout       time.Duration `envconfig:"FLASKUTILS_HTTP_IDLE_TIMEOUT"`
	GracefulTimeout   time.Duration `envconfig:"FLASKUTILS_HTTP_GRACEFUL_TIMEOUT"`
	TemplatesGlob     string        `envconfig:"FLASKUTILS_TEMPLATES_GLOB"`
	StaticDir         string        `envconfig:"FLASKUTILS_STATIC_DIR"`

	SecretKey         string `envconfig:"FLASKUTILS_SECRET_KEY"`
	SessionCookieName string `envconfig:"FLASKUTILS_SESSION_COOKIE_NAME"`

	OAuth2Issuer      string        `envconfig:"FLASKUTILS_OAUTH2_ISSUER"`
	OAuth2TokenExpiry time.Duration `envconfig:"FLASKUTILS_OAUTH2_TOKEN_EXPIRY"`
	OAuth2TokenPath   string        `envconfig:"FLASKUTILS_OAUTH2_TOKEN_PATH"`

	TracingEnabled     bool    `envconfig:"FLASKUTILS_TRACING_ENABLED"`
	TracingServiceName string  `envconfig:"FLASKUTILS_TRACING_SERVICE_NAME"`
	TracingEndpoint    string  `envconfig:"FLASKUTILS_TRACING_ENDPOINT"`
	TracingSampleRatio float64 `envconfig:"FLASKUTILS_TRACING_SAMPLE_RATIO"`

	// Extra — произвольные ключи приложения; значения заменяются целиком.
	Extra map[string]any `ignored:"true"`
}

// Modules — именованные модули настроек, которые предоставляет приложение.
type Modules map[string]Settings

// Defaults — встроенный модуль настроек по умолчанию.
func Defaults() Settings {
	return Settings{
		LogLevel:           "INFO",
		MigrationsDir:      "migrations",
		HTTPAddr:           ":8080",
		ReadTimeout:        10 * time.Second,
		WriteTimeout:       10 * time.Second,
		ReadHeaderTimeout:  5 * time.Second,
		IdleTimeout:        60 * time.Second,
		GracefulTimeout:    5 * time.Second,
		SessionCookieName:  "session",
		OAuth2Issuer:       "ginutils",
		OAuth2TokenExpiry:  time.Hour,
		OAuth2TokenPath:    "/oauth/token",
		TracingServiceName: "ginutils",
		TracingEndpoint:    "localhost:4318",
		TracingSampleRatio: 1,
	}
}

// Merge — накладывает override поверх base: каждое заданное поле override
// выигрывает, ключи Extra копируются по одному без вложенного слияния.
func Merge(base, override Settings) (Settings, error) {
	out := base
	out.Extra = make(map[string]any, len(base.Extra)+len(override.Extra))
	maps.Copy(out.Extra, base.Extra)

	src := override
	src.Extra = nil
	if err := mergo.Merge(&out, src, mergo.WithOverride); err != nil {
		return Settings{}, fmt.Errorf("merge settings: %w", err)
	}

	maps.Copy(out.Extra, override.Extra)
	return out, nil
}

// Load — собирает конфигурацию: defaults → модуль из окружения → FLASKUTILS_*.
// Имена переменных в тегах полные: envconfig не подставляет имена без префикса.
func Load(modules Modules, baseDir string) (*Settings, error) {
	name, ok := os.LookupEnv(SettingsModuleEnv)
	if !ok {
		return nil, &ConfigurationError{Msg: "No settings has been defined"}
	}

	module, ok := modules[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownModule, name)
	}

	merged, err := Merge(Defaults(), module)
	if err != nil {
		return nil, err
	}

	if err := envconfig.Process("", &merged); err != nil {
		return nil, fmt.Errorf("process env: %w", err)
	}

	merged.BaseDir = baseDir
	return &merged, nil
}

// HasDatabase — задан ли POSTGRESQL_DATABASE_URI.
func (s *Settings) HasDatabase() bool { return s.PostgresURI != "" }

// Level — уровень логирования по имени LOG_LEVEL (DEBUG, INFO, WARNING, ERROR, CRITICAL).
func (s *Settings) Level() (zapcore.Level, error) {
	return ParseLevel(s.LogLevel)
}

// ParseLevel — перевод имени уровня в zapcore.Level.
func ParseLevel(name string) (zapcore.Level, error) {
	switch strings.ToUpper(strings.TrimSpace(name)) {
	case "DEBUG":
		return zapcore.DebugLevel, nil
	case "", "INFO":
		return zapcore.InfoLevel, nil
	case "WARNING", "WARN":
		return zapcore.WarnLevel, nil
	case "ERROR":
		return zapcore.ErrorLevel, nil
	case "CRITICAL", "FATAL":
		return zapcore.FatalLevel, nil
	default:
		return zapcore.InfoLevel, fmt.Errorf("unknown LOG_LEVEL %q", name)
	}
}

// Get — значение произвольного ключа приложения.
func (s *Settings) Get(key string) (any, bool) {
	v, ok := s.Extra[key]
	return v, ok
}
