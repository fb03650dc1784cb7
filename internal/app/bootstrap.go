package app

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"path/filepath"
	"time"

	"github.com/Gunvolt24/ginutils/config"
	"github.com/Gunvolt24/ginutils/internal/auth"
	cachemem "github.com/Gunvolt24/ginutils/internal/cache/memory"
	"github.com/Gunvolt24/ginutils/internal/dbsession"
	"github.com/Gunvolt24/ginutils/internal/oauth"
	"github.com/Gunvolt24/ginutils/internal/ports"
	"github.com/Gunvolt24/ginutils/internal/repo/memory"
	"github.com/Gunvolt24/ginutils/internal/repo/postgres"
	"github.com/Gunvolt24/ginutils/internal/routes"
	rest "github.com/Gunvolt24/ginutils/internal/transport/http"
	"github.com/Gunvolt24/ginutils/pkg/httpx"
	"github.com/Gunvolt24/ginutils/pkg/logger"
	"github.com/Gunvolt24/ginutils/pkg/metrics"
	"github.com/Gunvolt24/ginutils/pkg/telemetry"
	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
)

// ErrUnknownURLs — модуль маршрутов из настройки URLS не зарегистрирован.
var ErrUnknownURLs = errors.New("url module not found")

const (
	clientCacheCapacity = 256
	clientCacheTTL      = 5 * time.Minute
)

// Options — то, что приложение передаёт в Bootstrap.
type Options struct {
	Name     string
	BaseDir  string         // каталог приложения (шаблоны, статика, миграции)
	Settings config.Modules // модули настроек, выбираемые FLASKUTILS_SETTINGS_MODULE
	URLs     routes.Modules // модули маршрутов, выбираемые настройкой URLS

	// Console — консольный режим: без привязки сессий к запросам и без маршрутов.
	Console     bool
	SessionMode dbsession.Mode

	UserLoader auth.UserLoader
	Clients    ports.ClientStore // nil — Postgres (если есть БД) или память
}

// App — собранное приложение.
type App struct {
	Name     string
	Settings *config.Settings
	Engine   *gin.Engine
	Logger   ports.Logger
	Hooks    *httpx.Hooks
	Routes   *routes.Table
	Sessions *dbsession.Binder // nil без POSTGRESQL_DATABASE_URI
	Login    *auth.LoginManager
	OAuth    *oauth.Provider
	Pool     *pgxpool.Pool

	HTTPServer      *http.Server  // HTTP-сервер
	gracefulTimeout time.Duration // время ожидания завершения HTTP-сервера

	urls            routes.Modules
	routesInstalled bool
	durableClients  bool
}

// Cleanup — функция освобождения ресурсов.
type Cleanup func()

// Bootstrap — собирает приложение и возвращает его, функцию очистки и ошибку.
// При ошибке всё, что успело открыться, освобождается.
func Bootstrap(ctx context.Context, opts Options) (_ *App, _ Cleanup, err error) {
	noop := func() {}

	// Настройки. Без них ничего не создаётся.
	settings, err := config.Load(opts.Settings, opts.BaseDir)
	if err != nil {
		return nil, noop, err
	}
	level, err := settings.Level()
	if err != nil {
		return nil, noop, &config.ConfigurationError{Msg: err.Error()}
	}
	// Подпись cookie и токенов без секрета невозможна.
	if settings.SecretKey == "" {
		return nil, noop, &config.ConfigurationError{Msg: "SECRET_KEY is not defined"}
	}

	// Логгер: в debug консольный вывод, иначе JSON.
	logg, cleanupLogger, err := logger.NewZapLogger(!settings.Debug, level)
	if err != nil {
		return nil, noop, err
	}

	var closers []func()
	cleanup := func() {
		for i := len(closers) - 1; i >= 0; i-- {
			closers[i]()
		}
		if cerr := cleanupLogger(); cerr != nil {
			logg.Warnf(ctx, "cleanup logger: %v", cerr)
		}
	}
	defer func() {
		if err != nil {
			cleanup()
		}
	}()

	// Регистрация метрик (Prometheus).
	metrics.MustRegister()

	// Трейсинг OTEL (при включённой конфигурации); по умолчанию — no-op.
	otelServiceName := ""
	if settings.TracingEnabled {
		shutdown, tErr := telemetry.SetupTracing(ctx, telemetry.Options{
			ServiceName: settings.TracingServiceName,
			Endpoint:    settings.TracingEndpoint,
			SampleRatio: settings.TracingSampleRatio,
			Debug:       settings.Debug,
		})
		if tErr != nil {
			logg.Warnf(ctx, "failed to setup tracing: %v", tErr)
		} else {
			logg.Infof(ctx, "otel tracing enabled service=%s endpoint=%s sample=%.2f",
				settings.TracingServiceName, settings.TracingEndpoint, settings.TracingSampleRatio)
			otelServiceName = settings.TracingServiceName
			closers = append(closers, func() {
				if terr := shutdown(context.Background()); terr != nil {
					logg.Warnf(ctx, "shutdown tracing: %v", terr)
				}
			})
		}
	}

	// Режим Gin по флагу DEBUG.
	if settings.Debug {
		gin.SetMode(gin.DebugMode)
	} else {
		gin.SetMode(gin.ReleaseMode)
	}

	hooks := httpx.NewHooks()
	engine := rest.NewEngine(rest.EngineOptions{
		Log:           logg,
		Hooks:         hooks,
		TemplatesGlob: resolve(settings.BaseDir, settings.TemplatesGlob),
		StaticDir:     resolve(settings.BaseDir, settings.StaticDir),
		OtelService:   otelServiceName,
	})

	a := &App{
		Name:     opts.Name,
		Settings: settings,
		Engine:   engine,
		Logger:   logg,
		Hooks:    hooks,
		Routes:   routes.NewTable(),
		urls:     opts.URLs,
		HTTPServer: &http.Server{
			Addr:              settings.HTTPAddr,
			Handler:           engine,
			ReadTimeout:       settings.ReadTimeout,
			WriteTimeout:      settings.WriteTimeout,
			ReadHeaderTimeout: settings.ReadHeaderTimeout,
			IdleTimeout:       settings.IdleTimeout,
		},
		gracefulTimeout: settings.GracefulTimeout,
	}

	// Сессии БД.
	if settings.HasDatabase() {
		pool, pErr := postgres.NewPool(ctx, settings.PostgresURI, settings.PostgresMaxConns)
		if pErr != nil {
			return nil, noop, pErr
		}
		closers = append(closers, pool.Close)
		a.Pool = pool

		mode := opts.SessionMode
		if opts.Console {
			mode = dbsession.ModeConsole
		}
		a.Sessions = dbsession.New(postgres.NewSessionFactory(pool, mode.String()), logg)
		closers = append(closers, a.Sessions.Close)

		if !opts.Console {
			if err = a.Sessions.Bind(ctx, hooks, mode); err != nil {
				return nil, noop, err
			}
		}
	}

	// Маршруты приложения.
	if !opts.Console {
		if err = a.InstallRoutes(); err != nil {
			return nil, noop, err
		}
	}

	// Логин-сессии (strong).
	a.Login = auth.NewLoginManager()
	a.Login.SessionProtection = auth.ProtectionStrong
	if opts.UserLoader != nil {
		a.Login.UserLoader(opts.UserLoader)
	}
	if err = a.Login.InitApp(hooks, logg, settings.SecretKey, settings.SessionCookieName, !settings.Debug); err != nil {
		return nil, noop, err
	}

	// OAuth2-провайдер.
	a.OAuth = oauth.NewProvider()
	oauthCfg := oauth.Config{
		Secret:    settings.SecretKey,
		Issuer:    settings.OAuth2Issuer,
		Expiry:    settings.OAuth2TokenExpiry,
		TokenPath: settings.OAuth2TokenPath,
	}
	if err = a.OAuth.InitApp(engine, logg, oauthCfg, a.clientStore(opts.Clients)); err != nil {
		return nil, noop, err
	}

	return a, cleanup, nil
}

// clientStore — хранилище OAuth-клиентов: явное, Postgres с кэшем или память.
// Память живёт только в процессе, остальные варианты считаются постоянными.
func (a *App) clientStore(explicit ports.ClientStore) ports.ClientStore {
	switch {
	case explicit != nil:
		a.durableClients = true
		return explicit
	case a.Pool != nil:
		a.durableClients = true
		cache := cachemem.NewClientCache(clientCacheCapacity, clientCacheTTL)
		return cachemem.NewCachedClientStore(postgres.NewClientStore(a.Pool), cache)
	default:
		return memory.NewClientStore()
	}
}

// DurableClients — переживут ли OAuth-клиенты завершение процесса.
func (a *App) DurableClients() bool { return a.durableClients }

// InstallRoutes — регистрирует маршруты модуля из настройки URLS.
// Повторный вызов ничего не делает.
func (a *App) InstallRoutes() error {
	if a.routesInstalled {
		return nil
	}
	name := a.Settings.URLs
	if name == "" {
		a.routesInstalled = true
		return nil
	}
	list, ok := a.urls[name]
	if !ok {
		return fmt.Errorf("%w: %q", ErrUnknownURLs, name)
	}
	routes.Install(a.Engine, a.Routes, list)
	a.routesInstalled = true
	return nil
}

// BindSessions — привязывает сессии БД в заданном режиме; без БД ничего не делает.
func (a *App) BindSessions(ctx context.Context, mode dbsession.Mode) error {
	if a.Sessions == nil {
		return nil
	}
	return a.Sessions.Bind(ctx, a.Hooks, mode)
}

// ShareSessions — каждый запрос получает сессию процесса; без БД ничего не делает.
func (a *App) ShareSessions() error {
	if a.Sessions == nil {
		return nil
	}
	return a.Sessions.Share(a.Hooks)
}

// URLFor — путь именованного маршрута.
func (a *App) URLFor(name string, params map[string]string) (string, error) {
	return a.Routes.URLFor(name, params)
}

// resolve — путь относительно BaseDir; пустой остаётся пустым.
func resolve(baseDir, p string) string {
	if p == "" || baseDir == "" || filepath.IsAbs(p) {
		return p
	}
	return filepath.Join(baseDir, p)
}

// Run — запускает HTTP-сервер; ждёт отмены контекста или ошибки и останавливает его.
func (a *App) Run(ctx context.Context) error {
	errCh := make(chan error, 1)

	go func() {
		a.Logger.Infof(ctx, "http server starting (addr=%s)", a.HTTPServer.Addr)
		if err := a.HTTPServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	// Ожидание сигнала остановки или ошибки сервера.
	var runErr error
	select {
	case <-ctx.Done():
		a.Logger.Infof(ctx, "shutdown requested, starting graceful shutdown")
	case runErr = <-errCh:
		a.Logger.Warnf(ctx, "http server error: %v", runErr)
	}

	gt := a.gracefulTimeout
	if gt <= 0 {
		gt = 5 * time.Second
	}

	// Корректная остановка HTTP-сервера.
	shutdownCtx, cancel := context.WithTimeout(context.Background(), gt)
	defer cancel()

	if err := a.HTTPServer.Shutdown(shutdownCtx); err != nil {
		a.Logger.Warnf(ctx, "http server shutdown failed: %v", err)
	} else {
		a.Logger.Infof(ctx, "http server stopped gracefully")
	}

	a.Logger.Infof(ctx, "service stopped")
	return runErr
}
