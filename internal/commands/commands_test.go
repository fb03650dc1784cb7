package commands_test

import (
	"bytes"
	"context"
	"errors"
	"net/http"
	"testing"

	"github.com/Gunvolt24/ginutils/config"
	"github.com/Gunvolt24/ginutils/internal/app"
	"github.com/Gunvolt24/ginutils/internal/commands"
	"github.com/Gunvolt24/ginutils/internal/repo/memory"
	"github.com/Gunvolt24/ginutils/internal/routes"
	"github.com/Gunvolt24/ginutils/internal/views"
	"github.com/Gunvolt24/ginutils/pkg/metrics"
	"github.com/gin-gonic/gin"
	promtest "github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/require"
)

type pingView struct{ views.BaseView }

func (v *pingView) Get(c *gin.Context) { c.String(http.StatusOK, "ok") }

func newApp(t *testing.T, clients *memory.ClientStore) *app.App {
	t.Helper()
	t.Setenv(config.SettingsModuleEnv, "cmd.test")

	opts := app.Options{
		Name:     "cmdtest",
		Console:  true,
		Settings: config.Modules{"cmd.test": {URLs: "cmd.urls", SecretKey: "k"}},
		URLs: routes.Modules{"cmd.urls": {
			routes.R("/a", func() views.View { return &pingView{} }, "a"),
			routes.R("/b/:id", func() views.View { return &pingView{} }, "b"),
		}},
	}
	if clients != nil {
		opts.Clients = clients
	}
	a, cleanup, err := app.Bootstrap(context.Background(), opts)
	require.NoError(t, err)
	t.Cleanup(cleanup)
	return a
}

func newDispatcher(source commands.Source) (*commands.Dispatcher, *bytes.Buffer) {
	out := &bytes.Buffer{}
	d := commands.NewDispatcher(source)
	d.Out = out
	return d, out
}

func TestExecute_UnknownCommand(t *testing.T) {
	a := newApp(t, nil)
	d, _ := newDispatcher(nil)

	err := d.Execute(context.Background(), a, "nonexistent", nil)

	var ce *config.ConfigurationError
	require.ErrorAs(t, err, &ce)
	require.Equal(t, "command nonexistent does not exists", ce.Msg)
}

func TestExecute_ApplicationShadowsBuiltin(t *testing.T) {
	a := newApp(t, nil)

	var got commands.Args
	d, _ := newDispatcher(func() (commands.Registry, error) {
		return commands.Registry{
			"migrate": {Run: func(_ context.Context, args commands.Args) error {
				got = args
				return nil
			}},
		}, nil
	})

	require.NoError(t, d.Execute(context.Background(), a, "migrate", map[string]string{"x": "1"}))
	require.Same(t, a, got.App)
	require.Equal(t, "1", got.Params["x"])
}

func TestExecute_SourceErrorIgnored(t *testing.T) {
	a := newApp(t, nil)
	d, out := newDispatcher(func() (commands.Registry, error) {
		return nil, errors.New("broken commands module")
	})

	require.NoError(t, d.Execute(context.Background(), a, "routes", nil))
	require.Contains(t, out.String(), "NAME")
	require.Contains(t, out.String(), "/b/:id")
}

func TestExecute_UnderscoreNamesSkipped(t *testing.T) {
	a := newApp(t, nil)
	d, _ := newDispatcher(func() (commands.Registry, error) {
		return commands.Registry{
			"_helper": {Run: func(context.Context, commands.Args) error { return nil }},
		}, nil
	})

	var ce *config.ConfigurationError
	require.ErrorAs(t, d.Execute(context.Background(), a, "_helper", nil), &ce)
	require.NotContains(t, d.Registry(context.Background(), a).Names(), "_helper")
}

func TestExecute_ErrorPropagatesAndCounted(t *testing.T) {
	metrics.MustRegister()
	a := newApp(t, nil)
	boom := errors.New("boom")
	d, _ := newDispatcher(func() (commands.Registry, error) {
		return commands.Registry{}.Add(commands.Command{
			Name: "fail",
			Run:  func(context.Context, commands.Args) error { return boom },
		}), nil
	})

	before := promtest.ToFloat64(metrics.CommandsExecuted.WithLabelValues("fail", "error"))
	err := d.Execute(context.Background(), a, "fail", nil)
	require.ErrorIs(t, err, boom)
	require.Equal(t, before+1, promtest.ToFloat64(metrics.CommandsExecuted.WithLabelValues("fail", "error")))
}

func TestMigrate_RequiresDatabase(t *testing.T) {
	a := newApp(t, nil)
	d, _ := newDispatcher(nil)

	var ce *config.ConfigurationError
	require.ErrorAs(t, d.Execute(context.Background(), a, "migrate", nil), &ce)
}

func TestCreateClient_PrintsCredentials(t *testing.T) {
	store := memory.NewClientStore()
	a := newApp(t, store)
	d, out := newDispatcher(nil)

	params := map[string]string{"name": "cli", "scopes": "read,write"}
	require.NoError(t, d.Execute(context.Background(), a, "createclient", params))
	require.Contains(t, out.String(), "client_id=")
	require.Contains(t, out.String(), "client_secret=")
}

func TestCreateClient_RequiresDurableStore(t *testing.T) {
	a := newApp(t, nil)
	d, out := newDispatcher(nil)

	err := d.Execute(context.Background(), a, "createclient", map[string]string{"name": "cli"})

	var ce *config.ConfigurationError
	require.ErrorAs(t, err, &ce)
	require.NotContains(t, out.String(), "client_secret=")
}

func TestRunServer_StopsOnCancel(t *testing.T) {
	a := newApp(t, nil)
	d, _ := newDispatcher(nil)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	require.NoError(t, d.Execute(ctx, a, "runserver", map[string]string{"addr": "127.0.0.1:0"}))
	_, ok := a.Routes.Pattern("a")
	require.True(t, ok, "runserver must install routes")
}

func TestExecute_BuiltinReceivesApp(t *testing.T) {
	a := newApp(t, nil)
	d, _ := newDispatcher(nil)

	var got *app.App
	d.Builtins["migrate"] = commands.Command{Name: "migrate", Run: func(_ context.Context, args commands.Args) error {
		got = args.App
		return nil
	}}

	require.NoError(t, d.Execute(context.Background(), a, "migrate", nil))
	require.Same(t, a, got)
}

func TestBuiltins_Names(t *testing.T) {
	require.Equal(t, []string{"createclient", "migrate", "routes", "runserver"}, commands.Builtins().Names())
}
