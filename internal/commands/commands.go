// Пакет commands — консольные команды приложения: встроенные и
// предоставленные самим приложением.
package commands

import (
	"context"
	"fmt"
	"io"
	"os"
	"sort"
	"strings"

	"github.com/Gunvolt24/ginutils/config"
	"github.com/Gunvolt24/ginutils/internal/app"
	"github.com/Gunvolt24/ginutils/internal/dbsession"
	"github.com/Gunvolt24/ginutils/pkg/metrics"
)

// Args — аргументы команды. App — собранное приложение, передаётся всегда.
type Args struct {
	App    *app.App
	Params map[string]string
	Out    io.Writer
}

// Param — значение параметра или def.
func (a Args) Param(key, def string) string {
	if v, ok := a.Params[key]; ok && v != "" {
		return v
	}
	return def
}

// Func — тело команды; ошибка возвращается вызывающему как есть.
type Func func(ctx context.Context, args Args) error

// Command — именованная команда.
type Command struct {
	Name  string
	Short string
	Run   Func
	// ServesHTTP — команда обслуживает HTTP-запросы в консольном режиме;
	// запросы получают сессию процесса.
	ServesHTTP bool
}

// Registry — команды по имени.
type Registry map[string]Command

// Add — регистрирует команду под её именем.
func (r Registry) Add(cmd Command) Registry {
	r[cmd.Name] = cmd
	return r
}

// Source — команды приложения. Может отсутствовать или вернуть ошибку.
type Source func() (Registry, error)

// Dispatcher — выбор и запуск команды по имени.
type Dispatcher struct {
	Builtins Registry
	Source   Source
	Out      io.Writer
}

// NewDispatcher — диспетчер со встроенными командами.
func NewDispatcher(source Source) *Dispatcher {
	return &Dispatcher{Builtins: Builtins(), Source: source, Out: os.Stdout}
}

// Registry — встроенные команды, перекрытые командами приложения.
// Имена с префиксом "_" пропускаются; ошибка источника логируется и игнорируется.
func (d *Dispatcher) Registry(ctx context.Context, a *app.App) Registry {
	reg := make(Registry, len(d.Builtins))
	merge(reg, d.Builtins)

	if d.Source != nil {
		appCmds, err := d.Source()
		if err != nil {
			a.Logger.Warnf(ctx, "load application commands: %v", err)
		} else {
			merge(reg, appCmds)
		}
	}
	return reg
}

// Names — имена доступных команд по алфавиту.
func (r Registry) Names() []string {
	names := make([]string, 0, len(r))
	for n := range r {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

// Execute — привязывает сессию процесса, находит команду и выполняет её.
func (d *Dispatcher) Execute(ctx context.Context, a *app.App, name string, params map[string]string) (err error) {
	if err := a.BindSessions(ctx, dbsession.ModeConsole); err != nil {
		return err
	}

	cmd, ok := d.Registry(ctx, a)[name]
	if !ok {
		return &config.ConfigurationError{Msg: fmt.Sprintf("command %s does not exists", name)}
	}

	if cmd.ServesHTTP {
		if err := a.ShareSessions(); err != nil {
			return err
		}
	}

	defer func() {
		result := "ok"
		if err != nil {
			result = "error"
		}
		metrics.CommandsExecuted.WithLabelValues(name, result).Inc()
	}()

	out := d.Out
	if out == nil {
		out = os.Stdout
	}
	if params == nil {
		params = map[string]string{}
	}
	return cmd.Run(ctx, Args{App: a, Params: params, Out: out})
}

func merge(dst, src Registry) {
	for name, cmd := range src {
		if strings.HasPrefix(name, "_") || cmd.Run == nil {
			continue
		}
		if cmd.Name == "" {
			cmd.Name = name
		}
		dst[name] = cmd
	}
}
