package routes

import (
	"fmt"
	"net/url"
	"sort"
	"strings"
	"sync"

	"github.com/Gunvolt24/ginutils/internal/views"
	"github.com/gin-gonic/gin"
)

// Route — (шаблон пути, представление, имя endpoint).
type Route struct {
	Pattern string
	View    views.Factory
	Name    string
}

// R — короткий конструктор для списков маршрутов.
func R(pattern string, view views.Factory, name string) Route {
	return Route{Pattern: pattern, View: view, Name: name}
}

// Modules — именованные списки маршрутов (значение настройки URLS выбирает список).
type Modules map[string][]Route

// Entry — зарегистрированный маршрут.
type Entry struct {
	Name    string
	Pattern string
}

// Table — endpoint name → шаблон пути. При повторе имени побеждает последняя регистрация.
type Table struct {
	mu      sync.RWMutex
	byName  map[string]string
	ordered []Entry
}

func NewTable() *Table {
	return &Table{byName: make(map[string]string)}
}

func (t *Table) add(name, pattern string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.byName[name] = pattern
	t.ordered = append(t.ordered, Entry{Name: name, Pattern: pattern})
}

// Entries — маршруты в порядке регистрации.
func (t *Table) Entries() []Entry {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return append([]Entry(nil), t.ordered...)
}

// Pattern — шаблон пути endpoint'а.
func (t *Table) Pattern(name string) (string, bool) {
	t.mu.RLock()
	defer t.mu.RUnlock()
	p, ok := t.byName[name]
	return p, ok
}

// URLFor — путь для endpoint'а: параметры :name и *name подставляются,
// остальные уходят в query-строку (в отсортированном порядке).
func (t *Table) URLFor(name string, params map[string]string) (string, error) {
	pattern, ok := t.Pattern(name)
	if !ok {
		return "", fmt.Errorf("endpoint %q is not registered", name)
	}

	used := make(map[string]bool, len(params))
	segments := strings.Split(pattern, "/")
	for i, seg := range segments {
		if seg == "" || (seg[0] != ':' && seg[0] != '*') {
			continue
		}
		key := seg[1:]
		v, ok := params[key]
		if !ok {
			return "", fmt.Errorf("endpoint %q: missing parameter %q", name, key)
		}
		used[key] = true
		if seg[0] == '*' {
			segments[i] = strings.TrimPrefix(v, "/")
		} else {
			segments[i] = url.PathEscape(v)
		}
	}
	path := strings.Join(segments, "/")

	var extra []string
	for k := range params {
		if !used[k] {
			extra = append(extra, k)
		}
	}
	if len(extra) == 0 {
		return path, nil
	}
	sort.Strings(extra)
	q := url.Values{}
	for _, k := range extra {
		q.Set(k, params[k])
	}
	return path + "?" + q.Encode(), nil
}

// Install — регистрирует маршруты в порядке списка на все методы представления.
// Конфликты путей — политика gin (паника при дубликате).
func Install(r gin.IRoutes, table *Table, list []Route) {
	for _, route := range list {
		h := views.AsView(route.View)
		for _, m := range views.Methods {
			r.Handle(m, route.Pattern, h)
		}
		table.add(route.Name, route.Pattern)
	}
}
