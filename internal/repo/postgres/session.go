package postgres

import (
	"context"
	"fmt"
	"sync"

	"github.com/Gunvolt24/ginutils/internal/ports"
	"github.com/Gunvolt24/ginutils/pkg/metrics"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

var (
	_ ports.SessionFactory = (*SessionFactory)(nil)
	_ ports.Session        = (*Session)(nil)
)

// SessionFactory — выдаёт сессии, каждая держит одно соединение из пула.
type SessionFactory struct {
	pool  *pgxpool.Pool
	scope string
}

// NewSessionFactory — scope попадает в метку метрики: режим привязки (request|console|shared).
func NewSessionFactory(pool *pgxpool.Pool, scope string) *SessionFactory {
	return &SessionFactory{pool: pool, scope: scope}
}

// Open — берёт соединение из пула.
func (f *SessionFactory) Open(ctx context.Context) (ports.Session, error) {
	conn, err := f.pool.Acquire(ctx)
	if err != nil {
		return nil, fmt.Errorf("acquire connection: %w", err)
	}
	metrics.DBSessionsOpened.WithLabelValues(f.scope).Inc()
	metrics.DBSessionsActive.Inc()
	return &Session{conn: conn}, nil
}

// Session — сессия поверх *pgxpool.Conn.
type Session struct {
	conn *pgxpool.Conn
	once sync.Once
}

func (s *Session) Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error) {
	return s.conn.Exec(ctx, sql, args...)
}

func (s *Session) Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error) {
	return s.conn.Query(ctx, sql, args...)
}

func (s *Session) QueryRow(ctx context.Context, sql string, args ...any) pgx.Row {
	return s.conn.QueryRow(ctx, sql, args...)
}

func (s *Session) Begin(ctx context.Context) (pgx.Tx, error) {
	return s.conn.Begin(ctx)
}

// Release — возвращает соединение в пул; повторный вызов — no-op.
func (s *Session) Release() {
	s.once.Do(func() {
		s.conn.Release()
		metrics.DBSessionsActive.Dec()
	})
}
