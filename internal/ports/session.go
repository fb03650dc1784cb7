package ports

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// Session — сессия БД, привязанная к запросу или к процессу.
type Session interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Begin(ctx context.Context) (pgx.Tx, error)

	// Release — вернуть сессию (соединение) обратно в пул.
	Release()
}

// SessionFactory — открывает новые сессии.
type SessionFactory interface {
	Open(ctx context.Context) (Session, error)
}
