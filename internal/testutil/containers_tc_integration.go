//go:build integration

package testutil

import (
	"context"
	"fmt"
	"log"
	"os"
	"testing"
	"time"

	"github.com/Gunvolt24/ginutils/internal/repo/postgres"
	"github.com/jackc/pgx/v5/pgxpool"
	tc "github.com/testcontainers/testcontainers-go"
	pgmodule "github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
)

const (
	pgImage        = "postgres:16-alpine"
	pgDatabase     = "ginutils"
	pgUser         = "app"
	pgPassword     = "app"
	pgReadyTimeout = 60 * time.Second
	pgPoolMaxConns = 5
)

var tcLogger = log.New(os.Stdout, "[tc] ", log.LstdFlags)

// lifecycleLog — одна строка на этап жизни контейнера.
func lifecycleLog(l *log.Logger) tc.ContainerLifecycleHooks {
	stage := func(name string) tc.ContainerHook {
		return func(_ context.Context, c tc.Container) error {
			id := c.GetContainerID()
			if len(id) > 12 {
				id = id[:12]
			}
			l.Printf("%s id=%s", name, id)
			return nil
		}
	}
	return tc.ContainerLifecycleHooks{
		PostStarts:    []tc.ContainerHook{stage("started")},
		PostReadies:   []tc.ContainerHook{stage("ready")},
		PreTerminates:  []tc.ContainerHook{stage("terminating")},
	}
}

// PGContainer — Postgres в контейнере, DSN и пул приложения к нему.
type PGContainer struct {
	Container *pgmodule.PostgresContainer
	Pool      *pgxpool.Pool
	DSN       string
}

// Terminate — закрывает пул и останавливает контейнер.
func (p *PGContainer) Terminate(ctx context.Context) error {
	if p.Pool != nil {
		p.Pool.Close()
	}
	return p.Container.Terminate(ctx)
}

// StartPostgresTC — Postgres в контейнере и пул к нему (тот же NewPool, что у приложения);
// stop закрывает пул и контейнер.
func StartPostgresTC(ctx context.Context) (*PGContainer, func(context.Context) error, error) {
	ctr, err := pgmodule.Run(ctx, pgImage,
		tc.WithLifecycleHooks(lifecycleLog(tcLogger)),
		pgmodule.WithDatabase(pgDatabase),
		pgmodule.WithUsername(pgUser),
		pgmodule.WithPassword(pgPassword),
		tc.WithWaitStrategy(wait.ForAll(
			wait.ForListeningPort("5432/tcp"),
			wait.ForLog("database system is ready to accept connections").WithOccurrence(2),
		).WithDeadline(pgReadyTimeout)),
	)
	if err != nil {
		return nil, nil, fmt.Errorf("run postgres: %w", err)
	}

	pg := &PGContainer{Container: ctr}
	fail := func(err error) (*PGContainer, func(context.Context) error, error) {
		_ = pg.Terminate(context.Background())
		return nil, nil, err
	}

	if pg.DSN, err = ctr.ConnectionString(ctx, "sslmode=disable"); err != nil {
		return fail(fmt.Errorf("conn string: %w", err))
	}
	if pg.Pool, err = postgres.NewPool(ctx, pg.DSN, pgPoolMaxConns); err != nil {
		return fail(err)
	}
	return pg, pg.Terminate, nil
}

// MigratedPostgres — контейнер с применёнными миграциями; останавливается в t.Cleanup.
func MigratedPostgres(t *testing.T) *PGContainer {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	pg, stop, err := StartPostgresTC(ctx)
	if err != nil {
		t.Fatalf("start postgres: %v", err)
	}
	t.Cleanup(func() { _ = stop(context.Background()) })

	if err := ApplyMigrations(ctx, pg.DSN); err != nil {
		t.Fatalf("apply migrations: %v", err)
	}
	return pg
}
