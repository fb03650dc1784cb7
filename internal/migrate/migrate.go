// Пакет migrate — миграции схемы через goose поверх database/sql-драйвера pgx.
package migrate

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io"
	"log"
	"os"

	_ "github.com/jackc/pgx/v5/stdlib" // database/sql driver name = "pgx"
	"github.com/pressly/goose/v3"
)

// Direction — направление миграции.
type Direction string

const (
	Up     Direction = "up"
	Down   Direction = "down"
	Status Direction = "status"
)

// ErrUnknownDirection — направление не up/down/status.
var ErrUnknownDirection = errors.New("unknown migration direction")

// ParseDirection — пустая строка означает up.
func ParseDirection(s string) (Direction, error) {
	switch d := Direction(s); d {
	case "":
		return Up, nil
	case Up, Down, Status:
		return d, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownDirection, s)
	}
}

// Run — применяет миграции из dir к базе dsn; вывод goose пишется в out.
func Run(ctx context.Context, dsn, dir string, direction Direction, out io.Writer) error {
	if st, err := os.Stat(dir); err != nil || !st.IsDir() {
		return fmt.Errorf("migrations dir not found: %q", dir)
	}

	goose.SetLogger(log.New(out, "", 0))
	if err := goose.SetDialect("postgres"); err != nil {
		return fmt.Errorf("goose set dialect: %w", err)
	}

	db, err := sql.Open("pgx", dsn)
	if err != nil {
		return fmt.Errorf("open db: %w", err)
	}
	defer db.Close()

	switch direction {
	case Up:
		err = goose.UpContext(ctx, db, dir)
	case Down:
		err = goose.DownContext(ctx, db, dir)
	case Status:
		err = goose.StatusContext(ctx, db, dir)
	default:
		err = fmt.Errorf("%w: %q", ErrUnknownDirection, direction)
	}
	if err != nil {
		return fmt.Errorf("goose %s: %w", direction, err)
	}
	return nil
}
