//go:build integration

package testutil

import (
	"context"
	"os"
	"path/filepath"
	"runtime"

	"github.com/Gunvolt24/ginutils/internal/migrate"
)

// ApplyMigrations применяет миграции из <repo_root>/migrations
// (<repo_root> вычисляем как два уровня вверх от этого файла).
func ApplyMigrations(ctx context.Context, dsn string) error {
	_, thisFile, _, _ := runtime.Caller(0)
	repoRoot := filepath.Clean(filepath.Join(filepath.Dir(thisFile), "..", ".."))
	return migrate.Run(ctx, dsn, filepath.Join(repoRoot, "migrations"), migrate.Up, os.Stdout)
}
