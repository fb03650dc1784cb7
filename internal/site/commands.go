package site

import (
	"context"
	"fmt"

	"github.com/Gunvolt24/ginutils/config"
	"github.com/Gunvolt24/ginutils/internal/commands"
)

// Commands — команды приложения для cmd/manage.
func Commands() (commands.Registry, error) {
	return commands.Registry{}.
		Add(commands.Command{Name: "dbcheck", Short: "check the database connection", Run: dbCheck}), nil
}

func dbCheck(ctx context.Context, args commands.Args) error {
	a := args.App
	if a.Sessions == nil || a.Sessions.Session() == nil {
		return &config.ConfigurationError{Msg: "POSTGRESQL_DATABASE_URI is not defined"}
	}

	var version string
	if err := a.Sessions.Session().QueryRow(ctx, "SELECT version()").Scan(&version); err != nil {
		return fmt.Errorf("select version: %w", err)
	}
	fmt.Fprintln(args.Out, version)
	return nil
}
