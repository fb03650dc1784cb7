package commands

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"
	"text/tabwriter"

	"github.com/Gunvolt24/ginutils/config"
	"github.com/Gunvolt24/ginutils/internal/migrate"
	"github.com/Gunvolt24/ginutils/internal/oauth"
)

// Builtins — команды, доступные любому приложению.
func Builtins() Registry {
	return Registry{}.
		Add(Command{Name: "migrate", Short: "apply database migrations (direction=up|down|status)", Run: runMigrate}).
		Add(Command{Name: "runserver", Short: "serve HTTP (addr=host:port)", Run: runServer, ServesHTTP: true}).
		Add(Command{Name: "routes", Short: "print the route table", Run: printRoutes}).
		Add(Command{Name: "createclient", Short: "register an OAuth2 client (name=..., scopes=a,b)", Run: createClient})
}

func runMigrate(ctx context.Context, args Args) error {
	s := args.App.Settings
	if !s.HasDatabase() {
		return &config.ConfigurationError{Msg: "POSTGRESQL_DATABASE_URI is not defined"}
	}
	direction, err := migrate.ParseDirection(args.Param("direction", ""))
	if err != nil {
		return err
	}

	dir := s.MigrationsDir
	if s.BaseDir != "" && !filepath.IsAbs(dir) {
		dir = filepath.Join(s.BaseDir, dir)
	}
	return migrate.Run(ctx, s.PostgresURI, dir, direction, args.Out)
}

func runServer(ctx context.Context, args Args) error {
	a := args.App
	if err := a.InstallRoutes(); err != nil {
		return err
	}
	if addr := args.Param("addr", ""); addr != "" {
		a.HTTPServer.Addr = addr
	}
	return a.Run(ctx)
}

func printRoutes(_ context.Context, args Args) error {
	a := args.App
	if err := a.InstallRoutes(); err != nil {
		return err
	}

	w := tabwriter.NewWriter(args.Out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "NAME\tPATTERN")
	for _, e := range a.Routes.Entries() {
		fmt.Fprintf(w, "%s\t%s\n", e.Name, e.Pattern)
	}
	return w.Flush()
}

func createClient(ctx context.Context, args Args) error {
	// Клиент из памяти пропадёт вместе с процессом команды.
	if !args.App.DurableClients() {
		return &config.ConfigurationError{Msg: "POSTGRESQL_DATABASE_URI is not defined"}
	}
	store := args.App.OAuth.Clients()

	name := args.Param("name", "client")
	scopes := strings.FieldsFunc(args.Param("scopes", ""), func(r rune) bool {
		return r == ',' || r == ' '
	})

	client, secret, err := oauth.RegisterClient(ctx, store, name, scopes)
	if err != nil {
		return err
	}
	fmt.Fprintf(args.Out, "client_id=%s\nclient_secret=%s\n", client.ID, secret)
	return nil
}
