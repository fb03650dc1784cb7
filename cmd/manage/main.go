package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/Gunvolt24/ginutils/internal/app"
	"github.com/Gunvolt24/ginutils/internal/commands"
	"github.com/Gunvolt24/ginutils/internal/site"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

func main() {
	_ = godotenv.Load(".env.local")

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, err)
		stop()
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var baseDir string

	root := &cobra.Command{
		Use:   "manage <command> [key=value ...]",
		Short: "Run an application command",
		Long: "Bootstraps the application in console mode and runs the named command.\n" +
			"Built-in commands: migrate, runserver, routes, createclient.",
		Args:          cobra.MinimumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			params, err := parseParams(args[1:])
			if err != nil {
				return err
			}
			if baseDir == "" {
				if baseDir, err = os.Getwd(); err != nil {
					return fmt.Errorf("getwd: %w", err)
				}
			}

			a, cleanup, err := app.Bootstrap(cmd.Context(), site.Options(baseDir, true))
			if err != nil {
				return err
			}
			defer cleanup()

			d := commands.NewDispatcher(site.Commands)
			d.Out = cmd.OutOrStdout()
			return d.Execute(cmd.Context(), a, args[0], params)
		},
	}
	root.Flags().StringVar(&baseDir, "base-dir", "", "application directory (default: working directory)")
	return root
}

// parseParams — аргументы вида key=value.
func parseParams(args []string) (map[string]string, error) {
	params := make(map[string]string, len(args))
	for _, arg := range args {
		k, v, ok := strings.Cut(arg, "=")
		if !ok || k == "" {
			return nil, fmt.Errorf("invalid argument %q, want key=value", arg)
		}
		params[k] = v
	}
	return params, nil
}
