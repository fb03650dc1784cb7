package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/Gunvolt24/ginutils/internal/app"
	"github.com/Gunvolt24/ginutils/internal/site"
	"github.com/joho/godotenv"
)

func main() {
	_ = godotenv.Load(".env.local")

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	baseDir, err := os.Getwd()
	if err != nil {
		fmt.Fprintf(os.Stderr, "getwd: %v\n", err)
		os.Exit(1)
	}

	a, cleanup, err := app.Bootstrap(ctx, site.Options(baseDir, false))
	if err != nil {
		fmt.Fprintf(os.Stderr, "bootstrap: %v\n", err)
		os.Exit(1)
	}

	runErr := a.Run(ctx)
	cleanup()
	if runErr != nil {
		fmt.Fprintf(os.Stderr, "server: %v\n", runErr)
		os.Exit(1)
	}
}
