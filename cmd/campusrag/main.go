// Command campusrag indexes college documents and retrieves context for questions.
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"github.com/custodia-labs/campusrag/internal/adapters/driving/cli"
)

// version is set via ldflags at build time
var version = "dev"

func main() {
	os.Exit(run())
}

func run() int {
	// A missing .env is normal.
	_ = godotenv.Load()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cli.SetBootstrap(bootstrap)
	if err := cli.Execute(ctx, version); err != nil {
		return 1
	}
	return 0
}
