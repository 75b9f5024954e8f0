package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"rateoracle-service/internal/cli"

	"github.com/joho/godotenv"
)

func init() { _ = godotenv.Load() }

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := cli.NewRootCommand().ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		stop()
		os.Exit(1)
	}
}
