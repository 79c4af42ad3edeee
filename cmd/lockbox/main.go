package main

import (
	"context"
	"os"
	"os/signal"

	"github.com/dimitrije/lockbox-api/internal/cli"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	code := cli.Execute(ctx, cli.NewApp(os.Stdin, os.Stdout), os.Args[1:])
	stop()
	os.Exit(code)
}
