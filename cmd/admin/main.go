package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/parceltrack/console/internal/client/cli"
	"github.com/parceltrack/console/internal/client/config"
)

func main() {

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg := config.LoadConfig("admin")
	app, err := cli.NewApp(ctx, cfg, cli.Admin())

	if err != nil {
		log.Fatalf("%v", err)
		return
	}

	app.Run(ctx)

	if err := app.Close(context.Background()); err != nil {
		log.Printf("%v", err)
	}

}
