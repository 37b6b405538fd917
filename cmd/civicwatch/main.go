package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/dmitrijs2005/civicwatch/internal/buildinfo"
	"github.com/dmitrijs2005/civicwatch/internal/client/cli"
	"github.com/dmitrijs2005/civicwatch/internal/client/config"
	"github.com/dmitrijs2005/civicwatch/internal/logging"
)

func main() {

	buildinfo.PrintBuildData(os.Stdout)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("%v", err)
	}

	logger, err := logging.New(cfg.LogFormat, os.Stderr, cfg.Debug)
	if err != nil {
		log.Fatalf("%v", err)
	}
	defer func() { _ = logging.Sync(logger) }()

	app, err := cli.NewApp(ctx, cfg, logger)
	if err != nil {
		_ = logging.Sync(logger)
		log.Fatalf("%v", err)
	}

	app.Run(ctx)

}
