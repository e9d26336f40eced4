package main

import (
	"context"
	"log"
	"os"

	"github.com/smartbookcity/storefront/internal/buildinfo"
	"github.com/smartbookcity/storefront/internal/client/cli"
	"github.com/smartbookcity/storefront/internal/client/config"
	"github.com/smartbookcity/storefront/internal/logging"
)

func main() {

	buildinfo.PrintBuildData(os.Stdout)

	ctx := context.Background()
	cfg := config.LoadConfig()
	app, err := cli.NewApp(ctx, cfg, logging.NewDefault())

	if err != nil {
		log.Fatalf("%v", err)
		return
	}

	app.Run(ctx)

}
