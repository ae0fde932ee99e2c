package main

import (
	"context"
	"log"
	"os"

	"github.com/dmitrijs2005/accountauth/internal/client/cli"
	"github.com/dmitrijs2005/accountauth/internal/client/client"
	"github.com/dmitrijs2005/accountauth/internal/client/config"
	"github.com/dmitrijs2005/accountauth/internal/flagx"
)

func main() {

	ctx := context.Background()

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	c, err := client.New(cfg.ServerEndpointAddr)
	if err != nil {
		log.Fatalf("%v", err)
	}
	defer c.Close()

	app := cli.NewApp(c, cfg.RequestTimeout, os.Stdin, os.Stdout)

	args := flagx.StripArgs(os.Args[1:], []string{"-a", "-t", "-c", "-config"})
	if len(args) == 0 {
		app.Root(ctx)
		return
	}

	if err := app.Run(ctx, args); err != nil {
		c.Close()
		os.Exit(1)
	}

}
