package main

import (
	"context"
	"log"
	"os"

	"github.com/sabry-awad97/snippet-vault/internal/vault"
	"github.com/sabry-awad97/snippet-vault/internal/vault/config"
)

func main() {
	ctx := context.Background()

	cfg, err := config.LoadConfig(os.Args[1:], ".env")
	if err != nil {
		log.Fatalf("%v", err)
	}

	app, err := vault.NewApp(cfg, os.Stdin, os.Stdout, os.Stderr)
	if err != nil {
		log.Fatalf("%v", err)
	}

	if err := app.Run(ctx); err != nil {
		os.Exit(1)
	}
}
