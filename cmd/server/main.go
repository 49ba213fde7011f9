package main

import (
	"context"
	"log"

	"github.com/taskflow-app/taskflow/internal/server"
	"github.com/taskflow-app/taskflow/internal/server/config"
)

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	ctx := context.Background()

	app, err := server.NewApp(ctx, cfg, nil)
	if err != nil {
		log.Fatalf("%v", err)
	}

	if err := app.Run(ctx); err != nil {
		log.Fatalf("%v", err)
	}
}
