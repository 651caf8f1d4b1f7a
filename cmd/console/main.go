package main

import (
	"context"
	"log"

	"github.com/joho/godotenv"

	"user-console/cmd/console/app"
	"user-console/cmd/console/server"
)

func main() {
	loadLocalEnv()

	a, err := app.New()
	if err != nil {
		log.Fatalf("failed to start console: %v", err)
	}

	ctx, stop := server.WithSignal(context.Background(), a.Logger)
	defer stop()

	if err := a.Run(ctx); err != nil {
		log.Fatalf("application exited with error: %v", err)
	}
}

func loadLocalEnv() {
	if err := godotenv.Load(); err != nil {
		log.Println("no .env file found; relying on existing environment")
	}
}
