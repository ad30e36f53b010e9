package main

import (
	"github.com/joho/godotenv"

	"github.com/contextiq-labs/contextiq/internal/adapters/driving/cli"
)

func main() {
	// Provider API keys may live in a local .env during development.
	_ = godotenv.Load()

	cli.Execute()
}
