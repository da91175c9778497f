package main

import (
	"github.com/joho/godotenv"

	"github.com/hnakamori/trafficpulse/internal/cmd"
)

func main() {
	// Optional .env for local development; absence is fine.
	_ = godotenv.Load()

	cmd.Execute()
}
