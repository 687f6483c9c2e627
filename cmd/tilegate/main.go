// Package main is the entry point for tilegate, the celestial-body
// WMTS tile proxy.
package main

import "github.com/joho/godotenv"

var (
	version   = "dev"
	commit    = "none"
	buildDate = "unknown"
)

func main() {
	// Optional .env for local development; real deployments set
	// TILEGATE_* in the environment.
	_ = godotenv.Load()

	Execute()
}
