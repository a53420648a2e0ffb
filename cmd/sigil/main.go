// Command sigil places and composites signatures into PDF documents.
package main

import (
	"os"

	"github.com/joho/godotenv"
)

func main() {
	// Optional .env for SIGIL_PASSPHRASE and friends
	_ = godotenv.Load()

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
