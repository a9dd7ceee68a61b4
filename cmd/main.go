package main

import (
	"log"
	"os"

	"github.com/joho/godotenv"

	"github.com/modybick/pos/internal/cli"
)

func main() {
	// .env is optional; flags and real env vars win.
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		log.Printf("could not load .env: %v", err)
	}

	if err := cli.NewRootCommand().Execute(); err != nil {
		os.Exit(1)
	}
}
