package main

import (
	"errors"
	"log"
	"os"

	"github.com/joho/godotenv"

	"hanzi/internal/cli"
)

func main() {
	log.SetFlags(0)

	// A missing .env file is normal
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		log.Printf("Warning: failed to load .env: %v", err)
	}

	if err := cli.NewRootCommand().Execute(); err != nil {
		// Cobra already printed the error
		os.Exit(1)
	}
}
