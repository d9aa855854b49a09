package main

import (
	"fmt"
	"os"

	"github.com/cinegrupo/cinema-ticketing-system/internal/app"
	"github.com/joho/godotenv"
)

func main() {
	// Missing .env is fine, configuration falls back to flags and the
	// process environment.
	godotenv.Load()

	if err := app.Run(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
