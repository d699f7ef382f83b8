package main

import (
	"github.com/joho/godotenv"
)

func main() {
	// Optional .env for metrics credentials (DD_API_KEY etc.); absence
	// is not an error.
	_ = godotenv.Load()

	Execute()
}
