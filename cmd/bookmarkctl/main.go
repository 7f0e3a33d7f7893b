package main

import (
	"os"

	"github.com/joho/godotenv"
)

func main() {
	_ = godotenv.Load()

	if err := execute(&RootCmd); err != nil {
		os.Exit(1)
	}
}
