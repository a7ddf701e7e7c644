package main

import (
	"os"

	"boardbrief/cmd/handlers"
	"boardbrief/internal/logger"
)

func main() {
	logger.Init()
	if err := handlers.Execute(); err != nil {
		os.Exit(1)
	}
}
