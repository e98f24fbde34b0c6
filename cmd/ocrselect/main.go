package main

import (
	"fmt"
	"os"

	"ocrselect/internal/app"
	"ocrselect/internal/config"
	"ocrselect/internal/logging"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "ocrselect: %v\n", err)
		os.Exit(1)
	}
	log := logging.New("ocrselect", logging.ParseLevel(cfg.LogLevel))

	application := app.New(cfg, log)
	if len(os.Args) > 1 {
		if err := application.Open(os.Args[1]); err != nil {
			log.Error("Failed to open image", "path", os.Args[1], "error", err)
		}
	}
	if err := application.Run(); err != nil {
		fmt.Fprintf(os.Stderr, "ocrselect failed: %v\n", err)
		os.Exit(1)
	}
}
