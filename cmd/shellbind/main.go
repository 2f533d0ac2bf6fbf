package main

import (
	"fmt"
	"log"
	"os"

	"github.com/TanaroSch/shellbind/internal/app"
	"github.com/TanaroSch/shellbind/internal/config"
)

const version = "v1.0.0"

func main() {
	log.Printf("shellbind %s starting...", version)

	// Load configuration
	cfg, err := config.Load("config.json")
	if err != nil {
		log.Fatalf("Error loading config: %v", err)
	}

	// Create and run the application
	application, err := app.New(cfg, version)
	if err != nil {
		log.Fatalf("Error initializing application: %v", err)
	}

	// Handle any panics during execution
	defer func() {
		if r := recover(); r != nil {
			fmt.Fprintf(os.Stderr, "Fatal error: %v\n", r)
			os.Exit(1)
		}
	}()

	// Run the application
	application.Run()
}
