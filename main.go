// Command datachest encrypts a file into a single-file container and restores it.
package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"

	"github.com/slaner/DataChest/internal/chest"
	"github.com/slaner/DataChest/internal/commands"
	"github.com/slaner/DataChest/internal/config"
)

// Global variable for CI stamping.
var version = "unknown - unofficial & generated by unknown"

func main() {
	// A .env file is optional.
	_ = godotenv.Load()

	var cfg config.Config

	root := commands.NewRootCommand(&cfg, version)

	if err := root.Execute(); err != nil {
		code := chest.CodeOf(err)

		if code == chest.CleanupFailed {
			fmt.Fprintf(os.Stderr, "Warning: %v\n", err)
		} else {
			fmt.Fprintf(os.Stderr, "Error: %v (%s)\n", err, code)
		}

		os.Exit(int(code))
	}
}
