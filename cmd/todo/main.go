package main

import (
	"fmt"
	"os"

	"todo/internal/cli"
	"todo/internal/config"
)

func main() {
	// Configuration, logging and the store are built by the root command once
	// flags are parsed.
	root := cli.NewRootCommand(config.NewLoader(), os.Stdout, os.Stderr)

	if err := root.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
