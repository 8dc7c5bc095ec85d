package main

import (
	"fmt"
	"os"

	"nightcap/internal/bootstrap"
	"nightcap/internal/cli"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

func run() error {
	services, err := bootstrap.Build()
	if err != nil {
		return fmt.Errorf("initializing backend: %w", err)
	}

	deps := &cli.Dependencies{Services: services}
	return cli.NewRootCmd(deps).Execute()
}
