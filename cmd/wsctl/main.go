// Package main is the entry point for the wsctl binary, the workspace
// automation CLI for the experiment registry.
package main

import (
	"fmt"
	"os"

	"workspace-registry-service/internal/cli"
)

func main() {
	if err := cli.NewRootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
