package main

import (
	"os"

	"github.com/loam-labs/evmkit/internal/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}
