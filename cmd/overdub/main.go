package main

import (
	"os"

	"github.com/overdubhq/overdub/internal/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}
