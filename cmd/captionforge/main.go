package main

import (
	"os"

	"github.com/captionforge/captionforge/internal/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}
