package main

import (
	"os"

	"github.com/vytor/recall/internal/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}
