package main

import (
	"os"

	"github.com/itsprade/good-morning/internal/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}
