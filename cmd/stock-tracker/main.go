// Package main is the entry point for the stock-tracker daemon.
package main

import (
	"os"

	"github.com/donaldgifford/stock-tracker/cmd/stock-tracker/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
