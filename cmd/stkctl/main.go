// Package main is the entry point for the stkctl CLI client.
package main

import (
	"github.com/donaldgifford/stock-tracker/cmd/stkctl/cmd"
)

func main() {
	cmd.Execute()
}
