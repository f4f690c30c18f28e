// Package main is the entry point for openseat.
package main

import (
	"os"

	"github.com/MaxSteins36/OpenSeat/cmd/openseat/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
