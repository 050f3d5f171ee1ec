// Package main is the entry point for the listing-notifier.
package main

import (
	"os"

	"github.com/donaldgifford/listing-notifier/cmd/listing-notifier/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
