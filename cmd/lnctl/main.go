// Package main is the entry point for lnctl, the listing-notifier CLI client.
package main

import "github.com/donaldgifford/listing-notifier/cmd/lnctl/cmd"

func main() {
	cmd.Execute()
}
