// Package main is the tasktracker command. It serves the HTTP API together
// with the reminder scheduler, and carries the operational subcommands used
// alongside it.
package main

import (
	"fmt"
	"os"
)

func main() {
	if err := newRootCommand().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
