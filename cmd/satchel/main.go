// Package main provides the satchel CLI, a read-only viewer for
// directory-based note stores.
package main

import (
	"fmt"
	"os"
)

// Exit codes.
const (
	exitSuccess  = 0
	exitUserErr  = 1
	exitSysError = 2
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(exitUserErr)
	}
}
