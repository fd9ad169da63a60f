// Package main is the datanest command.
//
// MAIN PACKAGE IN GO:
// Every Go program starts in main() of package main. This one stays minimal:
// it hands control to the cobra command tree in root.go, and all real work
// lives in internal/ (server, mcptools, config, ...).
//
// WHY cmd/datanest/?
// cmd/ holds executable entry points; each binary gets its own directory.
package main

import (
	"fmt"
	"os"
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
