// Package main provides the wasmload CLI: plan, inspect, and run
// progressive module loads from a YAML manifest.
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
