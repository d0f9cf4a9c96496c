// main is the entry point for the repolens CLI.
package main

import (
	"github.com/repolens/repolens/cmd"
	"github.com/repolens/repolens/internal/contract"
)

func main() {
	if err := cmd.Execute(); err != nil {
		contract.LogFatal("Cannot run repolens", err)
	}
}
