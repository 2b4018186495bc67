//go:build cli
// +build cli

// Built with -tags cli: swaps the HTTP server entry point for the cobra CLI
// (migrations, sales imports, forecast runs, cron).
package main

import (
	_ "stockops.GO/cron/jobs"
	_ "stockops.GO/custom"

	"stockops.GO/cmd"
	"stockops.GO/config"
)

func main() {
	config.LoadEnv()
	cmd.Execute()
}
