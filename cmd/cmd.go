// Package cmd provides the reporter commands
package cmd

import (
	"github.com/relex/gotils/config"
)

func init() {
	config.AddParentCmdWithArgs("", "appveyor-reporter relays test run results to an AppVeyor-compatible build ingestion endpoint", &rootCmd, rootCmd.preRun, rootCmd.postRun)
	config.AddCmdWithArgs("run ...", "Relay a test event stream (JSON lines) to the ingestion endpoint", &runCmd, runCmd.run)
}

// Execute parses the command line and runs the specified command
func Execute() {
	// trigger init

	config.Execute()
}
