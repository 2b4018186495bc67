package cmd

import (
	"github.com/spf13/cobra"

	"stockops.GO/core/registry"
)

func commands() []*cobra.Command {
	v, ok := registry.GlobalRegistry.GetGlobal(registry.KeyRegistryCmd)
	if !ok || v == nil {
		return nil
	}
	return v.([]*cobra.Command)
}

// Register queues an operational command for the CLI. Call from init() in
// custom packages; panics once Apply has assembled the root command.
func Register(c *cobra.Command) {
	if registry.GlobalRegistry.IsLocked(registry.KeyRegistryCmd) {
		panic("cmd: commands already applied, register from init() only")
	}
	registry.GlobalRegistry.SetGlobal(registry.KeyRegistryCmd, append(commands(), c))
}

// Apply attaches every queued command to the root and locks the set.
func Apply() {
	for _, c := range commands() {
		rootCmd.AddCommand(c)
	}
	registry.GlobalRegistry.Lock(registry.KeyRegistryCmd)
}
