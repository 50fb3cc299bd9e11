// Package cli implements the agent's command line interface.
package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var rootCmd *cobra.Command

func init() {
	rootCmd = &cobra.Command{
		Use:   "location-agent",
		Short: "SwipeSavvy location tracking agent",
		Long: `The location tracking agent reports device position to the SwipeSavvy
merchant platform, queues updates while offline, and exposes a local control
API for starting and stopping tracking and editing preferences.`,
		RunE:          runServe, // default action is serve
		SilenceUsage:  true,
		SilenceErrors: true,
	}
}

// Execute runs the root command.
func Execute(version string) error {
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(queueCmd)
	rootCmd.AddCommand(prefsCmd)
	rootCmd.AddCommand(deviceCmd)

	rootCmd.Version = version
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		return err
	}
	return nil
}
