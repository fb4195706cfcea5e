package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var version = "dev"

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "afctl",
	Short: "Attribute client for the hub service",
	Long: `afctl speaks the device side of the hub attribute protocol, for bench
work and debugging:

- Inspect a binary attribute profile
- Request attribute values and changes through the hub service
- Watch attribute notifications as they arrive

It connects over the same unix socket the device firmware would use.`,
	Version: version,
}

var configPath string

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "ERROR: %s\n", err)
		os.Exit(1)
	}
}

func init() {
	// Silence Cobra's "Error:" prefix - main() prints clean errors
	rootCmd.SilenceErrors = true

	rootCmd.AddCommand(inspectCmd)
	rootCmd.AddCommand(getCmd)
	rootCmd.AddCommand(setCmd)
	rootCmd.AddCommand(watchCmd)

	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "Path to afctl.toml; defaults to /etc/af/afctl.toml when present")
}
