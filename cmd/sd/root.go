package main

import (
	"fmt"
	"os"
	"runtime/debug"

	"github.com/spf13/cobra"

	"github.com/nikbrunner/speeddial/internal/config"
)

// NewRootCmd creates the root command.
func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "sd",
		Short: "Speed dial of website thumbnails",
		Long: `sd keeps a speed dial: named groups of websites, each shown as a thumbnail.

Thumbnails are site icons by default. With useThumbnails enabled, pages are
rendered in a headless browser and captured instead.

Data Storage:
  $XDG_DATA_HOME/speeddial/speeddial.db (see storage in the config file)`,
		Version:       getVersion(),
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	// Global flags that apply to all commands
	cmd.PersistentFlags().StringP("config", "c", config.DefaultConfigPath(), "Path to the configuration file")
	cmd.PersistentFlags().BoolP("verbose", "v", false, "Enable verbose logging")

	cmd.AddCommand(NewServeCmd())
	cmd.AddCommand(NewGroupCmd())
	cmd.AddCommand(NewSiteCmd())
	cmd.AddCommand(NewSettingsCmd())
	cmd.AddCommand(NewCaptureCmd())
	cmd.AddCommand(NewImportCmd())
	cmd.AddCommand(NewExportCmd())
	cmd.AddCommand(NewFindCmd())
	cmd.AddCommand(NewCheckCmd())
	cmd.AddCommand(NewInitCmd())

	return cmd
}

// Execute runs the root command.
func Execute() {
	if err := NewRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

func getVersion() string {
	if info, ok := debug.ReadBuildInfo(); ok && info.Main.Version != "" {
		return info.Main.Version
	}
	return "devel"
}
