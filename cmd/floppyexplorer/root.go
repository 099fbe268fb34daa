// Package cmd wires the floppyexplorer CLI: a cobra root command plus
// subcommands for inspecting, cataloguing, extracting, undeleting, and
// acquiring floppy disk images, matching retroio's own
// root-command-plus-subcommand-files layout.
package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/realhidden/floppyexplorer/internal/applog"
)

var verbose bool

var rootCmd = &cobra.Command{
	Use:   "floppyexplorer",
	Short: "Inspect, catalog, and recover files from EDSK/DSK floppy disk images",
	Long: `floppyexplorer parses Amstrad-style EDSK/DSK disk container images,
flattens their CHS sector layout into a contiguous byte stream, and reads the
FAT12 filesystem within it: directory listings, file extraction, and
recovery of deleted files. It can also drive a Greaseweazle-style 'gw'
acquisition tool to capture a physical floppy into an image file.`,
	SilenceUsage: true,
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")
}

// Execute runs the root command, exiting the process with status 1 on
// failure.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func logger() *applog.Logger {
	level := applog.InfoLevel
	if verbose {
		level = applog.DebugLevel
	}
	l := applog.Default()
	l.SetLevel(level)
	return l
}
