package cmd

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/realhidden/floppyexplorer/acquisition"
)

var (
	acquireTracks int
	acquireRevs   int
	acquireFormat string
)

var acquireCmd = &cobra.Command{
	Use:                   "acquire OUT",
	Short:                 "Capture a physical floppy into an image file via the gw tool",
	Long:                  `Drives the external Greaseweazle-style 'gw' acquisition tool, streaming its progress to the terminal, and writes the captured image to OUT.`,
	Args:                  cobra.ExactArgs(1),
	DisableFlagsInUseLine: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		out := args[0]
		log := logger()
		coord := acquisition.New("", log)

		if coord.IsBusy() {
			fmt.Fprintln(os.Stderr, "device busy")
			os.Exit(1)
		}

		last, err := coord.Read(context.Background(), out, acquisition.ReadOptions{
			Format: acquireFormat,
			Tracks: acquireTracks,
			Revs:   acquireRevs,
			OnProgress: func(line string) {
				fmt.Println(line)
			},
		})
		if err != nil {
			kind, _ := acquisition.KindOf(err)
			fmt.Fprintf(os.Stderr, "acquisition failed (%s): %v\n", kind, err)
			os.Exit(1)
		}

		fmt.Printf("done: %s\n", last)
		return nil
	},
}

func init() {
	acquireCmd.Flags().IntVar(&acquireTracks, "tracks", 0, "number of tracks to read (0: tool default)")
	acquireCmd.Flags().IntVar(&acquireRevs, "revs", 3, "revolutions per track")
	acquireCmd.Flags().StringVar(&acquireFormat, "format", "", "disk format hint passed to gw")
	rootCmd.AddCommand(acquireCmd)
}
