package cmd

import (
	"fmt"
	"os"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/realhidden/floppyexplorer/fat12"
)

var extractCmd = &cobra.Command{
	Use:                   "extract IMAGE PATH OUT",
	Short:                 "Extract a file from the FAT12 filesystem to a local path",
	Long:                  `Reads IMAGE, locates PATH within its FAT12 directory tree (as printed by 'cat'), and writes its content to OUT.`,
	Args:                  cobra.ExactArgs(3),
	DisableFlagsInUseLine: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		image, path, out := args[0], args[1], args[2]

		vol, _, err := openVolume(image)
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(1)
		}

		entry, ok := findEntry(vol.ReadDir(), path)
		if !ok {
			fmt.Fprintf(os.Stderr, "no such file: %s\n", path)
			os.Exit(1)
		}
		if entry.IsDir {
			fmt.Fprintf(os.Stderr, "%s is a directory\n", path)
			os.Exit(1)
		}

		data, err := vol.ReadFile(entry.Cluster, entry.Size)
		if err != nil {
			fmt.Fprintln(os.Stderr, errors.Wrap(err, "reading file"))
			os.Exit(1)
		}

		if err := os.WriteFile(out, data, 0o644); err != nil {
			fmt.Fprintln(os.Stderr, errors.Wrap(err, "writing output"))
			os.Exit(1)
		}

		fmt.Printf("wrote %d bytes to %s\n", len(data), out)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(extractCmd)
}

func findEntry(entries []fat12.DirEntry, path string) (fat12.DirEntry, bool) {
	for _, e := range entries {
		if e.Path == path {
			return e, true
		}
	}
	return fat12.DirEntry{}, false
}
