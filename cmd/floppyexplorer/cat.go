package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var catCmd = &cobra.Command{
	Use:                   "cat IMAGE",
	Short:                 "Display the FAT12 directory listing",
	Long:                  `Reads the FAT12 filesystem inside an EDSK/DSK image and recursively lists every file and directory.`,
	Args:                  cobra.ExactArgs(1),
	DisableFlagsInUseLine: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		vol, _, err := openVolume(args[0])
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(1)
		}

		for _, e := range vol.ReadDir() {
			kind := "F"
			if e.IsDir {
				kind = "D"
			}
			fmt.Printf("%s %8d  %s %s  %s\n", kind, e.Size, e.Date, e.Time, e.Path)
		}

		return nil
	},
}

func init() {
	rootCmd.AddCommand(catCmd)
}
