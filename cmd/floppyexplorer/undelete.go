package cmd

import (
	"fmt"
	"os"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"
)

var recoverOutDir string

var undeleteCmd = &cobra.Command{
	Use:                   "undelete IMAGE",
	Short:                 "List deleted FAT12 directory entries and judge their recoverability",
	Long: `Scans the FAT12 directory tree for tombstoned (0xE5) entries and reports,
for each, whether its clusters are still free and thus recoverable. Pass
--recover to also write out the best-effort recovered bytes for every
recoverable entry.`,
	Args:                  cobra.ExactArgs(1),
	DisableFlagsInUseLine: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		vol, _, err := openVolume(args[0])
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(1)
		}

		deleted := vol.ListDeleted()
		for _, e := range deleted {
			status := "recoverable"
			if !e.Recoverable {
				status = "NOT recoverable"
			}
			fmt.Printf("%-24s %8d  %s (%s)\n", e.Path, e.Size, status, e.Reason)

			if e.Recoverable && recoverOutDir != "" {
				data := vol.Recover(e.Cluster, e.Size)
				outPath := recoverOutDir + string(os.PathSeparator) + e.ShortName
				if err := os.WriteFile(outPath, data, 0o644); err != nil {
					fmt.Fprintln(os.Stderr, errors.Wrap(err, "writing recovered file"))
					continue
				}
				fmt.Printf("  -> recovered to %s\n", outPath)
			}
		}

		return nil
	},
}

func init() {
	undeleteCmd.Flags().StringVar(&recoverOutDir, "recover", "", "directory to write recovered files into")
	rootCmd.AddCommand(undeleteCmd)
}
