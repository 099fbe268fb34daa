package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/realhidden/floppyexplorer/fsdetect"
)

var infoCmd = &cobra.Command{
	Use:                   "info IMAGE",
	Short:                 "Display container geometry and filesystem summary",
	Long:                  `Reads an EDSK/DSK image and prints its disk/track/sector geometry plus the detected filesystem kind.`,
	Args:                  cobra.ExactArgs(1),
	DisableFlagsInUseLine: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		filename := args[0]
		idx, err := loadImage(filename)
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(1)
		}

		fmt.Printf("Format:  %s\n", idx.Format)
		fmt.Printf("Creator: %s\n", idx.Creator)
		fmt.Printf("Tracks:  %d\n", idx.Tracks)
		fmt.Printf("Sides:   %d\n", idx.Sides)
		fmt.Println()

		for _, t := range idx.Index {
			if t.Missing {
				fmt.Printf("Track %02d, side %d: [missing]\n", t.Track, t.Side)
				continue
			}
			errCount := 0
			for _, s := range t.Sectors {
				if s.HasError() {
					errCount++
				}
			}
			str := fmt.Sprintf("Track %02d, side %d: %d sectors", t.Track, t.Side, len(t.Sectors))
			if errCount > 0 {
				str += fmt.Sprintf(" (%d with FDC errors)", errCount)
			}
			fmt.Println(str)
		}

		fmt.Println()
		desc := fsdetect.Detect(idx)
		switch desc.Kind {
		case fsdetect.FAT:
			fmt.Println("Filesystem: FAT12")
			fmt.Printf("  OEM:            %s\n", desc.FAT.OEM)
			fmt.Printf("  Bytes/sector:   %d\n", desc.FAT.BytesPerSector)
			fmt.Printf("  Sectors/clust.: %d\n", desc.FAT.SectorsPerCluster)
			fmt.Printf("  Volume label:   %s\n", desc.FAT.VolumeLabel)
		case fsdetect.CPC:
			fmt.Println("Filesystem: CPC (AMSDOS/CP-M identification sector present)")
		default:
			fmt.Println("Filesystem: Unknown")
		}

		return nil
	},
}

func init() {
	rootCmd.AddCommand(infoCmd)
}
