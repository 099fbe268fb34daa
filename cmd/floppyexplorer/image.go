package cmd

import (
	"fmt"
	"os"

	"github.com/pkg/errors"

	"github.com/realhidden/floppyexplorer/container"
	"github.com/realhidden/floppyexplorer/fat12"
	"github.com/realhidden/floppyexplorer/flatimage"
	"github.com/realhidden/floppyexplorer/fsdetect"
)

// loadImage reads and parses a container image file, matching retroio's
// open-file-then-build-reader-then-Read pattern (amstrad_cat.go,
// amstrad_read.go) adapted to this module's byte-slice-based parser.
func loadImage(path string) (*container.ImageIndex, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(err, "reading image file")
	}
	idx, err := container.Parse(data)
	if err != nil {
		return nil, errors.Wrap(err, "parsing container image")
	}
	return idx, nil
}

// openVolume parses path and, if it's a FAT filesystem, builds a fat12.Volume
// over it. Returns fat12.ErrNotFatFilesystem for any other detected kind.
//
// A heterogeneous-geometry condition from fat12.NewVolume is non-fatal: the
// Volume it returns alongside that error is still usable (built over
// flatimage's best-effort flattening), so openVolume warns to stderr and
// keeps going rather than refusing the whole image.
func openVolume(path string) (*fat12.Volume, fsdetect.Descriptor, error) {
	idx, err := loadImage(path)
	if err != nil {
		return nil, fsdetect.Descriptor{}, err
	}
	desc := fsdetect.Detect(idx)
	vol, err := fat12.NewVolume(idx, desc)
	if err != nil {
		if errors.Is(err, flatimage.ErrHeterogeneousGeometry) {
			fmt.Fprintln(os.Stderr, "warning:", err)
			return vol, desc, nil
		}
		return nil, desc, err
	}
	return vol, desc, nil
}
