// Package flatimage projects a container.ImageIndex's physical CHS sector
// layout into the contiguous logical byte stream that FAT12 (or any other
// LBA-addressed filesystem) expects.
package flatimage

import (
	"github.com/pkg/errors"

	"github.com/realhidden/floppyexplorer/container"
)

// ErrHeterogeneousGeometry is returned (alongside the best-effort image
// built from the first track's geometry) when later tracks disagree on
// sector count or sector size. The flat imager only faithfully represents
// homogeneous disks (spec §9 design note); callers that need a guarantee
// should check for this error before trusting the result for filesystem use.
var ErrHeterogeneousGeometry = errors.New("flatimage: tracks have non-uniform sector count or size")

// Build materializes the LBA-ordered byte stream for image. It returns the
// best-effort flattened bytes even when geometry is heterogeneous; in that
// case err wraps ErrHeterogeneousGeometry so the caller can decide whether to
// trust downstream filesystem parsing.
func Build(image *container.ImageIndex) ([]byte, error) {
	sectorBytes, sectorsPerTrack, ok := baseGeometry(image)
	if !ok {
		return nil, nil
	}

	var out []byte
	var geometryErr error

	for _, te := range image.Index {
		if te.Missing {
			out = append(out, make([]byte, sectorsPerTrack*sectorBytes)...)
			continue
		}

		if geometryErr == nil && (len(te.Sectors) != sectorsPerTrack || (len(te.Sectors) > 0 && te.Sectors[0].Size != sectorBytes)) {
			geometryErr = errors.Wrapf(ErrHeterogeneousGeometry, "track %d side %d has %d sectors", te.Track, te.Side, len(te.Sectors))
		}

		sorted := container.SortedByR(te.Sectors)
		for _, sec := range sorted {
			if sec.DataOffset < 0 {
				out = append(out, make([]byte, sec.Size)...)
				continue
			}
			out = append(out, image.Buffer()[sec.DataOffset:sec.DataOffset+sec.Size]...)
		}
	}

	return out, geometryErr
}

// baseGeometry finds the first non-missing track with at least one sector
// and returns its sector size and sector count, the geometry assumed for
// every other track.
func baseGeometry(image *container.ImageIndex) (sectorBytes, sectorsPerTrack int, ok bool) {
	for _, te := range image.Index {
		if te.Missing || len(te.Sectors) == 0 {
			continue
		}
		return te.Sectors[0].Size, len(te.Sectors), true
	}
	return 0, 0, false
}

// ExpectedLength returns tracks*sides*sectorsPerTrack*sectorBytes for a
// homogeneous image, the invariant Build's output length should satisfy.
func ExpectedLength(image *container.ImageIndex) int {
	sectorBytes, sectorsPerTrack, ok := baseGeometry(image)
	if !ok {
		return 0
	}
	return image.Tracks * image.Sides * sectorsPerTrack * sectorBytes
}
