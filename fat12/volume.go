package fat12

import (
	"github.com/pkg/errors"

	"github.com/realhidden/floppyexplorer/container"
	"github.com/realhidden/floppyexplorer/flatimage"
	"github.com/realhidden/floppyexplorer/fsdetect"
)

// Volume wires a decoded BPB, the 12-bit FAT table, and the flat disk image
// together, the same "driver struct holding boot sector + exposing
// operations" shape dargueta-disko's FAT driverbase uses.
type Volume struct {
	bpb   *fsdetect.BPB
	flat  []byte
	table []uint16 // decoded FAT12 entries, one per cluster index

	fatStart       int
	rootStart      int
	rootByteCount  int
	dataStart      int
	clusterBytes   int
	totalClusters  int
}

// NewVolume builds a Volume from a container image and its filesystem
// descriptor. It returns ErrNotFatFilesystem if desc isn't a FAT descriptor.
//
// If image has heterogeneous EDSK track geometry, flatimage.Build still
// produces a best-effort flattening, but NewVolume wraps and returns its
// flatimage.ErrHeterogeneousGeometry alongside a usable Volume built over
// that best-effort image, rather than guessing silently. Callers that need
// a hard guarantee should treat a non-nil error here as grounds to refuse
// the image instead of reading it.
func NewVolume(image *container.ImageIndex, desc fsdetect.Descriptor) (*Volume, error) {
	if desc.Kind != fsdetect.FAT {
		return nil, ErrNotFatFilesystem
	}
	bpb := desc.FAT

	flat, err := flatimage.Build(image)
	vol := NewVolumeFromFlat(flat, bpb)
	if err != nil {
		return vol, errors.Wrap(err, "fat12: building flat image")
	}

	return vol, nil
}

// NewVolumeFromFlat builds a Volume directly from an already-flattened LBA
// image and a decoded BPB, bypassing container parsing and geometry
// flattening. Exposed for callers that already hold a flat image (and for
// tests exercising the FAT12 engine in isolation from container/flatimage).
func NewVolumeFromFlat(flat []byte, bpb *fsdetect.BPB) *Volume {
	v := &Volume{bpb: bpb, flat: flat}
	v.fatStart = bpb.ReservedSectors * bpb.BytesPerSector
	v.rootStart = (bpb.ReservedSectors + bpb.FATCount*bpb.SectorsPerFAT) * bpb.BytesPerSector
	v.rootByteCount = bpb.RootEntries * 32
	rootSectors := (v.rootByteCount + bpb.BytesPerSector - 1) / bpb.BytesPerSector
	v.dataStart = (bpb.ReservedSectors + bpb.FATCount*bpb.SectorsPerFAT + rootSectors) * bpb.BytesPerSector
	v.clusterBytes = bpb.BytesPerSector * bpb.SectorsPerCluster
	if bpb.SectorsPerCluster > 0 {
		v.totalClusters = bpb.TotalSectors/bpb.SectorsPerCluster + 2
	}
	v.table = decodeFAT12(v.flat, v.fatStart, v.totalClusters)
	return v
}

// BPB returns the decoded boot parameter block this volume was built from.
func (v *Volume) BPB() *fsdetect.BPB { return v.bpb }

// ClusterBytes returns bytesPerSector*sectorsPerCluster.
func (v *Volume) ClusterBytes() int { return v.clusterBytes }

func (v *Volume) inRange(cluster int) bool {
	return cluster >= 2 && cluster < v.totalClusters
}

func (v *Volume) clusterOffset(cluster int) int {
	return v.dataStart + (cluster-2)*v.clusterBytes
}

// ReadFile reads a file's content given its first cluster and size, following
// the FAT chain. It returns ErrInvalidCluster if cluster is out of range.
func (v *Volume) ReadFile(cluster int, size uint32) ([]byte, error) {
	if !v.inRange(cluster) {
		return nil, ErrInvalidCluster
	}
	return v.ReadChain(cluster, int(size)), nil
}
