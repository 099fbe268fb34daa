// Package fsdetect classifies the filesystem, if any, laid over a disk
// image's track 0 side 0 boot sector.
package fsdetect

import (
	"encoding/binary"
	"fmt"
	"strings"

	"github.com/realhidden/floppyexplorer/container"
)

// Kind discriminates the variants of Descriptor. Go has no tagged unions, so
// this repo follows the pattern dargueta-disko uses for its boot-sector
// wrapper structs: one discriminant field plus nil-able payload pointers.
type Kind int

const (
	// Unknown means neither a FAT BPB nor a CPC identification sector was found.
	Unknown Kind = iota
	// FAT means a DOS-style BIOS Parameter Block was decoded.
	FAT
	// CPC means the disk carries CPC/CP-M sector IDs but is not parsed further.
	CPC
)

func (k Kind) String() string {
	switch k {
	case FAT:
		return "FAT"
	case CPC:
		return "CPC"
	default:
		return "Unknown"
	}
}

// BPB is the decoded BIOS Parameter Block for a FAT-classified image.
type BPB struct {
	OEM               string
	BytesPerSector    int
	SectorsPerCluster int
	ReservedSectors   int
	FATCount          int
	RootEntries       int
	TotalSectors      int
	MediaDescriptor   uint8
	SectorsPerFAT     int
	SectorsPerTrack   int
	Heads             int
	VolumeLabel       string
	FSType            string
}

// CPCInfo is the identification-only payload for a CPC/CP-M image.
type CPCInfo struct {
	Note string
}

// Descriptor is the tagged-variant result of filesystem detection.
type Descriptor struct {
	Kind Kind
	FAT  *BPB
	CPC  *CPCInfo
}

func (d Descriptor) String() string {
	switch d.Kind {
	case FAT:
		b := d.FAT
		return fmt.Sprintf("FAT volume %q (oem=%q, %d bytes/sector, %d sectors/cluster, %d FAT copies)",
			b.VolumeLabel, b.OEM, b.BytesPerSector, b.SectorsPerCluster, b.FATCount)
	case CPC:
		return "CPC/CP-M disk (" + d.CPC.Note + ")"
	default:
		return "unknown filesystem"
	}
}

// Detect reads up to 512 bytes at track 0 side 0's first sector and
// classifies the filesystem. It returns Unknown (never an error) when the
// boot sector can't be located at all, consistent with the core's
// best-effort degrade policy.
func Detect(image *container.ImageIndex) Descriptor {
	data := container.ReadSectorData(image, 0, 0, firstSectorID(image))
	if data == nil {
		return Descriptor{Kind: Unknown}
	}
	if len(data) > 512 {
		data = data[:512]
	}

	if len(data) > 0 && (data[0] == 0xEB || data[0] == 0xE9) && len(data) >= 62 {
		return Descriptor{Kind: FAT, FAT: decodeBPB(data)}
	}

	if hasCPCIdentificationSector(image) {
		return Descriptor{Kind: CPC, CPC: &CPCInfo{Note: "identification only, not parsed further"}}
	}

	return Descriptor{Kind: Unknown}
}

// firstSectorID returns the R of the sector declared at index 0 on track 0
// side 0 (the boot sector, per spec §4.3), falling back to 0xC1 (the common
// CPC convention) when no track/sector is present to query.
func firstSectorID(image *container.ImageIndex) uint8 {
	for _, te := range image.Index {
		if te.Missing || te.Track != 0 || te.Side != 0 || len(te.Sectors) == 0 {
			continue
		}
		return te.Sectors[0].R
	}
	return 0xC1
}

func hasCPCIdentificationSector(image *container.ImageIndex) bool {
	for _, te := range image.Index {
		if te.Missing || te.Track != 0 || te.Side != 0 {
			continue
		}
		for _, s := range te.Sectors {
			if s.R >= 0xC1 && s.R <= 0xC9 {
				return true
			}
		}
	}
	return false
}

func decodeBPB(data []byte) *BPB {
	total := int(binary.LittleEndian.Uint16(data[19:21]))
	if total == 0 {
		total = int(binary.LittleEndian.Uint32(data[32:36]))
	}

	return &BPB{
		OEM:               trimASCII(data[3:11]),
		BytesPerSector:    int(binary.LittleEndian.Uint16(data[11:13])),
		SectorsPerCluster: int(data[13]),
		ReservedSectors:   int(binary.LittleEndian.Uint16(data[14:16])),
		FATCount:          int(data[16]),
		RootEntries:       int(binary.LittleEndian.Uint16(data[17:19])),
		TotalSectors:      total,
		MediaDescriptor:   data[21],
		SectorsPerFAT:     int(binary.LittleEndian.Uint16(data[22:24])),
		SectorsPerTrack:   int(binary.LittleEndian.Uint16(data[24:26])),
		Heads:             int(binary.LittleEndian.Uint16(data[26:28])),
		VolumeLabel:       trimASCII(data[43:54]),
		FSType:            trimASCII(data[54:62]),
	}
}

func trimASCII(b []byte) string {
	return strings.TrimRight(strings.TrimRight(string(b), "\x00"), " ")
}
