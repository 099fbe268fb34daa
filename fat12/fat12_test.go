package fat12_test

import (
	"encoding/binary"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/realhidden/floppyexplorer/fat12"
	"github.com/realhidden/floppyexplorer/fsdetect"
)

// buildFlat constructs a minimal 720KB-shaped FAT12 flat image per the
// scenario in spec §8: bytesPerSector=512, sectorsPerCluster=2,
// reservedSectors=1, fatCount=2, rootEntries=112, sectorsPerFAT=3,
// totalSectors=1440.
func buildFlat(t *testing.T) ([]byte, *fsdetect.BPB) {
	t.Helper()
	bpb := &fsdetect.BPB{
		BytesPerSector:    512,
		SectorsPerCluster: 2,
		ReservedSectors:   1,
		FATCount:          2,
		RootEntries:       112,
		TotalSectors:      1440,
		SectorsPerFAT:     3,
	}

	total := bpb.TotalSectors * bpb.BytesPerSector
	flat := make([]byte, total)

	rootStart := (bpb.ReservedSectors + bpb.FATCount*bpb.SectorsPerFAT) * bpb.BytesPerSector
	require.Equal(t, 3584, rootStart)
	dataStart := rootStart + bpb.RootEntries*32
	// round up to sector boundary, matching NewVolume's ceil computation
	rootSectors := (bpb.RootEntries*32 + bpb.BytesPerSector - 1) / bpb.BytesPerSector
	dataStart = (bpb.ReservedSectors + bpb.FATCount*bpb.SectorsPerFAT + rootSectors) * bpb.BytesPerSector
	require.Equal(t, 7168, dataStart)

	return flat, bpb
}

func setFAT12Entry(flat []byte, fatStart, index int, value uint16) {
	byteOff := fatStart + (index*3)/2
	word := uint16(flat[byteOff]) | uint16(flat[byteOff+1])<<8
	if index%2 == 0 {
		word = (word &^ 0x0FFF) | (value & 0x0FFF)
	} else {
		word = (word &^ 0xFFF0) | ((value & 0x0FFF) << 4)
	}
	flat[byteOff] = byte(word)
	flat[byteOff+1] = byte(word >> 8)
}

func writeShortEntry(buf []byte, off int, name, ext string, attr uint8, cluster int, size uint32) {
	copy(buf[off:off+8], padTo(name, 8))
	copy(buf[off+8:off+11], padTo(ext, 3))
	buf[off+11] = attr
	binary.LittleEndian.PutUint16(buf[off+26:off+28], uint16(cluster))
	binary.LittleEndian.PutUint32(buf[off+28:off+32], size)
}

func padTo(s string, n int) []byte {
	b := make([]byte, n)
	for i := range b {
		b[i] = ' '
	}
	copy(b, s)
	return b
}

func TestVolume_ReadFile_ContiguousChain(t *testing.T) {
	flat, bpb := buildFlat(t)
	fatStart := bpb.ReservedSectors * bpb.BytesPerSector
	rootStart := (bpb.ReservedSectors + bpb.FATCount*bpb.SectorsPerFAT) * bpb.BytesPerSector
	dataStart := 7168
	clusterBytes := bpb.BytesPerSector * bpb.SectorsPerCluster // 1024

	// file of size 1024 at cluster 2: exactly one cluster, EOC afterwards.
	setFAT12Entry(flat, fatStart, 2, 0xFFF)
	for i := 0; i < clusterBytes; i++ {
		flat[dataStart+i] = byte(i)
	}

	writeShortEntry(flat, rootStart, "FILE", "TXT", 0, 2, 1024)

	v, fs := buildVolume(t, flat, bpb)
	_ = fs
	data, err := v.ReadFile(2, 1024)
	require.NoError(t, err)
	require.Len(t, data, 1024)
	require.Equal(t, byte(0), data[0])
	require.Equal(t, byte(255), data[255])
}

func buildVolume(t *testing.T, flat []byte, bpb *fsdetect.BPB) (*fat12.Volume, fsdetect.Descriptor) {
	t.Helper()
	desc := fsdetect.Descriptor{Kind: fsdetect.FAT, FAT: bpb}
	v := fat12.NewVolumeFromFlat(flat, bpb)
	return v, desc
}

func TestVolume_ReadDir_And_LFN(t *testing.T) {
	flat, bpb := buildFlat(t)
	rootStart := 3584

	// Two LFN fragments (sequence 2 with the last-flag first, then sequence 1,
	// as they appear on disk) followed by an 8.3 short entry, per spec's VFAT
	// example.
	lfn2 := make([]byte, 32)
	lfn2[0] = 0x42 // sequence 2, isLast
	lfn2[11] = fat12.AttrLFN
	writeUTF16(lfn2, 1, 11, "me.TXT")
	lfn1 := make([]byte, 32)
	lfn1[0] = 0x01
	lfn1[11] = fat12.AttrLFN
	writeUTF16(lfn1, 1, 11, "Très_Long_Na")

	off := rootStart
	copy(flat[off:off+32], lfn2)
	off += 32
	copy(flat[off:off+32], lfn1)
	off += 32
	writeShortEntry(flat, off, "TRES_L~1", "TXT", 0, 2, 0)

	v := fat12.NewVolumeFromFlat(flat, bpb)
	entries := v.ReadDir()
	require.Len(t, entries, 1)
	require.Equal(t, "Très_Long_Name.TXT", entries[0].Name)
	require.Equal(t, "TRES_L~1.TXT", entries[0].ShortName)
}

// writeUTF16 writes s (as UTF-16LE code units) across an LFN record's three
// disjoint ranges, followed by one 0x0000 terminator, padding the remainder
// with 0xFFFF.
func writeUTF16(record []byte, _ int, _ int, s string) {
	ranges := [][2]int{{1, 11}, {14, 26}, {28, 32}}
	units := []uint16{}
	for _, r := range s {
		units = append(units, uint16(r))
	}
	idx := 0
	for _, rg := range ranges {
		for off := rg[0]; off < rg[1]; off += 2 {
			if idx < len(units) {
				binary.LittleEndian.PutUint16(record[off:off+2], units[idx])
				idx++
			} else if idx == len(units) {
				binary.LittleEndian.PutUint16(record[off:off+2], 0x0000)
				idx++
			} else {
				binary.LittleEndian.PutUint16(record[off:off+2], 0xFFFF)
			}
		}
	}
}

func TestVolume_Undelete_Recoverable(t *testing.T) {
	flat, bpb := buildFlat(t)
	fatStart := 512
	rootStart := 3584
	clusterBytes := 1024

	// deleted file, size 3000, cluster 5; clusterBytes 1024 -> needs 3 clusters
	for _, c := range []int{5, 6, 7} {
		setFAT12Entry(flat, fatStart, c, 0)
	}

	off := rootStart
	flat[off] = 0xE5
	copy(flat[off+1:off+8], []byte("ILE    ")) // rest of an 8-char name "FILE    " minus first char
	copy(flat[off+8:off+11], []byte("TXT"))
	flat[off+11] = 0 // plain file attr
	binary.LittleEndian.PutUint16(flat[off+26:off+28], 5)
	binary.LittleEndian.PutUint32(flat[off+28:off+32], 3000)

	dataStart := 7168
	for c := 0; c < 3; c++ {
		// cluster (5+c) lives at dataStart + ((5+c)-2)*clusterBytes
		base := dataStart + (3+c)*clusterBytes
		for i := 0; i < clusterBytes; i++ {
			flat[base+i] = byte(c + 1)
		}
	}

	v := fat12.NewVolumeFromFlat(flat, bpb)
	deleted := v.ListDeleted()
	require.Len(t, deleted, 1)
	require.True(t, deleted[0].Recoverable)
	require.Equal(t, "3 clusters free", deleted[0].Reason)

	data := v.Recover(deleted[0].Cluster, deleted[0].Size)
	require.Len(t, data, 3000)
	require.Equal(t, byte(1), data[0])
	require.Equal(t, byte(2), data[1024])
	require.Equal(t, byte(3), data[2048])
}

func TestVolume_Undelete_NotRecoverable(t *testing.T) {
	flat, bpb := buildFlat(t)
	fatStart := 512
	rootStart := 3584

	setFAT12Entry(flat, fatStart, 5, 0)
	setFAT12Entry(flat, fatStart, 6, 9) // reallocated
	setFAT12Entry(flat, fatStart, 7, 0)

	off := rootStart
	flat[off] = 0xE5
	copy(flat[off+1:off+8], []byte("ILE    "))
	copy(flat[off+8:off+11], []byte("TXT"))
	flat[off+11] = 0
	binary.LittleEndian.PutUint16(flat[off+26:off+28], 5)
	binary.LittleEndian.PutUint32(flat[off+28:off+32], 3000)

	v := fat12.NewVolumeFromFlat(flat, bpb)
	deleted := v.ListDeleted()
	require.Len(t, deleted, 1)
	require.False(t, deleted[0].Recoverable)
	require.Equal(t, "Only 1/3 clusters free", deleted[0].Reason)
}

func TestReadChain_TerminatesOnCycle(t *testing.T) {
	flat, bpb := buildFlat(t)
	fatStart := 512
	rootStart := 3584

	// cluster 2 points to 3, which points back to 2: a cycle.
	setFAT12Entry(flat, fatStart, 2, 3)
	setFAT12Entry(flat, fatStart, 3, 2)
	writeShortEntry(flat, rootStart, "LOOP", "BIN", 0, 2, 999999)

	v := fat12.NewVolumeFromFlat(flat, bpb)
	data, err := v.ReadFile(2, 999999)
	require.NoError(t, err)
	require.LessOrEqual(t, len(data), 2*1024+1024) // bounded, not infinite
}
