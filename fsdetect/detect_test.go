package fsdetect_test

import (
	"encoding/binary"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/realhidden/floppyexplorer/container"
	"github.com/realhidden/floppyexplorer/fsdetect"
)

func singleSectorImage(t *testing.T, sectorData []byte, r uint8) *container.ImageIndex {
	t.Helper()
	buf := make([]byte, 256)
	copy(buf, "MV - CPCEMU Disk-File\r\nDisk-Info\r\n")
	buf[0x30] = 1
	buf[0x31] = 1

	sectorBytes := 512
	trackBytes := 256 + sectorBytes
	mult := trackBytes / 256
	binary.LittleEndian.PutUint16(buf[0x32:0x34], uint16(mult))

	th := make([]byte, mult*256)
	copy(th, "Track-Info\r\n")
	th[0x14] = 2
	th[0x15] = 1
	th[0x18+2] = r
	th[0x18+3] = 2
	copy(th[0x100:], sectorData)
	buf = append(buf, th...)

	idx, err := container.Parse(buf)
	require.NoError(t, err)
	return idx
}

func TestDetect_FAT(t *testing.T) {
	boot := make([]byte, 512)
	boot[0] = 0xEB
	copy(boot[3:11], "MSDOS5.0")
	binary.LittleEndian.PutUint16(boot[11:13], 512)
	boot[13] = 2
	binary.LittleEndian.PutUint16(boot[14:16], 1)
	boot[16] = 2
	binary.LittleEndian.PutUint16(boot[17:19], 112)
	binary.LittleEndian.PutUint16(boot[19:21], 1440)
	boot[21] = 0xF0
	binary.LittleEndian.PutUint16(boot[22:24], 3)
	binary.LittleEndian.PutUint16(boot[24:26], 9)
	binary.LittleEndian.PutUint16(boot[26:28], 2)
	copy(boot[43:54], "MYDISK     ")
	copy(boot[54:62], "FAT12   ")

	idx := singleSectorImage(t, boot, 0xC1)
	desc := fsdetect.Detect(idx)
	require.Equal(t, fsdetect.FAT, desc.Kind)
	require.Equal(t, 512, desc.FAT.BytesPerSector)
	require.Equal(t, 2, desc.FAT.SectorsPerCluster)
	require.Equal(t, 1, desc.FAT.ReservedSectors)
	require.Equal(t, 2, desc.FAT.FATCount)
	require.Equal(t, 112, desc.FAT.RootEntries)
	require.Equal(t, 1440, desc.FAT.TotalSectors)
	require.Equal(t, 3, desc.FAT.SectorsPerFAT)
	require.Equal(t, "MYDISK", desc.FAT.VolumeLabel)
}

func TestDetect_CPC(t *testing.T) {
	boot := make([]byte, 512)
	boot[0] = 0x00 // not a FAT sniff byte
	idx := singleSectorImage(t, boot, 0xC1)
	desc := fsdetect.Detect(idx)
	require.Equal(t, fsdetect.CPC, desc.Kind)
}

func TestDetect_Unknown(t *testing.T) {
	boot := make([]byte, 512)
	idx := singleSectorImage(t, boot, 0x01)
	desc := fsdetect.Detect(idx)
	require.Equal(t, fsdetect.Unknown, desc.Kind)
}
