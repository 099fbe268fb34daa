package fat12

import (
	"encoding/binary"
	"fmt"
)

// DeletedEntry is a DirEntry recovered from a tombstoned (0xE5) directory
// record, plus a recoverability judgement.
type DeletedEntry struct {
	DirEntry
	IsDeleted   bool
	Recoverable bool
	Reason      string
}

// ListDeleted scans the root directory and every reachable subdirectory for
// tombstoned records and returns them with a recoverability judgement.
func (v *Volume) ListDeleted() []DeletedEntry {
	var out []DeletedEntry
	v.scanDeleted(v.rootDirectoryBytes(), "", &out)

	// Still-live subdirectories can themselves contain deleted entries; walk
	// them via the live tree since a deleted directory's own clusters are not
	// safely traversable.
	for _, e := range v.ReadDir() {
		if e.IsDir && e.Cluster >= 2 {
			sub := v.ReadChain(e.Cluster, Unbounded)
			v.scanDeleted(sub, e.Path, &out)
		}
	}

	return out
}

func (v *Volume) scanDeleted(buf []byte, prefix string, out *[]DeletedEntry) {
	for off := 0; off+direntSize <= len(buf); off += direntSize {
		record := buf[off : off+direntSize]
		if record[0] == 0x00 {
			break
		}
		if record[0] != 0xE5 {
			continue
		}

		attr := record[11]
		if attr == AttrLFN {
			continue
		}
		if attr&AttrDirectory != 0 || attr&AttrVolumeLabel != 0 {
			continue
		}

		cluster := int(binary.LittleEndian.Uint16(record[26:28]))
		size := binary.LittleEndian.Uint32(record[28:32])
		if cluster < 2 || size == 0 {
			continue
		}

		short := "?" + string(record[1:8]) + "." + string(record[8:11])
		short = trimShort(short)

		date := binary.LittleEndian.Uint16(record[24:26])
		timeVal := binary.LittleEndian.Uint16(record[22:24])
		d, tm := decodeDosDate(date, timeVal)

		path := short
		if prefix != "" {
			path = prefix + "/" + short
		}

		recoverable, reason := v.recoverability(cluster, size)

		*out = append(*out, DeletedEntry{
			DirEntry: DirEntry{
				Name:      short,
				ShortName: short,
				Attr:      attr,
				IsDir:     false,
				IsHidden:  attr&AttrHidden != 0,
				IsSystem:  attr&AttrSystem != 0,
				IsReadOnly: attr&AttrReadOnly != 0,
				Size:      size,
				Cluster:   cluster,
				Date:      d,
				Time:      tm,
				Path:      path,
			},
			IsDeleted:   true,
			Recoverable: recoverable,
			Reason:      reason,
		})
	}
}

func trimShort(s string) string {
	// collapse trailing spaces in the 8/3 fields and drop a bare trailing dot
	out := make([]byte, 0, len(s))
	for i := 0; i < len(s); i++ {
		if s[i] == ' ' {
			continue
		}
		out = append(out, s[i])
	}
	res := string(out)
	if len(res) > 0 && res[len(res)-1] == '.' {
		res = res[:len(res)-1]
	}
	return res
}

// recoverability implements spec §4.4's heuristic: a deleted file is
// recoverable iff its start cluster is in range, its own FAT entry is free
// (never reallocated), and clustersNeeded consecutive FAT entries from there
// are all free. Any non-zero FAT entry — including the reserved/bad range
// 0xFF0-0xFF7 — counts as "not free" (the safe default spec's Open Question 1
// resolves to).
func (v *Volume) recoverability(startCluster int, size uint32) (bool, string) {
	clustersNeeded := int((uint64(size) + uint64(v.clusterBytes) - 1) / uint64(v.clusterBytes))
	if clustersNeeded == 0 {
		clustersNeeded = 1
	}

	if !v.inRange(startCluster) || v.table[startCluster] != fat12Free {
		return false, "Start cluster reallocated"
	}

	free := 0
	for c := startCluster; c < startCluster+clustersNeeded; c++ {
		if !v.inRange(c) || v.table[c] != fat12Free {
			break
		}
		free++
	}

	if free >= clustersNeeded {
		if clustersNeeded == 1 {
			return true, "1 cluster free"
		}
		return true, fmt.Sprintf("%d clusters free", clustersNeeded)
	}
	return false, fmt.Sprintf("Only %d/%d clusters free", free, clustersNeeded)
}

// Recover reads a deleted file's payload by walking clustersNeeded
// *consecutive* clusters starting at startCluster, ignoring the FAT (which is
// zeroed for deleted files), per spec §4.4. It returns nil if the first
// cluster's offset is already out of bounds.
func (v *Volume) Recover(startCluster int, size uint32) []byte {
	if !v.inRange(startCluster) {
		return nil
	}
	firstOff := v.clusterOffset(startCluster)
	if firstOff < 0 || firstOff >= len(v.flat) {
		return nil
	}

	clustersNeeded := int((uint64(size) + uint64(v.clusterBytes) - 1) / uint64(v.clusterBytes))
	remaining := int(size)

	var out []byte
	for i := 0; i < clustersNeeded && remaining > 0; i++ {
		cluster := startCluster + i
		off := v.clusterOffset(cluster)
		if off < 0 || off >= len(v.flat) {
			break
		}
		end := off + v.clusterBytes
		if end > len(v.flat) {
			end = len(v.flat)
		}
		chunk := v.flat[off:end]
		if len(chunk) > remaining {
			chunk = chunk[:remaining]
		}
		out = append(out, chunk...)
		remaining -= len(chunk)
	}

	return out
}
