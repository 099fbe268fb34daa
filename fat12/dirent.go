package fat12

import (
	"encoding/binary"
	"fmt"
	"strings"
	"unicode/utf16"
)

// Attribute bit values, mirroring the FAT standard (and
// dargueta-disko/file_systems/fat/dirent.go's constants, renamed to this
// repo's style).
const (
	AttrReadOnly    = 0x01
	AttrHidden      = 0x02
	AttrSystem      = 0x04
	AttrVolumeLabel = 0x08
	AttrDirectory   = 0x10
	AttrArchived    = 0x20
	AttrLFN         = 0x0F
)

const direntSize = 32

// DirEntry is a logical directory entry: either a plain short-name entry or
// one reassembled from a preceding run of VFAT LFN fragments.
type DirEntry struct {
	Name         string
	ShortName    string
	LongName     string // empty when no LFN fragments preceded this entry
	Attr         uint8
	IsDir        bool
	IsHidden     bool
	IsSystem     bool
	IsReadOnly   bool
	IsVolumeLabel bool
	Size         uint32
	Cluster      int
	Date         string // "YYYY-MM-DD"
	Time         string // "HH:MM"
	Path         string // fully qualified within the disk, forward-slash separated
}

// lfnAccumulator holds in-progress VFAT long-filename fragments keyed by
// sequence number (1-based, slot index = sequence-1).
type lfnAccumulator struct {
	slots map[int]string
}

func newLFNAccumulator() *lfnAccumulator {
	return &lfnAccumulator{slots: map[int]string{}}
}

func (a *lfnAccumulator) clear() { a.slots = map[int]string{} }

func (a *lfnAccumulator) empty() bool { return len(a.slots) == 0 }

func (a *lfnAccumulator) assemble() string {
	keys := make([]int, 0, len(a.slots))
	for k := range a.slots {
		keys = append(keys, k)
	}
	// small N, insertion sort is plenty and keeps this file free of "sort"
	for i := 1; i < len(keys); i++ {
		for j := i; j > 0 && keys[j-1] > keys[j]; j-- {
			keys[j-1], keys[j] = keys[j], keys[j-1]
		}
	}
	var b strings.Builder
	for _, k := range keys {
		b.WriteString(a.slots[k])
	}
	return b.String()
}

// parseLFNFragment extracts the UTF-16LE characters from an LFN record's
// three disjoint ranges, stopping at a 0x0000 or 0xFFFF code unit.
func parseLFNFragment(record []byte) (sequence int, isLast bool, text string) {
	first := record[0]
	sequence = int(first & 0x3F)
	isLast = first&0x40 != 0

	var units []uint16
	appendRange := func(lo, hi int) bool {
		for off := lo; off < hi; off += 2 {
			u := binary.LittleEndian.Uint16(record[off : off+2])
			if u == 0x0000 || u == 0xFFFF {
				return false
			}
			units = append(units, u)
		}
		return true
	}

	if !appendRange(1, 11) {
		return sequence, isLast, string(utf16.Decode(units))
	}
	if !appendRange(14, 26) {
		return sequence, isLast, string(utf16.Decode(units))
	}
	appendRange(28, 32)

	return sequence, isLast, string(utf16.Decode(units))
}

func decodeShortName(record []byte) string {
	name := strings.TrimRight(string(record[0:8]), " ")
	ext := strings.TrimRight(string(record[8:11]), " ")
	if ext == "" {
		return name
	}
	return name + "." + ext
}

func decodeDosDate(date, time uint16) (string, string) {
	year := int((date>>9)&0x7F) + 1980
	month := int((date >> 5) & 0x0F)
	day := int(date & 0x1F)
	hour := int((time >> 11) & 0x1F)
	minute := int((time >> 5) & 0x3F)
	return fmt.Sprintf("%04d-%02d-%02d", year, month, day), fmt.Sprintf("%02d:%02d", hour, minute)
}

// parseDirectory scans a directory buffer (root or sub-directory) partitioned
// into 32-byte records, returning every entry up to the first end-of-
// directory marker. Deleted short-name entries (0xE5) and their effect on any
// in-flight LFN accumulator are handled per spec §4.4; callers that want the
// raw parse (including "." and "..") get exactly that here — recursive-walk
// filtering happens one layer up in walk.go.
func parseDirectory(buf []byte) []DirEntry {
	var out []DirEntry
	acc := newLFNAccumulator()

	for off := 0; off+direntSize <= len(buf); off += direntSize {
		record := buf[off : off+direntSize]
		if record[0] == 0x00 {
			break
		}
		if record[0] == 0xE5 {
			acc.clear()
			continue
		}

		attr := record[11]
		if attr == AttrLFN {
			seq, isLast, text := parseLFNFragment(record)
			if isLast {
				acc.clear()
			}
			if seq > 0 {
				acc.slots[seq-1] = text
			}
			continue
		}

		short := decodeShortName(record)
		var long string
		if !acc.empty() {
			long = acc.assemble()
			acc.clear()
		}

		cluster := int(binary.LittleEndian.Uint16(record[26:28]))
		size := binary.LittleEndian.Uint32(record[28:32])
		date := binary.LittleEndian.Uint16(record[24:26])
		timeVal := binary.LittleEndian.Uint16(record[22:24])
		d, tm := decodeDosDate(date, timeVal)

		name := short
		if long != "" {
			name = long
		}

		out = append(out, DirEntry{
			Name:          name,
			ShortName:     short,
			LongName:      long,
			Attr:          attr,
			IsDir:         attr&AttrDirectory != 0,
			IsHidden:      attr&AttrHidden != 0,
			IsSystem:      attr&AttrSystem != 0,
			IsReadOnly:    attr&AttrReadOnly != 0,
			IsVolumeLabel: attr&AttrVolumeLabel != 0,
			Size:          size,
			Cluster:       cluster,
			Date:          d,
			Time:          tm,
		})
	}

	return out
}
