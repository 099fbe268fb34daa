package container

import (
	"encoding/binary"
	"fmt"
	"sort"
	"strings"
)

const (
	sigExtended = "EXTENDED CPC DSK File"
	sigStandard = "MV - CPC"
)

// Parse decodes a raw DSK/EDSK image buffer into an ImageIndex. It performs
// only the top-level header validation eagerly; per-sector anomalies (FDC
// flags, truncation) are recorded on the sector rather than raised, per the
// propagation policy in spec §7.
func Parse(data []byte) (*ImageIndex, error) {
	if len(data) == 0 {
		return nil, newError(KindEmptyImage, "image buffer is empty")
	}
	if len(data) < headerSize {
		return nil, newError(KindOutOfBounds, "image buffer shorter than the 256-byte disk header")
	}

	sig := string(data[0:34])
	var format Format
	switch {
	case strings.HasPrefix(sig, sigExtended):
		format = EDSK
	case strings.HasPrefix(sig, sigStandard):
		format = DSK
	default:
		return nil, newError(KindUnknownSignature, "header does not match DSK or EDSK signature")
	}

	creator := strings.TrimRight(strings.TrimRight(string(data[34:48]), "\x00"), " \t")

	tracks := int(data[0x30])
	sides := int(data[0x31])
	if tracks == 0 || sides == 0 {
		return nil, newError(KindInvalidGeometry, "tracks or sides byte is zero")
	}

	count := tracks * sides
	sizes := make([]int, count)
	if format == EDSK {
		for i := 0; i < count; i++ {
			sizes[i] = int(data[0x34+i]) * 256
		}
	} else {
		uniform := int(binary.LittleEndian.Uint16(data[0x32:0x34])) * 256
		for i := 0; i < count; i++ {
			sizes[i] = uniform
		}
	}

	idx := &ImageIndex{
		Format:  format,
		Creator: creator,
		Tracks:  tracks,
		Sides:   sides,
		buf:     data,
	}

	cursor := headerSize
	row := 0
	for t := 0; t < tracks; t++ {
		for s := 0; s < sides; s++ {
			slotSize := sizes[row]
			row++

			if slotSize == 0 {
				idx.Index = append(idx.Index, TrackEntry{Track: t, Side: s, Missing: true})
				continue
			}

			if cursor+slotSize > len(data) {
				return nil, wrapError(KindOutOfBounds,
					fmt.Sprintf("track %d side %d: track data extends past end of file", t, s), nil)
			}
			if slotSize < trackHeaderSize {
				return nil, wrapError(KindTrackHeaderTooSmall,
					fmt.Sprintf("track %d side %d: track declared size below 256 bytes", t, s), nil)
			}

			entry, err := parseTrack(data, cursor, slotSize, t, s)
			if err != nil {
				return nil, err
			}
			idx.Index = append(idx.Index, entry)
			cursor += slotSize
		}
	}

	return idx, nil
}

// maxSectorDescriptors is how many 8-byte sector descriptors fit between the
// track header's fixed fields (ending at 0x18) and its 256-byte boundary.
const maxSectorDescriptors = (trackHeaderSize - 0x18) / 8

func parseTrack(data []byte, offset, size, track, side int) (TrackEntry, error) {
	header := data[offset : offset+trackHeaderSize]

	entry := TrackEntry{
		Track:          track,
		Side:           side,
		Offset:         offset,
		Size:           size,
		DataRate:       header[0x12],
		RecordingMode:  header[0x13],
		SectorSizeCode: header[0x14],
		SectorCount:    header[0x15],
		Gap3:           header[0x16],
		Filler:         header[0x17],
	}

	if int(entry.SectorCount) > maxSectorDescriptors {
		return TrackEntry{}, wrapError(KindOutOfBounds,
			fmt.Sprintf("track %d side %d: declared sector count exceeds what the 256-byte track header can hold", track, side),
			nil)
	}

	dataCursor := offset + trackHeaderSize
	trackEnd := offset + size
	truncatedRest := false

	for i := 0; i < int(entry.SectorCount); i++ {
		descOff := 0x18 + i*8
		desc := header[descOff : descOff+8]

		sec := SectorEntry{
			Index:      i,
			C:          desc[0],
			H:          desc[1],
			R:          desc[2],
			N:          desc[3],
			ST1:        desc[4],
			ST2:        desc[5],
			DataOffset: -1,
		}
		actual := int(binary.LittleEndian.Uint16(desc[6:8]))
		expected := 128 << sec.N
		sec.ExpectedSize = expected
		if actual != 0 {
			sec.Size = actual
		} else {
			sec.Size = expected
		}

		if truncatedRest {
			sec.Truncated = true
			entry.Sectors = append(entry.Sectors, sec)
			continue
		}

		if dataCursor+sec.Size > trackEnd {
			sec.Truncated = true
			truncatedRest = true
			entry.Sectors = append(entry.Sectors, sec)
			continue
		}

		sec.DataOffset = dataCursor
		dataCursor += sec.Size
		entry.Sectors = append(entry.Sectors, sec)
	}

	return entry, nil
}

// ReadSectorData returns the byte slice for the sector matching (track, side,
// R) within image, or nil if the track is missing, the sector is absent, or
// its data could not be placed. There is no CHN filtering: a sector whose R
// matches but whose C/H do not is still returned.
func ReadSectorData(image *ImageIndex, track, side int, r uint8) []byte {
	for i := range image.Index {
		te := &image.Index[i]
		if te.Missing || te.Track != track || te.Side != side {
			continue
		}
		for j := range te.Sectors {
			sec := &te.Sectors[j]
			if sec.R != r {
				continue
			}
			if sec.DataOffset < 0 {
				return nil
			}
			return image.buf[sec.DataOffset : sec.DataOffset+sec.Size]
		}
		return nil
	}
	return nil
}

// sortedByR returns a copy of sectors ordered ascending by R, used by the
// flat imager; kept here since it operates purely on exported fields.
func sortedByR(sectors []SectorEntry) []SectorEntry {
	out := make([]SectorEntry, len(sectors))
	copy(out, sectors)
	sort.Slice(out, func(i, j int) bool { return out[i].R < out[j].R })
	return out
}

// SortedByR exposes sortedByR for consumers outside this package (notably
// flatimage) that need the same ascending-R ordering without duplicating it.
func SortedByR(sectors []SectorEntry) []SectorEntry { return sortedByR(sectors) }
