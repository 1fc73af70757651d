package metadata

import (
	"bytes"
	"encoding/binary"
	"time"
)

const (
	tagDateTime          = 0x0132
	tagExifIFDPointer    = 0x8769
	tagDateTimeOriginal  = 0x9003
	tagDateTimeDigitized = 0x9004

	tiffTypeASCII = 2
	tiffTypeLong  = 4
	tiffTypeIFD   = 13

	maxIFDDepth   = 4
	maxIFDEntries = 1024
)

// ExifDates holds the three EXIF timestamps. Zero values mark absent tags.
type ExifDates struct {
	Original  time.Time
	Digitized time.Time
	DateTime  time.Time
}

// Best returns DateTimeOriginal, then DateTimeDigitized, then DateTime.
func (d ExifDates) Best() (time.Time, bool) {
	for _, t := range []time.Time{d.Original, d.Digitized, d.DateTime} {
		if !t.IsZero() {
			return t, true
		}
	}
	return time.Time{}, false
}

// ParseEXIF returns the capture time recorded in a JPEG's APP1 EXIF segment.
// goexif decodes the segment; input it rejects is walked directly.
func ParseEXIF(data []byte) (time.Time, bool) {
	if t, ok := goexifTime(data); ok {
		return t, true
	}
	dates, ok := EXIFDates(data)
	if !ok {
		return time.Time{}, false
	}
	return dates.Best()
}

// EXIFDates extracts every EXIF timestamp of a JPEG. Values found in the Exif
// sub-IFD take precedence over the same tag in IFD0.
func EXIFDates(data []byte) (ExifDates, bool) {
	payload, ok := jpegEXIF(data)
	if !ok {
		return ExifDates{}, false
	}
	return tiffDates(payload)
}

// jpegEXIF walks JPEG marker segments up to the start of scan and returns the
// TIFF payload of the first APP1 "Exif" segment.
func jpegEXIF(data []byte) ([]byte, bool) {
	if len(data) < 4 || data[0] != 0xFF || data[1] != 0xD8 {
		return nil, false
	}
	pos := 2
	for pos+4 <= len(data) {
		if data[pos] != 0xFF {
			return nil, false
		}
		marker := data[pos+1]
		switch {
		case marker == 0xFF:
			pos++
			continue
		case marker == 0xD9 || marker == 0xDA:
			return nil, false
		case marker == 0x01 || (marker >= 0xD0 && marker <= 0xD7):
			pos += 2
			continue
		}
		size := int(binary.BigEndian.Uint16(data[pos+2:]))
		if size < 2 || pos+2+size > len(data) {
			return nil, false
		}
		segment := data[pos+4 : pos+2+size]
		if marker == 0xE1 && bytes.HasPrefix(segment, []byte("Exif\x00\x00")) {
			return segment[6:], true
		}
		pos += 2 + size
	}
	return nil, false
}

type tiffReader struct {
	b     []byte
	order binary.ByteOrder
	seen  map[uint32]bool
}

func newTIFFReader(b []byte) (*tiffReader, uint32, bool) {
	if len(b) < 8 {
		return nil, 0, false
	}
	var order binary.ByteOrder
	switch string(b[:2]) {
	case "II":
		order = binary.LittleEndian
	case "MM":
		order = binary.BigEndian
	default:
		return nil, 0, false
	}
	if order.Uint16(b[2:]) != 42 {
		return nil, 0, false
	}
	return &tiffReader{b: b, order: order, seen: map[uint32]bool{}}, order.Uint32(b[4:]), true
}

type ifdEntry struct {
	tag   uint16
	typ   uint16
	count uint32
	value []byte // the raw 4-byte value/offset field
}

// entries reads the IFD at offset. It returns nil for out-of-range or
// already-visited offsets.
func (r *tiffReader) entries(offset uint32) []ifdEntry {
	if r.seen[offset] || uint64(offset)+2 > uint64(len(r.b)) {
		return nil
	}
	r.seen[offset] = true
	n := int(r.order.Uint16(r.b[offset:]))
	if n > maxIFDEntries {
		return nil
	}
	out := make([]ifdEntry, 0, n)
	pos := int(offset) + 2
	for i := 0; i < n && pos+12 <= len(r.b); i++ {
		out = append(out, ifdEntry{
			tag:   r.order.Uint16(r.b[pos:]),
			typ:   r.order.Uint16(r.b[pos+2:]),
			count: r.order.Uint32(r.b[pos+4:]),
			value: r.b[pos+8 : pos+12],
		})
		pos += 12
	}
	return out
}

func (r *tiffReader) ascii(e ifdEntry) (string, bool) {
	if e.typ != tiffTypeASCII || e.count == 0 {
		return "", false
	}
	if e.count <= 4 {
		return string(e.value[:e.count]), true
	}
	off := uint64(r.order.Uint32(e.value))
	end := off + uint64(e.count)
	if end > uint64(len(r.b)) {
		return "", false
	}
	return string(r.b[off:end]), true
}

func (r *tiffReader) long(e ifdEntry) (uint32, bool) {
	if (e.typ != tiffTypeLong && e.typ != tiffTypeIFD) || e.count != 1 {
		return 0, false
	}
	return r.order.Uint32(e.value), true
}

// tiffDates reads the date tags from IFD0 and, recursively, the Exif sub-IFD.
func tiffDates(b []byte) (ExifDates, bool) {
	r, ifd0, ok := newTIFFReader(b)
	if !ok {
		return ExifDates{}, false
	}
	var dates ExifDates
	r.collect(ifd0, 0, &dates)
	if _, ok := dates.Best(); !ok {
		return ExifDates{}, false
	}
	return dates, true
}

func (r *tiffReader) collect(offset uint32, depth int, dates *ExifDates) {
	if depth > maxIFDDepth {
		return
	}
	var sub []uint32
	for _, e := range r.entries(offset) {
		switch e.tag {
		case tagDateTime, tagDateTimeOriginal, tagDateTimeDigitized:
			s, ok := r.ascii(e)
			if !ok {
				continue
			}
			t, ok := ParseDate(s)
			if !ok {
				continue
			}
			switch e.tag {
			case tagDateTime:
				dates.DateTime = t
			case tagDateTimeOriginal:
				dates.Original = t
			case tagDateTimeDigitized:
				dates.Digitized = t
			}
		case tagExifIFDPointer:
			if ptr, ok := r.long(e); ok {
				sub = append(sub, ptr)
			}
		}
	}
	// Sub-IFDs are read after the parent so their values overwrite it.
	for _, ptr := range sub {
		r.collect(ptr, depth+1, dates)
	}
}
