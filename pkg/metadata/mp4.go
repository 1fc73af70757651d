package metadata

import (
	"encoding/binary"
	"errors"
	"io"
	"math"
	"time"

	"github.com/quidome/capturetime/pkg/validate"
)

// mp4EpochOffset is the number of seconds between 1904-01-01, the zero
// point of QuickTime and ISO BMFF timestamps, and the Unix epoch.
const mp4EpochOffset = 2082844800

type atom struct {
	typ  string
	body []byte
}

// atoms splits b into its top-level atoms. A truncated trailing atom ends the
// walk.
func atoms(b []byte) []atom {
	var out []atom
	for pos := 0; pos+8 <= len(b); {
		size := uint64(binary.BigEndian.Uint32(b[pos:]))
		typ := string(b[pos+4 : pos+8])
		header := uint64(8)
		switch size {
		case 0:
			size = uint64(len(b) - pos)
		case 1:
			if pos+16 > len(b) {
				return out
			}
			size = binary.BigEndian.Uint64(b[pos+8:])
			header = 16
		}
		if size < header || size > uint64(len(b)-pos) {
			return out
		}
		out = append(out, atom{typ: typ, body: b[pos+int(header) : pos+int(size)]})
		pos += int(size)
	}
	return out
}

func child(b []byte, typ string) ([]byte, bool) {
	for _, a := range atoms(b) {
		if a.typ == typ {
			return a.body, true
		}
	}
	return nil, false
}

var quickTimeMetaChild = map[string]bool{"hdlr": true, "ilst": true, "keys": true}

// atomPath descends through nested atoms. "meta" is an ISO full atom carrying
// four bytes of version and flags before its children, except in older
// QuickTime files where a child header follows directly.
func atomPath(b []byte, types ...string) ([]byte, bool) {
	cur := b
	for _, typ := range types {
		next, ok := child(cur, typ)
		if !ok {
			return nil, false
		}
		if typ == "meta" && len(next) >= 8 && !quickTimeMetaChild[string(next[4:8])] {
			next = next[4:]
		}
		cur = next
	}
	return cur, true
}

// ParseMP4 reads the iTunes-style ©day tag of an MP4/M4A/MOV file and falls
// back to the movie header creation time.
func ParseMP4(data []byte) (time.Time, bool) {
	moov, ok := child(data, "moov")
	if !ok {
		return time.Time{}, false
	}
	return movieTime(moov)
}

// ParseMovieBox finds the moov atom by seeking over the top-level atoms of r
// and parses only that atom. Recorders often write moov after a media data
// atom far larger than any sensible read limit. A moov bigger than limit is
// treated as absent.
func ParseMovieBox(r io.ReadSeeker, limit int64) (time.Time, bool, error) {
	var hdr [16]byte
	var pos int64
	for {
		if _, err := r.Seek(pos, io.SeekStart); err != nil {
			return time.Time{}, false, err
		}
		if _, err := io.ReadFull(r, hdr[:8]); err != nil {
			return time.Time{}, false, ignoreEOF(err)
		}
		size := int64(binary.BigEndian.Uint32(hdr[:4]))
		typ := string(hdr[4:8])
		header := int64(8)
		switch size {
		case 0:
			if typ != "moov" {
				return time.Time{}, false, nil
			}
			size = header + limit
		case 1:
			if _, err := io.ReadFull(r, hdr[8:16]); err != nil {
				return time.Time{}, false, ignoreEOF(err)
			}
			size = int64(binary.BigEndian.Uint64(hdr[8:16]))
			header = 16
		}
		if size < header {
			return time.Time{}, false, nil
		}
		if typ != "moov" {
			if size > math.MaxInt64-pos {
				return time.Time{}, false, nil
			}
			pos += size
			continue
		}
		if size-header > limit {
			return time.Time{}, false, nil
		}
		body, err := io.ReadAll(io.LimitReader(r, size-header))
		if err != nil {
			return time.Time{}, false, err
		}
		t, ok := movieTime(body)
		return t, ok, nil
	}
}

func ignoreEOF(err error) error {
	if errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
		return nil
	}
	return err
}

// movieTime reads the timestamp out of a moov atom body.
func movieTime(moov []byte) (time.Time, bool) {
	for _, route := range [][]string{
		{"udta", "meta", "ilst", "\xa9day", "data"},
		{"meta", "ilst", "\xa9day", "data"},
		{"udta", "\xa9day"},
	} {
		body, ok := atomPath(moov, route...)
		if !ok {
			continue
		}
		if t, ok := mp4Text(route[len(route)-1], body); ok {
			return t, true
		}
	}
	if mvhd, ok := child(moov, "mvhd"); ok {
		return mvhdCreated(mvhd)
	}
	return time.Time{}, false
}

// mp4Text parses the text payload of an ilst "data" atom (4 bytes type, 4
// bytes locale) or of a classic QuickTime udta string (2 bytes length, 2
// bytes language).
func mp4Text(typ string, body []byte) (time.Time, bool) {
	const skip = 8
	if typ != "data" {
		if len(body) < 4 {
			return time.Time{}, false
		}
		n := int(binary.BigEndian.Uint16(body))
		body = body[4:]
		if n < len(body) {
			body = body[:n]
		}
		return textDate(string(body))
	}
	if len(body) < skip {
		return time.Time{}, false
	}
	return textDate(string(body[skip:]))
}

// mvhdCreated reads the creation time of a version 0 or 1 movie header.
func mvhdCreated(body []byte) (time.Time, bool) {
	if len(body) < 1 {
		return time.Time{}, false
	}
	var secs uint64
	switch body[0] {
	case 0:
		if len(body) < 8 {
			return time.Time{}, false
		}
		secs = uint64(binary.BigEndian.Uint32(body[4:]))
	case 1:
		if len(body) < 12 {
			return time.Time{}, false
		}
		secs = binary.BigEndian.Uint64(body[4:])
	default:
		return time.Time{}, false
	}
	if secs == 0 || secs > 1<<40 {
		return time.Time{}, false
	}
	t := time.Unix(int64(secs)-mp4EpochOffset, 0).UTC()
	if !validate.IsValidYear(t.Year()) {
		return time.Time{}, false
	}
	return t, true
}
