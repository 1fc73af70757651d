package metadata

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"time"

	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/encoding/unicode"
)

const id3HeaderSize = 10

// ID3v2 text encodings, from the first byte of a text frame.
var id3Encodings = [...]encoding.Encoding{
	0: charmap.ISO8859_1,
	1: unicode.UTF16(unicode.LittleEndian, unicode.UseBOM),
	2: unicode.UTF16(unicode.BigEndian, unicode.IgnoreBOM),
	3: unicode.UTF8,
}

// ParseID3 reads the recording date of an ID3v2.2, v2.3 or v2.4 tag at the
// start of data. Frames are preferred in the order TDRC, TDOR, TYER; a v2.3
// TYER is completed with TDAT (DDMM) and TIME (HHMM) when present.
func ParseID3(data []byte) (time.Time, bool) {
	frames, ok := id3TextFrames(data)
	if !ok {
		return time.Time{}, false
	}
	for _, id := range []string{"TDRC", "TDOR"} {
		if t, ok := ParseDate(frames[id]); ok {
			return t, true
		}
	}
	year := frames["TYER"]
	if year == "" {
		return time.Time{}, false
	}
	if s, ok := id3YearDate(year, frames["TDAT"], frames["TIME"]); ok {
		if t, ok := ParseDate(s); ok {
			return t, true
		}
	}
	return ParseDate(year)
}

// id3YearDate joins TYER "2021", TDAT "1508" and TIME "0930" into a single
// parseable string.
func id3YearDate(year, ddmm, hhmm string) (string, bool) {
	year, ddmm, hhmm = cleanText(year), cleanText(ddmm), cleanText(hhmm)
	if len(year) != 4 || len(ddmm) != 4 || !allDigits(year+ddmm) {
		return "", false
	}
	s := fmt.Sprintf("%s-%s-%s", year, ddmm[2:], ddmm[:2])
	if len(hhmm) == 4 && allDigits(hhmm) {
		s += fmt.Sprintf("T%s:%s", hhmm[:2], hhmm[2:])
	}
	return s, true
}

func allDigits(s string) bool {
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return len(s) > 0
}

// id3v22Names maps the three-character v2.2 frame IDs onto their v2.3 names.
var id3v22Names = map[string]string{
	"TYE": "TYER",
	"TOR": "TDOR",
	"TDA": "TDAT",
	"TIM": "TIME",
	"TRD": "TDRC",
}

var id3DateFrames = map[string]bool{"TDRC": true, "TDOR": true, "TYER": true, "TDAT": true, "TIME": true}

// id3TextFrames walks the tag and decodes the date-bearing text frames.
func id3TextFrames(data []byte) (map[string]string, bool) {
	if len(data) < id3HeaderSize || string(data[:3]) != "ID3" {
		return nil, false
	}
	major, flags := data[3], data[5]
	if major < 2 || major > 4 {
		return nil, false
	}
	size, ok := syncsafe(data[6:10])
	if !ok {
		return nil, false
	}
	end := id3HeaderSize + int(size)
	if end > len(data) {
		end = len(data)
	}
	tag := data[:end]
	pos := id3HeaderSize

	if flags&0x40 != 0 && major >= 3 {
		if pos+4 > len(tag) {
			return nil, false
		}
		switch major {
		case 3:
			pos += 4 + int(binary.BigEndian.Uint32(tag[pos:]))
		case 4:
			n, ok := syncsafe(tag[pos : pos+4])
			if !ok {
				return nil, false
			}
			pos += int(n)
		}
	}

	idLen, headerLen := 4, 10
	if major == 2 {
		idLen, headerLen = 3, 6
	}

	frames := map[string]string{}
	for pos >= 0 && pos+headerLen <= len(tag) {
		if tag[pos] == 0 {
			break // padding
		}
		id := string(tag[pos : pos+idLen])
		var frameSize int
		switch major {
		case 2:
			frameSize = int(tag[pos+3])<<16 | int(tag[pos+4])<<8 | int(tag[pos+5])
		case 3:
			frameSize = int(binary.BigEndian.Uint32(tag[pos+4:]))
		case 4:
			n, ok := syncsafe(tag[pos+4 : pos+8])
			if !ok {
				return frames, len(frames) > 0
			}
			frameSize = int(n)
		}
		body := pos + headerLen
		if frameSize < 0 || body+frameSize > len(tag) {
			break
		}
		if major == 2 {
			id = id3v22Names[id]
		}
		if id3DateFrames[id] {
			if _, dup := frames[id]; !dup {
				if text, ok := id3Text(tag[body : body+frameSize]); ok {
					frames[id] = text
				}
			}
		}
		pos = body + frameSize
	}
	return frames, len(frames) > 0
}

// syncsafe decodes a 28-bit integer stored seven bits per byte.
func syncsafe(b []byte) (uint32, bool) {
	if len(b) < 4 {
		return 0, false
	}
	var n uint32
	for _, c := range b[:4] {
		if c&0x80 != 0 {
			return 0, false
		}
		n = n<<7 | uint32(c)
	}
	return n, true
}

// id3Text decodes a text frame body: one encoding byte, then the text. Only
// the first of several NUL-separated values is returned.
func id3Text(body []byte) (string, bool) {
	if len(body) < 2 || int(body[0]) >= len(id3Encodings) {
		return "", false
	}
	enc, raw := body[0], body[1:]
	raw = firstValue(raw, enc == 1 || enc == 2)
	text, err := id3Encodings[enc].NewDecoder().Bytes(raw)
	if err != nil {
		return "", false
	}
	s := cleanText(string(text))
	return s, s != ""
}

// firstValue cuts raw at its first terminator: a single NUL for 8-bit
// encodings or an aligned NUL pair for UTF-16.
func firstValue(raw []byte, wide bool) []byte {
	if !wide {
		if i := bytes.IndexByte(raw, 0); i >= 0 {
			return raw[:i]
		}
		return raw
	}
	for i := 0; i+1 < len(raw); i += 2 {
		if raw[i] == 0 && raw[i+1] == 0 {
			return raw[:i]
		}
	}
	return raw
}
