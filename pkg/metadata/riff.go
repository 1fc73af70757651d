package metadata

import (
	"encoding/binary"
	"strings"
	"time"
)

type chunk struct {
	id   string
	body []byte
}

// chunks splits a RIFF or IFF chunk list. Bodies are padded to an even
// length; a truncated final chunk is returned with what is present.
func chunks(b []byte, order binary.ByteOrder) []chunk {
	var out []chunk
	for pos := 0; pos+8 <= len(b); {
		id := string(b[pos : pos+4])
		size := uint64(order.Uint32(b[pos+4:]))
		body := pos + 8
		if uint64(body)+size > uint64(len(b)) {
			out = append(out, chunk{id: id, body: b[body:]})
			break
		}
		end := body + int(size)
		out = append(out, chunk{id: id, body: b[body:end]})
		pos = end + int(size&1)
	}
	return out
}

const (
	bextDateOffset = 320
	bextTimeOffset = 330
	riffMaxDepth   = 3
)

// ParseRIFF reads WAV and AVI files. The Broadcast Wave bext origination
// date wins over LIST/INFO ICRD and IDIT text.
func ParseRIFF(data []byte) (time.Time, bool) {
	if len(data) < 12 || string(data[:4]) != "RIFF" {
		return time.Time{}, false
	}
	switch string(data[8:12]) {
	case "WAVE", "AVI ":
	default:
		return time.Time{}, false
	}
	var info riffInfo
	info.walk(data[12:], 0)
	if !info.bext.IsZero() {
		return info.bext, true
	}
	for _, id := range []string{"ICRD", "IDIT"} {
		if t, ok := textDate(info.text[id]); ok {
			return t, true
		}
	}
	return time.Time{}, false
}

type riffInfo struct {
	bext time.Time
	text map[string]string
}

func (r *riffInfo) walk(b []byte, depth int) {
	if depth > riffMaxDepth {
		return
	}
	for _, c := range chunks(b, binary.LittleEndian) {
		switch c.id {
		case "bext":
			if t, ok := bextDate(c.body); ok && r.bext.IsZero() {
				r.bext = t
			}
		case "LIST":
			if len(c.body) >= 4 {
				r.walk(c.body[4:], depth+1)
			}
		case "ICRD", "IDIT":
			if r.text == nil {
				r.text = map[string]string{}
			}
			if _, dup := r.text[c.id]; !dup {
				r.text[c.id] = string(c.body)
			}
		}
	}
}

// bextDate reads OriginationDate (yyyy-mm-dd) and OriginationTime
// (hh-mm-ss). Writers disagree on the separators, so any non-digit is
// accepted in their place.
func bextDate(body []byte) (time.Time, bool) {
	if len(body) < bextDateOffset+10 {
		return time.Time{}, false
	}
	date := normalizeSeparators(string(body[bextDateOffset:bextDateOffset+10]), '-')
	if len(body) >= bextTimeOffset+8 {
		clock := normalizeSeparators(string(body[bextTimeOffset:bextTimeOffset+8]), ':')
		if t, ok := ParseDate(date + " " + clock); ok {
			return t, true
		}
	}
	return ParseDate(date)
}

func normalizeSeparators(s string, sep byte) string {
	b := []byte(s)
	for _, i := range []int{len(b) - 3, len(b) - 6} {
		if i > 0 && (b[i] < '0' || b[i] > '9') {
			b[i] = sep
		}
	}
	return strings.TrimSpace(string(b))
}
