package metadata

import (
	"bytes"
	"encoding/binary"
	"strings"
	"time"
)

const (
	oggPageHeaderSize = 27
	oggContinued      = 0x01
	// Comment headers are the second packet of a Vorbis or Opus stream.
	oggMaxPackets = 4
)

var (
	oggCapture      = []byte("OggS")
	vorbisCommentID = []byte("\x03vorbis")
	opusTagsID      = []byte("OpusTags")
)

// vorbisDateKeys are consulted in order.
var vorbisDateKeys = []string{"DATE", "CREATION_TIME"}

// ParseOGG reads the DATE or CREATION_TIME comment of an Ogg Vorbis or Opus
// stream.
func ParseOGG(data []byte) (time.Time, bool) {
	for _, packet := range oggPackets(data, oggMaxPackets) {
		switch {
		case bytes.HasPrefix(packet, vorbisCommentID):
			return vorbisDate(packet[len(vorbisCommentID):])
		case bytes.HasPrefix(packet, opusTagsID):
			return vorbisDate(packet[len(opusTagsID):])
		}
	}
	return time.Time{}, false
}

// oggPackets reassembles up to limit packets from consecutive pages. A packet
// cut short by the end of data is returned as is.
func oggPackets(data []byte, limit int) [][]byte {
	var packets [][]byte
	var cur []byte
	pos := 0
	for len(packets) < limit && pos < len(data) {
		i := bytes.Index(data[pos:], oggCapture)
		if i < 0 {
			break
		}
		page := pos + i
		if page+oggPageHeaderSize > len(data) {
			break
		}
		if data[page+5]&oggContinued == 0 {
			cur = nil
		}
		nseg := int(data[page+26])
		body := page + oggPageHeaderSize + nseg
		if body > len(data) {
			break
		}
		for _, lacing := range data[page+oggPageHeaderSize : body] {
			n := int(lacing)
			if body+n > len(data) {
				cur = append(cur, data[body:]...)
				return append(packets, cur)
			}
			cur = append(cur, data[body:body+n]...)
			body += n
			if n < 255 {
				packets = append(packets, cur)
				cur = nil
				if len(packets) == limit {
					return packets
				}
			}
		}
		pos = body
	}
	return packets
}

// leReader is a bounds-checked little-endian cursor.
type leReader struct {
	b   []byte
	pos int
}

func (r *leReader) u32() (uint32, bool) {
	if r.pos+4 > len(r.b) {
		return 0, false
	}
	v := binary.LittleEndian.Uint32(r.b[r.pos:])
	r.pos += 4
	return v, true
}

func (r *leReader) bytes(n uint32) ([]byte, bool) {
	if uint64(r.pos)+uint64(n) > uint64(len(r.b)) {
		return nil, false
	}
	v := r.b[r.pos : r.pos+int(n)]
	r.pos += int(n)
	return v, true
}

// vorbisComments decodes a comment block: vendor string, then a counted list
// of length-prefixed KEY=value strings. Keys are upper-cased; the first value
// of a repeated key wins.
func vorbisComments(b []byte) map[string]string {
	r := &leReader{b: b}
	vendorLen, ok := r.u32()
	if !ok {
		return nil
	}
	if _, ok := r.bytes(vendorLen); !ok {
		return nil
	}
	count, ok := r.u32()
	if !ok {
		return nil
	}
	out := map[string]string{}
	for i := uint32(0); i < count; i++ {
		n, ok := r.u32()
		if !ok {
			break
		}
		raw, ok := r.bytes(n)
		if !ok {
			break
		}
		key, value, found := strings.Cut(string(raw), "=")
		if !found {
			continue
		}
		key = strings.ToUpper(key)
		if _, dup := out[key]; !dup {
			out[key] = value
		}
	}
	return out
}

func vorbisDate(b []byte) (time.Time, bool) {
	comments := vorbisComments(b)
	for _, key := range vorbisDateKeys {
		if v, ok := comments[key]; ok {
			if t, ok := textDate(v); ok {
				return t, true
			}
		}
	}
	return time.Time{}, false
}
