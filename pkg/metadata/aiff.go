package metadata

import (
	"encoding/binary"
	"time"
)

// aiffTextChunks are consulted in order after any embedded ID3 tag.
var aiffTextChunks = []string{"NAME", "AUTH", "ANNO", "(c) "}

// ParseAIFF reads AIFF and AIFF-C files: an embedded "ID3 " chunk first, then
// dates written into the name, author, annotation or copyright text.
func ParseAIFF(data []byte) (time.Time, bool) {
	if len(data) < 12 || string(data[:4]) != "FORM" {
		return time.Time{}, false
	}
	switch string(data[8:12]) {
	case "AIFF", "AIFC":
	default:
		return time.Time{}, false
	}
	text := map[string][]string{}
	for _, c := range chunks(data[12:], binary.BigEndian) {
		switch c.id {
		case "ID3 ", "id3 ":
			if t, ok := ParseID3(c.body); ok {
				return t, true
			}
		default:
			text[c.id] = append(text[c.id], string(c.body))
		}
	}
	for _, id := range aiffTextChunks {
		for _, s := range text[id] {
			if t, ok := textDate(s); ok {
				return t, true
			}
		}
	}
	return time.Time{}, false
}
