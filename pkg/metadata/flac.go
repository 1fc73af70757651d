package metadata

import (
	"time"
)

const (
	flacBlockVorbisComment = 4
	flacLastBlock          = 0x80
)

// ParseFLAC reads the DATE comment from a FLAC stream's VORBIS_COMMENT
// metadata block. An ID3v2 tag prepended to the stream is skipped.
func ParseFLAC(data []byte) (time.Time, bool) {
	data = skipID3(data)
	if len(data) < 4 || string(data[:4]) != "fLaC" {
		return time.Time{}, false
	}
	pos := 4
	for pos+4 <= len(data) {
		header := data[pos]
		size := int(data[pos+1])<<16 | int(data[pos+2])<<8 | int(data[pos+3])
		body := pos + 4
		if body+size > len(data) {
			return time.Time{}, false
		}
		if header&^flacLastBlock == flacBlockVorbisComment {
			return vorbisDate(data[body : body+size])
		}
		if header&flacLastBlock != 0 {
			break
		}
		pos = body + size
	}
	return time.Time{}, false
}

// skipID3 returns data past a leading ID3v2 tag, or data unchanged.
func skipID3(data []byte) []byte {
	if len(data) < id3HeaderSize || string(data[:3]) != "ID3" {
		return data
	}
	size, ok := syncsafe(data[6:10])
	if !ok {
		return data
	}
	end := id3HeaderSize + int(size)
	if data[5]&0x10 != 0 {
		end += id3HeaderSize // footer
	}
	if end > len(data) {
		return nil
	}
	return data[end:]
}
