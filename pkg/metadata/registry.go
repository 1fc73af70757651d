package metadata

import (
	"io"
	"sort"
	"strings"
	"time"
)

// Parser extracts a timestamp from a complete or leading portion of a file.
// Absence and malformed input both report false.
type Parser func(data []byte) (time.Time, bool)

var registry = map[string]Parser{
	".jpg":  ParseEXIF,
	".jpeg": ParseEXIF,
	".jpe":  ParseEXIF,
	".jfif": ParseEXIF,

	".tif":  ParseTIFF,
	".tiff": ParseTIFF,
	".dng":  ParseTIFF,
	".nef":  ParseTIFF,
	".cr2":  ParseTIFF,
	".arw":  ParseTIFF,
	".orf":  ParseTIFF,
	".rw2":  ParseTIFF,

	".mp3": ParseID3,

	".mp4": ParseMP4,
	".m4a": ParseMP4,
	".m4b": ParseMP4,
	".m4v": ParseMP4,
	".mov": ParseMP4,
	".3gp": ParseMP4,

	".ogg":  ParseOGG,
	".oga":  ParseOGG,
	".opus": ParseOGG,

	".flac": ParseFLAC,

	".wav": ParseRIFF,
	".avi": ParseRIFF,

	".aif":  ParseAIFF,
	".aiff": ParseAIFF,
	".aifc": ParseAIFF,
}

// SeekParser reads only the parts of a file it needs from r, never more than
// limit bytes in one piece.
type SeekParser func(r io.ReadSeeker, limit int64) (time.Time, bool, error)

var seekRegistry = map[string]SeekParser{
	".mp4": ParseMovieBox,
	".m4a": ParseMovieBox,
	".m4b": ParseMovieBox,
	".m4v": ParseMovieBox,
	".mov": ParseMovieBox,
	".3gp": ParseMovieBox,
}

// SeekerForExtension returns the seeking parser registered for ext, if the
// container has one. Like ForExtension, the parser never panics.
func SeekerForExtension(ext string) (SeekParser, bool) {
	p, ok := seekRegistry[normalizeExt(ext)]
	if !ok {
		return nil, false
	}
	return func(r io.ReadSeeker, limit int64) (t time.Time, found bool, err error) {
		defer func() {
			if recover() != nil {
				t, found, err = time.Time{}, false, nil
			}
		}()
		return p(r, limit)
	}, true
}

func normalizeExt(ext string) string {
	ext = strings.ToLower(strings.TrimSpace(ext))
	if ext != "" && !strings.HasPrefix(ext, ".") {
		ext = "." + ext
	}
	return ext
}

// ForExtension returns the parser registered for ext. The lookup is
// case-insensitive and the leading dot is optional. The returned parser
// never panics.
func ForExtension(ext string) (Parser, bool) {
	p, ok := registry[normalizeExt(ext)]
	if !ok {
		return nil, false
	}
	return guarded(p), true
}

// Parse runs the parser registered for ext over data.
func Parse(ext string, data []byte) (time.Time, bool) {
	p, ok := ForExtension(ext)
	if !ok {
		return time.Time{}, false
	}
	return p(data)
}

// Extensions lists every extension with a registered parser, sorted.
func Extensions() []string {
	out := make([]string, 0, len(registry))
	for ext := range registry {
		out = append(out, ext)
	}
	sort.Strings(out)
	return out
}

// guarded turns a panic in p into a "not found" result.
func guarded(p Parser) Parser {
	return func(data []byte) (t time.Time, ok bool) {
		defer func() {
			if recover() != nil {
				t, ok = time.Time{}, false
			}
		}()
		return p(data)
	}
}
