package createdat

import (
	"fmt"
	"io"
	"path"
	"time"

	"github.com/quidome/capturetime/pkg/metadata"
)

// DefaultMaxContentBytes bounds how much of a file the container parsers see.
const DefaultMaxContentBytes = 32 << 20

// MetadataExtractor extracts an embedded creation timestamp from a media stream.
//
// Implementations should return (t, true, nil) when a timestamp is found.
// If no timestamp exists, return (time.Time{}, false, nil).
// Errors are treated as best-effort failures by the Extractor.
type MetadataExtractor interface {
	CreatedAt(path string, r io.Reader) (time.Time, bool, error)
}

// extensionFilter is implemented by extractors that only understand some
// file types. The Extractor does not open files they decline.
type extensionFilter interface {
	Supports(ext string) bool
}

// ContainerMetadata reads embedded timestamps with the container parsers
// registered in package metadata. Seekable files in containers with a seeking
// parser (MP4 and QuickTime) are read atom by atom instead of as a prefix.
type ContainerMetadata struct {
	// MaxBytes limits the read. Zero means DefaultMaxContentBytes.
	MaxBytes int64
}

func (c ContainerMetadata) Supports(ext string) bool {
	_, ok := metadata.ForExtension(ext)
	return ok
}

func (c ContainerMetadata) CreatedAt(name string, r io.Reader) (time.Time, bool, error) {
	parse, ok := metadata.ForExtension(path.Ext(name))
	if !ok {
		return time.Time{}, false, nil
	}
	limit := c.MaxBytes
	if limit <= 0 {
		limit = DefaultMaxContentBytes
	}
	if rs, ok := r.(io.ReadSeeker); ok {
		if seek, ok := metadata.SeekerForExtension(path.Ext(name)); ok {
			t, found, err := seek(rs, limit)
			if err != nil {
				return time.Time{}, false, fmt.Errorf("read %s: %w", name, err)
			}
			return t, found, nil
		}
	}
	data, err := io.ReadAll(io.LimitReader(r, limit))
	if err != nil {
		return time.Time{}, false, fmt.Errorf("read %s: %w", name, err)
	}
	t, ok := parse(data)
	return t, ok, nil
}
