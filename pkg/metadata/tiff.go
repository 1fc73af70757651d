package metadata

import (
	"bytes"
	"time"

	"github.com/rwcarlsen/goexif/exif"
)

// ParseTIFF reads TIFF-based raw containers (DNG, NEF, CR2, ARW, ORF, RW2).
// goexif handles the maker-specific layouts; files it rejects are walked
// directly.
func ParseTIFF(data []byte) (time.Time, bool) {
	if t, ok := goexifTime(data); ok {
		return t, true
	}
	dates, ok := tiffDates(data)
	if !ok {
		return time.Time{}, false
	}
	return dates.Best()
}

// goexifTime returns DateTimeOriginal, DateTimeDigitized or DateTime as
// decoded by goexif from a JPEG or TIFF stream. A panic inside the decoder
// counts as no timestamp.
func goexifTime(data []byte) (t time.Time, ok bool) {
	defer func() {
		if recover() != nil {
			t, ok = time.Time{}, false
		}
	}()
	x, err := exif.Decode(bytes.NewReader(data))
	if err != nil || x == nil {
		return time.Time{}, false
	}
	for _, tag := range []exif.FieldName{exif.DateTimeOriginal, exif.DateTimeDigitized, exif.DateTime} {
		f, err := x.Get(tag)
		if err != nil {
			continue
		}
		s, err := f.StringVal()
		if err != nil {
			continue
		}
		if t, ok := ParseDate(s); ok {
			return t, true
		}
	}
	return time.Time{}, false
}
