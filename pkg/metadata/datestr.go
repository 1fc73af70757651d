package metadata

import (
	"regexp"
	"strings"
	"time"

	"github.com/quidome/capturetime/pkg/validate"
)

// dateLayouts are tried in order. Layouts carrying a zone are parsed for their
// wall clock only; see ParseDate.
var dateLayouts = []string{
	"2006:01:02 15:04:05",
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999999",
	"2006-01-02T15:04:05Z0700",
	"2006-01-02 15:04:05.999999999",
	"2006-01-02 15:04:05Z07:00",
	"2006-01-02 15:04:05 -0700",
	"2006-01-02T15:04Z07:00",
	"2006-01-02T15:04",
	"2006-01-02 15:04",
	"2006-01-02",
	"2006:01:02",
	"2006/01/02 15:04:05",
	"2006/01/02 15:04",
	"2006/01/02",
	"20060102T150405Z0700",
	"20060102T150405",
	"20060102150405",
	"20060102",
	"2006-01",
	"2006",
	time.ANSIC,
	time.UnixDate,
	time.RFC1123Z,
	time.RFC1123,
}

// ParseDate reads the free-form date strings found in container text fields.
// It trims NUL padding, byte-order marks and whitespace, tries a fixed list of
// layouts and rejects years outside the supported range.
//
// The result keeps the wall clock written in the field and is expressed in
// UTC; an explicit zone offset is not applied.
func ParseDate(s string) (time.Time, bool) {
	s = cleanText(s)
	if s == "" {
		return time.Time{}, false
	}
	for _, layout := range dateLayouts {
		t, err := time.Parse(layout, s)
		if err != nil {
			continue
		}
		if !validate.IsValidYear(t.Year()) {
			return time.Time{}, false
		}
		return wallClock(t), true
	}
	return time.Time{}, false
}

// cleanText cuts s at its first NUL and strips a leading BOM and surrounding
// whitespace.
func cleanText(s string) string {
	if i := strings.IndexByte(s, 0); i >= 0 {
		s = s[:i]
	}
	s = strings.TrimPrefix(s, "\ufeff")
	return strings.TrimSpace(s)
}

func wallClock(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), t.Hour(), t.Minute(), t.Second(), t.Nanosecond(), time.UTC)
}

var reEmbeddedDate = regexp.MustCompile(`(\d{4})-(\d{2})-(\d{2})`)

// embeddedDate finds a YYYY-MM-DD substring inside free text such as
// "Recorded 2020-06-01 at home".
func embeddedDate(s string) (time.Time, bool) {
	for _, m := range reEmbeddedDate.FindAllString(s, -1) {
		if t, ok := ParseDate(m); ok {
			return t, true
		}
	}
	return time.Time{}, false
}

// textDate is ParseDate with an embedded-date fallback.
func textDate(s string) (time.Time, bool) {
	if t, ok := ParseDate(s); ok {
		return t, true
	}
	return embeddedDate(s)
}
