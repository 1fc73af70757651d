//go:build !linux && !darwin && !freebsd && !netbsd && !windows

package createdat

import (
	"io/fs"
	"time"
)

func birthTimeFromInfo(fs.FileInfo) (time.Time, bool) {
	return time.Time{}, false
}

func birthTimeAt(string) (time.Time, bool) {
	return time.Time{}, false
}
