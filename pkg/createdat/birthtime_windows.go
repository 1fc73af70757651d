//go:build windows

package createdat

import (
	"io/fs"
	"os"
	"syscall"
	"time"
)

func birthTimeFromInfo(info fs.FileInfo) (time.Time, bool) {
	if info == nil {
		return time.Time{}, false
	}
	d, ok := info.Sys().(*syscall.Win32FileAttributeData)
	if !ok {
		return time.Time{}, false
	}
	ns := d.CreationTime.Nanoseconds()
	if ns == 0 {
		return time.Time{}, false
	}
	return time.Unix(0, ns), true
}

func birthTimeAt(name string) (time.Time, bool) {
	info, err := os.Stat(name)
	if err != nil {
		return time.Time{}, false
	}
	return birthTimeFromInfo(info)
}
