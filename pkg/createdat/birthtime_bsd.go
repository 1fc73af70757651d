//go:build darwin || freebsd || netbsd

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
	st, ok := info.Sys().(*syscall.Stat_t)
	if !ok || st.Birthtimespec.Sec == 0 {
		return time.Time{}, false
	}
	return time.Unix(int64(st.Birthtimespec.Sec), int64(st.Birthtimespec.Nsec)), true
}

func birthTimeAt(name string) (time.Time, bool) {
	info, err := os.Stat(name)
	if err != nil {
		return time.Time{}, false
	}
	return birthTimeFromInfo(info)
}
