//go:build linux

package createdat

import (
	"io/fs"
	"time"

	"golang.org/x/sys/unix"
)

// Linux keeps btime out of stat(2); only statx reports it.
func birthTimeFromInfo(fs.FileInfo) (time.Time, bool) {
	return time.Time{}, false
}

func birthTimeAt(name string) (time.Time, bool) {
	var stx unix.Statx_t
	if err := unix.Statx(unix.AT_FDCWD, name, unix.AT_STATX_SYNC_AS_STAT, unix.STATX_BTIME, &stx); err != nil {
		return time.Time{}, false
	}
	if stx.Mask&unix.STATX_BTIME == 0 || stx.Btime.Sec == 0 {
		return time.Time{}, false
	}
	return time.Unix(stx.Btime.Sec, int64(stx.Btime.Nsec)), true
}
