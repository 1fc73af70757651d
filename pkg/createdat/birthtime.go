package createdat

import (
	"io/fs"
	"path/filepath"
	"time"
)

// BirthTimer reports a file's creation time as kept by the filesystem.
type BirthTimer interface {
	BirthTime(path string, info fs.FileInfo) (time.Time, bool)
}

// infoBirthTime reads the birth time out of fs.FileInfo.Sys where the
// platform stat structure carries one.
type infoBirthTime struct{}

func (infoBirthTime) BirthTime(_ string, info fs.FileInfo) (time.Time, bool) {
	return birthTimeFromInfo(info)
}

// OSBirthTime reads birth times of files below Root on the local filesystem.
type OSBirthTime struct {
	Root string
}

func (b OSBirthTime) BirthTime(path string, info fs.FileInfo) (time.Time, bool) {
	if t, ok := birthTimeFromInfo(info); ok {
		return t, true
	}
	return birthTimeAt(filepath.Join(b.Root, filepath.FromSlash(path)))
}
