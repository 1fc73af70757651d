package scan

import (
	"errors"
	"io/fs"
	"reflect"
	"testing"
	"testing/fstest"
)

func TestScan_MaxDepth(t *testing.T) {
	fsys := fstest.MapFS{
		"root/a.jpg":            &fstest.MapFile{Data: []byte("a")},
		"root/b.MP4":            &fstest.MapFile{Data: []byte("b")},
		"root/c.txt":            &fstest.MapFile{Data: []byte("c")},
		"root/sub/d.png":        &fstest.MapFile{Data: []byte("d")},
		"root/sub/nested/e.mov": &fstest.MapFile{Data: []byte("e")},
	}

	testCases := []struct {
		name     string
		maxDepth int
		want     []string
	}{
		{
			name:     "depth 0 includes only top-level",
			maxDepth: 0,
			want:     []string{"a.jpg", "b.MP4"},
		},
		{
			name:     "depth 1 includes one subdirectory",
			maxDepth: 1,
			want:     []string{"a.jpg", "b.MP4", "sub/d.png"},
		},
		{
			name:     "depth 2 includes nested subdirectories",
			maxDepth: 2,
			want:     []string{"a.jpg", "b.MP4", "sub/d.png", "sub/nested/e.mov"},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			opts := DefaultOptions()
			opts.MaxDepth = tc.maxDepth

			got, err := Scan(fsys, "root", opts)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}

			if !reflect.DeepEqual(got, tc.want) {
				t.Fatalf("unexpected result\n got: %#v\nwant: %#v", got, tc.want)
			}
		})
	}
}

func TestScan_IgnoresNonMedia(t *testing.T) {
	fsys := fstest.MapFS{
		"root/a.txt": &fstest.MapFile{Data: []byte("a")},
		"root/b.xmp": &fstest.MapFile{Data: []byte("b")},
	}

	opts := DefaultOptions()
	got, err := Scan(fsys, "root", opts)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(got) != 0 {
		t.Fatalf("expected no media files, got %#v", got)
	}
}

func TestScan_InvalidMaxDepth(t *testing.T) {
	fsys := fstest.MapFS{}

	opts := DefaultOptions()
	opts.MaxDepth = -2

	_, err := Scan(fsys, "root", opts)
	if err == nil {
		t.Fatalf("expected error, got nil")
	}
}

func TestScanRecords_Kinds(t *testing.T) {
	fsys := fstest.MapFS{
		"root/a.jpg":    &fstest.MapFile{Data: []byte("a")},
		"root/b.flac":   &fstest.MapFile{Data: []byte("bb")},
		"root/c.MOV":    &fstest.MapFile{Data: []byte("ccc")},
		"root/d.opus":   &fstest.MapFile{Data: []byte("d")},
		"root/notes.md": &fstest.MapFile{Data: []byte("n")},
	}

	got, err := ScanRecords(fsys, "root", DefaultOptions())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	want := map[string]Kind{"a.jpg": KindPhoto, "b.flac": KindAudio, "c.MOV": KindVideo, "d.opus": KindAudio}
	if len(got) != len(want) {
		t.Fatalf("unexpected records: %#v", got)
	}
	for _, r := range got {
		if want[r.Path] != r.Kind {
			t.Fatalf("%s: got kind %q, want %q", r.Path, r.Kind, want[r.Path])
		}
	}
	if got[1].FileSizeBytes != 2 {
		t.Fatalf("expected size 2 for b.flac, got %d", got[1].FileSizeBytes)
	}
}

func TestScan_IncludeExclude(t *testing.T) {
	fsys := fstest.MapFS{
		"root/2024/a.jpg":             &fstest.MapFile{Data: []byte("a")},
		"root/2024/b.mp3":             &fstest.MapFile{Data: []byte("b")},
		"root/2024/.thumbnails/a.jpg": &fstest.MapFile{Data: []byte("t")},
		"root/2023/c.jpg":             &fstest.MapFile{Data: []byte("c")},
		"root/2023/skip_me.jpg":       &fstest.MapFile{Data: []byte("s")},
	}

	testCases := []struct {
		name    string
		include []string
		exclude []string
		want    []string
	}{
		{
			name: "no patterns",
			want: []string{"2023/c.jpg", "2023/skip_me.jpg", "2024/.thumbnails/a.jpg", "2024/a.jpg", "2024/b.mp3"},
		},
		{
			name:    "exclude directory",
			exclude: []string{"**/.thumbnails"},
			want:    []string{"2023/c.jpg", "2023/skip_me.jpg", "2024/a.jpg", "2024/b.mp3"},
		},
		{
			name:    "include and exclude files",
			include: []string{"**/*.jpg"},
			exclude: []string{"**/.thumbnails", "**/skip_*"},
			want:    []string{"2023/c.jpg", "2024/a.jpg"},
		},
		{
			name:    "include one year",
			include: []string{"2024/*"},
			want:    []string{"2024/a.jpg", "2024/b.mp3"},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			opts := DefaultOptions()
			opts.Include = tc.include
			opts.Exclude = tc.exclude

			got, err := Scan(fsys, "root", opts)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if !reflect.DeepEqual(got, tc.want) {
				t.Fatalf("unexpected result\n got: %#v\nwant: %#v", got, tc.want)
			}
		})
	}
}

func TestScan_InvalidPattern(t *testing.T) {
	opts := DefaultOptions()
	opts.Include = []string{"[a-"}

	_, err := Scan(fstest.MapFS{}, "root", opts)
	if !errors.Is(err, fs.ErrInvalid) {
		t.Fatalf("expected fs.ErrInvalid, got %v", err)
	}
}
