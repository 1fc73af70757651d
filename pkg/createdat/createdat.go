package createdat

import (
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path"
	"time"

	"github.com/quidome/capturetime/internal/logging"
	"github.com/quidome/capturetime/pkg/filename"
)

// DetailedResult contains all considered timestamps from different sources.
type DetailedResult struct {
	// Best is the chosen timestamp under DefaultOrder.
	Best Result

	// Metadata is the timestamp extracted from embedded metadata (EXIF, ID3, etc.)
	Metadata time.Time

	// Filename is the timestamp parsed from the filename
	Filename time.Time

	// Birthtime is the creation time reported by the filesystem, if any
	Birthtime time.Time

	// Filestat is the mtime from filesystem metadata
	Filestat time.Time
}

// Options configures an Extractor.
type Options struct {
	// Location is attached to wall-clock timestamps parsed from filenames and
	// embedded metadata, and used to present filesystem times.
	// If nil, time.Local is used.
	Location *time.Location

	// Metadata optionally extracts embedded timestamps.
	//
	// If nil, ContainerMetadata is used.
	Metadata MetadataExtractor

	// BirthTime reads the filesystem creation time. If nil, only what the
	// fs.FileInfo itself carries is used.
	BirthTime BirthTimer

	// Detect is passed to the filename detector.
	Detect filename.Options

	// MaxContentBytes bounds the read for the default metadata extractor.
	MaxContentBytes int64

	// Cache holds per-source results between calls. Nil disables caching.
	Cache *Cache

	Logger *slog.Logger
}

// ExtractOptions controls a single Extract call.
type ExtractOptions struct {
	// Order is the source priority. Empty means DefaultOrder.
	Order []Source

	// IncludeAll evaluates every source in Order and returns them in All.
	IncludeAll bool

	// UseCache consults and fills the Extractor's cache.
	UseCache bool
}

// Extractor arbitrates between timestamp sources for files in one fs.FS.
type Extractor struct {
	fsys   fs.FS
	loc    *time.Location
	meta   MetadataExtractor
	birth  BirthTimer
	detect filename.Options
	cache  *Cache
	logger *slog.Logger
}

func New(fsys fs.FS, opts Options) *Extractor {
	e := &Extractor{
		fsys:   fsys,
		loc:    opts.Location,
		meta:   opts.Metadata,
		birth:  opts.BirthTime,
		detect: opts.Detect,
		cache:  opts.Cache,
		logger: logging.NewComponentLogger(opts.Logger, "createdat"),
	}
	if e.loc == nil {
		e.loc = time.Local
	}
	if e.meta == nil {
		e.meta = ContainerMetadata{MaxBytes: opts.MaxContentBytes}
	}
	if e.birth == nil {
		e.birth = infoBirthTime{}
	}
	return e
}

// NewOS returns an Extractor for the directory tree at root. Birth times are
// read with the platform's native call.
func NewOS(root string, opts Options) *Extractor {
	if opts.BirthTime == nil {
		opts.BirthTime = OSBirthTime{Root: root}
	}
	return New(os.DirFS(root), opts)
}

// Cache returns the Extractor's cache, or nil.
func (e *Extractor) Cache() *Cache {
	return e.cache
}

// Extract determines the creation time of the file at name, a slash-separated
// path inside the Extractor's fs.FS. The bool result is false when no source
// produced a timestamp. Only a missing file or a directory is
// an error; per-source failures mean that source produced nothing.
func (e *Extractor) Extract(name string, eo ExtractOptions) (Extraction, bool, error) {
	name = path.Clean(name)

	info, err := fs.Stat(e.fsys, name)
	if err != nil {
		return Extraction{}, false, err
	}
	if info.IsDir() {
		return Extraction{}, false, &fs.PathError{Op: "extract", Path: name, Err: fs.ErrInvalid}
	}

	order := normalizeOrder(eo.Order)
	fp := fingerprint{size: info.Size(), modTime: info.ModTime()}
	caching := eo.UseCache && e.cache != nil

	var all []Result
	hit := false
	if caching {
		all, hit = e.cache.get(name, fp)
	}
	switch {
	case hit:
		e.logger.Debug("cache hit", logging.FieldPath, name)
	case caching:
		all = e.evaluate(name, info, DefaultOrder, true)
		e.cache.put(name, fp, all)
	default:
		all = e.evaluate(name, info, order, eo.IncludeAll)
	}

	ranked := rank(all, order)
	x := Extraction{Path: name, Best: Result{Source: SourceUnknown}}
	if len(ranked) == 0 {
		return x, false, nil
	}
	x.Best = ranked[0]
	if eo.IncludeAll {
		x.All = ranked
	}
	e.logger.Debug("created-at resolved", logging.FieldPath, name, logging.FieldSource, string(x.Best.Source))
	return x, true, nil
}

// evaluate runs the sources in order. Without all it stops at the first one
// that produces a timestamp.
func (e *Extractor) evaluate(name string, info fs.FileInfo, order []Source, all bool) []Result {
	var out []Result
	for _, s := range order {
		r, ok := e.fromSource(s, name, info)
		if !ok {
			continue
		}
		out = append(out, r)
		if !all {
			break
		}
	}
	return out
}

func (e *Extractor) fromSource(s Source, name string, info fs.FileInfo) (Result, bool) {
	switch s {
	case SourceFilename:
		return e.fromFilename(name)
	case SourceMetadata:
		return e.fromMetadata(name)
	case SourceBirthtime:
		t, ok := e.birth.BirthTime(name, info)
		if !ok || t.IsZero() {
			return Result{}, false
		}
		return Result{Source: SourceBirthtime, CreatedAt: t.In(e.loc), Confidence: BirthtimeConfidence, Precision: precisionOf(t)}, true
	case SourceMtime:
		t := info.ModTime()
		if t.IsZero() {
			return Result{}, false
		}
		return Result{Source: SourceMtime, CreatedAt: t.In(e.loc), Confidence: MtimeConfidence, Precision: precisionOf(t)}, true
	}
	return Result{}, false
}

func (e *Extractor) fromFilename(name string) (Result, bool) {
	c, ok := filename.Best(path.Base(name), e.detect)
	if !ok {
		return Result{}, false
	}
	return Result{
		Source:     SourceFilename,
		CreatedAt:  inLocation(c.Time(), e.loc),
		Confidence: c.Confidence,
		Precision:  c.Precision,
	}, true
}

func (e *Extractor) fromMetadata(name string) (Result, bool) {
	if f, ok := e.meta.(extensionFilter); ok && !f.Supports(path.Ext(name)) {
		return Result{}, false
	}
	t, err := e.readMetadata(name)
	if err != nil {
		e.logger.Debug("metadata unavailable", logging.FieldPath, name, logging.Error(err))
		return Result{}, false
	}
	if t.IsZero() {
		return Result{}, false
	}
	return Result{
		Source:     SourceMetadata,
		CreatedAt:  inLocation(t, e.loc),
		Confidence: MetadataConfidence,
		Precision:  precisionOf(t),
	}, true
}

func (e *Extractor) readMetadata(name string) (time.Time, error) {
	f, err := e.fsys.Open(name)
	if err != nil {
		return time.Time{}, err
	}
	defer f.Close()
	t, ok, err := e.meta.CreatedAt(name, f)
	if err != nil {
		return time.Time{}, fmt.Errorf("metadata %s: %w", name, err)
	}
	if !ok {
		return time.Time{}, nil
	}
	return t, nil
}

// inLocation keeps the wall clock of t and attaches loc.
func inLocation(t time.Time, loc *time.Location) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), t.Hour(), t.Minute(), t.Second(), t.Nanosecond(), loc)
}

func precisionOf(t time.Time) filename.Precision {
	if t.Nanosecond() != 0 {
		return filename.PrecisionMillisecond
	}
	return filename.PrecisionSecond
}

// Determine returns the best-effort created-at timestamp for a path.
func Determine(fsys fs.FS, name string, opts Options) (Result, error) {
	detailed, err := DetermineDetailed(fsys, name, opts)
	if err != nil {
		return Result{}, err
	}
	return detailed.Best, nil
}

// DetermineDetailed returns all considered timestamps for a path.
func DetermineDetailed(fsys fs.FS, name string, opts Options) (DetailedResult, error) {
	x, _, err := New(fsys, opts).Extract(name, ExtractOptions{IncludeAll: true, UseCache: opts.Cache != nil})
	if err != nil {
		return DetailedResult{}, err
	}

	result := DetailedResult{Best: x.Best}
	for _, r := range x.All {
		switch r.Source {
		case SourceMetadata:
			result.Metadata = r.CreatedAt
		case SourceFilename:
			result.Filename = r.CreatedAt
		case SourceBirthtime:
			result.Birthtime = r.CreatedAt
		case SourceMtime:
			result.Filestat = r.CreatedAt
		}
	}
	return result, nil
}
