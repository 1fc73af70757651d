package createdat

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/quidome/capturetime/pkg/filename"
)

// Source describes where a CreatedAt timestamp was derived from.
type Source string

const (
	SourceFilename  Source = "filename"
	SourceMetadata  Source = "metadata"
	SourceBirthtime Source = "birthtime"
	SourceMtime     Source = "mtime"
	SourceUnknown   Source = "unknown"
)

// DefaultOrder is the source priority used when a caller passes none.
var DefaultOrder = []Source{SourceFilename, SourceMetadata, SourceBirthtime, SourceMtime}

// Fixed confidences for sources that carry no score of their own.
const (
	MetadataConfidence  = 0.95
	BirthtimeConfidence = 0.5
	MtimeConfidence     = 0.2
)

// ParseSource accepts the source names used in configuration and on the
// command line.
func ParseSource(s string) (Source, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "filename", "name":
		return SourceFilename, nil
	case "metadata", "content", "content-metadata":
		return SourceMetadata, nil
	case "birthtime", "btime", "created":
		return SourceBirthtime, nil
	case "mtime", "modtime", "modified":
		return SourceMtime, nil
	}
	return "", fmt.Errorf("unknown source %q", s)
}

// ParseOrder parses a list of source names into a priority order.
func ParseOrder(names []string) ([]Source, error) {
	out := make([]Source, 0, len(names))
	for _, n := range names {
		s, err := ParseSource(n)
		if err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return normalizeOrder(out), nil
}

// normalizeOrder drops unknown and repeated sources. An empty order becomes
// DefaultOrder.
func normalizeOrder(order []Source) []Source {
	seen := map[Source]bool{}
	out := make([]Source, 0, len(order))
	for _, s := range order {
		switch s {
		case SourceFilename, SourceMetadata, SourceBirthtime, SourceMtime:
		default:
			continue
		}
		if !seen[s] {
			seen[s] = true
			out = append(out, s)
		}
	}
	if len(out) == 0 {
		return append([]Source(nil), DefaultOrder...)
	}
	return out
}

// Result is one source's answer for a file.
type Result struct {
	Source     Source
	CreatedAt  time.Time
	Confidence float64
	Precision  filename.Precision
}

// Extraction is the outcome of Extract for one file. All is populated only
// when every source was requested.
type Extraction struct {
	Path string
	Best Result
	All  []Result
}

// Conflict reports the first source in All whose timestamp differs from Best
// by more than threshold.
func (x Extraction) Conflict(threshold time.Duration) (Result, Result, bool) {
	for _, r := range x.All {
		if r.Source == x.Best.Source {
			continue
		}
		if Disagree(x.Best, r, threshold) {
			return x.Best, r, true
		}
	}
	return Result{}, Result{}, false
}

// Disagree reports whether two timestamps for the same file are further
// apart than threshold.
func Disagree(a, b Result, threshold time.Duration) bool {
	d := a.CreatedAt.Sub(b.CreatedAt)
	if d < 0 {
		d = -d
	}
	return d > threshold
}

// rank keeps the results whose source appears in order and sorts them by
// that order.
func rank(all []Result, order []Source) []Result {
	pos := make(map[Source]int, len(order))
	for i, s := range order {
		pos[s] = i
	}
	out := make([]Result, 0, len(all))
	for _, r := range all {
		if _, ok := pos[r.Source]; ok {
			out = append(out, r)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return pos[out[i].Source] < pos[out[j].Source] })
	return out
}

// Rerank applies a new source order to extractions produced with every
// source included. It performs no I/O. Sources missing from order stay in All
// after the ranked ones but never become Best. Extractions without a full
// list are returned unchanged.
func Rerank(batch []Extraction, order []Source) []Extraction {
	order = normalizeOrder(order)
	pos := make(map[Source]int, len(order))
	for i, s := range order {
		pos[s] = i
	}
	out := make([]Extraction, len(batch))
	for i, x := range batch {
		out[i] = x
		if len(x.All) == 0 {
			continue
		}
		all := append([]Result(nil), x.All...)
		sort.SliceStable(all, func(a, b int) bool {
			pa, okA := pos[all[a].Source]
			pb, okB := pos[all[b].Source]
			if okA != okB {
				return okA
			}
			return pa < pb
		})
		out[i].All = all
		out[i].Best = Result{Source: SourceUnknown}
		if _, ok := pos[all[0].Source]; ok {
			out[i].Best = all[0]
		}
	}
	return out
}
