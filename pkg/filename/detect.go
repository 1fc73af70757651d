package filename

import (
	"strings"

	"github.com/quidome/capturetime/pkg/validate"
)

// detector carries the per-call scan state. Scanners run in a fixed order and
// claim the byte ranges they consume so later scanners skip them.
type detector struct {
	name  string
	limit int
	opts  Options

	runs      []digitRun
	blacklist []span
	claims    []span
	found     []Candidate
}

// Detect returns every plausible timestamp in name, best first. An empty
// result is the normal outcome for names without dates.
func Detect(name string, opts Options) []Candidate {
	d := &detector{
		name:  name,
		limit: extensionStart(name),
		opts:  opts,
		runs:  segment(name),
	}
	d.blacklist = blacklistRanges(name)

	d.scanPatterns()
	d.scanISO()
	d.scanMonthNames()
	d.scanSpokenTime()
	d.scanSeparated()
	d.scanCompact()

	cands := d.dropBlacklisted(d.found)
	cands = d.combine(cands)
	cands = dated(cands)
	if len(cands) == 0 {
		return nil
	}
	d.score(cands)
	return rank(cands)
}

// Best returns the top candidate. Its Alternatives hold its own ambiguous
// readings followed by every other candidate in rank order.
func Best(name string, opts Options) (Candidate, bool) {
	cands := Detect(name, opts)
	if len(cands) == 0 {
		return Candidate{}, false
	}
	top := cands[0]
	alts := make([]Candidate, 0, len(top.Alternatives)+len(cands)-1)
	alts = append(alts, top.Alternatives...)
	alts = append(alts, cands[1:]...)
	top.Alternatives = alts
	return top, true
}

// emit validates c, records it and claims its range. It reports whether c
// was accepted.
func (d *detector) emit(c Candidate) bool {
	if c.Defined == 0 || !c.valid() {
		return false
	}
	c.Precision = c.Components.Precision()
	d.found = append(d.found, c)
	d.claims = append(d.claims, span{start: c.Start, end: c.End})
	return true
}

func (d *detector) claimed(start, end int) bool {
	for _, s := range d.claims {
		if s.overlaps(start, end) {
			return true
		}
	}
	return false
}

func (d *detector) runStartingAt(pos int) (digitRun, bool) {
	for _, r := range d.runs {
		if r.start == pos && !d.claimed(r.start, r.end) {
			return r, true
		}
	}
	return digitRun{}, false
}

func (d *detector) runEndingAt(pos int) (digitRun, bool) {
	for _, r := range d.runs {
		if r.end == pos && !d.claimed(r.start, r.end) {
			return r, true
		}
	}
	return digitRun{}, false
}

// gapOK reports whether name[from:to] is a short run of date/time separators
// or the " at " join of messaging app names.
func (d *detector) gapOK(from, to int) bool {
	if to < from {
		return false
	}
	if isAtJoin(d.name[from:to]) {
		return true
	}
	if to-from > 3 {
		return false
	}
	for i := from; i < to; i++ {
		if !isGapByte(d.name[i]) {
			return false
		}
	}
	return true
}

// isAtJoin matches "at" between two separators, as in
// "WhatsApp Image 2024-08-15 at 10.30.45".
func isAtJoin(gap string) bool {
	return len(gap) == 4 && isAtSeparator(gap[0]) && isAtSeparator(gap[3]) && strings.EqualFold(gap[1:3], "at")
}

func isAtSeparator(c byte) bool {
	return c == ' ' || c == '_' || c == '-' || c == '.'
}

// datePrecedes reports whether a date without a clock ends just before pos.
func (d *detector) datePrecedes(pos int) bool {
	for _, c := range d.found {
		if c.Has(dateFields) && !c.HasTime() && d.gapOK(c.End, pos) {
			return true
		}
	}
	return false
}

// dated drops clock-only fragments that never found a date to merge with.
func dated(cands []Candidate) []Candidate {
	out := cands[:0]
	for _, c := range cands {
		if c.Has(FieldYear) {
			out = append(out, c)
		}
	}
	return out
}

func (d *detector) scanPatterns() {
	for _, p := range d.opts.Patterns {
		if p.Expr == nil {
			continue
		}
		for _, loc := range p.Expr.FindAllStringSubmatchIndex(d.name, -1) {
			if d.claimed(loc[0], loc[1]) {
				continue
			}
			c, ok := patternCandidate(d.name, p, loc)
			if !ok {
				continue
			}
			d.emit(c)
		}
	}
}

func patternCandidate(name string, p Pattern, loc []int) (Candidate, bool) {
	c := Candidate{Kind: KindCustom, Start: loc[0], End: loc[1], Confidence: p.Confidence}
	group := func(label string) (int, bool) {
		i := p.Expr.SubexpIndex(label)
		if i < 0 || loc[2*i] < 0 {
			return 0, false
		}
		text := name[loc[2*i]:loc[2*i+1]]
		if text == "" {
			return 0, false
		}
		for j := 0; j < len(text); j++ {
			if !isDigit(text[j]) {
				return 0, false
			}
		}
		return atoi(text), true
	}

	year, ok := group("year")
	if !ok {
		return Candidate{}, false
	}
	if year < 100 {
		year = validate.ExpandTwoDigitYear(year)
	}
	c.Year = year
	c.Defined = FieldYear
	fields := []struct {
		label string
		field Field
		dst   *int
	}{
		{"month", FieldMonth, &c.Month},
		{"day", FieldDay, &c.Day},
		{"hour", FieldHour, &c.Hour},
		{"minute", FieldMinute, &c.Minute},
		{"second", FieldSecond, &c.Second},
		{"ms", FieldMillisecond, &c.Millisecond},
	}
	for _, f := range fields {
		if v, ok := group(f.label); ok {
			*f.dst = v
			c.Defined |= f.field
		}
	}
	return c, true
}
