package filename

import (
	"fmt"
	"sort"

	"github.com/quidome/capturetime/pkg/validate"
)

// combine merges a date with the clock that follows it and promotes
// minute-precision date-times that are followed by their own HHMMSS.
func (d *detector) combine(cands []Candidate) []Candidate {
	sort.SliceStable(cands, func(i, j int) bool { return cands[i].Start < cands[j].Start })

	used := make([]bool, len(cands))
	out := make([]Candidate, 0, len(cands))
	for i := range cands {
		if used[i] {
			continue
		}
		used[i] = true
		c := cands[i]
		if c.Has(dateFields) && !c.HasTime() {
			for j := i + 1; j < len(cands); j++ {
				t := cands[j]
				if used[j] || t.Has(FieldYear) || !t.HasTime() {
					continue
				}
				if d.gapOK(c.End, t.Start) {
					c = mergeDateTime(c, t)
					used[j] = true
					break
				}
			}
		}
		out = append(out, c)
	}

	consumed := map[int]span{}
	for i := range out {
		if promoted, run, ok := d.promoteSeconds(out[i]); ok {
			out[i] = promoted
			consumed[i] = run
		}
	}
	if len(consumed) == 0 {
		return out
	}
	kept := make([]Candidate, 0, len(out))
	for i, c := range out {
		drop := false
		for owner, s := range consumed {
			if owner != i && s.overlaps(c.Start, c.End) {
				drop = true
				break
			}
		}
		if !drop {
			kept = append(kept, c)
		}
	}
	return kept
}

func mergeDateTime(date, clock Candidate) Candidate {
	m := withClock(date, clock)
	m.Kind = KindMerged
	m.dateKind = date.Kind
	if len(date.Alternatives) > 0 {
		m.Alternatives = make([]Candidate, 0, len(date.Alternatives))
		for _, alt := range date.Alternatives {
			a := withClock(alt, clock)
			a.Kind = KindMerged
			a.dateKind = alt.Kind
			m.Alternatives = append(m.Alternatives, a)
		}
	}
	return m
}

func withClock(date, clock Candidate) Candidate {
	m := date
	m.Hour, m.Minute, m.Second, m.Millisecond = clock.Hour, clock.Minute, clock.Second, clock.Millisecond
	m.Defined = date.Defined | clock.Defined&timeFields
	m.End = clock.End
	m.Zone = clock.Zone
	m.Precision = m.Components.Precision()
	return m
}

// promoteSeconds handles "2024-08-15 10.30 103045": a date-time to the minute
// followed by a six digit run repeating its hour and minute.
func (d *detector) promoteSeconds(c Candidate) (Candidate, span, bool) {
	if !c.Has(dateFields|FieldHour|FieldMinute) || c.Has(FieldSecond) {
		return c, span{}, false
	}
	prefix := fmt.Sprintf("%02d%02d", c.Hour, c.Minute)
	for _, r := range d.runs {
		if r.len() != 6 || r.start < c.End || !d.gapOK(c.End, r.start) {
			continue
		}
		if r.text[:4] != prefix {
			continue
		}
		sec := r.value(4, 6)
		if !validate.IsValidSecond(sec) {
			continue
		}
		c.Second = sec
		c.Defined |= FieldSecond
		c.End = r.end
		c.Precision = c.Components.Precision()
		return c, span{start: r.start, end: r.end}, true
	}
	return c, span{}, false
}
