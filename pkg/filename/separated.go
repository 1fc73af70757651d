package filename

import "github.com/quidome/capturetime/pkg/validate"

// joinedBy returns the separator between two adjacent runs, if they are
// joined by exactly one separator byte.
func (d *detector) joinedBy(a, b digitRun) (byte, bool) {
	if b.start != a.end+1 {
		return 0, false
	}
	sep := d.name[a.end]
	if !isSeparatedJoin(sep) {
		return 0, false
	}
	return sep, true
}

func (d *detector) scanSeparated() {
	runs := d.runs
	for i := 0; i < len(runs); i++ {
		if d.claimed(runs[i].start, runs[i].end) {
			continue
		}
		if i+2 < len(runs) {
			sep, ok := d.joinedBy(runs[i], runs[i+1])
			sep2, ok2 := d.joinedBy(runs[i+1], runs[i+2])
			if ok && ok2 && sep == sep2 && !d.claimed(runs[i].start, runs[i+2].end) {
				if d.separatedTriple(runs[i], runs[i+1], runs[i+2], sep) {
					i += 2
					continue
				}
				// An invalid date-shaped triple is claimed whole so none of its
				// runs resurfaces as a year or year-month fragment.
				if dateShaped(runs[i], runs[i+1], runs[i+2]) {
					d.claims = append(d.claims, span{start: runs[i].start, end: runs[i+2].end})
					i += 2
					continue
				}
			}
		}
		if i+1 < len(runs) {
			sep, ok := d.joinedBy(runs[i], runs[i+1])
			if ok && !d.claimed(runs[i].start, runs[i+1].end) {
				if d.separatedPair(runs[i], runs[i+1], sep) {
					i++
					continue
				}
			}
		}
	}
}

func (d *detector) separatedTriple(a, b, c digitRun, sep byte) bool {
	la, lb, lc := a.len(), b.len(), c.len()
	switch {
	case la == 4 && lb == 2 && lc == 2:
		cand := Candidate{Kind: KindSeparatedYMD, Start: a.start, End: c.end}
		cand.Year, cand.Month, cand.Day = a.int(), b.int(), c.int()
		cand.Defined = dateFields
		return d.emit(cand)

	case la == 2 && lb == 2 && lc == 4:
		return d.emitDayMonth(a.int(), b.int(), c.int(), KindSeparatedDMY, a.start, c.end)

	case la == 2 && lb == 2 && lc == 2:
		h, m, s := a.int(), b.int(), c.int()
		if validate.IsValidTime(h, m, s) {
			return d.emitTime(h, m, s, KindSeparatedTime, a.start, c.end)
		}
		if sep == ':' {
			return false
		}
		return d.shortDate(a.int(), b.int(), c.int(), a.start, c.end)
	}
	return false
}

// dateShaped reports whether three runs have the 4-2-2 or 2-2-4 layout of a
// full separated date.
func dateShaped(a, b, c digitRun) bool {
	la, lb, lc := a.len(), b.len(), c.len()
	return (la == 4 && lb == 2 && lc == 2) || (la == 2 && lb == 2 && lc == 4)
}

func (d *detector) separatedPair(a, b digitRun, sep byte) bool {
	la, lb := a.len(), b.len()
	switch {
	case la == 4 && lb == 2 && sep != ':':
		cand := Candidate{Kind: KindYearMonth, Start: a.start, End: b.end}
		cand.Year, cand.Month = a.int(), b.int()
		cand.Defined = FieldYear | FieldMonth
		return d.emit(cand)
	case la == 2 && lb == 4 && sep != ':':
		cand := Candidate{Kind: KindYearMonth, Start: a.start, End: b.end}
		cand.Month, cand.Year = a.int(), b.int()
		cand.Defined = FieldYear | FieldMonth
		return d.emit(cand)
	case la == 2 && lb == 2 && sep == ':':
		cand := Candidate{Kind: KindSeparatedTime, Start: a.start, End: b.end}
		cand.Hour, cand.Minute = a.int(), b.int()
		cand.Defined = FieldHour | FieldMinute
		return d.emit(cand)
	}
	return false
}

func (d *detector) emitTime(h, m, s int, kind Kind, start, end int) bool {
	cand := Candidate{Kind: kind, Start: start, End: end}
	cand.Hour, cand.Minute, cand.Second = h, m, s
	cand.Defined = FieldHour | FieldMinute | FieldSecond
	return d.emit(cand)
}

// emitDayMonth handles the day/month ambiguity of "01-02-2023" and
// "01022023". When both readings are valid the preferred one is emitted with
// the other kept as an alternative.
func (d *detector) emitDayMonth(first, second, year int, kind Kind, start, end int) bool {
	dayFirst := Candidate{Kind: kind, Start: start, End: end}
	dayFirst.Day, dayFirst.Month, dayFirst.Year = first, second, year
	dayFirst.Defined = dateFields

	monthFirst := dayFirst
	monthFirst.Month, monthFirst.Day = first, second

	return d.emitEither(dayFirst, monthFirst)
}

// emitEither emits whichever of the day-first and month-first readings is
// valid, or both as one ambiguous candidate ordered by DateOrder.
func (d *detector) emitEither(dayFirst, monthFirst Candidate) bool {
	dmy := dayFirst.valid()
	mdy := monthFirst.valid()
	switch {
	case dmy && mdy && dayFirst.Components == monthFirst.Components:
		return d.emit(dayFirst)
	case dmy && mdy:
		primary, alt := dayFirst, monthFirst
		if d.opts.DateOrder == MonthFirst {
			primary, alt = monthFirst, dayFirst
		}
		primary.Ambiguous, alt.Ambiguous = true, true
		alt.Precision = alt.Components.Precision()
		primary.Alternatives = []Candidate{alt}
		primary.preferred = true
		return d.emit(primary)
	case dmy:
		return d.emit(dayFirst)
	case mdy:
		return d.emit(monthFirst)
	}
	return false
}

// shortDate reads three two-digit groups as a date with a two-digit year.
// The year position is whichever group cannot be a day; when neither end
// rules itself out, year-month-day wins.
func (d *detector) shortDate(a, b, c int, start, end int) bool {
	kind := KindSeparatedShortDate
	ymd := Candidate{Kind: kind, Start: start, End: end}
	ymd.Year, ymd.Month, ymd.Day = validate.ExpandTwoDigitYear(a), b, c
	ymd.Defined = dateFields

	dayFirst := Candidate{Kind: kind, Start: start, End: end}
	dayFirst.Day, dayFirst.Month, dayFirst.Year = a, b, validate.ExpandTwoDigitYear(c)
	dayFirst.Defined = dateFields
	monthFirst := dayFirst
	monthFirst.Month, monthFirst.Day = a, b

	switch {
	case a > 31 || a == 0:
		return d.emit(ymd)
	case c > 31 || c == 0:
		return d.emitEither(dayFirst, monthFirst)
	}
	if ymd.valid() {
		alt := dayFirst
		if d.opts.DateOrder == MonthFirst {
			alt = monthFirst
		}
		if alt.valid() {
			ymd.Ambiguous, alt.Ambiguous = true, true
			alt.Precision = alt.Components.Precision()
			ymd.Alternatives = []Candidate{alt}
		}
		return d.emit(ymd)
	}
	return d.emitEither(dayFirst, monthFirst)
}
