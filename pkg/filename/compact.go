package filename

import (
	"strings"
	"time"

	"github.com/quidome/capturetime/pkg/validate"
)

// indexWords precede counters and frame numbers rather than years.
var indexWords = map[string]bool{
	"frame": true, "frames": true, "page": true, "p": true, "part": true, "pt": true,
	"track": true, "tr": true, "episode": true, "ep": true, "no": true, "num": true,
	"nr": true, "img": true, "dsc": true, "dscn": true, "dscf": true, "file": true,
	"scene": true, "shot": true, "take": true, "chapter": true, "ch": true,
	"vol": true, "disc": true, "cd": true, "seq": true, "v": true, "id": true,
	"item": true, "index": true, "idx": true, "clip": true,
}

// unitSuffixes follow resolutions, rates and sizes rather than years.
var unitSuffixes = map[string]bool{
	"p": true, "i": true, "px": true, "fps": true, "k": true, "x": true, "hz": true,
	"khz": true, "kbps": true, "mbps": true, "kb": true, "mb": true, "gb": true,
	"bit": true, "bits": true, "ms": true,
}

func (d *detector) scanCompact() {
	for _, r := range d.runs {
		if d.claimed(r.start, r.end) {
			continue
		}
		switch r.len() {
		case 14:
			d.compactDateTime(r, true)
		case 12:
			d.compactDateTime(r, false)
		case 9:
			d.compactTimeMillis(r)
		case 8:
			d.compact8(r)
		case 6:
			d.compact6(r)
		case 4:
			d.compact4(r)
		case 10, 13, 16:
			d.epoch(r)
		}
	}
}

func (d *detector) compactDateTime(r digitRun, seconds bool) bool {
	kind := KindCompact12
	if seconds {
		kind = KindCompact14
	}
	c := Candidate{Kind: kind, Start: r.start, End: r.end}
	c.Year, c.Month, c.Day = r.value(0, 4), r.value(4, 6), r.value(6, 8)
	c.Hour, c.Minute = r.value(8, 10), r.value(10, 12)
	c.Defined = dateFields | FieldHour | FieldMinute
	if seconds {
		c.Second = r.value(12, 14)
		c.Defined |= FieldSecond
	}
	return d.emit(c)
}

// compactTimeMillis reads HHMMSSmmm, the clock half of Pixel camera names.
func (d *detector) compactTimeMillis(r digitRun) bool {
	if !d.datePrecedes(r.start) {
		return false
	}
	c := Candidate{Kind: KindCompact9Time, Start: r.start, End: r.end}
	c.Hour, c.Minute, c.Second, c.Millisecond = r.value(0, 2), r.value(2, 4), r.value(4, 6), r.value(6, 9)
	c.Defined = timeFields
	return d.emit(c)
}

func (d *detector) compact8(r digitRun) bool {
	c := Candidate{Kind: KindCompact8, Start: r.start, End: r.end}
	c.Year, c.Month, c.Day = r.value(0, 4), r.value(4, 6), r.value(6, 8)
	c.Defined = dateFields
	if d.emit(c) {
		return true
	}
	return d.emitDayMonth(r.value(0, 2), r.value(2, 4), r.value(4, 8), KindCompact8, r.start, r.end)
}

func (d *detector) compact6(r digitRun) bool {
	h, m, s := r.value(0, 2), r.value(2, 4), r.value(4, 6)
	if d.datePrecedes(r.start) && validate.IsValidTime(h, m, s) {
		return d.emitTime(h, m, s, KindCompact6Time, r.start, r.end)
	}

	ym := Candidate{Kind: KindCompact6YearMonth, Start: r.start, End: r.end}
	ym.Year, ym.Month = r.value(0, 4), r.value(4, 6)
	ym.Defined = FieldYear | FieldMonth
	if d.opts.epochYears().contains(ym.Year) && d.emit(ym) {
		return true
	}

	if !degenerate(r.text) {
		ymd := Candidate{Kind: KindCompact6Date, Start: r.start, End: r.end}
		ymd.Year, ymd.Month, ymd.Day = validate.ExpandTwoDigitYear(r.value(0, 2)), r.value(2, 4), r.value(4, 6)
		ymd.Defined = dateFields

		dayFirst := ymd
		dayFirst.Day, dayFirst.Month, dayFirst.Year = r.value(0, 2), r.value(2, 4), validate.ExpandTwoDigitYear(r.value(4, 6))
		monthFirst := dayFirst
		monthFirst.Month, monthFirst.Day = r.value(0, 2), r.value(2, 4)
		alt := dayFirst
		if d.opts.DateOrder == MonthFirst {
			alt = monthFirst
		}

		// YYMMDD wins ties; the alternative reading is kept for callers.
		if ymd.valid() {
			if alt.valid() {
				ymd.Ambiguous, alt.Ambiguous = true, true
				alt.Precision = alt.Components.Precision()
				ymd.Alternatives = []Candidate{alt}
			}
			return d.emit(ymd)
		}
		if d.emitEither(dayFirst, monthFirst) {
			return true
		}
	}

	if validate.IsValidTime(h, m, s) {
		return d.emitTime(h, m, s, KindCompact6Time, r.start, r.end)
	}
	return false
}

// degenerate rejects runs like 000000, 111111, 123456 and 654321.
func degenerate(s string) bool {
	same, up, down := true, true, true
	for i := 1; i < len(s); i++ {
		if s[i] != s[0] {
			same = false
		}
		if s[i] != s[i-1]+1 {
			up = false
		}
		if s[i] != s[i-1]-1 {
			down = false
		}
	}
	return same || up || down
}

func (d *detector) compact4(r digitRun) bool {
	h, m := r.value(0, 2), r.value(2, 4)
	year := r.int()
	inWindow := validate.IsValidYear(year) && d.opts.epochYears().contains(year)
	// "2024-08-15_2024" carries a year, not 20:24.
	if !inWindow && d.datePrecedes(r.start) && validate.IsValidHour(h) && validate.IsValidMinute(m) {
		c := Candidate{Kind: KindCompact4Time, Start: r.start, End: r.end}
		c.Hour, c.Minute = h, m
		c.Defined = FieldHour | FieldMinute
		return d.emit(c)
	}
	if d.looksLikeIndex(r) {
		return false
	}

	if inWindow {
		c := Candidate{Kind: KindCompact4Year, Start: r.start, End: r.end}
		c.Year = year
		c.Defined = FieldYear
		return d.emit(c)
	}

	c := Candidate{Kind: KindCompact4YearMonth, Start: r.start, End: r.end}
	c.Year, c.Month = validate.ExpandTwoDigitYear(r.value(0, 2)), r.value(2, 4)
	c.Defined = FieldYear | FieldMonth
	return d.emit(c)
}

// looksLikeIndex applies the surrounding-text checks for bare four-digit runs:
// counters glued to letters (DSC0001, WA0001), index words (frame_2048) and
// unit suffixes (1080p, 2160x).
func (d *detector) looksLikeIndex(r digitRun) bool {
	if r.start > 0 && isASCIILetter(d.name[r.start-1]) {
		return true
	}
	pos := r.start
	for pos > 0 && isIndexGap(d.name[pos-1]) {
		pos--
	}
	if indexWords[strings.ToLower(trailingLetters(d.name, pos))] {
		return true
	}
	end := r.end
	if end < d.limit && d.name[end] == ' ' {
		end++
	}
	if next := strings.ToLower(leadingLetters(d.name, end)); next != "" && unitSuffixes[next] {
		return true
	}
	return false
}

// epoch reads 10, 13 and 16 digit runs as Unix seconds, milliseconds and
// microseconds, accepted only inside the configured year window.
func (d *detector) epoch(r digitRun) bool {
	var t time.Time
	var defined Field
	switch r.len() {
	case 10:
		t = time.Unix(atoi64(r.text), 0).UTC()
		defined = dateFields | FieldHour | FieldMinute | FieldSecond
	case 13:
		t = time.UnixMilli(atoi64(r.text)).UTC()
		defined = dateFields | timeFields
	case 16:
		t = time.UnixMicro(atoi64(r.text)).UTC()
		defined = dateFields | timeFields
	default:
		return false
	}
	if !d.opts.epochYears().contains(t.Year()) {
		return false
	}
	c := Candidate{Kind: KindEpoch, Start: r.start, End: r.end}
	c.Year, c.Month, c.Day = t.Year(), int(t.Month()), t.Day()
	c.Hour, c.Minute, c.Second = t.Hour(), t.Minute(), t.Second()
	c.Millisecond = t.Nanosecond() / int(time.Millisecond)
	c.Defined = defined
	return d.emit(c)
}

func isIndexGap(c byte) bool {
	switch c {
	case ' ', '_', '-', '.', '#':
		return true
	}
	return false
}

func atoi64(s string) int64 {
	var n int64
	for i := 0; i < len(s); i++ {
		n = n*10 + int64(s[i]-'0')
	}
	return n
}
