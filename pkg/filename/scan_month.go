package filename

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// monthNames maps diacritic-folded, lower-cased month names and common
// abbreviations onto month numbers. Words that double as common English
// words in filenames ("set", "ago") are left out.
var monthNames = map[string]int{
	// English
	"january": 1, "jan": 1, "february": 2, "feb": 2, "march": 3, "mar": 3,
	"april": 4, "apr": 4, "may": 5, "june": 6, "jun": 6, "july": 7, "jul": 7,
	"august": 8, "aug": 8, "september": 9, "sep": 9, "sept": 9,
	"october": 10, "oct": 10, "november": 11, "nov": 11, "december": 12, "dec": 12,
	// French
	"janvier": 1, "janv": 1, "fevrier": 2, "fevr": 2, "fev": 2, "mars": 3,
	"avril": 4, "avr": 4, "mai": 5, "juin": 6, "juillet": 7, "juil": 7,
	"aout": 8, "septembre": 9, "octobre": 10, "novembre": 11, "decembre": 12,
	// German
	"januar": 1, "janner": 1, "februar": 2, "marz": 3, "juni": 6, "juli": 7,
	"oktober": 10, "okt": 10, "dezember": 12, "dez": 12,
	// Spanish
	"enero": 1, "ene": 1, "febrero": 2, "marzo": 3, "abril": 4, "abr": 4,
	"mayo": 5, "junio": 6, "julio": 7, "agosto": 8, "septiembre": 9,
	"setiembre": 9, "octubre": 10, "noviembre": 11, "diciembre": 12, "dic": 12,
	// Italian
	"gennaio": 1, "gen": 1, "febbraio": 2, "aprile": 4, "maggio": 5, "mag": 5,
	"giugno": 6, "giu": 6, "luglio": 7, "lug": 7, "settembre": 9,
	"ottobre": 10, "ott": 10, "dicembre": 12,
	// Dutch
	"januari": 1, "februari": 2, "maart": 3, "mrt": 3, "mei": 5,
	"augustus": 8,
	// Portuguese
	"janeiro": 1, "fevereiro": 2, "marco": 3, "maio": 5, "junho": 6,
	"julho": 7, "setembro": 9, "outubro": 10, "out": 10, "novembro": 11,
	"dezembro": 12,
}

var ordinalSuffixes = map[string]bool{"st": true, "nd": true, "rd": true, "th": true, "er": true, "e": true, "o": true}

// fold lower-cases s and strips combining marks, so "Février" becomes "fevrier".
func fold(s string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	out, _, err := transform.String(t, s)
	if err != nil {
		return strings.ToLower(s)
	}
	return strings.ToLower(out)
}

func isMonthGap(c byte) bool {
	switch c {
	case ' ', '_', '-', '.', ',':
		return true
	}
	return false
}

// runAfter finds an unclaimed digit run starting after pos, skipping up to two
// gap bytes.
func (d *detector) runAfter(pos int) (digitRun, bool) {
	for skip := 0; skip <= 2 && pos <= len(d.name); skip++ {
		if r, ok := d.runStartingAt(pos); ok {
			return r, true
		}
		if pos >= len(d.name) || !isMonthGap(d.name[pos]) {
			break
		}
		pos++
	}
	return digitRun{}, false
}

// runBefore finds an unclaimed digit run ending before pos, skipping up to two
// gap bytes and an ordinal suffix such as "th" or "er".
func (d *detector) runBefore(pos int) (digitRun, bool) {
	for skip := 0; skip <= 2 && pos >= 0; skip++ {
		if suffix := trailingLetters(d.name, pos); suffix != "" && ordinalSuffixes[strings.ToLower(suffix)] {
			if r, ok := d.runEndingAt(pos - len(suffix)); ok {
				return r, true
			}
		}
		if r, ok := d.runEndingAt(pos); ok {
			return r, true
		}
		if pos == 0 || !isMonthGap(d.name[pos-1]) {
			break
		}
		pos--
	}
	return digitRun{}, false
}

// dayRunAfter is runAfter for a day number, which may carry an ordinal suffix.
// It returns the offset just past the suffix.
func (d *detector) dayRunAfter(pos int) (digitRun, int, bool) {
	r, ok := d.runAfter(pos)
	if !ok || r.len() > 2 {
		return digitRun{}, 0, false
	}
	end := r.end
	if suffix := leadingLetters(d.name, end); suffix != "" && ordinalSuffixes[strings.ToLower(suffix)] {
		end += len(suffix)
	}
	return r, end, true
}

func (d *detector) scanMonthNames() {
	for _, w := range letterRuns(d.name, d.limit) {
		month, ok := monthNames[fold(w.text)]
		if !ok {
			continue
		}

		before, hasBefore := d.runBefore(w.start)
		dayAfter, dayEnd, hasDayAfter := d.dayRunAfter(w.end)
		yearAfter, hasYearAfter := d.runAfter(w.end)
		hasYearAfter = hasYearAfter && yearAfter.len() == 4

		c := Candidate{Kind: KindMonthName}
		c.Month = month

		switch {
		case hasBefore && before.len() <= 2 && hasYearAfter:
			// 14 juillet 2023
			c.Day, c.Year = before.int(), yearAfter.int()
			c.Defined = dateFields
			c.Start, c.End = before.start, yearAfter.end
		case hasBefore && before.len() == 4 && hasDayAfter:
			// 2023 July 14
			c.Year, c.Day = before.int(), dayAfter.int()
			c.Defined = dateFields
			c.Start, c.End = before.start, dayAfter.end
		case hasDayAfter:
			// March 5, 2024
			year, ok := d.runAfter(dayEnd)
			if ok && year.len() == 4 {
				c.Day, c.Year = dayAfter.int(), year.int()
				c.Defined = dateFields
				c.Start, c.End = w.start, year.end
			}
		case hasYearAfter:
			c.Year = yearAfter.int()
			c.Defined = FieldYear | FieldMonth
			c.Start, c.End = w.start, yearAfter.end
		case hasBefore && before.len() == 4:
			c.Year = before.int()
			c.Defined = FieldYear | FieldMonth
			c.Start, c.End = before.start, w.end
		}
		if c.Defined == 0 || d.claimed(c.Start, c.End) {
			continue
		}
		d.emit(c)
	}
}
