package filename

import (
	"regexp"
	"strings"
)

var (
	reISOExtended = regexp.MustCompile(`(?i)(\d{4})-(\d{2})-(\d{2})([T _\-]?)(\d{2})([:.\-]?)(\d{2})(?:([:.\-]?)(\d{2}))?(?:[.,](\d{1,9}))?(?:[ _]?(Z|UTC|[+\-]\d{2}(?::?\d{2})?))?`)
	reISOBasic    = regexp.MustCompile(`(?i)(\d{4})(\d{2})(\d{2})T(\d{2})(\d{2})(\d{2})?(?:[.,](\d{1,9}))?(Z|[+\-]\d{2}:?\d{2})?`)
	reSpokenTime  = regexp.MustCompile(`(?i)(\d{1,2})h(\d{2})(?:m(\d{2})(?:s(\d{3})?)?)?`)
)

// submatch returns the text of group g, or "" when it did not participate.
func submatch(name string, loc []int, g int) string {
	if loc[2*g] < 0 {
		return ""
	}
	return name[loc[2*g]:loc[2*g+1]]
}

// digitBounded reports whether [start, end) is not glued to other digits.
func digitBounded(name string, start, end int) bool {
	if start > 0 && isDigit(name[start-1]) {
		return false
	}
	if end < len(name) && isDigit(name[end]) {
		return false
	}
	return true
}

func zoneGap(s string) bool {
	return s == "" || s == " " || s == "_"
}

// millis turns a fractional-second string into milliseconds.
func millis(frac string) int {
	if len(frac) > 3 {
		frac = frac[:3]
	}
	for len(frac) < 3 {
		frac += "0"
	}
	return atoi(frac)
}

func (d *detector) scanISO() {
	for _, loc := range reISOExtended.FindAllStringSubmatchIndex(d.name, -1) {
		start, end := loc[0], loc[1]
		if d.claimed(start, end) {
			continue
		}
		dateTimeSep := submatch(d.name, loc, 4)
		timeSep := submatch(d.name, loc, 6)
		c := Candidate{Kind: KindISO, Start: start}
		c.Year = atoi(submatch(d.name, loc, 1))
		c.Month = atoi(submatch(d.name, loc, 2))
		c.Day = atoi(submatch(d.name, loc, 3))
		c.Hour = atoi(submatch(d.name, loc, 5))
		c.Minute = atoi(submatch(d.name, loc, 7))
		c.Defined = dateFields | FieldHour | FieldMinute
		c.End = loc[15]

		if sec := submatch(d.name, loc, 9); sec != "" && submatch(d.name, loc, 8) == timeSep {
			c.Second = atoi(sec)
			c.Defined |= FieldSecond
			c.End = loc[19]
			if frac := submatch(d.name, loc, 10); frac != "" {
				c.Millisecond = millis(frac)
				c.Defined |= FieldMillisecond
				c.End = loc[21]
			}
		}
		// The zone only belongs to the clock when nothing unconsumed sits
		// between them.
		if zone := submatch(d.name, loc, 11); zone != "" && zoneGap(d.name[c.End:loc[22]]) {
			c.Zone = strings.ToUpper(zone)
			c.End = end
		}

		// A separator-less clock after a non-T join must carry seconds, or
		// "2024-02-29_2024" would read as 20:24.
		if !strings.EqualFold(dateTimeSep, "T") && timeSep == "" && !c.Has(FieldSecond) {
			continue
		}
		if !digitBounded(d.name, c.Start, c.End) {
			continue
		}
		d.emit(c)
	}

	for _, loc := range reISOBasic.FindAllStringSubmatchIndex(d.name, -1) {
		start, end := loc[0], loc[1]
		if d.claimed(start, end) || !digitBounded(d.name, start, end) {
			continue
		}
		c := Candidate{Kind: KindISOBasic, Start: start, End: end}
		c.Year = atoi(submatch(d.name, loc, 1))
		c.Month = atoi(submatch(d.name, loc, 2))
		c.Day = atoi(submatch(d.name, loc, 3))
		c.Hour = atoi(submatch(d.name, loc, 4))
		c.Minute = atoi(submatch(d.name, loc, 5))
		c.Defined = dateFields | FieldHour | FieldMinute
		if sec := submatch(d.name, loc, 6); sec != "" {
			c.Second = atoi(sec)
			c.Defined |= FieldSecond
		}
		if frac := submatch(d.name, loc, 7); frac != "" {
			c.Millisecond = millis(frac)
			c.Defined |= FieldMillisecond
		}
		c.Zone = strings.ToUpper(submatch(d.name, loc, 8))
		d.emit(c)
	}
}

// scanSpokenTime finds "14h30", "14h30m15s" and "14h30m15s250" clock times.
func (d *detector) scanSpokenTime() {
	for _, loc := range reSpokenTime.FindAllStringSubmatchIndex(d.name, -1) {
		start, end := loc[0], loc[1]
		if d.claimed(start, end) || !digitBounded(d.name, start, end) {
			continue
		}
		c := Candidate{Kind: KindSpokenTime, Start: start, End: end}
		c.Hour = atoi(submatch(d.name, loc, 1))
		c.Minute = atoi(submatch(d.name, loc, 2))
		c.Defined = FieldHour | FieldMinute
		if sec := submatch(d.name, loc, 3); sec != "" {
			c.Second = atoi(sec)
			c.Defined |= FieldSecond
		}
		if ms := submatch(d.name, loc, 4); ms != "" {
			c.Millisecond = atoi(ms)
			c.Defined |= FieldMillisecond
		}
		d.emit(c)
	}
}
