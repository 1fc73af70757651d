package filename

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

// digitRun is a maximal run of ASCII digits in the filename.
type digitRun struct {
	text  string
	start int
	end   int
}

func (r digitRun) len() int { return r.end - r.start }

// value parses text[i:j] of the run.
func (r digitRun) value(i, j int) int {
	return atoi(r.text[i:j])
}

func (r digitRun) int() int { return atoi(r.text) }

type span struct {
	start int
	end   int
}

func (s span) overlaps(start, end int) bool {
	return start < s.end && s.start < end
}

// segment returns every maximal digit run before the file extension.
func segment(name string) []digitRun {
	limit := extensionStart(name)
	var runs []digitRun
	for i := 0; i < limit; {
		if !isDigit(name[i]) {
			i++
			continue
		}
		j := i
		for j < limit && isDigit(name[j]) {
			j++
		}
		runs = append(runs, digitRun{text: name[i:j], start: i, end: j})
		i = j
	}
	return runs
}

// extensionStart returns the offset of a trailing ".ext" (1-5 alphanumerics
// containing a letter), or len(name) when there is none.
func extensionStart(name string) int {
	dot := strings.LastIndexByte(name, '.')
	if dot < 0 {
		return len(name)
	}
	ext := name[dot+1:]
	if len(ext) == 0 || len(ext) > 5 {
		return len(name)
	}
	hasLetter := false
	for i := 0; i < len(ext); i++ {
		c := ext[i]
		switch {
		case isASCIILetter(c):
			hasLetter = true
		case isDigit(c):
		default:
			return len(name)
		}
	}
	if !hasLetter {
		return len(name)
	}
	return dot
}

// word is a maximal run of letters, possibly non-ASCII.
type word struct {
	text  string
	start int
	end   int
}

func letterRuns(name string, limit int) []word {
	var words []word
	start := -1
	for i := 0; i < limit; {
		r, size := utf8.DecodeRuneInString(name[i:])
		if unicode.IsLetter(r) {
			if start < 0 {
				start = i
			}
		} else if start >= 0 {
			words = append(words, word{text: name[start:i], start: start, end: i})
			start = -1
		}
		i += size
	}
	if start >= 0 {
		words = append(words, word{text: name[start:limit], start: start, end: limit})
	}
	return words
}

func isDigit(c byte) bool { return c >= '0' && c <= '9' }

func isASCIILetter(c byte) bool {
	return (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}

// isGapByte reports whether c may sit between a date and the time that follows it.
func isGapByte(c byte) bool {
	switch c {
	case ' ', '_', '-', '.', 'T', 't', ',', '@':
		return true
	}
	return false
}

func isSeparatedJoin(c byte) bool {
	switch c {
	case '-', '.', '/', '_', ':':
		return true
	}
	return false
}

func atoi(s string) int {
	n := 0
	for i := 0; i < len(s); i++ {
		n = n*10 + int(s[i]-'0')
	}
	return n
}

// trailingLetters returns the letter run that ends exactly at pos.
func trailingLetters(name string, pos int) string {
	i := pos
	for i > 0 && isASCIILetter(name[i-1]) {
		i--
	}
	return name[i:pos]
}

// leadingLetters returns the letter run that starts exactly at pos.
func leadingLetters(name string, pos int) string {
	i := pos
	for i < len(name) && isASCIILetter(name[i]) {
		i++
	}
	return name[pos:i]
}
