package filename

import "regexp"

type blacklistRule struct {
	expr *regexp.Regexp
	// group selects the submatch that forms the range; 0 is the whole match.
	group int
	// accept filters matches on the surrounding text.
	accept func(name string, start, end int) bool
}

var blacklistRules = []blacklistRule{
	// GUIDs
	{expr: regexp.MustCompile(`(?i)[0-9a-f]{8}-[0-9a-f]{4}-[0-9a-f]{4}-[0-9a-f]{4}-[0-9a-f]{12}`)},
	// long hex identifiers (content hashes)
	{expr: regexp.MustCompile(`(?i)[0-9a-f]{16,}`), accept: mixedHex},
	// base62 identifiers
	{expr: regexp.MustCompile(`[A-Za-z0-9]{16,}`), accept: mixedBase62},
	// semantic versions, only when marked as such
	{expr: regexp.MustCompile(`(?i)(?:^|[^a-z])((?:v|version|ver|rev)[ _\-]?\d{1,3}(?:\.\d{1,3}){1,3})`), group: 1, accept: notFollowedByDigit},
	// resolutions
	{expr: regexp.MustCompile(`(?i)\d{3,4} ?[x×] ?\d{3,4}`), accept: notFollowedByDigit},
	{expr: regexp.MustCompile(`(?i)\d{3,4}[pi]`), accept: standalone},
	{expr: regexp.MustCompile(`(?i)[2468]k`), accept: standalone},
	// bitrates, sample rates, frame rates
	{expr: regexp.MustCompile(`(?i)\d+(?:\.\d+)? ?(?:kbps|mbps|kbit|mbit|khz|hz|fps|bit)`), accept: notFollowedByLetter},
	// final/backup/draft markers with a sequence number
	{expr: regexp.MustCompile(`(?i)(?:final|backup|bak|draft|copy)[ _\-]?\d{1,3}`), accept: notFollowedByDigit},
}

// blacklistRanges computes every identifier-like range of name once.
func blacklistRanges(name string) []span {
	var out []span
	for _, rule := range blacklistRules {
		for _, loc := range rule.expr.FindAllStringSubmatchIndex(name, -1) {
			start, end := loc[2*rule.group], loc[2*rule.group+1]
			if start < 0 {
				continue
			}
			if rule.accept != nil && !rule.accept(name, start, end) {
				continue
			}
			out = append(out, span{start: start, end: end})
		}
	}
	return out
}

func mixedHex(name string, start, end int) bool {
	var digit, letter bool
	for i := start; i < end; i++ {
		if isDigit(name[i]) {
			digit = true
		} else {
			letter = true
		}
	}
	return digit && letter
}

// mixedBase62 wants at least two each of digits, upper and lower case letters,
// so "Img20240815123456" stays a camera name.
func mixedBase62(name string, start, end int) bool {
	var digit, upper, lower int
	for i := start; i < end; i++ {
		c := name[i]
		switch {
		case isDigit(c):
			digit++
		case c >= 'A' && c <= 'Z':
			upper++
		default:
			lower++
		}
	}
	return digit >= 2 && upper >= 2 && lower >= 2
}

func notFollowedByDigit(name string, _, end int) bool {
	return end >= len(name) || !isDigit(name[end])
}

func notFollowedByLetter(name string, _, end int) bool {
	return end >= len(name) || !isASCIILetter(name[end])
}

// standalone rejects matches glued to other alphanumerics on either side.
func standalone(name string, start, end int) bool {
	if start > 0 && (isDigit(name[start-1]) || isASCIILetter(name[start-1])) {
		return false
	}
	return notFollowedByLetter(name, start, end) && notFollowedByDigit(name, start, end)
}

func (d *detector) dropBlacklisted(cands []Candidate) []Candidate {
	out := cands[:0]
	for _, c := range cands {
		if !d.overlapsBlacklist(c.Start, c.End) {
			out = append(out, c)
		}
	}
	return out
}

func (d *detector) overlapsBlacklist(start, end int) bool {
	for _, s := range d.blacklist {
		if s.overlaps(start, end) {
			return true
		}
	}
	return false
}

// nearBlacklist reports a blacklisted range within three bytes of [start, end).
func (d *detector) nearBlacklist(start, end int) bool {
	for _, s := range d.blacklist {
		if s.overlaps(start-3, end+3) {
			return true
		}
	}
	return false
}
