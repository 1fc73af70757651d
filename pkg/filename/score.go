package filename

import (
	"sort"
	"strings"
)

// Base scores per kind. Explicit ISO and camera-style compact forms rank
// highest, bare compact digits lowest.
var kindBase = map[Kind]float64{
	KindISO:                0.80,
	KindISOBasic:           0.75,
	KindCompact14:          0.75,
	KindCompact12:          0.65,
	KindCompact8:           0.60,
	KindCompact6Date:       0.35,
	KindCompact6YearMonth:  0.30,
	KindCompact4Year:       0.25,
	KindCompact4YearMonth:  0.20,
	KindSeparatedYMD:       0.70,
	KindSeparatedDMY:       0.60,
	KindSeparatedShortDate: 0.40,
	KindYearMonth:          0.45,
	KindMonthName:          0.65,
	KindEpoch:              0.50,
}

const (
	defaultCustomConfidence = 0.90
	mergedBonus             = 0.05
	appPrefixBonus          = 0.10
	ambiguityPenalty        = 0.10
	preferenceNudge         = 0.05
	positionBonus           = 0.05
	positionPenaltyPerByte  = 0.001
	validityBonus           = 0.05
	contextBonus            = 0.05
	blacklistNearPenalty    = 0.10
	yearCoherenceBonus      = 0.03
	monthCoherenceBonus     = 0.02
	tieWindow               = 0.20
)

var precisionBonus = [...]float64{
	PrecisionYear:        0,
	PrecisionMonth:       0.02,
	PrecisionDay:         0.05,
	PrecisionHour:        0.06,
	PrecisionMinute:      0.08,
	PrecisionSecond:      0.10,
	PrecisionMillisecond: 0.10,
}

// appPrefixes are the camera and app name prefixes that sit right before the
// timestamp: IMG_20240815, PXL_20240815, Screenshot_2024-08-15.
var appPrefixes = map[string]bool{
	"img": true, "vid": true, "pxl": true, "mvimg": true, "pano": true, "burst": true,
	"dsc": true, "dscn": true, "dscf": true, "screenshot": true, "screenrecording": true,
	"signal": true, "whatsapp": true, "wa": true, "pict": true, "mov": true, "vn": true,
	"rec": true, "aud": true, "voice": true, "photo": true, "video": true,
}

var contextKeywords = []string{
	"img", "image", "photo", "pic", "vid", "video", "movie", "mov", "rec", "recording",
	"audio", "voice", "memo", "screenshot", "screen", "scan", "backup", "capture",
	"camera", "cam", "dsc", "pxl", "whatsapp", "signal", "snap", "export",
}

func clamp(v float64) float64 {
	switch {
	case v < 0:
		return 0
	case v > 1:
		return 1
	}
	return v
}

func baseScore(c Candidate) float64 {
	switch c.Kind {
	case KindCustom:
		if c.Confidence > 0 {
			return c.Confidence
		}
		return defaultCustomConfidence
	case KindMerged:
		return kindBase[c.dateKind] + mergedBonus
	}
	return kindBase[c.Kind]
}

// score assigns confidences in place. The order of the additive terms and the
// clamps is part of the ranking contract.
func (d *detector) score(cands []Candidate) {
	context := d.hasContext()
	for i := range cands {
		cands[i].Confidence = d.scoreOne(cands[i], context)
		for j := range cands[i].Alternatives {
			alt := cands[i].Alternatives[j]
			alt.preferred = false
			cands[i].Alternatives[j].Confidence = d.scoreOne(alt, context)
		}
	}
	d.coherence(cands)
}

func (d *detector) scoreOne(c Candidate, context bool) float64 {
	s := baseScore(c)
	if c.Ambiguous {
		s -= ambiguityPenalty
		if c.preferred {
			s += preferenceNudge
		}
	}
	if d.appPrefixed(c.Start) {
		s += appPrefixBonus
	}
	s += precisionBonus[c.Precision]
	s = clamp(s)

	if len(d.name) > 0 && c.Start*3 < len(d.name) {
		s += positionBonus
	}
	s -= positionPenaltyPerByte * float64(c.Start)
	if c.Has(dateFields) {
		s += validityBonus
	}
	if context {
		s += contextBonus
	}
	if d.nearBlacklist(c.Start, c.End) {
		s -= blacklistNearPenalty
	}
	return clamp(s)
}

func (d *detector) appPrefixed(start int) bool {
	pos := start
	for pos > 0 && (d.name[pos-1] == '_' || d.name[pos-1] == '-' || d.name[pos-1] == ' ') {
		pos--
	}
	return appPrefixes[strings.ToLower(trailingLetters(d.name, pos))]
}

func (d *detector) hasContext() bool {
	lower := strings.ToLower(d.name[:d.limit])
	for _, kw := range contextKeywords {
		if strings.Contains(lower, kw) {
			return true
		}
	}
	return false
}

// coherence rewards candidates agreeing with the modal year and month when a
// filename holds several dates. Ties for the mode award nothing.
func (d *detector) coherence(cands []Candidate) {
	if len(cands) < 2 {
		return
	}
	years := map[int]int{}
	months := map[int]int{}
	for _, c := range cands {
		years[c.Year]++
		if c.Has(FieldMonth) {
			months[c.Month]++
		}
	}
	modalYear, okYear := mode(years)
	modalMonth, okMonth := mode(months)
	for i := range cands {
		c := &cands[i]
		if okYear && c.Year == modalYear {
			c.Confidence += yearCoherenceBonus
		}
		if okMonth && c.Has(FieldMonth) && c.Month == modalMonth {
			c.Confidence += monthCoherenceBonus
		}
		c.Confidence = clamp(c.Confidence)
	}
}

// mode returns the unique most frequent key seen at least twice.
func mode(counts map[int]int) (int, bool) {
	best, bestCount, unique := 0, 0, false
	for k, n := range counts {
		switch {
		case n > bestCount:
			best, bestCount, unique = k, n, true
		case n == bestCount:
			unique = false
		}
	}
	if bestCount < 2 || !unique {
		return 0, false
	}
	return best, true
}

// rank orders candidates by confidence. Candidates within tieWindow of the
// leader are ordered by precision, then clock presence, then position.
func rank(cands []Candidate) []Candidate {
	sort.SliceStable(cands, func(i, j int) bool {
		if cands[i].Confidence != cands[j].Confidence {
			return cands[i].Confidence > cands[j].Confidence
		}
		return cands[i].Start < cands[j].Start
	})
	top := cands[0].Confidence
	n := 1
	for n < len(cands) && top-cands[n].Confidence <= tieWindow {
		n++
	}
	group := cands[:n]
	sort.SliceStable(group, func(i, j int) bool {
		a, b := group[i], group[j]
		if a.Precision != b.Precision {
			return a.Precision > b.Precision
		}
		if a.HasTime() != b.HasTime() {
			return a.HasTime()
		}
		if a.Start != b.Start {
			return a.Start < b.Start
		}
		return a.Confidence > b.Confidence
	})
	return cands
}
