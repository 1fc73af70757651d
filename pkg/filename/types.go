package filename

import (
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/quidome/capturetime/pkg/validate"
)

// Precision is the finest time unit a candidate has an explicit value for.
type Precision int

const (
	PrecisionYear Precision = iota
	PrecisionMonth
	PrecisionDay
	PrecisionHour
	PrecisionMinute
	PrecisionSecond
	PrecisionMillisecond
)

var precisionNames = [...]string{"year", "month", "day", "hour", "minute", "second", "millisecond"}

func (p Precision) String() string {
	if p < PrecisionYear || p > PrecisionMillisecond {
		return "unknown"
	}
	return precisionNames[p]
}

// Field flags a component as taken from the filename rather than defaulted.
type Field uint8

const (
	FieldYear Field = 1 << iota
	FieldMonth
	FieldDay
	FieldHour
	FieldMinute
	FieldSecond
	FieldMillisecond
)

const (
	dateFields = FieldYear | FieldMonth | FieldDay
	timeFields = FieldHour | FieldMinute | FieldSecond | FieldMillisecond
)

// Kind names the scanner that produced a candidate. It feeds scoring only.
type Kind string

const (
	KindISO                Kind = "iso"
	KindISOBasic           Kind = "iso-basic"
	KindCompact14          Kind = "compact-14"
	KindCompact12          Kind = "compact-12"
	KindCompact9Time       Kind = "compact-9-time"
	KindCompact8           Kind = "compact-8"
	KindCompact6Date       Kind = "compact-6-date"
	KindCompact6YearMonth  Kind = "compact-6-year-month"
	KindCompact6Time       Kind = "compact-6-time"
	KindCompact4Year       Kind = "compact-4-year"
	KindCompact4YearMonth  Kind = "compact-4-year-month"
	KindCompact4Time       Kind = "compact-4-time"
	KindSeparatedYMD       Kind = "separated-ymd"
	KindSeparatedDMY       Kind = "separated-dmy"
	KindSeparatedShortDate Kind = "separated-short-date"
	KindSeparatedTime      Kind = "separated-time"
	KindYearMonth          Kind = "year-month"
	KindMonthName          Kind = "month-name"
	KindSpokenTime         Kind = "spoken-time"
	KindEpoch              Kind = "epoch"
	KindMerged             Kind = "merged"
	KindCustom             Kind = "custom"
)

// Components is a partial calendar date and clock time.
type Components struct {
	Year        int
	Month       int
	Day         int
	Hour        int
	Minute      int
	Second      int
	Millisecond int
	Defined     Field
}

// Has reports whether every field in f is defined.
func (c Components) Has(f Field) bool {
	return c.Defined&f == f
}

// Precision derives the precision from the finest defined field.
func (c Components) Precision() Precision {
	switch {
	case c.Has(FieldMillisecond):
		return PrecisionMillisecond
	case c.Has(FieldSecond):
		return PrecisionSecond
	case c.Has(FieldMinute):
		return PrecisionMinute
	case c.Has(FieldHour):
		return PrecisionHour
	case c.Has(FieldDay):
		return PrecisionDay
	case c.Has(FieldMonth):
		return PrecisionMonth
	default:
		return PrecisionYear
	}
}

// valid checks every defined field against its range.
func (c Components) valid() bool {
	if c.Has(FieldYear) && !validate.IsValidYear(c.Year) {
		return false
	}
	if c.Has(FieldMonth) && !validate.IsValidMonth(c.Month) {
		return false
	}
	if c.Has(FieldDay) {
		if !c.Has(FieldYear | FieldMonth) {
			return false
		}
		if !validate.IsValidDate(c.Year, c.Month, c.Day) {
			return false
		}
	}
	if c.Has(FieldHour) && !validate.IsValidHour(c.Hour) {
		return false
	}
	if c.Has(FieldMinute) && !validate.IsValidMinute(c.Minute) {
		return false
	}
	if c.Has(FieldSecond) && !validate.IsValidSecond(c.Second) {
		return false
	}
	if c.Has(FieldMillisecond) && !validate.IsValidMillisecond(c.Millisecond) {
		return false
	}
	return true
}

// Candidate is one scored interpretation of a timestamp found in a filename.
type Candidate struct {
	Components

	Precision Precision

	// Start and End are byte offsets of the source text, End exclusive.
	Start int
	End   int

	Confidence float64

	Ambiguous    bool
	Alternatives []Candidate

	Kind Kind

	// Zone holds a raw timezone suffix (Z, UTC, +02:00) when one was present.
	// Components are never shifted by it.
	Zone string

	// dateKind remembers the date half of a merged candidate for scoring.
	dateKind Kind
	// preferred marks the reading picked by DateOrder out of an ambiguous pair.
	preferred bool
}

// HasTime reports whether the candidate carries a clock component.
func (c Candidate) HasTime() bool {
	return c.Defined&timeFields != 0
}

// Time resolves the candidate to a wall-clock instant in UTC. Undefined fields
// default to January, the first day and midnight.
func (c Candidate) Time() time.Time {
	month, day := c.Month, c.Day
	if !c.Has(FieldMonth) {
		month = 1
	}
	if !c.Has(FieldDay) {
		day = 1
	}
	return time.Date(c.Year, time.Month(month), day, c.Hour, c.Minute, c.Second, c.Millisecond*int(time.Millisecond), time.UTC)
}

// DateOrder resolves day/month ambiguity in separated and compact dates.
type DateOrder int

const (
	DayFirst DateOrder = iota
	MonthFirst
)

func (o DateOrder) String() string {
	if o == MonthFirst {
		return "month-first"
	}
	return "day-first"
}

// ParseDateOrder accepts day-first (dmy) and month-first (mdy).
func ParseDateOrder(s string) (DateOrder, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "day-first", "dayfirst", "dmy", "":
		return DayFirst, nil
	case "month-first", "monthfirst", "mdy":
		return MonthFirst, nil
	}
	return DayFirst, fmt.Errorf("unknown date order %q", s)
}

// YearRange bounds the calendar years accepted for Unix-epoch and bare
// four-digit year interpretations.
type YearRange struct {
	Min int
	Max int
}

func (r YearRange) contains(year int) bool {
	return year >= r.Min && year <= r.Max
}

// DefaultEpochYears is used when Options.EpochYears is zero.
var DefaultEpochYears = YearRange{Min: 1990, Max: 2040}

// Pattern is a caller-supplied expression consulted before the heuristic
// scanners. Expr uses the named groups year, month, day, hour, minute,
// second and ms; year is required.
type Pattern struct {
	Name       string
	Expr       *regexp.Regexp
	Confidence float64
}

// Options configures Detect and Best.
type Options struct {
	DateOrder  DateOrder
	EpochYears YearRange

	// Patterns are tried in order before any heuristic scanner.
	Patterns []Pattern
}

func (o Options) epochYears() YearRange {
	if o.EpochYears.Min == 0 && o.EpochYears.Max == 0 {
		return DefaultEpochYears
	}
	return o.EpochYears
}
