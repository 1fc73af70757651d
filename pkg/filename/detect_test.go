package filename

import (
	"fmt"
	"reflect"
	"regexp"
	"testing"
	"time"

	"github.com/quidome/capturetime/pkg/validate"
)

func TestBest_CameraNames(t *testing.T) {
	testCases := []struct {
		name      string
		filename  string
		want      time.Time
		precision Precision
	}{
		{
			name:      "IMG_YYYYMMDD_HHMMSS",
			filename:  "IMG_20240815_092345.jpg",
			want:      time.Date(2024, 8, 15, 9, 23, 45, 0, time.UTC),
			precision: PrecisionSecond,
		},
		{
			name:      "VID_YYYYMMDD_HHMMSS",
			filename:  "VID_20250102_030405.mp4",
			want:      time.Date(2025, 1, 2, 3, 4, 5, 0, time.UTC),
			precision: PrecisionSecond,
		},
		{
			name:      "PXL_YYYYMMDD_HHMMSSfff",
			filename:  "PXL_20250102_030405123.jpg",
			want:      time.Date(2025, 1, 2, 3, 4, 5, 123*int(time.Millisecond), time.UTC),
			precision: PrecisionMillisecond,
		},
		{
			name:      "YYYY-MM-DD HH.MM.SS",
			filename:  "2025-01-02 03.04.05.jpg",
			want:      time.Date(2025, 1, 2, 3, 4, 5, 0, time.UTC),
			precision: PrecisionSecond,
		},
		{
			name:      "IMG-YYYYMMDD-WA0001 date only",
			filename:  "IMG-20250102-WA0001.jpg",
			want:      time.Date(2025, 1, 2, 0, 0, 0, 0, time.UTC),
			precision: PrecisionDay,
		},
		{
			name:      "Screenshot_YYYY-MM-DD-HH-MM-SS",
			filename:  "Screenshot_2025-01-02-03-04-05.png",
			want:      time.Date(2025, 1, 2, 3, 4, 5, 0, time.UTC),
			precision: PrecisionSecond,
		},
		{
			name:      "unix epoch seconds",
			filename:  "1692090225.jpg",
			want:      time.Date(2023, 8, 15, 9, 3, 45, 0, time.UTC),
			precision: PrecisionSecond,
		},
		{
			name:      "month name with diacritics folded",
			filename:  "Vacances 14 juillet 2023.jpg",
			want:      time.Date(2023, 7, 14, 0, 0, 0, 0, time.UTC),
			precision: PrecisionDay,
		},
		{
			name:      "english month name first",
			filename:  "March 5, 2024 minutes.txt",
			want:      time.Date(2024, 3, 5, 0, 0, 0, 0, time.UTC),
			precision: PrecisionDay,
		},
		{
			name:      "date merged with spoken time",
			filename:  "Réunion 2023-03-02 14h30.m4a",
			want:      time.Date(2023, 3, 2, 14, 30, 0, 0, time.UTC),
			precision: PrecisionMinute,
		},
		{
			name:      "minute date-time promoted by trailing HHMMSS",
			filename:  "2024-08-15 10.30 103045.jpg",
			want:      time.Date(2024, 8, 15, 10, 30, 45, 0, time.UTC),
			precision: PrecisionSecond,
		},
		{
			name:      "bare year",
			filename:  "holiday_2019.jpg",
			want:      time.Date(2019, 1, 1, 0, 0, 0, 0, time.UTC),
			precision: PrecisionYear,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			got, ok := Best(tc.filename, Options{})
			if !ok {
				t.Fatalf("expected a candidate for %q", tc.filename)
			}
			if !got.Time().Equal(tc.want) {
				t.Fatalf("unexpected time\n got: %v\nwant: %v", got.Time(), tc.want)
			}
			if got.Precision != tc.precision {
				t.Fatalf("unexpected precision: got %s, want %s", got.Precision, tc.precision)
			}
			if got.Confidence <= 0 || got.Confidence > 1 {
				t.Fatalf("confidence out of range: %v", got.Confidence)
			}
		})
	}
}

func TestBest_IMGComponents(t *testing.T) {
	got, ok := Best("IMG_20240815_092345.jpg", Options{})
	if !ok {
		t.Fatalf("expected a candidate")
	}
	want := [6]int{2024, 8, 15, 9, 23, 45}
	gotParts := [6]int{got.Year, got.Month, got.Day, got.Hour, got.Minute, got.Second}
	if gotParts != want {
		t.Fatalf("unexpected components: got %v, want %v", gotParts, want)
	}
	if got.Precision.String() != "second" {
		t.Fatalf("expected precision second, got %q", got.Precision)
	}
	if got.Start != 4 || got.End != 19 {
		t.Fatalf("unexpected span [%d,%d)", got.Start, got.End)
	}
}

func TestBest_SeparatedISODates(t *testing.T) {
	for _, year := range []int{1970, 1999, 2000, 2024, 2100} {
		for month := 1; month <= 12; month++ {
			for day := 1; day <= validate.DaysInMonth(month, year); day++ {
				name := fmt.Sprintf("%04d-%02d-%02d.jpg", year, month, day)
				got, ok := Best(name, Options{})
				if !ok {
					t.Fatalf("expected a candidate for %q", name)
				}
				if got.Year != year || got.Month != month || got.Day != day {
					t.Fatalf("%q: got %04d-%02d-%02d", name, got.Year, got.Month, got.Day)
				}
				if got.Precision != PrecisionDay {
					t.Fatalf("%q: expected day precision, got %s", name, got.Precision)
				}
			}
		}
	}
}

func TestBest_InvalidDatesNeverReturned(t *testing.T) {
	for _, name := range []string{"2023-02-29.jpg", "2024-04-31.jpg", "2024-13-01.jpg", "1969-12-31.jpg", "31-02-2023.jpg"} {
		if got, ok := Best(name, Options{}); ok {
			t.Fatalf("%q: expected no candidate, got %04d-%02d-%02d (%s, %s)", name, got.Year, got.Month, got.Day, got.Kind, got.Precision)
		}
	}
}

func TestBest_SeparatedTwoDigitTriples(t *testing.T) {
	testCases := []struct {
		name      string
		filename  string
		want      time.Time
		precision Precision
	}{
		{
			name:      "clock after date joined by at",
			filename:  "WhatsApp Image 2024-08-15 at 10.30.45.jpeg",
			want:      time.Date(2024, 8, 15, 10, 30, 45, 0, time.UTC),
			precision: PrecisionSecond,
		},
		{
			name:      "invalid clock read as short date",
			filename:  "scan 31.12.99.jpg",
			want:      time.Date(1999, 12, 31, 0, 0, 0, 0, time.UTC),
			precision: PrecisionDay,
		},
		{
			name:      "year-first short date",
			filename:  "release_24.12.31.zip",
			want:      time.Date(2024, 12, 31, 0, 0, 0, 0, time.UTC),
			precision: PrecisionDay,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			got, ok := Best(tc.filename, Options{})
			if !ok {
				t.Fatalf("expected a candidate for %q", tc.filename)
			}
			if !got.Time().Equal(tc.want) || got.Precision != tc.precision {
				t.Fatalf("got %v (%s), want %v (%s)", got.Time(), got.Precision, tc.want, tc.precision)
			}
		})
	}
}

func TestDetect_ValidClockTripleIsNotADate(t *testing.T) {
	for _, c := range Detect("WhatsApp Image 2024-08-15 at 10.30.45.jpeg", Options{}) {
		if c.Kind == KindSeparatedShortDate {
			t.Fatalf("clock read as a short date: %+v", c)
		}
	}
	if got := Detect("memo 12.05.20.m4a", Options{}); len(got) != 0 {
		t.Fatalf("expected a lone clock to yield nothing, got %+v", got)
	}
}

func TestBest_FourDigitYearAfterDateIsNotAClock(t *testing.T) {
	testCases := []struct {
		name     string
		filename string
		wantTime bool
		hour     int
		minute   int
	}{
		{name: "year suffix", filename: "2024-08-15_2024.jpg"},
		{name: "clock suffix", filename: "2024-08-15_1030.jpg", wantTime: true, hour: 10, minute: 30},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			got, ok := Best(tc.filename, Options{})
			if !ok {
				t.Fatalf("expected a candidate")
			}
			if got.Year != 2024 || got.Month != 8 || got.Day != 15 {
				t.Fatalf("unexpected date %+v", got)
			}
			if got.HasTime() != tc.wantTime {
				t.Fatalf("HasTime = %v, want %v (%02d:%02d)", got.HasTime(), tc.wantTime, got.Hour, got.Minute)
			}
			if tc.wantTime && (got.Hour != tc.hour || got.Minute != tc.minute) {
				t.Fatalf("unexpected clock %02d:%02d", got.Hour, got.Minute)
			}
		})
	}
}

func TestDetect_Blacklist(t *testing.T) {
	testCases := []struct {
		name      string
		filename  string
		wantFound bool
	}{
		{name: "semantic version", filename: "release_v24.12.31.zip"},
		{name: "unmarked dotted date", filename: "release_24.12.31.zip", wantFound: true},
		{name: "final marker", filename: "final-12-2019.jpg"},
		{name: "plain month-year", filename: "trip-12-2019.jpg", wantFound: true},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			got := Detect(tc.filename, Options{})
			if found := len(got) > 0; found != tc.wantFound {
				t.Fatalf("%q: found = %v, want %v (%+v)", tc.filename, found, tc.wantFound, got)
			}
		})
	}
}

func TestCoherence_RewardsModalYearAndMonth(t *testing.T) {
	month := FieldYear | FieldMonth
	testCases := []struct {
		name  string
		cands []Candidate
		want  []float64
	}{
		{
			name: "modal year and month",
			cands: []Candidate{
				{Components: Components{Year: 2024, Month: 8, Defined: month}, Confidence: 0.5},
				{Components: Components{Year: 2024, Month: 8, Defined: month}, Confidence: 0.5},
				{Components: Components{Year: 2019, Month: 1, Defined: month}, Confidence: 0.5},
			},
			want: []float64{0.55, 0.55, 0.5},
		},
		{
			name: "modal year only",
			cands: []Candidate{
				{Components: Components{Year: 2024, Month: 8, Defined: month}, Confidence: 0.5},
				{Components: Components{Year: 2024, Month: 9, Defined: month}, Confidence: 0.5},
			},
			want: []float64{0.53, 0.53},
		},
		{
			name: "tied years award nothing",
			cands: []Candidate{
				{Components: Components{Year: 2024, Defined: FieldYear}, Confidence: 0.5},
				{Components: Components{Year: 2019, Defined: FieldYear}, Confidence: 0.5},
			},
			want: []float64{0.5, 0.5},
		},
		{
			name: "clamped at one",
			cands: []Candidate{
				{Components: Components{Year: 2024, Defined: FieldYear}, Confidence: 0.99},
				{Components: Components{Year: 2024, Defined: FieldYear}, Confidence: 0.2},
			},
			want: []float64{1, 0.23},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			d := &detector{}
			d.coherence(tc.cands)
			for i, c := range tc.cands {
				if diff := c.Confidence - tc.want[i]; diff > 1e-9 || diff < -1e-9 {
					t.Fatalf("candidate %d: confidence %v, want %v", i, c.Confidence, tc.want[i])
				}
			}
		})
	}
}

func TestRank_TieWindowPrefersPrecision(t *testing.T) {
	day := Candidate{Precision: PrecisionDay, Confidence: 0.8, Start: 0, Kind: KindSeparatedYMD}
	second := Candidate{Precision: PrecisionSecond, Confidence: 0.65, Start: 5, Kind: KindCompact14}
	distant := Candidate{Precision: PrecisionMillisecond, Confidence: 0.5, Start: 9, Kind: KindEpoch}
	sameEarly := Candidate{Precision: PrecisionDay, Confidence: 0.7, Start: 1, Kind: KindCompact8}

	got := rank([]Candidate{distant, day, second, sameEarly})
	wantKinds := []Kind{KindCompact14, KindSeparatedYMD, KindCompact8, KindEpoch}
	for i, k := range wantKinds {
		if got[i].Kind != k {
			t.Fatalf("position %d: got %s, want %s (order %v)", i, got[i].Kind, k, kinds(got))
		}
	}
}

func kinds(cands []Candidate) []Kind {
	out := make([]Kind, len(cands))
	for i, c := range cands {
		out[i] = c.Kind
	}
	return out
}

func TestDetect_ISOZoneWithoutSeconds(t *testing.T) {
	name := "export_2024-08-15T10:30Z.json"
	got := Detect(name, Options{})
	if len(got) == 0 {
		t.Fatalf("expected a candidate")
	}
	c := got[0]
	if c.Zone != "Z" || name[c.Start:c.End] != "2024-08-15T10:30Z" {
		t.Fatalf("unexpected candidate %q zone=%q", name[c.Start:c.End], c.Zone)
	}
	if c.Precision != PrecisionMinute {
		t.Fatalf("expected minute precision, got %s", c.Precision)
	}
}

func TestBest_AmbiguousDayMonth(t *testing.T) {
	testCases := []struct {
		name      string
		order     DateOrder
		wantDay   int
		wantMonth int
		altDay    int
		altMonth  int
	}{
		{name: "day first", order: DayFirst, wantDay: 1, wantMonth: 2, altDay: 2, altMonth: 1},
		{name: "month first", order: MonthFirst, wantDay: 2, wantMonth: 1, altDay: 1, altMonth: 2},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			got, ok := Best("photo_01-02-2023.jpg", Options{DateOrder: tc.order})
			if !ok {
				t.Fatalf("expected a candidate")
			}
			if got.Year != 2023 || got.Month != tc.wantMonth || got.Day != tc.wantDay {
				t.Fatalf("unexpected winner %04d-%02d-%02d", got.Year, got.Month, got.Day)
			}
			if !got.Ambiguous {
				t.Fatalf("expected winner to be flagged ambiguous")
			}
			found := false
			for _, alt := range got.Alternatives {
				if alt.Year == 2023 && alt.Month == tc.altMonth && alt.Day == tc.altDay {
					found = true
					if alt.Confidence >= got.Confidence {
						t.Fatalf("alternative should score below the winner: %v >= %v", alt.Confidence, got.Confidence)
					}
				}
			}
			if !found {
				t.Fatalf("expected rejected reading in alternatives, got %+v", got.Alternatives)
			}
		})
	}
}

func TestBest_UnambiguousDayMonthIgnoresPreference(t *testing.T) {
	got, ok := Best("scan_25-12-2022.pdf", Options{DateOrder: MonthFirst})
	if !ok {
		t.Fatalf("expected a candidate")
	}
	if got.Day != 25 || got.Month != 12 || got.Ambiguous {
		t.Fatalf("unexpected candidate %+v", got)
	}
}

func TestBest_Idempotent(t *testing.T) {
	names := []string{
		"IMG_20240815_092345.jpg",
		"photo_01-02-2023.jpg",
		"2019_trip_IMG_20240815_092345.jpg",
		"Vacances 14 juillet 2023.jpg",
	}
	for _, name := range names {
		first, _ := Best(name, Options{})
		for i := 0; i < 5; i++ {
			again, _ := Best(name, Options{})
			if !reflect.DeepEqual(first, again) {
				t.Fatalf("%q: results differ between runs\nfirst: %+v\nagain: %+v", name, first, again)
			}
		}
	}
}

func TestBest_RanksPreciseCameraDateAboveBareYear(t *testing.T) {
	got, ok := Best("2019_trip_IMG_20240815_092345.jpg", Options{})
	if !ok {
		t.Fatalf("expected a candidate")
	}
	if got.Year != 2024 || got.Precision != PrecisionSecond {
		t.Fatalf("unexpected winner %+v", got)
	}
	found := false
	for _, alt := range got.Alternatives {
		if alt.Year == 2019 && alt.Precision == PrecisionYear {
			found = true
		}
	}
	if !found {
		t.Fatalf("expected the bare year among alternatives, got %+v", got.Alternatives)
	}
}

func TestDetect_NoTimestamp(t *testing.T) {
	names := []string{
		"notes.txt",
		"holiday.jpg",
		"frame_2019.png",
		"video_1080p.mp4",
		"IMG_1234.jpg",
		"3f2504e0-4f89-11d3-9a0c-0305e82c3301.jpg",
		"",
	}
	for _, name := range names {
		if got := Detect(name, Options{}); len(got) != 0 {
			t.Fatalf("%q: expected no candidates, got %+v", name, got)
		}
	}
}

func TestDetect_EpochWindow(t *testing.T) {
	if got := Detect("1692090225.jpg", Options{EpochYears: YearRange{Min: 2024, Max: 2030}}); len(got) != 0 {
		t.Fatalf("expected epoch outside window to be rejected, got %+v", got)
	}
	got := Detect("1692090225123.jpg", Options{})
	if len(got) != 1 || got[0].Kind != KindEpoch || got[0].Precision != PrecisionMillisecond {
		t.Fatalf("expected one millisecond epoch candidate, got %+v", got)
	}
	if got[0].Millisecond != 123 {
		t.Fatalf("unexpected millisecond %d", got[0].Millisecond)
	}
}

func TestDetect_ISOZone(t *testing.T) {
	got := Detect("export_2024-08-15T10:30:00Z.json", Options{})
	if len(got) == 0 {
		t.Fatalf("expected a candidate")
	}
	if got[0].Kind != KindISO || got[0].Zone != "Z" {
		t.Fatalf("unexpected candidate %+v", got[0])
	}
	if got[0].Hour != 10 || got[0].Minute != 30 || got[0].Second != 0 {
		t.Fatalf("unexpected clock %+v", got[0])
	}
}

func TestDetect_CustomPatternsConsultedFirst(t *testing.T) {
	opts := Options{Patterns: []Pattern{{
		Name:       "week-day",
		Expr:       regexp.MustCompile(`(?P<year>\d{4})w(?P<month>\d{2})d(?P<day>\d{2})`),
		Confidence: 0.95,
	}}}
	got, ok := Best("cam1_2024w08d15.jpg", opts)
	if !ok {
		t.Fatalf("expected a candidate")
	}
	if got.Kind != KindCustom || got.Year != 2024 || got.Month != 8 || got.Day != 15 {
		t.Fatalf("unexpected candidate %+v", got)
	}

	for _, c := range Detect("cam1_2024w08d15.jpg", Options{}) {
		if c.Kind == KindCustom {
			t.Fatalf("custom candidate without patterns: %+v", c)
		}
	}
}

func TestCandidate_YearPrecisionHasNoFinerFields(t *testing.T) {
	for _, c := range Detect("holiday_2019.jpg", Options{}) {
		if c.Precision == PrecisionYear && c.Defined != FieldYear {
			t.Fatalf("year precision candidate carries extra fields: %b", c.Defined)
		}
	}
}
