// Package validate holds the calendar and clock range checks shared by the
// filename detector and the container parsers.
package validate

const (
	// MinYear is the earliest year accepted for any timestamp component.
	MinYear = 1970
	// MaxYear is the latest year accepted for any timestamp component.
	MaxYear = 2100
)

var daysPerMonth = [13]int{0, 31, 28, 31, 30, 31, 30, 31, 31, 30, 31, 30, 31}

// IsLeapYear reports whether year is a Gregorian leap year.
func IsLeapYear(year int) bool {
	return year%4 == 0 && (year%100 != 0 || year%400 == 0)
}

// DaysInMonth returns the number of days in month of year, or 0 for an invalid month.
func DaysInMonth(month, year int) int {
	if !IsValidMonth(month) {
		return 0
	}
	if month == 2 && IsLeapYear(year) {
		return 29
	}
	return daysPerMonth[month]
}

func IsValidYear(year int) bool {
	return year >= MinYear && year <= MaxYear
}

func IsValidMonth(month int) bool {
	return month >= 1 && month <= 12
}

// IsValidDay checks day against the real length of month in year.
func IsValidDay(year, month, day int) bool {
	return day >= 1 && day <= DaysInMonth(month, year)
}

func IsValidHour(hour int) bool {
	return hour >= 0 && hour <= 23
}

func IsValidMinute(minute int) bool {
	return minute >= 0 && minute <= 59
}

func IsValidSecond(second int) bool {
	return second >= 0 && second <= 59
}

func IsValidMillisecond(ms int) bool {
	return ms >= 0 && ms <= 999
}

// IsValidDate combines the year, month and day checks.
func IsValidDate(year, month, day int) bool {
	return IsValidYear(year) && IsValidMonth(month) && IsValidDay(year, month, day)
}

// IsValidTime combines the hour, minute and second checks.
func IsValidTime(hour, minute, second int) bool {
	return IsValidHour(hour) && IsValidMinute(minute) && IsValidSecond(second)
}

// ExpandTwoDigitYear maps yy onto a four digit year, pivoting at 70:
// 00-69 become 2000-2069 and 70-99 become 1970-1999.
func ExpandTwoDigitYear(yy int) int {
	if yy < 0 || yy > 99 {
		return -1
	}
	if yy < 70 {
		return 2000 + yy
	}
	return 1900 + yy
}
