package booking

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"
)

// DateLayout is the canonical text form of a booking date.
const DateLayout = "02/01/2006"

var dateText = regexp.MustCompile(`^(\d{1,2})/(\d{1,2})/(\d{2}|\d{4})$`)

// Period is a closed range of calendar days [start, end] with start strictly before end.
// The zero value is not a valid period; build one with NewPeriod or ParsePeriod.
type Period struct {
	start time.Time
	end   time.Time
}

// NewPeriod builds a period from two instants, keeping only their calendar day.
func NewPeriod(start, end time.Time) (Period, error) {
	s, e := Day(start), Day(end)
	if !s.Before(e) {
		return Period{}, fmt.Errorf("%w: start %s is not before end %s", ErrInvalidPeriod, FormatDate(s), FormatDate(e))
	}
	return Period{start: s, end: e}, nil
}

// ParsePeriod builds a period from two date strings in day/month/year form.
func ParsePeriod(start, end string) (Period, error) {
	s, err := ParseDate(start)
	if err != nil {
		return Period{}, err
	}
	e, err := ParseDate(end)
	if err != nil {
		return Period{}, err
	}
	return NewPeriod(s, e)
}

// MustPeriod is like ParsePeriod but panics on error. Intended for fixtures.
func MustPeriod(start, end string) Period {
	p, err := ParsePeriod(start, end)
	if err != nil {
		panic(err)
	}
	return p
}

// ParseDate parses day/month/year text. Day and month take one or two digits, the year two or
// four; two digit years land in 2000-2099. Dates that do not exist in the Gregorian calendar
// (such as 31/02) are rejected.
func ParseDate(value string) (time.Time, error) {
	m := dateText.FindStringSubmatch(strings.TrimSpace(value))
	if m == nil {
		return time.Time{}, fmt.Errorf("%w: %q is not a d/m/yy or d/m/yyyy date", ErrInvalidPeriod, value)
	}

	day, _ := strconv.Atoi(m[1])
	month, _ := strconv.Atoi(m[2])
	year, _ := strconv.Atoi(m[3])
	if len(m[3]) == 2 {
		year += 2000
	}

	date := time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)
	if date.Day() != day || int(date.Month()) != month || date.Year() != year {
		return time.Time{}, fmt.Errorf("%w: %q is not a calendar date", ErrInvalidPeriod, value)
	}
	return date, nil
}

// FormatDate renders a date as dd/mm/yyyy.
func FormatDate(t time.Time) string {
	return t.Format(DateLayout)
}

// Day truncates t to its calendar day in t's own location, returned as UTC midnight.
func Day(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// Start returns the first day of the period.
func (p Period) Start() time.Time { return p.start }

// End returns the last day of the period.
func (p Period) End() time.Time { return p.end }

// Nights returns the number of nights between start and end.
func (p Period) Nights() int {
	return int(p.end.Sub(p.start).Hours() / 24)
}

// Equal reports whether both periods cover exactly the same days.
func (p Period) Equal(other Period) bool {
	return p.start.Equal(other.start) && p.end.Equal(other.end)
}

// Overlaps reports whether two periods share a stay. A period starting on the day another
// ends does not overlap it.
func (p Period) Overlaps(other Period) bool {
	if p.Equal(other) {
		return true
	}
	return p.start.Before(other.end) && other.start.Before(p.end)
}

// Compare orders periods by start day, then end day.
func (p Period) Compare(other Period) int {
	if c := p.start.Compare(other.start); c != 0 {
		return c
	}
	return p.end.Compare(other.end)
}

// Includes reports whether date falls within [start, end].
func (p Period) Includes(date time.Time) bool {
	d := Day(date)
	return !d.Before(p.start) && !d.After(p.end)
}

// IsActive reports whether today falls within the period.
func (p Period) IsActive(today time.Time) bool {
	return p.Includes(today)
}

// IsExpired reports whether the period ended before today.
func (p Period) IsExpired(today time.Time) bool {
	return p.end.Before(Day(today))
}

// IsActiveOrExpired reports whether the period has started by today.
func (p Period) IsActiveOrExpired(today time.Time) bool {
	return !p.start.After(Day(today))
}

func (p Period) String() string {
	return FormatDate(p.start) + " - " + FormatDate(p.end)
}
