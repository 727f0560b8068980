package dates

import (
	"errors"
	"fmt"
	"time"
)

var (
	ErrInvalidRange = errors.New("dates: end must be after start")
	ErrBadFormat    = errors.New("dates: expected YYYY-MM-DD")
)

// Layout is the wire format for calendar days.
const Layout = "2006-01-02"

// Date is a single calendar day with no time-of-day component, stored as
// days since the Unix epoch. Comparisons are plain integer comparisons,
// which keeps dates safe as map keys.
type Date int

// FromTime truncates t to its UTC calendar day.
func FromTime(t time.Time) Date {
	t = t.UTC()
	midnight := time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
	return Date(midnight.Unix() / 86400)
}

// Today returns the current UTC calendar day.
func Today() Date {
	return FromTime(time.Now())
}

// New builds a Date from calendar components.
func New(year int, month time.Month, day int) Date {
	return FromTime(time.Date(year, month, day, 0, 0, 0, 0, time.UTC))
}

// Parse reads a YYYY-MM-DD value.
func Parse(value string) (Date, error) {
	t, err := time.Parse(Layout, value)
	if err != nil {
		return 0, fmt.Errorf("%w: %q", ErrBadFormat, value)
	}
	return FromTime(t), nil
}

// Time returns midnight UTC of the day.
func (d Date) Time() time.Time {
	return time.Unix(int64(d)*86400, 0).UTC()
}

func (d Date) String() string { return d.Time().Format(Layout) }

func (d Date) AddDays(n int) Date { return d + Date(n) }

func (d Date) Before(other Date) bool { return d < other }

func (d Date) After(other Date) bool { return d > other }

func (d Date) Weekday() time.Weekday { return d.Time().Weekday() }

// DayOfMonth returns the 1-based day within the month.
func (d Date) DayOfMonth() int { return d.Time().Day() }

// MarshalJSON renders the date as a YYYY-MM-DD string.
func (d Date) MarshalJSON() ([]byte, error) {
	return []byte(`"` + d.String() + `"`), nil
}

// UnmarshalJSON accepts a YYYY-MM-DD string.
func (d *Date) UnmarshalJSON(data []byte) error {
	raw := string(data)
	if len(raw) < 2 || raw[0] != '"' || raw[len(raw)-1] != '"' {
		return ErrBadFormat
	}
	parsed, err := Parse(raw[1 : len(raw)-1])
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}

// DateRange is a half-open interval [Start, End) of calendar days.
type DateRange struct {
	Start Date
	End   Date
}

// NewRange validates that the interval covers at least one night.
func NewRange(start, end Date) (DateRange, error) {
	r := DateRange{Start: start, End: end}
	if err := r.Validate(); err != nil {
		return DateRange{}, err
	}
	return r, nil
}

func (r DateRange) Validate() error {
	if r.End <= r.Start {
		return ErrInvalidRange
	}
	return nil
}

// Nights is the number of nights covered by the interval.
func (r DateRange) Nights() int { return int(r.End - r.Start) }

func (r DateRange) Overlaps(other DateRange) bool {
	return r.Start < other.End && other.Start < r.End
}

func (r DateRange) Contains(other DateRange) bool {
	return r.Start <= other.Start && other.End <= r.End
}

func (r DateRange) ContainsDate(d Date) bool {
	return r.Start <= d && d < r.End
}

// Days enumerates every day in [Start, End).
func (r DateRange) Days() []Date {
	if r.End <= r.Start {
		return nil
	}
	out := make([]Date, 0, r.Nights())
	for d := r.Start; d < r.End; d++ {
		out = append(out, d)
	}
	return out
}
