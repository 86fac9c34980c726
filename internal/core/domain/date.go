package domain

import (
	"fmt"
	"time"
)

// DateLayout is the wire format for calendar dates. Transactions carry a
// calendar date only, never a time of day.
const DateLayout = "2006-01-02"

// Date is a calendar date without a time component. The zero value is the
// zero date. Dates are always normalized to midnight UTC so values are
// comparable with == and usable as map keys.
type Date struct {
	time.Time
}

// NewDate builds a Date from year/month/day.
func NewDate(year int, month time.Month, day int) Date {
	return Date{time.Date(year, month, day, 0, 0, 0, 0, time.UTC)}
}

// ParseDate parses an ISO 8601 date (YYYY-MM-DD).
func ParseDate(s string) (Date, error) {
	t, err := time.Parse(DateLayout, s)
	if err != nil {
		return Date{}, fmt.Errorf("invalid date %q: %w", s, err)
	}
	return Date{t}, nil
}

// DateOf truncates an instant to its calendar date in UTC. It is how "now"
// from the clock collaborator becomes a default transaction date.
func DateOf(t time.Time) Date {
	t = t.UTC()
	return NewDate(t.Year(), t.Month(), t.Day())
}

// AddDays returns the date n days later.
func (d Date) AddDays(n int) Date {
	return Date{d.Time.AddDate(0, 0, n)}
}

// AddMonths returns the date n calendar months later. Month arithmetic uses
// roll-over semantics: when the target month is shorter, the date normalizes
// forward (Jan 31 + 1 month = Mar 2 or Mar 3). This matches the recurrence
// stepping policy documented on Frequency.
func (d Date) AddMonths(n int) Date {
	return Date{d.Time.AddDate(0, n, 0)}
}

// AddYears returns the date n calendar years later, with the same roll-over
// semantics (Feb 29 + 1 year = Mar 1 in a non-leap year).
func (d Date) AddYears(n int) Date {
	return Date{d.Time.AddDate(n, 0, 0)}
}

func (d Date) String() string {
	return d.Format(DateLayout)
}

// MonthKey returns the YYYY-MM prefix, used for monthly aggregation.
func (d Date) MonthKey() string {
	return d.Format("2006-01")
}

func (d Date) MarshalJSON() ([]byte, error) {
	return []byte(`"` + d.String() + `"`), nil
}

func (d *Date) UnmarshalJSON(data []byte) error {
	if len(data) < 2 || data[0] != '"' || data[len(data)-1] != '"' {
		return fmt.Errorf("invalid date literal %s", data)
	}
	parsed, err := ParseDate(string(data[1 : len(data)-1]))
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}
