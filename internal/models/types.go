package models

import (
	"database/sql/driver"
	"fmt"
	"time"
)

const (
	dateLayout  = "2006-01-02"
	clockLayout = "15:04"
)

// Date is a calendar date in YYYY-MM-DD form with no zone attached.
type Date string

func DateOf(t time.Time) Date {
	return Date(t.Format(dateLayout))
}

func ParseDate(s string) (Date, error) {
	t, err := time.Parse(dateLayout, s)
	if err != nil {
		return "", fmt.Errorf("parse date %q: %w", s, err)
	}
	return DateOf(t), nil
}

// Time returns midnight of the date in UTC.
func (d Date) Time() time.Time {
	t, _ := time.Parse(dateLayout, string(d))
	return t
}

func (d Date) AddDays(n int) Date {
	return DateOf(d.Time().AddDate(0, 0, n))
}

func (d Date) Weekday() time.Weekday {
	return d.Time().Weekday()
}

func (d Date) String() string {
	return string(d)
}

func (d Date) Value() (driver.Value, error) {
	return string(d), nil
}

func (d *Date) Scan(src any) error {
	switch v := src.(type) {
	case time.Time:
		*d = Date(v.Format(dateLayout))
	case string:
		return d.scanString(v)
	case []byte:
		return d.scanString(string(v))
	case nil:
		*d = ""
	default:
		return fmt.Errorf("scan date: unsupported type %T", src)
	}
	return nil
}

func (d *Date) scanString(s string) error {
	if len(s) < len(dateLayout) {
		return fmt.Errorf("scan date: malformed value %q", s)
	}
	*d = Date(s[:len(dateLayout)])
	return nil
}

// Clock is a wall-clock time of day in HH:MM form.
type Clock string

func NewClock(hour, minute int) Clock {
	return Clock(fmt.Sprintf("%02d:%02d", hour, minute))
}

func ParseClock(s string) (Clock, error) {
	t, err := time.Parse(clockLayout, s)
	if err != nil {
		return "", fmt.Errorf("parse clock %q: %w", s, err)
	}
	return Clock(t.Format(clockLayout)), nil
}

func (c Clock) String() string {
	return string(c)
}

func (c Clock) Value() (driver.Value, error) {
	return string(c), nil
}

func (c *Clock) Scan(src any) error {
	switch v := src.(type) {
	case time.Time:
		*c = Clock(v.Format(clockLayout))
	case string:
		return c.scanString(v)
	case []byte:
		return c.scanString(string(v))
	case nil:
		*c = ""
	default:
		return fmt.Errorf("scan clock: unsupported type %T", src)
	}
	return nil
}

func (c *Clock) scanString(s string) error {
	if len(s) < len(clockLayout) {
		return fmt.Errorf("scan clock: malformed value %q", s)
	}
	*c = Clock(s[:len(clockLayout)])
	return nil
}
