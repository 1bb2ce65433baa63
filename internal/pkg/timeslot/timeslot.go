// Package timeslot holds the calendar and time-of-day value types shared by the
// availability checker and the reservation store.
package timeslot

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/jinzhu/now"
)

const (
	MinutesPerDay = 24 * 60
	DateLayout    = "2006-01-02"
)

var (
	ErrInvalidInterval = errors.New("invalid interval: start must be before end")
	ErrInvalidClock    = errors.New("invalid time of day")
	ErrInvalidDate     = errors.New("invalid date")
)

// Clock is a time of day in minutes since midnight. 24:00 is only meaningful as
// the exclusive end of an interval.
type Clock int

func ParseClock(s string) (Clock, error) {
	s = strings.TrimSpace(s)
	parts := strings.Split(s, ":")
	if len(parts) < 2 || len(parts) > 3 {
		return 0, fmt.Errorf("%w: %q", ErrInvalidClock, s)
	}

	nums := make([]int, len(parts))
	for i, p := range parts {
		if len(p) != 2 {
			return 0, fmt.Errorf("%w: %q", ErrInvalidClock, s)
		}
		n, err := strconv.Atoi(p)
		if err != nil {
			return 0, fmt.Errorf("%w: %q", ErrInvalidClock, s)
		}
		nums[i] = n
	}

	h, m := nums[0], nums[1]
	sec := 0
	if len(nums) == 3 {
		sec = nums[2]
	}
	if m > 59 || sec > 59 {
		return 0, fmt.Errorf("%w: %q", ErrInvalidClock, s)
	}
	if h > 24 || (h == 24 && (m != 0 || sec != 0)) {
		return 0, fmt.Errorf("%w: %q", ErrInvalidClock, s)
	}
	if sec != 0 {
		return 0, fmt.Errorf("%w: seconds are not supported: %q", ErrInvalidClock, s)
	}

	return Clock(h*60 + m), nil
}

// MustClock panics on malformed input; used for constants and tests.
func MustClock(s string) Clock {
	c, err := ParseClock(s)
	if err != nil {
		panic(err)
	}
	return c
}

func (c Clock) Minutes() int { return int(c) }

func (c Clock) String() string {
	return fmt.Sprintf("%02d:%02d", int(c)/60, int(c)%60)
}

func (c Clock) MarshalText() ([]byte, error) { return []byte(c.String()), nil }

func (c *Clock) UnmarshalText(b []byte) error {
	v, err := ParseClock(string(b))
	if err != nil {
		return err
	}
	*c = v
	return nil
}

// Date is a calendar day. The wall-clock date is kept as given; no time zone
// conversion happens beyond dropping the time of day.
type Date struct {
	t time.Time
}

func ParseDate(s string) (Date, error) {
	t, err := time.Parse(DateLayout, strings.TrimSpace(s))
	if err != nil {
		return Date{}, fmt.Errorf("%w: %q", ErrInvalidDate, s)
	}
	return DateOf(t), nil
}

func MustDate(s string) Date {
	d, err := ParseDate(s)
	if err != nil {
		panic(err)
	}
	return d
}

// DateOf takes the calendar day of t in its own location.
func DateOf(t time.Time) Date {
	y, m, d := t.Date()
	return Date{t: now.With(time.Date(y, m, d, 12, 0, 0, 0, time.UTC)).BeginningOfDay()}
}

func (d Date) IsZero() bool { return d.t.IsZero() }
func (d Date) Time() time.Time { return d.t }
func (d Date) String() string { return d.t.Format(DateLayout) }
func (d Date) Compact() string { return d.t.Format("20060102") }
func (d Date) AddDays(n int) Date { return Date{t: d.t.AddDate(0, 0, n)} }
func (d Date) Before(o Date) bool { return d.t.Before(o.t) }
func (d Date) After(o Date) bool { return d.t.After(o.t) }
func (d Date) Equal(o Date) bool { return d.t.Equal(o.t) }
func (d Date) MarshalText() ([]byte, error) { return []byte(d.String()), nil }

func (d *Date) UnmarshalText(b []byte) error {
	v, err := ParseDate(string(b))
	if err != nil {
		return err
	}
	*d = v
	return nil
}

const secondsPerDay = 24 * 60 * 60

// Span counts the dates from from to to inclusive without listing them. A
// reversed range spans zero days.
func Span(from, to Date) int64 {
	if from.After(to) {
		return 0
	}
	return (to.t.Unix()-from.t.Unix())/secondsPerDay + 1
}

// Days lists every date from from to to inclusive. A reversed range is empty.
func Days(from, to Date) []Date {
	if from.After(to) {
		return []Date{}
	}
	out := make([]Date, 0, Span(from, to))
	for d := from; !d.After(to); d = d.AddDays(1) {
		out = append(out, d)
	}
	return out
}

// Interval is the half-open range [Start, End).
type Interval struct {
	Start Clock `json:"start"`
	End   Clock `json:"end"`
}

func NewInterval(start, end Clock) (Interval, error) {
	if start < 0 || end > MinutesPerDay || start >= end {
		return Interval{}, ErrInvalidInterval
	}
	return Interval{Start: start, End: end}, nil
}

func ParseInterval(start, end string) (Interval, error) {
	s, err := ParseClock(start)
	if err != nil {
		return Interval{}, err
	}
	e, err := ParseClock(end)
	if err != nil {
		return Interval{}, err
	}
	return NewInterval(s, e)
}

// Overlaps reports whether a and b share at least one instant. Abutting
// intervals do not overlap.
func Overlaps(a, b Interval) bool {
	return a.Start < b.End && b.Start < a.End
}

func (i Interval) Overlaps(o Interval) bool { return Overlaps(i, o) }

func (i Interval) Duration() time.Duration {
	return time.Duration(i.End-i.Start) * time.Minute
}

func (i Interval) String() string {
	return i.Start.String() + "-" + i.End.String()
}

// OverlapsAny reports whether i overlaps any interval in others.
func (i Interval) OverlapsAny(others []Interval) bool {
	for _, o := range others {
		if Overlaps(i, o) {
			return true
		}
	}
	return false
}
