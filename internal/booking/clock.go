package booking

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// Clock is a time of day expressed in minutes after midnight.
type Clock int

// ParseClock accepts "HH:MM" or "HH:MM:SS" (seconds are dropped, which is
// how MySQL TIME columns come back).
func ParseClock(s string) (Clock, error) {
	parts := strings.Split(strings.TrimSpace(s), ":")
	if len(parts) != 2 && len(parts) != 3 {
		return 0, fmt.Errorf("%w: %q", ErrInvalidTime, s)
	}
	h, err := strconv.Atoi(parts[0])
	if err != nil || h < 0 || h > 24 {
		return 0, fmt.Errorf("%w: %q", ErrInvalidTime, s)
	}
	m, err := strconv.Atoi(parts[1])
	if err != nil || m < 0 || m > 59 || len(parts[1]) != 2 {
		return 0, fmt.Errorf("%w: %q", ErrInvalidTime, s)
	}
	c := Clock(h*60 + m)
	if c > 24*60 {
		return 0, fmt.Errorf("%w: %q", ErrInvalidTime, s)
	}
	return c, nil
}

func (c Clock) String() string {
	return fmt.Sprintf("%02d:%02d", int(c)/60, int(c)%60)
}

// After reports whether c is strictly later than o.
func (c Clock) After(o Clock) bool { return c > o }

// DateOf strips the time of day.  Dates are civil dates; no timezone
// conversion is applied.
func DateOf(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// ParseDate parses a "2006-01-02" literal.
func ParseDate(s string) (time.Time, error) {
	t, err := time.Parse(time.DateOnly, strings.TrimSpace(s))
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: date %q", ErrInvalidField, s)
	}
	return t, nil
}

// Weekday returns 0..6 with Sunday = 0.
func Weekday(date time.Time) int { return int(date.Weekday()) }
