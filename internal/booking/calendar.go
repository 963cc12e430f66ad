package booking

import (
	"fmt"
	"sort"
	"time"

	"github.com/iliyamo/table-reservation/internal/model"
)

// Window is an opening window [Open, Close) of a weekday.
type Window struct {
	Open  Clock
	Close Clock
}

func (w Window) String() string { return w.Open.String() + "-" + w.Close.String() }

// Calendar combines the weekly business hours with holiday exceptions.
// It is built once per request from a store configuration snapshot and is
// never mutated afterwards.
type Calendar struct {
	windows  map[int][]Window
	holidays map[string]string
}

// NewCalendar indexes the active windows by weekday and the holidays by
// exact date.  Stored windows with unparsable times are rejected.
func NewCalendar(hours []model.BusinessHoursWindow, holidays []model.Holiday) (*Calendar, error) {
	c := &Calendar{
		windows:  make(map[int][]Window),
		holidays: make(map[string]string, len(holidays)),
	}
	for _, h := range hours {
		if !h.IsActive {
			continue
		}
		w, err := parseWindow(h)
		if err != nil {
			return nil, fmt.Errorf("business hours %d: %w", h.ID, err)
		}
		c.windows[h.DayOfWeek] = append(c.windows[h.DayOfWeek], w)
	}
	for day := range c.windows {
		ws := c.windows[day]
		sort.Slice(ws, func(i, j int) bool { return ws[i].Open < ws[j].Open })
	}
	// Only the stored date is matched; IsRecurring does not repeat the
	// holiday in other years.
	for _, h := range holidays {
		c.holidays[dateKey(h.Date)] = h.Reason
	}
	return c, nil
}

// IsHoliday reports whether date matches a holiday exactly and returns its
// reason.
func (c *Calendar) IsHoliday(date time.Time) (string, bool) {
	reason, ok := c.holidays[dateKey(date)]
	return reason, ok
}

// IsOpen is false on a holiday, otherwise true when the weekday has at
// least one active window.
func (c *Calendar) IsOpen(date time.Time) bool {
	if _, ok := c.IsHoliday(date); ok {
		return false
	}
	return len(c.windows[Weekday(date)]) > 0
}

// WindowsFor returns the active windows of the date's weekday sorted by
// opening time.  The returned slice is a copy.
func (c *Calendar) WindowsFor(date time.Time) []Window {
	ws := c.windows[Weekday(date)]
	out := make([]Window, len(ws))
	copy(out, ws)
	return out
}

// ValidateNewWindow checks a window about to be added by the store
// configuration against the existing windows.  Two windows conflict when
// they touch or overlap: a window closing at 12:00 and one opening at
// 12:00 on the same weekday are rejected.
func ValidateNewWindow(existing []model.BusinessHoursWindow, candidate model.BusinessHoursWindow) error {
	if candidate.DayOfWeek < 0 || candidate.DayOfWeek > 6 {
		return fmt.Errorf("%w: day_of_week %d not in 0..6", ErrInvalidWindow, candidate.DayOfWeek)
	}
	nw, err := parseWindow(candidate)
	if err != nil {
		return err
	}
	for _, e := range existing {
		if !e.IsActive || e.DayOfWeek != candidate.DayOfWeek || (candidate.ID != 0 && e.ID == candidate.ID) {
			continue
		}
		ew, err := parseWindow(e)
		if err != nil {
			return fmt.Errorf("business hours %d: %w", e.ID, err)
		}
		if windowsTouch(nw, ew) {
			return fmt.Errorf("%w: %s conflicts with %s", ErrWindowOverlap, nw, ew)
		}
	}
	return nil
}

// windowsTouch is the inclusive overlap used for business hours
// configuration.  Reservation conflicts use the strict Overlaps instead.
func windowsTouch(a, b Window) bool {
	return !a.Open.After(b.Close) && !b.Open.After(a.Close)
}

func parseWindow(h model.BusinessHoursWindow) (Window, error) {
	open, err := ParseClock(h.OpenTime)
	if err != nil {
		return Window{}, err
	}
	closeAt, err := ParseClock(h.CloseTime)
	if err != nil {
		return Window{}, err
	}
	if open >= closeAt {
		return Window{}, fmt.Errorf("%w: open %s is not before close %s", ErrInvalidWindow, open, closeAt)
	}
	return Window{Open: open, Close: closeAt}, nil
}

func dateKey(t time.Time) string { return t.Format(time.DateOnly) }
