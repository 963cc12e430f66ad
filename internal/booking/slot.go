package booking

import (
	"fmt"
	"strings"
	"time"
)

// Slot is one of the fixed service windows guests can book.  Slots are
// half-open intervals [Start, End).
type Slot struct {
	Start Clock
	End   Clock
}

var slotLiterals = []string{
	"11:00-12:30", "11:30-13:00", "12:00-13:30", "12:30-14:00", "13:00-14:30", "13:30-15:00",
	"17:00-18:30", "17:30-19:00", "18:00-19:30", "18:30-20:00", "19:00-20:30", "19:30-21:00",
}

var catalog = buildCatalog()

func buildCatalog() []Slot {
	out := make([]Slot, 0, len(slotLiterals))
	for _, lit := range slotLiterals {
		s, err := parseSlotLiteral(lit)
		if err != nil {
			panic(err)
		}
		out = append(out, s)
	}
	return out
}

// Catalog returns the twelve bookable slots in canonical order.
func Catalog() []Slot {
	out := make([]Slot, len(catalog))
	copy(out, catalog)
	return out
}

// ParseSlot accepts only literals from the catalog.
func ParseSlot(s string) (Slot, error) {
	parsed, err := parseSlotLiteral(s)
	if err != nil {
		return Slot{}, err
	}
	for _, c := range catalog {
		if c == parsed {
			return c, nil
		}
	}
	return Slot{}, fmt.Errorf("%w: %q is not a bookable slot", ErrInvalidSlot, s)
}

func parseSlotLiteral(s string) (Slot, error) {
	start, end, ok := strings.Cut(strings.TrimSpace(s), "-")
	if !ok {
		return Slot{}, fmt.Errorf("%w: %q", ErrInvalidSlot, s)
	}
	sc, err := ParseClock(start)
	if err != nil {
		return Slot{}, fmt.Errorf("%w: %q", ErrInvalidSlot, s)
	}
	ec, err := ParseClock(end)
	if err != nil || ec <= sc {
		return Slot{}, fmt.Errorf("%w: %q", ErrInvalidSlot, s)
	}
	return Slot{Start: sc, End: ec}, nil
}

func (s Slot) String() string { return s.Start.String() + "-" + s.End.String() }

// WithinBusinessHours requires the slot to lie entirely inside the window.
func WithinBusinessHours(s Slot, w Window) bool {
	return s.Start >= w.Open && s.End <= w.Close
}

// IsBookable reports whether some window of the date fully contains the
// slot.
func IsBookable(cal *Calendar, s Slot, date time.Time) bool {
	for _, w := range cal.WindowsFor(date) {
		if WithinBusinessHours(s, w) {
			return true
		}
	}
	return false
}

// SlotStrings renders slots as their canonical literals.
func SlotStrings(slots []Slot) []string {
	out := make([]string, len(slots))
	for i, s := range slots {
		out[i] = s.String()
	}
	return out
}
