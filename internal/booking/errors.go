// Package booking implements table reservation scheduling: the business
// calendar, the fixed slot catalog, availability over the reservation
// ledger and table selection.  Everything here is pure; callers load a
// Snapshot and the ledger for a date and pass them in explicitly.
package booking

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// Kind classifies a booking error for the transport layer.
type Kind int

const (
	KindUnknown Kind = iota
	KindValidation
	KindNotFound
	KindConflict
	KindPolicy
)

func (k Kind) String() string {
	switch k {
	case KindValidation:
		return "validation"
	case KindNotFound:
		return "not_found"
	case KindConflict:
		return "conflict"
	case KindPolicy:
		return "policy"
	}
	return "unknown"
}

type kindError struct {
	kind Kind
	msg  string
}

func (e *kindError) Error() string { return e.msg }

// Sentinel errors.  Wrap them with fmt.Errorf("%w: ...") to add detail;
// KindOf still classifies the wrapped error.
var (
	ErrMissingField = &kindError{KindValidation, "missing required field"}
	ErrInvalidField = &kindError{KindValidation, "invalid field"}
	ErrInvalidSlot  = &kindError{KindValidation, "invalid slot"}
	ErrInvalidTime  = &kindError{KindValidation, "invalid time of day"}

	ErrReservationNotFound = &kindError{KindNotFound, "reservation not found"}

	ErrDuplicateBooking = &kindError{KindConflict, "a reservation already exists for this phone number on this date"}
	ErrNoAvailableTable = &kindError{KindConflict, "no available table for this party size"}
	ErrWindowOverlap    = &kindError{KindConflict, "business hours window overlaps an existing window"}

	ErrPastDate             = &kindError{KindPolicy, "reservation date is in the past"}
	ErrHoliday              = &kindError{KindPolicy, "the restaurant is closed on this date"}
	ErrOutsideBusinessHours = &kindError{KindPolicy, "slot is outside business hours"}
	ErrInvalidWindow        = &kindError{KindValidation, "invalid business hours window"}
)

// KindOf returns the classification of err, or KindUnknown for runtime
// faults that are not part of the booking taxonomy.
func KindOf(err error) Kind {
	var ke *kindError
	if errors.As(err, &ke) {
		return ke.kind
	}
	return KindUnknown
}

// NoAvailableTableError reports table exhaustion together with the
// capacities of every table in the inventory.
type NoAvailableTableError struct {
	PartySize  int
	Capacities []int
}

func (e *NoAvailableTableError) Error() string {
	caps := make([]string, len(e.Capacities))
	for i, c := range e.Capacities {
		caps[i] = strconv.Itoa(c)
	}
	return fmt.Sprintf("%s (party of %d, table capacities [%s])",
		ErrNoAvailableTable.msg, e.PartySize, strings.Join(caps, ","))
}

func (e *NoAvailableTableError) Unwrap() error { return ErrNoAvailableTable }
