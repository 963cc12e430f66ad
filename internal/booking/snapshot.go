package booking

import (
	"sort"

	"github.com/iliyamo/table-reservation/internal/model"
)

// Snapshot is the store configuration read once for a request: the table
// inventory and the calendar built from business hours and holidays.
type Snapshot struct {
	Calendar *Calendar
	Tables   []model.Table
}

// NewSnapshot builds a Snapshot.  Tables are ordered by id so selection
// is deterministic regardless of storage order.
func NewSnapshot(tables []model.Table, hours []model.BusinessHoursWindow, holidays []model.Holiday) (*Snapshot, error) {
	cal, err := NewCalendar(hours, holidays)
	if err != nil {
		return nil, err
	}
	ts := make([]model.Table, len(tables))
	copy(ts, tables)
	sort.Slice(ts, func(i, j int) bool { return ts[i].ID < ts[j].ID })
	return &Snapshot{Calendar: cal, Tables: ts}, nil
}

// Table looks a table up by id.
func (s *Snapshot) Table(id uint64) (model.Table, bool) {
	for _, t := range s.Tables {
		if t.ID == id {
			return t, true
		}
	}
	return model.Table{}, false
}

// Booking is one confirmed ledger entry for a single date.
type Booking struct {
	ReservationID uint64
	TableID       uint64
	Slot          Slot
}

// LedgerFrom converts the stored reservations of one date into bookings.
// Any well-formed HH:MM-HH:MM literal is accepted so rows written before a
// catalog change still block their table.
func LedgerFrom(rows []model.Reservation) []Booking {
	out := make([]Booking, 0, len(rows))
	for _, r := range rows {
		if r.Status != "" && r.Status != model.ReservationStatusConfirmed {
			continue
		}
		s, err := parseSlotLiteral(r.Slot)
		if err != nil {
			continue
		}
		out = append(out, Booking{ReservationID: r.ID, TableID: r.TableID, Slot: s})
	}
	return out
}
