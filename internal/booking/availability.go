package booking

import (
	"sort"
	"time"

	"github.com/iliyamo/table-reservation/internal/model"
)

// MaxWaste is the largest number of empty seats a table may leave for a
// party.
const MaxWaste = 2

// Overlaps is the strict half-open overlap of [s1,e1) and [s2,e2).
// Back-to-back slots such as 12:00-13:30 and 13:30-15:00 do not overlap.
func Overlaps(s1, e1, s2, e2 Clock) bool {
	return s2 < e1 && s1 < e2
}

// Suitable reports whether a table seats the party without wasting more
// than MaxWaste seats.
func Suitable(capacity, partySize int) bool {
	return capacity >= partySize && capacity-partySize <= MaxWaste
}

// ConflictingTables returns the ids of tables holding a booking that
// overlaps slot.  The booking with id exclude is ignored; 0 excludes none.
func ConflictingTables(ledger []Booking, slot Slot, exclude uint64) map[uint64]struct{} {
	out := make(map[uint64]struct{})
	for _, b := range ledger {
		if exclude != 0 && b.ReservationID == exclude {
			continue
		}
		if Overlaps(slot.Start, slot.End, b.Slot.Start, b.Slot.End) {
			out[b.TableID] = struct{}{}
		}
	}
	return out
}

// Candidates lists the suitable, conflict-free tables for slot, smallest
// capacity first and ties broken by table id.
func Candidates(tables []model.Table, ledger []Booking, slot Slot, partySize int, exclude uint64) []model.Table {
	busy := ConflictingTables(ledger, slot, exclude)
	var out []model.Table
	for _, t := range tables {
		if !Suitable(t.Capacity, partySize) {
			continue
		}
		if _, taken := busy[t.ID]; taken {
			continue
		}
		out = append(out, t)
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Capacity != out[j].Capacity {
			return out[i].Capacity < out[j].Capacity
		}
		return out[i].ID < out[j].ID
	})
	return out
}

// AvailableSlots returns the catalog slots that fall inside business hours
// on date and still have a candidate table for the party.  The ledger must
// hold the bookings of date only.
func AvailableSlots(snap *Snapshot, ledger []Booking, date time.Time, partySize int) []Slot {
	if partySize <= 0 || !snap.Calendar.IsOpen(date) {
		return nil
	}
	var out []Slot
	for _, s := range catalog {
		if !IsBookable(snap.Calendar, s, date) {
			continue
		}
		if len(Candidates(snap.Tables, ledger, s, partySize, 0)) == 0 {
			continue
		}
		out = append(out, s)
	}
	return out
}
