package booking

import "github.com/iliyamo/table-reservation/internal/model"

// Select picks the first candidate, which is the tightest fit.  With no
// candidates it fails with a NoAvailableTableError listing the inventory.
func Select(candidates []model.Table, inventory []model.Table, partySize int) (model.Table, error) {
	if len(candidates) == 0 {
		return model.Table{}, noTable(inventory, partySize)
	}
	return candidates[0], nil
}

// Reassign keeps the reservation's current table when it still seats the
// party and is free for slot; otherwise it selects a new one.  exclude is
// the reservation being edited.
func Reassign(currentTableID uint64, inventory []model.Table, ledger []Booking, slot Slot, partySize int, exclude uint64) (model.Table, error) {
	busy := ConflictingTables(ledger, slot, exclude)
	for _, t := range inventory {
		if t.ID != currentTableID {
			continue
		}
		if _, taken := busy[t.ID]; !taken && Suitable(t.Capacity, partySize) {
			return t, nil
		}
		break
	}
	return Select(Candidates(inventory, ledger, slot, partySize, exclude), inventory, partySize)
}

func noTable(inventory []model.Table, partySize int) error {
	caps := make([]int, len(inventory))
	for i, t := range inventory {
		caps[i] = t.Capacity
	}
	return &NoAvailableTableError{PartySize: partySize, Capacities: caps}
}
