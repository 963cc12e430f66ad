package model

import "time"

// ReservationStatusConfirmed is the only status ever persisted.  Cancelling
// a reservation removes the row.
const ReservationStatusConfirmed = "confirmed"

// Reservation is a confirmed table booking for one slot on one date.
//
// Fields:
//  ID         – primary key identifier.
//  Phone      – contact phone, at most one reservation per phone and date.
//  Email      – optional contact e-mail.
//  PartySize  – number of guests, greater than zero.
//  BookedName – name the table is booked under.
//  Note       – optional free text.
//  Status     – always ReservationStatusConfirmed.
//  CheckedIn  – flips false→true once the party arrives; never reset.
//  Date       – service date (no time component).
//  Slot       – canonical slot literal, e.g. "12:00-13:30".
//  TableID    – assigned table; set on every create/update.
type Reservation struct {
	ID         uint64    `db:"id"`               // reservations.id
	Phone      string    `db:"phone"`            // reservations.phone
	Email      *string   `db:"email"`            // reservations.email (nullable)
	PartySize  int       `db:"party_size"`       // reservations.party_size
	BookedName string    `db:"booked_name"`      // reservations.booked_name
	Note       *string   `db:"note"`             // reservations.note (nullable)
	Status     string    `db:"status"`           // reservations.status
	CheckedIn  bool      `db:"checked_in"`       // reservations.checked_in
	Date       time.Time `db:"reservation_date"` // reservations.reservation_date
	Slot       string    `db:"slot"`             // reservations.slot
	TableID    uint64    `db:"table_id"`         // reservations.table_id
	CreatedAt  time.Time `db:"created_at"`       // reservations.created_at
	UpdatedAt  time.Time `db:"updated_at"`       // reservations.updated_at
}

// ReservationDetail is a reservation joined with the label of its table,
// the shape returned to API clients.
type ReservationDetail struct {
	Reservation
	ExternalTableID string `db:"external_table_id"` // tables.external_table_id
}
