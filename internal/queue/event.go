// Package queue defines the reservation events exchanged over RabbitMQ and
// the consumer that turns them into guest notification log lines.
package queue

import "time"

// Event types, also used as the AMQP message type.
const (
	EventCreated   = "reservation.created"
	EventUpdated   = "reservation.updated"
	EventCheckedIn = "reservation.checked_in"
	EventDeleted   = "reservation.deleted"
)

// ReservationEvent is published after a reservation change commits.  It
// carries enough for a notifier to contact the guest without reading the
// database.
type ReservationEvent struct {
	Type            string    `json:"type"`
	ReservationID   uint64    `json:"reservation_id"`
	Phone           string    `json:"phone"`
	Email           *string   `json:"email,omitempty"`
	BookedName      string    `json:"booked_name"`
	PartySize       int       `json:"party_size"`
	Date            string    `json:"date"`
	Slot            string    `json:"slot"`
	TableID         uint64    `json:"table_id"`
	ExternalTableID string    `json:"external_table_id,omitempty"`
	OccurredAt      time.Time `json:"occurred_at"`
}
