// Package service holds the reservation lifecycle: create, update, check-in
// and delete, each validated and committed as one unit of work against the
// ledger of the reservation's date.
package service

import (
	"context"
	"time"

	"github.com/iliyamo/table-reservation/internal/booking"
	"github.com/iliyamo/table-reservation/internal/model"
	"github.com/iliyamo/table-reservation/internal/queue"
)

// Ledger is the reservation store as seen from inside a unit of work.
// Missing rows are reported as repository.ErrNotFound.
type Ledger interface {
	ListByDate(ctx context.Context, date time.Time) ([]model.Reservation, error)
	ExistsByPhoneAndDate(ctx context.Context, phone string, date time.Time, excludeID uint64) (bool, error)
	Get(ctx context.Context, id uint64) (model.Reservation, error)
	Insert(ctx context.Context, res *model.Reservation) error
	Update(ctx context.Context, res *model.Reservation) error
	SetCheckedIn(ctx context.Context, id uint64) error
	Delete(ctx context.Context, id uint64) error
}

// UnitOfWork runs fn atomically: everything fn writes is committed when it
// returns nil and discarded otherwise.
type UnitOfWork interface {
	Do(ctx context.Context, fn func(ctx context.Context, l Ledger) error) error
}

// CatalogSource loads the store configuration for one request.
type CatalogSource interface {
	Snapshot(ctx context.Context) (*booking.Snapshot, error)
}

// ReservationReader serves the read-only queries.
type ReservationReader interface {
	ListByDate(ctx context.Context, date time.Time) ([]model.Reservation, error)
	ListDetailsByDate(ctx context.Context, date time.Time) ([]model.ReservationDetail, error)
	GetDetail(ctx context.Context, id uint64) (model.ReservationDetail, error)
}

// EventPublisher delivers committed reservation changes.
type EventPublisher interface {
	Publish(ctx context.Context, ev queue.ReservationEvent) error
}

// CacheInvalidator drops cached availability for a date.
type CacheInvalidator interface {
	Invalidate(ctx context.Context, date time.Time) error
}
