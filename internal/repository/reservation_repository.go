package repository

import (
	"context"
	"database/sql"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/iliyamo/table-reservation/internal/model"
)

const reservationColumns = `r.id, r.phone, r.email, r.party_size, r.booked_name, r.note, r.status,
	r.checked_in, r.reservation_date, r.slot, r.table_id, r.created_at, r.updated_at`

// ReservationRepo reads and writes the reservations table.  All writes go
// through WithTx so the ledger read and the write share one transaction.
type ReservationRepo struct {
	db *sqlx.DB
}

// NewReservationRepo returns a new ReservationRepo bound to the given database.
func NewReservationRepo(db *sqlx.DB) *ReservationRepo { return &ReservationRepo{db: db} }

// ListByDate returns the confirmed reservations of one date without taking
// locks.  It backs the availability query.
func (r *ReservationRepo) ListByDate(ctx context.Context, date time.Time) ([]model.Reservation, error) {
	var out []model.Reservation
	err := r.db.SelectContext(ctx, &out,
		`SELECT `+reservationColumns+` FROM reservations r
		 WHERE r.reservation_date = ? AND r.status = ?
		 ORDER BY r.slot, r.id`,
		dateArg(date), model.ReservationStatusConfirmed)
	return out, err
}

// ListDetailsByDate returns the reservations of a date with their table
// labels for the staff dashboard.
func (r *ReservationRepo) ListDetailsByDate(ctx context.Context, date time.Time) ([]model.ReservationDetail, error) {
	out := []model.ReservationDetail{}
	err := r.db.SelectContext(ctx, &out,
		`SELECT `+reservationColumns+`, t.external_table_id FROM reservations r
		 JOIN tables t ON t.id = r.table_id
		 WHERE r.reservation_date = ?
		 ORDER BY r.slot, t.external_table_id`,
		dateArg(date))
	return out, err
}

// GetDetail loads one reservation with its table label.
func (r *ReservationRepo) GetDetail(ctx context.Context, id uint64) (model.ReservationDetail, error) {
	var d model.ReservationDetail
	err := r.db.GetContext(ctx, &d,
		`SELECT `+reservationColumns+`, t.external_table_id FROM reservations r
		 JOIN tables t ON t.id = r.table_id
		 WHERE r.id = ?`, id)
	return d, notFound(err)
}

// WithTx runs fn inside a transaction and commits when it returns nil.
func (r *ReservationRepo) WithTx(ctx context.Context, fn func(*ReservationTx) error) error {
	tx, err := r.db.BeginTxx(ctx, &sql.TxOptions{Isolation: sql.LevelRepeatableRead})
	if err != nil {
		return err
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()
	if err := fn(&ReservationTx{tx: tx}); err != nil {
		return err
	}
	if err := tx.Commit(); err != nil {
		return err
	}
	committed = true
	return nil
}

// ReservationTx is the reservation ledger bound to one transaction.
type ReservationTx struct {
	tx *sqlx.Tx
}

// ListByDate locks and returns the confirmed reservations of one date.
// The FOR UPDATE range lock on idx_reservations_date serializes writers
// booking the same date.
func (t *ReservationTx) ListByDate(ctx context.Context, date time.Time) ([]model.Reservation, error) {
	var out []model.Reservation
	err := t.tx.SelectContext(ctx, &out,
		`SELECT `+reservationColumns+` FROM reservations r
		 WHERE r.reservation_date = ? AND r.status = ?
		 ORDER BY r.id
		 FOR UPDATE`,
		dateArg(date), model.ReservationStatusConfirmed)
	return out, err
}

// ExistsByPhoneAndDate reports whether phone already holds a confirmed
// reservation on date.  excludeID skips one reservation; 0 skips none.
func (t *ReservationTx) ExistsByPhoneAndDate(ctx context.Context, phone string, date time.Time, excludeID uint64) (bool, error) {
	var n int
	err := t.tx.GetContext(ctx, &n,
		`SELECT COUNT(*) FROM reservations
		 WHERE phone = ? AND reservation_date = ? AND status = ? AND id <> ?`,
		phone, dateArg(date), model.ReservationStatusConfirmed, excludeID)
	return n > 0, err
}

// Get locks and loads a reservation by id.
func (t *ReservationTx) Get(ctx context.Context, id uint64) (model.Reservation, error) {
	var res model.Reservation
	err := t.tx.GetContext(ctx, &res,
		`SELECT `+reservationColumns+` FROM reservations r WHERE r.id = ? FOR UPDATE`, id)
	return res, notFound(err)
}

// Insert stores res and fills in its id and timestamps.
func (t *ReservationTx) Insert(ctx context.Context, res *model.Reservation) error {
	result, err := t.tx.ExecContext(ctx,
		`INSERT INTO reservations
		 (phone, email, party_size, booked_name, note, status, checked_in, reservation_date, slot, table_id)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		res.Phone, res.Email, res.PartySize, res.BookedName, res.Note, res.Status,
		res.CheckedIn, dateArg(res.Date), res.Slot, res.TableID)
	if err != nil {
		return err
	}
	id, err := result.LastInsertId()
	if err != nil {
		return err
	}
	return t.reload(ctx, uint64(id), res)
}

// Update overwrites the editable columns of res.
func (t *ReservationTx) Update(ctx context.Context, res *model.Reservation) error {
	result, err := t.tx.ExecContext(ctx,
		`UPDATE reservations
		 SET phone = ?, email = ?, party_size = ?, booked_name = ?, note = ?,
		     reservation_date = ?, slot = ?, table_id = ?
		 WHERE id = ?`,
		res.Phone, res.Email, res.PartySize, res.BookedName, res.Note,
		dateArg(res.Date), res.Slot, res.TableID, res.ID)
	if err != nil {
		return err
	}
	if err := expectRow(result); err != nil {
		return err
	}
	return t.reload(ctx, res.ID, res)
}

// SetCheckedIn flags the reservation as checked in.  Setting it twice is
// not an error.
func (t *ReservationTx) SetCheckedIn(ctx context.Context, id uint64) error {
	_, err := t.tx.ExecContext(ctx,
		`UPDATE reservations SET checked_in = TRUE WHERE id = ?`, id)
	return err
}

// Delete removes the reservation row.
func (t *ReservationTx) Delete(ctx context.Context, id uint64) error {
	result, err := t.tx.ExecContext(ctx, `DELETE FROM reservations WHERE id = ?`, id)
	if err != nil {
		return err
	}
	return expectRow(result)
}

func (t *ReservationTx) reload(ctx context.Context, id uint64, res *model.Reservation) error {
	return t.tx.GetContext(ctx, res,
		`SELECT `+reservationColumns+` FROM reservations r WHERE r.id = ?`, id)
}

func expectRow(result sql.Result) error {
	n, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

// dateArg binds a civil date as a DATE literal.
func dateArg(t time.Time) string { return t.Format(time.DateOnly) }
