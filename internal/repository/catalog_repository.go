package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/iliyamo/table-reservation/internal/booking"
	"github.com/iliyamo/table-reservation/internal/model"
)

// CatalogRepo reads the store configuration: tables, business hours and
// holidays.  It also backs the admin screens that add hours and holidays.
type CatalogRepo struct {
	db *sqlx.DB
}

// NewCatalogRepo returns a new CatalogRepo bound to the given database.
func NewCatalogRepo(db *sqlx.DB) *CatalogRepo { return &CatalogRepo{db: db} }

// ListTables returns every table ordered by id.
func (r *CatalogRepo) ListTables(ctx context.Context) ([]model.Table, error) {
	out := []model.Table{}
	err := r.db.SelectContext(ctx, &out,
		`SELECT id, external_table_id, capacity FROM tables ORDER BY id`)
	return out, err
}

// CreateTable adds a table to the floor.
func (r *CatalogRepo) CreateTable(ctx context.Context, t *model.Table) error {
	res, err := r.db.ExecContext(ctx,
		`INSERT INTO tables (external_table_id, capacity) VALUES (?, ?)`,
		t.ExternalTableID, t.Capacity)
	if err != nil {
		if isDuplicate(err) {
			return ErrConflict
		}
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	t.ID = uint64(id)
	return nil
}

// ListBusinessHours returns every window, active or not.
func (r *CatalogRepo) ListBusinessHours(ctx context.Context) ([]model.BusinessHoursWindow, error) {
	out := []model.BusinessHoursWindow{}
	err := r.db.SelectContext(ctx, &out,
		`SELECT id, day_of_week, TIME_FORMAT(open_time, '%H:%i') AS open_time,
		        TIME_FORMAT(close_time, '%H:%i') AS close_time, is_active
		 FROM business_hours ORDER BY day_of_week, open_time`)
	return out, err
}

// CreateBusinessHours validates w against the active windows of its
// weekday and inserts it.  The weekday's rows are locked so two admins
// cannot add overlapping windows concurrently.
func (r *CatalogRepo) CreateBusinessHours(ctx context.Context, w *model.BusinessHoursWindow) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return err
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()

	var existing []model.BusinessHoursWindow
	if err := tx.SelectContext(ctx, &existing,
		`SELECT id, day_of_week, TIME_FORMAT(open_time, '%H:%i') AS open_time,
		        TIME_FORMAT(close_time, '%H:%i') AS close_time, is_active
		 FROM business_hours WHERE day_of_week = ? FOR UPDATE`, w.DayOfWeek); err != nil {
		return err
	}
	if err := booking.ValidateNewWindow(existing, *w); err != nil {
		return err
	}
	res, err := tx.ExecContext(ctx,
		`INSERT INTO business_hours (day_of_week, open_time, close_time, is_active) VALUES (?, ?, ?, ?)`,
		w.DayOfWeek, w.OpenTime, w.CloseTime, w.IsActive)
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	if err := tx.Commit(); err != nil {
		return err
	}
	committed = true
	w.ID = uint64(id)
	return nil
}

// ListHolidays returns every holiday ordered by date.
func (r *CatalogRepo) ListHolidays(ctx context.Context) ([]model.Holiday, error) {
	out := []model.Holiday{}
	err := r.db.SelectContext(ctx, &out,
		`SELECT id, holiday_date, is_recurring, reason FROM holidays ORDER BY holiday_date`)
	return out, err
}

// CreateHoliday inserts h.  A second holiday on the same date is
// ErrConflict.
func (r *CatalogRepo) CreateHoliday(ctx context.Context, h *model.Holiday) error {
	res, err := r.db.ExecContext(ctx,
		`INSERT INTO holidays (holiday_date, is_recurring, reason) VALUES (?, ?, ?)`,
		dateArg(h.Date), h.IsRecurring, h.Reason)
	if err != nil {
		if isDuplicate(err) {
			return ErrConflict
		}
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	h.ID = uint64(id)
	return nil
}

// Snapshot reads tables, hours and holidays in one read-only transaction
// so a request sees a consistent configuration.
func (r *CatalogRepo) Snapshot(ctx context.Context) (*booking.Snapshot, error) {
	tx, err := r.db.BeginTxx(ctx, &sql.TxOptions{ReadOnly: true})
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	var (
		tables   []model.Table
		hours    []model.BusinessHoursWindow
		holidays []model.Holiday
	)
	if err := tx.SelectContext(ctx, &tables,
		`SELECT id, external_table_id, capacity FROM tables`); err != nil {
		return nil, fmt.Errorf("load tables: %w", err)
	}
	if err := tx.SelectContext(ctx, &hours,
		`SELECT id, day_of_week, TIME_FORMAT(open_time, '%H:%i') AS open_time,
		        TIME_FORMAT(close_time, '%H:%i') AS close_time, is_active
		 FROM business_hours WHERE is_active = TRUE`); err != nil {
		return nil, fmt.Errorf("load business hours: %w", err)
	}
	if err := tx.SelectContext(ctx, &holidays,
		`SELECT id, holiday_date, is_recurring, reason FROM holidays`); err != nil {
		return nil, fmt.Errorf("load holidays: %w", err)
	}
	return booking.NewSnapshot(tables, hours, holidays)
}
