package service

import (
	"context"
	"errors"
	"sort"
	"sync"
	"time"

	"github.com/iliyamo/table-reservation/internal/booking"
	"github.com/iliyamo/table-reservation/internal/model"
	"github.com/iliyamo/table-reservation/internal/queue"
	"github.com/iliyamo/table-reservation/internal/repository"
)

var errCollision = errors.New("simulated write collision")

// memStore is an in-memory reservation table with transactional units of
// work: a unit runs against a copy that replaces the table on success.
type memStore struct {
	mu     sync.Mutex
	rows   map[uint64]model.Reservation
	nextID uint64
	tables []model.Table

	// insertFailures makes the next N inserts fail with errCollision.
	insertFailures int
	commits        int
}

func newMemStore(tables []model.Table) *memStore {
	return &memStore{rows: map[uint64]model.Reservation{}, nextID: 1, tables: tables}
}

func (m *memStore) Do(ctx context.Context, fn func(context.Context, Ledger) error) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	tx := &memTx{store: m, rows: make(map[uint64]model.Reservation, len(m.rows)), nextID: m.nextID}
	for k, v := range m.rows {
		tx.rows[k] = v
	}
	if err := fn(ctx, tx); err != nil {
		return err
	}
	m.rows, m.nextID = tx.rows, tx.nextID
	m.commits++
	return nil
}

func (m *memStore) count() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.rows)
}

func (m *memStore) detail(r model.Reservation) model.ReservationDetail {
	d := model.ReservationDetail{Reservation: r}
	for _, t := range m.tables {
		if t.ID == r.TableID {
			d.ExternalTableID = t.ExternalTableID
		}
	}
	return d
}

func (m *memStore) ListByDate(_ context.Context, date time.Time) ([]model.Reservation, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return byDate(m.rows, date), nil
}

func (m *memStore) ListDetailsByDate(_ context.Context, date time.Time) ([]model.ReservationDetail, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := []model.ReservationDetail{}
	for _, r := range byDate(m.rows, date) {
		out = append(out, m.detail(r))
	}
	return out, nil
}

func (m *memStore) GetDetail(_ context.Context, id uint64) (model.ReservationDetail, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	r, ok := m.rows[id]
	if !ok {
		return model.ReservationDetail{}, repository.ErrNotFound
	}
	return m.detail(r), nil
}

func byDate(rows map[uint64]model.Reservation, date time.Time) []model.Reservation {
	var out []model.Reservation
	for _, r := range rows {
		if r.Date.Equal(date) {
			out = append(out, r)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

type memTx struct {
	store  *memStore
	rows   map[uint64]model.Reservation
	nextID uint64
}

func (t *memTx) ListByDate(_ context.Context, date time.Time) ([]model.Reservation, error) {
	return byDate(t.rows, date), nil
}

func (t *memTx) ExistsByPhoneAndDate(_ context.Context, phone string, date time.Time, excludeID uint64) (bool, error) {
	for _, r := range t.rows {
		if r.Phone == phone && r.Date.Equal(date) && r.ID != excludeID {
			return true, nil
		}
	}
	return false, nil
}

func (t *memTx) Get(_ context.Context, id uint64) (model.Reservation, error) {
	r, ok := t.rows[id]
	if !ok {
		return model.Reservation{}, repository.ErrNotFound
	}
	return r, nil
}

func (t *memTx) Insert(_ context.Context, res *model.Reservation) error {
	if t.store.insertFailures > 0 {
		t.store.insertFailures--
		return errCollision
	}
	res.ID = t.nextID
	t.nextID++
	t.rows[res.ID] = *res
	return nil
}

func (t *memTx) Update(_ context.Context, res *model.Reservation) error {
	if _, ok := t.rows[res.ID]; !ok {
		return repository.ErrNotFound
	}
	t.rows[res.ID] = *res
	return nil
}

func (t *memTx) SetCheckedIn(_ context.Context, id uint64) error {
	r := t.rows[id]
	r.CheckedIn = true
	t.rows[id] = r
	return nil
}

func (t *memTx) Delete(_ context.Context, id uint64) error {
	if _, ok := t.rows[id]; !ok {
		return repository.ErrNotFound
	}
	delete(t.rows, id)
	return nil
}

type staticCatalog struct{ snap *booking.Snapshot }

func (c staticCatalog) Snapshot(context.Context) (*booking.Snapshot, error) { return c.snap, nil }

type recordedEvents struct {
	mu     sync.Mutex
	events []queue.ReservationEvent
}

func (r *recordedEvents) Publish(_ context.Context, ev queue.ReservationEvent) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, ev)
	return nil
}

func (r *recordedEvents) types() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]string, len(r.events))
	for i, ev := range r.events {
		out[i] = ev.Type
	}
	return out
}

type recordedInvalidations struct{ dates []string }

func (r *recordedInvalidations) Invalidate(_ context.Context, date time.Time) error {
	r.dates = append(r.dates, date.Format(time.DateOnly))
	return nil
}
