package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/labstack/gommon/log"

	"github.com/iliyamo/table-reservation/internal/booking"
	"github.com/iliyamo/table-reservation/internal/model"
	"github.com/iliyamo/table-reservation/internal/queue"
	"github.com/iliyamo/table-reservation/internal/repository"
)

// DefaultMaxAttempts bounds how often a unit of work is retried after a
// deadlock or a unique key collision with a concurrent writer.
const DefaultMaxAttempts = 3

// ReservationInput carries the guest-editable fields of a reservation.
// Date is "2006-01-02" and Slot a catalog literal such as "12:00-13:30".
type ReservationInput struct {
	Phone      string  `json:"phone"`
	Email      *string `json:"email"`
	PartySize  int     `json:"party_size"`
	BookedName string  `json:"booked_name"`
	Note       *string `json:"note"`
	Date       string  `json:"date"`
	Slot       string  `json:"slot"`
}

// request is a validated ReservationInput.
type request struct {
	ReservationInput
	date time.Time
	slot booking.Slot
}

func (in ReservationInput) validate() (request, error) {
	in.Phone = strings.TrimSpace(in.Phone)
	in.BookedName = strings.TrimSpace(in.BookedName)
	in.Email = trimOptional(in.Email)
	in.Note = trimOptional(in.Note)

	switch {
	case in.Phone == "":
		return request{}, fmt.Errorf("%w: phone", booking.ErrMissingField)
	case in.BookedName == "":
		return request{}, fmt.Errorf("%w: booked_name", booking.ErrMissingField)
	case in.PartySize <= 0:
		return request{}, fmt.Errorf("%w: party_size must be greater than zero", booking.ErrMissingField)
	case strings.TrimSpace(in.Date) == "":
		return request{}, fmt.Errorf("%w: date", booking.ErrMissingField)
	case strings.TrimSpace(in.Slot) == "":
		return request{}, fmt.Errorf("%w: slot", booking.ErrMissingField)
	}
	date, err := booking.ParseDate(in.Date)
	if err != nil {
		return request{}, err
	}
	slot, err := booking.ParseSlot(in.Slot)
	if err != nil {
		return request{}, err
	}
	return request{ReservationInput: in, date: date, slot: slot}, nil
}

func trimOptional(s *string) *string {
	if s == nil {
		return nil
	}
	v := strings.TrimSpace(*s)
	if v == "" {
		return nil
	}
	return &v
}

// Deps wires a ReservationService.  Events and Cache are optional.
type Deps struct {
	Work    UnitOfWork
	Catalog CatalogSource
	Reader  ReservationReader
	Events  EventPublisher
	Cache   CacheInvalidator

	Now         func() time.Time
	Retryable   func(error) bool
	MaxAttempts int
}

// ReservationService is the reservation lifecycle manager.
type ReservationService struct {
	work        UnitOfWork
	catalog     CatalogSource
	reader      ReservationReader
	events      EventPublisher
	cache       CacheInvalidator
	now         func() time.Time
	retryable   func(error) bool
	maxAttempts int
	log         *log.Logger
}

func NewReservationService(d Deps) *ReservationService {
	s := &ReservationService{
		work:        d.Work,
		catalog:     d.Catalog,
		reader:      d.Reader,
		events:      d.Events,
		cache:       d.Cache,
		now:         d.Now,
		retryable:   d.Retryable,
		maxAttempts: d.MaxAttempts,
		log:         log.New("reservation"),
	}
	if s.now == nil {
		s.now = time.Now
	}
	if s.retryable == nil {
		s.retryable = repository.IsRetryable
	}
	if s.maxAttempts <= 0 {
		s.maxAttempts = DefaultMaxAttempts
	}
	return s
}

// Availability lists the bookable slots for a date and party size.
func (s *ReservationService) Availability(ctx context.Context, dateStr string, partySize int) ([]string, error) {
	if strings.TrimSpace(dateStr) == "" {
		return nil, fmt.Errorf("%w: date", booking.ErrMissingField)
	}
	if partySize <= 0 {
		return nil, fmt.Errorf("%w: party_size must be greater than zero", booking.ErrInvalidField)
	}
	date, err := booking.ParseDate(dateStr)
	if err != nil {
		return nil, err
	}
	if date.Before(s.today()) {
		return nil, booking.ErrPastDate
	}
	snap, err := s.catalog.Snapshot(ctx)
	if err != nil {
		return nil, err
	}
	rows, err := s.reader.ListByDate(ctx, date)
	if err != nil {
		return nil, err
	}
	return booking.SlotStrings(booking.AvailableSlots(snap, booking.LedgerFrom(rows), date, partySize)), nil
}

// Get returns one reservation with its table label.
func (s *ReservationService) Get(ctx context.Context, id uint64) (model.ReservationDetail, error) {
	d, err := s.reader.GetDetail(ctx, id)
	return d, notFound(err)
}

// ListByDate returns the reservations of a date for the staff view.
func (s *ReservationService) ListByDate(ctx context.Context, dateStr string) ([]model.ReservationDetail, error) {
	if strings.TrimSpace(dateStr) == "" {
		return nil, fmt.Errorf("%w: date", booking.ErrMissingField)
	}
	date, err := booking.ParseDate(dateStr)
	if err != nil {
		return nil, err
	}
	return s.reader.ListDetailsByDate(ctx, date)
}

// Create validates in, picks the tightest free table and stores the
// reservation.  Checks run in this order: required fields, past date,
// closed date, duplicate phone on the date, business hours, free table.
func (s *ReservationService) Create(ctx context.Context, in ReservationInput) (model.ReservationDetail, error) {
	req, err := in.validate()
	if err != nil {
		return model.ReservationDetail{}, err
	}
	snap, err := s.catalog.Snapshot(ctx)
	if err != nil {
		return model.ReservationDetail{}, err
	}

	var out model.ReservationDetail
	err = s.retry(ctx, "create", req.PartySize, snap, func(ctx context.Context, l Ledger) error {
		ledger, err := s.checkPolicy(ctx, l, snap, req, 0)
		if err != nil {
			return err
		}
		table, err := booking.Select(
			booking.Candidates(snap.Tables, ledger, req.slot, req.PartySize, 0),
			snap.Tables, req.PartySize)
		if err != nil {
			return err
		}
		res := model.Reservation{
			Phone:      req.Phone,
			Email:      req.Email,
			PartySize:  req.PartySize,
			BookedName: req.BookedName,
			Note:       req.Note,
			Status:     model.ReservationStatusConfirmed,
			Date:       req.date,
			Slot:       req.slot.String(),
			TableID:    table.ID,
		}
		if err := l.Insert(ctx, &res); err != nil {
			return err
		}
		out = model.ReservationDetail{Reservation: res, ExternalTableID: table.ExternalTableID}
		return nil
	})
	if err != nil {
		return model.ReservationDetail{}, err
	}

	s.log.Infoj(log.JSON{"msg": "reservation created", "id": out.ID, "date": out.Date.Format(time.DateOnly), "slot": out.Slot, "table": out.ExternalTableID})
	s.afterCommit(ctx, queue.EventCreated, out, req.date)
	return out, nil
}

// Update replaces the guest fields of reservation id, re-running every
// create-time check with the reservation itself excluded.  The current
// table is kept when it still fits; otherwise a new one is selected.
func (s *ReservationService) Update(ctx context.Context, id uint64, in ReservationInput) (model.ReservationDetail, error) {
	req, err := in.validate()
	if err != nil {
		return model.ReservationDetail{}, err
	}
	snap, err := s.catalog.Snapshot(ctx)
	if err != nil {
		return model.ReservationDetail{}, err
	}

	var (
		out     model.ReservationDetail
		oldDate time.Time
	)
	err = s.retry(ctx, "update", req.PartySize, snap, func(ctx context.Context, l Ledger) error {
		res, err := l.Get(ctx, id)
		if err != nil {
			return notFound(err)
		}
		oldDate = res.Date
		ledger, err := s.checkPolicy(ctx, l, snap, req, id)
		if err != nil {
			return err
		}
		table, err := booking.Reassign(res.TableID, snap.Tables, ledger, req.slot, req.PartySize, id)
		if err != nil {
			return err
		}
		res.Phone = req.Phone
		res.Email = req.Email
		res.PartySize = req.PartySize
		res.BookedName = req.BookedName
		res.Note = req.Note
		res.Date = req.date
		res.Slot = req.slot.String()
		res.TableID = table.ID
		if err := l.Update(ctx, &res); err != nil {
			return notFound(err)
		}
		out = model.ReservationDetail{Reservation: res, ExternalTableID: table.ExternalTableID}
		return nil
	})
	if err != nil {
		return model.ReservationDetail{}, err
	}

	s.log.Infoj(log.JSON{"msg": "reservation updated", "id": id, "slot": out.Slot, "table": out.ExternalTableID})
	if !oldDate.Equal(req.date) {
		s.invalidate(ctx, oldDate)
	}
	s.afterCommit(ctx, queue.EventUpdated, out, req.date)
	return out, nil
}

// CheckIn marks the party as arrived.  Checking in twice is not an error
// and there is no way back.
func (s *ReservationService) CheckIn(ctx context.Context, id uint64) (model.ReservationDetail, error) {
	var (
		res     model.Reservation
		changed bool
	)
	err := s.work.Do(ctx, func(ctx context.Context, l Ledger) error {
		var err error
		if res, err = l.Get(ctx, id); err != nil {
			return notFound(err)
		}
		if res.CheckedIn {
			return nil
		}
		if err := l.SetCheckedIn(ctx, id); err != nil {
			return err
		}
		res.CheckedIn, changed = true, true
		return nil
	})
	if err != nil {
		return model.ReservationDetail{}, err
	}
	out := s.detail(ctx, res)
	if changed {
		s.log.Infoj(log.JSON{"msg": "reservation checked in", "id": id})
		s.publish(ctx, queue.EventCheckedIn, out)
	}
	return out, nil
}

// Delete removes the reservation and frees its table.
func (s *ReservationService) Delete(ctx context.Context, id uint64) error {
	var res model.Reservation
	err := s.work.Do(ctx, func(ctx context.Context, l Ledger) error {
		var err error
		if res, err = l.Get(ctx, id); err != nil {
			return notFound(err)
		}
		return notFound(l.Delete(ctx, id))
	})
	if err != nil {
		return err
	}
	s.log.Infoj(log.JSON{"msg": "reservation deleted", "id": id})
	s.afterCommit(ctx, queue.EventDeleted, model.ReservationDetail{Reservation: res}, res.Date)
	return nil
}

// checkPolicy runs the date, duplicate and business hours checks and
// returns the locked ledger of the requested date.  The free table check
// is left to the caller.
func (s *ReservationService) checkPolicy(ctx context.Context, l Ledger, snap *booking.Snapshot, req request, excludeID uint64) ([]booking.Booking, error) {
	if req.date.Before(s.today()) {
		return nil, booking.ErrPastDate
	}
	if !snap.Calendar.IsOpen(req.date) {
		if reason, ok := snap.Calendar.IsHoliday(req.date); ok && reason != "" {
			return nil, fmt.Errorf("%w: %s", booking.ErrHoliday, reason)
		}
		return nil, booking.ErrHoliday
	}
	// Locking the date first serializes the duplicate check as well.
	rows, err := l.ListByDate(ctx, req.date)
	if err != nil {
		return nil, err
	}
	dup, err := l.ExistsByPhoneAndDate(ctx, req.Phone, req.date, excludeID)
	if err != nil {
		return nil, err
	}
	if dup {
		return nil, booking.ErrDuplicateBooking
	}
	if !booking.IsBookable(snap.Calendar, req.slot, req.date) {
		return nil, fmt.Errorf("%w: %s", booking.ErrOutsideBusinessHours, req.slot)
	}
	return booking.LedgerFrom(rows), nil
}

// retry runs fn in a unit of work, repeating it while the storage reports
// a transient collision.  When attempts run out the collision means
// another writer took the last table.
func (s *ReservationService) retry(ctx context.Context, op string, partySize int, snap *booking.Snapshot, fn func(context.Context, Ledger) error) error {
	var err error
	for attempt := 1; attempt <= s.maxAttempts; attempt++ {
		err = s.work.Do(ctx, fn)
		if err == nil || !s.retryable(err) {
			return err
		}
		s.log.Warnj(log.JSON{"msg": "retrying after write collision", "op": op, "attempt": attempt, "error": err.Error()})
		if ctx.Err() != nil {
			return ctx.Err()
		}
	}
	caps := make([]int, len(snap.Tables))
	for i, t := range snap.Tables {
		caps[i] = t.Capacity
	}
	return &booking.NoAvailableTableError{PartySize: partySize, Capacities: caps}
}

func (s *ReservationService) today() time.Time { return booking.DateOf(s.now()) }

func (s *ReservationService) detail(ctx context.Context, res model.Reservation) model.ReservationDetail {
	d, err := s.reader.GetDetail(ctx, res.ID)
	if err != nil {
		return model.ReservationDetail{Reservation: res}
	}
	return d
}

func (s *ReservationService) afterCommit(ctx context.Context, typ string, d model.ReservationDetail, date time.Time) {
	s.invalidate(ctx, date)
	s.publish(ctx, typ, d)
}

func (s *ReservationService) invalidate(ctx context.Context, date time.Time) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Invalidate(ctx, date); err != nil {
		s.log.Warnj(log.JSON{"msg": "availability cache invalidation failed", "date": date.Format(time.DateOnly), "error": err.Error()})
	}
}

// publish is best effort: the reservation is already committed.
func (s *ReservationService) publish(ctx context.Context, typ string, d model.ReservationDetail) {
	if s.events == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 3*time.Second)
	defer cancel()
	ev := queue.ReservationEvent{
		Type:            typ,
		ReservationID:   d.ID,
		Phone:           d.Phone,
		Email:           d.Email,
		BookedName:      d.BookedName,
		PartySize:       d.PartySize,
		Date:            d.Date.Format(time.DateOnly),
		Slot:            d.Slot,
		TableID:         d.TableID,
		ExternalTableID: d.ExternalTableID,
		OccurredAt:      s.now().UTC(),
	}
	if err := s.events.Publish(ctx, ev); err != nil {
		s.log.Warnj(log.JSON{"msg": "publish event failed", "type": typ, "id": d.ID, "error": err.Error()})
	}
}

func notFound(err error) error {
	if errors.Is(err, repository.ErrNotFound) {
		return booking.ErrReservationNotFound
	}
	return err
}
