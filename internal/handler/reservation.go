package handler

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/table-reservation/internal/model"
	"github.com/iliyamo/table-reservation/internal/service"
)

// ReservationManager is the reservation lifecycle as used by the HTTP
// layer.  *service.ReservationService implements it.
type ReservationManager interface {
	Availability(ctx context.Context, date string, partySize int) ([]string, error)
	Get(ctx context.Context, id uint64) (model.ReservationDetail, error)
	ListByDate(ctx context.Context, date string) ([]model.ReservationDetail, error)
	Create(ctx context.Context, in service.ReservationInput) (model.ReservationDetail, error)
	Update(ctx context.Context, id uint64, in service.ReservationInput) (model.ReservationDetail, error)
	CheckIn(ctx context.Context, id uint64) (model.ReservationDetail, error)
	Delete(ctx context.Context, id uint64) error
}

// ReservationHandler serves the public booking endpoints and the staff
// reservation desk.
type ReservationHandler struct {
	Svc     ReservationManager
	Timeout time.Duration
}

func NewReservationHandler(svc ReservationManager) *ReservationHandler {
	return &ReservationHandler{Svc: svc, Timeout: 5 * time.Second}
}

// reservationResp is the wire shape of a reservation.
type reservationResp struct {
	ID              uint64  `json:"id"`
	Phone           string  `json:"phone"`
	Email           *string `json:"email"`
	PartySize       int     `json:"party_size"`
	BookedName      string  `json:"booked_name"`
	Note            *string `json:"note"`
	Slot            string  `json:"slot"`
	Date            string  `json:"date"`
	CheckedIn       bool    `json:"checked_in"`
	TableID         uint64  `json:"table_id"`
	ExternalTableID string  `json:"external_table_id"`
	Status          string  `json:"status"`
}

func toResp(d model.ReservationDetail) reservationResp {
	return reservationResp{
		ID:              d.ID,
		Phone:           d.Phone,
		Email:           d.Email,
		PartySize:       d.PartySize,
		BookedName:      d.BookedName,
		Note:            d.Note,
		Slot:            d.Slot,
		Date:            d.Date.Format(time.DateOnly),
		CheckedIn:       d.CheckedIn,
		TableID:         d.TableID,
		ExternalTableID: d.ExternalTableID,
		Status:          d.Status,
	}
}

func (h *ReservationHandler) ctx(c echo.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(c.Request().Context(), h.Timeout)
}

// Availability: GET /v1/availability?date=YYYY-MM-DD&party_size=N
func (h *ReservationHandler) Availability(c echo.Context) error {
	party, err := strconv.Atoi(c.QueryParam("party_size"))
	if err != nil || party <= 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "party_size must be a positive integer"})
	}
	ctx, cancel := h.ctx(c)
	defer cancel()

	slots, err := h.Svc.Availability(ctx, c.QueryParam("date"), party)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{
		"date":       c.QueryParam("date"),
		"party_size": party,
		"slots":      slots,
	})
}

// Create: POST /v1/reservations
func (h *ReservationHandler) Create(c echo.Context) error {
	var in service.ReservationInput
	if err := c.Bind(&in); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	ctx, cancel := h.ctx(c)
	defer cancel()

	res, err := h.Svc.Create(ctx, in)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusCreated, toResp(res))
}

// List: GET /v1/reservations?date=YYYY-MM-DD
func (h *ReservationHandler) List(c echo.Context) error {
	ctx, cancel := h.ctx(c)
	defer cancel()

	rows, err := h.Svc.ListByDate(ctx, c.QueryParam("date"))
	if err != nil {
		return writeError(c, err)
	}
	out := make([]reservationResp, len(rows))
	for i, r := range rows {
		out[i] = toResp(r)
	}
	return c.JSON(http.StatusOK, out)
}

// Get: GET /v1/reservations/:id
func (h *ReservationHandler) Get(c echo.Context) error {
	id, ok := pathID(c)
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	ctx, cancel := h.ctx(c)
	defer cancel()

	res, err := h.Svc.Get(ctx, id)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, toResp(res))
}

// Update: PUT /v1/reservations/:id
func (h *ReservationHandler) Update(c echo.Context) error {
	id, ok := pathID(c)
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	var in service.ReservationInput
	if err := c.Bind(&in); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	ctx, cancel := h.ctx(c)
	defer cancel()

	res, err := h.Svc.Update(ctx, id, in)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, toResp(res))
}

// CheckIn: POST /v1/reservations/:id/checkin
func (h *ReservationHandler) CheckIn(c echo.Context) error {
	id, ok := pathID(c)
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	ctx, cancel := h.ctx(c)
	defer cancel()

	res, err := h.Svc.CheckIn(ctx, id)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, toResp(res))
}

// Delete: DELETE /v1/reservations/:id
func (h *ReservationHandler) Delete(c echo.Context) error {
	id, ok := pathID(c)
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	ctx, cancel := h.ctx(c)
	defer cancel()

	if err := h.Svc.Delete(ctx, id); err != nil {
		return writeError(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}
