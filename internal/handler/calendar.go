package handler

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/table-reservation/internal/booking"
	"github.com/iliyamo/table-reservation/internal/model"
)

// CalendarStore is the store configuration editable by admins.
// *repository.CatalogRepo implements it.
type CalendarStore interface {
	ListTables(ctx context.Context) ([]model.Table, error)
	ListBusinessHours(ctx context.Context) ([]model.BusinessHoursWindow, error)
	CreateBusinessHours(ctx context.Context, w *model.BusinessHoursWindow) error
	ListHolidays(ctx context.Context) ([]model.Holiday, error)
	CreateHoliday(ctx context.Context, h *model.Holiday) error
}

// CalendarHandler serves the admin business hours and holiday screens.
type CalendarHandler struct {
	Store CalendarStore
}

func NewCalendarHandler(s CalendarStore) *CalendarHandler { return &CalendarHandler{Store: s} }

type businessHoursReq struct {
	DayOfWeek *int   `json:"day_of_week"`
	OpenTime  string `json:"open_time"`
	CloseTime string `json:"close_time"`
	IsActive  *bool  `json:"is_active"`
}

type holidayReq struct {
	Date        string `json:"date"`
	IsRecurring bool   `json:"is_recurring"`
	Reason      string `json:"reason"`
}

type holidayResp struct {
	ID          uint64 `json:"id"`
	Date        string `json:"date"`
	IsRecurring bool   `json:"is_recurring"`
	Reason      string `json:"reason"`
}

func toHolidayResp(h model.Holiday) holidayResp {
	return holidayResp{ID: h.ID, Date: h.Date.Format(time.DateOnly), IsRecurring: h.IsRecurring, Reason: h.Reason}
}

// ListTables: GET /v1/admin/tables
func (h *CalendarHandler) ListTables(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()
	tables, err := h.Store.ListTables(ctx)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, tables)
}

// ListBusinessHours: GET /v1/admin/business-hours
func (h *CalendarHandler) ListBusinessHours(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()
	hours, err := h.Store.ListBusinessHours(ctx)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, hours)
}

// CreateBusinessHours: POST /v1/admin/business-hours.  A window touching
// or overlapping another active window of the weekday is a 409.
func (h *CalendarHandler) CreateBusinessHours(c echo.Context) error {
	var req businessHoursReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	if req.DayOfWeek == nil || strings.TrimSpace(req.OpenTime) == "" || strings.TrimSpace(req.CloseTime) == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "day_of_week, open_time and close_time are required"})
	}
	open, err := booking.ParseClock(req.OpenTime)
	if err != nil {
		return writeError(c, err)
	}
	closeAt, err := booking.ParseClock(req.CloseTime)
	if err != nil {
		return writeError(c, err)
	}
	w := model.BusinessHoursWindow{
		DayOfWeek: *req.DayOfWeek,
		OpenTime:  open.String(),
		CloseTime: closeAt.String(),
		IsActive:  req.IsActive == nil || *req.IsActive,
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()
	if err := h.Store.CreateBusinessHours(ctx, &w); err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusCreated, w)
}

// ListHolidays: GET /v1/admin/holidays
func (h *CalendarHandler) ListHolidays(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()
	holidays, err := h.Store.ListHolidays(ctx)
	if err != nil {
		return writeError(c, err)
	}
	out := make([]holidayResp, len(holidays))
	for i, hd := range holidays {
		out[i] = toHolidayResp(hd)
	}
	return c.JSON(http.StatusOK, out)
}

// CreateHoliday: POST /v1/admin/holidays
func (h *CalendarHandler) CreateHoliday(c echo.Context) error {
	var req holidayReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	date, err := booking.ParseDate(req.Date)
	if err != nil {
		return writeError(c, err)
	}
	hd := model.Holiday{Date: date, IsRecurring: req.IsRecurring, Reason: strings.TrimSpace(req.Reason)}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()
	if err := h.Store.CreateHoliday(ctx, &hd); err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusCreated, toHolidayResp(hd))
}
