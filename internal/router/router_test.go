package router

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iliyamo/table-reservation/internal/config"
	"github.com/iliyamo/table-reservation/internal/handler"
	"github.com/iliyamo/table-reservation/internal/model"
	"github.com/iliyamo/table-reservation/internal/repository"
	"github.com/iliyamo/table-reservation/internal/service"
	"github.com/iliyamo/table-reservation/internal/utils"
)

const secret = "router-secret"

type stubReservations struct{}

func (stubReservations) Availability(context.Context, string, int) ([]string, error) {
	return []string{"12:00-13:30"}, nil
}
func (stubReservations) Get(context.Context, uint64) (model.ReservationDetail, error) {
	return model.ReservationDetail{}, nil
}
func (stubReservations) ListByDate(context.Context, string) ([]model.ReservationDetail, error) {
	return nil, nil
}
func (stubReservations) Create(context.Context, service.ReservationInput) (model.ReservationDetail, error) {
	return model.ReservationDetail{}, nil
}
func (stubReservations) Update(context.Context, uint64, service.ReservationInput) (model.ReservationDetail, error) {
	return model.ReservationDetail{}, nil
}
func (stubReservations) CheckIn(context.Context, uint64) (model.ReservationDetail, error) {
	return model.ReservationDetail{}, nil
}
func (stubReservations) Delete(context.Context, uint64) error { return nil }

type stubCalendar struct{}

func (stubCalendar) ListTables(context.Context) ([]model.Table, error) { return nil, nil }
func (stubCalendar) ListBusinessHours(context.Context) ([]model.BusinessHoursWindow, error) {
	return nil, nil
}
func (stubCalendar) CreateBusinessHours(context.Context, *model.BusinessHoursWindow) error {
	return nil
}
func (stubCalendar) ListHolidays(context.Context) ([]model.Holiday, error) { return nil, nil }
func (stubCalendar) CreateHoliday(context.Context, *model.Holiday) error { return nil }

type noStaff struct{}

func (noStaff) GetByEmail(context.Context, string) (model.StaffUser, error) {
	return model.StaffUser{}, repository.ErrNotFound
}
func (noStaff) GetByID(context.Context, uint64) (model.StaffUser, error) {
	return model.StaffUser{}, repository.ErrNotFound
}

type noSessions struct{}

func (noSessions) StoreRefresh(context.Context, uint64, string, time.Time) error { return nil }
func (noSessions) ValidateRefresh(context.Context, string) (uint64, error) {
	return 0, repository.ErrNotFound
}
func (noSessions) RevokeByHash(context.Context, string) error { return nil }
func (noSessions) RevokeAllForUser(context.Context, uint64) error { return nil }

func newServer() *echo.Echo {
	pass := func(next echo.HandlerFunc) echo.HandlerFunc { return next }
	e := echo.New()
	RegisterRoutes(e, Deps{
		JWTSecret:    secret,
		Auth:         handler.NewAuthHandler(config.Config{JWTSecret: secret}, noStaff{}, noSessions{}),
		Reservations: handler.NewReservationHandler(stubReservations{}),
		Calendar:     handler.NewCalendarHandler(stubCalendar{}),
		RateLimit:    pass,
		Cache:        pass,
	})
	return e
}

func get(e *echo.Echo, target, role string) int {
	req := httptest.NewRequest(http.MethodGet, target, nil)
	if role != "" {
		tok, _ := utils.NewAccessToken(secret, 3, role, 5)
		req.Header.Set(echo.HeaderAuthorization, "Bearer "+tok.Token)
	}
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec.Code
}

func TestRouteAccess(t *testing.T) {
	e := newServer()

	cases := []struct {
		target, role string
		want         int
	}{
		{"/healthz", "", http.StatusOK},
		{"/v1/availability?date=2030-06-01&party_size=2", "", http.StatusOK},
		{"/v1/reservations?date=2030-06-01", "", http.StatusUnauthorized},
		{"/v1/reservations?date=2030-06-01", model.RoleStaff, http.StatusOK},
		{"/v1/admin/tables", model.RoleStaff, http.StatusForbidden},
		{"/v1/admin/tables", model.RoleAdmin, http.StatusOK},
		{"/v1/me", "", http.StatusUnauthorized},
		{"/v1/me", model.RoleStaff, http.StatusOK},
	}
	for _, tc := range cases {
		t.Run(tc.role+" "+tc.target, func(t *testing.T) {
			assert.Equal(t, tc.want, get(e, tc.target, tc.role))
		})
	}
}

func TestLoginUnknownStaff(t *testing.T) {
	e := newServer()
	req := httptest.NewRequest(http.MethodPost, "/v1/auth/login",
		strings.NewReader(`{"email":"nobody@example.com","password":"whatever1"}`))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	require.Equal(t, http.StatusUnauthorized, rec.Code)
}
