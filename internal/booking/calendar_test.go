package booking

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iliyamo/table-reservation/internal/model"
)

var (
	saturday = time.Date(2030, 6, 1, 0, 0, 0, 0, time.UTC)
	monday   = time.Date(2030, 6, 3, 0, 0, 0, 0, time.UTC)
)

func hours(day int, open, closeAt string) model.BusinessHoursWindow {
	return model.BusinessHoursWindow{DayOfWeek: day, OpenTime: open, CloseTime: closeAt, IsActive: true}
}

func TestCalendarIsOpen(t *testing.T) {
	inactive := hours(1, "11:00", "21:00")
	inactive.IsActive = false
	cal, err := NewCalendar(
		[]model.BusinessHoursWindow{hours(6, "11:00:00", "21:00:00"), inactive},
		[]model.Holiday{{Date: time.Date(2030, 6, 8, 0, 0, 0, 0, time.UTC), Reason: "festival"}},
	)
	require.NoError(t, err)

	assert.True(t, cal.IsOpen(saturday))
	assert.False(t, cal.IsOpen(monday), "inactive windows do not open the day")
	assert.False(t, cal.IsOpen(time.Date(2030, 6, 8, 0, 0, 0, 0, time.UTC)))

	reason, ok := cal.IsHoliday(time.Date(2030, 6, 8, 0, 0, 0, 0, time.UTC))
	assert.True(t, ok)
	assert.Equal(t, "festival", reason)
}

func TestCalendarRecurringHolidayMatchesExactDateOnly(t *testing.T) {
	cal, err := NewCalendar(
		[]model.BusinessHoursWindow{hours(6, "11:00", "21:00")},
		[]model.Holiday{{Date: time.Date(2029, 6, 1, 0, 0, 0, 0, time.UTC), IsRecurring: true}},
	)
	require.NoError(t, err)
	assert.True(t, cal.IsOpen(saturday))
}

func TestCalendarWindowsForSorted(t *testing.T) {
	cal, err := NewCalendar([]model.BusinessHoursWindow{
		hours(6, "17:00", "22:00"),
		hours(6, "11:00", "15:00"),
		hours(0, "10:00", "14:00"),
	}, nil)
	require.NoError(t, err)

	ws := cal.WindowsFor(saturday)
	require.Len(t, ws, 2)
	assert.Equal(t, "11:00-15:00", ws[0].String())
	assert.Equal(t, "17:00-22:00", ws[1].String())
	assert.Empty(t, cal.WindowsFor(monday))
}

func TestNewCalendarRejectsBadWindow(t *testing.T) {
	_, err := NewCalendar([]model.BusinessHoursWindow{hours(6, "21:00", "11:00")}, nil)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrInvalidWindow))
}

func TestValidateNewWindow(t *testing.T) {
	existing := []model.BusinessHoursWindow{
		{ID: 1, DayOfWeek: 6, OpenTime: "11:00", CloseTime: "12:00", IsActive: true},
		{ID: 2, DayOfWeek: 6, OpenTime: "18:00", CloseTime: "22:00", IsActive: false},
	}
	tests := []struct {
		name      string
		candidate model.BusinessHoursWindow
		want      error
	}{
		{"shared boundary conflicts", hours(6, "12:00", "15:00"), ErrWindowOverlap},
		{"inside conflicts", hours(6, "11:15", "11:45"), ErrWindowOverlap},
		{"gap is fine", hours(6, "12:01", "15:00"), nil},
		{"other weekday is fine", hours(5, "11:00", "12:00"), nil},
		{"inactive existing ignored", hours(6, "19:00", "21:00"), nil},
		{"open after close", hours(6, "15:00", "13:00"), ErrInvalidWindow},
		{"open equals close", hours(6, "15:00", "15:00"), ErrInvalidWindow},
		{"weekday out of range", hours(7, "13:00", "15:00"), ErrInvalidWindow},
		{"bad time", hours(6, "1pm", "15:00"), ErrInvalidTime},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			err := ValidateNewWindow(existing, tc.candidate)
			if tc.want == nil {
				assert.NoError(t, err)
				return
			}
			assert.ErrorIs(t, err, tc.want)
		})
	}
}

func TestValidateNewWindowSkipsItself(t *testing.T) {
	existing := []model.BusinessHoursWindow{{ID: 1, DayOfWeek: 6, OpenTime: "11:00", CloseTime: "12:00", IsActive: true}}
	candidate := existing[0]
	candidate.CloseTime = "13:00"
	assert.NoError(t, ValidateNewWindow(existing, candidate))
}

func TestParseClock(t *testing.T) {
	c, err := ParseClock("09:05:00")
	require.NoError(t, err)
	assert.Equal(t, Clock(9*60+5), c)
	assert.Equal(t, "09:05", c.String())

	for _, bad := range []string{"", "9", "25:00", "12:60", "12:5", "24:01", "ab:cd"} {
		_, err := ParseClock(bad)
		assert.ErrorIs(t, err, ErrInvalidTime, bad)
	}
}

func TestKindOf(t *testing.T) {
	assert.Equal(t, KindValidation, KindOf(ErrInvalidSlot))
	assert.Equal(t, KindPolicy, KindOf(ErrHoliday))
	assert.Equal(t, KindConflict, KindOf(&NoAvailableTableError{PartySize: 2, Capacities: []int{2, 4}}))
	assert.Equal(t, KindNotFound, KindOf(ErrReservationNotFound))
	assert.Equal(t, KindUnknown, KindOf(errors.New("boom")))
	assert.Equal(t, "conflict", KindConflict.String())
}
