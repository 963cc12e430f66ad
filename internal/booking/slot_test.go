package booking

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iliyamo/table-reservation/internal/model"
)

func TestCatalog(t *testing.T) {
	c := Catalog()
	require.Len(t, c, 12)
	assert.Equal(t, "11:00-12:30", c[0].String())
	assert.Equal(t, "19:30-21:00", c[11].String())
	for _, s := range c {
		assert.Equal(t, Clock(90), s.End-s.Start, s.String())
	}

	c[0] = Slot{}
	assert.Equal(t, "11:00-12:30", Catalog()[0].String(), "Catalog returns a copy")
}

func TestParseSlot(t *testing.T) {
	s, err := ParseSlot("12:00-13:30")
	require.NoError(t, err)
	assert.Equal(t, Slot{Start: 12 * 60, End: 13*60 + 30}, s)

	for _, bad := range []string{"", "12:00", "12:15-13:45", "13:30-12:00", "noon-1pm", "15:00-16:30"} {
		_, err := ParseSlot(bad)
		assert.ErrorIs(t, err, ErrInvalidSlot, bad)
	}
}

func TestWithinBusinessHours(t *testing.T) {
	s, _ := ParseSlot("17:00-18:30")
	assert.True(t, WithinBusinessHours(s, Window{Open: 17 * 60, Close: 18*60 + 30}))
	assert.False(t, WithinBusinessHours(s, Window{Open: 17*60 + 1, Close: 22 * 60}))
	assert.False(t, WithinBusinessHours(s, Window{Open: 11 * 60, Close: 18 * 60}))
}

func TestIsBookable(t *testing.T) {
	cal, err := NewCalendar([]model.BusinessHoursWindow{
		hours(6, "11:00", "14:00"),
		hours(6, "18:00", "21:00"),
	}, nil)
	require.NoError(t, err)

	lunch, _ := ParseSlot("12:30-14:00")
	straddle, _ := ParseSlot("13:00-14:30")
	dinner, _ := ParseSlot("19:30-21:00")
	assert.True(t, IsBookable(cal, lunch, saturday))
	assert.False(t, IsBookable(cal, straddle, saturday))
	assert.True(t, IsBookable(cal, dinner, saturday))
	assert.False(t, IsBookable(cal, lunch, monday))
}
