package model

import "time"

// BusinessHoursWindow is one opening window of a weekday.  A weekday may
// have several windows (e.g. lunch and dinner service) as long as they do
// not overlap.
//
// Fields:
//  ID        – primary key identifier.
//  DayOfWeek – 0..6 with Sunday = 0.
//  OpenTime  – "HH:MM" or "HH:MM:SS", strictly before CloseTime.
//  CloseTime – "HH:MM" or "HH:MM:SS".
//  IsActive  – inactive windows are ignored by the booking engine.
type BusinessHoursWindow struct {
	ID        uint64 `db:"id" json:"id"`                   // business_hours.id
	DayOfWeek int    `db:"day_of_week" json:"day_of_week"` // business_hours.day_of_week
	OpenTime  string `db:"open_time" json:"open_time"`     // business_hours.open_time
	CloseTime string `db:"close_time" json:"close_time"`   // business_hours.close_time
	IsActive  bool   `db:"is_active" json:"is_active"`     // business_hours.is_active
}

// Holiday closes the venue for a whole date.  IsRecurring is stored for
// the store configuration screens but bookings only match the exact date.
type Holiday struct {
	ID          uint64    `db:"id" json:"id"`                     // holidays.id
	Date        time.Time `db:"holiday_date" json:"date"`         // holidays.holiday_date
	IsRecurring bool      `db:"is_recurring" json:"is_recurring"` // holidays.is_recurring
	Reason      string    `db:"reason" json:"reason"`             // holidays.reason
}
