package queue

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestBookingDayLocalMidnight(t *testing.T) {
	loc, err := time.LoadLocation("Asia/Kolkata")
	assert.NoError(t, err)

	moment := time.Date(2026, 8, 31, 23, 30, 0, 0, loc)
	day := bookingDayIn(moment, loc)

	assert.Equal(t, time.Date(2026, 8, 31, 0, 0, 0, 0, loc), day)
	assert.Equal(t, "2026-08-31", day.Format("2006-01-02"))
}

func TestBookingDayNotUTCBoundary(t *testing.T) {
	loc, err := time.LoadLocation("Asia/Kolkata")
	assert.NoError(t, err)

	// 01:00 первого сентября по местному времени — это ещё 19:30 31 августа
	// по UTC. Корзина обязана быть местной: 2026-09-01, а не 2026-08-31.
	moment := time.Date(2026, 9, 1, 1, 0, 0, 0, loc)
	assert.Equal(t, time.August, moment.UTC().Month())
	assert.Equal(t, 31, moment.UTC().Day())

	day := bookingDayIn(moment, loc)
	assert.Equal(t, "2026-09-01", day.Format("2006-01-02"))
}

func TestBookingDayIdempotent(t *testing.T) {
	loc, err := time.LoadLocation("Europe/Moscow")
	assert.NoError(t, err)

	day := bookingDayIn(time.Date(2026, 3, 15, 14, 45, 0, 0, loc), loc)
	assert.Equal(t, day, bookingDayIn(day, loc))
}

func TestBookingDayUTCInput(t *testing.T) {
	loc, err := time.LoadLocation("Asia/Kolkata")
	assert.NoError(t, err)

	// Момент, пришедший в UTC, попадает в местную корзину следующего дня.
	moment := time.Date(2026, 8, 31, 20, 0, 0, 0, time.UTC) // 01:30 IST 1 сентября
	day := bookingDayIn(moment, loc)
	assert.Equal(t, "2026-09-01", day.Format("2006-01-02"))
}
