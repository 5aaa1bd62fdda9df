package queue

import (
	"log"
	"os"
	"sync"
	"time"
)

// Clock отдаёт текущее время; в тестах подменяется на фиксированное.
type Clock interface {
	Now() time.Time
}

type systemClock struct{}

func (systemClock) Now() time.Time { return time.Now() }

// Clk — часы, по которым живёт очередь.
var Clk Clock = systemClock{}

var (
	venueLocOnce sync.Once
	venueLoc     *time.Location
)

// VenueLocation возвращает часовой пояс заведения (переменная VENUE_TIMEZONE).
// Загружается лениво, чтобы успел отработать godotenv.Load в main.
func VenueLocation() *time.Location {
	venueLocOnce.Do(func() {
		name := os.Getenv("VENUE_TIMEZONE")
		if name == "" {
			name = "Asia/Kolkata"
		}
		loc, err := time.LoadLocation(name)
		if err != nil {
			log.Println("Не удалось загрузить часовой пояс заведения, используем UTC:", err)
			loc = time.UTC
		}
		venueLoc = loc
	})
	return venueLoc
}

// BookingDay нормализует момент времени к локальной полуночи заведения.
// Граница дня берётся именно по поясу заведения, а не по UTC — иначе записи
// около полуночи попадали бы в соседние сутки.
func BookingDay(t time.Time) time.Time {
	return bookingDayIn(t, VenueLocation())
}

func bookingDayIn(t time.Time, loc *time.Location) time.Time {
	lt := t.In(loc)
	return time.Date(lt.Year(), lt.Month(), lt.Day(), 0, 0, 0, 0, loc)
}

// DayKey — строковый ключ дневной корзины (для WebSocket-хаба и кэша).
func DayKey(t time.Time) string {
	return BookingDay(t).Format("2006-01-02")
}
