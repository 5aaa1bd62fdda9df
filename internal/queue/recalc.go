package queue

import (
	"sync"
	"time"

	"github.com/mrunal304/cafe2020-deployment/internal/models"
	"github.com/mrunal304/cafe2020-deployment/internal/storage"

	"gorm.io/gorm"
)

// dayLocks сериализует пересчёт позиций внутри одного дня: два пересчёта
// одной корзины не должны перемешать нумерацию. Разные дни независимы и
// пересчитываются параллельно.
var dayLocks sync.Map // "2006-01-02" → *sync.Mutex

func dayLock(day time.Time) *sync.Mutex {
	v, _ := dayLocks.LoadOrStore(day.Format("2006-01-02"), &sync.Mutex{})
	return v.(*sync.Mutex)
}

// Recalculate перенумеровывает активный набор дня 1..N по возрастанию
// порядкового номера и очищает позиции у выбывших записей. Вызывается после
// каждого перехода, меняющего состав активного набора.
func Recalculate(day time.Time) error {
	day = BookingDay(day)
	mu := dayLock(day)
	mu.Lock()
	defer mu.Unlock()

	return storage.DB.Transaction(func(tx *gorm.DB) error {
		var active []models.QueueEntry
		if err := tx.
			Where("booking_date = ? AND status IN ?", day, models.ActiveStatuses).
			Order("daily_serial_number ASC").
			Find(&active).Error; err != nil {
			return err
		}

		for i, e := range active {
			pos := i + 1
			if e.Position != nil && *e.Position == pos {
				continue
			}
			if err := tx.Model(&models.QueueEntry{}).
				Where("id = ?", e.ID).
				Update("position", pos).Error; err != nil {
				return err
			}
		}

		// У записей вне активного набора позиция должна быть пустой.
		return tx.Model(&models.QueueEntry{}).
			Where("booking_date = ? AND status NOT IN ? AND position IS NOT NULL", day, models.ActiveStatuses).
			Update("position", nil).Error
	})
}
