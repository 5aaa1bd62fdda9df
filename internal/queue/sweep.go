package queue

import (
	"errors"
	"log"
	"time"

	"github.com/mrunal304/cafe2020-deployment/internal/models"
	"github.com/mrunal304/cafe2020-deployment/internal/storage"
)

// SweepExpired принудительно переводит в expired все called-записи, чей
// дедлайн ответа прошёл к моменту now. Гонку с параллельным accept или
// cancel решает условная запись в Cancel: проигравшая сторона получает
// ErrInvalidTransition и молча пропускается, двойного применения не бывает.
// Возвращает количество фактически истёкших записей.
func SweepExpired(now time.Time) (int, error) {
	var stale []models.QueueEntry
	if err := storage.DB.
		Where("status = ? AND response_deadline < ?", models.StatusCalled, now).
		Find(&stale).Error; err != nil {
		return 0, err
	}

	expired := 0
	for _, e := range stale {
		if _, err := Cancel(e.ID, models.StatusExpired); err != nil {
			if errors.Is(err, ErrInvalidTransition) || errors.Is(err, ErrStaleTransition) || errors.Is(err, ErrNotFound) {
				continue
			}
			log.Println("Ошибка принудительного истечения записи", e.ID, ":", err)
			continue
		}
		expired++
	}
	return expired, nil
}
