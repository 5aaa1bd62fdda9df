package queue

import (
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/mrunal304/cafe2020-deployment/internal/models"
	"github.com/mrunal304/cafe2020-deployment/internal/notify"
	"github.com/mrunal304/cafe2020-deployment/internal/storage"

	"gorm.io/gorm"
)

// ResponseWindow — сколько времени у посетителя на ответ после вызова.
const ResponseWindow = 10 * time.Minute

// transition выполняет условную запись: статус меняется, только если текущее
// значение ещё входит в from. При гонке двух писателей ровно один увидит
// RowsAffected == 1, второй получит ErrInvalidTransition.
func transition(id uint, from []models.Status, to models.Status, updates map[string]interface{}) (*models.QueueEntry, error) {
	updates["status"] = to
	res := storage.DB.Model(&models.QueueEntry{}).
		Where("id = ? AND status IN ?", id, from).
		Updates(updates)
	if res.Error != nil {
		return nil, res.Error
	}
	if res.RowsAffected == 0 {
		var cur models.QueueEntry
		if err := storage.DB.First(&cur, id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, ErrNotFound
			}
			return nil, err
		}
		return nil, ErrInvalidTransition
	}

	var entry models.QueueEntry
	if err := storage.DB.First(&entry, id).Error; err != nil {
		return nil, err
	}
	return &entry, nil
}

// Call вызывает посетителя к столику: waiting → called, фиксирует момент
// вызова и дедлайн ответа, отправляет SMS. Неудача отправки записывается в
// журнал и на саму запись, но переход не откатывает. Активный набор не
// меняется — вызванный посетитель продолжает занимать свою позицию.
func Call(id uint) (*models.QueueEntry, error) {
	now := Clk.Now()
	deadline := now.Add(ResponseWindow)

	entry, err := transition(id, []models.Status{models.StatusWaiting}, models.StatusCalled, map[string]interface{}{
		"called_at":         now,
		"response_deadline": deadline,
	})
	if err != nil {
		return nil, err
	}

	dispatchTableReady(entry)

	// Перечитываем, чтобы вернуть запись с учётом полей уведомления.
	return GetEntry(id)
}

// dispatchTableReady шлёт SMS "столик готов" и фиксирует итог на записи и в
// журнале уведомлений. Повторов нет: одна попытка на вызов.
func dispatchTableReady(entry *models.QueueEntry) {
	text := fmt.Sprintf("Здравствуйте, %s! Ваш столик в Cafe 2020 готов. Подтвердите в течение 10 минут, иначе место будет отдано следующему.", entry.Name)
	result := notify.Active.Send(entry.PhoneNumber, text)

	now := Clk.Now()
	notifStatus := models.NotificationSentOK
	logged := models.Notification{
		QueueEntryID: entry.ID,
		PhoneNumber:  entry.PhoneNumber,
		Message:      text,
		Type:         "sms",
		Status:       models.NotificationSentOK,
		ProviderSID:  result.ProviderSID,
		SentAt:       &now,
	}
	if result.Err != nil {
		notifStatus = models.NotificationFailed
		logged.Status = models.NotificationFailed
		logged.Error = result.Err.Error()
		logged.SentAt = nil
		log.Println("Ошибка отправки уведомления для записи", entry.ID, ":", result.Err)
	}

	if err := storage.DB.Create(&logged).Error; err != nil {
		log.Println("Ошибка записи журнала уведомлений:", err)
	}

	updates := map[string]interface{}{
		"notification_sent":   result.Err == nil,
		"notification_status": notifStatus,
	}
	if result.Err == nil {
		updates["notification_sent_at"] = now
	}
	if err := storage.DB.Model(&models.QueueEntry{}).Where("id = ?", entry.ID).Updates(updates).Error; err != nil {
		log.Println("Ошибка обновления полей уведомления записи", entry.ID, ":", err)
	}
}

// Accept подтверждает столик: called → confirmed, но только пока не истёк
// дедлайн ответа. Условие по дедлайну входит в сам UPDATE, поэтому гонка с
// фоновым истечением разрешается ровно в одну сторону. Подтверждённая запись
// покидает активный набор, позиции дня пересчитываются.
func Accept(id uint, message string) (*models.QueueEntry, error) {
	now := Clk.Now()
	updates := map[string]interface{}{
		"status":            models.StatusConfirmed,
		"responded_at":      now,
		"response_type":     models.ResponseAccepted,
		"response_deadline": nil,
		"position":          nil,
	}
	if message != "" {
		updates["message"] = message
	}

	res := storage.DB.Model(&models.QueueEntry{}).
		Where("id = ? AND status = ? AND response_deadline >= ?", id, models.StatusCalled, now).
		Updates(updates)
	if res.Error != nil {
		return nil, res.Error
	}
	if res.RowsAffected == 0 {
		var cur models.QueueEntry
		if err := storage.DB.First(&cur, id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, ErrNotFound
			}
			return nil, err
		}
		if cur.Status == models.StatusCalled || cur.Status == models.StatusExpired {
			// Дедлайн прошёл либо запись уже истекла параллельным обходом.
			return nil, ErrStaleTransition
		}
		return nil, ErrInvalidTransition
	}

	entry, err := GetEntry(id)
	if err != nil {
		return nil, err
	}
	if err := Recalculate(entry.BookingDate); err != nil {
		log.Println("Ошибка пересчёта позиций после подтверждения:", err)
	}
	return entry, nil
}

// SendMessage сохраняет сообщение для вызванного посетителя. Статус не
// меняется.
func SendMessage(id uint, text string) (*models.QueueEntry, error) {
	if text == "" {
		return nil, &ValidationError{Field: "message", Reason: "сообщение не может быть пустым"}
	}
	res := storage.DB.Model(&models.QueueEntry{}).
		Where("id = ? AND status = ?", id, models.StatusCalled).
		Update("message", text)
	if res.Error != nil {
		return nil, res.Error
	}
	if res.RowsAffected == 0 {
		var cur models.QueueEntry
		if err := storage.DB.First(&cur, id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, ErrNotFound
			}
			return nil, err
		}
		return nil, ErrInvalidTransition
	}
	return GetEntry(id)
}

// Cancel переводит запись в cancelled или expired. Набор допустимых исходных
// статусов берётся из таблицы переходов: отмена возможна из waiting и called,
// принудительное истечение — только из called. Запись покидает активный
// набор, позиции дня пересчитываются.
func Cancel(id uint, reason models.Status) (*models.QueueEntry, error) {
	if reason != models.StatusCancelled && reason != models.StatusExpired {
		return nil, &ValidationError{Field: "reason", Reason: "допустимы только cancelled и expired"}
	}

	entry, err := transition(id, models.SourcesOf(reason), reason, map[string]interface{}{
		"responded_at":      Clk.Now(),
		"response_type":     string(reason),
		"response_deadline": nil,
		"position":          nil,
	})
	if err != nil {
		return nil, err
	}

	if err := Recalculate(entry.BookingDate); err != nil {
		log.Println("Ошибка пересчёта позиций после отмены:", err)
	}
	return entry, nil
}

// Complete закрывает визит: confirmed → completed. Активный набор не
// меняется — подтверждённая запись из него уже исключена.
func Complete(id uint) (*models.QueueEntry, error) {
	return transition(id, []models.Status{models.StatusConfirmed}, models.StatusCompleted, map[string]interface{}{})
}

// Leave — посетитель сам покинул очередь, не дождавшись вызова:
// waiting → left. Позиции дня пересчитываются.
func Leave(id uint) (*models.QueueEntry, error) {
	entry, err := transition(id, []models.Status{models.StatusWaiting}, models.StatusLeft, map[string]interface{}{
		"position": nil,
	})
	if err != nil {
		return nil, err
	}
	if err := Recalculate(entry.BookingDate); err != nil {
		log.Println("Ошибка пересчёта позиций после выхода из очереди:", err)
	}
	return entry, nil
}
