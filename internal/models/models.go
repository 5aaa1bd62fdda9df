package models

import (
	"time"

	"gorm.io/gorm"
)

type User struct {
	gorm.Model
	Name         string `gorm:"not null"`
	Surname      string `gorm:"not null"`
	Email        string `gorm:"uniqueIndex;not null"`
	PasswordHash string `gorm:"not null"`
	Role         string `gorm:"not null;default:staff"` // Роль сотрудника (staff/admin)
}

type QueueEntry struct {
	gorm.Model
	Name              string    `gorm:"not null"`                                          // Имя посетителя ("Гость", если не указано)
	PhoneNumber       string    `gorm:"not null"`                                          // Телефон для SMS-уведомления
	PartySize         int       `gorm:"not null"`                                          // Количество человек за столиком
	BookingDate       time.Time `gorm:"uniqueIndex:idx_queue_entries_day_serial;not null"` // Локальная полночь заведения — дневная корзина
	BookingDateTime   time.Time `gorm:"not null"`                                          // Момент вступления в очередь
	DailySerialNumber int       `gorm:"uniqueIndex:idx_queue_entries_day_serial;not null"` // Порядковый номер внутри дня, выдаётся ровно один раз
	Position          *int      `gorm:"index"`                                             // Позиция в активной очереди (nil — вне активного набора)
	Status            Status    `gorm:"type:varchar(16);index;not null;default:waiting"`

	// Учёт уведомлений
	NotificationSent   bool
	NotificationSentAt *time.Time
	NotificationStatus string `gorm:"type:varchar(16);not null;default:pending"` // pending/sent/failed

	// Окно ответа после вызова
	CalledAt         *time.Time
	ResponseDeadline *time.Time `gorm:"index"` // Устанавливается только в статусе called
	RespondedAt      *time.Time
	ResponseType     string `gorm:"type:varchar(16)"` // accepted/cancelled/expired

	Message string // Произвольное сообщение для посетителя
}

// Notification — журнал попыток отправки уведомлений (без повторов).
type Notification struct {
	gorm.Model
	QueueEntryID uint   `gorm:"index;not null"`
	PhoneNumber  string `gorm:"not null"`
	Message      string `gorm:"not null"`
	Type         string `gorm:"type:varchar(8);not null;default:sms"`
	Status       string `gorm:"type:varchar(8);not null"` // sent/failed
	ProviderSID  string
	Error        string
	SentAt       *time.Time
}
