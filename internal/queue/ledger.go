package queue

import (
	"errors"
	"regexp"
	"strings"
	"time"

	"github.com/mrunal304/cafe2020-deployment/internal/models"
	"github.com/mrunal304/cafe2020-deployment/internal/storage"

	"gorm.io/gorm"
)

// CustomerInfo — данные посетителя при вступлении в очередь.
type CustomerInfo struct {
	Name        string
	PhoneNumber string
	PartySize   int
}

var phoneRe = regexp.MustCompile(`^\+?[0-9]{10,15}$`)

// createAttempts — сколько раз повторяем создание при конфликте порядкового
// номера с параллельным писателем.
const createAttempts = 3

func validateCustomerInfo(info *CustomerInfo) error {
	info.Name = strings.TrimSpace(info.Name)
	if info.Name == "" {
		info.Name = "Гость"
	}
	phone := strings.ReplaceAll(strings.TrimSpace(info.PhoneNumber), " ", "")
	if !phoneRe.MatchString(phone) {
		return &ValidationError{Field: "phone_number", Reason: "телефон должен содержать 10-15 цифр, допустим ведущий +"}
	}
	info.PhoneNumber = phone
	if info.PartySize < 1 {
		return &ValidationError{Field: "party_size", Reason: "количество человек должно быть не меньше 1"}
	}
	return nil
}

// CreateEntry ставит посетителя в очередь текущего дня заведения.
// Порядковый номер внутри дня защищён составным уникальным индексом
// (booking_date, daily_serial_number): если параллельное создание заняло тот
// же номер, вставка падает по индексу и мы пробуем заново с пересчитанным
// номером.
func CreateEntry(info CustomerInfo) (*models.QueueEntry, error) {
	if err := validateCustomerInfo(&info); err != nil {
		return nil, err
	}

	now := Clk.Now()
	day := BookingDay(now)

	var entry *models.QueueEntry
	var err error
	for attempt := 0; attempt < createAttempts; attempt++ {
		entry, err = tryCreateEntry(now, day, info)
		if err == nil {
			return entry, nil
		}
		if !errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, err
		}
	}
	return nil, ErrConflict
}

func tryCreateEntry(now, day time.Time, info CustomerInfo) (*models.QueueEntry, error) {
	entry := models.QueueEntry{
		Name:               info.Name,
		PhoneNumber:        info.PhoneNumber,
		PartySize:          info.PartySize,
		BookingDate:        day,
		BookingDateTime:    now,
		Status:             models.StatusWaiting,
		NotificationStatus: models.NotificationPending,
	}

	err := storage.DB.Transaction(func(tx *gorm.DB) error {
		var total int64
		if err := tx.Model(&models.QueueEntry{}).
			Where("booking_date = ?", day).
			Count(&total).Error; err != nil {
			return err
		}
		var active int64
		if err := tx.Model(&models.QueueEntry{}).
			Where("booking_date = ? AND status IN ?", day, models.ActiveStatuses).
			Count(&active).Error; err != nil {
			return err
		}

		entry.DailySerialNumber = int(total) + 1
		pos := int(active) + 1
		entry.Position = &pos
		return tx.Create(&entry).Error
	})
	if err != nil {
		return nil, err
	}
	return &entry, nil
}

// GetEntry загружает запись по идентификатору.
func GetEntry(id uint) (*models.QueueEntry, error) {
	var entry models.QueueEntry
	if err := storage.DB.First(&entry, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &entry, nil
}

// EntryPosition пересчитывает позицию записи на момент чтения. Хранимой
// позиции при чтении не доверяем: параллельные переходы могли её устареть.
func EntryPosition(entry *models.QueueEntry) (*int, error) {
	if !entry.Status.IsActive() {
		return nil, nil
	}
	var ahead int64
	if err := storage.DB.Model(&models.QueueEntry{}).
		Where("booking_date = ? AND status IN ? AND daily_serial_number < ?",
			entry.BookingDate, models.ActiveStatuses, entry.DailySerialNumber).
		Count(&ahead).Error; err != nil {
		return nil, err
	}
	pos := int(ahead) + 1
	return &pos, nil
}

// ListActive возвращает активный набор дня (waiting и called) по возрастанию
// порядкового номера; позиции 1..N проставляются по порядку выборки.
func ListActive(day time.Time) ([]models.QueueEntry, error) {
	var entries []models.QueueEntry
	if err := storage.DB.
		Where("booking_date = ? AND status IN ?", BookingDay(day), models.ActiveStatuses).
		Order("daily_serial_number ASC").
		Find(&entries).Error; err != nil {
		return nil, err
	}
	for i := range entries {
		pos := i + 1
		entries[i].Position = &pos
	}
	return entries, nil
}

// ListEntries возвращает записи дня, опционально отфильтрованные по статусам,
// по возрастанию порядкового номера.
func ListEntries(day time.Time, statuses []models.Status) ([]models.QueueEntry, error) {
	q := storage.DB.Where("booking_date = ?", BookingDay(day))
	if len(statuses) > 0 {
		q = q.Where("status IN ?", statuses)
	}
	var entries []models.QueueEntry
	if err := q.Order("daily_serial_number ASC").Find(&entries).Error; err != nil {
		return nil, err
	}
	return entries, nil
}
