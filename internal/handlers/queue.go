package handlers

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/mrunal304/cafe2020-deployment/internal/models"
	"github.com/mrunal304/cafe2020-deployment/internal/queue"
	"github.com/mrunal304/cafe2020-deployment/internal/response"
	"github.com/mrunal304/cafe2020-deployment/internal/storage"
	"github.com/mrunal304/cafe2020-deployment/internal/ws"

	"github.com/gin-gonic/gin"
)

var ctx = context.Background()

type CreateEntryRequest struct {
	Name        string `json:"name"`
	PhoneNumber string `json:"phone_number" binding:"required"`
	PartySize   int    `json:"party_size" binding:"required,min=1"`
}

type AcceptEntryRequest struct {
	Message string `json:"message"`
}

type SendMessageRequest struct {
	Message string `json:"message" binding:"required"`
}

type CancelEntryRequest struct {
	Reason string `json:"reason"`
}

// EntryResponse — запись очереди в ответах API. Позиция всегда пересчитана
// на момент чтения.
type EntryResponse struct {
	ID                 uint       `json:"id"`
	Name               string     `json:"name"`
	PhoneNumber        string     `json:"phone_number"`
	PartySize          int        `json:"party_size"`
	BookingDate        string     `json:"booking_date"`
	BookingDateTime    time.Time  `json:"booking_date_time"`
	DailySerialNumber  int        `json:"daily_serial_number"`
	Position           *int       `json:"position"`
	Status             string     `json:"status"`
	NotificationSent   bool       `json:"notification_sent"`
	NotificationStatus string     `json:"notification_status"`
	CalledAt           *time.Time `json:"called_at,omitempty"`
	ResponseDeadline   *time.Time `json:"response_deadline,omitempty"`
	RespondedAt        *time.Time `json:"responded_at,omitempty"`
	ResponseType       string     `json:"response_type,omitempty"`
	Message            string     `json:"message,omitempty"`
	UpdatedAt          time.Time  `json:"updated_at"`
}

func entryResponse(e *models.QueueEntry) EntryResponse {
	return EntryResponse{
		ID:                 e.ID,
		Name:               e.Name,
		PhoneNumber:        e.PhoneNumber,
		PartySize:          e.PartySize,
		BookingDate:        e.BookingDate.Format("2006-01-02"),
		BookingDateTime:    e.BookingDateTime,
		DailySerialNumber:  e.DailySerialNumber,
		Position:           e.Position,
		Status:             string(e.Status),
		NotificationSent:   e.NotificationSent,
		NotificationStatus: e.NotificationStatus,
		CalledAt:           e.CalledAt,
		ResponseDeadline:   e.ResponseDeadline,
		RespondedAt:        e.RespondedAt,
		ResponseType:       e.ResponseType,
		Message:            e.Message,
		UpdatedAt:          e.UpdatedAt,
	}
}

// writeQueueError переводит ошибки ядра очереди в HTTP-ответы.
func writeQueueError(c *gin.Context, err error) {
	var vErr *queue.ValidationError
	switch {
	case errors.As(err, &vErr):
		c.JSON(http.StatusBadRequest, response.ErrorResponse{
			Code:    "VALIDATION_ERROR",
			Message: "Ошибка валидации данных",
			Details: vErr.Error(),
		})
	case errors.Is(err, queue.ErrNotFound):
		c.JSON(http.StatusNotFound, response.ErrorResponse{
			Code:    "NOT_FOUND",
			Message: "Запись в очереди не найдена",
		})
	case errors.Is(err, queue.ErrStaleTransition):
		c.JSON(http.StatusConflict, response.ErrorResponse{
			Code:    "STALE_TRANSITION",
			Message: "Время ответа истекло или запись уже обработана",
		})
	case errors.Is(err, queue.ErrInvalidTransition):
		c.JSON(http.StatusConflict, response.ErrorResponse{
			Code:    "INVALID_TRANSITION",
			Message: "Текущий статус записи не допускает это действие",
		})
	case errors.Is(err, queue.ErrConflict):
		c.JSON(http.StatusServiceUnavailable, response.ErrorResponse{
			Code:    "CONFLICT",
			Message: "Конфликт одновременной записи, повторите запрос",
		})
	default:
		c.JSON(http.StatusInternalServerError, response.ErrorResponse{
			Code:    "DB_ERROR",
			Message: "Внутренняя ошибка сервера",
			Details: err.Error(),
		})
	}
}

// broadcastEntryEvent уведомляет дашборд дня о событии жизненного цикла.
func broadcastEntryEvent(eventType string, e *models.QueueEntry) {
	ws.HubInstance.BroadcastWSMessage(ws.WSMessage{
		EventType: eventType,
		Day:       e.BookingDate.Format("2006-01-02"),
		Data: map[string]interface{}{
			"entry_id":            e.ID,
			"daily_serial_number": e.DailySerialNumber,
			"status":              string(e.Status),
		},
	})
	invalidateBoardCache(e.BookingDate)
}

func parseEntryID(c *gin.Context) (uint, bool) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil || id < 1 {
		c.JSON(http.StatusBadRequest, response.ErrorResponse{
			Code:    "INVALID_ENTRY_ID",
			Message: "Неверный идентификатор записи",
		})
		return 0, false
	}
	return uint(id), true
}

// CreateEntryHandler ставит посетителя в очередь
// @Summary		Вступление в очередь
// @Description	Добавляет посетителя в очередь текущего дня и возвращает запись с позицией
// @Tags			queue
// @Accept			json
// @Produce		json
// @Param			entry	body		CreateEntryRequest	true	"Данные посетителя"
// @Success		201		{object}	EntryResponse	"Созданная запись"
// @Failure		400		{object}	response.ErrorResponse	"Ошибка валидации (VALIDATION_ERROR)"
// @Failure		503		{object}	response.ErrorResponse	"Конфликт одновременной записи (CONFLICT)"
// @Router			/api/queue [post]
func CreateEntryHandler(c *gin.Context) {
	var req CreateEntryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.ErrorResponse{
			Code:    "VALIDATION_ERROR",
			Message: "Ошибка валидации данных",
			Details: err.Error(),
		})
		return
	}

	entry, err := queue.CreateEntry(queue.CustomerInfo{
		Name:        req.Name,
		PhoneNumber: req.PhoneNumber,
		PartySize:   req.PartySize,
	})
	if err != nil {
		writeQueueError(c, err)
		return
	}

	broadcastEntryEvent("entry_created", entry)
	c.JSON(http.StatusCreated, entryResponse(entry))
}

// GetEntryHandler возвращает запись с актуальной позицией
// @Summary		Получение записи
// @Description	Возвращает запись очереди; позиция пересчитывается на момент чтения
// @Tags			queue
// @Produce		json
// @Param			id	path		string	true	"ID записи"
// @Success		200	{object}	EntryResponse
// @Failure		404	{object}	response.ErrorResponse	"Запись не найдена (NOT_FOUND)"
// @Router			/api/queue/{id} [get]
func GetEntryHandler(c *gin.Context) {
	id, ok := parseEntryID(c)
	if !ok {
		return
	}

	entry, err := queue.GetEntry(id)
	if err != nil {
		writeQueueError(c, err)
		return
	}
	pos, err := queue.EntryPosition(entry)
	if err != nil {
		writeQueueError(c, err)
		return
	}
	entry.Position = pos

	c.JSON(http.StatusOK, entryResponse(entry))
}

// ListEntriesHandler возвращает записи дня для дашборда персонала
// @Summary		Список записей дня
// @Description	Записи выбранного дня, опционально отфильтрованные по статусам (через запятую)
// @Tags			queue
// @Produce		json
// @Param			date	query		string	false	"День в формате 2006-01-02 (по умолчанию сегодня)"
// @Param			status	query		string	false	"Фильтр статусов, например waiting,called"
// @Security		BearerAuth
// @Success		200	{array}		EntryResponse
// @Failure		400	{object}	response.ErrorResponse	"Ошибка валидации (VALIDATION_ERROR)"
// @Failure		500	{object}	response.ErrorResponse	"Ошибка сервера (DB_ERROR)"
// @Router			/api/queue [get]
func ListEntriesHandler(c *gin.Context) {
	day := queue.BookingDay(queue.Clk.Now())
	if raw := c.Query("date"); raw != "" {
		parsed, err := time.ParseInLocation("2006-01-02", raw, queue.VenueLocation())
		if err != nil {
			c.JSON(http.StatusBadRequest, response.ErrorResponse{
				Code:    "VALIDATION_ERROR",
				Message: "Неверный формат даты, ожидается 2006-01-02",
			})
			return
		}
		day = parsed
	}

	var statuses []models.Status
	if raw := c.Query("status"); raw != "" {
		for _, s := range splitStatuses(raw) {
			if !s.IsValid() {
				c.JSON(http.StatusBadRequest, response.ErrorResponse{
					Code:    "VALIDATION_ERROR",
					Message: "Неизвестный статус: " + string(s),
				})
				return
			}
			statuses = append(statuses, s)
		}
	}

	entries, err := queue.ListEntries(day, statuses)
	if err != nil {
		writeQueueError(c, err)
		return
	}

	result := make([]EntryResponse, 0, len(entries))
	for i := range entries {
		pos, err := queue.EntryPosition(&entries[i])
		if err != nil {
			writeQueueError(c, err)
			return
		}
		entries[i].Position = pos
		result = append(result, entryResponse(&entries[i]))
	}
	c.JSON(http.StatusOK, result)
}

// CallEntryHandler вызывает посетителя к столику
// @Summary		Вызов посетителя
// @Description	Переводит запись в called, запускает окно ответа и отправляет SMS; неудача отправки не отменяет вызов
// @Tags			queue
// @Produce		json
// @Param			id	path		string	true	"ID записи"
// @Security		BearerAuth
// @Success		200	{object}	EntryResponse
// @Failure		404	{object}	response.ErrorResponse	"Запись не найдена (NOT_FOUND)"
// @Failure		409	{object}	response.ErrorResponse	"Недопустимый переход (INVALID_TRANSITION)"
// @Router			/api/queue/{id}/call [post]
func CallEntryHandler(c *gin.Context) {
	id, ok := parseEntryID(c)
	if !ok {
		return
	}

	entry, err := queue.Call(id)
	if err != nil {
		writeQueueError(c, err)
		return
	}

	broadcastEntryEvent("entry_called", entry)
	c.JSON(http.StatusOK, entryResponse(entry))
}

// AcceptEntryHandler подтверждает столик посетителем
// @Summary		Подтверждение столика
// @Description	Переводит запись в confirmed, если окно ответа ещё не истекло
// @Tags			queue
// @Accept			json
// @Produce		json
// @Param			id		path	string				true	"ID записи"
// @Param			body	body	AcceptEntryRequest	false	"Необязательное сообщение"
// @Success		200	{object}	EntryResponse
// @Failure		404	{object}	response.ErrorResponse	"Запись не найдена (NOT_FOUND)"
// @Failure		409	{object}	response.ErrorResponse	"Окно ответа истекло (STALE_TRANSITION) или недопустимый переход (INVALID_TRANSITION)"
// @Router			/api/queue/{id}/accept [post]
func AcceptEntryHandler(c *gin.Context) {
	id, ok := parseEntryID(c)
	if !ok {
		return
	}

	var req AcceptEntryRequest
	_ = c.ShouldBindJSON(&req)

	entry, err := queue.Accept(id, req.Message)
	if err != nil {
		writeQueueError(c, err)
		return
	}

	broadcastEntryEvent("entry_updated", entry)
	c.JSON(http.StatusOK, entryResponse(entry))
}

// SendMessageHandler сохраняет сообщение для вызванного посетителя
// @Summary		Сообщение посетителю
// @Description	Сохраняет текст на записи в статусе called; статус не меняется
// @Tags			queue
// @Accept			json
// @Produce		json
// @Param			id		path	string				true	"ID записи"
// @Param			body	body	SendMessageRequest	true	"Текст сообщения"
// @Security		BearerAuth
// @Success		200	{object}	EntryResponse
// @Failure		404	{object}	response.ErrorResponse	"Запись не найдена (NOT_FOUND)"
// @Failure		409	{object}	response.ErrorResponse	"Недопустимый переход (INVALID_TRANSITION)"
// @Router			/api/queue/{id}/message [post]
func SendMessageHandler(c *gin.Context) {
	id, ok := parseEntryID(c)
	if !ok {
		return
	}

	var req SendMessageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.ErrorResponse{
			Code:    "VALIDATION_ERROR",
			Message: "Ошибка валидации данных",
			Details: err.Error(),
		})
		return
	}

	entry, err := queue.SendMessage(id, req.Message)
	if err != nil {
		writeQueueError(c, err)
		return
	}
	c.JSON(http.StatusOK, entryResponse(entry))
}

// CancelEntryHandler отменяет запись
// @Summary		Отмена записи
// @Description	Переводит запись в cancelled (по умолчанию) или expired; позиции дня пересчитываются
// @Tags			queue
// @Accept			json
// @Produce		json
// @Param			id		path	string				true	"ID записи"
// @Param			body	body	CancelEntryRequest	false	"Причина: cancelled или expired"
// @Success		200	{object}	EntryResponse
// @Failure		400	{object}	response.ErrorResponse	"Ошибка валидации (VALIDATION_ERROR)"
// @Failure		404	{object}	response.ErrorResponse	"Запись не найдена (NOT_FOUND)"
// @Failure		409	{object}	response.ErrorResponse	"Недопустимый переход (INVALID_TRANSITION)"
// @Router			/api/queue/{id}/cancel [post]
func CancelEntryHandler(c *gin.Context) {
	id, ok := parseEntryID(c)
	if !ok {
		return
	}

	var req CancelEntryRequest
	_ = c.ShouldBindJSON(&req)
	reason := models.StatusCancelled
	if req.Reason != "" {
		reason = models.Status(req.Reason)
	}

	entry, err := queue.Cancel(id, reason)
	if err != nil {
		writeQueueError(c, err)
		return
	}

	broadcastEntryEvent("entry_updated", entry)
	c.JSON(http.StatusOK, entryResponse(entry))
}

// CompleteEntryHandler закрывает визит
// @Summary		Завершение визита
// @Description	Переводит подтверждённую запись в completed
// @Tags			queue
// @Produce		json
// @Param			id	path		string	true	"ID записи"
// @Security		BearerAuth
// @Success		200	{object}	EntryResponse
// @Failure		404	{object}	response.ErrorResponse	"Запись не найдена (NOT_FOUND)"
// @Failure		409	{object}	response.ErrorResponse	"Недопустимый переход (INVALID_TRANSITION)"
// @Router			/api/queue/{id}/complete [post]
func CompleteEntryHandler(c *gin.Context) {
	id, ok := parseEntryID(c)
	if !ok {
		return
	}

	entry, err := queue.Complete(id)
	if err != nil {
		writeQueueError(c, err)
		return
	}

	broadcastEntryEvent("entry_updated", entry)
	c.JSON(http.StatusOK, entryResponse(entry))
}

// LeaveEntryHandler — посетитель сам покидает очередь
// @Summary		Выход из очереди
// @Description	Переводит ожидающую запись в left; позиции дня пересчитываются
// @Tags			queue
// @Produce		json
// @Param			id	path		string	true	"ID записи"
// @Success		200	{object}	EntryResponse
// @Failure		404	{object}	response.ErrorResponse	"Запись не найдена (NOT_FOUND)"
// @Failure		409	{object}	response.ErrorResponse	"Недопустимый переход (INVALID_TRANSITION)"
// @Router			/api/queue/{id}/leave [post]
func LeaveEntryHandler(c *gin.Context) {
	id, ok := parseEntryID(c)
	if !ok {
		return
	}

	entry, err := queue.Leave(id)
	if err != nil {
		writeQueueError(c, err)
		return
	}

	broadcastEntryEvent("entry_updated", entry)
	c.JSON(http.StatusOK, entryResponse(entry))
}

// SweepHandler — ручной запуск обхода истёкших вызовов
// @Summary		Обход истёкших вызовов
// @Description	Принудительно переводит в expired все called-записи с прошедшим дедлайном
// @Tags			queue
// @Produce		json
// @Security		BearerAuth
// @Success		200	{object}	map[string]int	"Количество истёкших записей"
// @Failure		500	{object}	response.ErrorResponse	"Ошибка сервера (DB_ERROR)"
// @Router			/api/queue/sweep [post]
func SweepHandler(c *gin.Context) {
	now := queue.Clk.Now()
	n, err := queue.SweepExpired(now)
	if err != nil {
		writeQueueError(c, err)
		return
	}
	if n > 0 {
		invalidateBoardCache(queue.BookingDay(now))
	}
	c.JSON(http.StatusOK, gin.H{"expired": n})
}

func splitStatuses(raw string) []models.Status {
	var out []models.Status
	for _, part := range strings.Split(raw, ",") {
		part = strings.TrimSpace(part)
		if part != "" {
			out = append(out, models.Status(part))
		}
	}
	return out
}

// invalidateBoardCache сбрасывает кэш публичного табло дня.
func invalidateBoardCache(day time.Time) {
	if storage.RedisClient == nil {
		return
	}
	storage.RedisClient.Del(ctx, boardCacheKey(day))
}

func boardCacheKey(day time.Time) string {
	return "queue_board_" + day.Format("2006-01-02")
}
