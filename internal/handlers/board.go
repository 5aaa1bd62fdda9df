package handlers

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/mrunal304/cafe2020-deployment/internal/queue"
	"github.com/mrunal304/cafe2020-deployment/internal/response"
	"github.com/mrunal304/cafe2020-deployment/internal/storage"

	"github.com/gin-gonic/gin"
)

// boardCacheTTL — табло допускает отставание на один пересчёт, поэтому
// короткий кэш безопасен и снимает нагрузку частых опросов.
const boardCacheTTL = 3 * time.Second

// BoardItem — публичная строка табло, без телефона посетителя.
type BoardItem struct {
	DailySerialNumber int    `json:"daily_serial_number"`
	Name              string `json:"name"`
	PartySize         int    `json:"party_size"`
	Position          int    `json:"position"`
	Status            string `json:"status"`
}

type BoardResponse struct {
	Day   string      `json:"day"`
	Items []BoardItem `json:"items"`
}

// QueueBoardHandler возвращает публичное табло активной очереди на сегодня
// @Summary		Табло очереди
// @Description	Активные записи текущего дня с позициями; результат кэшируется на несколько секунд
// @Tags			queue
// @Produce		json
// @Success		200	{object}	BoardResponse
// @Failure		500	{object}	response.ErrorResponse	"Ошибка сервера (DB_ERROR)"
// @Router			/api/board [get]
func QueueBoardHandler(c *gin.Context) {
	day := queue.BookingDay(queue.Clk.Now())
	cacheKey := boardCacheKey(day)

	if cached, ok := boardCacheGet(cacheKey); ok {
		c.Data(http.StatusOK, "application/json; charset=utf-8", cached)
		return
	}

	entries, err := queue.ListActive(day)
	if err != nil {
		c.JSON(http.StatusInternalServerError, response.ErrorResponse{
			Code:    "DB_ERROR",
			Message: "Ошибка загрузки записей очереди",
			Details: err.Error(),
		})
		return
	}

	board := BoardResponse{
		Day:   day.Format("2006-01-02"),
		Items: make([]BoardItem, 0, len(entries)),
	}
	for _, e := range entries {
		board.Items = append(board.Items, BoardItem{
			DailySerialNumber: e.DailySerialNumber,
			Name:              e.Name,
			PartySize:         e.PartySize,
			Position:          *e.Position,
			Status:            string(e.Status),
		})
	}

	body, err := json.Marshal(board)
	if err != nil {
		c.JSON(http.StatusInternalServerError, response.ErrorResponse{
			Code:    "DB_ERROR",
			Message: "Ошибка сериализации табло",
			Details: err.Error(),
		})
		return
	}

	boardCacheSet(cacheKey, body)
	c.Data(http.StatusOK, "application/json; charset=utf-8", body)
}

func boardCacheGet(key string) ([]byte, bool) {
	if storage.RedisClient == nil {
		return nil, false
	}
	cached, err := storage.RedisClient.Get(ctx, key).Result()
	if err != nil || cached == "" {
		return nil, false
	}
	return []byte(cached), true
}

func boardCacheSet(key string, body []byte) {
	if storage.RedisClient == nil {
		return
	}
	storage.RedisClient.Set(ctx, key, string(body), boardCacheTTL)
}
