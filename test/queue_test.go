package test

import (
	"bytes"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"net/http/httptest"
	"os"
	"sync"
	"testing"
	"time"

	"github.com/mrunal304/cafe2020-deployment/internal/handlers"
	"github.com/mrunal304/cafe2020-deployment/internal/models"
	"github.com/mrunal304/cafe2020-deployment/internal/notify"
	"github.com/mrunal304/cafe2020-deployment/internal/queue"
	"github.com/mrunal304/cafe2020-deployment/internal/storage"
	"github.com/mrunal304/cafe2020-deployment/internal/ws"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/stretchr/testify/assert"
)

// stubDispatcher подменяет SMS-шлюз: запоминает отправки, всегда успех.
type stubDispatcher struct {
	mu   sync.Mutex
	sent []string
}

func (s *stubDispatcher) Send(phoneNumber, message string) notify.Result {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sent = append(s.sent, phoneNumber)
	return notify.Result{ProviderSID: "test-sid"}
}

func (s *stubDispatcher) count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.sent)
}

var dispatcher *stubDispatcher

func setupTestServer() *httptest.Server {
	key := os.Getenv("ENV_CHEK")
	if key == "" {
		fmt.Println("Подключение к .env")
		err := godotenv.Load("../.env")
		if err != nil {
			log.Fatal("Ошибка получения .env")
		}
	}

	storage.ConnectTestingDatabase()
	storage.DB.Exec("TRUNCATE TABLE users, queue_entries, notifications RESTART IDENTITY CASCADE;")

	if err := storage.DB.AutoMigrate(&models.User{}, &models.QueueEntry{}, &models.Notification{}); err != nil {
		log.Fatal("Ошибка при миграции... ", err.Error())
	}

	storage.InitRedis()

	dispatcher = &stubDispatcher{}
	notify.Active = dispatcher

	go ws.HubInstance.Run()

	r := gin.Default()

	// Staff-маршруты регистрируем без JWT-проверки, как и публичные.
	r.POST("/api/queue", handlers.CreateEntryHandler)
	r.GET("/api/queue", handlers.ListEntriesHandler)
	r.GET("/api/queue/:id", handlers.GetEntryHandler)
	r.GET("/api/board", handlers.QueueBoardHandler)
	r.POST("/api/queue/:id/call", handlers.CallEntryHandler)
	r.POST("/api/queue/:id/accept", handlers.AcceptEntryHandler)
	r.POST("/api/queue/:id/message", handlers.SendMessageHandler)
	r.POST("/api/queue/:id/cancel", handlers.CancelEntryHandler)
	r.POST("/api/queue/:id/complete", handlers.CompleteEntryHandler)
	r.POST("/api/queue/:id/leave", handlers.LeaveEntryHandler)
	r.POST("/api/queue/sweep", handlers.SweepHandler)

	return httptest.NewServer(r)
}

func postJSON(t *testing.T, url string, body interface{}) (*http.Response, handlers.EntryResponse) {
	t.Helper()
	var payload []byte
	if body != nil {
		var err error
		payload, err = json.Marshal(body)
		assert.NoError(t, err)
	}
	res, err := http.Post(url, "application/json", bytes.NewReader(payload))
	assert.NoError(t, err)
	var entry handlers.EntryResponse
	_ = json.NewDecoder(res.Body).Decode(&entry)
	res.Body.Close()
	return res, entry
}

func createEntry(t *testing.T, ts *httptest.Server, name, phone string, party int) handlers.EntryResponse {
	t.Helper()
	res, entry := postJSON(t, ts.URL+"/api/queue", map[string]interface{}{
		"name":         name,
		"phone_number": phone,
		"party_size":   party,
	})
	assert.Equal(t, http.StatusCreated, res.StatusCode, "не удалось создать запись")
	return entry
}

func entryStatus(t *testing.T, id uint) models.Status {
	t.Helper()
	e, err := queue.GetEntry(id)
	assert.NoError(t, err)
	return e.Status
}

func TestQueueLifecycleFlow(t *testing.T) {
	ts := setupTestServer()
	defer ts.Close()

	// 1. Три посетителя встают в очередь: номера и позиции 1..3.
	e1 := createEntry(t, ts, "Иван", "+79990000001", 2)
	e2 := createEntry(t, ts, "Пётр", "+79990000002", 4)
	e3 := createEntry(t, ts, "", "+79990000003", 1)

	assert.Equal(t, 1, e1.DailySerialNumber)
	assert.Equal(t, 2, e2.DailySerialNumber)
	assert.Equal(t, 3, e3.DailySerialNumber)
	assert.Equal(t, 1, *e1.Position)
	assert.Equal(t, 2, *e2.Position)
	assert.Equal(t, 3, *e3.Position)
	assert.Equal(t, "waiting", e1.Status)
	assert.Equal(t, "Гость", e3.Name, "пустое имя заменяется на Гость")

	// 2. Отмена второго: позиции пересчитываются, у отменённого позиция пуста.
	res, cancelled := postJSON(t, fmt.Sprintf("%s/api/queue/%d/cancel", ts.URL, e2.ID), nil)
	assert.Equal(t, http.StatusOK, res.StatusCode)
	assert.Equal(t, "cancelled", cancelled.Status)
	assert.Nil(t, cancelled.Position)
	assert.Equal(t, "cancelled", cancelled.ResponseType)

	res1, got1 := getEntry(t, ts, e1.ID)
	res3, got3 := getEntry(t, ts, e3.ID)
	assert.Equal(t, http.StatusOK, res1.StatusCode)
	assert.Equal(t, http.StatusOK, res3.StatusCode)
	assert.Equal(t, 1, *got1.Position)
	assert.Equal(t, 2, *got3.Position)

	// 3. Вызов первого: статус called, дедлайн = вызов + 10 минут, позиция
	// сохраняется — вызванный посетитель остаётся в активном наборе.
	res, called := postJSON(t, fmt.Sprintf("%s/api/queue/%d/call", ts.URL, e1.ID), nil)
	assert.Equal(t, http.StatusOK, res.StatusCode)
	assert.Equal(t, "called", called.Status)
	assert.NotNil(t, called.CalledAt)
	assert.NotNil(t, called.ResponseDeadline)
	assert.WithinDuration(t, called.CalledAt.Add(10*time.Minute), *called.ResponseDeadline, time.Second)
	assert.Equal(t, 1, *called.Position)
	assert.Equal(t, 1, dispatcher.count(), "SMS отправлено один раз")
	assert.True(t, called.NotificationSent)
	assert.Equal(t, "sent", called.NotificationStatus)

	var notifCount int64
	storage.DB.Model(&models.Notification{}).Where("queue_entry_id = ?", e1.ID).Count(&notifCount)
	assert.EqualValues(t, 1, notifCount, "попытка отправки занесена в журнал")

	// 4. Сообщение вызванному посетителю: текст сохранён, статус не меняется.
	res, messaged := postJSON(t, fmt.Sprintf("%s/api/queue/%d/message", ts.URL, e1.ID), map[string]string{"message": "Столик у окна"})
	assert.Equal(t, http.StatusOK, res.StatusCode)
	assert.Equal(t, "called", messaged.Status)
	assert.Equal(t, "Столик у окна", messaged.Message)

	// 5. Подтверждение в пределах окна: confirmed, позиция снята, третий
	// поднимается на первую позицию.
	res, confirmed := postJSON(t, fmt.Sprintf("%s/api/queue/%d/accept", ts.URL, e1.ID), nil)
	assert.Equal(t, http.StatusOK, res.StatusCode)
	assert.Equal(t, "confirmed", confirmed.Status)
	assert.Nil(t, confirmed.Position)
	assert.Nil(t, confirmed.ResponseDeadline, "дедлайн снимается при выходе из called")
	assert.Equal(t, "accepted", confirmed.ResponseType)

	_, got3 = getEntry(t, ts, e3.ID)
	assert.Equal(t, 1, *got3.Position)

	// 6. Завершение визита; повторное завершение отклоняется без изменений.
	res, completed := postJSON(t, fmt.Sprintf("%s/api/queue/%d/complete", ts.URL, e1.ID), nil)
	assert.Equal(t, http.StatusOK, res.StatusCode)
	assert.Equal(t, "completed", completed.Status)

	res, _ = postJSON(t, fmt.Sprintf("%s/api/queue/%d/complete", ts.URL, e1.ID), nil)
	assert.Equal(t, http.StatusConflict, res.StatusCode)
	assert.Equal(t, models.StatusCompleted, entryStatus(t, e1.ID))
}

func getEntry(t *testing.T, ts *httptest.Server, id uint) (*http.Response, handlers.EntryResponse) {
	t.Helper()
	res, err := http.Get(fmt.Sprintf("%s/api/queue/%d", ts.URL, id))
	assert.NoError(t, err)
	var entry handlers.EntryResponse
	_ = json.NewDecoder(res.Body).Decode(&entry)
	res.Body.Close()
	return res, entry
}

func TestCreateValidation(t *testing.T) {
	ts := setupTestServer()
	defer ts.Close()

	res, err := http.Post(ts.URL+"/api/queue", "application/json",
		bytes.NewReader([]byte(`{"name":"Иван","phone_number":"абвгд","party_size":2}`)))
	assert.NoError(t, err)
	defer res.Body.Close()
	assert.Equal(t, http.StatusBadRequest, res.StatusCode)

	var body map[string]interface{}
	_ = json.NewDecoder(res.Body).Decode(&body)
	assert.Equal(t, "VALIDATION_ERROR", body["code"])
}

func TestLeaveQueue(t *testing.T) {
	ts := setupTestServer()
	defer ts.Close()

	e1 := createEntry(t, ts, "Иван", "+79990000001", 2)
	e2 := createEntry(t, ts, "Пётр", "+79990000002", 3)

	res, left := postJSON(t, fmt.Sprintf("%s/api/queue/%d/leave", ts.URL, e1.ID), nil)
	assert.Equal(t, http.StatusOK, res.StatusCode)
	assert.Equal(t, "left", left.Status)
	assert.Nil(t, left.Position)

	_, got2 := getEntry(t, ts, e2.ID)
	assert.Equal(t, 1, *got2.Position)

	// Выход возможен только до вызова.
	res, _ = postJSON(t, fmt.Sprintf("%s/api/queue/%d/leave", ts.URL, e1.ID), nil)
	assert.Equal(t, http.StatusConflict, res.StatusCode)
}

func TestStaleAcceptAndSweep(t *testing.T) {
	ts := setupTestServer()
	defer ts.Close()

	entry := createEntry(t, ts, "Иван", "+79990000001", 2)
	res, _ := postJSON(t, fmt.Sprintf("%s/api/queue/%d/call", ts.URL, entry.ID), nil)
	assert.Equal(t, http.StatusOK, res.StatusCode)

	// Симулируем истечение окна ответа: сдвигаем дедлайн в прошлое.
	storage.DB.Model(&models.QueueEntry{}).
		Where("id = ?", entry.ID).
		Update("response_deadline", time.Now().Add(-time.Minute))

	res, _ = postJSON(t, fmt.Sprintf("%s/api/queue/%d/accept", ts.URL, entry.ID), nil)
	assert.Equal(t, http.StatusConflict, res.StatusCode)

	var body map[string]interface{}
	resErr, err := http.Post(fmt.Sprintf("%s/api/queue/%d/accept", ts.URL, entry.ID), "application/json", nil)
	assert.NoError(t, err)
	_ = json.NewDecoder(resErr.Body).Decode(&body)
	resErr.Body.Close()
	assert.Equal(t, "STALE_TRANSITION", body["code"])

	// Обход переводит запись в expired ровно один раз.
	n, err := queue.SweepExpired(time.Now())
	assert.NoError(t, err)
	assert.Equal(t, 1, n)
	assert.Equal(t, models.StatusExpired, entryStatus(t, entry.ID))

	n, err = queue.SweepExpired(time.Now())
	assert.NoError(t, err)
	assert.Equal(t, 0, n, "повторный обход ничего не находит")

	// Подтверждение по уже истёкшей записи — stale, статус не меняется.
	_, err = queue.Accept(entry.ID, "")
	assert.ErrorIs(t, err, queue.ErrStaleTransition)
	assert.Equal(t, models.StatusExpired, entryStatus(t, entry.ID))
}

func TestConcurrentCreateSerials(t *testing.T) {
	ts := setupTestServer()
	defer ts.Close()

	const workers = 10
	var wg sync.WaitGroup
	errs := make(chan error, workers)

	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, err := queue.CreateEntry(queue.CustomerInfo{
				Name:        fmt.Sprintf("Гость %d", i),
				PhoneNumber: fmt.Sprintf("+7999000%04d", i),
				PartySize:   2,
			})
			errs <- err
		}(i)
	}
	wg.Wait()
	close(errs)

	for err := range errs {
		assert.NoError(t, err, "параллельное создание не должно падать")
	}

	// Номера внутри дня — ровно 1..N, без пропусков и повторов.
	entries, err := queue.ListEntries(queue.BookingDay(time.Now()), nil)
	assert.NoError(t, err)
	assert.Len(t, entries, workers)
	for i, e := range entries {
		assert.Equal(t, i+1, e.DailySerialNumber)
		assert.Equal(t, i+1, *e.Position)
	}
}

func TestConcurrentAcceptVsSweep(t *testing.T) {
	ts := setupTestServer()
	defer ts.Close()

	entry := createEntry(t, ts, "Иван", "+79990000001", 2)
	res, _ := postJSON(t, fmt.Sprintf("%s/api/queue/%d/call", ts.URL, entry.ID), nil)
	assert.Equal(t, http.StatusOK, res.StatusCode)

	// Дедлайн только что прошёл: подтверждение и обход стартуют одновременно.
	storage.DB.Model(&models.QueueEntry{}).
		Where("id = ?", entry.ID).
		Update("response_deadline", time.Now().Add(-time.Millisecond))

	var wg sync.WaitGroup
	wg.Add(2)
	var acceptErr error
	var swept int
	go func() {
		defer wg.Done()
		_, acceptErr = queue.Accept(entry.ID, "")
	}()
	go func() {
		defer wg.Done()
		swept, _ = queue.SweepExpired(time.Now())
	}()
	wg.Wait()

	// Побеждает ровно одна сторона, итог — confirmed XOR expired.
	final := entryStatus(t, entry.ID)
	if acceptErr == nil {
		assert.Equal(t, models.StatusConfirmed, final)
		assert.Equal(t, 0, swept)
	} else {
		assert.Equal(t, models.StatusExpired, final)
		assert.Equal(t, 1, swept)
	}

	// Позиции дня после гонки согласованы: запись вне активного набора.
	e, err := queue.GetEntry(entry.ID)
	assert.NoError(t, err)
	assert.Nil(t, e.Position)
}

func TestBoardExcludesResolvedEntries(t *testing.T) {
	ts := setupTestServer()
	defer ts.Close()

	e1 := createEntry(t, ts, "Иван", "+79990000001", 2)
	e2 := createEntry(t, ts, "Пётр", "+79990000002", 3)

	res, _ := postJSON(t, fmt.Sprintf("%s/api/queue/%d/call", ts.URL, e1.ID), nil)
	assert.Equal(t, http.StatusOK, res.StatusCode)
	res, _ = postJSON(t, fmt.Sprintf("%s/api/queue/%d/accept", ts.URL, e1.ID), nil)
	assert.Equal(t, http.StatusOK, res.StatusCode)

	boardRes, err := http.Get(ts.URL + "/api/board")
	assert.NoError(t, err)
	defer boardRes.Body.Close()
	assert.Equal(t, http.StatusOK, boardRes.StatusCode)

	var board handlers.BoardResponse
	assert.NoError(t, json.NewDecoder(boardRes.Body).Decode(&board))
	assert.Len(t, board.Items, 1, "подтверждённая запись покидает табло")
	assert.Equal(t, e2.DailySerialNumber, board.Items[0].DailySerialNumber)
	assert.Equal(t, 1, board.Items[0].Position)
}
