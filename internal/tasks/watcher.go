package tasks

import (
	"log"

	"github.com/mrunal304/cafe2020-deployment/internal/queue"
	"github.com/mrunal304/cafe2020-deployment/internal/ws"

	"github.com/robfig/cron/v3"
)

// SweepExpiredEntries принудительно истекает called-записи, чей дедлайн
// ответа прошёл. Авторитетная проверка дедлайна живёт здесь и в условии
// accept; клиентский таймер обратного отсчёта — только отображение.
func SweepExpiredEntries() {
	now := queue.Clk.Now()
	n, err := queue.SweepExpired(now)
	if err != nil {
		log.Println("Ошибка фонового обхода истёкших записей:", err)
		return
	}
	if n > 0 {
		log.Printf("Фоновый обход: переведено в expired записей: %d\n", n)
		ws.HubInstance.BroadcastWSMessage(ws.WSMessage{
			EventType: "queue_updated",
			Day:       queue.DayKey(now),
			Data: map[string]interface{}{
				"expired": n,
			},
		})
	}
}

// InitScheduler инициализирует планировщик cron-задач.
func InitScheduler() *cron.Cron {
	c := cron.New(cron.WithSeconds())

	// Обход истёкших вызовов каждые 30 секунд: время до принудительного
	// expired ограничено интервалом обхода плюс задержкой обработки.
	_, err := c.AddFunc("*/30 * * * * *", SweepExpiredEntries)
	if err != nil {
		log.Println("Ошибка запуска cron-задачи SweepExpiredEntries:", err)
	}

	c.Start()
	log.Println("Cron-планировщик запущен.")
	return c
}
