package main

import (
	"fmt"
	"log"
	"os"

	_ "github.com/mrunal304/cafe2020-deployment/docs"
	"github.com/mrunal304/cafe2020-deployment/internal/auth"
	"github.com/mrunal304/cafe2020-deployment/internal/handlers"
	"github.com/mrunal304/cafe2020-deployment/internal/models"
	"github.com/mrunal304/cafe2020-deployment/internal/notify"
	"github.com/mrunal304/cafe2020-deployment/internal/storage"
	"github.com/mrunal304/cafe2020-deployment/internal/tasks"
	"github.com/mrunal304/cafe2020-deployment/internal/ws"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

// @Title						Виртуальная очередь Cafe 2020
// @securityDefinitions.apikey	BearerAuth
// @in							header
// @name						Authorization
func main() {
	key := os.Getenv("ENV_CHEK")
	if key == "" {
		fmt.Println("Подключение к .env")
		err := godotenv.Load()
		if err != nil {
			log.Fatal("Ошибка получения .env")
		}
	}

	storage.ConnectDatabase()

	if err := storage.DB.AutoMigrate(&models.User{}, &models.QueueEntry{}, &models.Notification{}); err != nil {
		log.Fatal("Ошибка при миграции... ", err.Error())
	}

	storage.InitRedis()

	notify.Init()

	tasks.InitScheduler()

	go ws.HubInstance.Run()

	r := gin.Default()

	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"*"},
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Authorization", "Content-Type"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
	}))

	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	authGroup := r.Group("/auth")
	{
		authGroup.POST("/login", handlers.Login)
		authGroup.POST("/register", handlers.Register)
		authGroup.POST("/refresh", handlers.RefreshToken)
	}

	// Публичные маршруты посетителя.
	public := r.Group("/api")
	{
		public.POST("/queue", handlers.CreateEntryHandler)
		public.GET("/queue/:id", handlers.GetEntryHandler)
		public.POST("/queue/:id/accept", handlers.AcceptEntryHandler)
		public.POST("/queue/:id/cancel", handlers.CancelEntryHandler)
		public.POST("/queue/:id/leave", handlers.LeaveEntryHandler)
		public.GET("/board", handlers.QueueBoardHandler)
		public.GET("/dashboard/ws", ws.DashboardWebSocketHandler)
	}

	// Маршруты дашборда персонала.
	staff := r.Group("/api", auth.AuthMiddleware())
	{
		staff.GET("/queue", handlers.ListEntriesHandler)
		staff.POST("/queue/:id/call", handlers.CallEntryHandler)
		staff.POST("/queue/:id/message", handlers.SendMessageHandler)
		staff.POST("/queue/:id/complete", handlers.CompleteEntryHandler)
		staff.POST("/queue/sweep", handlers.SweepHandler)
	}

	if err := r.Run(":8080"); err != nil {
		log.Fatal("Ошибка запуска сервера...", err.Error())
	}
}
