package main

import (
	"log"

	"github.com/labstack/echo/v4"
	echoMw "github.com/labstack/echo/v4/middleware"
	"github.com/unitrack/equipment-tracker/reservation-service/config"
	"github.com/unitrack/equipment-tracker/reservation-service/internal/consumer"
	"github.com/unitrack/equipment-tracker/reservation-service/internal/handler"
	"github.com/unitrack/equipment-tracker/reservation-service/internal/middleware"
	"github.com/unitrack/equipment-tracker/reservation-service/internal/repository"
	"github.com/unitrack/equipment-tracker/reservation-service/internal/service"
	"github.com/unitrack/equipment-tracker/reservation-service/internal/validation"
	"github.com/unitrack/equipment-tracker/reservation-service/pkg/database"
	"github.com/unitrack/equipment-tracker/reservation-service/pkg/rabbitmq"
)

func main() {
	cfg := config.Load()

	db := database.NewPostgresDB(cfg.DSN())

	// RabbitMQ consumer: sync equipment catalog from Inventory Service
	mqConsumer, err := rabbitmq.NewConsumer(cfg.RabbitURL)
	if err != nil {
		log.Fatalf("failed to connect to RabbitMQ: %v", err)
	}
	defer mqConsumer.Close()

	msgs, err := mqConsumer.Consume()
	if err != nil {
		log.Fatalf("failed to start consuming: %v", err)
	}

	equipmentConsumer := consumer.NewEquipmentConsumer(db)
	equipmentConsumer.Start(msgs)

	// Repositories
	equipmentRepo := repository.NewEquipmentRepository(db)
	reservationRepo := repository.NewReservationRepository(db)

	// Service
	reservationSvc := service.NewReservationService(reservationRepo, equipmentRepo)

	// Echo
	e := echo.New()
	e.Validator = validation.New()
	e.HTTPErrorHandler = middleware.ErrorHandler
	e.Use(echoMw.RequestLoggerWithConfig(echoMw.RequestLoggerConfig{
		LogStatus: true,
		LogURI:    true,
		LogMethod: true,
		LogValuesFunc: func(c echo.Context, v echoMw.RequestLoggerValues) error {
			log.Printf("%s %s %d", v.Method, v.URI, v.Status)
			return nil
		},
	}))
	e.Use(echoMw.Recover())

	e.GET("/health", func(c echo.Context) error {
		return c.JSON(200, map[string]string{"status": "ok", "service": "reservation-service"})
	})

	handler.NewScheduleHandler(reservationSvc).RegisterRoutes(e)

	log.Printf("Reservation Service starting on :%s", cfg.ServerPort)
	e.Logger.Fatal(e.Start(":" + cfg.ServerPort))
}
