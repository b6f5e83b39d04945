package database

import (
	"log"

	"github.com/unitrack/equipment-tracker/reservation-service/internal/models"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func NewPostgresDB(dsn string) *gorm.DB {
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Warn),
		TranslateError: true,
	})
	if err != nil {
		log.Fatalf("failed to connect to database: %v", err)
	}

	if err := db.AutoMigrate(&models.Equipment{}, &models.Reservation{}); err != nil {
		log.Fatalf("failed to auto-migrate: %v", err)
	}

	// Partial unique index: prevents double-booking (same equipment + same date)
	// unless the reservation was completed or cancelled
	db.Exec(`
		CREATE UNIQUE INDEX IF NOT EXISTS idx_reservation_active
		ON reservations (equipment_id, schedule_date)
		WHERE status = 'Scheduled'
	`)

	return db
}
