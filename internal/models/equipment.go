package models

import "time"

// Equipment is a read model synced from the Inventory Service.
// Handlers never write it; the RabbitMQ consumer upserts it.
type Equipment struct {
	ID           uint      `gorm:"primaryKey" json:"id"`
	Name         string    `gorm:"not null" json:"name"`
	Category     string    `json:"category"`
	Office       string    `json:"office"`
	SerialNumber string    `json:"serial_number"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

func (Equipment) TableName() string { return "equipment" }
