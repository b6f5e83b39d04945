package models

import "time"

type ReservationStatus string

const (
	StatusScheduled ReservationStatus = "Scheduled"
	StatusCompleted ReservationStatus = "Completed"
	StatusCancelled ReservationStatus = "Cancelled"
)

// IsTerminal reports whether the status allows no further transitions.
// Completed and Cancelled reservations are historical and never conflict.
func (s ReservationStatus) IsTerminal() bool {
	return s == StatusCompleted || s == StatusCancelled
}

func (s ReservationStatus) Valid() bool {
	return s == StatusScheduled || s == StatusCompleted || s == StatusCancelled
}

type Reservation struct {
	ID           uint              `gorm:"primaryKey" json:"id"`
	EquipmentID  uint              `gorm:"not null;index" json:"equipment_id"`
	Name         string            `gorm:"size:100;not null" json:"name"`
	ScheduleDate time.Time         `gorm:"type:date;not null" json:"schedule_date"`
	Status       ReservationStatus `gorm:"type:varchar(20);not null;default:'Scheduled'" json:"status"`
	Description  string            `json:"description,omitempty"`
	CreatedAt    time.Time         `json:"created_at"`
	UpdatedAt    time.Time         `json:"updated_at"`

	Equipment *Equipment `gorm:"foreignKey:EquipmentID" json:"equipment,omitempty"`
}
