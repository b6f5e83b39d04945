package dto

import (
	"github.com/unitrack/equipment-tracker/reservation-service/internal/models"
)

const dateLayout = "2006-01-02"

type ScheduleResponse struct {
	ID          uint                     `json:"id"`
	Title       string                   `json:"title"`
	Date        string                   `json:"date"`
	Status      models.ReservationStatus `json:"status"`
	Inventory   string                   `json:"inventory"`
	InventoryID uint                     `json:"inventory_id"`
	Description string                   `json:"description,omitempty"`
}

type MonthScheduleResponse struct {
	Schedules          []ScheduleResponse `json:"schedules"`
	BookedEquipmentIDs []uint             `json:"booked_equipment_ids"`
}

type ErrorResponse struct {
	Message string            `json:"message"`
	Fields  map[string]string `json:"fields,omitempty"`
}

func ToScheduleResponse(r *models.Reservation) ScheduleResponse {
	resp := ScheduleResponse{
		ID:          r.ID,
		Title:       r.Name,
		Date:        r.ScheduleDate.Format(dateLayout),
		Status:      r.Status,
		InventoryID: r.EquipmentID,
		Description: r.Description,
	}
	if r.Equipment != nil {
		resp.Inventory = r.Equipment.Name
	}
	return resp
}

func ToScheduleResponses(reservations []models.Reservation) []ScheduleResponse {
	resp := make([]ScheduleResponse, len(reservations))
	for i := range reservations {
		resp[i] = ToScheduleResponse(&reservations[i])
	}
	return resp
}
