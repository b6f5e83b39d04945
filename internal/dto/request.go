package dto

type CreateScheduleRequest struct {
	Title       string `json:"title" validate:"required,max=100"`
	Date        string `json:"date" validate:"required,datetime=2006-01-02"`
	InventoryID uint   `json:"inventory_id" validate:"required"`
	Status      string `json:"status" validate:"omitempty,oneof=Scheduled"`
	Description string `json:"description"`
}

// UpdateScheduleRequest carries partial updates; nil fields keep prior values.
type UpdateScheduleRequest struct {
	Title       *string `json:"title" validate:"omitempty,min=1,max=100"`
	Date        *string `json:"date" validate:"omitempty,datetime=2006-01-02"`
	InventoryID *uint   `json:"inventory_id" validate:"omitempty,gt=0"`
	Status      *string `json:"status" validate:"omitempty,oneof=Scheduled Completed Cancelled"`
	Description *string `json:"description"`
}
