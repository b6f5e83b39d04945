package repository

import (
	"context"

	"github.com/unitrack/equipment-tracker/reservation-service/internal/models"
	"gorm.io/gorm"
)

type EquipmentRepository interface {
	FindByID(ctx context.Context, id uint) (*models.Equipment, error)
	FindByIDForUpdate(ctx context.Context, tx *gorm.DB, id uint) (*models.Equipment, error)
}

type equipmentRepository struct {
	db *gorm.DB
}

func NewEquipmentRepository(db *gorm.DB) EquipmentRepository {
	return &equipmentRepository{db: db}
}

func (r *equipmentRepository) FindByID(ctx context.Context, id uint) (*models.Equipment, error) {
	var equipment models.Equipment
	if err := r.db.WithContext(ctx).First(&equipment, id).Error; err != nil {
		return nil, err
	}
	return &equipment, nil
}

// FindByIDForUpdate acquires a row-level lock on the equipment within the given
// transaction, serializing rival bookings of the same equipment.
func (r *equipmentRepository) FindByIDForUpdate(ctx context.Context, tx *gorm.DB, id uint) (*models.Equipment, error) {
	var equipment models.Equipment
	if err := tx.WithContext(ctx).
		Set("gorm:query_option", "FOR UPDATE").
		First(&equipment, id).Error; err != nil {
		return nil, err
	}
	return &equipment, nil
}
