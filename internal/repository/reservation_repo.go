package repository

import (
	"context"
	"time"

	"github.com/unitrack/equipment-tracker/reservation-service/internal/models"
	"gorm.io/gorm"
)

type ReservationRepository interface {
	Create(ctx context.Context, tx *gorm.DB, reservation *models.Reservation) error
	FindByID(ctx context.Context, id uint) (*models.Reservation, error)
	FindByMonth(ctx context.Context, from, to time.Time) ([]models.Reservation, error)
	FindByDate(ctx context.Context, date time.Time) ([]models.Reservation, error)
	HasScheduledOnDate(ctx context.Context, tx *gorm.DB, equipmentID uint, date time.Time, excludeID *uint) (bool, error)
	ScheduledEquipmentIDs(ctx context.Context, from, to time.Time) ([]uint, error)
	Save(ctx context.Context, tx *gorm.DB, reservation *models.Reservation) error
	Delete(ctx context.Context, id uint) (int64, error)
	GetDB() *gorm.DB
}

type reservationRepository struct {
	db *gorm.DB
}

func NewReservationRepository(db *gorm.DB) ReservationRepository {
	return &reservationRepository{db: db}
}

func (r *reservationRepository) GetDB() *gorm.DB {
	return r.db
}

func (r *reservationRepository) Create(ctx context.Context, tx *gorm.DB, reservation *models.Reservation) error {
	return tx.WithContext(ctx).Create(reservation).Error
}

func (r *reservationRepository) FindByID(ctx context.Context, id uint) (*models.Reservation, error) {
	var reservation models.Reservation
	if err := r.db.WithContext(ctx).Preload("Equipment").First(&reservation, id).Error; err != nil {
		return nil, err
	}
	return &reservation, nil
}

// FindByMonth returns reservations of any status with schedule_date in [from, to).
func (r *reservationRepository) FindByMonth(ctx context.Context, from, to time.Time) ([]models.Reservation, error) {
	var reservations []models.Reservation
	err := r.db.WithContext(ctx).
		Preload("Equipment").
		Where("schedule_date >= ? AND schedule_date < ?", from, to).
		Order("schedule_date ASC, id ASC").
		Find(&reservations).Error
	if err != nil {
		return nil, err
	}
	return reservations, nil
}

func (r *reservationRepository) FindByDate(ctx context.Context, date time.Time) ([]models.Reservation, error) {
	var reservations []models.Reservation
	err := r.db.WithContext(ctx).
		Preload("Equipment").
		Where("schedule_date = ?", date).
		Order("id ASC").
		Find(&reservations).Error
	if err != nil {
		return nil, err
	}
	return reservations, nil
}

// HasScheduledOnDate reports whether an active reservation already claims the
// equipment on the given date. Terminal statuses never count.
func (r *reservationRepository) HasScheduledOnDate(ctx context.Context, tx *gorm.DB, equipmentID uint, date time.Time, excludeID *uint) (bool, error) {
	q := tx.WithContext(ctx).
		Model(&models.Reservation{}).
		Where("equipment_id = ? AND schedule_date = ? AND status = ?", equipmentID, date, models.StatusScheduled)
	if excludeID != nil {
		q = q.Where("id <> ?", *excludeID)
	}

	var count int64
	if err := q.Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// ScheduledEquipmentIDs returns the distinct equipment ids holding a Scheduled
// reservation with schedule_date in [from, to).
func (r *reservationRepository) ScheduledEquipmentIDs(ctx context.Context, from, to time.Time) ([]uint, error) {
	var ids []uint
	err := r.db.WithContext(ctx).
		Model(&models.Reservation{}).
		Distinct("equipment_id").
		Where("schedule_date >= ? AND schedule_date < ? AND status = ?", from, to, models.StatusScheduled).
		Order("equipment_id ASC").
		Pluck("equipment_id", &ids).Error
	if err != nil {
		return nil, err
	}
	return ids, nil
}

func (r *reservationRepository) Save(ctx context.Context, tx *gorm.DB, reservation *models.Reservation) error {
	return tx.WithContext(ctx).Save(reservation).Error
}

func (r *reservationRepository) Delete(ctx context.Context, id uint) (int64, error) {
	result := r.db.WithContext(ctx).Delete(&models.Reservation{}, id)
	return result.RowsAffected, result.Error
}
