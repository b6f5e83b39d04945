package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/unitrack/equipment-tracker/reservation-service/internal/models"
	"github.com/unitrack/equipment-tracker/reservation-service/internal/repository"
	"gorm.io/gorm"
)

var (
	ErrValidation          = errors.New("validation error")
	ErrEquipmentNotFound   = errors.New("equipment not found")
	ErrReservationNotFound = errors.New("reservation not found")
	ErrDateConflict        = errors.New("equipment already scheduled for the selected date")
	ErrStatusFinal         = errors.New("completed or cancelled reservations cannot change status")
)

func invalidInput(msg string) error {
	return fmt.Errorf("%w: %s", ErrValidation, msg)
}

type CreateReservationInput struct {
	EquipmentID uint
	Name        string
	Date        time.Time
	Description string
	Status      models.ReservationStatus // defaults to Scheduled
}

type UpdateReservationInput struct {
	EquipmentID *uint
	Name        *string
	Date        *time.Time
	Description *string
	Status      *models.ReservationStatus
}

type ReservationService interface {
	CheckConflict(ctx context.Context, equipmentID uint, date time.Time, excludeID *uint) (bool, error)
	CreateReservation(ctx context.Context, in CreateReservationInput) (*models.Reservation, error)
	UpdateReservation(ctx context.Context, id uint, in UpdateReservationInput) (*models.Reservation, error)
	GetReservation(ctx context.Context, id uint) (*models.Reservation, error)
	ListByMonth(ctx context.Context, year, month int) ([]models.Reservation, []uint, error)
	ListByDate(ctx context.Context, date time.Time) ([]models.Reservation, error)
	DeleteReservation(ctx context.Context, id uint) error
}

type reservationService struct {
	reservationRepo repository.ReservationRepository
	equipmentRepo   repository.EquipmentRepository
}

func NewReservationService(reservationRepo repository.ReservationRepository, equipmentRepo repository.EquipmentRepository) ReservationService {
	return &reservationService{
		reservationRepo: reservationRepo,
		equipmentRepo:   equipmentRepo,
	}
}

// dateOnly truncates to the calendar day; reservations are date-granular.
func dateOnly(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

func validateName(name string) error {
	if name == "" {
		return invalidInput("name is required")
	}
	if len(name) > 100 {
		return invalidInput("name must be at most 100 characters")
	}
	return nil
}

func (s *reservationService) CheckConflict(ctx context.Context, equipmentID uint, date time.Time, excludeID *uint) (bool, error) {
	if date.IsZero() {
		return false, invalidInput("a valid schedule date is required")
	}
	if _, err := s.equipmentRepo.FindByID(ctx, equipmentID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return false, ErrEquipmentNotFound
		}
		return false, err
	}

	return s.reservationRepo.HasScheduledOnDate(ctx, s.reservationRepo.GetDB(), equipmentID, dateOnly(date), excludeID)
}

func (s *reservationService) CreateReservation(ctx context.Context, in CreateReservationInput) (*models.Reservation, error) {
	if err := validateName(in.Name); err != nil {
		return nil, err
	}
	if in.Date.IsZero() {
		return nil, invalidInput("a valid schedule date is required")
	}

	status := in.Status
	if status == "" {
		status = models.StatusScheduled
	}
	if status != models.StatusScheduled {
		return nil, invalidInput("new reservations must start as Scheduled")
	}

	date := dateOnly(in.Date)
	var result *models.Reservation

	err := s.reservationRepo.GetDB().WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		// 1. Lock the equipment row — serializes rival bookings of this equipment
		equipment, err := s.equipmentRepo.FindByIDForUpdate(ctx, tx, in.EquipmentID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrEquipmentNotFound
			}
			return err
		}

		// 2. Check for an active reservation on the same date
		taken, err := s.reservationRepo.HasScheduledOnDate(ctx, tx, in.EquipmentID, date, nil)
		if err != nil {
			return err
		}
		if taken {
			return ErrDateConflict
		}

		// 3. Persist
		reservation := &models.Reservation{
			EquipmentID:  in.EquipmentID,
			Name:         in.Name,
			ScheduleDate: date,
			Status:       status,
			Description:  in.Description,
		}
		if err := s.reservationRepo.Create(ctx, tx, reservation); err != nil {
			// Partial unique index is the backstop under concurrency
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				return ErrDateConflict
			}
			return err
		}

		reservation.Equipment = equipment
		result = reservation
		return nil
	})

	return result, err
}

func (s *reservationService) UpdateReservation(ctx context.Context, id uint, in UpdateReservationInput) (*models.Reservation, error) {
	if in.Name != nil {
		if err := validateName(*in.Name); err != nil {
			return nil, err
		}
	}
	if in.Date != nil && in.Date.IsZero() {
		return nil, invalidInput("a valid schedule date is required")
	}
	if in.Status != nil && !in.Status.Valid() {
		return nil, invalidInput("status must be Scheduled, Completed or Cancelled")
	}

	var result *models.Reservation

	err := s.reservationRepo.GetDB().WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		current, err := s.reservationRepo.FindByID(ctx, id)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrReservationNotFound
			}
			return err
		}

		// Completed and Cancelled are terminal
		if in.Status != nil && *in.Status != current.Status && current.Status.IsTerminal() {
			return ErrStatusFinal
		}

		equipmentID := current.EquipmentID
		if in.EquipmentID != nil {
			equipmentID = *in.EquipmentID
		}
		currentDate := dateOnly(current.ScheduleDate)
		date := currentDate
		if in.Date != nil {
			date = dateOnly(*in.Date)
		}
		status := current.Status
		if in.Status != nil {
			status = *in.Status
		}

		// Re-check the booking invariant only when the reservation will be
		// active and its equipment, date or status actually moved.
		needsCheck := status == models.StatusScheduled &&
			(equipmentID != current.EquipmentID || !date.Equal(currentDate) || current.Status != models.StatusScheduled)

		equipment := current.Equipment
		if needsCheck || equipmentID != current.EquipmentID {
			equipment, err = s.equipmentRepo.FindByIDForUpdate(ctx, tx, equipmentID)
			if err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					return ErrEquipmentNotFound
				}
				return err
			}
		}

		if needsCheck {
			taken, err := s.reservationRepo.HasScheduledOnDate(ctx, tx, equipmentID, date, &id)
			if err != nil {
				return err
			}
			if taken {
				return ErrDateConflict
			}
		}

		current.EquipmentID = equipmentID
		current.ScheduleDate = date
		current.Status = status
		if in.Name != nil {
			current.Name = *in.Name
		}
		if in.Description != nil {
			current.Description = *in.Description
		}

		current.Equipment = nil
		if err := s.reservationRepo.Save(ctx, tx, current); err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				return ErrDateConflict
			}
			return err
		}

		current.Equipment = equipment
		result = current
		return nil
	})

	return result, err
}

func (s *reservationService) GetReservation(ctx context.Context, id uint) (*models.Reservation, error) {
	reservation, err := s.reservationRepo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrReservationNotFound
		}
		return nil, err
	}
	return reservation, nil
}

func (s *reservationService) ListByMonth(ctx context.Context, year, month int) ([]models.Reservation, []uint, error) {
	if month < 1 || month > 12 {
		return nil, nil, invalidInput("month must be between 1 and 12")
	}

	from := time.Date(year, time.Month(month), 1, 0, 0, 0, 0, time.UTC)
	to := from.AddDate(0, 1, 0)

	reservations, err := s.reservationRepo.FindByMonth(ctx, from, to)
	if err != nil {
		return nil, nil, err
	}

	bookedIDs, err := s.reservationRepo.ScheduledEquipmentIDs(ctx, from, to)
	if err != nil {
		return nil, nil, err
	}

	return reservations, bookedIDs, nil
}

func (s *reservationService) ListByDate(ctx context.Context, date time.Time) ([]models.Reservation, error) {
	if date.IsZero() {
		return nil, invalidInput("a valid schedule date is required")
	}
	return s.reservationRepo.FindByDate(ctx, dateOnly(date))
}

func (s *reservationService) DeleteReservation(ctx context.Context, id uint) error {
	rows, err := s.reservationRepo.Delete(ctx, id)
	if err != nil {
		return err
	}
	if rows == 0 {
		return ErrReservationNotFound
	}
	return nil
}
