package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/unitrack/equipment-tracker/reservation-service/internal/dto"
	"github.com/unitrack/equipment-tracker/reservation-service/internal/models"
	"github.com/unitrack/equipment-tracker/reservation-service/internal/service"
	"github.com/unitrack/equipment-tracker/reservation-service/internal/validation"
)

// --- Mock ReservationService ---

type mockReservationService struct {
	checkFn       func(ctx context.Context, equipmentID uint, date time.Time, excludeID *uint) (bool, error)
	createFn      func(ctx context.Context, in service.CreateReservationInput) (*models.Reservation, error)
	updateFn      func(ctx context.Context, id uint, in service.UpdateReservationInput) (*models.Reservation, error)
	getFn         func(ctx context.Context, id uint) (*models.Reservation, error)
	listByMonthFn func(ctx context.Context, year, month int) ([]models.Reservation, []uint, error)
	listByDateFn  func(ctx context.Context, date time.Time) ([]models.Reservation, error)
	deleteFn      func(ctx context.Context, id uint) error
}

func (m *mockReservationService) CheckConflict(ctx context.Context, equipmentID uint, date time.Time, excludeID *uint) (bool, error) {
	return m.checkFn(ctx, equipmentID, date, excludeID)
}
func (m *mockReservationService) CreateReservation(ctx context.Context, in service.CreateReservationInput) (*models.Reservation, error) {
	return m.createFn(ctx, in)
}
func (m *mockReservationService) UpdateReservation(ctx context.Context, id uint, in service.UpdateReservationInput) (*models.Reservation, error) {
	return m.updateFn(ctx, id, in)
}
func (m *mockReservationService) GetReservation(ctx context.Context, id uint) (*models.Reservation, error) {
	return m.getFn(ctx, id)
}
func (m *mockReservationService) ListByMonth(ctx context.Context, year, month int) ([]models.Reservation, []uint, error) {
	return m.listByMonthFn(ctx, year, month)
}
func (m *mockReservationService) ListByDate(ctx context.Context, date time.Time) ([]models.Reservation, error) {
	return m.listByDateFn(ctx, date)
}
func (m *mockReservationService) DeleteReservation(ctx context.Context, id uint) error {
	return m.deleteFn(ctx, id)
}

func newTestContext(method, target, body string) (echo.Context, *httptest.ResponseRecorder) {
	e := echo.New()
	e.Validator = validation.New()
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	return e.NewContext(req, rec), rec
}

// --- Tests ---

func TestCreateSchedule_Handler_Success(t *testing.T) {
	svc := &mockReservationService{
		createFn: func(ctx context.Context, in service.CreateReservationInput) (*models.Reservation, error) {
			return &models.Reservation{
				ID:           1,
				EquipmentID:  in.EquipmentID,
				Name:         in.Name,
				ScheduleDate: in.Date,
				Status:       models.StatusScheduled,
				Equipment:    &models.Equipment{ID: in.EquipmentID, Name: "Oscilloscope"},
			}, nil
		},
	}

	body := `{"title":"Lab A","date":"2025-07-21","inventory_id":7}`
	c, rec := newTestContext(http.MethodPost, "/api/v1/schedules", body)

	h := NewScheduleHandler(svc)
	err := h.CreateSchedule(c)

	assert.NoError(t, err)
	assert.Equal(t, http.StatusCreated, rec.Code)

	var resp dto.ScheduleResponse
	assert.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, uint(1), resp.ID)
	assert.Equal(t, "Lab A", resp.Title)
	assert.Equal(t, "2025-07-21", resp.Date)
	assert.Equal(t, models.StatusScheduled, resp.Status)
	assert.Equal(t, "Oscilloscope", resp.Inventory)
	assert.Equal(t, uint(7), resp.InventoryID)
}

func TestCreateSchedule_Handler_MissingTitle(t *testing.T) {
	body := `{"date":"2025-07-21","inventory_id":7}`
	c, _ := newTestContext(http.MethodPost, "/api/v1/schedules", body)

	h := NewScheduleHandler(nil)
	err := h.CreateSchedule(c)

	var ve validator.ValidationErrors
	assert.ErrorAs(t, err, &ve)
	assert.Contains(t, validation.Fields(ve), "title")
}

func TestCreateSchedule_Handler_BadDateFormat(t *testing.T) {
	body := `{"title":"Lab A","date":"21/07/2025","inventory_id":7}`
	c, _ := newTestContext(http.MethodPost, "/api/v1/schedules", body)

	h := NewScheduleHandler(nil)
	err := h.CreateSchedule(c)

	var ve validator.ValidationErrors
	assert.ErrorAs(t, err, &ve)
	assert.Contains(t, validation.Fields(ve), "date")
}

func TestCreateSchedule_Handler_Conflict(t *testing.T) {
	svc := &mockReservationService{
		createFn: func(ctx context.Context, in service.CreateReservationInput) (*models.Reservation, error) {
			return nil, service.ErrDateConflict
		},
	}

	body := `{"title":"Lab B","date":"2025-07-21","inventory_id":7}`
	c, _ := newTestContext(http.MethodPost, "/api/v1/schedules", body)

	h := NewScheduleHandler(svc)
	err := h.CreateSchedule(c)

	he, ok := err.(*echo.HTTPError)
	assert.True(t, ok)
	assert.Equal(t, http.StatusUnprocessableEntity, he.Code)
}

func TestCreateSchedule_Handler_EquipmentNotFound(t *testing.T) {
	svc := &mockReservationService{
		createFn: func(ctx context.Context, in service.CreateReservationInput) (*models.Reservation, error) {
			return nil, service.ErrEquipmentNotFound
		},
	}

	body := `{"title":"Lab A","date":"2025-07-21","inventory_id":999}`
	c, _ := newTestContext(http.MethodPost, "/api/v1/schedules", body)

	h := NewScheduleHandler(svc)
	err := h.CreateSchedule(c)

	he, ok := err.(*echo.HTTPError)
	assert.True(t, ok)
	assert.Equal(t, http.StatusBadRequest, he.Code)
}

func TestUpdateSchedule_Handler_Success(t *testing.T) {
	newDate := "2025-07-22"
	svc := &mockReservationService{
		updateFn: func(ctx context.Context, id uint, in service.UpdateReservationInput) (*models.Reservation, error) {
			assert.Equal(t, uint(3), id)
			assert.NotNil(t, in.Date)
			assert.Nil(t, in.EquipmentID)
			return &models.Reservation{
				ID:           id,
				EquipmentID:  7,
				Name:         "Lab A",
				ScheduleDate: *in.Date,
				Status:       models.StatusScheduled,
				Equipment:    &models.Equipment{ID: 7, Name: "Oscilloscope"},
			}, nil
		},
	}

	body := `{"date":"` + newDate + `"}`
	c, rec := newTestContext(http.MethodPut, "/api/v1/schedules/3", body)
	c.SetParamNames("id")
	c.SetParamValues("3")

	h := NewScheduleHandler(svc)
	err := h.UpdateSchedule(c)

	assert.NoError(t, err)
	assert.Equal(t, http.StatusOK, rec.Code)

	var resp dto.ScheduleResponse
	assert.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, newDate, resp.Date)
}

func TestUpdateSchedule_Handler_NotFound(t *testing.T) {
	svc := &mockReservationService{
		updateFn: func(ctx context.Context, id uint, in service.UpdateReservationInput) (*models.Reservation, error) {
			return nil, service.ErrReservationNotFound
		},
	}

	body := `{"title":"Lab Z"}`
	c, _ := newTestContext(http.MethodPut, "/api/v1/schedules/99", body)
	c.SetParamNames("id")
	c.SetParamValues("99")

	h := NewScheduleHandler(svc)
	err := h.UpdateSchedule(c)

	he, ok := err.(*echo.HTTPError)
	assert.True(t, ok)
	assert.Equal(t, http.StatusNotFound, he.Code)
}

func TestUpdateSchedule_Handler_InvalidStatus(t *testing.T) {
	body := `{"status":"Pending"}`
	c, _ := newTestContext(http.MethodPut, "/api/v1/schedules/3", body)
	c.SetParamNames("id")
	c.SetParamValues("3")

	h := NewScheduleHandler(nil)
	err := h.UpdateSchedule(c)

	var ve validator.ValidationErrors
	assert.ErrorAs(t, err, &ve)
	assert.Contains(t, validation.Fields(ve), "status")
}

func TestListByMonth_Handler_Success(t *testing.T) {
	svc := &mockReservationService{
		listByMonthFn: func(ctx context.Context, year, month int) ([]models.Reservation, []uint, error) {
			assert.Equal(t, 2025, year)
			assert.Equal(t, 7, month)
			return []models.Reservation{
				{
					ID:           1,
					EquipmentID:  7,
					Name:         "Lab A",
					ScheduleDate: time.Date(2025, 7, 21, 0, 0, 0, 0, time.UTC),
					Status:       models.StatusScheduled,
					Equipment:    &models.Equipment{ID: 7, Name: "Oscilloscope"},
				},
			}, []uint{7}, nil
		},
	}

	c, rec := newTestContext(http.MethodGet, "/api/v1/schedules?year=2025&month=7", "")

	h := NewScheduleHandler(svc)
	err := h.ListByMonth(c)

	assert.NoError(t, err)
	assert.Equal(t, http.StatusOK, rec.Code)

	var resp dto.MonthScheduleResponse
	assert.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Len(t, resp.Schedules, 1)
	assert.Equal(t, []uint{7}, resp.BookedEquipmentIDs)
	assert.Equal(t, "Oscilloscope", resp.Schedules[0].Inventory)
}

func TestListByMonth_Handler_MonthOutOfRange(t *testing.T) {
	svc := &mockReservationService{
		listByMonthFn: func(ctx context.Context, year, month int) ([]models.Reservation, []uint, error) {
			return nil, nil, service.ErrValidation
		},
	}

	c, _ := newTestContext(http.MethodGet, "/api/v1/schedules?year=2025&month=13", "")

	h := NewScheduleHandler(svc)
	err := h.ListByMonth(c)

	he, ok := err.(*echo.HTTPError)
	assert.True(t, ok)
	assert.Equal(t, http.StatusBadRequest, he.Code)
}

func TestListByMonth_Handler_MissingYear(t *testing.T) {
	c, _ := newTestContext(http.MethodGet, "/api/v1/schedules?month=7", "")

	h := NewScheduleHandler(nil)
	err := h.ListByMonth(c)

	he, ok := err.(*echo.HTTPError)
	assert.True(t, ok)
	assert.Equal(t, http.StatusBadRequest, he.Code)
}

func TestListByDate_Handler_Success(t *testing.T) {
	svc := &mockReservationService{
		listByDateFn: func(ctx context.Context, date time.Time) ([]models.Reservation, error) {
			assert.Equal(t, time.Date(2025, 7, 21, 0, 0, 0, 0, time.UTC), date)
			return []models.Reservation{}, nil
		},
	}

	c, rec := newTestContext(http.MethodGet, "/api/v1/schedules/day?date=2025-07-21", "")

	h := NewScheduleHandler(svc)
	err := h.ListByDate(c)

	assert.NoError(t, err)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestListByDate_Handler_BadDate(t *testing.T) {
	c, _ := newTestContext(http.MethodGet, "/api/v1/schedules/day?date=not-a-date", "")

	h := NewScheduleHandler(nil)
	err := h.ListByDate(c)

	he, ok := err.(*echo.HTTPError)
	assert.True(t, ok)
	assert.Equal(t, http.StatusBadRequest, he.Code)
}

func TestDeleteSchedule_Handler_Success(t *testing.T) {
	svc := &mockReservationService{
		deleteFn: func(ctx context.Context, id uint) error {
			assert.Equal(t, uint(4), id)
			return nil
		},
	}

	c, rec := newTestContext(http.MethodDelete, "/api/v1/schedules/4", "")
	c.SetParamNames("id")
	c.SetParamValues("4")

	h := NewScheduleHandler(svc)
	err := h.DeleteSchedule(c)

	assert.NoError(t, err)
	assert.Equal(t, http.StatusNoContent, rec.Code)
}

func TestDeleteSchedule_Handler_NotFound(t *testing.T) {
	svc := &mockReservationService{
		deleteFn: func(ctx context.Context, id uint) error {
			return service.ErrReservationNotFound
		},
	}

	c, _ := newTestContext(http.MethodDelete, "/api/v1/schedules/99", "")
	c.SetParamNames("id")
	c.SetParamValues("99")

	h := NewScheduleHandler(svc)
	err := h.DeleteSchedule(c)

	he, ok := err.(*echo.HTTPError)
	assert.True(t, ok)
	assert.Equal(t, http.StatusNotFound, he.Code)
}

func TestGetSchedule_Handler_NotFound(t *testing.T) {
	svc := &mockReservationService{
		getFn: func(ctx context.Context, id uint) (*models.Reservation, error) {
			return nil, service.ErrReservationNotFound
		},
	}

	c, _ := newTestContext(http.MethodGet, "/api/v1/schedules/42", "")
	c.SetParamNames("id")
	c.SetParamValues("42")

	h := NewScheduleHandler(svc)
	err := h.GetSchedule(c)

	he, ok := err.(*echo.HTTPError)
	assert.True(t, ok)
	assert.Equal(t, http.StatusNotFound, he.Code)
}
