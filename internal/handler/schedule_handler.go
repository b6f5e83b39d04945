package handler

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/unitrack/equipment-tracker/reservation-service/internal/dto"
	"github.com/unitrack/equipment-tracker/reservation-service/internal/models"
	"github.com/unitrack/equipment-tracker/reservation-service/internal/service"
)

const dateLayout = "2006-01-02"

type ScheduleHandler struct {
	svc service.ReservationService
}

func NewScheduleHandler(svc service.ReservationService) *ScheduleHandler {
	return &ScheduleHandler{svc: svc}
}

func (h *ScheduleHandler) RegisterRoutes(e *echo.Echo) {
	schedules := e.Group("/api/v1/schedules")
	schedules.GET("", h.ListByMonth)
	schedules.GET("/day", h.ListByDate)
	schedules.POST("", h.CreateSchedule)
	schedules.GET("/:id", h.GetSchedule)
	schedules.PUT("/:id", h.UpdateSchedule)
	schedules.DELETE("/:id", h.DeleteSchedule)
}

func mapServiceError(err error) error {
	switch {
	case errors.Is(err, service.ErrValidation),
		errors.Is(err, service.ErrEquipmentNotFound),
		errors.Is(err, service.ErrStatusFinal):
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	case errors.Is(err, service.ErrDateConflict):
		return echo.NewHTTPError(http.StatusUnprocessableEntity, err.Error())
	case errors.Is(err, service.ErrReservationNotFound):
		return echo.NewHTTPError(http.StatusNotFound, err.Error())
	default:
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
}

func (h *ScheduleHandler) CreateSchedule(c echo.Context) error {
	var req dto.CreateScheduleRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	date, err := time.Parse(dateLayout, req.Date)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "date must be in YYYY-MM-DD format")
	}

	reservation, err := h.svc.CreateReservation(c.Request().Context(), service.CreateReservationInput{
		EquipmentID: req.InventoryID,
		Name:        req.Title,
		Date:        date,
		Description: req.Description,
		Status:      models.ReservationStatus(req.Status),
	})
	if err != nil {
		return mapServiceError(err)
	}

	return c.JSON(http.StatusCreated, dto.ToScheduleResponse(reservation))
}

func (h *ScheduleHandler) UpdateSchedule(c echo.Context) error {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid schedule id")
	}

	var req dto.UpdateScheduleRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	in := service.UpdateReservationInput{
		EquipmentID: req.InventoryID,
		Name:        req.Title,
		Description: req.Description,
	}
	if req.Date != nil {
		date, err := time.Parse(dateLayout, *req.Date)
		if err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, "date must be in YYYY-MM-DD format")
		}
		in.Date = &date
	}
	if req.Status != nil {
		status := models.ReservationStatus(*req.Status)
		in.Status = &status
	}

	reservation, err := h.svc.UpdateReservation(c.Request().Context(), uint(id), in)
	if err != nil {
		return mapServiceError(err)
	}

	return c.JSON(http.StatusOK, dto.ToScheduleResponse(reservation))
}

func (h *ScheduleHandler) GetSchedule(c echo.Context) error {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid schedule id")
	}

	reservation, err := h.svc.GetReservation(c.Request().Context(), uint(id))
	if err != nil {
		return mapServiceError(err)
	}

	return c.JSON(http.StatusOK, dto.ToScheduleResponse(reservation))
}

func (h *ScheduleHandler) ListByMonth(c echo.Context) error {
	year, err := strconv.Atoi(c.QueryParam("year"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "year is required and must be an integer")
	}
	month, err := strconv.Atoi(c.QueryParam("month"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "month is required and must be an integer")
	}

	reservations, bookedIDs, err := h.svc.ListByMonth(c.Request().Context(), year, month)
	if err != nil {
		return mapServiceError(err)
	}

	return c.JSON(http.StatusOK, dto.MonthScheduleResponse{
		Schedules:          dto.ToScheduleResponses(reservations),
		BookedEquipmentIDs: bookedIDs,
	})
}

func (h *ScheduleHandler) ListByDate(c echo.Context) error {
	date, err := time.Parse(dateLayout, c.QueryParam("date"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "date must be in YYYY-MM-DD format")
	}

	reservations, err := h.svc.ListByDate(c.Request().Context(), date)
	if err != nil {
		return mapServiceError(err)
	}

	return c.JSON(http.StatusOK, dto.ToScheduleResponses(reservations))
}

func (h *ScheduleHandler) DeleteSchedule(c echo.Context) error {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid schedule id")
	}

	if err := h.svc.DeleteReservation(c.Request().Context(), uint(id)); err != nil {
		return mapServiceError(err)
	}

	return c.NoContent(http.StatusNoContent)
}
