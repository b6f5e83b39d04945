package middleware

import (
	"errors"
	"log"
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/unitrack/equipment-tracker/reservation-service/internal/dto"
	"github.com/unitrack/equipment-tracker/reservation-service/internal/validation"
)

func ErrorHandler(err error, c echo.Context) {
	if c.Response().Committed {
		return
	}

	code := http.StatusInternalServerError
	resp := dto.ErrorResponse{Message: err.Error()}

	var ve validator.ValidationErrors
	switch {
	case errors.As(err, &ve):
		code = http.StatusBadRequest
		resp.Message = "validation failed"
		resp.Fields = validation.Fields(ve)
	default:
		if he, ok := err.(*echo.HTTPError); ok {
			code = he.Code
			if m, ok := he.Message.(string); ok {
				resp.Message = m
			}
		}
	}

	if code >= http.StatusInternalServerError {
		log.Printf("[ErrorHandler] %s %s: %v", c.Request().Method, c.Request().URL.Path, err)
	}

	_ = c.JSON(code, resp)
}
