package utils

import (
	"errors"
	"net/http"

	"growshare/internal/models"

	"github.com/labstack/echo/v4"
)

// RespondWithJSON writes a JSON response with the given status code.
func RespondWithJSON(c echo.Context, code int, payload interface{}) error {
	return c.JSON(code, payload)
}

// RespondWithError writes a JSON error body with the given status code.
func RespondWithError(c echo.Context, code int, message string) error {
	return c.JSON(code, models.ErrorResponse{Message: message})
}

// HandleServiceError maps service-layer sentinel errors onto HTTP status
// codes. Anything unrecognized is logged and reported as a 500 so internal
// details never leak to the client.
func HandleServiceError(c echo.Context, err error) error {
	switch {
	case errors.Is(err, models.ErrNotFound):
		return RespondWithError(c, http.StatusNotFound, "Resource not found")
	case errors.Is(err, models.ErrConflict):
		return RespondWithError(c, http.StatusConflict, "Resource already exists")
	case errors.Is(err, models.ErrForbidden):
		return RespondWithError(c, http.StatusForbidden, "You are not allowed to perform this action")
	case errors.Is(err, models.ErrValidation):
		return RespondWithError(c, http.StatusBadRequest, err.Error())
	case errors.Is(err, models.ErrIllegalTransition):
		return RespondWithError(c, http.StatusConflict, err.Error())
	case errors.Is(err, models.ErrConcurrentModification):
		return RespondWithError(c, http.StatusConflict, "The resource was modified by someone else, please retry")
	case errors.Is(err, models.ErrListingUnavailable):
		return RespondWithError(c, http.StatusConflict, err.Error())
	default:
		c.Logger().Errorf("unhandled service error: %v", err)
		return RespondWithError(c, http.StatusInternalServerError, "Something went wrong")
	}
}
