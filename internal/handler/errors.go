package handler

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"
	"github.com/labstack/gommon/log"

	"github.com/iliyamo/table-reservation/internal/booking"
	"github.com/iliyamo/table-reservation/internal/repository"
)

// writeError maps booking and repository errors to HTTP statuses.  Errors
// outside both taxonomies are logged and hidden behind a 500.
func writeError(c echo.Context, err error) error {
	var nat *booking.NoAvailableTableError
	switch {
	case errors.As(err, &nat):
		return c.JSON(http.StatusConflict, echo.Map{
			"error":            err.Error(),
			"party_size":       nat.PartySize,
			"table_capacities": nat.Capacities,
		})
	case errors.Is(err, repository.ErrNotFound):
		return c.JSON(http.StatusNotFound, echo.Map{"error": "not found"})
	case errors.Is(err, repository.ErrConflict):
		return c.JSON(http.StatusConflict, echo.Map{"error": "already exists"})
	}

	switch booking.KindOf(err) {
	case booking.KindValidation:
		return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
	case booking.KindNotFound:
		return c.JSON(http.StatusNotFound, echo.Map{"error": err.Error()})
	case booking.KindConflict:
		return c.JSON(http.StatusConflict, echo.Map{"error": err.Error()})
	case booking.KindPolicy:
		return c.JSON(http.StatusUnprocessableEntity, echo.Map{"error": err.Error()})
	}
	c.Logger().Errorj(log.JSON{
		"msg":    "request failed",
		"method": c.Request().Method,
		"path":   c.Path(),
		"error":  err.Error(),
	})
	return c.JSON(http.StatusInternalServerError, echo.Map{"error": "internal error"})
}

// pathID parses the :id route parameter.
func pathID(c echo.Context) (uint64, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	return id, err == nil && id > 0
}
