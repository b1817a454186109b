package common

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"stafflow.com/stafflow/core"
)

// StatusFor maps the core's typed failures onto HTTP status codes. It is
// the single place the API layer makes that decision.
func StatusFor(err error) int {
	switch {
	case errors.Is(err, core.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, core.ErrForbidden):
		return http.StatusForbidden
	case errors.Is(err, core.ErrConflict),
		errors.Is(err, core.ErrOverlappingApplication),
		errors.Is(err, core.ErrInvalidStateTransition):
		return http.StatusConflict
	case errors.Is(err, core.ErrInvalidRange),
		errors.Is(err, core.ErrNoWorkingDays):
		return http.StatusBadRequest
	case errors.Is(err, core.ErrInsufficientBalance):
		return http.StatusUnprocessableEntity
	default:
		return http.StatusInternalServerError
	}
}

// AbortWithError writes the mapped status and the error message.
func AbortWithError(c *gin.Context, err error) {
	c.JSON(StatusFor(err), NewErrorResponse(err.Error()))
}
