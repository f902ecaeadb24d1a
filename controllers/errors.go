package controllers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/tableserve/restaurant-system/services"
	"github.com/tableserve/restaurant-system/utils"
)

// ErrNoPermission is returned on role checks that fail.
var ErrNoPermission = &CustomError{"You do not have permission"}

type CustomError struct {
	Message string
}

func (e *CustomError) Error() string {
	return e.Message
}

// respondServiceError maps the service error taxonomy onto HTTP codes.
// Nothing is swallowed; unknown errors surface as 500s.
func respondServiceError(c *gin.Context, err error) {
	var (
		notFound     *services.NotFoundError
		validation   *services.ValidationError
		transition   *services.InvalidTransitionError
		insufficient *services.InsufficientPaymentError
		conflict     *services.ConflictError
	)
	switch {
	case errors.As(err, &notFound):
		utils.RespondError(c, http.StatusNotFound, err)
	case errors.As(err, &validation), errors.As(err, &transition):
		utils.RespondError(c, http.StatusBadRequest, err)
	case errors.As(err, &insufficient):
		utils.RespondError(c, http.StatusUnprocessableEntity, err)
	case errors.As(err, &conflict):
		utils.RespondError(c, http.StatusConflict, err)
	default:
		utils.RespondError(c, http.StatusInternalServerError, err)
	}
}
