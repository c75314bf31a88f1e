package api

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/ericogr/combo-chronicle/internal/constants"
	"github.com/ericogr/combo-chronicle/internal/logging"
	"github.com/ericogr/combo-chronicle/internal/service"
)

// runIDParam reads and validates the run id route parameter. On failure it
// writes the response and returns false.
func runIDParam(c *gin.Context) (string, bool) {
	id := c.Param(constants.ParamRunID)
	if err := uuid.Validate(id); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{constants.JSONKeyError: constants.ErrInvalidRequest})
		return "", false
	}
	return id, true
}

// respondError maps service errors onto HTTP statuses.
func respondError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrRunNotFound):
		c.JSON(http.StatusNotFound, gin.H{constants.JSONKeyError: constants.ErrRunNotFound})
	case errors.Is(err, service.ErrActionRejected):
		c.JSON(http.StatusConflict, gin.H{
			constants.JSONKeyError:   constants.ErrActionRejected,
			constants.JSONKeyDetails: err.Error(),
		})
	case errors.Is(err, service.ErrWrongState):
		c.JSON(http.StatusBadRequest, gin.H{constants.JSONKeyError: constants.ErrWrongState})
	default:
		logging.Error("request failed", err, logging.Fields{constants.LogFieldPath: c.FullPath()})
		c.JSON(http.StatusInternalServerError, gin.H{constants.JSONKeyError: constants.ErrInternal})
	}
}
