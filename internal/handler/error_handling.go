package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"stream-push-relay/internal/models"
)

func handleServiceError(c *gin.Context, err error) {
	var statusCode int
	var errResp models.ErrorResponse
	var maxBytesErr *http.MaxBytesError

	switch {
	case errors.Is(err, models.ErrMissingTokenFields):
		statusCode = http.StatusBadRequest
		errResp = models.ErrorResponse{Error: "Missing userId or pushToken"}
	case errors.Is(err, models.ErrInvalidJSON):
		statusCode = http.StatusBadRequest
		errResp = models.ErrorResponse{Error: "Invalid JSON body"}
	case errors.As(err, &maxBytesErr):
		statusCode = http.StatusRequestEntityTooLarge
		errResp = models.ErrorResponse{Error: "Request body too large"}
	default:
		zap.L().Error("Unhandled internal error in handleServiceError", zap.Error(err))
		statusCode = http.StatusInternalServerError
		errResp = models.ErrorResponse{Error: "Internal server error", Details: err.Error()}
	}

	c.AbortWithStatusJSON(statusCode, errResp)
}
