package http

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"agora/pkg/models"
)

// writeError translates a core error into an HTTP status and the standard
// error envelope. Unrecognized errors become 500 with a generic message so
// internals never leak to clients.
func writeError(c *gin.Context, err error) {
	var validationErrs models.ValidationErrors
	if errors.As(err, &validationErrs) {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{
			Status:    http.StatusBadRequest,
			Message:   "validation failed",
			Timestamp: time.Now(),
			Errors:    validationErrs,
		})
		return
	}

	status := http.StatusInternalServerError
	message := "internal server error"

	switch {
	case errors.Is(err, models.ErrInvalidVoteDirection),
		errors.Is(err, models.ErrInvalidInput):
		status = http.StatusBadRequest
		message = err.Error()
	case errors.Is(err, models.ErrUnauthenticated),
		errors.Is(err, models.ErrInvalidToken):
		status = http.StatusUnauthorized
		message = err.Error()
	case errors.Is(err, models.ErrUnauthorized):
		status = http.StatusForbidden
		message = err.Error()
	case errors.Is(err, models.ErrFeedbackNotFound),
		errors.Is(err, models.ErrCommentNotFound),
		errors.Is(err, models.ErrCategoryNotFound),
		errors.Is(err, models.ErrUserNotFound),
		errors.Is(err, models.ErrNotFound):
		status = http.StatusNotFound
		message = err.Error()
	}

	c.JSON(status, models.ErrorResponse{
		Status:    status,
		Message:   message,
		Timestamp: time.Now(),
	})
}
