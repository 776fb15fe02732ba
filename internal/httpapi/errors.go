package httpapi

import (
	"context"
	"errors"
	"net/http"

	"github.com/alexanderramin/studysync/internal/domain"
	"github.com/alexanderramin/studysync/internal/service"
	"github.com/alexanderramin/studysync/internal/vision"
	"github.com/gin-gonic/gin"
)

// statusFor maps service and analysis errors onto HTTP status codes.
func statusFor(err error) int {
	switch {
	case errors.Is(err, domain.ErrSessionNotFound):
		return http.StatusNotFound
	case errors.Is(err, domain.ErrInvalidState):
		return http.StatusConflict
	case errors.Is(err, vision.ErrDecode):
		return http.StatusBadRequest
	case errors.Is(err, vision.ErrInvalidRegion):
		return http.StatusUnprocessableEntity
	case errors.Is(err, vision.ErrDetector), errors.Is(err, vision.ErrClassifier):
		return http.StatusBadGateway
	case errors.Is(err, service.ErrAnalysisTimeout), errors.Is(err, context.DeadlineExceeded):
		return http.StatusGatewayTimeout
	default:
		return http.StatusInternalServerError
	}
}

// abortWithError records err for the request logger and writes a
// {"detail": ...} body. Internal errors hide their message.
func abortWithError(c *gin.Context, err error) {
	_ = c.Error(err)
	status := statusFor(err)
	detail := err.Error()
	if status == http.StatusInternalServerError {
		detail = "internal server error"
	}
	c.AbortWithStatusJSON(status, gin.H{"detail": detail})
}

func abortBadRequest(c *gin.Context, detail string) {
	c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"detail": detail})
}
