package handler

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/KasumiMercury/primind-appointment-reminder/internal/domain"
)

type errorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

func respondError(c *gin.Context, status int, errType, message string) {
	c.AbortWithStatusJSON(status, errorResponse{
		Error:   errType,
		Message: message,
	})
}

// respondDomainError maps service errors onto HTTP statuses.
func respondDomainError(c *gin.Context, err error) {
	status, errType := classifyError(err)
	if status >= http.StatusInternalServerError {
		slog.ErrorContext(c.Request.Context(), "request failed",
			slog.String("path", c.Request.URL.Path),
			slog.Int("status", status),
			slog.String("error", err.Error()),
		)
	} else {
		slog.WarnContext(c.Request.Context(), "request rejected",
			slog.String("path", c.Request.URL.Path),
			slog.Int("status", status),
			slog.String("error", err.Error()),
		)
	}
	respondError(c, status, errType, err.Error())
}

func classifyError(err error) (int, string) {
	switch {
	case errors.Is(err, domain.ErrUnknownTier):
		return http.StatusBadRequest, "unknown_tier"
	case errors.Is(err, domain.ErrInvalidRange):
		return http.StatusUnprocessableEntity, "invalid_range"
	case errors.Is(err, domain.ErrInvalidTimezone):
		return http.StatusUnprocessableEntity, "invalid_timezone"
	case errors.Is(err, domain.ErrInvalidTipTime):
		return http.StatusUnprocessableEntity, "invalid_tip_time"
	case errors.Is(err, domain.ErrAppointmentNotFound):
		return http.StatusNotFound, "not_found"
	case errors.Is(err, domain.ErrStoreUnavailable):
		return http.StatusServiceUnavailable, "store_unavailable"
	case errors.Is(err, domain.ErrSchedulingFailed):
		return http.StatusBadGateway, "scheduling_failed"
	case errors.Is(err, domain.ErrAccessQueryFailed):
		return http.StatusBadGateway, "access_query_failed"
	default:
		return http.StatusInternalServerError, "internal_error"
	}
}
