package handler

import (
	"context"
	"io"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/KasumiMercury/primind-appointment-reminder/internal/domain"
	"github.com/KasumiMercury/primind-appointment-reminder/internal/infra/sink"
)

type Deliverer interface {
	Deliver(ctx context.Context, trigger domain.ScheduledTrigger) error
}

// FireHandler is the HTTP target Cloud Tasks calls when a trigger is due.
type FireHandler struct {
	deliverer Deliverer
}

func NewFireHandler(deliverer Deliverer) *FireHandler {
	return &FireHandler{
		deliverer: deliverer,
	}
}

// HandleFire answers 2xx only once the push went out; any other status makes
// the queue retry the task.
func (h *FireHandler) HandleFire(c *gin.Context) {
	ctx := c.Request.Context()

	body, err := io.ReadAll(c.Request.Body)
	if err != nil {
		slog.ErrorContext(ctx, "failed to read request body", slog.String("error", err.Error()))
		respondError(c, http.StatusBadRequest, "read_error", "failed to read request body")
		return
	}

	envelope, err := sink.DecodeEnvelope(body)
	if err != nil {
		slog.WarnContext(ctx, "invalid trigger envelope",
			slog.String("task_name", c.GetHeader("X-CloudTasks-TaskName")),
			slog.String("error", err.Error()),
		)
		respondError(c, http.StatusBadRequest, "validation_error", err.Error())
		return
	}

	if err := h.deliverer.Deliver(ctx, envelope.Trigger()); err != nil {
		slog.ErrorContext(ctx, "trigger delivery failed",
			slog.String("trigger_id", envelope.ID),
			slog.String("retry_count", c.GetHeader("X-CloudTasks-TaskRetryCount")),
			slog.String("error", err.Error()),
		)
		respondError(c, http.StatusInternalServerError, "delivery_error", "failed to deliver trigger")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":    true,
		"trigger_id": envelope.ID,
	})
}
