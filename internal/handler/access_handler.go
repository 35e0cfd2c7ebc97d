package handler

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/KasumiMercury/primind-appointment-reminder/internal/domain"
	"github.com/KasumiMercury/primind-appointment-reminder/internal/service/access"
)

type AccessHandler struct {
	poller *access.Poller
}

func NewAccessHandler(poller *access.Poller) *AccessHandler {
	return &AccessHandler{
		poller: poller,
	}
}

type accessStartRequest struct {
	SubjectID string `json:"subject_id" binding:"required"`
}

type accessResponse struct {
	Running bool               `json:"running"`
	State   domain.AccessState `json:"state"`
	Warning string             `json:"warning,omitempty"`
}

// HandleStart begins polling a subject. A failed first check does not stop
// the loop; it is reported as a warning.
func (h *AccessHandler) HandleStart(c *gin.Context) {
	ctx := c.Request.Context()

	var req accessStartRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "validation_error", err.Error())
		return
	}

	state, err := h.poller.Start(ctx, req.SubjectID)
	resp := accessResponse{
		Running: h.poller.Running(),
		State:   state,
	}
	if err != nil {
		if !errors.Is(err, domain.ErrAccessQueryFailed) {
			respondDomainError(c, err)
			return
		}
		slog.WarnContext(ctx, "initial access check failed",
			slog.String("subject_id", req.SubjectID),
			slog.String("error", err.Error()),
		)
		resp.Warning = err.Error()
	}

	c.JSON(http.StatusOK, resp)
}

func (h *AccessHandler) HandleStop(c *gin.Context) {
	h.poller.Stop()

	c.JSON(http.StatusOK, accessResponse{
		Running: h.poller.Running(),
		State:   h.poller.State(),
	})
}

func (h *AccessHandler) HandleState(c *gin.Context) {
	c.JSON(http.StatusOK, accessResponse{
		Running: h.poller.Running(),
		State:   h.poller.State(),
	})
}

// HandleCheck runs one check for the subject outside the polling loop.
func (h *AccessHandler) HandleCheck(c *gin.Context) {
	state, err := h.poller.Check(c.Request.Context(), c.Param("subject"))
	if err != nil {
		respondDomainError(c, err)
		return
	}

	c.JSON(http.StatusOK, accessResponse{
		Running: h.poller.Running(),
		State:   state,
	})
}
