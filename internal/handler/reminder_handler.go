package handler

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/KasumiMercury/primind-appointment-reminder/internal/domain"
	"github.com/KasumiMercury/primind-appointment-reminder/internal/service/reminder"
	"github.com/KasumiMercury/primind-appointment-reminder/internal/service/timewindow"
)

type ReminderHandler struct {
	reminders *reminder.Service
	now       func() time.Time
}

func NewReminderHandler(reminders *reminder.Service) *ReminderHandler {
	return &ReminderHandler{
		reminders: reminders,
		now:       time.Now,
	}
}

type resolveRequest struct {
	StartAt  time.Time  `json:"start_at" binding:"required"`
	EndAt    *time.Time `json:"end_at"`
	Purpose  string     `json:"purpose"`
	Timezone string     `json:"timezone"`
}

type resolveResponse struct {
	StartAt         time.Time `json:"start_at"`
	EndAt           time.Time `json:"end_at"`
	DurationMinutes int       `json:"duration_minutes"`
}

// HandleResolve fills in the end of an appointment being booked, or checks
// the end the client picked.
func (h *ReminderHandler) HandleResolve(c *gin.Context) {
	var req resolveRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "validation_error", err.Error())
		return
	}

	appt := &domain.Appointment{
		StartAt:  req.StartAt,
		Timezone: req.Timezone,
		Purpose:  domain.Purpose(req.Purpose),
	}
	if req.EndAt != nil {
		appt.EndAt = *req.EndAt
	}

	loc, err := appt.Location()
	if err != nil {
		respondDomainError(c, err)
		return
	}
	if err := timewindow.Complete(appt); err != nil {
		respondDomainError(c, err)
		return
	}

	c.JSON(http.StatusOK, resolveResponse{
		StartAt:         appt.StartAt.In(loc),
		EndAt:           appt.EndAt.In(loc),
		DurationMinutes: int(appt.EndAt.Sub(appt.StartAt).Minutes()),
	})
}

type toggleRequest struct {
	Enabled *bool `json:"enabled" binding:"required"`
}

// HandleToggleTier turns one reminder tier on or off. Skipped outcomes are
// reported with status 200 and a reason.
func (h *ReminderHandler) HandleToggleTier(c *gin.Context) {
	ctx := c.Request.Context()

	tier, err := domain.ParseTier(c.Param("tier"))
	if err != nil {
		respondDomainError(c, err)
		return
	}

	var req toggleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "validation_error", err.Error())
		return
	}

	appointmentID := c.Param("id")
	result, err := h.reminders.ToggleTierByID(ctx, appointmentID, tier, *req.Enabled)
	if err != nil {
		respondDomainError(c, err)
		return
	}

	slog.InfoContext(ctx, "reminder tier toggled",
		slog.String("appointment_id", appointmentID),
		slog.String("tier", tier.String()),
		slog.Bool("enabled", *req.Enabled),
		slog.String("outcome", result.Outcome.String()),
	)

	c.JSON(http.StatusOK, result)
}

// HandleSync re-applies the owner's reminder settings to an appointment after
// it was booked or moved.
func (h *ReminderHandler) HandleSync(c *gin.Context) {
	results, err := h.reminders.SyncAppointmentByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondDomainError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"results": results})
}

// HandleListReminders lists a patient's live reminders grouped by appointment.
// The optional "at" query (RFC3339) replaces the clock used for urgency.
func (h *ReminderHandler) HandleListReminders(c *gin.Context) {
	now := h.now()
	if at := c.Query("at"); at != "" {
		parsed, err := time.Parse(time.RFC3339, at)
		if err != nil {
			respondError(c, http.StatusBadRequest, "validation_error", "invalid at time format, expected RFC3339")
			return
		}
		now = parsed
	}

	appointments, err := h.reminders.ListGrouped(c.Request.Context(), c.Param("nhi"), now)
	if err != nil {
		respondDomainError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"appointments": appointments})
}

func (h *ReminderHandler) HandleGetSettings(c *gin.Context) {
	settings, err := h.reminders.Settings(c.Request.Context(), c.Param("nhi"))
	if err != nil {
		respondDomainError(c, err)
		return
	}

	c.JSON(http.StatusOK, settings)
}

// HandlePutSettings replaces the whole settings document and reconciles the
// patient's live triggers with it.
func (h *ReminderHandler) HandlePutSettings(c *gin.Context) {
	var settings domain.Settings
	if err := c.ShouldBindJSON(&settings); err != nil {
		respondError(c, http.StatusBadRequest, "validation_error", err.Error())
		return
	}

	results, err := h.reminders.ApplySettings(c.Request.Context(), c.Param("nhi"), settings)
	if err != nil {
		respondDomainError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"settings": settings,
		"results":  results,
	})
}

// HandleDailyTip re-arms the patient's daily tip from their stored settings.
func (h *ReminderHandler) HandleDailyTip(c *gin.Context) {
	ctx := c.Request.Context()
	recipient := c.Param("nhi")

	settings, err := h.reminders.Settings(ctx, recipient)
	if err != nil {
		respondDomainError(c, err)
		return
	}

	result, err := h.reminders.ScheduleDailyTip(ctx, recipient, settings)
	if err != nil {
		respondDomainError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}
