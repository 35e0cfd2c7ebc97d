package handler

import "github.com/gin-gonic/gin"

type Handlers struct {
	Reminder *ReminderHandler
	// Access is nil when no account service is configured.
	Access *AccessHandler
	Fire   *FireHandler
}

// RegisterRoutes mounts the API under /api/v1.
func RegisterRoutes(r gin.IRouter, h Handlers) {
	v1 := r.Group("/api/v1")

	if h.Reminder != nil {
		v1.POST("/appointments/resolve", h.Reminder.HandleResolve)
		v1.PUT("/appointments/:id/reminders/:tier", h.Reminder.HandleToggleTier)
		v1.POST("/appointments/:id/reminders/sync", h.Reminder.HandleSync)

		v1.GET("/patients/:nhi/reminders", h.Reminder.HandleListReminders)
		v1.GET("/patients/:nhi/settings", h.Reminder.HandleGetSettings)
		v1.PUT("/patients/:nhi/settings", h.Reminder.HandlePutSettings)
		v1.POST("/patients/:nhi/daily-tip", h.Reminder.HandleDailyTip)
	}

	if h.Access != nil {
		v1.POST("/access/start", h.Access.HandleStart)
		v1.POST("/access/stop", h.Access.HandleStop)
		v1.GET("/access/state", h.Access.HandleState)
		v1.GET("/access/:subject/check", h.Access.HandleCheck)
	}

	if h.Fire != nil {
		v1.POST("/internal/reminders/fire", h.Fire.HandleFire)
	}
}
