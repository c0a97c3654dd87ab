package handlers

import (
	"net/http"

	"syllabuddy/models"
	"syllabuddy/services/notifier"
)

// NotificationsHandler exposes the notification check and the pending
// queue clients poll for deliveries.
type NotificationsHandler struct {
	Notifier *notifier.Service
	Local    *notifier.LocalNotificationService
}

// NewNotificationsHandler creates a NotificationsHandler.
func NewNotificationsHandler(svc *notifier.Service, local *notifier.LocalNotificationService) *NotificationsHandler {
	return &NotificationsHandler{Notifier: svc, Local: local}
}

// Check runs the today-check over every account.
func (h *NotificationsHandler) Check(w http.ResponseWriter, r *http.Request) {
	if err := h.Notifier.Check(); err != nil {
		writeError(w, http.StatusInternalServerError, "notification check failed")
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "checked"})
}

// Pending drains and returns the queued notifications.
func (h *NotificationsHandler) Pending(w http.ResponseWriter, r *http.Request) {
	drained := h.Local.Drain()
	if drained == nil {
		drained = []models.NotificationRequest{}
	}
	writeJSON(w, http.StatusOK, map[string]any{"notifications": drained, "total": len(drained)})
}
