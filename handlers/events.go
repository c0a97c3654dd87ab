package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"syllabuddy/models"
	"syllabuddy/services/events"
)

// EventsHandler serves the event CRUD endpoints.
type EventsHandler struct {
	Events *events.Service
}

// NewEventsHandler creates an EventsHandler.
func NewEventsHandler(svc *events.Service) *EventsHandler {
	return &EventsHandler{Events: svc}
}

// List returns the account's events. An optional ?date=MM-DD-YYYY query
// narrows the response to the displayed-day projection.
func (h *EventsHandler) List(w http.ResponseWriter, r *http.Request) {
	accountID, ok := requireAccountID(w, r)
	if !ok {
		return
	}

	date := strings.TrimSpace(r.URL.Query().Get("date"))
	var (
		list []models.Event
		err  error
	)
	if date != "" {
		list, err = h.Events.ListByDate(accountID, date)
	} else {
		list, err = h.Events.List(accountID)
	}
	switch {
	case err == nil:
		if list == nil {
			list = []models.Event{}
		}
		writeJSON(w, http.StatusOK, map[string]any{"events": list, "total": len(list)})
	case errors.Is(err, events.ErrAccountNotFound):
		writeError(w, http.StatusNotFound, err.Error())
	default:
		writeError(w, http.StatusBadRequest, err.Error())
	}
}

// Add appends one manually entered event.
func (h *EventsHandler) Add(w http.ResponseWriter, r *http.Request) {
	accountID, ok := requireAccountID(w, r)
	if !ok {
		return
	}
	var event models.Event
	if err := json.NewDecoder(r.Body).Decode(&event); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	switch err := h.Events.Add(accountID, event); {
	case err == nil:
		writeJSON(w, http.StatusCreated, event)
	case errors.Is(err, events.ErrEventExists):
		writeError(w, http.StatusConflict, err.Error())
	case errors.Is(err, events.ErrAccountNotFound):
		writeError(w, http.StatusNotFound, err.Error())
	default:
		writeError(w, http.StatusBadRequest, err.Error())
	}
}

type editRequest struct {
	Original models.Event `json:"original"`
	Title    string       `json:"event"`
	Date     string       `json:"date"`
}

// Edit rewrites a record's title and date.
func (h *EventsHandler) Edit(w http.ResponseWriter, r *http.Request) {
	accountID, ok := requireAccountID(w, r)
	if !ok {
		return
	}
	var req editRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	updated, err := h.Events.Edit(accountID, req.Original, req.Title, req.Date)
	switch {
	case err == nil:
		writeJSON(w, http.StatusOK, updated)
	case errors.Is(err, events.ErrEventExists):
		writeError(w, http.StatusConflict, err.Error())
	case errors.Is(err, events.ErrEventNotFound), errors.Is(err, events.ErrAccountNotFound):
		writeError(w, http.StatusNotFound, err.Error())
	default:
		writeError(w, http.StatusBadRequest, err.Error())
	}
}

// Delete removes one record and its calendar entries.
func (h *EventsHandler) Delete(w http.ResponseWriter, r *http.Request) {
	accountID, ok := requireAccountID(w, r)
	if !ok {
		return
	}
	var event models.Event
	if err := json.NewDecoder(r.Body).Decode(&event); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	switch err := h.Events.Delete(accountID, event); {
	case err == nil:
		writeJSON(w, http.StatusOK, map[string]string{"status": "deleted"})
	case errors.Is(err, events.ErrEventNotFound), errors.Is(err, events.ErrAccountNotFound):
		writeError(w, http.StatusNotFound, err.Error())
	default:
		writeError(w, http.StatusInternalServerError, "failed to delete event")
	}
}
