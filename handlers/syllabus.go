package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"syllabuddy/models"
	"syllabuddy/services/events"
	"syllabuddy/services/extraction"
)

// SyllabusHandler serves the two-phase syllabus ingestion flow: an
// ingest call that returns a proposal for user review, and a commit
// call that persists the approved records.
type SyllabusHandler struct {
	Pipeline *extraction.Pipeline
}

// NewSyllabusHandler creates a SyllabusHandler.
func NewSyllabusHandler(pipeline *extraction.Pipeline) *SyllabusHandler {
	return &SyllabusHandler{Pipeline: pipeline}
}

type ingestRequest struct {
	Text         string `json:"text"`
	DefaultClass string `json:"defaultClass"`
}

// Ingest extracts candidate events from raw syllabus text.
func (h *SyllabusHandler) Ingest(w http.ResponseWriter, r *http.Request) {
	var req ingestRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if strings.TrimSpace(req.Text) == "" {
		writeError(w, http.StatusBadRequest, "text is required")
		return
	}

	proposal, err := h.Pipeline.Ingest(r.Context(), req.Text, req.DefaultClass)
	switch {
	case err == nil:
		writeJSON(w, http.StatusOK, proposal)
	case errors.Is(err, extraction.ErrNoEvents):
		writeJSON(w, http.StatusOK, map[string]any{
			"events":  []models.Event{},
			"message": "no events found in syllabus",
		})
	default:
		writeError(w, http.StatusBadGateway, "extraction failed")
	}
}

type commitRequest struct {
	Events []models.Event `json:"events"`
}

// Commit persists the user-approved subset of a proposal.
func (h *SyllabusHandler) Commit(w http.ResponseWriter, r *http.Request) {
	accountID, ok := requireAccountID(w, r)
	if !ok {
		return
	}
	var req commitRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	result, err := h.Pipeline.Commit(r.Context(), accountID, req.Events)
	switch {
	case err == nil:
		writeJSON(w, http.StatusOK, result)
	case errors.Is(err, events.ErrAccountNotFound):
		writeError(w, http.StatusNotFound, err.Error())
	default:
		writeError(w, http.StatusInternalServerError, "failed to commit events")
	}
}
