package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/gorilla/mux"

	"syllabuddy/models"
	"syllabuddy/services/threads"
)

// ThreadsHandler serves the class discussion board.
type ThreadsHandler struct {
	Threads *threads.Service
}

// NewThreadsHandler creates a ThreadsHandler.
func NewThreadsHandler(svc *threads.Service) *ThreadsHandler {
	return &ThreadsHandler{Threads: svc}
}

// List returns a university's threads, newest first.
func (h *ThreadsHandler) List(w http.ResponseWriter, r *http.Request) {
	university := strings.TrimSpace(r.URL.Query().Get("university"))
	if university == "" {
		writeError(w, http.StatusBadRequest, "university is required")
		return
	}

	list, err := h.Threads.ListByUniversity(university)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to list threads")
		return
	}
	if list == nil {
		list = []models.Thread{}
	}
	writeJSON(w, http.StatusOK, map[string]any{"threads": list, "total": len(list)})
}

type createThreadRequest struct {
	Class      string `json:"class"`
	Title      string `json:"title"`
	University string `json:"university"`
	Username   string `json:"username"`
	Message    string `json:"message"`
}

// Create starts a thread with its first post.
func (h *ThreadsHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req createThreadRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	thread, err := h.Threads.Create(req.Class, req.Title, req.University, req.Username, req.Message)
	switch {
	case err == nil:
		writeJSON(w, http.StatusCreated, thread)
	case errors.Is(err, threads.ErrTitleRequired),
		errors.Is(err, threads.ErrClassRequired),
		errors.Is(err, threads.ErrMessageRequired):
		writeError(w, http.StatusBadRequest, err.Error())
	default:
		writeError(w, http.StatusInternalServerError, "failed to create thread")
	}
}

// Get returns one thread with its posts.
func (h *ThreadsHandler) Get(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["threadID"]

	thread, err := h.Threads.Get(id)
	switch {
	case err == nil:
		writeJSON(w, http.StatusOK, thread)
	case errors.Is(err, threads.ErrThreadNotFound):
		writeError(w, http.StatusNotFound, err.Error())
	default:
		writeError(w, http.StatusInternalServerError, "failed to load thread")
	}
}

type replyRequest struct {
	Username string `json:"username"`
	Message  string `json:"message"`
}

// Reply appends a post to a thread.
func (h *ThreadsHandler) Reply(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["threadID"]
	var req replyRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	post, err := h.Threads.Reply(id, req.Username, req.Message)
	switch {
	case err == nil:
		writeJSON(w, http.StatusCreated, post)
	case errors.Is(err, threads.ErrMessageRequired):
		writeError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, threads.ErrThreadNotFound):
		writeError(w, http.StatusNotFound, err.Error())
	default:
		writeError(w, http.StatusInternalServerError, "failed to add reply")
	}
}
