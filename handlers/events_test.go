package handlers_test

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gorilla/mux"

	"syllabuddy/handlers"
	"syllabuddy/models"
	"syllabuddy/services/events"
)

type memAccountStore struct {
	account *models.Account
}

func (s *memAccountStore) GetAccountByID(id string) (*models.Account, error) {
	if s.account == nil || s.account.ID != id {
		return nil, nil
	}
	copied := *s.account
	copied.Events = append([]models.Event(nil), s.account.Events...)
	return &copied, nil
}

func (s *memAccountStore) UpdateEvents(accountID string, events []models.Event) error {
	s.account.Events = events
	return nil
}

func (s *memAccountStore) UpdateClasses(accountID string, classes []string) error {
	s.account.Classes = classes
	return nil
}

func newEventsRouter(store *memAccountStore) *mux.Router {
	h := handlers.NewEventsHandler(events.NewService(store, nil))
	r := mux.NewRouter()
	r.HandleFunc("/accounts/{accountID}/events", h.List).Methods(http.MethodGet)
	r.HandleFunc("/accounts/{accountID}/events", h.Add).Methods(http.MethodPost)
	r.HandleFunc("/accounts/{accountID}/events", h.Delete).Methods(http.MethodDelete)
	return r
}

func TestEventsEndpointAddListDelete(t *testing.T) {
	store := &memAccountStore{account: &models.Account{ID: "acct-1"}}
	router := newEventsRouter(store)

	event := models.Event{Date: "06-13-2025", Title: "Project 1 Due", Class: "CS 371L"}
	body, _ := json.Marshal(event)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/accounts/acct-1/events", bytes.NewReader(body)))
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
	}

	// Identical add conflicts.
	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/accounts/acct-1/events", bytes.NewReader(body)))
	if rec.Code != http.StatusConflict {
		t.Fatalf("expected 409 on duplicate, got %d", rec.Code)
	}

	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/accounts/acct-1/events", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	var listResp struct {
		Events []models.Event `json:"events"`
		Total  int            `json:"total"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &listResp); err != nil {
		t.Fatalf("decode list response: %v", err)
	}
	if listResp.Total != 1 || !listResp.Events[0].Equal(event) {
		t.Fatalf("unexpected list response: %+v", listResp)
	}

	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodDelete, "/accounts/acct-1/events", bytes.NewReader(body)))
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200 on delete, got %d: %s", rec.Code, rec.Body.String())
	}
	if len(store.account.Events) != 0 {
		t.Fatalf("expected empty event set, got %+v", store.account.Events)
	}
}

func TestEventsEndpointDateFilter(t *testing.T) {
	store := &memAccountStore{account: &models.Account{ID: "acct-1", Events: []models.Event{
		{Date: "06-13-2025", Title: "Project 1 Due", Class: "CS 371L"},
		{Date: "07-02-2025", Title: "Midterm Exam", Class: "CS 371L"},
	}}}
	router := newEventsRouter(store)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/accounts/acct-1/events?date=07-02-2025", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	var resp struct {
		Events []models.Event `json:"events"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if len(resp.Events) != 1 || resp.Events[0].Title != "Midterm Exam" {
		t.Fatalf("unexpected filtered events: %+v", resp.Events)
	}

	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/accounts/acct-1/events?date=July+2", nil))
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for bad date, got %d", rec.Code)
	}
}

func TestEventsEndpointUnknownAccount(t *testing.T) {
	store := &memAccountStore{account: &models.Account{ID: "acct-1"}}
	router := newEventsRouter(store)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/accounts/ghost/events", nil))
	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", rec.Code)
	}
}
