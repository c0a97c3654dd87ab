package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"syllabuddy/services/accounts"
)

// AccountsHandler serves signup, login, profile, and logout.
type AccountsHandler struct {
	Accounts *accounts.Service
}

// NewAccountsHandler creates an AccountsHandler.
func NewAccountsHandler(svc *accounts.Service) *AccountsHandler {
	return &AccountsHandler{Accounts: svc}
}

type signupRequest struct {
	Email      string `json:"email"`
	Password   string `json:"password"`
	Username   string `json:"username"`
	University string `json:"university"`
}

// Create registers a new account.
func (h *AccountsHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req signupRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	account, err := h.Accounts.Create(req.Email, req.Password, req.Username, req.University)
	switch {
	case err == nil:
		writeJSON(w, http.StatusCreated, account)
	case errors.Is(err, accounts.ErrEmailExists):
		writeError(w, http.StatusConflict, err.Error())
	case errors.Is(err, accounts.ErrEmailRequired),
		errors.Is(err, accounts.ErrPasswordRequired),
		errors.Is(err, accounts.ErrUsernameRequired):
		writeError(w, http.StatusBadRequest, err.Error())
	default:
		writeError(w, http.StatusInternalServerError, "failed to create account")
	}
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Login verifies credentials and returns the account document.
func (h *AccountsHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	account, err := h.Accounts.Authenticate(req.Email, req.Password)
	if err != nil {
		writeError(w, http.StatusUnauthorized, accounts.ErrInvalidCredentials.Error())
		return
	}
	writeJSON(w, http.StatusOK, account)
}

// Get returns one account document.
func (h *AccountsHandler) Get(w http.ResponseWriter, r *http.Request) {
	accountID, ok := requireAccountID(w, r)
	if !ok {
		return
	}
	account, err := h.Accounts.Get(accountID)
	if err != nil {
		writeError(w, http.StatusNotFound, accounts.ErrAccountNotFound.Error())
		return
	}
	writeJSON(w, http.StatusOK, account)
}

type profileRequest struct {
	Username   string `json:"username"`
	University string `json:"university"`
}

// UpdateProfile changes username and university.
func (h *AccountsHandler) UpdateProfile(w http.ResponseWriter, r *http.Request) {
	accountID, ok := requireAccountID(w, r)
	if !ok {
		return
	}
	var req profileRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	switch err := h.Accounts.UpdateProfile(accountID, req.Username, req.University); {
	case err == nil:
		writeJSON(w, http.StatusOK, map[string]string{"status": "updated"})
	case errors.Is(err, accounts.ErrUsernameRequired):
		writeError(w, http.StatusBadRequest, err.Error())
	default:
		writeError(w, http.StatusNotFound, accounts.ErrAccountNotFound.Error())
	}
}

// Logout clears the account's notified history.
func (h *AccountsHandler) Logout(w http.ResponseWriter, r *http.Request) {
	accountID, ok := requireAccountID(w, r)
	if !ok {
		return
	}
	if err := h.Accounts.Logout(accountID); err != nil {
		writeError(w, http.StatusInternalServerError, "failed to clear session state")
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "logged out"})
}
