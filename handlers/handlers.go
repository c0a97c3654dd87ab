package handlers

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/gorilla/mux"
)

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(payload)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

// requireAccountID pulls the accountID path variable, rejecting blanks.
func requireAccountID(w http.ResponseWriter, r *http.Request) (string, bool) {
	accountID := strings.TrimSpace(mux.Vars(r)["accountID"])
	if accountID == "" {
		writeError(w, http.StatusBadRequest, "account id is required")
		return "", false
	}
	return accountID, true
}
