package models

import "time"

// Account is one user's document in the store, keyed by email. Events and
// Classes live as array fields on the account document, mirroring the mobile
// app's one-document-per-account layout.
type Account struct {
	ID           string    `json:"id"`
	Email        string    `json:"email"`
	Username     string    `json:"username"`
	PasswordHash string    `json:"-"` // bcrypt hash, excluded from JSON
	University   string    `json:"university"`
	Classes      []string  `json:"classes"`
	Events       []Event   `json:"events"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

// HasClass reports whether the account already lists the given class.
// Classes is a grow-only union; callers use this before appending.
func (a Account) HasClass(class string) bool {
	for _, c := range a.Classes {
		if c == class {
			return true
		}
	}
	return false
}
