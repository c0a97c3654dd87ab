package database

import (
	"database/sql"
	"fmt"
	"time"
)

// NotifiedRepository persists the durable "already notified" identifier set,
// keyed per account. Identifiers are lowercase-trimmed title + "_" + date.
type NotifiedRepository struct {
	conn *sql.DB
}

// NewNotifiedRepository creates a NotifiedRepository.
func NewNotifiedRepository(conn *sql.DB) *NotifiedRepository {
	return &NotifiedRepository{conn: conn}
}

// Contains reports whether the identifier is already in the account's set.
func (r *NotifiedRepository) Contains(accountID, identifier string) (bool, error) {
	var one int
	err := r.conn.QueryRow(
		`SELECT 1 FROM notified_events WHERE account_id = ? AND identifier = ?`,
		accountID, identifier,
	).Scan(&one)
	if err == sql.ErrNoRows {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("lookup notified identifier: %w", err)
	}
	return true, nil
}

// Add records an identifier. Adding an identifier that is already present
// is a no-op, keeping the at-most-once invariant.
func (r *NotifiedRepository) Add(accountID, identifier string) error {
	return withBusyRetry("add notified identifier", func() error {
		_, err := r.conn.Exec(
			`INSERT OR IGNORE INTO notified_events (account_id, identifier, created_at) VALUES (?, ?, ?)`,
			accountID, identifier, time.Now().UTC(),
		)
		if err != nil {
			return fmt.Errorf("insert notified identifier: %w", err)
		}
		return nil
	})
}

// Clear removes the account's entire notified set. Called on logout; there
// is no per-identifier expiry.
func (r *NotifiedRepository) Clear(accountID string) error {
	return withBusyRetry("clear notified identifiers", func() error {
		_, err := r.conn.Exec(`DELETE FROM notified_events WHERE account_id = ?`, accountID)
		if err != nil {
			return fmt.Errorf("clear notified identifiers: %w", err)
		}
		return nil
	})
}
