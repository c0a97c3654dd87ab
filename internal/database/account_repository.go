package database

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"syllabuddy/models"
)

// AccountRepository persists account documents. Events and Classes are
// stored as JSON columns on the account row, document-style, matching the
// one-document-per-account layout the mobile clients expect.
type AccountRepository struct {
	conn *sql.DB
}

// NewAccountRepository creates an AccountRepository.
func NewAccountRepository(conn *sql.DB) *AccountRepository {
	return &AccountRepository{conn: conn}
}

// CreateAccount inserts a new account row.
func (r *AccountRepository) CreateAccount(a *models.Account) error {
	now := time.Now().UTC()
	a.CreatedAt = now
	a.UpdatedAt = now
	if a.Classes == nil {
		a.Classes = []string{}
	}
	if a.Events == nil {
		a.Events = []models.Event{}
	}

	classes, err := json.Marshal(a.Classes)
	if err != nil {
		return fmt.Errorf("marshal classes: %w", err)
	}
	events, err := json.Marshal(a.Events)
	if err != nil {
		return fmt.Errorf("marshal events: %w", err)
	}

	return withBusyRetry("create account", func() error {
		_, err := r.conn.Exec(`
			INSERT INTO accounts (id, email, username, university, password_hash, classes, events, created_at, updated_at)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			a.ID, a.Email, a.Username, a.University, a.PasswordHash,
			string(classes), string(events), a.CreatedAt, a.UpdatedAt,
		)
		if err != nil {
			return fmt.Errorf("insert account: %w", err)
		}
		return nil
	})
}

// GetAccountByEmail returns the account for an email, or nil when no
// account document matches.
func (r *AccountRepository) GetAccountByEmail(email string) (*models.Account, error) {
	row := r.conn.QueryRow(`
		SELECT id, email, username, university, password_hash, classes, events, created_at, updated_at
		FROM accounts WHERE email = ?`, strings.ToLower(strings.TrimSpace(email)))
	return scanAccount(row)
}

// GetAccountByID returns the account for an id, or nil when absent.
func (r *AccountRepository) GetAccountByID(id string) (*models.Account, error) {
	row := r.conn.QueryRow(`
		SELECT id, email, username, university, password_hash, classes, events, created_at, updated_at
		FROM accounts WHERE id = ?`, id)
	return scanAccount(row)
}

// ListAccounts returns all accounts ordered by creation time.
func (r *AccountRepository) ListAccounts() ([]models.Account, error) {
	rows, err := r.conn.Query(`
		SELECT id, email, username, university, password_hash, classes, events, created_at, updated_at
		FROM accounts ORDER BY created_at`)
	if err != nil {
		return nil, fmt.Errorf("list accounts: %w", err)
	}
	defer rows.Close()

	var accounts []models.Account
	for rows.Next() {
		a, err := scanAccountRow(rows.Scan)
		if err != nil {
			return nil, err
		}
		accounts = append(accounts, *a)
	}
	return accounts, rows.Err()
}

// UpdateEvents replaces the account's event array.
func (r *AccountRepository) UpdateEvents(accountID string, events []models.Event) error {
	if events == nil {
		events = []models.Event{}
	}
	payload, err := json.Marshal(events)
	if err != nil {
		return fmt.Errorf("marshal events: %w", err)
	}
	return r.updateColumn(accountID, "events", string(payload))
}

// UpdateClasses replaces the account's class list. Callers maintain the
// grow-only union semantics.
func (r *AccountRepository) UpdateClasses(accountID string, classes []string) error {
	if classes == nil {
		classes = []string{}
	}
	payload, err := json.Marshal(classes)
	if err != nil {
		return fmt.Errorf("marshal classes: %w", err)
	}
	return r.updateColumn(accountID, "classes", string(payload))
}

// UpdateProfile updates the account's username and university.
func (r *AccountRepository) UpdateProfile(accountID, username, university string) error {
	return withBusyRetry("update profile", func() error {
		res, err := r.conn.Exec(
			`UPDATE accounts SET username = ?, university = ?, updated_at = ? WHERE id = ?`,
			username, university, time.Now().UTC(), accountID,
		)
		if err != nil {
			return fmt.Errorf("update profile: %w", err)
		}
		return requireRow(res)
	})
}

func (r *AccountRepository) updateColumn(accountID, column, payload string) error {
	return withBusyRetry("update "+column, func() error {
		// column is a fixed identifier from this file, never user input.
		res, err := r.conn.Exec(
			fmt.Sprintf(`UPDATE accounts SET %s = ?, updated_at = ? WHERE id = ?`, column),
			payload, time.Now().UTC(), accountID,
		)
		if err != nil {
			return fmt.Errorf("update %s: %w", column, err)
		}
		return requireRow(res)
	})
}

// requireRow turns a zero-row update into sql.ErrNoRows so callers can
// distinguish "no matching account document" from success.
func requireRow(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return sql.ErrNoRows
	}
	return nil
}

type scanFunc func(dest ...any) error

func scanAccount(row *sql.Row) (*models.Account, error) {
	a, err := scanAccountRow(row.Scan)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	return a, err
}

func scanAccountRow(scan scanFunc) (*models.Account, error) {
	var a models.Account
	var classes, events string
	err := scan(&a.ID, &a.Email, &a.Username, &a.University, &a.PasswordHash,
		&classes, &events, &a.CreatedAt, &a.UpdatedAt)
	if err != nil {
		return nil, err
	}
	if err := json.Unmarshal([]byte(classes), &a.Classes); err != nil {
		return nil, fmt.Errorf("decode classes: %w", err)
	}
	if err := json.Unmarshal([]byte(events), &a.Events); err != nil {
		return nil, fmt.Errorf("decode events: %w", err)
	}
	return &a, nil
}
