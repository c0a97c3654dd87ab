package accounts

import (
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"syllabuddy/models"
)

var (
	ErrEmailRequired      = errors.New("email is required")
	ErrPasswordRequired   = errors.New("password is required")
	ErrUsernameRequired   = errors.New("username is required")
	ErrAccountNotFound    = errors.New("account not found")
	ErrEmailExists        = errors.New("an account with this email already exists")
	ErrInvalidCredentials = errors.New("invalid email or password")
)

// Store is the account slice of the document store.
type Store interface {
	CreateAccount(a *models.Account) error
	GetAccountByEmail(email string) (*models.Account, error)
	GetAccountByID(id string) (*models.Account, error)
	ListAccounts() ([]models.Account, error)
	UpdateProfile(accountID, username, university string) error
}

// NotifiedClearer resets the durable notified set when a session ends.
type NotifiedClearer interface {
	ClearAccount(accountID string) error
}

// Service manages account registration and profile updates. Emails are
// normalized to lowercase; the store enforces at most one document per
// email.
type Service struct {
	store    Store
	notified NotifiedClearer
}

// NewService creates an accounts service.
func NewService(store Store, notified NotifiedClearer) *Service {
	return &Service{store: store, notified: notified}
}

// Create registers a new account.
func (s *Service) Create(email, password, username, university string) (*models.Account, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" {
		return nil, ErrEmailRequired
	}
	password = strings.TrimSpace(password)
	if password == "" {
		return nil, ErrPasswordRequired
	}
	username = strings.TrimSpace(username)
	if username == "" {
		return nil, ErrUsernameRequired
	}

	existing, err := s.store.GetAccountByEmail(email)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, ErrEmailExists
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	account := &models.Account{
		ID:           uuid.NewString(),
		Email:        email,
		Username:     username,
		University:   strings.TrimSpace(university),
		PasswordHash: string(hash),
		Classes:      []string{},
		Events:       []models.Event{},
	}
	if err := s.store.CreateAccount(account); err != nil {
		return nil, err
	}
	return account, nil
}

// Authenticate verifies credentials and returns the account.
func (s *Service) Authenticate(email, password string) (*models.Account, error) {
	account, err := s.store.GetAccountByEmail(email)
	if err != nil {
		return nil, err
	}
	if account == nil {
		return nil, ErrInvalidCredentials
	}
	if bcrypt.CompareHashAndPassword([]byte(account.PasswordHash), []byte(strings.TrimSpace(password))) != nil {
		return nil, ErrInvalidCredentials
	}
	return account, nil
}

// Get returns the account for an id.
func (s *Service) Get(id string) (*models.Account, error) {
	account, err := s.store.GetAccountByID(id)
	if err != nil {
		return nil, err
	}
	if account == nil {
		return nil, ErrAccountNotFound
	}
	return account, nil
}

// GetByEmail returns the account document matching an email.
func (s *Service) GetByEmail(email string) (*models.Account, error) {
	account, err := s.store.GetAccountByEmail(email)
	if err != nil {
		return nil, err
	}
	if account == nil {
		return nil, ErrAccountNotFound
	}
	return account, nil
}

// Exists reports whether an account id is registered.
func (s *Service) Exists(id string) bool {
	account, err := s.store.GetAccountByID(id)
	return err == nil && account != nil
}

// UpdateProfile changes the account's username and university.
func (s *Service) UpdateProfile(accountID, username, university string) error {
	username = strings.TrimSpace(username)
	if username == "" {
		return ErrUsernameRequired
	}
	if err := s.store.UpdateProfile(accountID, username, strings.TrimSpace(university)); err != nil {
		return ErrAccountNotFound
	}
	return nil
}

// Logout ends the account's session: the durable notified history is
// forgotten in full, so a later login starts with a clean slate.
func (s *Service) Logout(accountID string) error {
	if s.notified == nil {
		return nil
	}
	return s.notified.ClearAccount(accountID)
}
