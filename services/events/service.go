package events

import (
	"errors"
	"fmt"
	"log"
	"strings"
	"sync"

	"syllabuddy/models"
	"syllabuddy/utils"
)

var (
	ErrAccountNotFound = errors.New("account not found")
	ErrMissingField    = errors.New("class, event, and date are all required")
	ErrEventExists     = errors.New("an identical event already exists")
	ErrEventNotFound   = errors.New("event not found")
)

// AccountStore is the slice of the document store the event service needs.
type AccountStore interface {
	GetAccountByID(id string) (*models.Account, error)
	UpdateEvents(accountID string, events []models.Event) error
	UpdateClasses(accountID string, classes []string) error
}

// CalendarStore mirrors event record changes into the device calendar.
type CalendarStore interface {
	CreateAllDayEvent(accountID, title, date string) error
	DeleteEvents(accountID, title, date string) error
}

// Service owns every mutation of an account's event set. All writes for
// one account funnel through a per-account lock, so concurrent add/delete
// cycles cannot interleave their read-modify-write against the store.
type Service struct {
	store    AccountStore
	calendar CalendarStore

	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

// NewService creates an event service. calendar may be nil when calendar
// sync is disabled.
func NewService(store AccountStore, calendar CalendarStore) *Service {
	return &Service{
		store:    store,
		calendar: calendar,
		locks:    make(map[string]*sync.Mutex),
	}
}

// accountLock returns the mutex serializing one account's mutations.
func (s *Service) accountLock(accountID string) *sync.Mutex {
	s.mu.Lock()
	defer s.mu.Unlock()
	l, ok := s.locks[accountID]
	if !ok {
		l = &sync.Mutex{}
		s.locks[accountID] = l
	}
	return l
}

// List returns the account's full event set.
func (s *Service) List(accountID string) ([]models.Event, error) {
	account, err := s.store.GetAccountByID(accountID)
	if err != nil {
		return nil, err
	}
	if account == nil {
		return nil, ErrAccountNotFound
	}
	return account.Events, nil
}

// ListByDate returns the read-only date projection of the full set.
func (s *Service) ListByDate(accountID, date string) ([]models.Event, error) {
	if _, err := utils.ParseDate(date); err != nil {
		return nil, err
	}
	all, err := s.List(accountID)
	if err != nil {
		return nil, err
	}
	return models.FilterEventsByDate(all, date), nil
}

// Add validates and appends a single event. An identical triple is
// rejected with ErrEventExists before any writes happen. The event's class
// joins the account's grow-only class union.
func (s *Service) Add(accountID string, event models.Event) error {
	if err := validate(event); err != nil {
		return err
	}

	lock := s.accountLock(accountID)
	lock.Lock()
	defer lock.Unlock()

	account, err := s.store.GetAccountByID(accountID)
	if err != nil {
		return err
	}
	if account == nil {
		return ErrAccountNotFound
	}
	if models.ContainsEvent(account.Events, event) {
		return ErrEventExists
	}

	if err := s.store.UpdateEvents(accountID, append(account.Events, event)); err != nil {
		return err
	}
	return s.unionClass(account, event.Class)
}

// AddEvents merges a batch into the account's set, skipping duplicates
// silently, and returns the records actually appended. Used by the
// ingestion pipeline, where a re-uploaded syllabus must be a no-op.
func (s *Service) AddEvents(accountID string, batch []models.Event) ([]models.Event, error) {
	lock := s.accountLock(accountID)
	lock.Lock()
	defer lock.Unlock()

	account, err := s.store.GetAccountByID(accountID)
	if err != nil {
		return nil, err
	}
	if account == nil {
		return nil, ErrAccountNotFound
	}

	merged := account.Events
	var added []models.Event
	for _, e := range batch {
		if err := validate(e); err != nil {
			return nil, fmt.Errorf("invalid record %q: %w", e.Title, err)
		}
		if models.ContainsEvent(merged, e) {
			continue
		}
		merged = append(merged, e)
		added = append(added, e)
	}
	if len(added) == 0 {
		return nil, nil
	}

	if err := s.store.UpdateEvents(accountID, merged); err != nil {
		return nil, err
	}

	classes := account.Classes
	for _, e := range added {
		if !containsString(classes, e.Class) {
			classes = append(classes, e.Class)
		}
	}
	if len(classes) != len(account.Classes) {
		if err := s.store.UpdateClasses(accountID, classes); err != nil {
			return nil, err
		}
	}

	log.Printf("[events] account=%s merged %d new record(s), %d duplicate(s) skipped",
		accountID, len(added), len(batch)-len(added))
	return added, nil
}

// Edit replaces a record's title and date in place. The updated triple is
// re-checked against the rest of the set, so an edit cannot silently
// produce a duplicate.
func (s *Service) Edit(accountID string, original models.Event, newTitle, newDate string) (models.Event, error) {
	updated := models.Event{Date: newDate, Title: newTitle, Class: original.Class}
	if err := validate(updated); err != nil {
		return models.Event{}, err
	}

	lock := s.accountLock(accountID)
	lock.Lock()
	defer lock.Unlock()

	account, err := s.store.GetAccountByID(accountID)
	if err != nil {
		return models.Event{}, err
	}
	if account == nil {
		return models.Event{}, ErrAccountNotFound
	}

	idx := indexOf(account.Events, original)
	if idx < 0 {
		return models.Event{}, ErrEventNotFound
	}
	for i, e := range account.Events {
		if i != idx && e.Equal(updated) {
			return models.Event{}, ErrEventExists
		}
	}

	account.Events[idx] = updated
	if err := s.store.UpdateEvents(accountID, account.Events); err != nil {
		return models.Event{}, err
	}

	// The calendar follows the record: the original's entries go away and
	// the updated record gets a fresh one.
	if s.calendar != nil {
		if err := s.calendar.DeleteEvents(accountID, original.Title, original.Date); err != nil {
			log.Printf("[events] calendar cleanup after edit failed: %v", err)
		}
		if err := s.calendar.CreateAllDayEvent(accountID, updated.Title, updated.Date); err != nil {
			log.Printf("[events] calendar create after edit failed title=%q date=%s: %v", updated.Title, updated.Date, err)
		}
	}
	return updated, nil
}

// Delete removes a record from the set and the store, then asks the
// calendar to drop any same-titled entries on that date.
func (s *Service) Delete(accountID string, event models.Event) error {
	lock := s.accountLock(accountID)
	lock.Lock()
	defer lock.Unlock()

	account, err := s.store.GetAccountByID(accountID)
	if err != nil {
		return err
	}
	if account == nil {
		return ErrAccountNotFound
	}

	idx := indexOf(account.Events, event)
	if idx < 0 {
		return ErrEventNotFound
	}

	remaining := append(account.Events[:idx:idx], account.Events[idx+1:]...)
	if err := s.store.UpdateEvents(accountID, remaining); err != nil {
		return err
	}

	if s.calendar != nil {
		if err := s.calendar.DeleteEvents(accountID, event.Title, event.Date); err != nil {
			log.Printf("[events] calendar delete failed title=%q date=%s: %v", event.Title, event.Date, err)
		}
	}
	return nil
}

func (s *Service) unionClass(account *models.Account, class string) error {
	if account.HasClass(class) {
		return nil
	}
	return s.store.UpdateClasses(account.ID, append(account.Classes, class))
}

// validate applies the input rules shared by every mutation: all three
// fields present and the date in canonical parseable form.
func validate(e models.Event) error {
	if strings.TrimSpace(e.Class) == "" ||
		strings.TrimSpace(e.Title) == "" ||
		strings.TrimSpace(e.Date) == "" {
		return ErrMissingField
	}
	if _, err := utils.ParseDate(e.Date); err != nil {
		return err
	}
	return nil
}

func indexOf(events []models.Event, target models.Event) int {
	for i, e := range events {
		if e.Equal(target) {
			return i
		}
	}
	return -1
}

func containsString(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}
