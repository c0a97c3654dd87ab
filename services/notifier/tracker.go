package notifier

import (
	"fmt"
	"strings"

	"syllabuddy/models"
)

// DurableSet is the persisted "already notified" identifier set for an
// account. It is cleared in full on logout, never per identifier.
type DurableSet interface {
	Contains(accountID, identifier string) (bool, error)
	Add(accountID, identifier string) error
	Clear(accountID string) error
}

// NotificationService is the OS-facing notification scheduler.
type NotificationService interface {
	PendingIdentifiers() ([]string, error)
	Schedule(req models.NotificationRequest) error
}

// Identifier derives the dedup key for an event notification:
// lowercase-trimmed title joined with the canonical date.
func Identifier(title, date string) string {
	return strings.ToLower(strings.TrimSpace(title)) + "_" + date
}

// Tracker decides which notifications are new and fires them exactly once.
// Its lifetime is tied to the active session; logout resets it through
// the durable set.
type Tracker struct {
	durable       DurableSet
	notifications NotificationService
}

// NewTracker creates a Tracker.
func NewTracker(durable DurableSet, notifications NotificationService) *Tracker {
	return &Tracker{durable: durable, notifications: notifications}
}

// ShouldNotify reports whether a notification with this identifier still
// needs to fire. Both the durable set and the pending OS queue are
// consulted: the two can desynchronize after reinstalls or deliveries,
// and presence in either one suppresses the notification.
func (t *Tracker) ShouldNotify(accountID, identifier string) (bool, error) {
	notified, err := t.durable.Contains(accountID, identifier)
	if err != nil {
		return false, fmt.Errorf("check durable set: %w", err)
	}
	if notified {
		return false, nil
	}

	pending, err := t.notifications.PendingIdentifiers()
	if err != nil {
		return false, fmt.Errorf("check pending queue: %w", err)
	}
	for _, p := range pending {
		if p == identifier {
			return false, nil
		}
	}
	return true, nil
}

// Notify schedules the notification and records the identifier. When
// scheduling fails the identifier is NOT marked, so the event stays
// eligible for the next check cycle.
func (t *Tracker) Notify(accountID string, req models.NotificationRequest) error {
	ok, err := t.ShouldNotify(accountID, req.Identifier)
	if err != nil {
		return err
	}
	if !ok {
		return nil
	}

	if err := t.notifications.Schedule(req); err != nil {
		return fmt.Errorf("schedule notification: %w", err)
	}
	return t.durable.Add(accountID, req.Identifier)
}

// Clear forgets the account's entire notified history. Called on logout.
func (t *Tracker) Clear(accountID string) error {
	return t.durable.Clear(accountID)
}
