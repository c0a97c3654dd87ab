package notifier

import (
	"log"
	"strings"
	"time"

	"github.com/sourcegraph/conc"

	"syllabuddy/models"
	"syllabuddy/utils"
)

// AccountLister provides every account with its event set.
type AccountLister interface {
	ListAccounts() ([]models.Account, error)
}

// CalendarReader lists the device calendar's entry titles for one day.
type CalendarReader interface {
	EventsOn(accountID, date string) ([]string, error)
}

// Service runs the reactive "what needs a notification today" check. There
// is no timer: checks fire when a client reloads its data or comes to the
// foreground and hits the check endpoint.
type Service struct {
	accounts AccountLister
	calendar CalendarReader
	tracker  *Tracker
	now      func() time.Time
}

// NewService creates a notifier service.
func NewService(accounts AccountLister, calendar CalendarReader, tracker *Tracker) *Service {
	return &Service{
		accounts: accounts,
		calendar: calendar,
		tracker:  tracker,
		now:      time.Now,
	}
}

// Check walks every account and schedules notifications for today's
// events, once each. Accounts are checked concurrently; one account's
// failure never blocks the others.
func (s *Service) Check() error {
	accounts, err := s.accounts.ListAccounts()
	if err != nil {
		return err
	}

	var wg conc.WaitGroup
	for _, account := range accounts {
		wg.Go(func() {
			if err := s.checkAccount(account); err != nil {
				log.Printf("[notifier] check failed account=%s: %v", account.ID, err)
			}
		})
	}
	wg.Wait()
	return nil
}

// checkAccount matches the device calendar's entries for today against the
// account's stored events and notifies for each match not yet seen.
// Calendar titles are matched case-insensitively after trimming; date
// equality is implied since both sides are constrained to today.
func (s *Service) checkAccount(account models.Account) error {
	today := utils.FormatDate(s.now())

	todays := models.FilterEventsByDate(account.Events, today)
	if len(todays) == 0 {
		return nil
	}
	stored := make(map[string]bool, len(todays))
	for _, e := range todays {
		stored[normalizeTitle(e.Title)] = true
	}

	calendarTitles, err := s.calendar.EventsOn(account.ID, today)
	if err != nil {
		return err
	}

	for _, title := range calendarTitles {
		if !stored[normalizeTitle(title)] {
			continue
		}
		req := models.NotificationRequest{
			Identifier: Identifier(title, today),
			Title:      "Event Today",
			Body:       title + " is scheduled for today.",
		}
		if err := s.tracker.Notify(account.ID, req); err != nil {
			log.Printf("[notifier] notify failed identifier=%s: %v", req.Identifier, err)
		}
	}
	return nil
}

// ClearAccount forgets an account's notified history on logout.
func (s *Service) ClearAccount(accountID string) error {
	return s.tracker.Clear(accountID)
}

func normalizeTitle(title string) string {
	return strings.ToLower(strings.TrimSpace(title))
}
