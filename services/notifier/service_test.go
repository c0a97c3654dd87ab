package notifier

import (
	"testing"
	"time"

	"syllabuddy/models"
	"syllabuddy/utils"
)

type memDurableSet struct {
	seen map[string]bool
}

func (m *memDurableSet) Contains(accountID, identifier string) (bool, error) {
	return m.seen[accountID+"/"+identifier], nil
}

func (m *memDurableSet) Add(accountID, identifier string) error {
	m.seen[accountID+"/"+identifier] = true
	return nil
}

func (m *memDurableSet) Clear(accountID string) error {
	for k := range m.seen {
		if len(k) > len(accountID) && k[:len(accountID)+1] == accountID+"/" {
			delete(m.seen, k)
		}
	}
	return nil
}

type stubAccounts struct {
	accounts []models.Account
}

func (s *stubAccounts) ListAccounts() ([]models.Account, error) {
	return s.accounts, nil
}

type stubCalendarReader struct {
	titles map[string][]string
}

func (s *stubCalendarReader) EventsOn(accountID, date string) ([]string, error) {
	return s.titles[accountID], nil
}

func newCheckFixture(accounts []models.Account, titles map[string][]string) (*Service, *LocalNotificationService) {
	local := NewLocalNotificationService()
	tracker := NewTracker(&memDurableSet{seen: make(map[string]bool)}, local)
	svc := NewService(&stubAccounts{accounts: accounts}, &stubCalendarReader{titles: titles}, tracker)
	svc.now = func() time.Time { return time.Date(2025, time.July, 2, 9, 0, 0, 0, time.UTC) }
	return svc, local
}

func TestCheckNotifiesForTodaysMatchedEvents(t *testing.T) {
	today := utils.FormatDate(time.Date(2025, time.July, 2, 0, 0, 0, 0, time.UTC))
	accounts := []models.Account{{
		ID: "acct-1",
		Events: []models.Event{
			{Date: today, Title: "Midterm Exam", Class: "CS 371L"},
			{Date: "09-01-2025", Title: "Final Project", Class: "CS 371L"},
		},
	}}
	titles := map[string][]string{"acct-1": {"Midterm Exam", "Dentist"}}

	svc, local := newCheckFixture(accounts, titles)
	if err := svc.Check(); err != nil {
		t.Fatalf("check returned error: %v", err)
	}

	drained := local.Drain()
	if len(drained) != 1 {
		t.Fatalf("expected 1 notification, got %d", len(drained))
	}
	n := drained[0]
	if n.Identifier != Identifier("Midterm Exam", today) {
		t.Fatalf("unexpected identifier %q", n.Identifier)
	}
	if n.Title != "Event Today" || n.Body != "Midterm Exam is scheduled for today." {
		t.Fatalf("unexpected notification content: %+v", n)
	}
}

func TestCheckMatchesTitlesCaseInsensitively(t *testing.T) {
	today := utils.FormatDate(time.Date(2025, time.July, 2, 0, 0, 0, 0, time.UTC))
	accounts := []models.Account{{
		ID:     "acct-1",
		Events: []models.Event{{Date: today, Title: "midterm exam", Class: "CS 371L"}},
	}}
	titles := map[string][]string{"acct-1": {"  Midterm Exam  "}}

	svc, local := newCheckFixture(accounts, titles)
	if err := svc.Check(); err != nil {
		t.Fatalf("check returned error: %v", err)
	}
	if drained := local.Drain(); len(drained) != 1 {
		t.Fatalf("expected case-insensitive match to notify, got %d", len(drained))
	}
}

func TestCheckIsIdempotentAcrossCycles(t *testing.T) {
	today := utils.FormatDate(time.Date(2025, time.July, 2, 0, 0, 0, 0, time.UTC))
	accounts := []models.Account{{
		ID:     "acct-1",
		Events: []models.Event{{Date: today, Title: "Midterm Exam", Class: "CS 371L"}},
	}}
	titles := map[string][]string{"acct-1": {"Midterm Exam"}}

	svc, local := newCheckFixture(accounts, titles)
	for range 3 {
		if err := svc.Check(); err != nil {
			t.Fatalf("check returned error: %v", err)
		}
	}
	if drained := local.Drain(); len(drained) != 1 {
		t.Fatalf("expected one notification across cycles, got %d", len(drained))
	}
}

func TestCheckSkipsAccountsWithNothingToday(t *testing.T) {
	accounts := []models.Account{{
		ID:     "acct-1",
		Events: []models.Event{{Date: "12-12-2025", Title: "Final Exam", Class: "CS 371L"}},
	}}
	titles := map[string][]string{"acct-1": {"Final Exam"}}

	svc, local := newCheckFixture(accounts, titles)
	if err := svc.Check(); err != nil {
		t.Fatalf("check returned error: %v", err)
	}
	if drained := local.Drain(); len(drained) != 0 {
		t.Fatalf("expected no notifications, got %d", len(drained))
	}
}

func TestClearAccountAllowsRenotification(t *testing.T) {
	today := utils.FormatDate(time.Date(2025, time.July, 2, 0, 0, 0, 0, time.UTC))
	accounts := []models.Account{{
		ID:     "acct-1",
		Events: []models.Event{{Date: today, Title: "Midterm Exam", Class: "CS 371L"}},
	}}
	titles := map[string][]string{"acct-1": {"Midterm Exam"}}

	svc, local := newCheckFixture(accounts, titles)
	if err := svc.Check(); err != nil {
		t.Fatalf("check returned error: %v", err)
	}
	local.Drain()

	if err := svc.ClearAccount("acct-1"); err != nil {
		t.Fatalf("clear returned error: %v", err)
	}
	if err := svc.Check(); err != nil {
		t.Fatalf("check after clear returned error: %v", err)
	}
	if drained := local.Drain(); len(drained) != 1 {
		t.Fatalf("expected renotification after clear, got %d", len(drained))
	}
}
