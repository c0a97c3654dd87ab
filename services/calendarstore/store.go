package calendarstore

import (
	"errors"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"
	"sync"

	ical "github.com/arran4/golang-ical"
	"github.com/google/uuid"
	"github.com/spf13/afero"

	"syllabuddy/models"
	"syllabuddy/utils"
)

// ErrPermissionDenied is returned when the store's authorization level is
// below what the operation requires. Callers surface it instead of
// treating calendar writes as silently successful.
var ErrPermissionDenied = errors.New("calendar access not granted")

// Store keeps one ICS calendar file per account. It plays the role of the
// device calendar: all-day entries created on commit, deleted when the
// matching event record is removed.
type Store struct {
	mu   sync.Mutex
	fs   afero.Fs
	dir  string
	auth models.CalendarAuthorization
}

// New creates a Store rooted at dir on the real filesystem with full access.
func New(dir string) (*Store, error) {
	return NewWithFs(afero.NewOsFs(), dir)
}

// NewWithFs creates a Store over an arbitrary filesystem. Tests use an
// in-memory one.
func NewWithFs(fs afero.Fs, dir string) (*Store, error) {
	if strings.TrimSpace(dir) == "" {
		return nil, errors.New("calendar directory is required")
	}
	if err := fs.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create calendar dir: %w", err)
	}
	return &Store{fs: fs, dir: dir, auth: models.CalendarAuthFull}, nil
}

// Authorization returns the current permission level.
func (s *Store) Authorization() models.CalendarAuthorization {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.auth
}

// SetAuthorization overrides the permission level. Write-only and none
// levels make writes fail with ErrPermissionDenied.
func (s *Store) SetAuthorization(auth models.CalendarAuthorization) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.auth = auth
}

// CreateAllDayEvent adds an all-day entry titled with the event title on
// the given canonical date. The entry ends at the start of the next day.
func (s *Store) CreateAllDayEvent(accountID, title, date string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.auth != models.CalendarAuthFull {
		return ErrPermissionDenied
	}

	start, err := utils.ParseDate(date)
	if err != nil {
		return err
	}

	cal, err := s.loadLocked(accountID)
	if err != nil {
		return err
	}

	ev := cal.AddEvent(uuid.NewString())
	ev.SetSummary(title)
	ev.SetAllDayStartAt(start)
	ev.SetAllDayEndAt(start.AddDate(0, 0, 1))

	return s.saveLocked(accountID, cal)
}

// DeleteEvents removes every entry on the given date whose summary exactly
// equals title. Same-titled entries sharing the day are all removed.
func (s *Store) DeleteEvents(accountID, title, date string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.auth != models.CalendarAuthFull {
		return ErrPermissionDenied
	}

	cal, err := s.loadLocked(accountID)
	if err != nil {
		return err
	}

	removed := 0
	kept := ical.NewCalendar()
	kept.SetMethod(ical.MethodPublish)
	for _, ev := range cal.Events() {
		if eventSummary(ev) == title && eventDate(ev) == date {
			removed++
			continue
		}
		kept.AddVEvent(ev)
	}
	if removed == 0 {
		return nil
	}
	log.Printf("[calendarstore] removed %d entr%s title=%q date=%s", removed, plural(removed), title, date)
	return s.saveLocked(accountID, kept)
}

// EventsOn lists the summaries of entries dated on the given canonical day.
func (s *Store) EventsOn(accountID, date string) ([]string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.auth == models.CalendarAuthNone {
		return nil, ErrPermissionDenied
	}

	cal, err := s.loadLocked(accountID)
	if err != nil {
		return nil, err
	}

	var titles []string
	for _, ev := range cal.Events() {
		if eventDate(ev) == date {
			titles = append(titles, eventSummary(ev))
		}
	}
	return titles, nil
}

func (s *Store) path(accountID string) string {
	return filepath.Join(s.dir, accountID+".ics")
}

func (s *Store) loadLocked(accountID string) (*ical.Calendar, error) {
	f, err := s.fs.Open(s.path(accountID))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			cal := ical.NewCalendar()
			cal.SetMethod(ical.MethodPublish)
			return cal, nil
		}
		return nil, fmt.Errorf("open calendar: %w", err)
	}
	defer f.Close()

	cal, err := ical.ParseCalendar(f)
	if err != nil {
		return nil, fmt.Errorf("parse calendar: %w", err)
	}
	return cal, nil
}

func (s *Store) saveLocked(accountID string, cal *ical.Calendar) error {
	if err := afero.WriteFile(s.fs, s.path(accountID), []byte(cal.Serialize()), 0o644); err != nil {
		return fmt.Errorf("write calendar: %w", err)
	}
	return nil
}

func eventSummary(ev *ical.VEvent) string {
	if p := ev.GetProperty(ical.ComponentPropertySummary); p != nil {
		return p.Value
	}
	return ""
}

// eventDate returns the entry's start date in canonical MM-DD-YYYY form.
func eventDate(ev *ical.VEvent) string {
	if start, err := ev.GetAllDayStartAt(); err == nil {
		return utils.FormatDate(start)
	}
	if start, err := ev.GetStartAt(); err == nil {
		return utils.FormatDate(start)
	}
	return ""
}

func plural(n int) string {
	if n == 1 {
		return "y"
	}
	return "ies"
}
