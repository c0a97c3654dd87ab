package extraction

import (
	"context"
	"errors"
	"log"
	"strconv"
	"strings"
	"time"

	"syllabuddy/models"
	"syllabuddy/services/calendarstore"
	"syllabuddy/utils"
)

// ErrNoEvents signals that neither the model nor the fallback scanner
// found anything in the document. No side effects have occurred.
var ErrNoEvents = errors.New("no events found in syllabus")

// Source identifies which extractor produced a proposal.
type Source string

const (
	SourceModel    Source = "model"
	SourceFallback Source = "fallback"
)

// Extractor is the model-backed extraction client.
type Extractor interface {
	Extract(ctx context.Context, rawText string) (*models.ExtractionResult, error)
	IsConfigured() bool
}

// FallbackScanner is the regex date scanner.
type FallbackScanner interface {
	Extract(text string) []models.ScannedEvent
}

// EventStore merges approved records into an account's event set,
// returning only the records that were actually appended.
type EventStore interface {
	AddEvents(accountID string, events []models.Event) ([]models.Event, error)
}

// CalendarWriter registers committed events with the device calendar.
type CalendarWriter interface {
	CreateAllDayEvent(accountID, title, date string) error
}

// Proposal is the extraction output awaiting user confirmation.
type Proposal struct {
	Events []models.Event `json:"events"`
	Source Source         `json:"source"`
}

// RecordOutcome reports what happened to one approved record at commit.
type RecordOutcome struct {
	Event          models.Event `json:"event"`
	Added          bool         `json:"added"`
	CalendarStatus string       `json:"calendarStatus,omitempty"` // "created", "permission_denied", "error"
}

// CommitResult summarizes one commit.
type CommitResult struct {
	Outcomes       []RecordOutcome `json:"outcomes"`
	Added          int             `json:"added"`
	Duplicates     int             `json:"duplicates"`
	CalendarDenied bool            `json:"calendarDenied"`
}

// Pipeline orchestrates raw syllabus text into confirmed, persisted,
// calendar-registered events. The tracker state lives with the session
// that owns the pipeline, never in package globals.
type Pipeline struct {
	extractor Extractor
	fallback  FallbackScanner
	events    EventStore
	calendar  CalendarWriter
	now       func() time.Time
}

// NewPipeline wires the pipeline's collaborators.
func NewPipeline(extractor Extractor, fallback FallbackScanner, events EventStore, calendar CalendarWriter) *Pipeline {
	return &Pipeline{
		extractor: extractor,
		fallback:  fallback,
		events:    events,
		calendar:  calendar,
		now:       time.Now,
	}
}

// Ingest runs extraction over raw text. The model result wins when it has
// events; on model failure the regex scanner runs over the same text and
// each pair is wrapped with defaultClass. ErrNoEvents means both paths
// came up empty and nothing else will happen.
func (p *Pipeline) Ingest(ctx context.Context, rawText, defaultClass string) (*Proposal, error) {
	if p.extractor != nil && p.extractor.IsConfigured() {
		result, err := p.extractor.Extract(ctx, rawText)
		if err == nil {
			if len(result.Events) == 0 {
				return nil, ErrNoEvents
			}
			return &Proposal{Events: result.ToEvents(), Source: SourceModel}, nil
		}
		log.Printf("[pipeline] model extraction failed, using fallback scanner: %v", err)
	}

	scanned := p.fallback.Extract(rawText)
	events := p.wrapScanned(scanned, defaultClass)
	if len(events) == 0 {
		return nil, ErrNoEvents
	}
	return &Proposal{Events: events, Source: SourceFallback}, nil
}

// wrapScanned turns yearless (date, description) pairs into full records.
// The year is resolved to the nearest future occurrence of the month/day.
func (p *Pipeline) wrapScanned(scanned []models.ScannedEvent, defaultClass string) []models.Event {
	now := p.now()
	var events []models.Event
	for _, se := range scanned {
		date, ok := resolveScannedDate(se.Date, now)
		if !ok {
			log.Printf("[pipeline] skipping unparseable scanned date %q", se.Date)
			continue
		}
		events = append(events, models.Event{
			Date:  date,
			Title: se.Description,
			Class: defaultClass,
		})
	}
	return events
}

// resolveScannedDate converts a "Jun 13" style fragment to canonical form.
func resolveScannedDate(fragment string, now time.Time) (string, bool) {
	fields := strings.Fields(fragment)
	if len(fields) != 2 {
		return "", false
	}
	month, ok := utils.MonthByName(fields[0])
	if !ok {
		return "", false
	}
	day, err := strconv.Atoi(fields[1])
	if err != nil || day < 1 || day > 31 {
		return "", false
	}
	return utils.FormatDate(utils.ResolveYear(month, day, now)), true
}

// Commit merges caller-approved records into the account's event set and
// creates one all-day calendar entry per newly-added record. Duplicate
// records are counted but cause no writes. A calendar permission denial is
// surfaced on the result instead of being swallowed.
func (p *Pipeline) Commit(ctx context.Context, accountID string, approved []models.Event) (*CommitResult, error) {
	result := &CommitResult{}
	if len(approved) == 0 {
		return result, nil
	}

	added, err := p.events.AddEvents(accountID, approved)
	if err != nil {
		return nil, err
	}

	// The scanner does not dedup, so one approved batch can repeat a
	// triple. Each appended record claims exactly one copy; the rest
	// count as duplicates and never reach the calendar.
	addedLeft := make(map[models.Event]int, len(added))
	for _, e := range added {
		addedLeft[e]++
	}

	for _, e := range approved {
		outcome := RecordOutcome{Event: e, Added: addedLeft[e] > 0}
		if outcome.Added {
			addedLeft[e]--
		}
		if !outcome.Added {
			result.Duplicates++
			result.Outcomes = append(result.Outcomes, outcome)
			continue
		}
		result.Added++

		if p.calendar != nil {
			switch err := p.calendar.CreateAllDayEvent(accountID, e.Title, e.Date); {
			case err == nil:
				outcome.CalendarStatus = "created"
			case errors.Is(err, calendarstore.ErrPermissionDenied):
				outcome.CalendarStatus = "permission_denied"
				result.CalendarDenied = true
			default:
				outcome.CalendarStatus = "error"
				log.Printf("[pipeline] calendar create failed title=%q date=%s: %v", e.Title, e.Date, err)
			}
		}
		result.Outcomes = append(result.Outcomes, outcome)
	}

	return result, nil
}
