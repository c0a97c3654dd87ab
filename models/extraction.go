package models

// ExtractedEvent is one (title, date) pair as returned by the extraction model.
type ExtractedEvent struct {
	Title string `json:"event"`
	Date  string `json:"date"`
}

// ExtractionResult is the structured output of one syllabus extraction.
// Course is a single value applied to every event parsed from the document.
type ExtractionResult struct {
	Course string           `json:"course"`
	Events []ExtractedEvent `json:"events"`
}

// ToEvents combines each extracted pair with the shared course to produce
// full event records.
func (r ExtractionResult) ToEvents() []Event {
	events := make([]Event, 0, len(r.Events))
	for _, ee := range r.Events {
		events = append(events, Event{
			Date:  ee.Date,
			Title: ee.Title,
			Class: r.Course,
		})
	}
	return events
}

// ScannedEvent is one (date, description) pair produced by the regex fallback
// scanner. The date fragment carries no year; the description is the full
// trimmed source line.
type ScannedEvent struct {
	Date        string
	Description string
}
