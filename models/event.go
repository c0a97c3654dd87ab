package models

// Event is a single deadline/assignment/exam entry tied to one course and one date.
// Date always carries the canonical MM-DD-YYYY form at rest and on the wire.
type Event struct {
	Date  string `json:"date"`
	Title string `json:"event"`
	Class string `json:"class"`
}

// Equal reports whether two events are the same entry. Identity is exact
// string equality of the full (date, title, class) triple; no normalization.
func (e Event) Equal(other Event) bool {
	return e.Date == other.Date && e.Title == other.Title && e.Class == other.Class
}

// ToDocument maps the event to the document-store field shape. The store
// schema uses "class" where the app says course, kept for compatibility
// with existing account documents.
func (e Event) ToDocument() map[string]any {
	return map[string]any{
		"class": e.Class,
		"date":  e.Date,
		"event": e.Title,
	}
}

// ContainsEvent reports whether events already holds an entry equal to candidate.
func ContainsEvent(events []Event, candidate Event) bool {
	for _, e := range events {
		if e.Equal(candidate) {
			return true
		}
	}
	return false
}

// FilterEventsByDate returns the subset of events whose date string-equals
// the given canonical MM-DD-YYYY date. The format is zero-padded everywhere,
// so string equality is the intended comparison.
func FilterEventsByDate(events []Event, date string) []Event {
	var matched []Event
	for _, e := range events {
		if e.Date == date {
			matched = append(matched, e)
		}
	}
	return matched
}
